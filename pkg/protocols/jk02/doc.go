// Package jk02 implements the JK BMS BLE dialect: 20-byte framed commands
// with a summing checksum, and fixed-length binary reply records announced
// by the 0x55AAEB90 start marker. It registers itself under the name "jk02".
package jk02
