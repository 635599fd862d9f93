// Package pi30 implements the PI30 inverter dialect: ASCII query commands
// terminated by a CCITT CRC and carriage return, with space-separated reply
// frames. It registers itself under the name "pi30".
package pi30
