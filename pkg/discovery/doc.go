// Package discovery finds ESP32 serial bridges on the local network via
// mDNS. Bridges advertise a _powermon._tcp service whose TXT records carry
// the bridge model and the name of the attached device; the discovered host
// and port form a locator the transport layer can bind directly.
package discovery
