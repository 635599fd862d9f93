package discovery

import (
	"net"
	"testing"

	"github.com/enbility/zeroconf/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntry() *zeroconf.ServiceEntry {
	return &zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{
			Instance: "shed-bridge",
			Service:  ServiceType,
			Domain:   Domain,
		},
		HostName: "shed-bridge.local.",
		Port:     8899,
		Text:     []string{"model=esp32-c3", "fw=1.2.0", "device=shed-inverter"},
		AddrIPv4: []net.IP{net.ParseIP("192.168.1.50")},
	}
}

func TestEntryToBridge(t *testing.T) {
	svc := entryToBridge(testEntry())
	require.NotNil(t, svc)

	assert.Equal(t, "shed-bridge", svc.InstanceName)
	assert.Equal(t, "shed-bridge.local.", svc.Host)
	assert.Equal(t, 8899, svc.Port)
	assert.Equal(t, []string{"192.168.1.50"}, svc.Addresses)
	assert.Equal(t, "esp32-c3", svc.Model)
	assert.Equal(t, "1.2.0", svc.Firmware)
	assert.Equal(t, "shed-inverter", svc.DeviceName)
}

func TestEntryToBridgeNil(t *testing.T) {
	assert.Nil(t, entryToBridge(nil))
}

func TestLocator(t *testing.T) {
	svc := entryToBridge(testEntry())
	assert.Equal(t, "192.168.1.50", svc.Locator())

	svc.Addresses = nil
	assert.Equal(t, "shed-bridge.local", svc.Locator(), "hostname fallback drops the trailing dot")
}

func TestParseTXT(t *testing.T) {
	txt := parseTXT([]string{"model=esp32-c3", "fw=1.2.0", "flag", "=skipped"})

	assert.Equal(t, "esp32-c3", txt["model"])
	assert.Equal(t, "1.2.0", txt["fw"])
	assert.Equal(t, "", txt["flag"])
	assert.NotContains(t, txt, "")
}

func TestMergeAddresses(t *testing.T) {
	merged := mergeAddresses([]string{"192.168.1.50"}, []string{"192.168.1.50", "fe80::1"})
	assert.Equal(t, []string{"192.168.1.50", "fe80::1"}, merged)

	merged = mergeAddresses(nil, []string{"10.0.0.1"})
	assert.Equal(t, []string{"10.0.0.1"}, merged)
}

func TestRemoveAddresses(t *testing.T) {
	entry := testEntry()

	remaining := removeAddresses([]string{"192.168.1.50", "fe80::1"}, entry)
	assert.Equal(t, []string{"fe80::1"}, remaining)

	remaining = removeAddresses(remaining, entry)
	assert.Equal(t, []string{"fe80::1"}, remaining, "unrelated addresses survive")
}
