package discovery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/enbility/zeroconf/v3"
)

// mDNS service parameters for ESP32 bridges.
const (
	// ServiceType is the bridge service advertised over mDNS.
	ServiceType = "_powermon._tcp"

	// Domain is the mDNS domain.
	Domain = "local."
)

// ErrNotFound indicates no matching bridge was discovered before the
// context expired.
var ErrNotFound = errors.New("bridge not found")

// BridgeService describes one discovered ESP32 bridge.
type BridgeService struct {
	// InstanceName is the mDNS instance name.
	InstanceName string

	// Host is the advertised hostname.
	Host string

	// Port is the bridge's TCP command port.
	Port int

	// Addresses holds the resolved IP addresses, aggregated across
	// interfaces.
	Addresses []string

	// Model is the bridge hardware model from the TXT records.
	Model string

	// Firmware is the bridge firmware version from the TXT records.
	Firmware string

	// DeviceName names the power device attached to the bridge.
	DeviceName string
}

// Locator returns the transport locator for the bridge: the first resolved
// address, falling back to the advertised hostname.
func (s *BridgeService) Locator() string {
	if len(s.Addresses) > 0 {
		return s.Addresses[0]
	}
	return strings.TrimSuffix(s.Host, ".")
}

// BrowserConfig configures a Browser.
type BrowserConfig struct {
	// Interface restricts browsing to one network interface by name.
	// Empty means all interfaces.
	Interface string
}

// Browser discovers ESP32 bridges via mDNS.
type Browser struct {
	config BrowserConfig
}

// NewBrowser creates an mDNS bridge browser.
func NewBrowser(config BrowserConfig) *Browser {
	return &Browser{config: config}
}

// Browse searches for bridges until the context is cancelled. Services are
// aggregated by instance name: addresses seen on multiple interfaces are
// combined into the already-emitted entry, and a service whose last address
// disappears is dropped from the aggregate.
func (b *Browser) Browse(ctx context.Context) (<-chan *BridgeService, error) {
	out := make(chan *BridgeService)

	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	opts := b.browserOptions()

	go func() {
		defer close(out)

		services := make(map[string]*BridgeService)

		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				svc := entryToBridge(entry)
				if svc == nil {
					continue
				}

				existing, found := services[svc.InstanceName]
				if found {
					existing.Addresses = mergeAddresses(existing.Addresses, svc.Addresses)
				} else {
					services[svc.InstanceName] = svc
					select {
					case out <- svc:
					case <-ctx.Done():
						return
					}
				}

			case entry, ok := <-removed:
				if !ok {
					continue
				}
				if existing, found := services[entry.Instance]; found {
					existing.Addresses = removeAddresses(existing.Addresses, entry)
					if len(existing.Addresses) == 0 {
						delete(services, entry.Instance)
					}
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		_ = zeroconf.Browse(ctx, ServiceType, Domain, entries, removed, opts...)
	}()

	return out, nil
}

// Find searches for a bridge by instance name.
func (b *Browser) Find(ctx context.Context, instance string) (*BridgeService, error) {
	results, err := b.Browse(ctx)
	if err != nil {
		return nil, err
	}

	for {
		select {
		case svc, ok := <-results:
			if !ok {
				return nil, ErrNotFound
			}
			if svc.InstanceName == instance {
				return svc, nil
			}
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s", ErrNotFound, ctx.Err())
		}
	}
}

// browserOptions returns zeroconf client options based on config.
func (b *Browser) browserOptions() []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption

	if b.config.Interface != "" {
		iface, err := net.InterfaceByName(b.config.Interface)
		if err == nil {
			opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
		}
	}

	return opts
}

// entryToBridge converts a zeroconf entry to a BridgeService.
func entryToBridge(entry *zeroconf.ServiceEntry) *BridgeService {
	if entry == nil {
		return nil
	}

	txt := parseTXT(entry.Text)

	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}

	return &BridgeService{
		InstanceName: entry.Instance,
		Host:         entry.HostName,
		Port:         entry.Port,
		Addresses:    addrs,
		Model:        txt["model"],
		Firmware:     txt["fw"],
		DeviceName:   txt["device"],
	}
}

// parseTXT splits "key=value" TXT records into a map. Records without an
// equals sign are kept as flags with an empty value.
func parseTXT(records []string) map[string]string {
	txt := make(map[string]string, len(records))
	for _, record := range records {
		key, value, _ := strings.Cut(record, "=")
		if key == "" {
			continue
		}
		txt[key] = value
	}
	return txt
}

// mergeAddresses adds new addresses to the existing list, avoiding
// duplicates.
func mergeAddresses(existing, incoming []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, addr := range existing {
		seen[addr] = true
	}

	for _, addr := range incoming {
		if !seen[addr] {
			existing = append(existing, addr)
			seen[addr] = true
		}
	}
	return existing
}

// removeAddresses removes the entry's addresses from the list.
func removeAddresses(addresses []string, entry *zeroconf.ServiceEntry) []string {
	toRemove := make(map[string]bool)
	for _, ip := range entry.AddrIPv4 {
		toRemove[ip.String()] = true
	}
	for _, ip := range entry.AddrIPv6 {
		toRemove[ip.String()] = true
	}

	result := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		if !toRemove[addr] {
			result = append(result, addr)
		}
	}
	return result
}
