package protocol

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Factory constructs a codec instance.
type Factory func() Codec

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// ResolutionKind distinguishes the two ways resolving a protocol name fails.
type ResolutionKind uint8

const (
	// ResolutionNotRegistered means no factory is registered under the name.
	ResolutionNotRegistered ResolutionKind = iota

	// ResolutionNilCodec means a factory exists but produced no codec.
	ResolutionNilCodec
)

// ResolutionError reports a failed protocol lookup. It is expected and
// recoverable: the caller degrades to an unbound-protocol state.
type ResolutionError struct {
	Name string
	Kind ResolutionKind
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	switch e.Kind {
	case ResolutionNilCodec:
		return fmt.Sprintf("protocol %q registered but constructed no codec", e.Name)
	default:
		return fmt.Sprintf("no protocol registered for %q", e.Name)
	}
}

// Register adds a codec factory under the given name. Names are
// case-insensitive; registration is expected from init functions of
// concrete codec packages. Register panics on a duplicate or nil factory,
// as both indicate a programming error.
func Register(name string, factory Factory) {
	id := strings.ToLower(name)

	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic(fmt.Sprintf("protocol: nil factory for %q", id))
	}
	if _, dup := registry[id]; dup {
		panic(fmt.Sprintf("protocol: duplicate registration for %q", id))
	}
	registry[id] = factory
}

// Resolve looks up a protocol name and constructs its codec.
// The name is lower-cased before lookup. Failures return a *ResolutionError.
func Resolve(name string) (Codec, error) {
	id := strings.ToLower(name)

	registryMu.RLock()
	factory, ok := registry[id]
	registryMu.RUnlock()

	if !ok {
		return nil, &ResolutionError{Name: id, Kind: ResolutionNotRegistered}
	}
	codec := factory()
	if codec == nil {
		return nil, &ResolutionError{Name: id, Kind: ResolutionNilCodec}
	}
	return codec, nil
}

// Names returns the registered protocol names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
