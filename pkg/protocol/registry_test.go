package protocol

import (
	"errors"
	"testing"

	"github.com/powermon-protocol/powermon-go/pkg/response"
)

// stubCodec is a minimal codec for registry tests.
type stubCodec struct{ id string }

func (c *stubCodec) ID() string                                   { return c.id }
func (c *stubCodec) Commands() map[string]*CommandDefn            { return nil }
func (c *stubCodec) StatusCommands() []string                     { return nil }
func (c *stubCodec) SettingsCommands() []string                   { return nil }
func (c *stubCodec) DefaultCommand() string                       { return "" }
func (c *stubCodec) FullCommand(string) ([]byte, error)           { return nil, ErrNoCommandDefn }
func (c *stubCodec) CommandDefn(string) (*CommandDefn, bool)      { return nil, false }
func (c *stubCodec) Decode([]byte, bool, string) response.Response { return nil }

func TestResolveRegistered(t *testing.T) {
	Register("StubProto", func() Codec { return &stubCodec{id: "stubproto"} })

	// Mixed case resolves: names are lower-cased before lookup.
	codec, err := Resolve("STUBPROTO")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if codec.ID() != "stubproto" {
		t.Errorf("ID = %q, want stubproto", codec.ID())
	}
}

func TestResolveUnknown(t *testing.T) {
	_, err := Resolve("nosuchprotocol")
	if err == nil {
		t.Fatal("Resolve of unknown name succeeded")
	}

	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("error type = %T, want *ResolutionError", err)
	}
	if resErr.Kind != ResolutionNotRegistered {
		t.Errorf("Kind = %v, want ResolutionNotRegistered", resErr.Kind)
	}
	if resErr.Name != "nosuchprotocol" {
		t.Errorf("Name = %q", resErr.Name)
	}
}

func TestResolveNilCodec(t *testing.T) {
	Register("brokenproto", func() Codec { return nil })

	_, err := Resolve("brokenproto")
	if err == nil {
		t.Fatal("Resolve with nil-producing factory succeeded")
	}

	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("error type = %T, want *ResolutionError", err)
	}
	if resErr.Kind != ResolutionNilCodec {
		t.Errorf("Kind = %v, want ResolutionNilCodec", resErr.Kind)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("duplicate Register did not panic")
		}
	}()
	Register("dupproto", func() Codec { return &stubCodec{id: "dupproto"} })
	Register("DupProto", func() Codec { return &stubCodec{id: "dupproto"} })
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("Names not sorted: %v", names)
		}
	}
}
