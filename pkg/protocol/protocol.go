package protocol

import (
	"errors"

	"github.com/powermon-protocol/powermon-go/pkg/response"
)

// Codec errors.
var (
	// ErrNoCommandDefn indicates a command name has no definition in the
	// codec's registry.
	ErrNoCommandDefn = errors.New("no definition for command")
)

// FieldKind identifies how a response field is decoded.
// The interpretation is codec-specific: text dialects split the frame into
// tokens, binary dialects consume bytes from the record.
type FieldKind string

// Field kinds shared across codecs. Individual codecs may support a subset.
const (
	// Text-frame kinds (token per field).
	FieldFloat  FieldKind = "float"
	FieldInt    FieldKind = "int"
	FieldString FieldKind = "string"
	FieldOption FieldKind = "option"
	FieldFlags  FieldKind = "flags"

	// Binary-record kinds (bytes per field).
	FieldHex       FieldKind = "hex"
	FieldASCII     FieldKind = "ascii"
	FieldByte      FieldKind = "byte"
	FieldDiscard   FieldKind = "discard"
	FieldUptime    FieldKind = "uptime"
	Field16Int1000 FieldKind = "16int1000"
	Field2ByteHex  FieldKind = "2bytehex"
	Field4ByteHex  FieldKind = "4bytehex"
	FieldLoop      FieldKind = "loop"
	FieldRemainder FieldKind = "rem"
)

// FieldDefn describes one field of a decoded response.
type FieldDefn struct {
	// Kind selects the decode rule.
	Kind FieldKind

	// Size is the byte count for binary kinds, or the iteration count
	// for FieldLoop.
	Size int

	// Name is the response key the decoded value is filed under.
	// Loop fields append a 1-based two-digit index.
	Name string

	// Unit is the measurement unit attached to the value.
	Unit string

	// Sub is the element kind for FieldLoop.
	Sub FieldKind

	// Options maps raw token values to display values for FieldOption.
	Options map[string]string

	// Flags names each bit position for FieldFlags, in frame order.
	// An empty name skips that bit.
	Flags []string
}

// CommandDefn describes a single command of a protocol dialect.
type CommandDefn struct {
	// Name is the command name as callers issue it.
	Name string

	// Description is a human-readable summary, surfaced by ListCommands.
	Description string

	// Help is extended usage text.
	Help string

	// Type classifies the command ("QUERY" or "SETTER").
	Type string

	// Code is the binary command code for framed dialects.
	Code byte

	// RecordType identifies the reply record type for framed dialects.
	RecordType byte

	// Response is the ordered decode specification.
	Response []FieldDefn

	// TestResponses holds captured reply frames. The loopback transport
	// serves these so the full pipeline can run without hardware.
	TestResponses [][]byte
}

// Codec is the wire-protocol capability a device binds to. Implementations
// must be stateless with respect to individual commands: every method may
// be called in any order.
type Codec interface {
	// ID returns the protocol identifier (the registered name).
	ID() string

	// Commands returns the full command registry.
	Commands() map[string]*CommandDefn

	// StatusCommands lists the commands that make up a status sweep,
	// in execution order.
	StatusCommands() []string

	// SettingsCommands lists the commands that make up a settings sweep,
	// in execution order.
	SettingsCommands() []string

	// DefaultCommand returns the command run when none is named.
	DefaultCommand() string

	// FullCommand encodes a command name into the complete wire payload,
	// including framing and checksum. Returns ErrNoCommandDefn (wrapped)
	// for unknown commands.
	FullCommand(command string) ([]byte, error)

	// CommandDefn looks up the definition for a command name.
	CommandDefn(command string) (*CommandDefn, bool)

	// Decode converts a raw reply into a Response. When showRaw is set the
	// raw frame is returned under "raw_response" without field decoding.
	// Decode failures are reported in-band under the ERROR key.
	Decode(raw []byte, showRaw bool, command string) response.Response
}

// RecordAssembler is an optional codec capability for dialects whose replies
// arrive as a stream of fragments (BLE notifications). Transports that
// assemble records query for it to know when a record is complete.
type RecordAssembler interface {
	// IsRecordStart reports whether data begins a new record.
	IsRecordStart(data []byte) bool

	// IsRecordComplete reports whether record is a full, checksummed record.
	IsRecordComplete(record []byte) bool
}
