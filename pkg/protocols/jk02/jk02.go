package jk02

import (
	"bytes"
	"fmt"

	"github.com/powermon-protocol/powermon-go/pkg/protocol"
	"github.com/powermon-protocol/powermon-go/pkg/response"
)

func init() {
	protocol.Register("jk02", func() protocol.Codec { return &Codec{} })
}

// Frame constants.
var (
	// commandPrefix starts every 20-byte command frame.
	commandPrefix = []byte{0xAA, 0x55, 0x90, 0xEB}

	// recordStart announces a reply record.
	recordStart = []byte{0x55, 0xAA, 0xEB, 0x90}
)

const commandFrameSize = 20

// Valid reply record lengths. The BMS emits 300-byte records; some firmware
// revisions pad to 320.
var recordLengths = []int{300, 320}

// Codec implements the JK BMS BLE dialect. It is stateless; one instance
// can serve any number of devices.
type Codec struct{}

// ID returns "jk02".
func (c *Codec) ID() string { return "jk02" }

// Commands returns the full command registry.
func (c *Codec) Commands() map[string]*protocol.CommandDefn { return commands }

// StatusCommands lists the status-sweep commands in execution order.
func (c *Codec) StatusCommands() []string { return []string{"getCellInfo"} }

// SettingsCommands lists the settings-sweep commands in execution order.
func (c *Codec) SettingsCommands() []string { return []string{"getInfo"} }

// DefaultCommand returns the command run when none is named.
func (c *Codec) DefaultCommand() string { return "getInfo" }

// CommandDefn looks up the definition for a command name.
func (c *Codec) CommandDefn(command string) (*protocol.CommandDefn, bool) {
	defn, ok := commands[command]
	return defn, ok
}

// FullCommand encodes a command into its 20-byte wire frame: the prefix,
// the command code, zero padding and a trailing checksum over the first
// nineteen bytes.
func (c *Codec) FullCommand(command string) ([]byte, error) {
	defn, ok := commands[command]
	if !ok {
		return nil, fmt.Errorf("%w: %s", protocol.ErrNoCommandDefn, command)
	}

	frame := make([]byte, commandFrameSize)
	copy(frame, commandPrefix)
	frame[4] = defn.Code
	frame[len(frame)-1] = crc8(frame[:len(frame)-1])
	return frame, nil
}

// IsRecordStart reports whether data begins a new reply record.
func (c *Codec) IsRecordStart(data []byte) bool {
	return bytes.HasPrefix(data, recordStart)
}

// IsRecordComplete reports whether record is a full record: start marker,
// one of the valid lengths, and a checksum matching the final byte.
func (c *Codec) IsRecordComplete(record []byte) bool {
	if !c.IsRecordStart(record) {
		return false
	}

	valid := false
	for _, n := range recordLengths {
		if len(record) == n {
			valid = true
			break
		}
	}
	if !valid {
		return false
	}

	return record[len(record)-1] == crc8(record[:len(record)-1])
}

// Decode converts a raw reply record into a Response, consuming bytes in
// the order the field definitions declare.
func (c *Codec) Decode(raw []byte, showRaw bool, command string) response.Response {
	if len(raw) == 0 {
		return response.NewError(&response.CommandError{
			Kind:    response.KindDecode,
			Message: "No response",
		})
	}

	if showRaw {
		return response.Response{"raw_response": {Value: string(raw), Unit: ""}}
	}

	defn, ok := commands[command]
	if !ok {
		return response.NewError(&response.CommandError{
			Kind:    response.KindDecode,
			Message: fmt.Sprintf("No definition for command %s in protocol jk02", command),
		})
	}

	return decodeRecord(raw, defn.Response)
}

// decodeRecord walks the field definitions over the record bytes.
// A record shorter than the definitions expect stops decoding at the
// fields already filed.
func decodeRecord(record []byte, fields []protocol.FieldDefn) response.Response {
	result := response.Response{}
	rest := record

	take := func(n int) ([]byte, bool) {
		if len(rest) < n {
			return nil, false
		}
		chunk := rest[:n]
		rest = rest[n:]
		return chunk, true
	}

	for _, field := range fields {
		switch field.Kind {
		case protocol.FieldHex:
			chunk, ok := take(field.Size)
			if !ok {
				return result
			}
			result[field.Name] = response.Field{Value: fmt.Sprintf("%x", chunk), Unit: field.Unit}

		case protocol.FieldASCII:
			chunk, ok := take(field.Size)
			if !ok {
				return result
			}
			var b bytes.Buffer
			for _, c := range chunk {
				if c == 0 {
					continue
				}
				b.WriteByte(c)
			}
			result[field.Name] = response.Field{Value: b.String(), Unit: field.Unit}

		case protocol.FieldByte, protocol.FieldInt:
			chunk, ok := take(1)
			if !ok {
				return result
			}
			result[field.Name] = response.Field{Value: int(chunk[0]), Unit: field.Unit}

		case protocol.FieldDiscard:
			if _, ok := take(field.Size); !ok {
				return result
			}

		case protocol.FieldUptime:
			chunk, ok := take(field.Size)
			if !ok {
				return result
			}
			var seconds int
			for i, b := range chunk {
				seconds += int(b) << (8 * i)
			}
			result[field.Name] = response.Field{Value: formatUptime(seconds), Unit: field.Unit}

		case protocol.Field16Int1000:
			chunk, ok := take(2)
			if !ok {
				return result
			}
			v := float64(int(chunk[0])*256+int(chunk[1])) / 1000
			result[field.Name] = response.Field{Value: fmt.Sprintf("%.3f", v), Unit: field.Unit}

		case protocol.Field2ByteHex:
			chunk, ok := take(2)
			if !ok {
				return result
			}
			result[field.Name] = response.Field{Value: fmt.Sprintf("%.4f", decode2ByteHex(chunk)), Unit: field.Unit}

		case protocol.Field4ByteHex:
			chunk, ok := take(4)
			if !ok {
				return result
			}
			result[field.Name] = response.Field{Value: fmt.Sprintf("%.4f", decode4ByteHex(chunk)), Unit: field.Unit}

		case protocol.FieldLoop:
			for i := 0; i < field.Size; i++ {
				name := fmt.Sprintf("%s%02d", field.Name, i+1)
				switch field.Sub {
				case protocol.Field2ByteHex:
					chunk, ok := take(2)
					if !ok {
						return result
					}
					result[name] = response.Field{Value: fmt.Sprintf("%.4f", decode2ByteHex(chunk)), Unit: field.Unit}
				case protocol.Field4ByteHex:
					chunk, ok := take(4)
					if !ok {
						return result
					}
					result[name] = response.Field{Value: fmt.Sprintf("%.4f", decode4ByteHex(chunk)), Unit: field.Unit}
				case protocol.Field16Int1000:
					chunk, ok := take(2)
					if !ok {
						return result
					}
					v := float64(int(chunk[0])*256+int(chunk[1])) / 1000
					result[name] = response.Field{Value: fmt.Sprintf("%.3f", v), Unit: field.Unit}
				}
			}

		case protocol.FieldRemainder:
			result["remainder"] = response.Field{Value: fmt.Sprintf("%x", rest), Unit: ""}
			result["len remainder"] = response.Field{Value: len(rest), Unit: ""}
			return result
		}
	}
	return result
}

// formatUptime renders a second count as days/hours/minutes/seconds.
func formatUptime(seconds int) string {
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60
	return fmt.Sprintf("%dD%dH%dM%dS", days, hours, minutes, seconds%60)
}

// Compile-time interface checks.
var (
	_ protocol.Codec           = (*Codec)(nil)
	_ protocol.RecordAssembler = (*Codec)(nil)
)
