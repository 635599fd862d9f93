package pi30

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/powermon-protocol/powermon-go/pkg/protocol"
	"github.com/powermon-protocol/powermon-go/pkg/response"
)

func init() {
	protocol.Register("pi30", func() protocol.Codec { return &Codec{} })
}

// Codec implements the PI30 dialect. It is stateless; one instance can
// serve any number of devices.
type Codec struct{}

// ID returns "pi30".
func (c *Codec) ID() string { return "pi30" }

// Commands returns the full command registry.
func (c *Codec) Commands() map[string]*protocol.CommandDefn { return commands }

// StatusCommands lists the status-sweep commands in execution order.
func (c *Codec) StatusCommands() []string { return []string{"QPIGS", "QMOD"} }

// SettingsCommands lists the settings-sweep commands in execution order.
func (c *Codec) SettingsCommands() []string { return []string{"QPIRI"} }

// DefaultCommand returns the command run when none is named.
func (c *Codec) DefaultCommand() string { return "QPIGS" }

// CommandDefn looks up the definition for a command name.
func (c *Codec) CommandDefn(command string) (*protocol.CommandDefn, bool) {
	defn, ok := commands[command]
	return defn, ok
}

// FullCommand encodes a command into its wire payload:
// the ASCII name, two checksum bytes and a carriage return.
func (c *Codec) FullCommand(command string) ([]byte, error) {
	if _, ok := commands[command]; !ok {
		return nil, fmt.Errorf("%w: %s", protocol.ErrNoCommandDefn, command)
	}

	payload := []byte(command)
	hi, lo := checksum(payload)
	return append(payload, hi, lo, '\r'), nil
}

// Decode converts a raw PI30 reply frame into a Response. The frame is
// trimmed of its leading '(' and trailing checksum and CR, then split on
// spaces; each token is decoded by the positional field definition.
// Checksum bytes are not re-verified on receive: replies from old firmware
// occasionally carry bumped bytes the frame trim already accounts for.
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
			Message: fmt.Sprintf("No definition for command %s in protocol pi30", command),
		})
	}

	tokens := strings.Split(string(trimFrame(raw)), " ")

	result := response.Response{}
	for i, token := range tokens {
		if i >= len(defn.Response) {
			result[fmt.Sprintf("Unknown value in response %d", i)] = response.Field{Value: token, Unit: ""}
			continue
		}
		decodeField(result, defn.Response[i], token)
	}
	return result
}

// trimFrame strips the leading '(' and the trailing CR and checksum bytes.
func trimFrame(raw []byte) []byte {
	frame := bytes.TrimSuffix(raw, []byte{'\r'})
	frame = bytes.TrimPrefix(frame, []byte{'('})
	if len(frame) > 2 {
		frame = frame[:len(frame)-2]
	}
	return frame
}

// decodeField files one token into the result under the field's rules.
func decodeField(result response.Response, field protocol.FieldDefn, token string) {
	switch field.Kind {
	case protocol.FieldFloat:
		if v, err := strconv.ParseFloat(token, 64); err == nil {
			result[field.Name] = response.Field{Value: v, Unit: field.Unit}
			return
		}
		result[field.Name] = response.Field{Value: token, Unit: field.Unit}

	case protocol.FieldInt:
		if v, err := strconv.Atoi(token); err == nil {
			result[field.Name] = response.Field{Value: v, Unit: field.Unit}
			return
		}
		result[field.Name] = response.Field{Value: token, Unit: field.Unit}

	case protocol.FieldOption:
		if display, ok := field.Options[token]; ok {
			result[field.Name] = response.Field{Value: display, Unit: field.Unit}
			return
		}
		result[field.Name] = response.Field{Value: fmt.Sprintf("Unknown option: %s", token), Unit: field.Unit}

	case protocol.FieldFlags:
		for i, name := range field.Flags {
			if name == "" || i >= len(token) {
				continue
			}
			bit := 0
			if token[i] == '1' {
				bit = 1
			}
			result[name] = response.Field{Value: bit, Unit: "bool"}
		}

	default:
		result[field.Name] = response.Field{Value: token, Unit: field.Unit}
	}
}

// Compile-time interface check.
var _ protocol.Codec = (*Codec)(nil)
