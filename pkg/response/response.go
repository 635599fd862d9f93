package response

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ErrorKey is the reserved Response key carrying an in-band failure.
const ErrorKey = "ERROR"

// Field is a single decoded value with its unit.
// It serializes as a two-element array: [value, unit].
type Field struct {
	Value any
	Unit  string
}

// MarshalJSON encodes the field as [value, unit].
func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{f.Value, f.Unit})
}

// UnmarshalJSON decodes a [value, unit] array.
func (f *Field) UnmarshalJSON(data []byte) error {
	var raw [2]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("field is not a [value, unit] pair: %w", err)
	}
	f.Value = raw[0]
	unit, ok := raw[1].(string)
	if !ok && raw[1] != nil {
		return fmt.Errorf("field unit is not a string: %v", raw[1])
	}
	f.Unit = unit
	return nil
}

// Response is the uniform output of a command execution: decoded fields
// keyed by name, or a single entry under ErrorKey when the command failed.
type Response map[string]Field

// IsError reports whether the response carries an in-band failure.
func (r Response) IsError() bool {
	_, ok := r[ErrorKey]
	return ok
}

// ErrorMessage returns the in-band failure message, if any.
func (r Response) ErrorMessage() (string, bool) {
	f, ok := r[ErrorKey]
	if !ok {
		return "", false
	}
	msg, _ := f.Value.(string)
	return msg, true
}

// Merge copies every field of other into r. Keys already present are
// overwritten; the last written command wins.
func (r Response) Merge(other Response) {
	for k, v := range other {
		r[k] = v
	}
}

// String renders the response as aligned "name: value unit" lines with
// keys in sorted order.
func (r Response) String() string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		f := r[k]
		fmt.Fprintf(&b, "%-30s\t%v %s\n", k, f.Value, f.Unit)
	}
	return b.String()
}

// Batch holds the results of an ordered multi-command run, keyed by each
// command's name or alias. Alias collisions overwrite; the later command's
// result wins.
type Batch map[string]Response
