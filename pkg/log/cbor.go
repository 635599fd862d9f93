package log

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Event files are a plain concatenation of CBOR maps with integer keys.
// Encoding is canonical so identical events always produce identical
// bytes; timestamps travel as RFC3339Nano strings to keep nanosecond
// precision. Decoding is deliberately permissive, letting newer readers
// open files written by older builds.
var (
	logEncMode = mustEncMode(cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	})
	logDecMode = mustDecMode(cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	})
)

func mustEncMode(opts cbor.EncOptions) cbor.EncMode {
	mode, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("log: invalid CBOR encoder options: %v", err))
	}
	return mode
}

func mustDecMode(opts cbor.DecOptions) cbor.DecMode {
	mode, err := opts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("log: invalid CBOR decoder options: %v", err))
	}
	return mode
}

// EncodeEvent renders a single event as CBOR bytes.
func EncodeEvent(event Event) ([]byte, error) {
	return logEncMode.Marshal(event)
}

// DecodeEvent parses CBOR bytes back into an Event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	err := logDecMode.Unmarshal(data, &event)
	return event, err
}

// NewEncoder returns a streaming encoder writing event maps to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return logEncMode.NewEncoder(w)
}

// NewDecoder returns a streaming decoder reading event maps from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return logDecMode.NewDecoder(r)
}
