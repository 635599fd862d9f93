package transport

import (
	"context"
	"errors"
	"sync"

	"github.com/powermon-protocol/powermon-go/pkg/protocol"
)

// ErrNoTestResponse indicates the command definition carries no captured
// frames for the loopback to serve.
var ErrNoTestResponse = errors.New("no test responses for command")

// Loopback is the emulated backend. Instead of touching hardware it serves
// the captured reply frames stored in the command definition, cycling
// through them so repeated runs exercise every capture.
type Loopback struct {
	mu   sync.Mutex
	next map[string]int
}

// NewLoopback creates a loopback backend.
func NewLoopback() *Loopback {
	return &Loopback{next: make(map[string]int)}
}

// Kind returns KindTest.
func (l *Loopback) Kind() Kind { return KindTest }

// String returns a printable description.
func (l *Loopback) String() string { return "loopback" }

// SendAndReceive returns the next captured frame for the command.
// The payload is ignored; the definition drives the reply.
func (l *Loopback) SendAndReceive(_ context.Context, _ []byte, defn *protocol.CommandDefn) ([]byte, error) {
	if defn == nil || len(defn.TestResponses) == 0 {
		return nil, ErrNoTestResponse
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.next[defn.Name] % len(defn.TestResponses)
	l.next[defn.Name]++

	// Copy so callers cannot mutate the stored capture.
	frame := make([]byte, len(defn.TestResponses[i]))
	copy(frame, defn.TestResponses[i])
	return frame, nil
}

// Close is a no-op.
func (l *Loopback) Close() error { return nil }
