package transport

import (
	"bytes"
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/powermon-protocol/powermon-go/pkg/protocol"
)

func TestFromLocatorDispatch(t *testing.T) {
	tests := []struct {
		locator string
		want    Kind
	}{
		{"test", KindTest},
		{"/dev/hidraw0", KindUSB},
		{"esp32.local", KindESP32},
		{"3c:a5:09:0a:85:79", KindBLE},
		{"/dev/ttyUSB0", KindSerial},
		{"", KindSerial},
	}

	for _, tt := range tests {
		tr := FromLocator(tt.locator, Config{})
		if tr.Kind() != tt.want {
			t.Errorf("FromLocator(%q).Kind() = %v, want %v", tt.locator, tr.Kind(), tt.want)
		}
	}
}

func TestLoopbackServesTestResponses(t *testing.T) {
	defn := &protocol.CommandDefn{
		Name: "QPI",
		TestResponses: [][]byte{
			[]byte("(PI30\x9a\x0b\r"),
			[]byte("(PI30\x9a\x0c\r"),
		},
	}

	lb := NewLoopback()
	first, err := lb.SendAndReceive(context.Background(), []byte("QPI"), defn)
	if err != nil {
		t.Fatalf("SendAndReceive failed: %v", err)
	}
	if !bytes.Equal(first, defn.TestResponses[0]) {
		t.Errorf("first reply = %q", first)
	}

	// Replies cycle through the captures, then wrap.
	second, _ := lb.SendAndReceive(context.Background(), nil, defn)
	third, _ := lb.SendAndReceive(context.Background(), nil, defn)
	if !bytes.Equal(second, defn.TestResponses[1]) {
		t.Errorf("second reply = %q", second)
	}
	if !bytes.Equal(third, defn.TestResponses[0]) {
		t.Errorf("third reply = %q", third)
	}
}

func TestLoopbackNoTestResponses(t *testing.T) {
	lb := NewLoopback()

	_, err := lb.SendAndReceive(context.Background(), nil, &protocol.CommandDefn{Name: "QPI"})
	if !errors.Is(err, ErrNoTestResponse) {
		t.Errorf("error = %v, want ErrNoTestResponse", err)
	}

	_, err = lb.SendAndReceive(context.Background(), nil, nil)
	if !errors.Is(err, ErrNoTestResponse) {
		t.Errorf("nil defn error = %v, want ErrNoTestResponse", err)
	}
}

func TestLoopbackCopiesCapture(t *testing.T) {
	capture := []byte("(OK\x00\x00\r")
	defn := &protocol.CommandDefn{Name: "Q", TestResponses: [][]byte{capture}}

	lb := NewLoopback()
	reply, err := lb.SendAndReceive(context.Background(), nil, defn)
	if err != nil {
		t.Fatalf("SendAndReceive failed: %v", err)
	}
	reply[0] = 'X'
	if capture[0] != '(' {
		t.Error("caller mutation leaked into the stored capture")
	}
}

// startBridge emulates an ESP32 bridge: accepts one connection, echoes a
// fixed reply after consuming the command.
func startBridge(t *testing.T, reply []byte) (host string, port int) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		buf := make([]byte, 64)
		_, _ = conn.Read(buf)
		_, _ = conn.Write(reply)
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return addr.IP.String(), addr.Port
}

func TestESP32Exchange(t *testing.T) {
	reply := []byte("(226.2 49.9\x12\x34\r")
	host, port := startBridge(t, reply)

	e := NewESP32(host, Config{TCPPort: port, Timeout: 2 * time.Second})
	got, err := e.SendAndReceive(context.Background(), []byte("QPIGS\xb7\xa9\r"), nil)
	if err != nil {
		t.Fatalf("SendAndReceive failed: %v", err)
	}
	if !bytes.Equal(got, reply) {
		t.Errorf("reply = %q, want %q", got, reply)
	}
}

func TestESP32DialFailure(t *testing.T) {
	// Dial a port nothing listens on.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	e := NewESP32("127.0.0.1", Config{TCPPort: port, Timeout: time.Second})
	_, err = e.SendAndReceive(context.Background(), []byte("QPI"), nil)
	if err == nil {
		t.Fatal("expected dial error")
	}
}

func TestReadUntilCR(t *testing.T) {
	r := bytes.NewReader([]byte("(PI30\x9a\x0b\rtrailing"))
	got, err := readUntilCR(context.Background(), r, time.Second)
	if err != nil {
		t.Fatalf("readUntilCR failed: %v", err)
	}
	if string(got) != "(PI30\x9a\x0b\r" {
		t.Errorf("got %q", got)
	}
}

func TestFrameEventTruncation(t *testing.T) {
	small := frameEvent([]byte("abc"))
	if small.Truncated || small.Size != 3 {
		t.Errorf("small frame: %+v", small)
	}

	big := frameEvent(bytes.Repeat([]byte("x"), 1000))
	if !big.Truncated || big.Size != 1000 || len(big.Data) != 256 {
		t.Errorf("big frame: size=%d truncated=%v len=%d", big.Size, big.Truncated, len(big.Data))
	}
}
