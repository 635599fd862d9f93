package device

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powermon-protocol/powermon-go/pkg/protocol"
	"github.com/powermon-protocol/powermon-go/pkg/response"
	"github.com/powermon-protocol/powermon-go/pkg/transport"
)

// stubCodec is a minimal text dialect for pipeline tests. PING carries two
// captured replies so loopback cycling is observable; every decode also
// writes a "shared" key so merge collisions are observable.
type stubCodec struct {
	decodes int
}

var stubCommands = map[string]*protocol.CommandDefn{
	"PING": {
		Name:          "PING",
		Description:   "liveness query",
		TestResponses: [][]byte{[]byte("(pong1"), []byte("(pong2")},
	},
	"VER": {
		Name:          "VER",
		Description:   "firmware version",
		TestResponses: [][]byte{[]byte("(v1.0")},
	},
	"CFG": {
		Name:          "CFG",
		Description:   "configuration dump",
		TestResponses: [][]byte{[]byte("(cfg")},
	},
	"NOREPLY": {
		Name:        "NOREPLY",
		Description: "query with no captures",
	},
}

func (c *stubCodec) ID() string                               { return "stubproto" }
func (c *stubCodec) Commands() map[string]*protocol.CommandDefn { return stubCommands }
func (c *stubCodec) StatusCommands() []string                 { return []string{"PING", "VER"} }
func (c *stubCodec) SettingsCommands() []string               { return []string{"CFG"} }
func (c *stubCodec) DefaultCommand() string                   { return "PING" }

func (c *stubCodec) CommandDefn(command string) (*protocol.CommandDefn, bool) {
	defn, ok := stubCommands[command]
	return defn, ok
}

func (c *stubCodec) FullCommand(command string) ([]byte, error) {
	if _, ok := stubCommands[command]; !ok {
		return nil, fmt.Errorf("%w: %s", protocol.ErrNoCommandDefn, command)
	}
	return append([]byte(command), '\r'), nil
}

func (c *stubCodec) Decode(raw []byte, showRaw bool, command string) response.Response {
	c.decodes++
	if showRaw {
		return response.Response{"raw_response": {Value: string(raw), Unit: ""}}
	}
	return response.Response{
		command:  {Value: string(raw), Unit: ""},
		"shared": {Value: command, Unit: ""},
	}
}

func init() {
	protocol.Register("stubproto", func() protocol.Codec { return &stubCodec{} })
}

// recordRaw counts exchanges so tests can assert that precondition failures
// never reach the transport.
type recordRaw struct {
	calls   int
	lastTx  []byte
	reply   []byte
	replyEr error
}

func (r *recordRaw) Kind() transport.Kind { return transport.KindTest }
func (r *recordRaw) String() string       { return "recorder" }
func (r *recordRaw) Close() error         { return nil }

func (r *recordRaw) SendAndReceive(_ context.Context, payload []byte, _ *protocol.CommandDefn) ([]byte, error) {
	r.calls++
	r.lastTx = payload
	return r.reply, r.replyEr
}

// awareStub exercises the protocol-aware capability path.
type awareStub struct {
	lastCommand string
	lastShowRaw bool
	resp        response.Response
}

func (a *awareStub) Kind() transport.Kind { return transport.KindBLE }
func (a *awareStub) String() string       { return "aware" }
func (a *awareStub) Close() error         { return nil }

func (a *awareStub) RunCommand(_ context.Context, command string, showRaw bool, _ protocol.Codec) response.Response {
	a.lastCommand = command
	a.lastShowRaw = showRaw
	return a.resp
}

func TestRunCommandNoProtocol(t *testing.T) {
	port := &recordRaw{}
	d := New(Config{Name: "inv"})
	d.port = port

	resp := d.RunCommand(context.Background(), "PING", false)

	require.True(t, resp.IsError())
	msg, _ := resp.ErrorMessage()
	assert.Equal(t, "Attempted to run command with no protocol defined", msg)
	assert.Equal(t, 0, port.calls, "transport must not be touched without a protocol")
}

func TestRunCommandNoPort(t *testing.T) {
	d := New(Config{Name: "inv", Protocol: "stubproto"})

	resp := d.RunCommand(context.Background(), "PING", false)

	require.True(t, resp.IsError())
	msg, _ := resp.ErrorMessage()
	assert.Equal(t, "No communications port defined - unable to run command PING", msg)
}

func TestRunCommandLoopback(t *testing.T) {
	d := New(Config{Name: "inv", Protocol: "stubproto"})
	d.port = transport.NewLoopback()

	first := d.RunCommand(context.Background(), "PING", false)
	require.False(t, first.IsError())
	assert.Equal(t, "(pong1", first["PING"].Value)

	second := d.RunCommand(context.Background(), "PING", false)
	assert.Equal(t, "(pong2", second["PING"].Value)

	third := d.RunCommand(context.Background(), "PING", false)
	assert.Equal(t, "(pong1", third["PING"].Value, "captures cycle")
}

func TestRunCommandShowRaw(t *testing.T) {
	d := New(Config{Name: "inv", Protocol: "stubproto"})
	d.port = transport.NewLoopback()

	resp := d.RunCommand(context.Background(), "PING", true)
	require.False(t, resp.IsError())
	assert.Equal(t, "(pong1", resp["raw_response"].Value)
}

func TestRunCommandUnknown(t *testing.T) {
	port := &recordRaw{}
	d := New(Config{Name: "inv", Protocol: "stubproto"})
	d.port = port

	resp := d.RunCommand(context.Background(), "BOGUS", false)

	require.True(t, resp.IsError())
	msg, _ := resp.ErrorMessage()
	assert.Contains(t, msg, "BOGUS")
	assert.Equal(t, 0, port.calls, "encode failure must not reach the transport")
}

func TestRunCommandTransportError(t *testing.T) {
	codec := &stubCodec{}
	port := &recordRaw{replyEr: errors.New("read timeout")}
	d := New(Config{Name: "inv"})
	d.codec = codec
	d.port = port

	resp := d.RunCommand(context.Background(), "PING", false)

	require.True(t, resp.IsError())
	msg, _ := resp.ErrorMessage()
	assert.Equal(t, "read timeout", msg)
	assert.Equal(t, 1, port.calls)
	assert.Equal(t, 0, codec.decodes, "transport failure is returned without decode")
}

func TestRunCommandProtocolAware(t *testing.T) {
	want := response.Response{"soc": {Value: 87, Unit: "%"}}
	port := &awareStub{resp: want}
	d := New(Config{Name: "bms", Protocol: "stubproto"})
	d.port = port

	resp := d.RunCommand(context.Background(), "getInfo", true)

	assert.Equal(t, want, resp)
	assert.Equal(t, "getInfo", port.lastCommand)
	assert.True(t, port.lastShowRaw)
}

func TestRunDefaultCommand(t *testing.T) {
	d := New(Config{Name: "inv", Protocol: "stubproto"})
	d.port = transport.NewLoopback()

	resp := d.RunDefaultCommand(context.Background(), false)
	require.False(t, resp.IsError())
	assert.Contains(t, resp, "PING")
}

func TestRunDefaultCommandNoProtocol(t *testing.T) {
	d := New(Config{Name: "inv"})
	d.port = transport.NewLoopback()

	resp := d.RunDefaultCommand(context.Background(), false)
	require.True(t, resp.IsError())
	msg, _ := resp.ErrorMessage()
	assert.Equal(t, "Attempted to run command with no protocol defined", msg)
}

func TestGetStatusMergesInOrder(t *testing.T) {
	d := New(Config{Name: "inv", Protocol: "stubproto"})
	d.port = transport.NewLoopback()

	resp := d.GetStatus(context.Background(), false)

	require.False(t, resp.IsError())
	assert.Equal(t, "(pong1", resp["PING"].Value)
	assert.Equal(t, "(v1.0", resp["VER"].Value)
	assert.Equal(t, "VER", resp["shared"].Value, "later command wins colliding keys")
}

func TestGetSettings(t *testing.T) {
	d := New(Config{Name: "inv", Protocol: "stubproto"})
	d.port = transport.NewLoopback()

	resp := d.GetSettings(context.Background(), false)

	require.False(t, resp.IsError())
	assert.Equal(t, "(cfg", resp["CFG"].Value)
}

func TestGetStatusNoProtocol(t *testing.T) {
	d := New(Config{Name: "inv"})

	resp := d.GetStatus(context.Background(), false)
	require.True(t, resp.IsError())
}

func TestListCommands(t *testing.T) {
	d := New(Config{Name: "inv", Protocol: "stubproto"})

	resp := d.ListCommands()
	require.False(t, resp.IsError())
	assert.Equal(t, "liveness query", resp["PING"].Value)
	assert.Len(t, resp, len(stubCommands))
}

func TestListCommandsNoProtocol(t *testing.T) {
	d := New(Config{Name: "inv"})

	resp := d.ListCommands()
	require.True(t, resp.IsError())
	assert.Len(t, resp, 1)
	msg, _ := resp.ErrorMessage()
	assert.Equal(t, "Attempted to list commands with no protocol defined", msg)
}

func TestSetProtocolUnknownUnbinds(t *testing.T) {
	d := New(Config{Name: "inv", Protocol: "stubproto"})
	require.NotNil(t, d.Protocol())

	err := d.SetProtocol("nonesuch")

	var resErr *protocol.ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, protocol.ResolutionNotRegistered, resErr.Kind)
	assert.Nil(t, d.Protocol(), "failed resolution leaves no protocol bound")
}

func TestSetProtocolEmptyUnbinds(t *testing.T) {
	d := New(Config{Name: "inv", Protocol: "stubproto"})
	require.NotNil(t, d.Protocol())

	require.NoError(t, d.SetProtocol(""))
	assert.Nil(t, d.Protocol())
}

func TestSetPortReplacesBinding(t *testing.T) {
	d := New(Config{Name: "inv", Port: "test"})
	require.NotNil(t, d.Port())
	assert.Equal(t, transport.KindTest, d.Port().Kind())

	d.SetPort("esp32.local")
	assert.Equal(t, transport.KindESP32, d.Port().Kind())

	d.SetPort("")
	assert.Nil(t, d.Port())
}

func TestNewNeverFails(t *testing.T) {
	d := New(Config{Name: "inv", Port: "test", Protocol: "nonesuch"})

	require.NotNil(t, d)
	assert.Nil(t, d.Protocol())
	assert.NotEmpty(t, d.ID())

	resp := d.RunCommand(context.Background(), "PING", false)
	require.True(t, resp.IsError())
	msg, _ := resp.ErrorMessage()
	assert.Equal(t, "Attempted to run command with no protocol defined", msg)
}

func TestDeviceString(t *testing.T) {
	d := New(Config{Name: "inv", Port: "test", Protocol: "stubproto"})
	assert.Equal(t, "device inv - port: loopback, protocol: stubproto", d.String())

	unbound := New(Config{Name: "bare"})
	assert.Equal(t, "device bare - port: none, protocol: none", unbound.String())
}
