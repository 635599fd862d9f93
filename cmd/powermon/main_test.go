package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powermon-protocol/powermon-go/pkg/device"
)

func TestParseCommands(t *testing.T) {
	commands := parseCommands("QPIGS", false)
	require.Len(t, commands, 1)
	assert.Equal(t, device.Command{Name: "QPIGS"}, commands[0])

	commands = parseCommands("QPIGS=status, QMOD=mode ,QPI", true)
	require.Len(t, commands, 3)
	assert.Equal(t, device.Command{Name: "QPIGS", Alias: "status", ShowRaw: true}, commands[0])
	assert.Equal(t, device.Command{Name: "QMOD", Alias: "mode", ShowRaw: true}, commands[1])
	assert.Equal(t, device.Command{Name: "QPI", ShowRaw: true}, commands[2])
}

func TestParseCommandsEmptyEntry(t *testing.T) {
	commands := parseCommands("QPIGS,,QPI", false)
	require.Len(t, commands, 3)
	assert.Empty(t, commands[1].Name, "empty entries surface as malformed batch entries")
}

func TestLoadConfigFlagPrecedence(t *testing.T) {
	cfg, err := loadConfig(options{port: "/dev/ttyUSB1", proto: "jk02", baud: 9600})
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyUSB1", cfg.Device.Port)
	assert.Equal(t, "jk02", cfg.Device.Protocol)
	assert.Equal(t, 9600, cfg.Device.Baud)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(options{})
	require.NoError(t, err)

	assert.Equal(t, "pi30", cfg.Device.Protocol)
	assert.Equal(t, 2400, cfg.Device.Baud)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	_, err := loadConfig(options{baud: 0, logLevel: "verbose"})
	assert.Error(t, err)
}
