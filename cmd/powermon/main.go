// Command powermon queries power devices (inverters, battery management
// systems) over serial, USB, Bluetooth-LE or an ESP32 network bridge.
//
// The tool binds one device to a communications port and a protocol dialect,
// runs one or more commands through it, and prints or publishes the decoded
// results. Failures are reported in-band as an ERROR field so batch runs
// and publishing keep a uniform shape.
//
// Usage:
//
//	powermon [flags]
//
// Flags:
//
//	-name string       Device name (default "unnamed")
//	-port string       Device locator: path, MAC address or bridge host
//	-protocol string   Protocol dialect (default "pi30")
//	-baud int          Serial baud rate (default 2400)
//	-command string    Commands to run, comma separated; CMD=alias keys the result
//	-show-raw          Return raw responses without decoding
//	-status            Run the protocol's status command set
//	-settings          Run the protocol's settings command set
//	-list              List the protocol's commands
//	-list-protocols    List registered protocol dialects
//	-discover          Browse for ESP32 bridges via mDNS
//	-config string     YAML configuration file path
//	-output string     Output format: table, json (default "table")
//	-mqtt              Publish results to the configured MQTT broker
//	-log-file string   CBOR event log path
//	-log-level string  Log level: debug, info, warn, error (default "info")
//	-interactive       Start an interactive shell
//
// Examples:
//
//	# Query general status from a serial inverter
//	powermon -port /dev/ttyUSB0 -protocol pi30 -command QPIGS
//
//	# Batch run with aliases, JSON output
//	powermon -port test -command "QPIGS=status,QMOD=mode" -output json
//
//	# Query a JK BMS over BLE and publish to MQTT
//	powermon -port 3C:A5:09:0A:AA:D4 -protocol jk02 -config powermon.yaml -mqtt
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/powermon-protocol/powermon-go/pkg/config"
	"github.com/powermon-protocol/powermon-go/pkg/device"
	"github.com/powermon-protocol/powermon-go/pkg/discovery"
	"github.com/powermon-protocol/powermon-go/pkg/log"
	"github.com/powermon-protocol/powermon-go/pkg/mqtt"
	"github.com/powermon-protocol/powermon-go/pkg/protocol"
	"github.com/powermon-protocol/powermon-go/pkg/response"

	_ "github.com/powermon-protocol/powermon-go/pkg/protocols"
)

type options struct {
	name     string
	port     string
	proto    string
	baud     int
	command  string
	showRaw  bool
	status   bool
	settings bool
	list     bool

	listProtocols bool
	discover      bool

	configFile  string
	output      string
	publish     bool
	logFile     string
	logLevel    string
	interactive bool
}

func main() {
	var opts options

	flag.StringVar(&opts.name, "name", "", "Device name")
	flag.StringVar(&opts.port, "port", "", "Device locator: path, MAC address or bridge host")
	flag.StringVar(&opts.proto, "protocol", "", "Protocol dialect")
	flag.IntVar(&opts.baud, "baud", 0, "Serial baud rate")
	flag.StringVar(&opts.command, "command", "", "Commands to run, comma separated; CMD=alias keys the result")
	flag.BoolVar(&opts.showRaw, "show-raw", false, "Return raw responses without decoding")
	flag.BoolVar(&opts.status, "status", false, "Run the protocol's status command set")
	flag.BoolVar(&opts.settings, "settings", false, "Run the protocol's settings command set")
	flag.BoolVar(&opts.list, "list", false, "List the protocol's commands")
	flag.BoolVar(&opts.listProtocols, "list-protocols", false, "List registered protocol dialects")
	flag.BoolVar(&opts.discover, "discover", false, "Browse for ESP32 bridges via mDNS")
	flag.StringVar(&opts.configFile, "config", "", "YAML configuration file path")
	flag.StringVar(&opts.output, "output", "table", "Output format: table, json")
	flag.BoolVar(&opts.publish, "mqtt", false, "Publish results to the configured MQTT broker")
	flag.StringVar(&opts.logFile, "log-file", "", "CBOR event log path")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.BoolVar(&opts.interactive, "interactive", false, "Start an interactive shell")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "powermon: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	if opts.listProtocols {
		for _, name := range protocol.Names() {
			fmt.Println(name)
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.discover {
		return discoverBridges(ctx)
	}

	logger, closeLog, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	dev := device.New(device.Config{
		Name:     cfg.Device.Name,
		Port:     cfg.Device.Port,
		Protocol: cfg.Device.Protocol,
		Baud:     cfg.Device.Baud,
		TCPPort:  cfg.Device.TCPPort,
		Timeout:  cfg.Device.Timeout,
		Logger:   logger,
	})
	defer dev.Close()

	if opts.interactive {
		sh, err := newShell(dev, opts.output)
		if err != nil {
			return err
		}
		sh.run(ctx)
		return nil
	}

	var publisher *mqtt.Publisher
	if opts.publish {
		publisher, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return err
		}
		defer publisher.Close()
	}

	results := execute(ctx, dev, opts)

	if err := printBatch(results, opts.output); err != nil {
		return err
	}
	if publisher != nil {
		return publisher.PublishBatch(dev.Name(), results)
	}
	return nil
}

// loadConfig merges the config file (when given) with command-line
// overrides. Flags win over the file, the file wins over defaults.
func loadConfig(opts options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configFile != "" {
		loaded, err := config.Load(opts.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if opts.name != "" {
		cfg.Device.Name = opts.name
	}
	if opts.port != "" {
		cfg.Device.Port = opts.port
	}
	if opts.proto != "" {
		cfg.Device.Protocol = opts.proto
	}
	if opts.baud > 0 {
		cfg.Device.Baud = opts.baud
	}
	if opts.logFile != "" {
		cfg.Logging.File = opts.logFile
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildLogger assembles the event logger: a slog adapter on stderr, plus
// the CBOR file logger when a path is configured.
func buildLogger(cfg *config.Config) (log.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
		level = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	loggers := []log.Logger{log.NewSlogAdapter(slog.New(handler))}

	closeLog := func() {}
	if cfg.Logging.File != "" {
		fileLogger, err := log.NewFileLogger(cfg.Logging.File)
		if err != nil {
			return nil, nil, fmt.Errorf("opening event log: %w", err)
		}
		loggers = append(loggers, fileLogger)
		closeLog = func() { _ = fileLogger.Close() }
	}

	return log.NewMultiLogger(loggers...), closeLog, nil
}

// execute runs whatever operation the flags selected. The default, with no
// operation flags and no commands, is the protocol's default command.
func execute(ctx context.Context, dev *device.Device, opts options) response.Batch {
	switch {
	case opts.list:
		return response.Batch{"commands": dev.ListCommands()}
	case opts.status:
		return response.Batch{"status": dev.GetStatus(ctx, opts.showRaw)}
	case opts.settings:
		return response.Batch{"settings": dev.GetSettings(ctx, opts.showRaw)}
	case opts.command != "":
		return dev.RunCommands(ctx, parseCommands(opts.command, opts.showRaw))
	default:
		return response.Batch{"default": dev.RunDefaultCommand(ctx, opts.showRaw)}
	}
}

// parseCommands splits the -command flag into batch entries. Entries are
// comma separated; "CMD=alias" keys the result under the alias.
func parseCommands(list string, showRaw bool) []device.Command {
	parts := strings.Split(list, ",")
	commands := make([]device.Command, 0, len(parts))
	for _, part := range parts {
		name, alias, _ := strings.Cut(strings.TrimSpace(part), "=")
		commands = append(commands, device.Command{Name: name, Alias: alias, ShowRaw: showRaw})
	}
	return commands
}

// printBatch renders the batch in the selected output format.
func printBatch(batch response.Batch, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(batch, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil

	case "table":
		keys := make([]string, 0, len(batch))
		for k := range batch {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if len(batch) > 1 {
				fmt.Printf("%s:\n", key)
			}
			fmt.Print(batch[key].String())
		}
		return nil

	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// discoverBridges browses for ESP32 bridges until interrupted.
func discoverBridges(ctx context.Context) error {
	browseCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	browser := discovery.NewBrowser(discovery.BrowserConfig{})
	results, err := browser.Browse(browseCtx)
	if err != nil {
		return err
	}

	fmt.Println("Browsing for bridges...")
	found := 0
	for svc := range results {
		found++
		fmt.Printf("%-24s %s:%d model=%s fw=%s device=%s\n",
			svc.InstanceName, svc.Locator(), svc.Port, svc.Model, svc.Firmware, svc.DeviceName)
	}
	if found == 0 {
		fmt.Println("No bridges found.")
	}
	return nil
}
