// Command powermon-log is a tool for viewing and analyzing powermon event
// log files.
//
// Log files are created by running powermon with the -log-file flag; they
// hold a CBOR stream of pipeline events (commands, frames, binding changes
// and errors).
//
// Usage:
//
//	powermon-log <command> [flags] <file.plog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSONL or CSV format
//	filter   Write matching events to a new log file
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	powermon-log view device.plog
//
//	# View only transport-layer frames
//	powermon-log view -layer transport -category frame device.plog
//
//	# Export to JSONL
//	powermon-log export -format jsonl device.plog
//
//	# Keep one device's events in a smaller file
//	powermon-log filter -device inverter -o inverter.plog device.plog
//
//	# Show statistics
//	powermon-log stats device.plog
package main

import (
	"fmt"
	"os"

	"github.com/powermon-protocol/powermon-go/cmd/powermon-log/commands"
)

const usage = `powermon-log - event log analyzer

Usage:
  powermon-log <command> [flags] <file.plog>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSONL or CSV format
  filter   Write matching events to a new log file
  stats    Show statistics about the log file

Use "powermon-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "view":
		err = commands.View(args, os.Stdout)
	case "export":
		err = commands.Export(args, os.Stdout)
	case "filter":
		err = commands.Filter(args, os.Stdout)
	case "stats":
		err = commands.Stats(args, os.Stdout)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "powermon-log: %v\n", err)
		os.Exit(1)
	}
}
