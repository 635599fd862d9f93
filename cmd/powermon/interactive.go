package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/chzyer/readline"

	"github.com/powermon-protocol/powermon-go/pkg/device"
	"github.com/powermon-protocol/powermon-go/pkg/protocol"
	"github.com/powermon-protocol/powermon-go/pkg/response"
)

// shell is the interactive command loop around one device.
type shell struct {
	dev    *device.Device
	output string
	rl     *readline.Instance
}

func newShell(dev *device.Device, output string) (*shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "powermon> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &shell{dev: dev, output: output, rl: rl}, nil
}

// run reads and dispatches commands until EOF or interrupt.
func (s *shell) run(ctx context.Context) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "run", "r":
			s.cmdRun(ctx, args)

		case "raw":
			s.cmdRaw(ctx, args)

		case "status", "st":
			s.show(s.dev.GetStatus(ctx, false))

		case "settings", "se":
			s.show(s.dev.GetSettings(ctx, false))

		case "list", "l":
			s.show(s.dev.ListCommands())

		case "protocols":
			for _, name := range protocol.Names() {
				fmt.Fprintln(s.rl.Stdout(), name)
			}

		case "protocol", "p":
			s.cmdProtocol(args)

		case "port":
			s.cmdPort(args)

		case "info":
			fmt.Fprintln(s.rl.Stdout(), s.dev.String())

		case "exit", "quit", "q":
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			return

		default:
			fmt.Fprintf(s.rl.Stdout(), "Unknown command %q. Type 'help' for a list.\n", cmd)
		}
	}
}

func (s *shell) printHelp() {
	fmt.Fprint(s.rl.Stdout(), `Commands:
  run <command>        run a command (alias: r)
  raw <command>        run a command, show the raw response
  status               run the protocol's status command set (alias: st)
  settings             run the protocol's settings command set (alias: se)
  list                 list the protocol's commands (alias: l)
  protocols            list registered protocol dialects
  protocol <name>      bind a different protocol (alias: p)
  port <locator>       bind a different communications port
  info                 show the device and its bindings
  help                 show this help (alias: ?)
  exit                 leave the shell (aliases: quit, q)
`)
}

func (s *shell) cmdRun(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "usage: run <command>")
		return
	}
	s.show(s.dev.RunCommand(ctx, args[0], false))
}

func (s *shell) cmdRaw(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "usage: raw <command>")
		return
	}
	s.show(s.dev.RunCommand(ctx, args[0], true))
}

func (s *shell) cmdProtocol(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "usage: protocol <name>")
		return
	}
	if err := s.dev.SetProtocol(args[0]); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "protocol: %v\n", err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "protocol bound: %s\n", args[0])
}

func (s *shell) cmdPort(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "usage: port <locator>")
		return
	}
	s.dev.SetPort(args[0])
	fmt.Fprintf(s.rl.Stdout(), "port bound: %s\n", args[0])
}

func (s *shell) show(resp response.Response) {
	fmt.Fprint(s.rl.Stdout(), resp.String())
}
