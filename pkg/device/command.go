package device

import (
	"context"
	"fmt"

	"github.com/powermon-protocol/powermon-go/pkg/response"
)

// Command is one entry of a batch run: the command name, an optional alias
// used as the result key, and the raw-response flag. An entry with an empty
// Name is malformed and produces an in-band error result.
type Command struct {
	Name    string
	Alias   string
	ShowRaw bool
}

// Key returns the batch result key for the command: the alias when set,
// otherwise the command name.
func (c Command) Key() string {
	if c.Alias != "" {
		return c.Alias
	}
	return c.Name
}

// RunCommands executes a batch of commands sequentially, keying each result
// by the entry's Key. A malformed entry yields an error result keyed
// "Command N" without aborting the rest of the batch. On a duplicate key
// the later result wins.
func (d *Device) RunCommands(ctx context.Context, commands []Command) response.Batch {
	results := response.Batch{}
	for i, cmd := range commands {
		if cmd.Name == "" {
			results[fmt.Sprintf("Command %d", i)] = response.NewError(&response.CommandError{
				Kind:    response.KindBadCommand,
				Message: "Unknown command format",
				Detail:  "(Indexed from 0)",
			})
			continue
		}
		results[cmd.Key()] = d.RunCommand(ctx, cmd.Name, cmd.ShowRaw)
	}
	return results
}
