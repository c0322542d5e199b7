package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pixil98/go-blockshuffle/internal/display"
	"github.com/pixil98/go-blockshuffle/internal/storage"
)

// HelpHandlerFactory creates handlers that display command help.
// Config:
//   - command (optional): the command to describe, usually an input template
type HelpHandlerFactory struct {
	commands storage.Storer[*Command]
	msgr     Messenger
}

// NewHelpHandlerFactory creates a new HelpHandlerFactory.
func NewHelpHandlerFactory(commands storage.Storer[*Command], msgr Messenger) *HelpHandlerFactory {
	return &HelpHandlerFactory{commands: commands, msgr: msgr}
}

func (f *HelpHandlerFactory) Spec() *HandlerSpec {
	return &HandlerSpec{
		Config: []ConfigRequirement{
			{Name: "command", Required: false},
		},
	}
}

func (f *HelpHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *HelpHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		command := strings.TrimSpace(cmdCtx.Config["command"])
		if command != "" {
			return f.showCommand(cmdCtx.Actor, command)
		}

		return f.listCommands(cmdCtx.Actor)
	}, nil
}

// listCommands displays all commands grouped by category.
func (f *HelpHandlerFactory) listCommands(name string) error {
	all := f.commands.GetAll()

	groups := make(map[string][]string)
	for id, cmd := range all {
		category := cmd.Category
		if category == "" {
			category = "other"
		}
		groups[category] = append(groups[category], id)
	}

	categories := make([]string, 0, len(groups))
	for cat := range groups {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	lines := []string{"Available commands:"}
	for _, cat := range categories {
		cmds := groups[cat]
		sort.Strings(cmds)
		lines = append(lines, fmt.Sprintf("  %s: %s", display.Capitalize(cat), strings.Join(cmds, ", ")))
	}

	return f.msgr.SendMessage(name, strings.Join(lines, "\n"))
}

// showCommand displays detailed help for a specific command or alias.
func (f *HelpHandlerFactory) showCommand(name, command string) error {
	id, cmd := f.find(strings.ToLower(command))
	if cmd == nil {
		return UserErrorf("Command %q is unknown.", command)
	}

	lines := []string{fmt.Sprintf("%s: %s", id, cmd.Description)}

	parts := []string{id}
	for _, input := range cmd.Inputs {
		if input.Required {
			parts = append(parts, fmt.Sprintf("<%s>", input.Name))
		} else {
			parts = append(parts, fmt.Sprintf("[%s]", input.Name))
		}
	}
	lines = append(lines, fmt.Sprintf("Usage: %s", strings.Join(parts, " ")))

	if len(cmd.Aliases) > 0 {
		lines = append(lines, fmt.Sprintf("Aliases: %s", strings.Join(cmd.Aliases, ", ")))
	}

	return f.msgr.SendMessage(name, strings.Join(lines, "\n"))
}

func (f *HelpHandlerFactory) find(command string) (string, *Command) {
	if cmd := f.commands.Get(command); cmd != nil {
		return command, cmd
	}
	for id, cmd := range f.commands.GetAll() {
		for _, alias := range cmd.Aliases {
			if strings.EqualFold(alias, command) {
				return id, cmd
			}
		}
	}
	return "", nil
}
