package commands

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// InputType represents the type of a command input parameter.
type InputType string

const (
	InputTypeString InputType = "string" // Text input (single word if rest=false, multi-word if rest=true)
	InputTypeNumber InputType = "number" // Integer
)

// InputSpec defines an input parameter that a command accepts from user input.
type InputSpec struct {
	Name     string    `json:"name"`
	Type     InputType `json:"type"`
	Required bool      `json:"required"`
	Rest     bool      `json:"rest"`              // If true, captures all remaining input
	Missing  string    `json:"missing,omitempty"` // Shown when a required input is absent
}

// Command defines a command loaded from JSON.
type Command struct {
	Handler     string         `json:"handler"`
	Category    string         `json:"category,omitempty"`
	Description string         `json:"description,omitempty"`
	Aliases     []string       `json:"aliases,omitempty"`
	Config      map[string]any `json:"config"` // Config passed to handler, may contain templates
	Inputs      []InputSpec    `json:"inputs"` // User input parameters
}

func (c *Command) Validate() error {
	el := errors.NewErrorList()

	if c.Handler == "" {
		el.Add(fmt.Errorf("command handler not set"))
	}

	seen := make(map[string]bool, len(c.Inputs))
	for i, input := range c.Inputs {
		if input.Name == "" {
			el.Add(fmt.Errorf("input %d: name is required", i))
			continue
		}
		if seen[input.Name] {
			el.Add(fmt.Errorf("input %q: duplicate name", input.Name))
		}
		seen[input.Name] = true

		switch input.Type {
		case InputTypeString, InputTypeNumber:
		case "":
			el.Add(fmt.Errorf("input %q: type is required", input.Name))
		default:
			el.Add(fmt.Errorf("input %q: unknown type %q", input.Name, input.Type))
		}

		// Only the last input can have rest=true
		if input.Rest && i != len(c.Inputs)-1 {
			el.Add(fmt.Errorf("input %q: only the last input can have rest=true", input.Name))
		}
	}

	for _, alias := range c.Aliases {
		if alias == "" {
			el.Add(fmt.Errorf("aliases must not be empty"))
		}
	}

	return el.Err()
}
