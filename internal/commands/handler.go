package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pixil98/go-blockshuffle/internal/display"
	"github.com/pixil98/go-blockshuffle/internal/game"
	"github.com/pixil98/go-blockshuffle/internal/storage"
)

// ParsedInput represents a validated and parsed command input.
type ParsedInput struct {
	Spec  *InputSpec
	Raw   string // Original player input
	Value any    // Parsed value: int for number, string for string
}

// CommandContext is everything a command function gets to work with.
type CommandContext struct {
	// Actor is the display name of the player running the command.
	Actor   string
	Session *game.PlayerState
	// Config holds the command config with input templates expanded.
	Config map[string]string
	Inputs map[string]any
}

// InputContext is the data config templates are expanded with.
type InputContext struct {
	Actor  string
	Inputs map[string]any
}

// CommandFunc is the signature for compiled command functions.
type CommandFunc func(ctx context.Context, cmdCtx *CommandContext) error

// ConfigRequirement names a config key a handler understands.
type ConfigRequirement struct {
	Name     string
	Required bool
	// Raw values are passed through without input expansion.
	Raw bool
}

// HandlerSpec describes the config a handler expects.
type HandlerSpec struct {
	Config []ConfigRequirement
}

// HandlerFactory creates CommandFuncs from command configurations.
type HandlerFactory interface {
	// Spec describes the handler's config, or nil if it takes none.
	Spec() *HandlerSpec
	// ValidateConfig validates that the config contains required fields.
	ValidateConfig(config map[string]any) error
	// Create creates a CommandFunc.
	Create() (CommandFunc, error)
}

// Messenger delivers text to a single player.
type Messenger interface {
	SendMessage(name, msg string) error
}

// Publisher provides the ability to publish messages to subjects
type Publisher interface {
	Publish(subject string, data []byte) error
}

// compiledCommand holds a command that's been validated and compiled.
type compiledCommand struct {
	id      string
	cmd     *Command
	raw     map[string]bool
	cmdFunc CommandFunc
}

type Handler struct {
	store     storage.Storer[*Command]
	factories map[string]HandlerFactory
	compiled  map[string]*compiledCommand
}

func NewHandler(store storage.Storer[*Command]) *Handler {
	return &Handler{
		store:     store,
		factories: make(map[string]HandlerFactory),
		compiled:  make(map[string]*compiledCommand),
	}
}

// RegisterFactory registers a handler factory by name.
// The name must match the "handler" field in command JSON definitions.
func (h *Handler) RegisterFactory(name string, factory HandlerFactory) error {
	if name == "" {
		return fmt.Errorf("handler name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("handler factory cannot be nil")
	}
	if _, exists := h.factories[name]; exists {
		return fmt.Errorf("handler factory %q already registered", name)
	}
	h.factories[name] = factory
	return nil
}

// CompileAll compiles all commands from the store.
// Call this after all handler factories have been registered.
func (h *Handler) CompileAll() error {
	for _, id := range h.store.Keys() {
		if err := h.compile(id, h.store.Get(id)); err != nil {
			return fmt.Errorf("compiling command %q: %w", id, err)
		}
	}
	return nil
}

func (h *Handler) compile(id string, cmd *Command) error {
	factory, ok := h.factories[cmd.Handler]
	if !ok {
		return fmt.Errorf("unknown handler %q", cmd.Handler)
	}

	if err := validateSpec(factory.Spec(), cmd.Config); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	if err := factory.ValidateConfig(cmd.Config); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	cmdFunc, err := factory.Create()
	if err != nil {
		return fmt.Errorf("creating handler: %w", err)
	}

	cc := &compiledCommand{id: id, cmd: cmd, raw: rawKeys(factory.Spec()), cmdFunc: cmdFunc}
	for _, name := range append([]string{id}, cmd.Aliases...) {
		key := strings.ToLower(name)
		if existing, ok := h.compiled[key]; ok {
			return fmt.Errorf("name %q is already used by %q", name, existing.id)
		}
		h.compiled[key] = cc
	}
	return nil
}

func validateSpec(spec *HandlerSpec, config map[string]any) error {
	if spec == nil {
		return nil
	}
	for _, req := range spec.Config {
		if !req.Required {
			continue
		}
		if v, ok := config[req.Name]; !ok || v == "" {
			return fmt.Errorf("%s is required", req.Name)
		}
	}
	return nil
}

func rawKeys(spec *HandlerSpec) map[string]bool {
	raw := map[string]bool{}
	if spec == nil {
		return raw
	}
	for _, req := range spec.Config {
		if req.Raw {
			raw[req.Name] = true
		}
	}
	return raw
}

// Exec executes a command with the given arguments.
func (h *Handler) Exec(ctx context.Context, session *game.PlayerState, cmdName string, rawArgs ...string) error {
	compiled, ok := h.compiled[strings.ToLower(cmdName)]
	if !ok {
		return UserErrorf("Unknown command: %s", cmdName)
	}

	parsed, err := h.parseInputs(compiled.cmd.Inputs, rawArgs)
	if err != nil {
		return err
	}

	inputs := make(map[string]any, len(parsed))
	for _, p := range parsed {
		inputs[p.Spec.Name] = p.Value
	}

	config, err := expandConfig(compiled.cmd.Config, compiled.raw, &InputContext{Actor: session.Name, Inputs: inputs})
	if err != nil {
		return fmt.Errorf("expanding config for %q: %w", compiled.id, err)
	}

	return compiled.cmdFunc(ctx, &CommandContext{
		Actor:   session.Name,
		Session: session,
		Config:  config,
		Inputs:  inputs,
	})
}

// expandConfig renders every config value as a template over the inputs.
func expandConfig(config map[string]any, raw map[string]bool, data *InputContext) (map[string]string, error) {
	out := make(map[string]string, len(config))
	for k, v := range config {
		s, ok := v.(string)
		if !ok {
			out[k] = fmt.Sprint(v)
			continue
		}
		if raw[k] || !strings.Contains(s, "{{") {
			out[k] = s
			continue
		}
		expanded, err := display.ExpandTemplate(s, data)
		if err != nil {
			return nil, fmt.Errorf("config %q: %w", k, err)
		}
		out[k] = expanded
	}
	return out, nil
}

// parseInputs validates raw string arguments against input specs.
func (h *Handler) parseInputs(specs []InputSpec, rawArgs []string) ([]ParsedInput, error) {
	requiredCount := 0
	for _, spec := range specs {
		if spec.Required {
			requiredCount++
		}
	}

	if len(rawArgs) < requiredCount {
		// Prefer the custom message of the first missing input.
		if missing := specs[len(rawArgs)]; missing.Missing != "" {
			return nil, NewUserError(missing.Missing)
		}
		return nil, UserErrorf("Expected at least %d argument(s), got %d.", requiredCount, len(rawArgs))
	}

	// If no rest input, check we don't have too many args
	hasRest := len(specs) > 0 && specs[len(specs)-1].Rest
	if !hasRest && len(rawArgs) > len(specs) {
		return nil, UserErrorf("Expected at most %d argument(s), got %d.", len(specs), len(rawArgs))
	}

	parsed := make([]ParsedInput, 0, len(specs))
	argIndex := 0

	for i := range specs {
		spec := &specs[i]

		if argIndex >= len(rawArgs) {
			continue
		}

		var raw string
		if spec.Rest {
			// Consume all remaining args joined with spaces
			raw = strings.Join(rawArgs[argIndex:], " ")
			argIndex = len(rawArgs)
		} else {
			raw = rawArgs[argIndex]
			argIndex++
		}

		value, err := h.parseValue(spec.Type, raw)
		if err != nil {
			return nil, err
		}

		parsed = append(parsed, ParsedInput{
			Spec:  spec,
			Raw:   raw,
			Value: value,
		})
	}

	return parsed, nil
}

// parseValue parses a raw string into the appropriate type.
func (h *Handler) parseValue(inputType InputType, raw string) (any, error) {
	switch inputType {
	case InputTypeString:
		return raw, nil

	case InputTypeNumber:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, UserErrorf("%q is not a valid number.", raw)
		}
		return n, nil

	default:
		return nil, fmt.Errorf("unknown parameter type %q", inputType)
	}
}
