package commands

import (
	"context"
	"fmt"
	"text/template"

	"github.com/pixil98/go-blockshuffle/internal/display"
)

const defaultStatusTemplate = `{{- if not .Running -}}
No game is running.
{{- else -}}
Round {{ .Round }}, {{ .Remaining }}s left.
{{- range .Participants }}
  {{ printf "%-16s" .Name }} {{ .Targets | join " | " }}{{ if .Completed }} (found){{ end }}
{{- end }}
{{- end }}`

// StatusHandlerFactory creates handlers that describe the running game.
// Config:
//   - template (optional): text/template rendered with shuffle.Status
type StatusHandlerFactory struct {
	runner Runner
	msgr   Messenger
}

func NewStatusHandlerFactory(runner Runner, msgr Messenger) *StatusHandlerFactory {
	return &StatusHandlerFactory{runner: runner, msgr: msgr}
}

func (f *StatusHandlerFactory) Spec() *HandlerSpec {
	return &HandlerSpec{
		Config: []ConfigRequirement{
			{Name: "template", Required: false, Raw: true},
		},
	}
}

func (f *StatusHandlerFactory) ValidateConfig(config map[string]any) error {
	if v, ok := config["template"]; ok {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("template must be a string")
		}
		if _, err := display.NewTemplate("status", s); err != nil {
			return err
		}
	}
	return nil
}

func (f *StatusHandlerFactory) Create() (CommandFunc, error) {
	fallback, err := display.NewTemplate("status", defaultStatusTemplate)
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, cmdCtx *CommandContext) error {
		tmpl := fallback
		if src := cmdCtx.Config["template"]; src != "" {
			var err error
			tmpl, err = display.NewTemplate("status", src)
			if err != nil {
				return err
			}
		}

		st, err := f.runner.Status(ctx)
		if err != nil {
			return fmt.Errorf("reading game status: %w", err)
		}

		return f.render(cmdCtx.Actor, tmpl, st)
	}, nil
}

func (f *StatusHandlerFactory) render(name string, tmpl *template.Template, data any) error {
	out, err := display.Execute(tmpl, data)
	if err != nil {
		return err
	}
	return f.msgr.SendMessage(name, out)
}
