package shuffle

import (
	"context"
	"log/slog"
	"text/template"

	"github.com/pixil98/go-blockshuffle/internal/display"
	"github.com/pixil98/go-errors"
)

// Messages holds the text/template source for every announcement. Templates
// may use sprig functions and the fields of messageData.
type Messages struct {
	Started        string `json:"started"`
	Ended          string `json:"ended"`
	AlreadyRunning string `json:"already_running"`
	NotRunning     string `json:"not_running"`
	GameOver       string `json:"game_over"`
	Assigned       string `json:"assigned"`
	Found          string `json:"found"`
	FoundSelf      string `json:"found_self"`
	AllCompleted   string `json:"all_completed"`
	Eliminated     string `json:"eliminated"`
	EliminatedSelf string `json:"eliminated_self"`
	WaitForEnd     string `json:"wait_for_end"`
}

// DefaultMessages returns the stock announcements.
func DefaultMessages() Messages {
	return Messages{
		Started:        "BlockShuffle has started!",
		Ended:          "BlockShuffle has ended.",
		AlreadyRunning: "BlockShuffle is already running.",
		NotRunning:     "BlockShuffle is not running.",
		GameOver:       "Game Over! {{ .Name }} wins!",
		Assigned:       `Your blocks: {{ join " | " .Blocks }}`,
		Found:          "{{ .Name }} found one of their blocks!",
		FoundSelf:      "Round complete! You stepped on your block.",
		AllCompleted:   "All players completed the round! Next round...",
		Eliminated:     "{{ .Name }} failed to find a block and is now spectating.",
		EliminatedSelf: "You lost. Now spectating.",
		WaitForEnd:     "Wait for the current game to end.",
	}
}

// Merge returns m with empty fields filled from defaults.
func (m Messages) Merge(defaults Messages) Messages {
	pick := func(v, d string) string {
		if v == "" {
			return d
		}
		return v
	}
	return Messages{
		Started:        pick(m.Started, defaults.Started),
		Ended:          pick(m.Ended, defaults.Ended),
		AlreadyRunning: pick(m.AlreadyRunning, defaults.AlreadyRunning),
		NotRunning:     pick(m.NotRunning, defaults.NotRunning),
		GameOver:       pick(m.GameOver, defaults.GameOver),
		Assigned:       pick(m.Assigned, defaults.Assigned),
		Found:          pick(m.Found, defaults.Found),
		FoundSelf:      pick(m.FoundSelf, defaults.FoundSelf),
		AllCompleted:   pick(m.AllCompleted, defaults.AllCompleted),
		Eliminated:     pick(m.Eliminated, defaults.Eliminated),
		EliminatedSelf: pick(m.EliminatedSelf, defaults.EliminatedSelf),
		WaitForEnd:     pick(m.WaitForEnd, defaults.WaitForEnd),
	}
}

func (m Messages) fields() map[string]string {
	return map[string]string{
		"started":         m.Started,
		"ended":           m.Ended,
		"already_running": m.AlreadyRunning,
		"not_running":     m.NotRunning,
		"game_over":       m.GameOver,
		"assigned":        m.Assigned,
		"found":           m.Found,
		"found_self":      m.FoundSelf,
		"all_completed":   m.AllCompleted,
		"eliminated":      m.Eliminated,
		"eliminated_self": m.EliminatedSelf,
		"wait_for_end":    m.WaitForEnd,
	}
}

// Validate checks that every template parses.
func (m Messages) Validate() error {
	_, err := m.compile()
	return err
}

func (m Messages) compile() (*messageSet, error) {
	el := errors.NewErrorList()
	set := &messageSet{
		src:   m.fields(),
		tmpls: map[string]*template.Template{},
	}
	for key, src := range set.src {
		tmpl, err := display.NewTemplate(key, src)
		if err != nil {
			el.Add(err)
			continue
		}
		set.tmpls[key] = tmpl
	}
	if err := el.Err(); err != nil {
		return nil, err
	}
	return set, nil
}

// messageData is the template input for announcements.
type messageData struct {
	Name    string
	Blocks  []string
	Round   int
	Session string
}

type messageSet struct {
	src   map[string]string
	tmpls map[string]*template.Template
}

// render expands the named template. A failed expansion falls back to the
// raw template source so the announcement is never lost.
func (s *messageSet) render(ctx context.Context, key string, data messageData) string {
	tmpl, ok := s.tmpls[key]
	if !ok {
		slog.ErrorContext(ctx, "unknown message template", "key", key)
		return key
	}
	out, err := display.Execute(tmpl, data)
	if err != nil {
		slog.ErrorContext(ctx, "rendering message", "key", key, "error", err)
		return s.src[key]
	}
	return out
}
