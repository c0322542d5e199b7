package progress

import (
	"fmt"
	"log/slog"
)

// Reporter shows the remaining round time to participants.
type Reporter interface {
	Update(remaining, total int)
}

// TimeLeft formats the countdown label.
func TimeLeft(remaining int) string {
	return fmt.Sprintf("Time Left: %ds", remaining)
}

// Fraction returns remaining/total clamped to [0, 1].
func Fraction(remaining, total int) float64 {
	if total <= 0 {
		return 0
	}
	return clamp(float64(remaining) / float64(total))
}

// BarReporter drives a shared Indicator.
type BarReporter struct {
	ind Indicator
}

func NewBarReporter(ind Indicator) *BarReporter {
	return &BarReporter{ind: ind}
}

func (r *BarReporter) Update(remaining, total int) {
	r.ind.SetTitle(TimeLeft(remaining))
	r.ind.SetProgress(Fraction(remaining, total))
}

// TipSender delivers transient tips to online participants.
type TipSender interface {
	OnlineNames() []string
	SendTip(name, msg string) error
}

// TipReporter sends the countdown as a tip to every online participant.
type TipReporter struct {
	tips TipSender
}

func NewTipReporter(tips TipSender) *TipReporter {
	return &TipReporter{tips: tips}
}

func (r *TipReporter) Update(remaining, total int) {
	msg := TimeLeft(remaining)
	for _, name := range r.tips.OnlineNames() {
		if err := r.tips.SendTip(name, msg); err != nil {
			slog.Warn("sending countdown tip", "player", name, "error", err)
		}
	}
}
