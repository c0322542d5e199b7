// Package progress renders the round countdown to participants.
package progress

// Indicator is a shared progress display that a set of viewers can see.
type Indicator interface {
	SetTitle(title string)
	SetProgress(fraction float64)
	AddViewer(name string)
	RemoveViewer(name string)
	RemoveAllViewers()
}

// Nop is an Indicator that does nothing. It is used when no shared display
// is configured.
type Nop struct{}

func (Nop) SetTitle(string)     {}
func (Nop) SetProgress(float64) {}
func (Nop) AddViewer(string)    {}
func (Nop) RemoveViewer(string) {}
func (Nop) RemoveAllViewers()   {}
