package shuffle

import (
	"math"
	"time"

	"github.com/pixil98/go-blockshuffle/internal/driver"
	"github.com/pixil98/go-blockshuffle/internal/material"
)

// Position is a participant's location in the world.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// BlockPos is an integer block coordinate.
type BlockPos struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// BlockBelow returns the coordinate of the block the position is standing on.
func (p Position) BlockBelow() BlockPos {
	return BlockPos{
		X: int(math.Floor(p.X)),
		Y: int(math.Floor(p.Y)) - 1,
		Z: int(math.Floor(p.Z)),
	}
}

// Participant is a snapshot of an online player.
type Participant struct {
	Name      string
	Spectator bool
	Position  Position
}

// Host is the game world the controller runs in.
type Host interface {
	// OnlineParticipants lists everyone currently online, spectators included.
	OnlineParticipants() []Participant
	BlockAt(pos BlockPos) material.Material
	SetSpectator(name string) error
	ClearSpectator(name string) error
}

// Messenger delivers text to participants.
type Messenger interface {
	Broadcast(msg string) error
	SendMessage(name, msg string) error
	SendTip(name, msg string) error
}

// Scheduler runs the round timer.
type Scheduler interface {
	ScheduleRepeating(fn driver.TaskFunc, interval time.Duration) driver.TaskHandle
	Cancel(h driver.TaskHandle)
}

// tipSender adapts a Host and Messenger for progress.TipReporter.
type tipSender struct {
	host Host
	msgr Messenger
}

func (t tipSender) OnlineNames() []string {
	ps := t.host.OnlineParticipants()
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}
	return names
}

func (t tipSender) SendTip(name, msg string) error {
	return t.msgr.SendTip(name, msg)
}
