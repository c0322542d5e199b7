package shuffle

// Status is a point in time view of the game.
type Status struct {
	Running       bool                `json:"running"`
	SessionId     string              `json:"session_id,omitempty"`
	Round         int                 `json:"round,omitempty"`
	Remaining     int                 `json:"remaining"`
	RoundDuration int                 `json:"round_duration"`
	Participants  []ParticipantStatus `json:"participants,omitempty"`
}

// ParticipantStatus describes one entry in the current round.
type ParticipantStatus struct {
	Name      string   `json:"name"`
	Targets   []string `json:"targets"`
	Completed bool     `json:"completed"`
}

// Status reports the current game state.
func (c *Controller) Status() Status {
	st := Status{RoundDuration: c.roundDuration}
	s := c.session
	if s == nil {
		return st
	}

	st.Running = true
	st.SessionId = s.id.String()
	st.Round = s.round
	st.Remaining = max(s.remaining, 0)
	if s.state == nil {
		return st
	}

	for _, name := range s.state.Participants() {
		ts, _ := s.state.Targets(name)
		st.Participants = append(st.Participants, ParticipantStatus{
			Name:      name,
			Targets:   ts.Names(),
			Completed: s.state.Completed(name),
		})
	}
	return st
}
