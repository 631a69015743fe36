// Package session holds the client's top-level state as independent slices:
// model/credential selection, the active tolerance profile, the review cycle and
// the live connection. Each slice changes only through its own reducer methods, so a
// profile update can never disturb an in-flight review and vice versa.
//
// State is not safe for concurrent use; it belongs to the UI loop.
package session

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/tabcrusher/pkg/domain/aimodel"
	"github.com/felixgeelhaar/tabcrusher/pkg/domain/intake"
	"github.com/felixgeelhaar/tabcrusher/pkg/domain/live"
	"github.com/felixgeelhaar/tabcrusher/pkg/domain/review"
	"github.com/felixgeelhaar/tabcrusher/pkg/domain/tolerance"
)

// State is the root coordinator's state.
type State struct {
	Model      aimodel.Model
	APIKey     string
	Profile    tolerance.Profile
	Notice     *ProfileNotice
	Review     Review
	Connection live.ConnState
}

// ProfileNotice is the dismissible indicator shown after a live profile update.
type ProfileNotice struct {
	ProfileID  string
	Name       string
	Applied    bool
	ReceivedAt time.Time
}

// Review is the review-cycle slice. At most one of Result and Error is set.
type Review struct {
	Seq    uint64
	File   *intake.File
	Result *review.Result
	Error  string

	cycle *review.Cycle
}

// Phase returns the current cycle phase.
func (r *Review) Phase() review.Phase {
	if r.cycle == nil {
		return review.PhaseIdle
	}
	return r.cycle.Phase()
}

// Processing reports whether a backend call is outstanding.
func (r *Review) Processing() bool {
	return r.Phase() == review.PhaseProcessing
}

// Ticket identifies one issued backend call.
type Ticket struct {
	Seq     uint64
	File    intake.File
	Request review.Request
}

// Completion is a settled backend call returning to the UI loop.
type Completion struct {
	Ticket  Ticket
	Outcome review.Outcome
}

// New builds the startup state: the registry's default model, the default profile,
// an idle review cycle and a disconnected channel.
func New(registry *aimodel.Registry) (*State, error) {
	cycle, err := review.NewCycle()
	if err != nil {
		return nil, err
	}
	return &State{
		Model:      registry.Default(),
		Profile:    tolerance.Default(),
		Review:     Review{cycle: cycle},
		Connection: live.Disconnected,
	}, nil
}

// SelectModel sets the current model if id is registered; otherwise it is a no-op.
func (s *State) SelectModel(registry *aimodel.Registry, id string) bool {
	m, ok := registry.Lookup(id)
	if !ok {
		return false
	}
	s.Model = m
	return true
}

// SetAPIKey replaces the in-memory credential.
func (s *State) SetAPIKey(key string) {
	s.APIKey = key
}

// Drop starts a new review cycle for file: prior file, result and error are cleared,
// the sequence advances and the cycle moves to processing. The returned ticket
// carries the request to send.
func (s *State) Drop(file intake.File) (Ticket, error) {
	r := &s.Review
	if r.cycle == nil {
		cycle, err := review.NewCycle()
		if err != nil {
			return Ticket{}, err
		}
		r.cycle = cycle
	}

	if err := r.cycle.Fire(review.EventDrop); err != nil {
		return Ticket{}, fmt.Errorf("drop %s: %w", file.Name, err)
	}
	r.Result = nil
	r.Error = ""
	f := file
	r.File = &f
	r.Seq++

	if err := r.cycle.Fire(review.EventSubmit); err != nil {
		return Ticket{}, fmt.Errorf("submit %s: %w", file.Name, err)
	}

	return Ticket{
		Seq:  r.Seq,
		File: file,
		Request: review.Request{
			FilePath:  file.Path,
			APIKey:    s.APIKey,
			ModelName: s.Model.ID,
		},
	}, nil
}

// Latest reports whether seq is the most recently issued request.
func (s *State) Latest(seq uint64) bool {
	return seq == s.Review.Seq
}

// Settle applies a completion if it belongs to the latest request still in flight.
// Completions of superseded requests are discarded and Settle returns false.
func (s *State) Settle(c Completion) bool {
	r := &s.Review
	if !s.Latest(c.Ticket.Seq) || !r.Processing() {
		return false
	}

	if c.Outcome.IsOk() {
		r.Result = c.Outcome.Result()
		r.Error = ""
		_ = r.cycle.Fire(review.EventSucceed)
		return true
	}

	r.Result = nil
	r.Error = c.Outcome.Reason()
	_ = r.cycle.Fire(review.EventFail)
	return true
}

// ApplyLive folds a channel event into the connection or profile slice.
func (s *State) ApplyLive(ev live.Event, now time.Time) {
	switch e := ev.(type) {
	case live.ConnectionChanged:
		s.Connection = e.State
	case live.ProfileUpdated:
		notice := &ProfileNotice{ProfileID: e.ProfileID, Name: e.Name, ReceivedAt: now}
		if p, ok := e.Profile(); ok && p.Name == s.Profile.Name {
			s.Profile = p
			notice.Applied = true
		}
		s.Notice = notice
	}
}

// DismissNotice clears the profile update indicator.
func (s *State) DismissNotice() {
	s.Notice = nil
}

// Connected reports whether the live channel is up.
func (s *State) Connected() bool {
	return s.Connection == live.Connected
}
