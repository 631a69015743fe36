package review

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// Phase is a position in the review cycle.
type Phase string

// State constants for statekit. These stay untyped so they convert to statekit.StateID.
const (
	stateIdle       = "idle"
	stateDropped    = "dropped"
	stateProcessing = "processing"
	stateDisplayed  = "displayed"
	stateErrored    = "errored"
)

const (
	PhaseIdle       Phase = stateIdle
	PhaseDropped    Phase = stateDropped
	PhaseProcessing Phase = stateProcessing
	PhaseDisplayed  Phase = stateDisplayed
	PhaseErrored    Phase = stateErrored
)

// Cycle events.
const (
	EventDrop    = "drop"
	EventSubmit  = "submit"
	EventSucceed = "succeed"
	EventFail    = "fail"
)

var transitions = map[Phase]map[string]Phase{
	PhaseIdle:       {EventDrop: PhaseDropped},
	PhaseDropped:    {EventSubmit: PhaseProcessing},
	PhaseProcessing: {EventDrop: PhaseDropped, EventSucceed: PhaseDisplayed, EventFail: PhaseErrored},
	PhaseDisplayed:  {EventDrop: PhaseDropped},
	PhaseErrored:    {EventDrop: PhaseDropped},
}

// CanTransitionWith reports whether event is valid from p.
func (p Phase) CanTransitionWith(event string) bool {
	_, ok := transitions[p][event]
	return ok
}

// Settled reports whether the phase shows a final outcome.
func (p Phase) Settled() bool {
	return p == PhaseDisplayed || p == PhaseErrored
}

// TransitionError reports an event that is not allowed in the current phase.
type TransitionError struct {
	From  Phase
	Event string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("review cycle: %q is not allowed while %s", e.Event, e.From)
}

// Cycle drives one session's review lifecycle:
// idle -> dropped -> processing -> displayed|errored, and any drop restarts it.
type Cycle struct {
	interpreter *statekit.Interpreter[struct{}]
}

// NewCycle builds a cycle in the idle phase.
func NewCycle() (*Cycle, error) {
	builder := statekit.NewMachine[struct{}]("review-cycle").
		WithInitial(statekit.StateID(stateIdle))

	builder.State(stateIdle).
		On(EventDrop).Target(stateDropped).
		Done()

	builder.State(stateDropped).
		On(EventSubmit).Target(stateProcessing).
		Done()

	// A drop while processing supersedes the in-flight request.
	builder.State(stateProcessing).
		On(EventDrop).Target(stateDropped).
		On(EventSucceed).Target(stateDisplayed).
		On(EventFail).Target(stateErrored).
		Done()

	builder.State(stateDisplayed).
		On(EventDrop).Target(stateDropped).
		Done()

	builder.State(stateErrored).
		On(EventDrop).Target(stateDropped).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build review cycle: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()
	return &Cycle{interpreter: interpreter}, nil
}

// Phase returns the current phase.
func (c *Cycle) Phase() Phase {
	return Phase(c.interpreter.State().Value)
}

// Fire applies event or returns a TransitionError leaving the phase unchanged.
func (c *Cycle) Fire(event string) error {
	before := c.Phase()
	if !before.CanTransitionWith(event) {
		return &TransitionError{From: before, Event: event}
	}
	c.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	if after := c.Phase(); after != transitions[before][event] {
		return fmt.Errorf("review cycle: %q from %s landed in %s", event, before, after)
	}
	return nil
}
