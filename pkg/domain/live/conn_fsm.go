package live

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// ConnState is the lifecycle position of the live channel.
type ConnState string

// State constants for statekit; untyped so they convert to statekit.StateID.
const (
	stateDisconnected = "disconnected"
	stateConnecting   = "connecting"
	stateConnected    = "connected"
)

const (
	Disconnected ConnState = stateDisconnected
	Connecting   ConnState = stateConnecting
	Connected    ConnState = stateConnected
)

// Connection events.
const (
	EventDial   = "dial"
	EventOpen   = "open"
	EventFailed = "failed"
	EventLost   = "lost"
)

// ConnMachine tracks disconnected -> connecting -> connected.
type ConnMachine struct {
	interpreter *statekit.Interpreter[struct{}]
}

// NewConnMachine builds a machine in the disconnected state.
func NewConnMachine() (*ConnMachine, error) {
	builder := statekit.NewMachine[struct{}]("live-connection").
		WithInitial(statekit.StateID(stateDisconnected))

	builder.State(stateDisconnected).
		On(EventDial).Target(stateConnecting).
		Done()

	builder.State(stateConnecting).
		On(EventOpen).Target(stateConnected).
		On(EventFailed).Target(stateDisconnected).
		Done()

	builder.State(stateConnected).
		On(EventLost).Target(stateDisconnected).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build connection machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()
	return &ConnMachine{interpreter: interpreter}, nil
}

// State returns the current connection state.
func (m *ConnMachine) State() ConnState {
	return ConnState(m.interpreter.State().Value)
}

// Fire sends event and reports whether the state changed.
func (m *ConnMachine) Fire(event string) bool {
	before := m.State()
	m.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	return m.State() != before
}
