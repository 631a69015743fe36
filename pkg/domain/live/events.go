// Package live defines the notifications pushed by the backend over the live update
// channel and the lifecycle of that connection.
package live

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/tabcrusher/pkg/domain/tolerance"
)

// Wire event names.
const (
	EventProfileUpdated = "profile_updated"
)

// ErrUnknownEvent is returned by Decode for events this client does not handle.
var ErrUnknownEvent = errors.New("unknown live event")

// Event is a notification delivered to the UI.
type Event interface {
	EventName() string
}

// ConnectionChanged reports a transition of the channel connection.
type ConnectionChanged struct {
	State     ConnState
	Connected bool
}

func (ConnectionChanged) EventName() string { return "connection_changed" }

// ProfileUpdated reports that a profile was changed on the server.
// Tolerances is nil when the server only sent the profile identity.
type ProfileUpdated struct {
	ProfileID  string                         `json:"profile_id,omitempty"`
	Name       string                         `json:"name"`
	Tolerances map[string]tolerance.Tolerance `json:"tolerances,omitempty"`
}

func (ProfileUpdated) EventName() string { return EventProfileUpdated }

// Profile returns the updated profile when the event carried a valid tolerance set.
func (e ProfileUpdated) Profile() (tolerance.Profile, bool) {
	if e.Tolerances == nil {
		return tolerance.Profile{}, false
	}
	p := tolerance.Profile{Name: e.Name, Tolerances: e.Tolerances}
	if err := p.Validate(); err != nil {
		return tolerance.Profile{}, false
	}
	return p.Clone(), true
}

// Envelope is the frame format on the wire: {"event": "...", "data": {...}}.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Decode parses one text frame into an Event.
func Decode(frame []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, fmt.Errorf("decode live frame: %w", err)
	}

	switch env.Event {
	case EventProfileUpdated:
		var ev ProfileUpdated
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &ev); err != nil {
				return nil, fmt.Errorf("decode %s: %w", env.Event, err)
			}
		}
		return ev, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Event)
	}
}
