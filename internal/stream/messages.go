package stream

import (
	"encoding/json"

	"desire-paths/internal/core"
	"desire-paths/internal/sims/park"
)

// Message types.
const (
	TypeHello    = "hello"
	TypeSnapshot = "snapshot"
	TypeCommand  = "command"
	TypeError    = "error"
)

// Command actions accepted from clients.
const (
	ActionPause  = "pause"
	ActionResume = "resume"
	ActionStep   = "step"
	ActionReset  = "reset"
)

// Envelope frames every websocket message.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Hello is sent once to each client on connect.
type Hello struct {
	Park       string                 `json:"park"`
	Metric     string                 `json:"metric"`
	Width      int                    `json:"width"`
	Height     int                    `json:"height"`
	Entrances  []core.Point           `json:"entrances"`
	Parameters core.ParameterSnapshot `json:"parameters"`
}

// Frame is a snapshot plus the playback state.
type Frame struct {
	park.Snapshot
	Paused bool `json:"paused"`
}

// Command is a client request.
type Command struct {
	Action string `json:"action"`
	Seed   *int64 `json:"seed,omitempty"`
}

// ErrorMessage reports a rejected command.
type ErrorMessage struct {
	Error string `json:"error"`
}

func encode(kind string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: kind, Payload: raw})
}
