package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"desire-paths/internal/core"
	"desire-paths/internal/sims/park"
)

// Options configure a Server.
type Options struct {
	// TPS is the simulation rate while playing.
	TPS         int
	// Paused starts the server without advancing the world.
	Paused      bool
	// AllowOrigin accepts cross-origin websocket upgrades.
	AllowOrigin bool
	Logger      *slog.Logger
}

// Server steps a World at a fixed rate and streams every tick to websocket
// clients, which may pause, resume, single-step or reset it.
type Server struct {
	mu     sync.Mutex
	world  *park.World
	paused bool

	hub      *Hub
	clock    *core.FixedStep
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewServer wraps world. The server owns the world from here on.
func NewServer(world *park.World, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		world:  world,
		paused: opts.Paused,
		hub:    NewHub(logger),
		clock:  core.NewFixedStep(opts.TPS),
		logger: logger,
	}
	if opts.AllowOrigin {
		s.upgrader.CheckOrigin = func(*http.Request) bool { return true }
	}
	return s
}

// Hub exposes the client hub.
func (s *Server) Hub() *Hub { return s.hub }

// Run drives the hub and the simulation clock until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	go s.hub.Run(ctx)

	ticker := time.NewTicker(s.clock.Interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !s.clock.ShouldStep() {
				continue
			}
			msg, ok, err := s.advance()
			if err != nil {
				return err
			}
			if ok {
				s.hub.Broadcast(msg)
			}
		}
	}
}

func (s *Server) advance() ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paused {
		return nil, false, nil
	}
	s.world.Step()
	msg, err := s.frameLocked()
	return msg, err == nil, err
}

func (s *Server) frameLocked() ([]byte, error) {
	return encode(TypeSnapshot, Frame{Snapshot: s.world.Snapshot(), Paused: s.paused})
}

func (s *Server) helloLocked() ([]byte, error) {
	cfg := s.world.Config()
	size := s.world.Size()
	return encode(TypeHello, Hello{
		Park:       cfg.Park,
		Metric:     cfg.Metric,
		Width:      size.W,
		Height:     size.H,
		Entrances:  s.world.Layout().Entrances,
		Parameters: s.world.Parameters(),
	})
}

// ServeHTTP upgrades the request to a websocket and streams frames to it.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	c := newClient(uuid.New().String(), s.hub, conn)

	s.mu.Lock()
	hello, err := s.helloLocked()
	var frame []byte
	if err == nil {
		frame, err = s.frameLocked()
	}
	s.mu.Unlock()
	if err != nil {
		s.logger.Error("encode greeting", "err", err)
		conn.Close()
		return
	}
	// Not yet registered, so nothing else writes to c.send.
	c.send <- hello
	c.send <- frame

	if !s.hub.add(c) {
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump(s.handle)
}

func (s *Server) handle(c *Client, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Type != TypeCommand {
		s.reply(c, fmt.Errorf("expected a %q message", TypeCommand))
		return
	}
	var cmd Command
	if err := json.Unmarshal(env.Payload, &cmd); err != nil {
		s.reply(c, fmt.Errorf("decode command: %w", err))
		return
	}
	msg, err := s.Apply(cmd)
	if err != nil {
		s.reply(c, err)
		return
	}
	s.hub.Broadcast(msg)
}

func (s *Server) reply(c *Client, err error) {
	msg, encErr := encode(TypeError, ErrorMessage{Error: err.Error()})
	if encErr != nil {
		return
	}
	s.hub.Send(c, msg)
}

// Apply executes cmd and returns the resulting frame.
func (s *Server) Apply(cmd Command) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch cmd.Action {
	case ActionPause:
		s.paused = true
	case ActionResume:
		s.paused = false
	case ActionStep:
		s.world.Step()
	case ActionReset:
		seed := s.world.Config().Seed
		if cmd.Seed != nil {
			seed = *cmd.Seed
		}
		s.world.Reset(seed)
	default:
		return nil, fmt.Errorf("unknown action %q", cmd.Action)
	}
	s.logger.Info("command applied", "action", cmd.Action, "tick", s.world.Tick())
	return s.frameLocked()
}
