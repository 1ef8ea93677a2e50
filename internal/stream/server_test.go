package stream

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"desire-paths/internal/core"
	"desire-paths/internal/scenario"
	"desire-paths/internal/sims/park"
)

func testWorld(t *testing.T) *park.World {
	t.Helper()
	cfg := park.DefaultConfig()
	cfg.Park = "plaza"
	cfg.Width, cfg.Height = 20, 20
	w, err := scenario.NewWorld(cfg, "")
	require.NoError(t, err)
	w.SetLogger(core.DiscardLogger())
	return w
}

func startServer(t *testing.T, opts Options) (*Server, string) {
	t.Helper()
	opts.Logger = core.DiscardLogger()
	s := NewServer(testWorld(t), opts)
	ctx, cancel := context.WithCancel(context.Background())
	go s.Run(ctx)
	ts := httptest.NewServer(s)
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})
	return s, "ws" + strings.TrimPrefix(ts.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var env Envelope
	require.NoError(t, conn.ReadJSON(&env))
	return env
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	env := readEnvelope(t, conn)
	require.Equal(t, TypeSnapshot, env.Type)
	var f Frame
	require.NoError(t, json.Unmarshal(env.Payload, &f))
	return f
}

func sendCommand(t *testing.T, conn *websocket.Conn, cmd Command) {
	t.Helper()
	raw, err := json.Marshal(cmd)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(Envelope{Type: TypeCommand, Payload: raw}))
}

func TestGreetingThenCommands(t *testing.T) {
	_, url := startServer(t, Options{TPS: 50, Paused: true})
	conn := dial(t, url)

	env := readEnvelope(t, conn)
	require.Equal(t, TypeHello, env.Type)
	var hello Hello
	require.NoError(t, json.Unmarshal(env.Payload, &hello))
	assert.Equal(t, "plaza", hello.Park)
	assert.Equal(t, 20, hello.Width)
	assert.NotEmpty(t, hello.Entrances)
	_, ok := hello.Parameters.Lookup("vision_radius")
	assert.True(t, ok)

	f := readFrame(t, conn)
	assert.Zero(t, f.Tick)
	assert.True(t, f.Paused)
	assert.Len(t, f.Wear, 400)

	sendCommand(t, conn, Command{Action: ActionStep})
	f = readFrame(t, conn)
	assert.Equal(t, 1, f.Tick)

	sendCommand(t, conn, Command{Action: ActionStep})
	assert.Equal(t, 2, readFrame(t, conn).Tick)

	seed := int64(77)
	sendCommand(t, conn, Command{Action: ActionReset, Seed: &seed})
	assert.Zero(t, readFrame(t, conn).Tick)

	sendCommand(t, conn, Command{Action: "fly"})
	env = readEnvelope(t, conn)
	assert.Equal(t, TypeError, env.Type)
	assert.Contains(t, string(env.Payload), "fly")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{")))
	assert.Equal(t, TypeError, readEnvelope(t, conn).Type)
}

func TestPlayingServerStreamsTicks(t *testing.T) {
	_, url := startServer(t, Options{TPS: 100})
	conn := dial(t, url)

	assert.Equal(t, TypeHello, readEnvelope(t, conn).Type)
	first := readFrame(t, conn).Tick
	last := first
	for last < first+3 {
		f := readFrame(t, conn)
		assert.GreaterOrEqual(t, f.Tick, last)
		assert.False(t, f.Paused)
		last = f.Tick
	}

	sendCommand(t, conn, Command{Action: ActionPause})
	for {
		f := readFrame(t, conn)
		if f.Paused {
			break
		}
	}
}

func TestBroadcastReachesEveryClient(t *testing.T) {
	s, url := startServer(t, Options{Paused: true})
	a := dial(t, url)
	b := dial(t, url)
	for _, c := range []*websocket.Conn{a, b} {
		readEnvelope(t, c)
		readFrame(t, c)
	}
	require.Eventually(t, func() bool { return s.Hub().Clients() == 2 }, 5*time.Second, 10*time.Millisecond)

	sendCommand(t, a, Command{Action: ActionStep})
	assert.Equal(t, 1, readFrame(t, a).Tick)
	assert.Equal(t, 1, readFrame(t, b).Tick)

	require.NoError(t, b.Close())
	require.Eventually(t, func() bool { return s.Hub().Clients() == 1 }, 5*time.Second, 10*time.Millisecond)
}

func TestApplyRejectsUnknownAction(t *testing.T) {
	s := NewServer(testWorld(t), Options{Logger: core.DiscardLogger()})
	_, err := s.Apply(Command{Action: "rewind"})
	assert.Error(t, err)

	msg, err := s.Apply(Command{Action: ActionStep})
	require.NoError(t, err)
	var env Envelope
	require.NoError(t, json.Unmarshal(msg, &env))
	assert.Equal(t, TypeSnapshot, env.Type)
}
