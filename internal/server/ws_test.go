package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nhooyr.io/websocket"

	"github.com/Ryan24313/formWords/internal/game"
)

func dialWS(t *testing.T, ctx context.Context, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + srv.URL[len("http"):] + "/api/game/events?token=" + token
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.CloseNow() })
	return conn
}

func sendEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, event string, data any) {
	t.Helper()
	msg, err := encodeEvent(event, data)
	if err != nil {
		t.Fatalf("encoding %s: %v", event, err)
	}
	if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
		t.Fatalf("write %s: %v", event, err)
	}
}

// readEvent reads frames until one with the wanted event name arrives.
func readEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, want string) Envelope {
	t.Helper()
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			t.Fatalf("reading while waiting for %q: %v", want, err)
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			t.Fatalf("decoding frame: %v", err)
		}
		if env.Event == want {
			return env
		}
	}
}

// wsEnv is the HTTP harness plus a live test server for socket dials.
type wsEnv struct {
	*testEnv
	srv *httptest.Server
}

func newWSEnv(t *testing.T) *wsEnv {
	t.Helper()
	e := newTestEnv(t)
	srv := httptest.NewServer(e.router)
	t.Cleanup(srv.Close)
	return &wsEnv{testEnv: e, srv: srv}
}

func TestWSGetPlayers(t *testing.T) {
	e := newWSEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	alice := testToken(t, "u1", "alice")
	bob := testToken(t, "u2", "bob")

	created := e.createGame(t, alice)
	e.do(t, http.MethodPost, "/api/games/join", bob, JoinGameRequest{Code: created.Code})

	conn := dialWS(t, ctx, e.srv, alice)

	sendEvent(t, ctx, conn, evGetPlayers, nil)
	env := readEvent(t, ctx, conn, evGetPlayers)

	var roster RosterPayload
	if err := json.Unmarshal(env.Data, &roster); err != nil {
		t.Fatalf("decoding roster: %v", err)
	}
	if len(roster.Players) != 2 {
		t.Fatalf("roster has %d players, want 2", len(roster.Players))
	}
	if roster.Players[0].Username != "alice" || roster.Players[1].Username != "bob" {
		t.Errorf("roster order = %q, %q; want alice, bob",
			roster.Players[0].Username, roster.Players[1].Username)
	}
}

func TestWSKickUnauthorized(t *testing.T) {
	e := newWSEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	alice := testToken(t, "u1", "alice")
	bob := testToken(t, "u2", "bob")

	created := e.createGame(t, alice)
	e.do(t, http.MethodPost, "/api/games/join", bob, JoinGameRequest{Code: created.Code})

	bobConn := dialWS(t, ctx, e.srv, bob)

	// Only the owner can kick; bob just hears why it failed.
	sendEvent(t, ctx, bobConn, evKickPlayer, KickPayload{PlayerID: "u1"})
	env := readEvent(t, ctx, bobConn, evMessage)

	var msg MessagePayload
	json.Unmarshal(env.Data, &msg)
	if msg.Text == "" {
		t.Error("expected an error message text")
	}

	if _, ok := e.reg.GameOf("u1"); !ok {
		t.Error("owner was removed by a non-owner kick")
	}
}

func TestWSKick(t *testing.T) {
	e := newWSEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	alice := testToken(t, "u1", "alice")
	bob := testToken(t, "u2", "bob")

	created := e.createGame(t, alice)
	e.do(t, http.MethodPost, "/api/games/join", bob, JoinGameRequest{Code: created.Code})

	aliceConn := dialWS(t, ctx, e.srv, alice)
	bobConn := dialWS(t, ctx, e.srv, bob)

	sendEvent(t, ctx, aliceConn, evKickPlayer, KickPayload{PlayerID: "u2"})

	// The kicked player is told to reload before losing the room.
	readEvent(t, ctx, bobConn, evReload)

	env := readEvent(t, ctx, aliceConn, evGetPlayers)
	var roster RosterPayload
	json.Unmarshal(env.Data, &roster)
	if len(roster.Players) != 1 || roster.Players[0].ID != "u1" {
		t.Errorf("roster after kick = %+v, want just u1", roster.Players)
	}

	if _, ok := e.reg.GameOf("u2"); ok {
		t.Error("kicked player still has a game")
	}
}

func TestWSStartGame(t *testing.T) {
	e := newWSEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	alice := testToken(t, "u1", "alice")
	bob := testToken(t, "u2", "bob")

	created := e.createGame(t, alice)
	e.do(t, http.MethodPost, "/api/games/join", bob, JoinGameRequest{Code: created.Code})

	aliceConn := dialWS(t, ctx, e.srv, alice)
	bobConn := dialWS(t, ctx, e.srv, bob)

	sendEvent(t, ctx, aliceConn, evStartGame, nil)
	readEvent(t, ctx, aliceConn, evReload)
	readEvent(t, ctx, bobConn, evReload)

	w := e.do(t, http.MethodGet, "/api/game/state", bob, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("state: expected 200, got %d", w.Code)
	}
	var state GameStateResponse
	json.NewDecoder(w.Body).Decode(&state)

	if state.Status != "started" {
		t.Errorf("status = %q, want started", state.Status)
	}
	if len(state.Hand) != game.HandSize {
		t.Errorf("hand = %d tiles, want %d", len(state.Hand), game.HandSize)
	}
	if want := game.TotalTiles - 2*game.HandSize; state.TilesLeft != want {
		t.Errorf("tilesLeft = %d, want %d", state.TilesLeft, want)
	}
	if state.TurnNumber != 1 {
		t.Errorf("turnNumber = %d, want 1", state.TurnNumber)
	}
}

func TestWSSubmitTurn(t *testing.T) {
	e := newWSEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	alice := testToken(t, "u1", "alice")
	e.createGame(t, alice)

	conn := dialWS(t, ctx, e.srv, alice)
	sendEvent(t, ctx, conn, evStartGame, nil)
	readEvent(t, ctx, conn, evReload)

	w := e.do(t, http.MethodGet, "/api/game/state", alice, nil)
	var state GameStateResponse
	json.NewDecoder(w.Body).Decode(&state)
	if len(state.Hand) == 0 {
		t.Fatal("expected a dealt hand")
	}

	sendEvent(t, ctx, conn, evSubmitTurn, SubmitTurnPayload{
		Placements: []PlacementPayload{{X: 4, Y: 4, Letter: state.Hand[0]}},
	})
	readEvent(t, ctx, conn, evReload)

	w = e.do(t, http.MethodGet, "/api/game/state", alice, nil)
	var after GameStateResponse
	json.NewDecoder(w.Body).Decode(&after)

	if after.TurnNumber != state.TurnNumber+1 {
		t.Errorf("turnNumber = %d, want %d", after.TurnNumber, state.TurnNumber+1)
	}
	if len(after.Board[4][4]) != 1 || after.Board[4][4][0].Letter != state.Hand[0] {
		t.Errorf("board[4][4] = %+v, want one %q tile", after.Board[4][4], state.Hand[0])
	}
	if len(after.Hand) != game.HandSize {
		t.Errorf("hand not refilled: %d tiles, want %d", len(after.Hand), game.HandSize)
	}
}

func TestWSReconnect(t *testing.T) {
	e := newWSEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	alice := testToken(t, "u1", "alice")
	bob := testToken(t, "u2", "bob")

	created := e.createGame(t, alice)
	e.do(t, http.MethodPost, "/api/games/join", bob, JoinGameRequest{Code: created.Code})

	bobConn := dialWS(t, ctx, e.srv, bob)
	sendEvent(t, ctx, bobConn, evGetPlayers, nil)
	readEvent(t, ctx, bobConn, evGetPlayers)

	// Closing the socket drops the connection only; the player stays in the
	// game and can come back.
	bobConn.Close(websocket.StatusNormalClosure, "tab closed")
	if _, ok := e.reg.GameOf("u2"); !ok {
		t.Fatal("membership did not survive disconnect")
	}

	reconn := dialWS(t, ctx, e.srv, bob)
	sendEvent(t, ctx, reconn, evGetPlayers, nil)
	env := readEvent(t, ctx, reconn, evGetPlayers)

	var roster RosterPayload
	json.Unmarshal(env.Data, &roster)
	if len(roster.Players) != 2 {
		t.Fatalf("roster after reconnect has %d players, want 2", len(roster.Players))
	}

	// The reconnected socket is back in the room: a later join's roster
	// broadcast must reach it.
	carol := testToken(t, "u3", "carol")
	e.do(t, http.MethodPost, "/api/games/join", carol, JoinGameRequest{Code: created.Code})

	env = readEvent(t, ctx, reconn, evGetPlayers)
	json.Unmarshal(env.Data, &roster)
	if len(roster.Players) != 3 {
		t.Errorf("broadcast roster has %d players, want 3", len(roster.Players))
	}
}

func TestWSEndGame(t *testing.T) {
	e := newWSEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	alice := testToken(t, "u1", "alice")
	bob := testToken(t, "u2", "bob")

	created := e.createGame(t, alice)
	e.do(t, http.MethodPost, "/api/games/join", bob, JoinGameRequest{Code: created.Code})

	aliceConn := dialWS(t, ctx, e.srv, alice)
	bobConn := dialWS(t, ctx, e.srv, bob)

	sendEvent(t, ctx, aliceConn, evEndGame, nil)
	readEvent(t, ctx, aliceConn, evReload)
	readEvent(t, ctx, bobConn, evReload)

	w := e.do(t, http.MethodGet, "/api/game/state", alice, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("state after end: expected 404, got %d", w.Code)
	}
	if _, ok := e.reg.GameOf("u2"); ok {
		t.Error("ended game left a membership behind")
	}
}
