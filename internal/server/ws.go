package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"

	"github.com/Ryan24313/formWords/internal/game"
)

// handleWS is the realtime endpoint: one connection per page, authenticated
// by the identity token in the query string (websocket clients cannot set
// headers). All game events flow over this socket once the player is in a
// game.
func handleWS(logger *slog.Logger, secret []byte, reg *game.Registry, rooms *Rooms) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := identityFromToken(r.URL.Query().Get("token"), secret)
		if err != nil {
			writeRedirect(w, http.StatusUnauthorized, "not authenticated", "/login")
			return
		}

		ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer ws.CloseNow()

		c := newConn(id.ID)
		rooms.Attach(c)
		defer rooms.Drop(c)

		// Room resolution happens after attachment; a kick or end racing the
		// handshake cannot leave this connection in a room the player is no
		// longer a member of.
		syncRoom(reg, rooms, id.ID)

		logger.Debug("connection attached", "conn", c.id, "player", id.ID)

		ctx := r.Context()

		// Writer: drains the send channel; the ping keeps idle sockets from
		// being reaped by intermediaries.
		go func() {
			ping := time.NewTicker(30 * time.Second)
			defer ping.Stop()
			for {
				select {
				case msg := <-c.send:
					if err := ws.Write(ctx, websocket.MessageText, msg); err != nil {
						return
					}
				case <-ping.C:
					if err := ws.Ping(ctx); err != nil {
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}()

		for {
			_, data, err := ws.Read(ctx)
			if err != nil {
				logger.Debug("websocket read ended", "conn", c.id, "error", err)
				return
			}

			var env Envelope
			if err := json.Unmarshal(data, &env); err != nil {
				rooms.Notify(id.ID, evMessage, MessagePayload{Text: "malformed event"})
				continue
			}

			// A failed action never changes state; the acting player alone
			// hears about it.
			if err := dispatch(id, env, reg, rooms); err != nil {
				logger.Info("event rejected", "event", env.Event, "player", id.ID, "error", err)
				rooms.Notify(id.ID, evMessage, MessagePayload{Text: err.Error()})
			}
		}
	}
}

// syncRoom aligns the player's room subscriptions with their current game
// membership.
func syncRoom(reg *game.Registry, rooms *Rooms, playerID string) {
	if g, ok := reg.GameOf(playerID); ok {
		rooms.Subscribe(playerID, g.ID())
	} else {
		rooms.DetachPlayer(playerID)
	}
}

func dispatch(id game.Identity, env Envelope, reg *game.Registry, rooms *Rooms) error {
	g, ok := reg.GameOf(id.ID)
	if !ok {
		return fmt.Errorf("you are not in a game: %w", game.ErrNotFound)
	}

	switch env.Event {
	case evGetPlayers:
		rooms.Notify(id.ID, evGetPlayers, rosterPayload(g))
		return nil

	case evStartGame:
		if err := g.Start(id.ID); err != nil {
			return err
		}
		rooms.Broadcast(g.ID(), evReload, nil)
		return nil

	case evKickPlayer:
		var p KickPayload
		if err := json.Unmarshal(env.Data, &p); err != nil || p.PlayerID == "" {
			return fmt.Errorf("kickPlayer needs a playerId: %w", game.ErrInvalidState)
		}
		if err := reg.Kick(g.ID(), id.ID, p.PlayerID); err != nil {
			return err
		}
		rooms.Notify(p.PlayerID, evReload, nil)
		rooms.DetachPlayer(p.PlayerID)
		rooms.Broadcast(g.ID(), evGetPlayers, rosterPayload(g))
		return nil

	case evLeaveGame:
		if err := reg.Leave(g.ID(), id.ID); err != nil {
			return err
		}
		rooms.Notify(id.ID, evReload, nil)
		rooms.DetachPlayer(id.ID)
		rooms.Broadcast(g.ID(), evGetPlayers, rosterPayload(g))
		return nil

	case evEndGame:
		evicted, err := reg.End(g.ID(), id.ID)
		if err != nil {
			return err
		}
		// Everyone hears the teardown before their room link goes away.
		rooms.Broadcast(g.ID(), evReload, nil)
		for _, pid := range evicted {
			rooms.DetachPlayer(pid)
		}
		return nil

	case evSubmitTurn:
		var p SubmitTurnPayload
		if err := json.Unmarshal(env.Data, &p); err != nil || len(p.Placements) == 0 {
			return fmt.Errorf("submitTurn needs placements: %w", game.ErrInvalidState)
		}
		placements := make([]game.Placement, 0, len(p.Placements))
		for _, pl := range p.Placements {
			placements = append(placements, game.Placement{X: pl.X, Y: pl.Y, Letter: pl.Letter})
		}
		if _, err := g.SubmitTurn(id.ID, placements); err != nil {
			return err
		}
		rooms.Broadcast(g.ID(), evReload, nil)
		return nil

	default:
		return fmt.Errorf("unknown event %q: %w", env.Event, game.ErrInvalidState)
	}
}

func rosterPayload(g *game.Game) RosterPayload {
	players := g.Players()
	out := make([]PlayerInfo, 0, len(players))
	for _, p := range players {
		out = append(out, PlayerInfo{
			ID:       p.ID,
			Username: p.Username,
			Score:    p.Score,
			Tiles:    p.Tiles,
		})
	}
	return RosterPayload{Players: out}
}
