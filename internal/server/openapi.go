package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses. Redirect carries the
// view the client should navigate to when page and game state disagree.
type ErrorResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "formWords API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Multiplayer word-game session server.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/games
	postGames, _ := r.NewOperationContext(http.MethodPost, "/api/games")
	postGames.SetSummary("Create game")
	postGames.SetDescription("Creates a waiting game owned by the caller and returns its join code. Requires Bearer token.")
	postGames.AddReqStructure(CreateGameRequest{})
	postGames.AddRespStructure(CreateGameResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postGames.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postGames.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postGames)

	// POST /api/games/join
	postJoin, _ := r.NewOperationContext(http.MethodPost, "/api/games/join")
	postJoin.SetSummary("Join game")
	postJoin.SetDescription("Joins a waiting game by its join code, case-insensitively. Requires Bearer token.")
	postJoin.AddReqStructure(JoinGameRequest{})
	postJoin.AddRespStructure(JoinGameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postJoin)

	// GET /api/game/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/game/state")
	getState.SetSummary("Get game state")
	getState.SetDescription("Returns the caller's view of their current game. Requires Bearer token.")
	getState.AddRespStructure(GameStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getState)

	// GET /api/game/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/game/events")
	getEvents.SetSummary("Realtime event socket")
	getEvents.SetDescription("Upgrades to a WebSocket carrying game events. Pass the identity token as a query parameter.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	getEvents.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getEvents)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
