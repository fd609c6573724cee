package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/movipadel/tornei-app/realtime"
	"github.com/movipadel/tornei-app/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the frontend origin once it is deployed.
		return true
	},
}

type WebSocketHandler struct {
	hub               *realtime.Hub
	tournamentService services.TournamentService
}

func NewWebSocketHandler(hub *realtime.Hub, ts services.TournamentService) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, tournamentService: ts}
}

// ServeWs handles GET /ws/tournaments/{tournamentID}: a read-only feed of
// run, match and standings updates for one tournament.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if _, err := h.tournamentService.GetByID(r.Context(), tournamentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		slog.Warn("websocket upgrade failed", slog.Any("error", err), slog.Int("tournament_id", tournamentID))
		return
	}

	h.hub.Subscribe(conn, realtime.RoomForTournament(tournamentID))
}
