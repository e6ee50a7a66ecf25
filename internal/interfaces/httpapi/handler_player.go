package httpapi

import (
	"net/http"

	"github.com/slfantasy/fantasy-manager/internal/usecase"
)

func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreatePlayer")
	defer span.End()

	var req createPlayerRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.playerSync.CreatePlayerFromFeed(ctx, usecase.CreatePlayerInput{
		LeagueID:  req.LeagueID,
		SportsID:  req.SportsID,
		TeamID:    req.TeamID,
		PlayerUID: req.PlayerUID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create player from feed failed", "player_uid", req.PlayerUID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, playerToDTO(created))
}
