package httpapi

import (
	"fmt"
	"net/http"

	"github.com/slfantasy/fantasy-manager/internal/usecase"
)

func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyProfile")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	profile, err := h.managerService.GetOrCreateProfile(ctx, principal.Email)
	if err != nil {
		h.logger.WarnContext(ctx, "get manager profile failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profileToDTO(profile))
}

func (h *Handler) MutateMyRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MutateMyRoster")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	// Fields outside the roster and profile allow-list are ignored, not rejected.
	var req mutateRosterRequest
	if err := decodeLenientJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	profile, err := h.managerService.MutateRoster(ctx, principal.Email, req.toInput())
	if err != nil {
		h.logger.WarnContext(ctx, "mutate roster failed",
			"user_id", principal.UserID,
			"add_player", req.addPlayer(),
			"remove_player", req.removePlayer(),
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profileToDTO(profile))
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	players, err := h.managerService.ListPlayers(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]rosterPlayerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, rosterPlayerToDTO(p))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}
