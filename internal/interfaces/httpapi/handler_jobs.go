package httpapi

import (
	"context"
	"net/http"

	"github.com/slfantasy/fantasy-manager/internal/domain/jobrun"
)

func (h *Handler) RunSyncPlayersJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncPlayersJob")
	defer span.End()

	// A client disconnect must not abort a half-written batch.
	run, result, err := h.jobRunner.RunSyncPlayers(context.WithoutCancel(ctx), jobrun.TriggerManual)
	if err != nil {
		h.logger.WarnContext(ctx, "run sync players job failed", "run_id", run.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	resp := syncJobResponse{Run: jobRunToDTO(run)}
	if run.Status != jobrun.StatusSkipped {
		resp.Result = &result
	}
	writeSuccess(ctx, w, http.StatusOK, resp)
}

func (h *Handler) RunRankManagersJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRankManagersJob")
	defer span.End()

	run, result, err := h.jobRunner.RunRankManagers(context.WithoutCancel(ctx), jobrun.TriggerManual)
	if err != nil {
		h.logger.WarnContext(ctx, "run rank managers job failed", "run_id", run.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	resp := rankJobResponse{Run: jobRunToDTO(run)}
	if run.Status != jobrun.StatusSkipped {
		resp.Result = &result
	}
	writeSuccess(ctx, w, http.StatusOK, resp)
}

func (h *Handler) GetJobRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetJobRun")
	defer span.End()

	run, err := h.jobRunner.GetRun(ctx, r.PathValue("runID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, jobRunToDTO(run))
}
