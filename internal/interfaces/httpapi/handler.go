package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/slfantasy/fantasy-manager/internal/platform/logging"
	"github.com/slfantasy/fantasy-manager/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

// ReadinessCheck reports whether backing stores are reachable.
type ReadinessCheck func(ctx context.Context) error

type Handler struct {
	managerService *usecase.ManagerService
	playerSync     *usecase.PlayerSyncService
	jobRunner      *usecase.JobRunner
	readiness      ReadinessCheck
	logger         *logging.Logger
	validator      *validator.Validate
}

func NewHandler(
	managerService *usecase.ManagerService,
	playerSync *usecase.PlayerSyncService,
	jobRunner *usecase.JobRunner,
	readiness ReadinessCheck,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		managerService: managerService,
		playerSync:     playerSync,
		jobRunner:      jobRunner,
		readiness:      readiness,
		logger:         logger,
		validator:      validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Readyz")
	defer span.End()

	if h.readiness != nil {
		checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := h.readiness(checkCtx); err != nil {
			h.logger.WarnContext(ctx, "readiness check failed", "error", err)
			writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err))
			return
		}
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeJSON decodes a strict JSON body. An empty body is rejected unless
// allowEmpty is set.
func decodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	return decodeBody(r, dst, allowEmpty, true)
}

// decodeLenientJSON decodes a JSON body and drops fields dst does not declare.
func decodeLenientJSON(r *http.Request, dst any, allowEmpty bool) error {
	return decodeBody(r, dst, allowEmpty, false)
}

func decodeBody(r *http.Request, dst any, allowEmpty, disallowUnknown bool) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes+1))
	if err != nil {
		return fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}
	if len(body) > maxRequestBodyBytes {
		return fmt.Errorf("%w: request body too large", usecase.ErrInvalidInput)
	}
	if len(body) == 0 {
		if allowEmpty {
			return nil
		}
		return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
	}

	decoder := sonic.ConfigDefault.NewDecoder(bytes.NewReader(body))
	if disallowUnknown {
		decoder.DisallowUnknownFields()
	}
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
