package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tollgate/internal/toll"
	"tollgate/pkg/platform/httputil"
	"tollgate/pkg/requestcontext"
)

// Service defines the decision operation the transport layer invokes.
type Service interface {
	ProcessToll(ctx context.Context, req toll.Request) toll.DecisionResult
}

// Handler wires the toll decision endpoint to the engine.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the toll endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/toll/process", h.HandleProcess)
}

// HandleProcess handles POST /toll/process requests. Every decision returns
// 200 with a status field; transport errors are reserved for malformed
// requests.
func (h *Handler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[ProcessRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result := h.service.ProcessToll(ctx, toll.Request{
		PlazaID: req.PlazaID,
		Plate:   req.LicensePlate,
		TagID:   req.TagID,
	})

	h.logger.InfoContext(ctx, "toll processed",
		"request_id", requestID,
		"plaza_id", req.PlazaID,
		"status", result.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}
