package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"tollgate/internal/security"
	"tollgate/pkg/platform/httputil"
	"tollgate/pkg/requestcontext"
)

// Service defines the registry administration operations.
type Service interface {
	ReportStolen(ctx context.Context, plate, agency string) (*security.StolenRecord, error)
	BlacklistTag(ctx context.Context, tagID, reason, severity, reportedBy string) (*security.BlacklistEntry, error)
	Incidents(ctx context.Context, limit int) ([]security.SecurityIncident, error)
}

// Handler wires the security registry endpoints. All routes here mount
// behind the admin guard.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterAdmin mounts the registry mutation and review endpoints.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/security/stolen", h.HandleReportStolen)
	r.Post("/rfid/blacklist", h.HandleBlacklistTag)
	r.Get("/security/incidents", h.HandleListIncidents)
}

// HandleReportStolen handles POST /security/stolen requests.
func (h *Handler) HandleReportStolen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ReportStolenRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	rec, err := h.service.ReportStolen(ctx, req.LicensePlate, req.ReportingAgency)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "stolen report accepted",
		"request_id", requestID, "plate", req.LicensePlate,
		"admin", requestcontext.AdminSubject(ctx))
	httputil.WriteJSON(w, http.StatusCreated, FromStolenRecord(rec))
}

// HandleBlacklistTag handles POST /rfid/blacklist requests.
func (h *Handler) HandleBlacklistTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[BlacklistTagRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	reportedBy := req.ReportedBy
	if reportedBy == "" {
		reportedBy = requestcontext.AdminSubject(ctx)
	}
	entry, err := h.service.BlacklistTag(ctx, req.TagID, req.Reason, req.Severity, reportedBy)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "tag blacklist accepted",
		"request_id", requestID, "tag_id", req.TagID,
		"admin", requestcontext.AdminSubject(ctx))
	httputil.WriteJSON(w, http.StatusCreated, FromBlacklistEntry(entry))
}

// HandleListIncidents handles GET /security/incidents requests.
func (h *Handler) HandleListIncidents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err == nil && parsed > 0 {
			limit = parsed
		}
	}

	incidents, err := h.service.Incidents(ctx, limit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromIncidents(incidents))
}
