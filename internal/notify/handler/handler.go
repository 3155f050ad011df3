package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"tollgate/internal/identity"
	"tollgate/internal/notify"
	"tollgate/pkg/apperrors"
	"tollgate/pkg/platform/httputil"
)

// Resolver maps the caller's identifiers onto one vehicle before any
// notifications are disclosed. With both identifiers present they must agree.
type Resolver interface {
	Resolve(ctx context.Context, plate, tagID string) (*identity.VehicleIdentity, error)
	CrossValidate(ctx context.Context, plate, tagID string) (*identity.VehicleIdentity, error)
}

// Service lists stored notifications.
type Service interface {
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID, onlyUnread bool) ([]notify.Notification, error)
}

// Handler wires the notification lookup endpoint.
type Handler struct {
	resolver Resolver
	service  Service
	logger   *slog.Logger
}

func New(resolver Resolver, service Service, logger *slog.Logger) *Handler {
	return &Handler{resolver: resolver, service: service, logger: logger}
}

// Register mounts the notification endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/notifications", h.HandleList)
}

// HandleList handles GET /notifications?plate=&tag_id= requests. At least one
// identifier is required; with both present they must agree, so a read-only
// lookup never leaks one owner's messages to a caller holding a mismatched
// pair.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	plate := strings.TrimSpace(strings.ToUpper(q.Get("plate")))
	tagID := strings.TrimSpace(q.Get("tag_id"))
	onlyUnread := q.Get("unread") == "true"

	var (
		ident *identity.VehicleIdentity
		err   error
	)
	switch {
	case plate != "" && tagID != "":
		ident, err = h.resolver.CrossValidate(ctx, plate, tagID)
	case tagID != "":
		ident, err = h.resolver.Resolve(ctx, "", tagID)
	case plate != "":
		ident, err = h.resolver.Resolve(ctx, plate, "")
	default:
		httputil.WriteError(w, apperrors.New(apperrors.CodeBadRequest, "plate or tag_id query parameter is required"))
		return
	}
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrUnknownTag):
			httputil.WriteError(w, apperrors.New(apperrors.CodeNotFound, "no vehicle found for tag"))
		case errors.Is(err, identity.ErrUnmatchedPlate):
			httputil.WriteError(w, apperrors.New(apperrors.CodeNotFound, "no vehicle found for plate"))
		case errors.Is(err, identity.ErrMismatch), errors.Is(err, identity.ErrLicenseMissing):
			httputil.WriteError(w, apperrors.New(apperrors.CodeConflict, "MISMATCH: plate and tag identify different vehicles"))
		default:
			h.logger.ErrorContext(ctx, "notification lookup failed", "plate", plate, "error", err)
			httputil.WriteError(w, err)
		}
		return
	}

	list, err := h.service.ListByVehicle(ctx, ident.VehicleID, onlyUnread)
	if err != nil {
		h.logger.ErrorContext(ctx, "notification listing failed", "vehicle_id", ident.VehicleID, "error", err)
		httputil.WriteError(w, apperrors.Wrap(err, apperrors.CodeInternal, "notification listing failed"))
		return
	}

	resp := FromNotifications(ident.VehicleID, list)
	if ident.TagID == "" {
		resp.Advisory = "TAG_MISSING"
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
