package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tollgate/internal/identity"
	"tollgate/pkg/platform/httputil"
	"tollgate/pkg/requestcontext"
)

// Service defines the registration operations the transport layer invokes.
type Service interface {
	Register(ctx context.Context, reg identity.Registration) (*identity.Vehicle, *identity.Tag, error)
	AssignTag(ctx context.Context, plate, tagID string) (*identity.Tag, error)
	GetByPlate(ctx context.Context, plate string) (*identity.Vehicle, *identity.Tag, error)
}

// Handler wires vehicle and tag registration endpoints to the identity
// service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts identity endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/vehicles/register", h.HandleRegisterVehicle)
	r.Get("/vehicles/{plate}", h.HandleGetVehicle)
	r.Post("/rfid/assign", h.HandleAssignTag)
}

// HandleRegisterVehicle handles POST /vehicles/register requests.
func (h *Handler) HandleRegisterVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterVehicleRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	vehicle, tag, err := h.service.Register(ctx, identity.Registration{
		Plate:       req.LicensePlate,
		VehicleType: req.VehicleType,
		Model:       req.Model,
		Color:       req.Color,
		OwnerID:     req.ParsedOwnerID(),
		TagID:       req.TagID,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "vehicle registration failed",
			"request_id", requestID, "plate", req.LicensePlate, "error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, FromVehicle(vehicle, tag))
}

// HandleGetVehicle handles GET /vehicles/{plate} requests.
func (h *Handler) HandleGetVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	plate := chi.URLParam(r, "plate")

	vehicle, tag, err := h.service.GetByPlate(ctx, plate)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromVehicle(vehicle, tag))
}

// HandleAssignTag handles POST /rfid/assign requests.
func (h *Handler) HandleAssignTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[AssignTagRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	tag, err := h.service.AssignTag(ctx, req.LicensePlate, req.TagID)
	if err != nil {
		h.logger.ErrorContext(ctx, "tag assignment failed",
			"request_id", requestID, "plate", req.LicensePlate, "tag_id", req.TagID, "error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, FromTag(tag))
}
