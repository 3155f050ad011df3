// Package toll holds the decision engine: one request/response pass that
// resolves a vehicle, screens it, prices the crossing, and settles it.
package toll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"tollgate/internal/identity"
	"tollgate/internal/ledger"
	"tollgate/internal/notify"
	"tollgate/internal/rating"
	"tollgate/internal/security"
	"tollgate/internal/toll/metrics"
)

// Collaborator interfaces. The engine owns these so implementations stay
// swappable and tests can run against in-memory components.
type (
	IdentityResolver interface {
		Resolve(ctx context.Context, plate, tagID string) (*identity.VehicleIdentity, error)
	}

	SecurityScreener interface {
		Screen(ctx context.Context, plate, tagID string) (*security.Screening, error)
		Escalate(ctx context.Context, hit security.ScreeningHit)
	}

	TollRater interface {
		ValidatePlaza(ctx context.Context, plazaID string) (bool, error)
		Rate(ctx context.Context, vehicleType, plazaID string) (*rating.RateQuote, error)
	}

	LedgerSettler interface {
		Settle(ctx context.Context, in ledger.Input) (*ledger.Result, error)
	}

	Notifier interface {
		Notify(ctx context.Context, typ, message, priority string, vehicleID *uuid.UUID, plazaID string) (bool, error)
	}
)

// Engine sequences one decision:
//
//	VALIDATE_PLAZA -> RESOLVE_IDENTITY -> SCREEN_SECURITY -> RATE_TOLL -> SETTLE_LEDGER
//
// Each stage is a strict gate; a failed stage short-circuits to a terminal
// status and nothing transitions backward within a request.
type Engine struct {
	resolver   IdentityResolver
	screener   SecurityScreener
	rater      TollRater
	settler    LedgerSettler
	notifier   Notifier
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	requireTag bool
}

type Option func(*Engine)

// WithMetrics attaches Prometheus metrics; optional so tests can skip
// registry setup.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithRequireTag sets the missing-tag policy: terminal TAG_MISSING when
// true, advisory when false.
func WithRequireTag(require bool) Option {
	return func(e *Engine) {
		e.requireTag = require
	}
}

func NewEngine(resolver IdentityResolver, screener SecurityScreener, rater TollRater, settler LedgerSettler, notifier Notifier, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		resolver:   resolver,
		screener:   screener,
		rater:      rater,
		settler:    settler,
		notifier:   notifier,
		logger:     logger,
		tracer:     otel.Tracer("tollgate/toll"),
		requireTag: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProcessToll runs one full decision. It never returns an error: every
// failure mode maps onto a terminal status, and infrastructure failures
// surface as StatusError with a message.
func (e *Engine) ProcessToll(ctx context.Context, req Request) DecisionResult {
	start := time.Now()
	ctx, span := e.tracer.Start(ctx, "toll.ProcessToll")
	defer span.End()

	result := e.process(ctx, req)

	span.SetAttributes(
		attribute.String("toll.status", string(result.Status)),
		attribute.String("toll.plaza_id", req.PlazaID),
	)
	if e.metrics != nil {
		e.metrics.ObserveDecision(string(result.Status), time.Since(start).Seconds())
	}
	return result
}

func (e *Engine) process(ctx context.Context, req Request) DecisionResult {
	// VALIDATE_PLAZA: input checks first, no store round trips.
	if req.PlazaID == "" {
		return DecisionResult{Status: StatusInvalidPlaza, Message: "toll plaza ID is required"}
	}
	if req.Plate == "" && req.TagID == "" {
		return DecisionResult{Status: StatusUnmatched, Message: "either license plate or tag ID must be provided"}
	}

	ok, err := e.rater.ValidatePlaza(ctx, req.PlazaID)
	if err != nil {
		return e.fail(ctx, err, "plaza validation")
	}
	if !ok {
		e.logger.WarnContext(ctx, "invalid toll plaza", "plaza_id", req.PlazaID)
		return DecisionResult{
			Status:  StatusInvalidPlaza,
			Message: fmt.Sprintf("Toll plaza %s does not exist.", req.PlazaID),
		}
	}

	// RESOLVE_IDENTITY
	ident, err := e.resolver.Resolve(ctx, req.Plate, req.TagID)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrUnknownTag):
			e.sideNotify(ctx, notify.TypeUnknownTag,
				fmt.Sprintf("Unknown or inactive tag %s", req.TagID), "HIGH", nil, req.PlazaID)
			return DecisionResult{Status: StatusUnknownTag}
		case errors.Is(err, identity.ErrLicenseMissing):
			var vehicleID *uuid.UUID
			if ident != nil {
				vehicleID = &ident.VehicleID
			}
			e.sideNotify(ctx, notify.TypeLicenseMissing,
				fmt.Sprintf("Missing license plate for tag %s", req.TagID), "HIGH", vehicleID, req.PlazaID)
			return DecisionResult{Status: StatusLicenseMissing}
		case errors.Is(err, identity.ErrUnmatchedPlate):
			e.sideNotify(ctx, notify.TypeUnmatchedPlate,
				fmt.Sprintf("Unknown vehicle %s", req.Plate), "HIGH", nil, req.PlazaID)
			return DecisionResult{Status: StatusUnmatchedPlate}
		default:
			return e.fail(ctx, err, "identity resolution")
		}
	}

	if ident.TagID == "" {
		vehicleID := ident.VehicleID
		e.sideNotify(ctx, notify.TypeTagMissing,
			fmt.Sprintf("Missing or inactive RFID on %s", ident.Plate), "MEDIUM", &vehicleID, req.PlazaID)
		if e.requireTag {
			return DecisionResult{Status: StatusTagMissing}
		}
		e.logger.InfoContext(ctx, "proceeding without tag", "plate", ident.Plate, "plaza_id", req.PlazaID)
	}

	// SCREEN_SECURITY
	screening, err := e.screener.Screen(ctx, ident.Plate, ident.TagID)
	if err != nil {
		return e.fail(ctx, err, "security screening")
	}
	if screening.Status != security.ScreenClear {
		if e.metrics != nil {
			e.metrics.IncrementSecurityHits()
		}
		e.screener.Escalate(ctx, security.ScreeningHit{
			Screening: *screening,
			VehicleID: ident.VehicleID,
			Plate:     ident.Plate,
			PlazaID:   req.PlazaID,
		})
		details := screening.Details
		if screening.Reason != "" {
			details = screening.Reason
		}
		return DecisionResult{Status: Status(screening.Status), Details: details}
	}

	// RATE_TOLL
	quote, err := e.rater.Rate(ctx, ident.VehicleType, req.PlazaID)
	if err != nil {
		if errors.Is(err, rating.ErrNoRate) {
			return DecisionResult{
				Status:  StatusNoRate,
				Message: fmt.Sprintf("No toll rate for vehicle type %s", ident.VehicleType),
			}
		}
		return e.fail(ctx, err, "toll rating")
	}

	// SETTLE_LEDGER
	settled, err := e.settler.Settle(ctx, ledger.Input{
		OwnerID:   ident.OwnerID,
		VehicleID: ident.VehicleID,
		Plate:     ident.Plate,
		TagID:     ident.TagID,
		PlazaID:   req.PlazaID,
		Amount:    quote.Amount,
	})
	if err != nil {
		if errors.Is(err, ledger.ErrAccountMissing) {
			return DecisionResult{Status: StatusAccountMissing}
		}
		return e.fail(ctx, err, "ledger settlement")
	}

	amount := settled.Amount
	balance := settled.Balance
	switch settled.Outcome {
	case ledger.OutcomePaid:
		return DecisionResult{Status: StatusTollPaid, Amount: &amount, Balance: &balance}
	case ledger.OutcomePending:
		return DecisionResult{
			Status:   StatusPendingToll,
			Required: &amount,
			Balance:  &balance,
			Message:  fmt.Sprintf("Vehicle has unresolved toll at %s", req.PlazaID),
		}
	default:
		return DecisionResult{Status: StatusInsufficientFunds, Required: &amount, Balance: &balance}
	}
}

// sideNotify performs the failure-path notification writes. Per the error
// taxonomy these never change the returned status; a failed write is logged
// and dropped.
func (e *Engine) sideNotify(ctx context.Context, typ, message, priority string, vehicleID *uuid.UUID, plazaID string) {
	if _, err := e.notifier.Notify(ctx, typ, message, priority, vehicleID, plazaID); err != nil {
		e.logger.ErrorContext(ctx, "notification write failed",
			"type", typ, "plaza_id", plazaID, "error", err)
	}
}

// fail classifies an infrastructure error. Writes completed by earlier
// stages stay durable; there is no partial rollback.
func (e *Engine) fail(ctx context.Context, err error, stage string) DecisionResult {
	e.logger.ErrorContext(ctx, "toll processing failed", "stage", stage, "error", err)
	return DecisionResult{Status: StatusError, Message: fmt.Sprintf("%s failed: %v", stage, err)}
}
