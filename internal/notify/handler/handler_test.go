package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"tollgate/internal/identity"
	"tollgate/internal/notify"
	"tollgate/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	identityStore *identity.InMemoryStore
	notifyStore   *notify.InMemoryStore
	router        chi.Router

	vehicleID uuid.UUID
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.identityStore = identity.NewInMemory()
	s.notifyStore = notify.NewInMemory()

	resolver := identity.NewResolver(s.identityStore, logger)
	service := notify.NewService(s.notifyStore, s.identityStore, logger)

	s.router = chi.NewRouter()
	New(resolver, service, logger).Register(s.router)

	ctx := context.Background()
	v := &identity.Vehicle{
		ID: uuid.New(), Plate: "KA01AB1234", VehicleType: "Car",
		Model: "Civic", Color: "Blue", OwnerID: uuid.New(),
	}
	s.Require().NoError(s.identityStore.CreateVehicle(ctx, v))
	s.Require().NoError(s.identityStore.CreateTag(ctx, &identity.Tag{
		ID: "TAG-0001", VehicleID: v.ID, Active: true,
		IssueDate: time.Now(), ExpiryDate: time.Now().Add(24 * time.Hour),
	}))
	s.vehicleID = v.ID

	other := &identity.Vehicle{
		ID: uuid.New(), Plate: "MH12CD5678", VehicleType: "Truck",
		Model: "Unknown", Color: "Unpainted", OwnerID: uuid.New(),
	}
	s.Require().NoError(s.identityStore.CreateVehicle(ctx, other))
	s.Require().NoError(s.identityStore.CreateTag(ctx, &identity.Tag{
		ID: "TAG-0002", VehicleID: other.ID, Active: true,
		IssueDate: time.Now(), ExpiryDate: time.Now().Add(24 * time.Hour),
	}))

	tagless := &identity.Vehicle{
		ID: uuid.New(), Plate: "GJ05QR1111", VehicleType: "Car",
		Model: "Unknown", Color: "Unpainted", OwnerID: uuid.New(),
	}
	s.Require().NoError(s.identityStore.CreateVehicle(ctx, tagless))

	_, err := notify.NewService(s.notifyStore, s.identityStore, logger).
		Notify(ctx, notify.TypeLowBalance, "Insufficient balance (1) for toll 2.5 - Vehicle: KA01AB1234", "HIGH", &s.vehicleID, "PLZ-BLR-01")
	s.Require().NoError(err)
}

func (s *HandlerSuite) TestList() {
	s.Run("matching plate and tag returns the vehicle's notifications", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/notifications?plate=ka01ab1234&tag_id=TAG-0001")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[ListResponse](s.T(), rr)
		s.Equal(s.vehicleID, resp.VehicleID)
		s.Equal(1, resp.Count)
		s.Require().Len(resp.Notifications, 1)
		s.Equal(notify.TypeLowBalance, resp.Notifications[0].Type)
		s.Equal("unread", resp.Notifications[0].Status)
	})

	s.Run("tag-only lookup resolves the vehicle", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/notifications?tag_id=TAG-0001")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[ListResponse](s.T(), rr)
		s.Equal(s.vehicleID, resp.VehicleID)
		s.Equal(1, resp.Count)
		s.Empty(resp.Advisory)
	})

	s.Run("plate-only lookup resolves through the active tag", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/notifications?plate=KA01AB1234")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[ListResponse](s.T(), rr)
		s.Equal(s.vehicleID, resp.VehicleID)
		s.Empty(resp.Advisory)
	})

	s.Run("plate-only lookup flags a tagless vehicle", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/notifications?plate=GJ05QR1111")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[ListResponse](s.T(), rr)
		s.Equal("TAG_MISSING", resp.Advisory)
	})

	s.Run("missing both identifiers is a transport error", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/notifications")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("unknown plate is not found", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/notifications?plate=ZZ99XX0000")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})

	s.Run("unknown tag is not found", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/notifications?plate=KA01AB1234&tag_id=TAG-9999")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})

	s.Run("plate and tag from different vehicles is a mismatch", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/notifications?plate=KA01AB1234&tag_id=TAG-0002")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
		errResp := testutil.UnmarshalErrorResponse(s.T(), rr)
		s.Contains(errResp["error_description"], "MISMATCH")
	})

	s.Run("unread filter hides nothing while all are unread", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/notifications?plate=KA01AB1234&tag_id=TAG-0001&unread=true")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[ListResponse](s.T(), rr)
		s.Equal(1, resp.Count)
	})
}
