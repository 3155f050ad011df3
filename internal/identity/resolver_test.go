package identity

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type ResolverSuite struct {
	suite.Suite
	store    *InMemoryStore
	resolver *Resolver

	vehicleID uuid.UUID
	ownerID   uuid.UUID
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	s.store = NewInMemory()
	s.resolver = NewResolver(s.store, slog.New(slog.NewTextHandler(io.Discard, nil)))

	s.vehicleID = uuid.New()
	s.ownerID = uuid.New()
	ctx := context.Background()
	s.Require().NoError(s.store.CreateVehicle(ctx, &Vehicle{
		ID: s.vehicleID, Plate: "KA01AB1234", VehicleType: "Car", OwnerID: s.ownerID,
	}))
	s.Require().NoError(s.store.CreateTag(ctx, &Tag{
		ID: "TAG-0001", VehicleID: s.vehicleID, Active: true,
		IssueDate: time.Now(), ExpiryDate: time.Now().Add(DefaultTagValidity),
	}))
}

func (s *ResolverSuite) TestResolveByTag() {
	ctx := context.Background()

	s.Run("active tag resolves full identity", func() {
		ident, err := s.resolver.Resolve(ctx, "", "TAG-0001")
		s.Require().NoError(err)
		s.Equal(s.vehicleID, ident.VehicleID)
		s.Equal("KA01AB1234", ident.Plate)
		s.Equal("Car", ident.VehicleType)
		s.Equal(s.ownerID, ident.OwnerID)
		s.Equal("TAG-0001", ident.TagID)
	})

	s.Run("tag wins when both identifiers are supplied", func() {
		ident, err := s.resolver.Resolve(ctx, "ZZ99XX0000", "TAG-0001")
		s.Require().NoError(err)
		s.Equal(s.vehicleID, ident.VehicleID)
	})

	s.Run("unknown tag", func() {
		_, err := s.resolver.Resolve(ctx, "", "TAG-GHOST")
		s.ErrorIs(err, ErrUnknownTag)
	})

	s.Run("deactivated tag resolves like unknown", func() {
		s.store.DeactivateTag(ctx, "TAG-0001")
		_, err := s.resolver.Resolve(ctx, "", "TAG-0001")
		s.ErrorIs(err, ErrUnknownTag)
	})
}

func (s *ResolverSuite) TestResolveByPlate() {
	ctx := context.Background()

	s.Run("registered plate resolves with its active tag", func() {
		ident, err := s.resolver.Resolve(ctx, "KA01AB1234", "")
		s.Require().NoError(err)
		s.Equal(s.vehicleID, ident.VehicleID)
		s.Equal("TAG-0001", ident.TagID)
	})

	s.Run("plate with no active tag is not an error", func() {
		s.store.DeactivateTag(ctx, "TAG-0001")
		ident, err := s.resolver.Resolve(ctx, "KA01AB1234", "")
		s.Require().NoError(err)
		s.Empty(ident.TagID)
	})

	s.Run("unregistered plate", func() {
		_, err := s.resolver.Resolve(ctx, "ZZ99XX0000", "")
		s.ErrorIs(err, ErrUnmatchedPlate)
	})
}

func (s *ResolverSuite) TestTaggedVehicleWithoutPlate() {
	ctx := context.Background()
	plateless := uuid.New()
	s.Require().NoError(s.store.CreateVehicle(ctx, &Vehicle{
		ID: plateless, VehicleType: "Truck", OwnerID: uuid.New(),
	}))
	s.Require().NoError(s.store.CreateTag(ctx, &Tag{
		ID: "TAG-PLATELESS", VehicleID: plateless, Active: true,
	}))

	ident, err := s.resolver.Resolve(ctx, "", "TAG-PLATELESS")
	s.ErrorIs(err, ErrLicenseMissing)
	// Partial identity comes back so the caller can reference the vehicle.
	s.Require().NotNil(ident)
	s.Equal(plateless, ident.VehicleID)
}

func (s *ResolverSuite) TestCrossValidate() {
	ctx := context.Background()

	s.Run("matching pair", func() {
		ident, err := s.resolver.CrossValidate(ctx, "KA01AB1234", "TAG-0001")
		s.Require().NoError(err)
		s.Equal(s.vehicleID, ident.VehicleID)
	})

	s.Run("plate belonging to a different vehicle", func() {
		other := uuid.New()
		s.Require().NoError(s.store.CreateVehicle(ctx, &Vehicle{
			ID: other, Plate: "MH12CD5678", VehicleType: "Car", OwnerID: uuid.New(),
		}))
		_, err := s.resolver.CrossValidate(ctx, "MH12CD5678", "TAG-0001")
		s.ErrorIs(err, ErrMismatch)
	})

	s.Run("unknown tag", func() {
		_, err := s.resolver.CrossValidate(ctx, "KA01AB1234", "TAG-GHOST")
		s.ErrorIs(err, ErrUnknownTag)
	})
}
