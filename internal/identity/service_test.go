package identity

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"tollgate/pkg/apperrors"
)

type ServiceSuite struct {
	suite.Suite
	store   *InMemoryStore
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = NewInMemory()
	s.service = NewService(s.store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (s *ServiceSuite) TestRegister() {
	ctx := context.Background()

	s.Run("creates vehicle and tag together", func() {
		v, tag, err := s.service.Register(ctx, Registration{
			Plate: "KA01AB1234", VehicleType: "Car", Model: "Civic", Color: "Blue",
			OwnerID: uuid.New(), TagID: "TAG-0001",
		})
		s.Require().NoError(err)
		s.Equal("KA01AB1234", v.Plate)
		s.Equal(v.ID, tag.VehicleID)
		s.True(tag.Active)
		s.Equal(tag.IssueDate.Add(DefaultTagValidity), tag.ExpiryDate)
	})

	s.Run("defaults model and color", func() {
		v, _, err := s.service.Register(ctx, Registration{
			Plate: "KA02CD5678", VehicleType: "Truck", OwnerID: uuid.New(), TagID: "TAG-0002",
		})
		s.Require().NoError(err)
		s.Equal("Unknown", v.Model)
		s.Equal("Unpainted", v.Color)
	})

	s.Run("rejects missing plate", func() {
		_, _, err := s.service.Register(ctx, Registration{TagID: "TAG-0003"})
		s.Equal(apperrors.CodeBadRequest, apperrors.CodeOf(err))
	})

	s.Run("rejects duplicate plate", func() {
		_, _, err := s.service.Register(ctx, Registration{
			Plate: "KA01AB1234", VehicleType: "Car", OwnerID: uuid.New(), TagID: "TAG-0004",
		})
		s.Equal(apperrors.CodeConflict, apperrors.CodeOf(err))
	})

	s.Run("rejects duplicate tag", func() {
		_, _, err := s.service.Register(ctx, Registration{
			Plate: "TN10GH3456", VehicleType: "Car", OwnerID: uuid.New(), TagID: "TAG-0001",
		})
		s.Equal(apperrors.CodeConflict, apperrors.CodeOf(err))
	})
}

func (s *ServiceSuite) TestAssignTag() {
	ctx := context.Background()
	_, _, err := s.service.Register(ctx, Registration{
		Plate: "KA01AB1234", VehicleType: "Car", OwnerID: uuid.New(), TagID: "TAG-0001",
	})
	s.Require().NoError(err)

	s.Run("assigns a second tag by plate", func() {
		tag, err := s.service.AssignTag(ctx, "KA01AB1234", "TAG-0002")
		s.Require().NoError(err)
		s.True(tag.Active)
	})

	s.Run("unknown plate", func() {
		_, err := s.service.AssignTag(ctx, "ZZ99XX0000", "TAG-0003")
		s.Equal(apperrors.CodeNotFound, apperrors.CodeOf(err))
	})
}

func (s *ServiceSuite) TestGetByPlate() {
	ctx := context.Background()
	v, tag, err := s.service.Register(ctx, Registration{
		Plate: "KA01AB1234", VehicleType: "Car", OwnerID: uuid.New(), TagID: "TAG-0001",
	})
	s.Require().NoError(err)

	s.Run("returns vehicle with active tag", func() {
		got, gotTag, err := s.service.GetByPlate(ctx, "KA01AB1234")
		s.Require().NoError(err)
		s.Equal(v.ID, got.ID)
		s.Require().NotNil(gotTag)
		s.Equal(tag.ID, gotTag.ID)
	})

	s.Run("nil tag when deactivated", func() {
		s.store.DeactivateTag(ctx, tag.ID)
		_, gotTag, err := s.service.GetByPlate(ctx, "KA01AB1234")
		s.Require().NoError(err)
		s.Nil(gotTag)
	})

	s.Run("unknown plate", func() {
		_, _, err := s.service.GetByPlate(ctx, "ZZ99XX0000")
		s.Equal(apperrors.CodeNotFound, apperrors.CodeOf(err))
	})
}
