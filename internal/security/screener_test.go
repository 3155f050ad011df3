package security

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type recordingNotifier struct {
	calls []string
	fail  bool
}

func (n *recordingNotifier) Notify(_ context.Context, typ, message, priority string, _ *uuid.UUID, _ string) (bool, error) {
	if n.fail {
		return false, errors.New("notifier down")
	}
	n.calls = append(n.calls, typ+"|"+priority+"|"+message)
	return true, nil
}

type ScreenerSuite struct {
	suite.Suite
	store    *InMemoryStore
	notifier *recordingNotifier
	screener *Screener
}

func TestScreenerSuite(t *testing.T) {
	suite.Run(t, new(ScreenerSuite))
}

func (s *ScreenerSuite) SetupTest() {
	s.store = NewInMemory()
	s.notifier = &recordingNotifier{}
	s.screener = NewScreener(s.store, s.notifier, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (s *ScreenerSuite) TestScreen() {
	ctx := context.Background()

	s.Run("clear when neither registry matches", func() {
		screening, err := s.screener.Screen(ctx, "KA01AB1234", "TAG-0001")
		s.Require().NoError(err)
		s.Equal(ScreenClear, screening.Status)
	})

	s.Run("stolen plate", func() {
		s.Require().NoError(s.store.ReportStolen(ctx, &StolenRecord{
			Plate: "KA01AB1234", ReportingAgency: "City PD",
		}))
		screening, err := s.screener.Screen(ctx, "KA01AB1234", "TAG-0001")
		s.Require().NoError(err)
		s.Equal(ScreenStolen, screening.Status)
		s.Contains(screening.Details, "KA01AB1234")
		s.Contains(screening.Details, "City PD")
	})

	s.Run("blacklisted tag", func() {
		s.Require().NoError(s.store.AddBlacklistEntry(ctx, &BlacklistEntry{
			TagID: "TAG-0002", Reason: "Cloned transponder",
		}))
		screening, err := s.screener.Screen(ctx, "MH12CD5678", "TAG-0002")
		s.Require().NoError(err)
		s.Equal(ScreenBlacklisted, screening.Status)
		s.Equal("Cloned transponder", screening.Reason)
	})

	s.Run("stolen check wins over blacklist", func() {
		// KA01AB1234 already stolen; blacklist its tag too.
		s.Require().NoError(s.store.AddBlacklistEntry(ctx, &BlacklistEntry{
			TagID: "TAG-0001", Reason: "Cloned transponder",
		}))
		screening, err := s.screener.Screen(ctx, "KA01AB1234", "TAG-0001")
		s.Require().NoError(err)
		s.Equal(ScreenStolen, screening.Status)
	})

	s.Run("blacklist skipped without a tag", func() {
		screening, err := s.screener.Screen(ctx, "MH12CD5678", "")
		s.Require().NoError(err)
		s.Equal(ScreenClear, screening.Status)
	})
}

func (s *ScreenerSuite) TestEscalate() {
	ctx := context.Background()
	hit := ScreeningHit{
		Screening: Screening{Status: ScreenStolen, Details: "Stolen vehicle detected: KA01AB1234"},
		VehicleID: uuid.New(),
		Plate:     "KA01AB1234",
		PlazaID:   "PLZ-BLR-01",
	}

	s.Run("records notification, incident, and alert", func() {
		s.screener.Escalate(ctx, hit)

		s.Require().Len(s.notifier.calls, 1)
		s.Contains(s.notifier.calls[0], "STOLEN|CRITICAL|")
		s.Contains(s.notifier.calls[0], "KA01AB1234 flagged:")

		incidents := s.store.Incidents()
		s.Require().Len(incidents, 1)
		s.Equal("STOLEN Detected", incidents[0].Type)
		s.Equal("PLZ-BLR-01", incidents[0].Location)
		s.Equal("Open", incidents[0].Status)

		alerts := s.store.Alerts()
		s.Require().Len(alerts, 1)
		s.Equal("STOLEN", alerts[0].Type)
		s.Equal("ACTIVE", alerts[0].Status)
	})

	s.Run("incident and alert still written when notification fails", func() {
		s.notifier.fail = true
		s.screener.Escalate(ctx, hit)

		s.Len(s.store.Incidents(), 2)
		s.Len(s.store.Alerts(), 2)
	})
}
