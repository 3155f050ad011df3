package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"tollgate/internal/toll"
	"tollgate/pkg/testutil"
)

type stubService struct {
	lastRequest toll.Request
	result      toll.DecisionResult
}

func (s *stubService) ProcessToll(_ context.Context, req toll.Request) toll.DecisionResult {
	s.lastRequest = req
	return s.result
}

type HandlerSuite struct {
	suite.Suite
	service *stubService
	router  chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.service = &stubService{result: toll.DecisionResult{Status: toll.StatusTollPaid}}
	s.router = chi.NewRouter()
	New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

func (s *HandlerSuite) TestProcess() {
	s.Run("paid decision serializes amounts as decimal strings", func() {
		amount := decimal.RequireFromString("2.50")
		balance := decimal.RequireFromString("97.50")
		s.service.result = toll.DecisionResult{
			Status: toll.StatusTollPaid, Amount: &amount, Balance: &balance,
		}

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/toll/process", map[string]string{
			"plaza_id": "PLZ-BLR-01", "license_plate": "ka01ab1234", "tag_id": "TAG-0001",
		})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "status", "TOLL_PAID")
		testutil.AssertJSONContains(s.T(), rr, "amount_charged", "2.5")
		testutil.AssertJSONContains(s.T(), rr, "account_balance", "97.5")
	})

	s.Run("plate is trimmed and uppercased before the engine sees it", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/toll/process", map[string]string{
			"plaza_id": " PLZ-BLR-01 ", "license_plate": " ka01ab1234 ",
		})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusOK(s.T(), rr)
		s.Equal("PLZ-BLR-01", s.service.lastRequest.PlazaID)
		s.Equal("KA01AB1234", s.service.lastRequest.Plate)
	})

	s.Run("denials are still 200 with a status field", func() {
		s.service.result = toll.DecisionResult{
			Status: toll.StatusInvalidPlaza, Message: "Toll plaza PLZ-NOPE does not exist.",
		}

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/toll/process", map[string]string{
			"plaza_id": "PLZ-NOPE",
		})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "status", "INVALID_PLAZA")
		testutil.AssertJSONContains(s.T(), rr, "message", "Toll plaza PLZ-NOPE does not exist.")
	})

	s.Run("empty body reaches the engine as an empty request", func() {
		s.service.result = toll.DecisionResult{Status: toll.StatusUnmatched}

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/toll/process", map[string]string{})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "status", "UNMATCHED")
	})

	s.Run("malformed JSON is a transport error", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/toll/process", "{not json")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("oversized field is rejected", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/toll/process", map[string]string{
			"plaza_id": "PLZ-BLR-01", "tag_id": strings.Repeat("X", 65),
		})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})
}
