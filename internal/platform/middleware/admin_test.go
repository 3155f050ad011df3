package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"

	"tollgate/pkg/requestcontext"
	"tollgate/pkg/testutil"
)

const signingKey = "test-admin-signing-key"

type AdminMiddlewareSuite struct {
	suite.Suite
	handler http.Handler

	seenSubject string
}

func TestAdminMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(AdminMiddlewareSuite))
}

func (s *AdminMiddlewareSuite) SetupTest() {
	s.seenSubject = ""
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.seenSubject = requestcontext.AdminSubject(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	s.handler = RequireAdmin(signingKey, logger)(inner)
}

func (s *AdminMiddlewareSuite) TestRequireAdmin() {
	s.Run("valid admin token passes and exposes the subject", func() {
		req := testutil.NewRequest(s.T(), http.MethodPost, "/security/stolen")
		req.Header.Set("Authorization", "Bearer "+testutil.AdminToken(s.T(), signingKey, "ops@toll"))

		rr := testutil.DoRequest(s.handler, req)
		testutil.AssertStatus(s.T(), rr, http.StatusNoContent)
		s.Equal("ops@toll", s.seenSubject)
	})

	s.Run("missing header is unauthorized", func() {
		req := testutil.NewRequest(s.T(), http.MethodPost, "/security/stolen")
		rr := testutil.DoRequest(s.handler, req)
		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
	})

	s.Run("token signed with the wrong key is rejected", func() {
		req := testutil.NewRequest(s.T(), http.MethodPost, "/security/stolen")
		req.Header.Set("Authorization", "Bearer "+testutil.AdminToken(s.T(), "some-other-key", "ops@toll"))

		rr := testutil.DoRequest(s.handler, req)
		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
	})

	s.Run("non-admin role is rejected", func() {
		claims := jwt.MapClaims{"sub": "viewer@toll", "role": "viewer", "exp": time.Now().Add(time.Hour).Unix()}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signingKey))
		s.Require().NoError(err)

		req := testutil.NewRequest(s.T(), http.MethodPost, "/security/stolen")
		req.Header.Set("Authorization", "Bearer "+token)

		rr := testutil.DoRequest(s.handler, req)
		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
	})

	s.Run("expired token is rejected", func() {
		claims := jwt.MapClaims{"sub": "ops@toll", "role": "admin", "exp": time.Now().Add(-time.Minute).Unix()}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signingKey))
		s.Require().NoError(err)

		req := testutil.NewRequest(s.T(), http.MethodPost, "/security/stolen")
		req.Header.Set("Authorization", "Bearer "+token)

		rr := testutil.DoRequest(s.handler, req)
		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
	})
}
