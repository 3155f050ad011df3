package testutil

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"tollgate/pkg/requestcontext"
)

// WithRequestID injects a request ID, simulating the middleware chain for
// handler tests that run without a router.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

// WithAdminSubject injects an admin subject, simulating a request that
// passed the admin guard.
func WithAdminSubject(req *http.Request, subject string) *http.Request {
	return req.WithContext(requestcontext.WithAdminSubject(req.Context(), subject))
}

// AdminToken signs a short-lived HS256 bearer token accepted by the admin
// middleware.
func AdminToken(t *testing.T, signingKey, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subject,
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(signingKey))
	require.NoError(t, err, "failed to sign admin token")
	return signed
}
