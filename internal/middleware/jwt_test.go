package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateToken(userID, true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "civic-bridge-api", claims.Issuer)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not.a.token")
	assert.Error(t, err)

	_, err = ValidateToken("")
	assert.Error(t, err)
}

func TestMiddlewareProtectsRoutes(t *testing.T) {
	var gotUserID uuid.UUID
	var gotAdmin bool
	handler := func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = GetUserIDFromContext(r.Context())
		gotAdmin = GetIsAdminFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}

	protected := ApplyJWTMiddleware(handler, "/reports")

	// No header.
	w := httptest.NewRecorder()
	protected(w, httptest.NewRequest(http.MethodGet, "/reports", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Malformed header.
	req := httptest.NewRequest(http.MethodGet, "/reports", nil)
	req.Header.Set("Authorization", "Token abc")
	w = httptest.NewRecorder()
	protected(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid token flows identity into the request context.
	userID := uuid.New()
	token, err := GenerateToken(userID, false)
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/reports", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	protected(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, gotUserID)
	assert.False(t, gotAdmin)
}

func TestUnprotectedRoutesSkipAuth(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }
	open := ApplyJWTMiddleware(handler, "/reports/anonymous")

	w := httptest.NewRecorder()
	open(w, httptest.NewRequest(http.MethodPost, "/reports/anonymous", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
