package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OmerBikec/Enid-Beauty/internal/auth"
	"github.com/OmerBikec/Enid-Beauty/internal/identity"
)

func testIssuer(t *testing.T) *auth.TokenIssuer {
	t.Helper()
	issuer, err := auth.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	return issuer
}

func identityEcho(t *testing.T, got *identity.Identity) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := identity.FromContext(r.Context())
		require.True(t, ok)
		*got = ident
		w.WriteHeader(http.StatusOK)
	})
}

func TestSessionAuthAcceptsBearerToken(t *testing.T) {
	issuer := testIssuer(t)
	want := identity.Identity{UserID: "user-1", Role: identity.RolePatient}
	token, err := issuer.Issue(want)
	require.NoError(t, err)

	var got identity.Identity
	handler := SessionAuth(issuer)(identityEcho(t, &got))

	req := httptest.NewRequest(http.MethodGet, "/patients/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, want, got)
}

func TestSessionAuthAcceptsQueryToken(t *testing.T) {
	issuer := testIssuer(t)
	token, err := issuer.Issue(identity.Identity{UserID: "user-1", Role: identity.RolePatient})
	require.NoError(t, err)

	var got identity.Identity
	handler := SessionAuth(issuer)(identityEcho(t, &got))

	req := httptest.NewRequest(http.MethodGet, "/appointments/watch?token="+token, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", got.UserID)
}

func TestSessionAuthRejectsMissingAndBadTokens(t *testing.T) {
	issuer := testIssuer(t)
	handler := SessionAuth(issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/patients/me", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/patients/me", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	adminCtx := identity.WithIdentity(httptest.NewRequest(http.MethodGet, "/staff", nil).Context(),
		identity.Identity{UserID: "admin-1", Role: identity.RoleAdmin})
	req := httptest.NewRequest(http.MethodGet, "/staff", nil).WithContext(adminCtx)
	rec := httptest.NewRecorder()
	RequireAdmin(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	patientCtx := identity.WithIdentity(httptest.NewRequest(http.MethodGet, "/staff", nil).Context(),
		identity.Identity{UserID: "patient-a", Role: identity.RolePatient})
	req = httptest.NewRequest(http.MethodGet, "/staff", nil).WithContext(patientCtx)
	rec = httptest.NewRecorder()
	RequireAdmin(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// no identity at all
	req = httptest.NewRequest(http.MethodGet, "/staff", nil)
	rec = httptest.NewRecorder()
	RequireAdmin(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
