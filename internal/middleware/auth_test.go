// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/tourbook/internal/core"
)

type fakeAuthenticator struct {
	principal *Principal
	err       error
}

func (f *fakeAuthenticator) Authenticate(
	_ context.Context,
	_ string,
) (*Principal, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.principal, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"bearer", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"lowercase scheme", "bearer abc.def.ghi", "abc.def.ghi"},
		{"missing header", "", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz", ""},
		{"scheme only", "Bearer", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}

			assert.Equal(t, tt.want, ExtractToken(r))
		})
	}
}

func TestProtectMissingToken(t *testing.T) {
	handler := Protect(&fakeAuthenticator{})(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "fail", body["status"])
	assert.Contains(t, body["message"], "not logged in")
}

func TestProtectRejectedToken(t *testing.T) {
	handler := Protect(&fakeAuthenticator{
		err: core.TokenInvalidError(),
	})(okHandler())

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer bad-token")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectAttachesPrincipal(t *testing.T) {
	var gotID, gotRole string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = GetUserID(r.Context())
		gotRole = GetUserRole(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := Protect(&fakeAuthenticator{
		principal: &Principal{UserID: "abc123", Role: "guide"},
	})(inner)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer good-token")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc123", gotID)
	assert.Equal(t, "guide", gotRole)
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
	handler := RequireRole("admin", "lead-guide")(okHandler())

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(r.Context(), UserIDKey, "abc123")
	ctx = context.WithValue(ctx, UserRoleKey, "lead-guide")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r.WithContext(ctx))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleForbidsOtherRole(t *testing.T) {
	handler := RequireRole("admin")(okHandler())

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(r.Context(), UserIDKey, "abc123")
	ctx = context.WithValue(ctx, UserRoleKey, "user")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r.WithContext(ctx))

	require.Equal(t, http.StatusForbidden, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "fail", body["status"])
	assert.Contains(t, body["message"], "permission")
}

func TestRequireRoleWithoutPrincipal(t *testing.T) {
	handler := RequireRole("admin")(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
