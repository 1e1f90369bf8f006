// AngelaMos | 2026
// handler_test.go

package user

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carterperez-dev/tourbook/internal/core"
	"github.com/carterperez-dev/tourbook/internal/middleware"
	"github.com/carterperez-dev/tourbook/internal/query"
)

// stubUserRepo answers Update with a canned result; everything else is
// unused by the handlers under test.
type stubUserRepo struct {
	updated   *User
	updateErr error
}

func (s *stubUserRepo) Find(_ context.Context, _ query.Options) ([]User, error) {
	return nil, nil
}

func (s *stubUserRepo) Count(_ context.Context, _ bson.M) (int64, error) {
	return 0, nil
}

func (s *stubUserRepo) Get(_ context.Context, _ primitive.ObjectID) (*User, error) {
	return nil, core.ErrNotFound
}

func (s *stubUserRepo) Insert(_ context.Context, u *User) (*User, error) {
	return u, nil
}

func (s *stubUserRepo) Update(
	_ context.Context,
	_ primitive.ObjectID,
	_ bson.M,
) (*User, error) {
	return s.updated, s.updateErr
}

func (s *stubUserRepo) Delete(_ context.Context, _ primitive.ObjectID) error {
	return nil
}

func (s *stubUserRepo) GetByEmail(_ context.Context, _ string) (*User, error) {
	return nil, core.ErrNotFound
}

func (s *stubUserRepo) GetByResetTokenHash(
	_ context.Context,
	_ string,
	_ time.Time,
) (*User, error) {
	return nil, core.ErrNotFound
}

func (s *stubUserRepo) UpdatePassword(
	_ context.Context,
	_ primitive.ObjectID,
	_ string,
	_ time.Time,
) error {
	return nil
}

func (s *stubUserRepo) SetResetToken(
	_ context.Context,
	_ primitive.ObjectID,
	_ string,
	_ time.Time,
) error {
	return nil
}

func (s *stubUserRepo) ClearResetToken(_ context.Context, _ primitive.ObjectID) error {
	return nil
}

func (s *stubUserRepo) Deactivate(_ context.Context, _ primitive.ObjectID) error {
	return nil
}

func (s *stubUserRepo) EnsureIndexes(_ context.Context) error {
	return nil
}

func updateMeRequest(t *testing.T, body string) *http.Request {
	t.Helper()

	req := httptest.NewRequest(
		http.MethodPatch,
		"/users/updateMe",
		bytes.NewReader([]byte(body)),
	)
	ctx := context.WithValue(
		req.Context(),
		middleware.UserIDKey,
		primitive.NewObjectID().Hex(),
	)
	return req.WithContext(ctx)
}

func TestUpdateMeDuplicateEmail(t *testing.T) {
	repo := &stubUserRepo{
		updateErr: fmt.Errorf("update user: %w", core.ErrDuplicateKey),
	}
	h := NewHandler(NewService(repo))

	rec := httptest.NewRecorder()
	h.UpdateMe(rec, updateMeRequest(t, `{"email":"taken@example.com"}`))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "fail", body["status"])
	assert.Equal(t, "email already in use", body["message"])
}

func TestUpdateMeRejectsPasswordFields(t *testing.T) {
	h := NewHandler(NewService(&stubUserRepo{}))

	for _, body := range []string{
		`{"password":"newpass123"}`,
		`{"passwordConfirm":"newpass123"}`,
	} {
		rec := httptest.NewRecorder()
		h.UpdateMe(rec, updateMeRequest(t, body))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "updateMyPassword")
	}
}

func TestUpdateMeReturnsUpdatedUser(t *testing.T) {
	repo := &stubUserRepo{
		updated: &User{
			ID:    primitive.NewObjectID(),
			Name:  "Aria Stark",
			Email: "aria@example.com",
			Role:  RoleUser,
		},
	}
	h := NewHandler(NewService(repo))

	rec := httptest.NewRecorder()
	h.UpdateMe(rec, updateMeRequest(t, `{"name":"Aria Stark"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"success"`)
	assert.Contains(t, rec.Body.String(), "Aria Stark")
}
