// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carterperez-dev/tourbook/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Repo() Repository {
	return s.repo
}

func (s *Service) GetByID(
	ctx context.Context,
	id primitive.ObjectID,
) (*User, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	return s.repo.GetByEmail(ctx, NormalizeEmail(email))
}

// Create inserts a pre-hashed user record. Role defaults to user when
// the caller passes none.
func (s *Service) Create(
	ctx context.Context,
	name, email, passwordHash string,
	role Role,
) (*User, error) {
	if role == "" {
		role = RoleUser
	}

	u := &User{
		Name:      name,
		Email:     NormalizeEmail(email),
		Role:      role,
		Password:  passwordHash,
		Active:    true,
		CreatedAt: time.Now(),
	}

	created, err := s.repo.Insert(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return created, nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	id primitive.ObjectID,
	passwordHash string,
) error {
	// stored one second in the past so a token issued in the same
	// second as the change still fails the changed-after check
	changedAt := time.Now().Add(-time.Second)

	if err := s.repo.UpdatePassword(ctx, id, passwordHash, changedAt); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return nil
}

func (s *Service) SetResetToken(
	ctx context.Context,
	id primitive.ObjectID,
	tokenHash string,
	expires time.Time,
) error {
	return s.repo.SetResetToken(ctx, id, tokenHash, expires)
}

func (s *Service) ClearResetToken(
	ctx context.Context,
	id primitive.ObjectID,
) error {
	return s.repo.ClearResetToken(ctx, id)
}

func (s *Service) GetByResetTokenHash(
	ctx context.Context,
	tokenHash string,
) (*User, error) {
	return s.repo.GetByResetTokenHash(ctx, tokenHash, time.Now())
}

func (s *Service) GetMe(
	ctx context.Context,
	id primitive.ObjectID,
) (*User, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) UpdateMe(
	ctx context.Context,
	id primitive.ObjectID,
	req UpdateMeRequest,
) (*User, error) {
	patch := bson.M{}
	if req.Name != nil {
		patch["name"] = *req.Name
	}
	if req.Email != nil {
		patch["email"] = NormalizeEmail(*req.Email)
	}
	if req.Photo != nil {
		patch["photo"] = *req.Photo
	}

	if len(patch) == 0 {
		return nil, fmt.Errorf("update me: nothing to update: %w", core.ErrInvalidInput)
	}

	return s.repo.Update(ctx, id, patch)
}

// DeleteMe soft-deletes: the account drops out of every default query
// but the document remains.
func (s *Service) DeleteMe(ctx context.Context, id primitive.ObjectID) error {
	return s.repo.Deactivate(ctx, id)
}
