// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carterperez-dev/tourbook/internal/core"
	"github.com/carterperez-dev/tourbook/internal/mail"
	"github.com/carterperez-dev/tourbook/internal/middleware"
	"github.com/carterperez-dev/tourbook/internal/user"
)

const resetTokenTTL = 10 * time.Minute

var ErrInvalidCredentials = errors.New("invalid credentials")

// UserProvider is the slice of the user service the auth chain needs.
type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*user.User, error)
	Create(
		ctx context.Context,
		name, email, passwordHash string,
		role user.Role,
	) (*user.User, error)
	UpdatePassword(
		ctx context.Context,
		id primitive.ObjectID,
		passwordHash string,
	) error
	SetResetToken(
		ctx context.Context,
		id primitive.ObjectID,
		tokenHash string,
		expires time.Time,
	) error
	ClearResetToken(ctx context.Context, id primitive.ObjectID) error
	GetByResetTokenHash(
		ctx context.Context,
		tokenHash string,
	) (*user.User, error)
}

type Service struct {
	users     UserProvider
	tokens    *TokenManager
	mailer    mail.Mailer
	publicURL string
}

func NewService(
	users UserProvider,
	tokens *TokenManager,
	mailer mail.Mailer,
	publicURL string,
) *Service {
	return &Service{
		users:     users,
		tokens:    tokens,
		mailer:    mailer,
		publicURL: publicURL,
	}
}

func (s *Service) Signup(
	ctx context.Context,
	req SignupRequest,
) (*user.User, string, error) {
	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	role := user.RoleUser
	if req.Role != "" {
		role, err = user.ParseRole(req.Role)
		if err != nil {
			return nil, "", core.BadRequestError(err.Error())
		}
	}

	u, err := s.users.Create(ctx, req.Name, req.Email, passwordHash, role)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, "", core.DuplicateError("email")
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Sign(u.ID.Hex())
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}

	return u, token, nil
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*user.User, string, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			// burn the same hashing time for unknown emails
			//nolint:errcheck // timing equalization only
			_, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("get user: %w", err)
	}

	valid, err := core.VerifyPasswordTimingSafe(req.Password, &u.Password)
	if err != nil {
		return nil, "", fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Sign(u.ID.Hex())
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}

	return u, token, nil
}

// Authenticate is the protect chain behind the middleware gate: verify
// the token, confirm the user still exists, reject tokens issued before
// the last password change.
func (s *Service) Authenticate(
	ctx context.Context,
	token string,
) (*middleware.Principal, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		if errors.Is(err, core.ErrTokenExpired) {
			return nil, core.TokenExpiredError()
		}
		return nil, core.TokenInvalidError()
	}

	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, core.TokenInvalidError()
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.UnauthorizedError(
				"the user belonging to this token no longer exists",
			)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if u.ChangedPasswordAfter(claims.IssuedAt) {
		return nil, core.UnauthorizedError(
			"password was changed recently, please log in again",
		)
	}

	return &middleware.Principal{
		UserID: u.ID.Hex(),
		Role:   u.Role.String(),
	}, nil
}

// ForgotPassword stores only the hash of a fresh reset token and mails
// the plaintext inside a reset link. A failed delivery clears the
// stored hash so no unusable token lingers.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NewAppError(
				core.ErrNotFound,
				"there is no user with that email address",
				http.StatusNotFound,
				"USER_NOT_FOUND",
			)
		}
		return fmt.Errorf("get user: %w", err)
	}

	resetToken, err := core.GenerateResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	expires := time.Now().Add(resetTokenTTL)
	if err := s.users.SetResetToken(
		ctx,
		u.ID,
		core.HashToken(resetToken),
		expires,
	); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	resetURL := fmt.Sprintf(
		"%s/api/v1/users/resetPassword/%s",
		s.publicURL,
		resetToken,
	)

	msg := mail.Message{
		To:      u.Email,
		Subject: "Your password reset token (valid for 10 minutes)",
		Body: fmt.Sprintf(
			"Forgot your password? Submit a PATCH request with your new "+
				"password and passwordConfirm to: %s\n"+
				"If you didn't forget your password, please ignore this email.",
			resetURL,
		),
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		//nolint:errcheck // the delivery failure is the error to surface
		_ = s.users.ClearResetToken(ctx, u.ID)
		return core.DeliveryError(
			"there was an error sending the email, try again later",
		)
	}

	return nil
}

// ResetPassword consumes a plaintext reset token. The stored hash and
// expiry are cleared on success, making the token single-use.
func (s *Service) ResetPassword(
	ctx context.Context,
	plainToken, password string,
) (*user.User, string, error) {
	u, err := s.users.GetByResetTokenHash(ctx, core.HashToken(plainToken))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, "", core.BadRequestError(
				"token is invalid or has expired",
			)
		}
		return nil, "", fmt.Errorf("lookup reset token: %w", err)
	}

	passwordHash, err := core.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, u.ID, passwordHash); err != nil {
		return nil, "", fmt.Errorf("update password: %w", err)
	}

	token, err := s.tokens.Sign(u.ID.Hex())
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}

	return u, token, nil
}

// UpdatePassword requires the caller's current password before storing
// a new hash and handing out a fresh session token.
func (s *Service) UpdatePassword(
	ctx context.Context,
	userID primitive.ObjectID,
	currentPassword, newPassword string,
) (string, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("get user: %w", err)
	}

	valid, err := core.VerifyPassword(currentPassword, u.Password)
	if err != nil {
		return "", fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return "", core.UnauthorizedError("your current password is wrong")
	}

	passwordHash, err := core.HashPassword(newPassword)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, passwordHash); err != nil {
		return "", fmt.Errorf("update password: %w", err)
	}

	token, err := s.tokens.Sign(u.ID.Hex())
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return token, nil
}
