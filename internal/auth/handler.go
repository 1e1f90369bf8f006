// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carterperez-dev/tourbook/internal/core"
	"github.com/carterperez-dev/tourbook/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts the public auth endpoints plus the
// password-change endpoint for logged-in users. The caller passes in
// the /users subrouter shared with the account routes.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	protect func(http.Handler) http.Handler,
) {
	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)
	r.Post("/forgotPassword", h.ForgotPassword)
	r.Patch("/resetPassword/{token}", h.ResetPassword)

	r.Group(func(r chi.Router) {
		r.Use(protect)
		r.Patch("/updateMyPassword", h.UpdateMyPassword)
	})
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	u, token, err := h.service.Signup(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.WithToken(w, http.StatusCreated, token, map[string]any{"user": u})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	u, token, err := h.service.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			core.Unauthorized(w, "incorrect email or password")
			return
		}
		core.JSONError(w, err)
		return
	}

	core.WithToken(w, http.StatusOK, token, map[string]any{"user": u})
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, map[string]any{"message": "token sent to email"})
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	token := chi.URLParam(r, "token")
	u, jwt, err := h.service.ResetPassword(r.Context(), token, req.Password)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.WithToken(w, http.StatusOK, jwt, map[string]any{"user": u})
}

func (h *Handler) UpdateMyPassword(w http.ResponseWriter, r *http.Request) {
	var req UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	userID, err := primitive.ObjectIDFromHex(middleware.GetUserID(r.Context()))
	if err != nil {
		core.Unauthorized(w, "")
		return
	}

	token, err := h.service.UpdatePassword(
		r.Context(),
		userID,
		req.PasswordCurrent,
		req.Password,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.WithToken(w, http.StatusOK, token, nil)
}
