// AngelaMos | 2026
// handler.go

package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carterperez-dev/tourbook/internal/core"
	"github.com/carterperez-dev/tourbook/internal/crud"
	"github.com/carterperez-dev/tourbook/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
	crud      *crud.Handlers[User]
}

func NewHandler(service *Service) *Handler {
	h := &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}

	h.crud = &crud.Handlers[User]{
		Resource:     "user",
		Plural:       "users",
		Repo:         service.Repo(),
		DecodeCreate: h.decodeCreate,
		DecodePatch:  h.decodePatch,
	}

	return h
}

// RegisterRoutes mounts the self-service account endpoints and the
// admin-only user management CRUD. The caller passes in the /users
// subrouter shared with the auth endpoints.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	protect func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(protect)

		r.Get("/me", h.GetMe)
		r.Patch("/updateMe", h.UpdateMe)
		r.Delete("/deleteMe", h.DeleteMe)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(RoleAdmin.String()))

			r.Get("/", h.crud.List)
			r.Post("/", h.crud.Create)
			r.Get("/{id}", h.crud.Get)
			r.Patch("/{id}", h.crud.Update)
			r.Delete("/{id}", h.crud.Delete)
		})
	})
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	id, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	u, err := h.service.GetMe(r.Context(), id)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, map[string]any{"user": u})
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if _, ok := raw["password"]; ok {
		core.BadRequest(
			w,
			"this route is not for password updates, please use /updateMyPassword",
		)
		return
	}
	if _, ok := raw["passwordConfirm"]; ok {
		core.BadRequest(
			w,
			"this route is not for password updates, please use /updateMyPassword",
		)
		return
	}

	var req UpdateMeRequest
	if err := decodeFields(raw, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	id, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	u, err := h.service.UpdateMe(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.JSONError(w, core.DuplicateError("email"))
			return
		}
		core.JSONError(w, err)
		return
	}

	core.OK(w, map[string]any{"user": u})
}

func (h *Handler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	id, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteMe(r.Context(), id); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) currentUserID(
	w http.ResponseWriter,
	r *http.Request,
) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(middleware.GetUserID(r.Context()))
	if err != nil {
		core.Unauthorized(w, "")
		return primitive.NilObjectID, false
	}
	return id, true
}

// decodeCreate builds the admin create document; the password arrives
// plaintext and is hashed before it touches the repository.
func (h *Handler) decodeCreate(r *http.Request) (*User, error) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, core.BadRequestError("invalid request body")
	}

	if err := h.validator.Struct(req); err != nil {
		return nil, core.BadRequestError(core.FormatValidationError(err))
	}

	role := RoleUser
	if req.Role != "" {
		parsed, err := ParseRole(req.Role)
		if err != nil {
			return nil, core.BadRequestError(err.Error())
		}
		role = parsed
	}

	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	return &User{
		Name:      req.Name,
		Email:     NormalizeEmail(req.Email),
		Password:  hash,
		Role:      role,
		Photo:     req.Photo,
		Active:    true,
		CreatedAt: time.Now(),
	}, nil
}

func (h *Handler) decodePatch(r *http.Request) (bson.M, error) {
	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, core.BadRequestError("invalid request body")
	}

	if err := h.validator.Struct(req); err != nil {
		return nil, core.BadRequestError(core.FormatValidationError(err))
	}

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
	if req.Role != nil {
		role, err := ParseRole(*req.Role)
		if err != nil {
			return nil, core.BadRequestError(err.Error())
		}
		patch["role"] = role
	}

	if len(patch) == 0 {
		return nil, core.BadRequestError("nothing to update")
	}

	return patch, nil
}

func decodeFields(raw map[string]json.RawMessage, dst *UpdateMeRequest) error {
	buf, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, dst)
}
