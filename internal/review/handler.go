// AngelaMos | 2026
// handler.go

package review

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carterperez-dev/tourbook/internal/core"
	"github.com/carterperez-dev/tourbook/internal/crud"
	"github.com/carterperez-dev/tourbook/internal/middleware"
	"github.com/carterperez-dev/tourbook/internal/user"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
	crud      *crud.Handlers[Review]
}

func NewHandler(service *Service) *Handler {
	h := &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}

	h.crud = &crud.Handlers[Review]{
		Resource:    "review",
		Plural:      "reviews",
		Repo:        service.Repo(),
		ParentScope: parentTourScope,
	}

	return h
}

// RegisterRoutes mounts the flat /reviews collection and the nested
// per-tour routes. Everything requires a logged-in user; writing a
// review is for the user role, moderation for admins.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	protect func(http.Handler) http.Handler,
) {
	r.Route("/reviews", func(r chi.Router) {
		r.Use(protect)

		r.Get("/", h.crud.List)
		r.Get("/{id}", h.crud.Get)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})

	r.Route("/tours/{tourId}/reviews", func(r chi.Router) {
		r.Use(protect)

		r.Get("/", h.crud.List)
		r.With(middleware.RequireRole(user.RoleUser.String())).
			Post("/", h.Create)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	tourID, err := parseTourID(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	userID, err := primitive.ObjectIDFromHex(middleware.GetUserID(r.Context()))
	if err != nil {
		core.Unauthorized(w, "")
		return
	}

	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	created, err := h.service.Create(r.Context(), tourID, userID, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, map[string]any{"review": created})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := crud.ParseID(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	if !h.authorizeOwner(w, r, id) {
		return
	}

	var req UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	updated, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "review")
			return
		}
		core.JSONError(w, err)
		return
	}

	core.OK(w, map[string]any{"review": updated})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := crud.ParseID(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	if !h.authorizeOwner(w, r, id) {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "review")
			return
		}
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

// authorizeOwner lets a review's author or an admin through and writes
// the error response otherwise.
func (h *Handler) authorizeOwner(
	w http.ResponseWriter,
	r *http.Request,
	id primitive.ObjectID,
) bool {
	if middleware.GetUserRole(r.Context()) == user.RoleAdmin.String() {
		return true
	}

	rev, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "review")
			return false
		}
		core.JSONError(w, err)
		return false
	}

	if rev.User.Hex() != middleware.GetUserID(r.Context()) {
		core.Forbidden(w, "")
		return false
	}

	return true
}

// parentTourScope narrows nested listings to the tour in the path. The
// flat /reviews listing has no tourId parameter and stays unscoped.
func parentTourScope(r *http.Request) (bson.M, error) {
	raw := chi.URLParam(r, "tourId")
	if raw == "" {
		return nil, nil
	}

	tourID, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil, core.BadRequestError("invalid tour id")
	}

	return bson.M{"tour": tourID}, nil
}

func parseTourID(r *http.Request) (primitive.ObjectID, error) {
	raw := chi.URLParam(r, "tourId")

	tourID, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, core.BadRequestError("invalid tour id")
	}

	return tourID, nil
}
