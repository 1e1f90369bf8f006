// AngelaMos | 2026
// handler.go

package tour

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carterperez-dev/tourbook/internal/core"
	"github.com/carterperez-dev/tourbook/internal/crud"
	"github.com/carterperez-dev/tourbook/internal/middleware"
	"github.com/carterperez-dev/tourbook/internal/user"
)

// ReviewLister fetches the reviews of one tour for ?populate=reviews.
// The review package supplies it so the dependency points one way.
type ReviewLister func(
	ctx context.Context,
	tourID primitive.ObjectID,
) (any, error)

type Handler struct {
	service   *Service
	validator *validator.Validate
	crud      *crud.Handlers[Tour]
	reviews   ReviewLister
}

func NewHandler(service *Service, reviews ReviewLister) *Handler {
	h := &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
		reviews:   reviews,
	}

	h.crud = &crud.Handlers[Tour]{
		Resource:     "tour",
		Plural:       "tours",
		Repo:         service.Repo(),
		DecodeCreate: h.decodeCreate,
		DecodePatch:  h.decodePatch,
		Populate:     h.populate,
	}

	return h
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	protect func(http.Handler) http.Handler,
) {
	r.Route("/tours", func(r chi.Router) {
		r.Get("/", h.crud.List)
		r.Get("/top-5-cheap", h.TopCheap)
		r.Get("/tour-stats", h.Stats)
		r.Get("/tours-within/{distance}/center/{latlng}/unit/{unit}", h.ToursWithin)
		r.Get("/distances/{latlng}/unit/{unit}", h.Distances)
		r.Get("/{id}", h.crud.Get)

		r.Group(func(r chi.Router) {
			r.Use(protect)

			r.With(middleware.RequireRole(
				user.RoleAdmin.String(),
				user.RoleLeadGuide.String(),
				user.RoleGuide.String(),
			)).Get("/monthly-plan/{year}", h.MonthlyPlan)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(
					user.RoleAdmin.String(),
					user.RoleLeadGuide.String(),
				))

				r.Post("/", h.crud.Create)
				r.Patch("/{id}", h.crud.Update)
				r.Delete("/{id}", h.crud.Delete)
			})
		})
	})
}

// TopCheap presets the query string for the five best-rated cheap tours
// and delegates to the plain list handler.
func (h *Handler) TopCheap(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	q.Set("limit", "5")
	q.Set("sort", "-ratingsAverage,price")
	q.Set("fields", "name,price,ratingsAverage,summary,difficulty")
	r.URL.RawQuery = q.Encode()

	h.crud.List(w, r)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, map[string]any{"stats": stats})
}

func (h *Handler) MonthlyPlan(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		core.BadRequest(w, "invalid year")
		return
	}

	plan, err := h.service.MonthlyPlan(r.Context(), year)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, map[string]any{"plan": plan})
}

func (h *Handler) ToursWithin(w http.ResponseWriter, r *http.Request) {
	distance, err := strconv.ParseFloat(chi.URLParam(r, "distance"), 64)
	if err != nil || distance < 0 {
		core.BadRequest(w, "invalid distance")
		return
	}

	lat, lng, err := parseLatLng(chi.URLParam(r, "latlng"))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	tours, err := h.service.ToursWithin(
		r.Context(),
		distance,
		lat,
		lng,
		chi.URLParam(r, "unit"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.List(w, len(tours), map[string]any{"tours": tours})
}

func (h *Handler) Distances(w http.ResponseWriter, r *http.Request) {
	lat, lng, err := parseLatLng(chi.URLParam(r, "latlng"))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	distances, err := h.service.Distances(
		r.Context(),
		lat,
		lng,
		chi.URLParam(r, "unit"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.List(w, len(distances), map[string]any{"distances": distances})
}

func (h *Handler) decodeCreate(r *http.Request) (*Tour, error) {
	var req CreateTourRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, core.BadRequestError("invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Summary = strings.TrimSpace(req.Summary)
	req.Description = strings.TrimSpace(req.Description)

	if err := h.validator.Struct(req); err != nil {
		return nil, core.BadRequestError(core.FormatValidationError(err))
	}

	return h.service.BuildTour(req)
}

func (h *Handler) decodePatch(r *http.Request) (bson.M, error) {
	var req UpdateTourRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, core.BadRequestError("invalid request body")
	}

	if err := h.validator.Struct(req); err != nil {
		return nil, core.BadRequestError(core.FormatValidationError(err))
	}

	id, err := crud.ParseID(r)
	if err != nil {
		return nil, err
	}

	return h.service.BuildPatch(r.Context(), id, req)
}

func (h *Handler) populate(
	ctx context.Context,
	doc *Tour,
	relation string,
) error {
	if relation != "reviews" {
		return core.BadRequestError("unknown populate relation")
	}
	if h.reviews == nil {
		return nil
	}

	reviews, err := h.reviews(ctx, doc.ID)
	if err != nil {
		return err
	}

	doc.Reviews = reviews
	return nil
}

func parseLatLng(raw string) (float64, float64, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return 0, 0, core.BadRequestError(
			"please provide latitude and longitude in the format lat,lng",
		)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, core.BadRequestError("invalid latitude")
	}

	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, core.BadRequestError("invalid longitude")
	}

	return lat, lng, nil
}
