// AngelaMos | 2026
// handlers.go

package crud

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carterperez-dev/tourbook/internal/core"
	"github.com/carterperez-dev/tourbook/internal/query"
)

// Handlers produces the five standard operations for one entity type.
// Side effects beyond the entity's own collection (slug derivation,
// rating recomputation) are explicit hook functions wired by the domain
// package, so they are visible at the call site.
type Handlers[T any] struct {
	// Resource is the singular payload key ("tour"); Plural the list key.
	Resource string
	Plural   string

	Repo Repository[T]

	// ParentScope narrows List to a parent entity found in the path,
	// e.g. /tours/{tourId}/reviews.
	ParentScope func(r *http.Request) (bson.M, error)

	DecodeCreate func(r *http.Request) (*T, error)
	DecodePatch  func(r *http.Request) (bson.M, error)

	AfterCreate func(ctx context.Context, doc *T) error
	AfterUpdate func(ctx context.Context, doc *T) error
	AfterDelete func(ctx context.Context, id primitive.ObjectID) error

	// Populate eager-loads one named relation onto a fetched document
	// when the client passes ?populate=<name>. Opt-in only.
	Populate func(ctx context.Context, doc *T, relation string) error
}

func (h *Handlers[T]) List(w http.ResponseWriter, r *http.Request) {
	opts := query.Parse(r.URL.Query())

	if h.ParentScope != nil {
		scope, err := h.ParentScope(r)
		if err != nil {
			core.JSONError(w, err)
			return
		}
		opts = opts.Merge(scope)
	}

	// pages past the end of the collection are an explicit error, but
	// page 1 of an empty result set is just an empty list
	if opts.Page > 1 {
		total, err := h.Repo.Count(r.Context(), opts.Filter)
		if err != nil {
			core.JSONError(w, err)
			return
		}
		if opts.Skip() >= total {
			core.JSONError(w, core.NewAppError(
				core.ErrNotFound,
				"this page does not exist",
				http.StatusNotFound,
				"PAGE_NOT_FOUND",
			))
			return
		}
	}

	docs, err := h.Repo.Find(r.Context(), opts)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.List(w, len(docs), map[string]any{h.Plural: docs})
}

func (h *Handlers[T]) Get(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	doc, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, h.Resource)
			return
		}
		core.JSONError(w, err)
		return
	}

	if relation := r.URL.Query().Get("populate"); relation != "" &&
		h.Populate != nil {
		if err := h.Populate(r.Context(), doc, relation); err != nil {
			core.JSONError(w, err)
			return
		}
	}

	core.OK(w, map[string]any{h.Resource: doc})
}

func (h *Handlers[T]) Create(w http.ResponseWriter, r *http.Request) {
	doc, err := h.DecodeCreate(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	created, err := h.Repo.Insert(r.Context(), doc)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.JSONError(w, core.DuplicateError(h.Resource+" name"))
			return
		}
		core.JSONError(w, err)
		return
	}

	if h.AfterCreate != nil {
		if err := h.AfterCreate(r.Context(), created); err != nil {
			core.JSONError(w, err)
			return
		}
	}

	core.Created(w, map[string]any{h.Resource: created})
}

func (h *Handlers[T]) Update(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	patch, err := h.DecodePatch(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	doc, err := h.Repo.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, h.Resource)
			return
		}
		if errors.Is(err, core.ErrDuplicateKey) {
			core.JSONError(w, core.DuplicateError(h.Resource+" name"))
			return
		}
		core.JSONError(w, err)
		return
	}

	if h.AfterUpdate != nil {
		if err := h.AfterUpdate(r.Context(), doc); err != nil {
			core.JSONError(w, err)
			return
		}
	}

	core.OK(w, map[string]any{h.Resource: doc})
}

func (h *Handlers[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, h.Resource)
			return
		}
		core.JSONError(w, err)
		return
	}

	if h.AfterDelete != nil {
		if err := h.AfterDelete(r.Context(), id); err != nil {
			core.JSONError(w, err)
			return
		}
	}

	core.NoContent(w)
}

// ParseID reads the {id} path parameter as an ObjectID.
func ParseID(r *http.Request) (primitive.ObjectID, error) {
	raw := chi.URLParam(r, "id")

	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, core.BadRequestError("invalid id")
	}

	return id, nil
}
