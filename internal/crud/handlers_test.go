// AngelaMos | 2026
// handlers_test.go

package crud

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carterperez-dev/tourbook/internal/core"
	"github.com/carterperez-dev/tourbook/internal/query"
)

type widget struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name string             `bson:"name"          json:"name"`
}

type fakeWidgetRepo struct {
	widgets map[primitive.ObjectID]*widget
}

func newFakeWidgetRepo() *fakeWidgetRepo {
	return &fakeWidgetRepo{widgets: map[primitive.ObjectID]*widget{}}
}

func (f *fakeWidgetRepo) Find(
	_ context.Context,
	opts query.Options,
) ([]widget, error) {
	out := make([]widget, 0)
	var n int64
	for _, wd := range f.widgets {
		if n >= opts.Skip()+opts.Limit {
			break
		}
		if n >= opts.Skip() {
			out = append(out, *wd)
		}
		n++
	}
	return out, nil
}

func (f *fakeWidgetRepo) Count(_ context.Context, _ bson.M) (int64, error) {
	return int64(len(f.widgets)), nil
}

func (f *fakeWidgetRepo) Get(
	_ context.Context,
	id primitive.ObjectID,
) (*widget, error) {
	wd, ok := f.widgets[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	clone := *wd
	return &clone, nil
}

func (f *fakeWidgetRepo) Insert(
	_ context.Context,
	wd *widget,
) (*widget, error) {
	stored := *wd
	stored.ID = primitive.NewObjectID()
	f.widgets[stored.ID] = &stored
	clone := stored
	return &clone, nil
}

func (f *fakeWidgetRepo) Update(
	_ context.Context,
	id primitive.ObjectID,
	patch bson.M,
) (*widget, error) {
	wd, ok := f.widgets[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	if name, ok := patch["name"].(string); ok {
		wd.Name = name
	}
	clone := *wd
	return &clone, nil
}

func (f *fakeWidgetRepo) Delete(
	_ context.Context,
	id primitive.ObjectID,
) error {
	if _, ok := f.widgets[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.widgets, id)
	return nil
}

func newWidgetRouter(repo *fakeWidgetRepo) chi.Router {
	h := &Handlers[widget]{
		Resource: "widget",
		Plural:   "widgets",
		Repo:     repo,
		DecodeCreate: func(r *http.Request) (*widget, error) {
			var wd widget
			if err := json.NewDecoder(r.Body).Decode(&wd); err != nil {
				return nil, core.BadRequestError("invalid request body")
			}
			return &wd, nil
		},
		DecodePatch: func(r *http.Request) (bson.M, error) {
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				return nil, core.BadRequestError("invalid request body")
			}
			return bson.M(body), nil
		},
	}

	r := chi.NewRouter()
	r.Get("/widgets", h.List)
	r.Post("/widgets", h.Create)
	r.Get("/widgets/{id}", h.Get)
	r.Patch("/widgets/{id}", h.Update)
	r.Delete("/widgets/{id}", h.Delete)
	return r
}

func doRequest(
	t *testing.T,
	router chi.Router,
	method, target, body string,
) *httptest.ResponseRecorder {
	t.Helper()

	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	return rec
}

func TestListEnvelope(t *testing.T) {
	repo := newFakeWidgetRepo()
	repo.widgets[primitive.NewObjectID()] = &widget{Name: "one"}
	repo.widgets[primitive.NewObjectID()] = &widget{Name: "two"}

	rec := doRequest(t, newWidgetRouter(repo), http.MethodGet, "/widgets", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status  string `json:"status"`
		Results int    `json:"results"`
		Data    struct {
			Widgets []widget `json:"widgets"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, 2, body.Results)
	assert.Len(t, body.Data.Widgets, 2)
}

func TestListEmptyFirstPage(t *testing.T) {
	rec := doRequest(
		t,
		newWidgetRouter(newFakeWidgetRepo()),
		http.MethodGet,
		"/widgets",
		"",
	)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Results int `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 0, body.Results)
}

func TestListPagePastEnd(t *testing.T) {
	repo := newFakeWidgetRepo()
	repo.widgets[primitive.NewObjectID()] = &widget{Name: "only"}

	rec := doRequest(
		t,
		newWidgetRouter(repo),
		http.MethodGet,
		"/widgets?page=2&limit=10",
		"",
	)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "fail", body.Status)
	assert.Equal(t, "this page does not exist", body.Message)
}

func TestGetInvalidID(t *testing.T) {
	rec := doRequest(
		t,
		newWidgetRouter(newFakeWidgetRepo()),
		http.MethodGet,
		"/widgets/not-an-object-id",
		"",
	)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetMiss(t *testing.T) {
	rec := doRequest(
		t,
		newWidgetRouter(newFakeWidgetRepo()),
		http.MethodGet,
		"/widgets/"+primitive.NewObjectID().Hex(),
		"",
	)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateAndDelete(t *testing.T) {
	repo := newFakeWidgetRepo()
	router := newWidgetRouter(repo)

	rec := doRequest(
		t,
		router,
		http.MethodPost,
		"/widgets",
		`{"name":"fresh"}`,
	)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Data struct {
			Widget widget `json:"widget"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.False(t, created.Data.Widget.ID.IsZero())

	rec = doRequest(
		t,
		router,
		http.MethodDelete,
		"/widgets/"+created.Data.Widget.ID.Hex(),
		"",
	)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, repo.widgets)
}

func TestUpdate(t *testing.T) {
	repo := newFakeWidgetRepo()
	id := primitive.NewObjectID()
	repo.widgets[id] = &widget{ID: id, Name: "before"}

	rec := doRequest(
		t,
		newWidgetRouter(repo),
		http.MethodPatch,
		"/widgets/"+id.Hex(),
		`{"name":"after"}`,
	)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "after", repo.widgets[id].Name)
}
