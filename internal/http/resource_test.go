package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpintra/portal-ui-api/internal/domain/model"
	apperrors "github.com/corpintra/portal-ui-api/internal/errors"
	"github.com/corpintra/portal-ui-api/internal/listview"
)

type widget struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type widgetCreate struct {
	Name string `json:"name"`
}

type widgetUpdate struct {
	Name *string `json:"name,omitempty"`
}

type widgetListOpts struct {
	Limit  int
	Offset int
}

// widgetStore is an in-memory Store for handler tests.
type widgetStore struct {
	mu      sync.Mutex
	items   map[string]widget
	nextID  int
	failAll error
}

func newWidgetStore() *widgetStore {
	return &widgetStore{items: map[string]widget{}, nextID: 1}
}

func (s *widgetStore) Create(_ context.Context, req *widgetCreate) (*widget, error) {
	if s.failAll != nil {
		return nil, s.failAll
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := "w-" + strconv.Itoa(s.nextID)
	s.nextID++
	w := widget{ID: id, Name: req.Name}
	s.items[id] = w
	return &w, nil
}

func (s *widgetStore) GetByID(_ context.Context, id string) (*widget, error) {
	if s.failAll != nil {
		return nil, s.failAll
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.items[id]
	if !ok {
		return nil, apperrors.NotFound("widget not found")
	}
	return &w, nil
}

func (s *widgetStore) List(_ context.Context, _ widgetListOpts) (model.Page[widget], error) {
	if s.failAll != nil {
		return model.Page[widget]{}, s.failAll
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]widget, 0, len(s.items))
	for _, w := range s.items {
		items = append(items, w)
	}
	return model.NewPage(items, len(items)), nil
}

func (s *widgetStore) Update(_ context.Context, id string, req widgetUpdate) (*widget, error) {
	if s.failAll != nil {
		return nil, s.failAll
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.items[id]
	if !ok {
		return nil, apperrors.NotFound("widget not found")
	}
	if req.Name != nil {
		w.Name = *req.Name
	}
	s.items[id] = w
	return &w, nil
}

func (s *widgetStore) Delete(_ context.Context, id string) (bool, error) {
	if s.failAll != nil {
		return false, s.failAll
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[id]
	delete(s.items, id)
	return ok, nil
}

func newWidgetResource(store *widgetStore) *Resource[widget, widgetCreate, widgetUpdate, widgetListOpts, listview.NoFilter] {
	return NewResource(ResourceOptions[widget, widgetCreate, widgetUpdate, widgetListOpts, listview.NoFilter]{
		Name:   "widget",
		Plural: "widgets",
		Store:  store,
		Base:   listview.BaseZero,
		Params: ZeroBasedParams(),
		BuildOptions: func(st listview.State[listview.NoFilter]) widgetListOpts {
			return widgetListOpts{Limit: st.Limit(), Offset: st.Offset()}
		},
	})
}

// widgetMux routes the CRUD patterns so PathValue is populated.
func widgetMux(res *Resource[widget, widgetCreate, widgetUpdate, widgetListOpts, listview.NoFilter]) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/widgets", res.List)
	mux.HandleFunc("GET /api/widgets/{id}", res.Get)
	mux.HandleFunc("POST /api/widgets", res.Create)
	mux.HandleFunc("PUT /api/widgets/{id}", res.Update)
	mux.HandleFunc("DELETE /api/widgets/{id}", res.Delete)
	return mux
}

func TestResource_CreateReturns201WithItem(t *testing.T) {
	t.Parallel()

	mux := widgetMux(newWidgetResource(newWidgetStore()))
	req := httptest.NewRequest("POST", "/api/widgets", strings.NewReader(`{"name":"badge printer"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got widget
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "badge printer", got.Name)
	assert.NotEmpty(t, got.ID)
}

func TestResource_CreateRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	mux := widgetMux(newWidgetResource(newWidgetStore()))
	req := httptest.NewRequest("POST", "/api/widgets", strings.NewReader(`{"name":"x","bogus":1}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_json")
}

func TestResource_GetUnknownIDReturns404(t *testing.T) {
	t.Parallel()

	mux := widgetMux(newWidgetResource(newWidgetStore()))
	req := httptest.NewRequest("GET", "/api/widgets/nope", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_found")
}

func TestResource_GetWithoutPathValueReturns400(t *testing.T) {
	t.Parallel()

	res := newWidgetResource(newWidgetStore())
	// Invoked outside a mux, so no {id} path value is bound.
	req := httptest.NewRequest("GET", "/api/widgets/", nil)
	rec := httptest.NewRecorder()
	res.Get(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_path")
}

func TestResource_UpdateRoundTrip(t *testing.T) {
	t.Parallel()

	store := newWidgetStore()
	created, err := store.Create(context.Background(), &widgetCreate{Name: "before"})
	require.NoError(t, err)

	mux := widgetMux(newWidgetResource(store))
	req := httptest.NewRequest("PUT", "/api/widgets/"+created.ID, strings.NewReader(`{"name":"after"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got widget
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "after", got.Name)
}

func TestResource_DeleteMissingReturns404(t *testing.T) {
	t.Parallel()

	mux := widgetMux(newWidgetResource(newWidgetStore()))
	req := httptest.NewRequest("DELETE", "/api/widgets/nope", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "widget_not_found")
}

func TestResource_DeleteReportsDeleted(t *testing.T) {
	t.Parallel()

	store := newWidgetStore()
	created, err := store.Create(context.Background(), &widgetCreate{Name: "gone soon"})
	require.NoError(t, err)

	mux := widgetMux(newWidgetResource(store))
	req := httptest.NewRequest("DELETE", "/api/widgets/"+created.ID, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted":true}`, rec.Body.String())

	_, getErr := store.GetByID(context.Background(), created.ID)
	assert.Error(t, getErr)
}

func TestResource_ListAfterCreateSeesNewItem(t *testing.T) {
	t.Parallel()

	store := newWidgetStore()
	mux := widgetMux(newWidgetResource(store))

	create := httptest.NewRequest("POST", "/api/widgets", strings.NewReader(`{"name":"fresh"}`))
	mux.ServeHTTP(httptest.NewRecorder(), create)

	list := httptest.NewRequest("GET", "/api/widgets?pageIndex=0&pageSize=10", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, list)

	require.Equal(t, http.StatusOK, rec.Code)
	var body ListResponse[widget]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.TotalItems)
}
