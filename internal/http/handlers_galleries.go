package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/corpintra/portal-ui-api/internal/domain/model"
	"github.com/corpintra/portal-ui-api/internal/listview"
)

// GalleryStore extends the CRUD surface with image membership.
type GalleryStore interface {
	Store[model.Gallery, model.CreateGalleryRequest, model.UpdateGalleryRequest, model.GalleriesListOptions]
	AddImage(ctx context.Context, galleryID, imagePath, caption string) error
	RemoveImage(ctx context.Context, galleryID, imagePath string) (bool, error)
}

// GalleryHandlers serves the photo gallery CRUD routes plus image
// membership.
type GalleryHandlers struct {
	*Resource[
		model.Gallery,
		model.CreateGalleryRequest,
		model.UpdateGalleryRequest,
		model.GalleriesListOptions,
		listview.NoFilter,
	]
	store GalleryStore
}

// NewGalleryHandlers wires the photo gallery resource. Pages count
// from 0; there are no structured filters beyond search.
func NewGalleryHandlers(store GalleryStore, deps ResourceDeps) *GalleryHandlers {
	res := NewResource(ResourceOptions[
		model.Gallery,
		model.CreateGalleryRequest,
		model.UpdateGalleryRequest,
		model.GalleriesListOptions,
		listview.NoFilter,
	]{
		Name:   "gallery",
		Plural: "galleries",
		Store:  store,
		Base:   listview.BaseZero,
		Params: ZeroBasedParams(),
		BuildOptions: func(st listview.State[listview.NoFilter]) model.GalleriesListOptions {
			sortKey, sortDir := sortParams(st)
			return model.GalleriesListOptions{
				Limit:  st.Limit(),
				Offset: st.Offset(),
				Search: optStr(st.Search),
				Sort:   sortKey,
				Dir:    sortDir,
			}
		},
		Deps: deps,
	})
	return &GalleryHandlers{Resource: res, store: store}
}

// addImageRequest is the gallery image attach body.
type addImageRequest struct {
	ImagePath string `json:"imagePath"`
	Caption   string `json:"caption"`
}

// AddImage attaches an image to a gallery and bumps its image count.
// POST /api/galleries/{id}/images.
func (h *GalleryHandlers) AddImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req addImageRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.ImagePath) == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "validation",
			Err:     errors.New("imagePath is required"),
		})
		return
	}
	if err := h.store.AddImage(r.Context(), id, req.ImagePath, req.Caption); err != nil {
		WriteAppError(w, err)
		return
	}
	// image counts show up in list rows
	h.Endpoint().Refresh(r)
	WriteJSON(w, http.StatusCreated, map[string]string{"galleryId": id, "imagePath": req.ImagePath})
}

// RemoveImage detaches an image from a gallery.
// DELETE /api/galleries/{id}/images?path=<image_path>.
func (h *GalleryHandlers) RemoveImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	imagePath := strings.TrimSpace(r.URL.Query().Get("path"))
	if imagePath == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "validation",
			Err:     errors.New("path query parameter is required"),
		})
		return
	}
	removed, err := h.store.RemoveImage(r.Context(), id, imagePath)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if !removed {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "image_not_found",
			Err:     errors.New("image not found in gallery"),
		})
		return
	}
	h.Endpoint().Refresh(r)
	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
