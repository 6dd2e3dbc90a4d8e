package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tn02103/uniformAdministrationApp-sub001/internal/custody"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/db"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/imaging"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/model"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/store"
)

// CatalogHandler serves uniform types, generations, sizes and size lists.
type CatalogHandler struct {
	DB     *db.DB
	Engine *custody.Engine
}

type createTypeRequest store.NewType

func (req createTypeRequest) Validate() error {
	if req.Name == "" || req.Acronym == "" {
		return errors.New("name and acronym required")
	}
	if len(req.Acronym) > 2 {
		return errors.New("acronym must be at most 2 characters")
	}
	if req.IssuedDefault < 0 {
		return errors.New("issued_default must not be negative")
	}
	return nil
}

type createGenerationRequest struct {
	Name       string  `json:"name"`
	SizeListID *string `json:"size_list_id"`
	Outdated   bool    `json:"outdated"`
}

func (req createGenerationRequest) Validate() error {
	if req.Name == "" {
		return errors.New("name required")
	}
	return nil
}

type createSizeRequest struct {
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

func (req createSizeRequest) Validate() error {
	if req.Name == "" {
		return errors.New("name required")
	}
	return nil
}

type createSizeListRequest struct {
	Name    string   `json:"name"`
	SizeIDs []string `json:"size_ids"`
}

func (req createSizeListRequest) Validate() error {
	if req.Name == "" {
		return errors.New("name required")
	}
	return nil
}

// ListTypes handles GET /api/types.
func (h *CatalogHandler) ListTypes(w http.ResponseWriter, r *http.Request) {
	caller, err := gate(r, model.RoleUser, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	types, err := store.ListTypes(r.Context(), h.DB, caller.OrganisationID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if types == nil {
		types = []model.UniformType{}
	}
	jsonResponse(w, http.StatusOK, types)
}

// CreateType handles POST /api/types.
func (h *CatalogHandler) CreateType(w http.ResponseWriter, r *http.Request) {
	var req createTypeRequest
	caller, err := gate(r, model.RoleMaterialManager, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.checkSizeList(r, caller, req.DefaultSizeListID); err != nil {
		writeError(w, r, err)
		return
	}

	typ, err := store.CreateType(r.Context(), h.DB, caller.OrganisationID, store.NewType(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("uniform type created", "user", caller.Username, "type", typ.Name)
	jsonResponse(w, http.StatusCreated, typ)
}

// DeleteType handles DELETE /api/types/{id}.
func (h *CatalogHandler) DeleteType(w http.ResponseWriter, r *http.Request) {
	caller, err := gate(r, model.RoleAdmin, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	types, err := h.Engine.DeleteType(r.Context(), caller, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("uniform type deleted", "user", caller.Username, "type_id", r.PathValue("id"))
	if types == nil {
		types = []model.UniformType{}
	}
	jsonResponse(w, http.StatusOK, types)
}

// CreateGeneration handles POST /api/types/{id}/generations.
func (h *CatalogHandler) CreateGeneration(w http.ResponseWriter, r *http.Request) {
	var req createGenerationRequest
	caller, err := gate(r, model.RoleMaterialManager, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	typ, err := h.typ(r, caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !typ.UsesGenerations {
		jsonError(w, http.StatusBadRequest, "type does not use generations")
		return
	}
	if err := h.checkSizeList(r, caller, req.SizeListID); err != nil {
		writeError(w, r, err)
		return
	}

	gen, err := store.CreateGeneration(r.Context(), h.DB, typ.ID, req.Name, req.SizeListID, req.Outdated)
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("generation created", "user", caller.Username, "type", typ.Name, "generation", gen.Name)
	jsonResponse(w, http.StatusCreated, gen)
}

// UploadImage handles PUT /api/types/{id}/image.
func (h *CatalogHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	caller, err := gate(r, model.RoleMaterialManager, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	typ, err := h.typ(r, caller)
	if err != nil {
		writeError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	pic, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetTypeImage(r.Context(), h.DB, caller.OrganisationID, typ.ID, pic.Data, pic.MIME); err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("type image uploaded", "user", caller.Username, "type", typ.Name, "width", pic.Width, "height", pic.Height)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded"})
}

// GetImage handles GET /api/types/{id}/image.
func (h *CatalogHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	caller, err := gate(r, model.RoleUser, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, mime, err := store.GetTypeImage(r.Context(), h.DB, caller.OrganisationID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(data)
}

// CreateSize handles POST /api/sizes.
func (h *CatalogHandler) CreateSize(w http.ResponseWriter, r *http.Request) {
	var req createSizeRequest
	caller, err := gate(r, model.RoleMaterialManager, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	size, err := store.CreateSize(r.Context(), h.DB, caller.OrganisationID, req.Name, req.SortOrder)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, size)
}

// CreateSizeList handles POST /api/size-lists.
func (h *CatalogHandler) CreateSizeList(w http.ResponseWriter, r *http.Request) {
	var req createSizeListRequest
	caller, err := gate(r, model.RoleMaterialManager, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var list *model.SizeList
	err = h.DB.InTx(r.Context(), func(tx *db.Tx) error {
		var err error
		list, err = store.CreateSizeList(r.Context(), tx, caller.OrganisationID, req.Name, req.SizeIDs)
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, list)
}

func (h *CatalogHandler) typ(r *http.Request, caller model.Caller) (*model.UniformType, error) {
	id := r.PathValue("id")
	typ, err := store.GetType(r.Context(), h.DB, caller.OrganisationID, id)
	if err != nil {
		return nil, err
	}
	if typ == nil {
		return nil, notFound("uniform type", id)
	}
	return typ, nil
}

func (h *CatalogHandler) checkSizeList(r *http.Request, caller model.Caller, id *string) error {
	if id == nil {
		return nil
	}
	list, err := store.GetSizeList(r.Context(), h.DB, caller.OrganisationID, *id)
	if err != nil {
		return err
	}
	if list == nil {
		return notFound("size list", *id)
	}
	return nil
}
