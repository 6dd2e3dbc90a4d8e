package api

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tn02103/uniformAdministrationApp-sub001/internal/custody"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/db"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/model"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/report"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/store"
)

// CadetsHandler serves cadets and the issuance protocols acting on them.
type CadetsHandler struct {
	DB     *db.DB
	Engine *custody.Engine
}

type createCadetRequest struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

func (req createCadetRequest) Validate() error {
	if req.Firstname == "" || req.Lastname == "" {
		return errors.New("firstname and lastname required")
	}
	return nil
}

type issueRequest struct {
	Number      int                  `json:"number"`
	TypeID      string               `json:"type_id"`
	IDToReplace *string              `json:"id_to_replace"`
	Options     custody.IssueOptions `json:"options"`
}

func (req issueRequest) Validate() error {
	if req.TypeID == "" {
		return errors.New("type_id required")
	}
	if req.Number <= 0 {
		return errors.New("number must be positive")
	}
	return nil
}

type returnRequest struct {
	ItemID string `json:"item_id"`
}

func (req returnRequest) Validate() error {
	if req.ItemID == "" {
		return errors.New("item_id required")
	}
	return nil
}

// List handles GET /api/cadets.
func (h *CadetsHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, err := gate(r, model.RoleUser, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	cadets, err := store.ListCadets(r.Context(), h.DB, caller.OrganisationID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if cadets == nil {
		cadets = []model.Cadet{}
	}
	jsonResponse(w, http.StatusOK, cadets)
}

// Create handles POST /api/cadets.
func (h *CadetsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCadetRequest
	caller, err := gate(r, model.RoleMaterialManager, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	cadet, err := store.CreateCadet(r.Context(), h.DB, caller.OrganisationID, req.Firstname, req.Lastname)
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("cadet created", "user", caller.Username, "cadet", cadet.FullName())
	jsonResponse(w, http.StatusCreated, cadet)
}

// Get handles GET /api/cadets/{id}.
func (h *CadetsHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, err := gate(r, model.RoleUser, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	cadet, err := h.cadet(r, caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, cadet)
}

// Delete handles DELETE /api/cadets/{id}.
func (h *CadetsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := gate(r, model.RoleMaterialManager, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Engine.DeleteCadet(r.Context(), caller, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("cadet deleted", "user", caller.Username, "cadet_id", r.PathValue("id"))
	jsonResponse(w, http.StatusOK, map[string]string{"message": "cadet deleted"})
}

// Items handles GET /api/cadets/{id}/items.
func (h *CadetsHandler) Items(w http.ResponseWriter, r *http.Request) {
	caller, err := gate(r, model.RoleUser, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	kit, err := h.Engine.HolderKit(r.Context(), caller, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, kit)
}

// ExportItems handles GET /api/cadets/{id}/items.xlsx.
func (h *CadetsHandler) ExportItems(w http.ResponseWriter, r *http.Request) {
	caller, err := gate(r, model.RoleUser, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	cadet, err := h.cadet(r, caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	kit, err := h.Engine.HolderKit(r.Context(), caller, cadet.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	types, err := store.ListTypes(r.Context(), h.DB, caller.OrganisationID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := report.CadetKit(&buf, *cadet, types, kit); err != nil {
		writeError(w, r, err)
		return
	}
	writeWorkbook(w, "kit_"+cadet.Lastname+"_"+cadet.Firstname+".xlsx", buf.Bytes())
}

// Issue handles POST /api/cadets/{id}/issue.
func (h *CadetsHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req issueRequest
	caller, err := gate(r, model.RoleInspector, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	kit, conflict, err := h.Engine.Issue(r.Context(), caller, custody.IssueRequest{
		Number:      req.Number,
		TypeID:      req.TypeID,
		CadetID:     r.PathValue("id"),
		IDToReplace: req.IDToReplace,
		Options:     req.Options,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if conflict != nil {
		jsonConflict(w, conflict)
		return
	}

	slog.Info("item issued", "user", caller.Username, "cadet_id", r.PathValue("id"),
		"type_id", req.TypeID, "number", req.Number, "force", req.Options.Force)
	jsonResponse(w, http.StatusOK, kit)
}

// Return handles POST /api/cadets/{id}/return.
func (h *CadetsHandler) Return(w http.ResponseWriter, r *http.Request) {
	var req returnRequest
	caller, err := gate(r, model.RoleInspector, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	kit, err := h.Engine.Return(r.Context(), caller, req.ItemID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("item returned", "user", caller.Username, "cadet_id", r.PathValue("id"), "item_id", req.ItemID)
	jsonResponse(w, http.StatusOK, kit)
}

func (h *CadetsHandler) cadet(r *http.Request, caller model.Caller) (*model.Cadet, error) {
	id := r.PathValue("id")
	cadet, err := store.GetCadet(r.Context(), h.DB, caller.OrganisationID, id)
	if err != nil {
		return nil, err
	}
	if cadet == nil {
		return nil, notFound("cadet", id)
	}
	return cadet, nil
}
