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

// StorageHandler serves storage units and the storage assignment protocol.
type StorageHandler struct {
	DB     *db.DB
	Engine *custody.Engine
}

type storageUnitRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Capacity    *int   `json:"capacity"`
	IsReserve   bool   `json:"is_reserve"`
}

func (req storageUnitRequest) Validate() error {
	if req.Name == "" {
		return errors.New("name required")
	}
	if req.Capacity != nil && *req.Capacity < 0 {
		return errors.New("capacity must not be negative")
	}
	return nil
}

type addItemRequest struct {
	ItemID  string                 `json:"item_id"`
	Options custody.StorageOptions `json:"options"`
}

func (req addItemRequest) Validate() error {
	if req.ItemID == "" {
		return errors.New("item_id required")
	}
	return nil
}

type removeItemsRequest struct {
	ItemIDs []string `json:"item_ids"`
}

func (req removeItemsRequest) Validate() error {
	if len(req.ItemIDs) == 0 {
		return errors.New("item_ids required")
	}
	return nil
}

// List handles GET /api/storage-units.
func (h *StorageHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, err := gate(r, model.RoleUser, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	units, err := store.ListStorageUnitsWithItems(r.Context(), h.DB, caller.OrganisationID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, units)
}

// Create handles POST /api/storage-units.
func (h *StorageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req storageUnitRequest
	caller, err := gate(r, model.RoleMaterialManager, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	unit, err := store.CreateStorageUnit(r.Context(), h.DB, caller.OrganisationID, req.Name, req.Description, req.Capacity, req.IsReserve)
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("storage unit created", "user", caller.Username, "storage_unit", unit.Name)
	jsonResponse(w, http.StatusCreated, unit)
}

// Update handles PUT /api/storage-units/{id}.
func (h *StorageHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req storageUnitRequest
	caller, err := gate(r, model.RoleMaterialManager, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id := r.PathValue("id")
	unit, err := store.GetStorageUnit(r.Context(), h.DB, h.DB.Dialect, caller.OrganisationID, id, false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if unit == nil {
		writeError(w, r, notFound("storage unit", id))
		return
	}

	if err := store.UpdateStorageUnit(r.Context(), h.DB, caller.OrganisationID, unit.ID, req.Name, req.Description, req.Capacity, req.IsReserve); err != nil {
		writeError(w, r, err)
		return
	}
	unit.Name, unit.Description, unit.Capacity, unit.IsReserve = req.Name, req.Description, req.Capacity, req.IsReserve
	slog.Info("storage unit updated", "user", caller.Username, "storage_unit", unit.Name)
	jsonResponse(w, http.StatusOK, unit)
}

// Delete handles DELETE /api/storage-units/{id}.
func (h *StorageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := gate(r, model.RoleMaterialManager, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Engine.DeleteStorageUnit(r.Context(), caller, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("storage unit deleted", "user", caller.Username, "storage_unit_id", r.PathValue("id"))
	jsonResponse(w, http.StatusOK, map[string]string{"message": "storage unit deleted"})
}

// AddItem handles POST /api/storage-units/{id}/items.
func (h *StorageHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	caller, err := gate(r, model.RoleMaterialManager, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	units, conflict, err := h.Engine.AddToStorageUnit(r.Context(), caller, r.PathValue("id"), req.ItemID, req.Options)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if conflict != nil {
		jsonConflict(w, conflict)
		return
	}

	slog.Info("item stored", "user", caller.Username, "storage_unit_id", r.PathValue("id"),
		"item_id", req.ItemID, "ignore_full", req.Options.IgnoreFull)
	jsonResponse(w, http.StatusOK, units)
}

// RemoveItems handles DELETE /api/storage-units/{id}/items.
func (h *StorageHandler) RemoveItems(w http.ResponseWriter, r *http.Request) {
	var req removeItemsRequest
	caller, err := gate(r, model.RoleMaterialManager, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Engine.RemoveFromStorageUnit(r.Context(), caller, r.PathValue("id"), req.ItemIDs); err != nil {
		writeError(w, r, err)
		return
	}

	units, err := store.ListStorageUnitsWithItems(r.Context(), h.DB, caller.OrganisationID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("items removed from storage", "user", caller.Username, "storage_unit_id", r.PathValue("id"), "count", len(req.ItemIDs))
	jsonResponse(w, http.StatusOK, units)
}

// Export handles GET /api/storage-units/export.xlsx.
func (h *StorageHandler) Export(w http.ResponseWriter, r *http.Request) {
	caller, err := gate(r, model.RoleUser, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	units, err := store.ListStorageUnitsWithItems(r.Context(), h.DB, caller.OrganisationID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := report.StorageUnits(&buf, units); err != nil {
		writeError(w, r, err)
		return
	}
	writeWorkbook(w, "storage_units.xlsx", buf.Bytes())
}
