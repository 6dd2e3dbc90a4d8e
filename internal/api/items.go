package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tn02103/uniformAdministrationApp-sub001/internal/custody"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/db"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/model"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/store"
)

// ItemsHandler serves uniform items and their deficiencies.
type ItemsHandler struct {
	DB     *db.DB
	Engine *custody.Engine
}

// MaxItemsPerRequest bounds bulk item creation.
const MaxItemsPerRequest = 500

type createItemsRequest custody.CreateItemsRequest

func (req createItemsRequest) Validate() error {
	if req.TypeID == "" {
		return errors.New("type_id required")
	}
	if len(req.Numbers) == 0 {
		return errors.New("numbers required")
	}
	if len(req.Numbers) > MaxItemsPerRequest {
		return errors.New("too many numbers in one request")
	}
	for _, n := range req.Numbers {
		if n <= 0 {
			return errors.New("numbers must be positive")
		}
	}
	return nil
}

type createDeficiencyRequest struct {
	Description string `json:"description"`
}

func (req createDeficiencyRequest) Validate() error {
	if req.Description == "" {
		return errors.New("description required")
	}
	return nil
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemsRequest
	caller, err := gate(r, model.RoleMaterialManager, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	items, conflict, err := h.Engine.CreateItems(r.Context(), caller, custody.CreateItemsRequest(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if conflict != nil {
		jsonConflict(w, conflict)
		return
	}

	slog.Info("items created", "user", caller.Username, "type_id", req.TypeID, "count", len(items))
	jsonResponse(w, http.StatusCreated, items)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, err := gate(r, model.RoleUser, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.Engine.Item(r.Context(), caller, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := gate(r, model.RoleMaterialManager, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Engine.DeleteItem(r.Context(), caller, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("item deleted", "user", caller.Username, "item_id", r.PathValue("id"))
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

type itemHistory struct {
	Issuances    []model.IssuanceRecord `json:"issuances"`
	Deficiencies []model.Deficiency     `json:"deficiencies"`
}

// History handles GET /api/items/{id}/history.
func (h *ItemsHandler) History(w http.ResponseWriter, r *http.Request) {
	caller, err := gate(r, model.RoleUser, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.item(r, caller)
	if err != nil {
		writeError(w, r, err)
		return
	}

	hist := itemHistory{Issuances: []model.IssuanceRecord{}, Deficiencies: []model.Deficiency{}}
	issuances, err := store.ListIssuanceHistory(r.Context(), h.DB, item.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	deficiencies, err := store.ListDeficiencies(r.Context(), h.DB, item.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	hist.Issuances = append(hist.Issuances, issuances...)
	hist.Deficiencies = append(hist.Deficiencies, deficiencies...)
	jsonResponse(w, http.StatusOK, hist)
}

// CreateDeficiency handles POST /api/items/{id}/deficiencies.
func (h *ItemsHandler) CreateDeficiency(w http.ResponseWriter, r *http.Request) {
	var req createDeficiencyRequest
	caller, err := gate(r, model.RoleInspector, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.item(r, caller)
	if err != nil {
		writeError(w, r, err)
		return
	}

	d, err := store.CreateDeficiency(r.Context(), h.DB, item.ID, req.Description, h.today())
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("deficiency reported", "user", caller.Username, "item", item.TypeName, "number", item.Number)
	jsonResponse(w, http.StatusCreated, d)
}

// ResolveDeficiency handles POST /api/deficiencies/{id}/resolve.
func (h *ItemsHandler) ResolveDeficiency(w http.ResponseWriter, r *http.Request) {
	caller, err := gate(r, model.RoleInspector, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id := r.PathValue("id")
	d, err := store.GetDeficiency(r.Context(), h.DB, caller.OrganisationID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if d == nil {
		writeError(w, r, notFound("deficiency", id))
		return
	}

	if d.DateResolved == nil {
		today := h.today()
		if err := store.ResolveDeficiency(r.Context(), h.DB, d.ID, today); err != nil {
			writeError(w, r, err)
			return
		}
		d.DateResolved = &today
		slog.Info("deficiency resolved", "user", caller.Username, "deficiency_id", d.ID)
	}
	jsonResponse(w, http.StatusOK, d)
}

func (h *ItemsHandler) item(r *http.Request, caller model.Caller) (*model.ItemView, error) {
	id := r.PathValue("id")
	item, err := store.GetItem(r.Context(), h.DB, caller.OrganisationID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, notFound("item", id)
	}
	return item, nil
}

func (h *ItemsHandler) today() model.Date {
	return model.DateOf(h.Engine.Now())
}
