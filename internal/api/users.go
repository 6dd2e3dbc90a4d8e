package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tn02103/uniformAdministrationApp-sub001/internal/db"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/model"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/store"
)

// UsersHandler manages the accounts of the caller's organisation (admin only).
type UsersHandler struct {
	DB *db.DB
}

type createUserRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (req createUserRequest) Validate() error {
	if req.Username == "" || req.Name == "" || req.Password == "" || req.Role == "" {
		return errors.New("username, name, password and role required")
	}
	if !model.ValidRole(req.Role) {
		return errors.New("invalid role")
	}
	return model.ValidatePassword(req.Password)
}

type updateUserRequest struct {
	Role string `json:"role"`
}

func (req updateUserRequest) Validate() error {
	if !model.ValidRole(req.Role) {
		return errors.New("invalid role")
	}
	return nil
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

func (req resetPasswordRequest) Validate() error {
	return model.ValidatePassword(req.Password)
}

// target loads a user of the caller's organisation.
func (h *UsersHandler) target(r *http.Request, caller model.Caller) (*model.User, error) {
	id := r.PathValue("id")
	user, err := store.GetUser(r.Context(), h.DB, id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.DeletedAt != nil || user.OrganisationID != caller.OrganisationID {
		return nil, notFound("user", id)
	}
	return user, nil
}

// List handles GET /api/users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, err := gate(r, model.RoleAdmin, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	users, err := store.ListUsers(r.Context(), h.DB, caller.OrganisationID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	jsonResponse(w, http.StatusOK, users)
}

// Create handles POST /api/users.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	caller, err := gate(r, model.RoleAdmin, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := store.CreateUser(r.Context(), h.DB, caller.OrganisationID, req.Username, req.Name, string(hash), req.Role)
	if err != nil {
		if db.IsUniqueViolation(err) {
			jsonError(w, http.StatusConflict, "username already exists")
			return
		}
		writeError(w, r, err)
		return
	}

	slog.Info("user created", "user", caller.Username, "new_user", req.Username, "role", req.Role)
	jsonResponse(w, http.StatusCreated, user)
}

// Update handles PUT /api/users/{id}.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	caller, err := gate(r, model.RoleAdmin, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.target(r, caller)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := store.UpdateUserRole(r.Context(), h.DB, caller.OrganisationID, user.ID, req.Role); err != nil {
		writeError(w, r, err)
		return
	}
	user.Role = req.Role

	slog.Info("user role updated", "user", caller.Username, "target_user", user.Username, "new_role", req.Role)
	jsonResponse(w, http.StatusOK, user)
}

// ResetPassword handles PUT /api/users/{id}/password.
func (h *UsersHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	caller, err := gate(r, model.RoleAdmin, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.target(r, caller)
	if err != nil {
		writeError(w, r, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := store.UpdateUserPassword(r.Context(), h.DB, user.ID, string(hash)); err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("user password reset", "user", caller.Username, "target_user", user.Username)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "password reset"})
}

// Delete handles DELETE /api/users/{id}.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := gate(r, model.RoleAdmin, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if r.PathValue("id") == caller.UserID {
		jsonError(w, http.StatusBadRequest, "cannot delete yourself")
		return
	}
	user, err := h.target(r, caller)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := store.DeleteUser(r.Context(), h.DB, caller.OrganisationID, user.ID, time.Now()); err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("user deleted", "user", caller.Username, "deleted_user", user.Username)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
