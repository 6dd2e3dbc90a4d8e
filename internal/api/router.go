package api

import (
	"net/http"
	"time"

	"github.com/tn02103/uniformAdministrationApp-sub001/internal/custody"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/db"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/model"
)

// Options configures the router.
type Options struct {
	JWTSecret string
	TokenTTL  time.Duration
	// Metrics serves /metrics when non-nil.
	Metrics http.Handler
}

// NewRouter creates the API router with all endpoints registered. Role
// minimums of domain endpoints are enforced by each handler's gate call.
func NewRouter(database *db.DB, engine *custody.Engine, opts Options) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: database, JWTSecret: opts.JWTSecret, TokenTTL: opts.TokenTTL}
	usersHandler := &UsersHandler{DB: database}
	cadetsHandler := &CadetsHandler{DB: database, Engine: engine}
	catalogHandler := &CatalogHandler{DB: database, Engine: engine}
	itemsHandler := &ItemsHandler{DB: database, Engine: engine}
	storageHandler := &StorageHandler{DB: database, Engine: engine}

	authMW := AuthMiddleware(opts.JWTSecret, database)
	requireAdmin := RequireRole(model.RoleAdmin)
	authed := func(h http.HandlerFunc) http.Handler { return authMW(h) }

	// Public.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /health", health(database))
	if opts.Metrics != nil {
		mux.Handle("GET /metrics", opts.Metrics)
	}

	mux.Handle("PUT /api/auth/password", authed(authHandler.ChangePassword))
	mux.Handle("POST /api/auth/logout", authed(authHandler.Logout))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Cadets and the issuance protocols.
	mux.Handle("GET /api/cadets", authed(cadetsHandler.List))
	mux.Handle("POST /api/cadets", authed(cadetsHandler.Create))
	mux.Handle("GET /api/cadets/{id}", authed(cadetsHandler.Get))
	mux.Handle("DELETE /api/cadets/{id}", authed(cadetsHandler.Delete))
	mux.Handle("GET /api/cadets/{id}/items", authed(cadetsHandler.Items))
	mux.Handle("GET /api/cadets/{id}/items.xlsx", authed(cadetsHandler.ExportItems))
	mux.Handle("POST /api/cadets/{id}/issue", authed(cadetsHandler.Issue))
	mux.Handle("POST /api/cadets/{id}/return", authed(cadetsHandler.Return))

	// Catalog.
	mux.Handle("GET /api/types", authed(catalogHandler.ListTypes))
	mux.Handle("POST /api/types", authed(catalogHandler.CreateType))
	mux.Handle("DELETE /api/types/{id}", authed(catalogHandler.DeleteType))
	mux.Handle("POST /api/types/{id}/generations", authed(catalogHandler.CreateGeneration))
	mux.Handle("PUT /api/types/{id}/image", authed(catalogHandler.UploadImage))
	mux.Handle("GET /api/types/{id}/image", authed(catalogHandler.GetImage))
	mux.Handle("POST /api/sizes", authed(catalogHandler.CreateSize))
	mux.Handle("POST /api/size-lists", authed(catalogHandler.CreateSizeList))

	// Items and deficiencies.
	mux.Handle("POST /api/items", authed(itemsHandler.Create))
	mux.Handle("GET /api/items/{id}", authed(itemsHandler.Get))
	mux.Handle("DELETE /api/items/{id}", authed(itemsHandler.Delete))
	mux.Handle("GET /api/items/{id}/history", authed(itemsHandler.History))
	mux.Handle("POST /api/items/{id}/deficiencies", authed(itemsHandler.CreateDeficiency))
	mux.Handle("POST /api/deficiencies/{id}/resolve", authed(itemsHandler.ResolveDeficiency))

	// Storage units.
	mux.Handle("GET /api/storage-units", authed(storageHandler.List))
	mux.Handle("POST /api/storage-units", authed(storageHandler.Create))
	mux.Handle("GET /api/storage-units/export.xlsx", authed(storageHandler.Export))
	mux.Handle("PUT /api/storage-units/{id}", authed(storageHandler.Update))
	mux.Handle("DELETE /api/storage-units/{id}", authed(storageHandler.Delete))
	mux.Handle("POST /api/storage-units/{id}/items", authed(storageHandler.AddItem))
	mux.Handle("DELETE /api/storage-units/{id}/items", authed(storageHandler.RemoveItems))

	return mux
}

func health(database *db.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := database.PingContext(r.Context()); err != nil {
			jsonError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
