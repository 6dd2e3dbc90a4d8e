package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/crypto/bcrypt"

	"github.com/tn02103/uniformAdministrationApp-sub001/internal/auth"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/custody"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/db"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/model"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/report"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/store"
)

const testJWTSecret = "test-secret"

type testServer struct {
	*httptest.Server
	db     *db.DB
	org    *model.Organisation
	tokens map[string]string
}

// setupTestServer starts the API with one organisation and one user per role.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	database := db.NewTestDB(t)
	ctx := context.Background()

	reg := prometheus.NewRegistry()
	engine := custody.New(database, custody.NewMetrics(reg))
	engine.Now = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }

	router := NewRouter(database, engine, Options{
		JWTSecret: testJWTSecret,
		TokenTTL:  time.Hour,
		Metrics:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	org, err := store.CreateOrganisation(ctx, database, "Test Company", "TC")
	if err != nil {
		t.Fatalf("CreateOrganisation: %v", err)
	}

	ts := &testServer{Server: server, db: database, org: org, tokens: map[string]string{}}
	hash, _ := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	for _, role := range []string{model.RoleUser, model.RoleInspector, model.RoleMaterialManager, model.RoleAdmin} {
		user, err := store.CreateUser(ctx, database, org.ID, role, "Test "+role, string(hash), role)
		if err != nil {
			t.Fatalf("CreateUser %s: %v", role, err)
		}
		token, err := auth.GenerateToken(testJWTSecret, user, time.Hour)
		if err != nil {
			t.Fatalf("GenerateToken: %v", err)
		}
		ts.tokens[role] = token
	}
	return ts
}

// do sends an authenticated JSON request as a user of the given role and
// decodes the response into out when out is non-nil.
func (ts *testServer) do(t *testing.T, role, method, path string, body, out any) int {
	t.Helper()
	var reader io.Reader = http.NoBody
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if token, ok := ts.tokens[role]; ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decoding %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func (ts *testServer) createType(t *testing.T, name, acronym string) model.UniformType {
	t.Helper()
	var typ model.UniformType
	status := ts.do(t, model.RoleMaterialManager, "POST", "/api/types",
		map[string]any{"name": name, "acronym": acronym, "issued_default": 1}, &typ)
	if status != http.StatusCreated {
		t.Fatalf("creating type: %d", status)
	}
	return typ
}

func (ts *testServer) createCadet(t *testing.T, first, last string) model.Cadet {
	t.Helper()
	var cadet model.Cadet
	status := ts.do(t, model.RoleMaterialManager, "POST", "/api/cadets",
		map[string]string{"firstname": first, "lastname": last}, &cadet)
	if status != http.StatusCreated {
		t.Fatalf("creating cadet: %d", status)
	}
	return cadet
}

func (ts *testServer) createItems(t *testing.T, typeID string, numbers ...int) []model.Item {
	t.Helper()
	var items []model.Item
	status := ts.do(t, model.RoleMaterialManager, "POST", "/api/items",
		map[string]any{"type_id": typeID, "numbers": numbers}, &items)
	if status != http.StatusCreated {
		t.Fatalf("creating items: %d", status)
	}
	return items
}

func TestLoginAndLogout(t *testing.T) {
	ts := setupTestServer(t)

	post := func(body map[string]string) *http.Response {
		data, _ := json.Marshal(body)
		resp, err := http.Post(ts.URL+"/api/auth/login", "application/json", bytes.NewReader(data))
		if err != nil {
			t.Fatalf("login request: %v", err)
		}
		return resp
	}

	resp := post(map[string]string{"username": "admin", "password": "wrong"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}

	resp = post(map[string]string{"username": "admin", "password": "password1"})
	var login struct {
		Token string     `json:"token"`
		User  model.User `json:"user"`
	}
	json.NewDecoder(resp.Body).Decode(&login)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || login.Token == "" {
		t.Fatalf("expected token, got %d", resp.StatusCode)
	}
	if login.User.OrganisationID != ts.org.ID {
		t.Errorf("expected organisation %s, got %s", ts.org.ID, login.User.OrganisationID)
	}

	ts.tokens["session"] = login.Token
	if status := ts.do(t, "session", "GET", "/api/cadets", nil, nil); status != http.StatusOK {
		t.Fatalf("expected 200 before logout, got %d", status)
	}
	if status := ts.do(t, "session", "POST", "/api/auth/logout", nil, nil); status != http.StatusOK {
		t.Fatalf("expected 200 for logout, got %d", status)
	}
	if status := ts.do(t, "session", "GET", "/api/cadets", nil, nil); status != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", status)
	}
}

func TestUnauthenticatedAccess(t *testing.T) {
	ts := setupTestServer(t)
	if status := ts.do(t, "nobody", "GET", "/api/cadets", nil, nil); status != http.StatusUnauthorized {
		t.Errorf("expected 401 for unauthenticated request, got %d", status)
	}
}

func TestRoleMinimums(t *testing.T) {
	ts := setupTestServer(t)
	jacket := ts.createType(t, "Jacket", "JK")
	cadet := ts.createCadet(t, "Maik", "Becker")
	ts.createItems(t, jacket.ID, 1101)

	tests := []struct {
		role   string
		method string
		path   string
		body   any
		want   int
	}{
		{model.RoleUser, "POST", "/api/cadets", map[string]string{"firstname": "A", "lastname": "B"}, http.StatusForbidden},
		{model.RoleUser, "POST", "/api/cadets/" + cadet.ID + "/issue", map[string]any{"type_id": jacket.ID, "number": 1101}, http.StatusForbidden},
		{model.RoleInspector, "POST", "/api/items", map[string]any{"type_id": jacket.ID, "numbers": []int{1}}, http.StatusForbidden},
		{model.RoleMaterialManager, "DELETE", "/api/types/" + jacket.ID, nil, http.StatusForbidden},
		{model.RoleMaterialManager, "GET", "/api/users", nil, http.StatusForbidden},
		{model.RoleInspector, "POST", "/api/cadets/" + cadet.ID + "/issue", map[string]any{"type_id": jacket.ID, "number": 1101}, http.StatusOK},
		{model.RoleUser, "GET", "/api/cadets/" + cadet.ID + "/items", nil, http.StatusOK},
		{model.RoleAdmin, "GET", "/api/users", nil, http.StatusOK},
	}
	for _, tt := range tests {
		if got := ts.do(t, tt.role, tt.method, tt.path, tt.body, nil); got != tt.want {
			t.Errorf("%s %s as %s: expected %d, got %d", tt.method, tt.path, tt.role, tt.want, got)
		}
	}
}

func TestIssueConflictAndForce(t *testing.T) {
	ts := setupTestServer(t)
	jacket := ts.createType(t, "Jacket", "JK")
	maik := ts.createCadet(t, "Maik", "Becker")
	antje := ts.createCadet(t, "Antje", "Fried")
	ts.createItems(t, jacket.ID, 1101)

	issue := map[string]any{"type_id": jacket.ID, "number": 1101}
	var kit model.HolderKit
	if status := ts.do(t, model.RoleInspector, "POST", "/api/cadets/"+maik.ID+"/issue", issue, &kit); status != http.StatusOK {
		t.Fatalf("issue to Maik: %d", status)
	}
	if len(kit[jacket.ID]) != 1 || kit[jacket.ID][0].Number != 1101 {
		t.Fatalf("unexpected kit %+v", kit)
	}

	var conflict conflictResponse
	if status := ts.do(t, model.RoleInspector, "POST", "/api/cadets/"+antje.ID+"/issue", issue, &conflict); status != http.StatusConflict {
		t.Fatalf("expected 409, got %d", status)
	}
	if conflict.Conflict == nil || conflict.Conflict.Code != custody.CodeAlreadyIssued {
		t.Fatalf("expected already_issued conflict, got %+v", conflict)
	}
	if conflict.Conflict.Holder == nil || conflict.Conflict.Holder.ID != maik.ID {
		t.Errorf("expected holder Maik, got %+v", conflict.Conflict.Holder)
	}

	issue["options"] = map[string]bool{"force": true}
	if status := ts.do(t, model.RoleInspector, "POST", "/api/cadets/"+antje.ID+"/issue", issue, nil); status != http.StatusOK {
		t.Fatalf("forced issue: %d", status)
	}

	var detail model.ItemDetail
	items := ts.createItems(t, jacket.ID, 1102)
	ts.do(t, model.RoleUser, "GET", "/api/items/"+items[0].ID, nil, &detail)
	if detail.Custody != "unassigned" {
		t.Errorf("expected new item unassigned, got %q", detail.Custody)
	}

	var maikKit model.HolderKit
	ts.do(t, model.RoleUser, "GET", "/api/cadets/"+maik.ID+"/items", nil, &maikKit)
	if len(maikKit[jacket.ID]) != 0 {
		t.Errorf("expected Maik to hold nothing, got %+v", maikKit)
	}
}

func TestReturnWithoutOpenIssuance(t *testing.T) {
	ts := setupTestServer(t)
	jacket := ts.createType(t, "Jacket", "JK")
	cadet := ts.createCadet(t, "Maik", "Becker")
	items := ts.createItems(t, jacket.ID, 1101)

	status := ts.do(t, model.RoleInspector, "POST", "/api/cadets/"+cadet.ID+"/return",
		map[string]string{"item_id": items[0].ID}, nil)
	if status != http.StatusConflict {
		t.Errorf("expected 409, got %d", status)
	}
}

func TestStorageUnitFullAndExport(t *testing.T) {
	ts := setupTestServer(t)
	jacket := ts.createType(t, "Jacket", "JK")
	items := ts.createItems(t, jacket.ID, 1, 2)

	var unit model.StorageUnit
	status := ts.do(t, model.RoleMaterialManager, "POST", "/api/storage-units",
		map[string]any{"name": "Kiste 01", "capacity": 1}, &unit)
	if status != http.StatusCreated {
		t.Fatalf("creating storage unit: %d", status)
	}

	path := "/api/storage-units/" + unit.ID + "/items"
	if status := ts.do(t, model.RoleMaterialManager, "POST", path, map[string]string{"item_id": items[0].ID}, nil); status != http.StatusOK {
		t.Fatalf("first add: %d", status)
	}
	var conflict conflictResponse
	if status := ts.do(t, model.RoleMaterialManager, "POST", path, map[string]string{"item_id": items[1].ID}, &conflict); status != http.StatusConflict {
		t.Fatalf("expected 409 for full unit, got %d", status)
	}
	if conflict.Conflict.Code != custody.CodeStorageUnitFull || *conflict.Conflict.Capacity != 1 || *conflict.Conflict.Current != 1 {
		t.Errorf("unexpected conflict %+v", conflict.Conflict)
	}

	req, _ := http.NewRequest("GET", ts.URL+"/api/storage-units/export.xlsx", nil)
	req.Header.Set("Authorization", "Bearer "+ts.tokens[model.RoleUser])
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != report.ContentType {
		t.Errorf("unexpected export response %d %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}

	if status := ts.do(t, model.RoleMaterialManager, "DELETE", "/api/storage-units/"+unit.ID, nil, nil); status != http.StatusConflict {
		t.Errorf("expected 409 deleting non-empty unit, got %d", status)
	}
}

func TestErrorMapping(t *testing.T) {
	ts := setupTestServer(t)
	jacket := ts.createType(t, "Jacket", "JK")
	ts.createItems(t, jacket.ID, 7)

	if status := ts.do(t, model.RoleUser, "GET", "/api/items/does-not-exist", nil, nil); status != http.StatusNotFound {
		t.Errorf("expected 404 for unknown item, got %d", status)
	}

	size := "no-such-size"
	status := ts.do(t, model.RoleMaterialManager, "POST", "/api/items",
		map[string]any{"type_id": jacket.ID, "numbers": []int{8}, "size_id": size}, nil)
	if status != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid catalog, got %d", status)
	}

	var conflict conflictResponse
	status = ts.do(t, model.RoleMaterialManager, "POST", "/api/items",
		map[string]any{"type_id": jacket.ID, "numbers": []int{7, 9}}, &conflict)
	if status != http.StatusConflict || conflict.Conflict.Code != custody.CodeNumbersInUse {
		t.Errorf("expected numbers_in_use conflict, got %d %+v", status, conflict.Conflict)
	}

	if status := ts.do(t, model.RoleMaterialManager, "POST", "/api/cadets", map[string]string{"firstname": "A"}, nil); status != http.StatusBadRequest {
		t.Errorf("expected 400 for missing lastname, got %d", status)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 from /health, got %d", resp.StatusCode)
	}

	jacket := ts.createType(t, "Jacket", "JK")
	ts.createItems(t, jacket.ID, 1)

	resp, err = http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), `uniformadmin_custody_operations_total{operation="create_items",outcome="ok"} 1`) {
		t.Errorf("expected create_items counter in metrics output")
	}
}
