package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/scienceol/chemstock/internal/config"
	"github.com/scienceol/chemstock/internal/testutil"
)

type client struct {
	t *testing.T
	g *gin.Engine
}

func newClient(t *testing.T) *client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	testutil.SetupDB(t)
	config.Global().Redis.Enabled = false

	g := gin.New()
	closeRouter := NewRouter(context.Background(), g)
	t.Cleanup(closeRouter)
	return &client{t: t, g: g}
}

func (c *client) do(method, path string, body any) (int, map[string]any) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c.g.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			c.t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code, out
}

func data(resp map[string]any) map[string]any {
	d, _ := resp["data"].(map[string]any)
	return d
}

func TestInventoryFlow(t *testing.T) {
	c := newClient(t)

	status, resp := c.do(http.MethodPost, "/api/v1/chemicals", gin.H{
		"name": "Ethanol", "casNumber": "64-17-5", "nfpaFire": 3,
	})
	if status != http.StatusCreated {
		t.Fatalf("create chemical = %d %v", status, resp)
	}
	chemID := data(resp)["id"].(float64)

	status, resp = c.do(http.MethodPost, "/api/v1/chemicals", gin.H{"name": "Ethyl alcohol", "casNumber": "64-17-5"})
	if status != http.StatusBadRequest || resp["existingId"] != chemID {
		t.Fatalf("duplicate cas = %d %v", status, resp)
	}

	status, resp = c.do(http.MethodPost, "/api/v1/bottles", gin.H{"chemicalId": chemID, "numberOfBottles": 3})
	if status != http.StatusCreated {
		t.Fatalf("create bottles = %d %v", status, resp)
	}
	if data(resp)["parentId"] != "CHEM0001" || data(resp)["message"] != "Created 3 bottle(s)" {
		t.Fatalf("resp = %v", resp)
	}

	_, resp = c.do(http.MethodPost, "/api/v1/bottles", gin.H{"chemicalId": chemID, "numberOfBottles": 2})
	bottles := data(resp)["bottles"].([]any)
	if len(bottles) != 2 || bottles[0].(map[string]any)["bottleId"] != "CHEM0001-4" || bottles[1].(map[string]any)["bottleId"] != "CHEM0001-5" {
		t.Fatalf("second batch = %v", bottles)
	}

	status, resp = c.do(http.MethodPost, "/api/v1/bottles", gin.H{"chemicalId": chemID, "numberOfBottles": 0})
	if status != http.StatusBadRequest {
		t.Fatalf("zero bottles = %d %v", status, resp)
	}

	status, resp = c.do(http.MethodDelete, "/api/v1/chemicals/1", nil)
	if status != http.StatusBadRequest || resp["bottleCount"] != float64(5) {
		t.Fatalf("delete with bottles = %d %v", status, resp)
	}

	status, resp = c.do(http.MethodGet, "/api/v1/chemicals", nil)
	rows := data(resp)["data"].([]any)
	if status != http.StatusOK || len(rows) != 1 || rows[0].(map[string]any)["totalBottles"] != float64(5) {
		t.Fatalf("list = %d %v", status, resp)
	}

	status, resp = c.do(http.MethodGet, "/api/v1/stats", nil)
	if status != http.StatusOK || data(resp)["totalBottles"] != float64(5) || data(resp)["totalChemicals"] != float64(1) {
		t.Fatalf("stats = %d %v", status, resp)
	}

	status, resp = c.do(http.MethodPost, "/api/v1/bottles/bulk-status", gin.H{"bottleIds": []int{1, 2}, "status": "empty"})
	if status != http.StatusOK || data(resp)["updated"] != float64(2) {
		t.Fatalf("bulk = %d %v", status, resp)
	}

	status, resp = c.do(http.MethodGet, "/api/v1/bottles?status=active&chemicalId=1", nil)
	if status != http.StatusOK || data(resp)["total"] != float64(3) {
		t.Fatalf("filtered list = %d %v", status, resp)
	}
}

func TestLocationConflicts(t *testing.T) {
	c := newClient(t)

	body := gin.H{"name": "Cabinet 1", "room": "101", "building": "Science"}
	if status, resp := c.do(http.MethodPost, "/api/v1/locations", body); status != http.StatusCreated {
		t.Fatalf("create = %d %v", status, resp)
	}
	status, resp := c.do(http.MethodPost, "/api/v1/locations", body)
	if status != http.StatusConflict || resp["existingId"] != float64(1) {
		t.Fatalf("duplicate = %d %v", status, resp)
	}

	if status, _ := c.do(http.MethodDelete, "/api/v1/locations/1", nil); status != http.StatusOK {
		t.Fatalf("delete = %d", status)
	}
	if status, _ := c.do(http.MethodGet, "/api/v1/locations/1", nil); status != http.StatusNotFound {
		t.Fatalf("get deleted = %d", status)
	}
}

func TestRequestValidation(t *testing.T) {
	c := newClient(t)

	cases := []struct {
		method, path string
		body         any
		want         int
	}{
		{http.MethodGet, "/api/v1/chemicals/abc", nil, http.StatusBadRequest},
		{http.MethodGet, "/api/v1/chemicals/42", nil, http.StatusNotFound},
		{http.MethodPost, "/api/v1/chemicals", gin.H{"casNumber": "64-17-5"}, http.StatusBadRequest},
		{http.MethodPost, "/api/v1/chemicals", gin.H{"name": "X", "casNumber": "641-7-5"}, http.StatusBadRequest},
		{http.MethodPost, "/api/v1/chemicals", gin.H{"name": "X", "nfpaHealth": 7}, http.StatusBadRequest},
		{http.MethodPost, "/api/v1/bottles", gin.H{"chemicalId": 99}, http.StatusNotFound},
		{http.MethodPost, "/api/v1/bottles/bulk-status", gin.H{"bottleIds": []int{}, "status": "empty"}, http.StatusBadRequest},
		{http.MethodGet, "/api/v1/bottles?status=lost", nil, http.StatusBadRequest},
		{http.MethodGet, "/api/v1/lookup/cas/not-a-cas", nil, http.StatusBadRequest},
		{http.MethodGet, "/api/v1/lookup/search", nil, http.StatusBadRequest},
	}
	for _, tc := range cases {
		if status, resp := c.do(tc.method, tc.path, tc.body); status != tc.want {
			t.Errorf("%s %s = %d %v, want %d", tc.method, tc.path, status, resp, tc.want)
		}
	}
}

func TestLookupSDSAndHealth(t *testing.T) {
	c := newClient(t)

	status, resp := c.do(http.MethodGet, "/api/v1/lookup/sds/64-17-5", nil)
	if status != http.StatusOK || data(resp)["sigmaAldrich"] != "https://www.sigmaaldrich.com/US/en/sds/sial/64175" {
		t.Fatalf("sds = %d %v", status, resp)
	}

	status, resp = c.do(http.MethodGet, "/api/health/ready", nil)
	checks, _ := resp["checks"].(map[string]any)
	if status != http.StatusOK || checks["database"] != "ok" || checks["redis"] != "disabled" {
		t.Fatalf("ready = %d %v", status, resp)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	c := newClient(t)

	_, resp := c.do(http.MethodPost, "/api/v1/chemicals", gin.H{"name": "Acetone"})
	if status, resp := c.do(http.MethodPost, "/api/v1/bottles", gin.H{"chemicalId": data(resp)["id"]}); status != http.StatusCreated {
		t.Fatalf("create bottle = %d %v", status, resp)
	}

	w := httptest.NewRecorder()
	c.g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("metrics = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "chemstock_allocator_allocations_total") {
		t.Fatalf("allocator counter missing from metrics output")
	}
}

func TestUpdateBottleNullClears(t *testing.T) {
	c := newClient(t)

	_, resp := c.do(http.MethodPost, "/api/v1/locations", gin.H{"name": "Shelf A"})
	locID := data(resp)["id"]
	_, resp = c.do(http.MethodPost, "/api/v1/chemicals", gin.H{"name": "Methanol"})
	status, resp := c.do(http.MethodPost, "/api/v1/bottles", gin.H{
		"chemicalId": data(resp)["id"], "locationId": locID,
		"expirationDate": "2030-01-01", "notes": "sealed",
	})
	if status != http.StatusCreated {
		t.Fatalf("create bottle = %d %v", status, resp)
	}
	path := fmt.Sprintf("/api/v1/bottles/%v", data(resp)["bottles"].([]any)[0].(map[string]any)["id"])

	// absent keys are left alone
	status, resp = c.do(http.MethodPut, path, gin.H{"lotNumber": "L-1"})
	got := data(resp)
	if status != http.StatusOK || got["locationId"] != locID || got["expirationDate"] == nil || got["notes"] != "sealed" {
		t.Fatalf("partial update = %d %v", status, resp)
	}

	status, resp = c.do(http.MethodPut, path, gin.H{"locationId": nil, "expirationDate": nil, "notes": nil})
	got = data(resp)
	if status != http.StatusOK || got["locationId"] != nil || got["expirationDate"] != nil || got["notes"] != nil {
		t.Fatalf("null update = %d %v", status, resp)
	}
	if got["lotNumber"] != "L-1" {
		t.Fatalf("lotNumber = %v, want L-1", got["lotNumber"])
	}
}
