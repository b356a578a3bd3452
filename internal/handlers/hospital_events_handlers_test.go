package handlers

import (
	"net/http"
	"testing"

	"github.com/wardshift/backend/internal/models"
)

func TestHospitalEventEndpoints(t *testing.T) {
	env := setupTestEnv(t)
	_, adminToken := createTestUser(t, env.db, "events-admin@test.com", "password123", models.UserRoleAdmin)
	_, nurseToken := createTestUser(t, env.db, "events-nurse@test.com", "password123", models.UserRoleNurse)

	var eventID string

	t.Run("POST /api/admin/hospital-events nurse forbidden", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/admin/hospital-events", map[string]any{
			"title": "CPR refresher",
			"start": "2025-06-01",
			"end":   "2025-06-01",
		}, authHeaders(nurseToken))
		assertStatus(t, resp, http.StatusForbidden)
	})

	t.Run("POST /api/admin/hospital-events creates event", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/admin/hospital-events", map[string]any{
			"title":       "CPR refresher",
			"start":       "2025-06-01",
			"end":         "2025-06-02",
			"description": "Mandatory for all nursing staff",
			"type":        "TRAINING",
		}, authHeaders(adminToken))
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusCreated)

		data := dataMap(t, body)
		eventID, _ = data["id"].(string)
		if data["type"] != "TRAINING" {
			t.Fatalf("expected TRAINING type, got %v", data["type"])
		}
	})

	t.Run("POST /api/admin/hospital-events type defaults to OTHER", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/admin/hospital-events", map[string]any{
			"title": "Summer party",
			"start": "2025-07-10",
			"end":   "2025-07-10",
		}, authHeaders(adminToken))
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusCreated)
		if dataMap(t, body)["type"] != "OTHER" {
			t.Fatalf("expected OTHER type")
		}
	})

	t.Run("POST /api/admin/hospital-events end before start rejected", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/admin/hospital-events", map[string]any{
			"title": "Backwards",
			"start": "2025-06-05",
			"end":   "2025-06-04",
		}, authHeaders(adminToken))
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusBadRequest)
		assertEnvelopeError(t, body, "end must not be before start")
	})

	t.Run("GET /api/hospital-events visible to any authenticated user", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/hospital-events", nil, authHeaders(nurseToken))
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusOK)

		data := dataSlice(t, body)
		if len(data) != 2 {
			t.Fatalf("expected 2 events, got %d", len(data))
		}
		first := data[0].(map[string]any)
		if first["start"] != "2025-06-01" {
			t.Fatalf("expected events ordered by start date, got %v", first["start"])
		}
	})

	t.Run("PUT /api/admin/hospital-events/:id updates event", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPut, "/api/admin/hospital-events/"+eventID, map[string]any{
			"title": "CPR refresher (rescheduled)",
			"start": "2025-06-08",
			"end":   "2025-06-09",
			"type":  "TRAINING",
		}, authHeaders(adminToken))
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusOK)

		data := dataMap(t, body)
		if data["start"] != "2025-06-08" {
			t.Fatalf("expected rescheduled start, got %v", data["start"])
		}
	})

	t.Run("DELETE /api/admin/hospital-events/:id removes event", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodDelete, "/api/admin/hospital-events/"+eventID, nil, authHeaders(adminToken))
		assertStatus(t, resp, http.StatusOK)

		resp = performRequest(t, env.app, http.MethodDelete, "/api/admin/hospital-events/"+eventID, nil, authHeaders(adminToken))
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusNotFound)
		assertEnvelopeError(t, body, "hospital event not found")
	})
}
