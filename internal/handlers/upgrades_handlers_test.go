package handlers

import (
	"net/http"
	"testing"

	"github.com/wallpix/backend/internal/models"
	"github.com/wallpix/backend/internal/plans"
)

func requestUpgrade(t *testing.T, env *testEnv, token, plan string) map[string]any {
	t.Helper()

	resp := performJSONRequest(t, env.app, http.MethodPost, "/api/upgrade/", map[string]any{
		"plan": plan,
	}, authHeaders(token))
	body := decodeJSONMap(t, resp)
	assertStatus(t, resp, http.StatusCreated)
	return body["data"].(map[string]any)
}

func TestUpgradeRequestFlow(t *testing.T) {
	env := setupTestEnv(t)
	_, token := createTestUser(t, env.db, "upgrader@test.com", "password123", false)

	t.Run("status starts as none", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/upgrade/status", nil, authHeaders(token))
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusOK)
		if body["data"].(map[string]any)["status"] != "none" {
			t.Fatalf("expected status none, got %v", body["data"])
		}
	})

	t.Run("basic user requests pro", func(t *testing.T) {
		data := requestUpgrade(t, env, token, plans.PlanPro)
		if data["status"] != string(models.UpgradeStatusPending) {
			t.Fatalf("expected pending request, got %v", data["status"])
		}
		if data["currentPlan"] != plans.PlanBasic || data["requestedPlan"] != plans.PlanPro {
			t.Fatalf("unexpected plan pair: %v -> %v", data["currentPlan"], data["requestedPlan"])
		}
	})

	t.Run("second request while one is pending conflicts", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/upgrade/", map[string]any{
			"plan": plans.PlanProMax,
		}, authHeaders(token))
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusConflict)
		assertEnvelopeError(t, body, "an upgrade request is already pending")
	})

	t.Run("status reflects the pending request", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/upgrade/status", nil, authHeaders(token))
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusOK)

		data := body["data"].(map[string]any)
		if data["status"] != string(models.UpgradeStatusPending) {
			t.Fatalf("expected pending, got %v", data["status"])
		}
		if data["requestedPlan"] != plans.PlanPro {
			t.Fatalf("expected requestedPlan pro, got %v", data["requestedPlan"])
		}
	})

	t.Run("cancel removes the pending request", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodDelete, "/api/upgrade/", nil, authHeaders(token))
		assertStatus(t, resp, http.StatusOK)

		status := performRequest(t, env.app, http.MethodGet, "/api/upgrade/status", nil, authHeaders(token))
		body := decodeJSONMap(t, status)
		if body["data"].(map[string]any)["status"] != "none" {
			t.Fatalf("expected none after cancel, got %v", body["data"])
		}
	})

	t.Run("cancel with nothing pending is 404", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodDelete, "/api/upgrade/", nil, authHeaders(token))
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusNotFound)
		assertEnvelopeError(t, body, "no pending upgrade request")
	})
}

func TestUpgradeRequestValidation(t *testing.T) {
	env := setupTestEnv(t)
	user, token := createTestUser(t, env.db, "validation@test.com", "password123", false)

	t.Run("basic plan is not a request target", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/upgrade/", map[string]any{
			"plan": plans.PlanBasic,
		}, authHeaders(token))
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusBadRequest)
		assertEnvelopeError(t, body, "requested plan is not upgrade-eligible")
	})

	t.Run("unknown plan is rejected", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/upgrade/", map[string]any{
			"plan": "platinum",
		}, authHeaders(token))
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusBadRequest)
		assertEnvelopeError(t, body, "requested plan is not upgrade-eligible")
	})

	t.Run("downgrade and sideways requests are rejected", func(t *testing.T) {
		setUserPlan(t, env.db, user, plans.PlanProMax)

		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/upgrade/", map[string]any{
			"plan": plans.PlanPro,
		}, authHeaders(token))
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusBadRequest)
		assertEnvelopeError(t, body, "requested plan must exceed current plan")

		same := performJSONRequest(t, env.app, http.MethodPost, "/api/upgrade/", map[string]any{
			"plan": plans.PlanProMax,
		}, authHeaders(token))
		sameBody := decodeJSONMap(t, same)
		assertStatus(t, same, http.StatusBadRequest)
		assertEnvelopeError(t, sameBody, "requested plan must exceed current plan")
	})

	t.Run("plan input is case and whitespace tolerant", func(t *testing.T) {
		setUserPlan(t, env.db, user, plans.PlanBasic)
		data := requestUpgrade(t, env, token, "  PRO  ")
		if data["requestedPlan"] != plans.PlanPro {
			t.Fatalf("expected normalized plan pro, got %v", data["requestedPlan"])
		}
	})
}

func TestAdminUpgradeDecisions(t *testing.T) {
	env := setupTestEnv(t)
	_, adminToken := createTestUser(t, env.db, "admin@test.com", "password123", true)
	user, userToken := createTestUser(t, env.db, "member@test.com", "password123", false)

	data := requestUpgrade(t, env, userToken, plans.PlanPro)
	requestID := data["id"].(string)

	t.Run("non-admin cannot approve", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodPut, "/api/admin/upgrades/"+requestID+"/approve", nil, authHeaders(userToken))
		assertStatus(t, resp, http.StatusForbidden)
	})

	t.Run("admin lists pending requests", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/admin/upgrades?status=pending", nil, authHeaders(adminToken))
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusOK)
		if requests := body["data"].([]any); len(requests) != 1 {
			t.Fatalf("expected 1 pending request, got %d", len(requests))
		}
	})

	t.Run("approve sets the user's plan in the same step", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodPut, "/api/admin/upgrades/"+requestID+"/approve", nil, authHeaders(adminToken))
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusOK)
		if body["data"].(map[string]any)["status"] != string(models.UpgradeStatusApproved) {
			t.Fatalf("expected approved, got %v", body["data"])
		}

		var reloaded models.User
		if err := env.db.First(&reloaded, "id = ?", user.ID).Error; err != nil {
			t.Fatalf("failed reloading user: %v", err)
		}
		if reloaded.Plan != plans.PlanPro {
			t.Fatalf("expected user plan pro after approval, got %s", reloaded.Plan)
		}
	})

	t.Run("processed request cannot be decided again", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodPut, "/api/admin/upgrades/"+requestID+"/reject", nil, authHeaders(adminToken))
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusConflict)
		assertEnvelopeError(t, body, "upgrade request already processed")
	})

	t.Run("reject leaves the plan unchanged", func(t *testing.T) {
		second := requestUpgrade(t, env, userToken, plans.PlanProMax)
		secondID := second["id"].(string)

		resp := performRequest(t, env.app, http.MethodPut, "/api/admin/upgrades/"+secondID+"/reject", nil, authHeaders(adminToken))
		assertStatus(t, resp, http.StatusOK)

		var reloaded models.User
		if err := env.db.First(&reloaded, "id = ?", user.ID).Error; err != nil {
			t.Fatalf("failed reloading user: %v", err)
		}
		if reloaded.Plan != plans.PlanPro {
			t.Fatalf("reject must not change the plan, got %s", reloaded.Plan)
		}

		status := performRequest(t, env.app, http.MethodGet, "/api/upgrade/status", nil, authHeaders(userToken))
		statusBody := decodeJSONMap(t, status)
		if statusBody["data"].(map[string]any)["status"] != string(models.UpgradeStatusRejected) {
			t.Fatalf("expected rejected status view, got %v", statusBody["data"])
		}
	})

	t.Run("rejected user can file again", func(t *testing.T) {
		requestUpgrade(t, env, userToken, plans.PlanProMax)
	})

	t.Run("unknown request id is 404", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodPut, "/api/admin/upgrades/00000000-0000-0000-0000-000000000000/approve", nil, authHeaders(adminToken))
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusNotFound)
		assertEnvelopeError(t, body, "upgrade request not found")
	})
}
