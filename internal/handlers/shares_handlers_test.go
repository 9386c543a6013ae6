package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestShareResolution(t *testing.T) {
	env := setupTestEnv(t)
	_, token := createTestUser(t, env.db, "sharer@test.com", "password123", false)

	data := createDraft(t, env, token, `{"walls":[{"color":"#aabbcc"}]}`)
	draft := data["draft"].(map[string]any)
	shareToken := draft["shareToken"].(string)

	t.Run("resolves without authentication", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/shared/"+shareToken, nil, nil)
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusOK)

		view := body["data"].(map[string]any)
		if view["ownerEmail"] != "sharer@test.com" {
			t.Fatalf("expected owner attribution, got %v", view["ownerEmail"])
		}

		raw, _ := json.Marshal(view["data"])
		var payload map[string]any
		if err := json.Unmarshal(raw, &payload); err != nil {
			t.Fatalf("share payload not valid JSON: %v", err)
		}
		if _, ok := payload["walls"]; !ok {
			t.Fatalf("expected design payload in share view, got %s", raw)
		}
	})

	t.Run("read-only route serves the same view", func(t *testing.T) {
		shared := performRequest(t, env.app, http.MethodGet, "/api/shared/"+shareToken, nil, nil)
		view := performRequest(t, env.app, http.MethodGet, "/api/view/"+shareToken, nil, nil)
		sharedBody := decodeJSONMap(t, shared)
		viewBody := decodeJSONMap(t, view)
		assertStatus(t, shared, http.StatusOK)
		assertStatus(t, view, http.StatusOK)

		sharedJSON, _ := json.Marshal(sharedBody["data"])
		viewJSON, _ := json.Marshal(viewBody["data"])
		if string(sharedJSON) != string(viewJSON) {
			t.Fatalf("shared and view routes disagree: %s vs %s", sharedJSON, viewJSON)
		}
	})

	t.Run("share view never leaks credentials or user ids", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/shared/"+shareToken, nil, nil)
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusOK)

		view := body["data"].(map[string]any)
		for _, forbidden := range []string{"passwordHash", "password", "userID", "shareToken"} {
			if _, ok := view[forbidden]; ok {
				t.Fatalf("share view must not expose %q", forbidden)
			}
		}
	})

	t.Run("unknown token is not found", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/shared/definitely-not-a-token", nil, nil)
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusNotFound)
		assertEnvelopeError(t, body, "share not found")
	})
}
