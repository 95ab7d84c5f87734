package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestRegister(t *testing.T) {
	srv := buildTestServer(t)

	rec := doRequest(srv, http.MethodPost, "/users", "", map[string]string{
		"email":    "frodo@shire.me",
		"password": "hunter22",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp registerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID == "" || resp.Email != "frodo@shire.me" || resp.Token == "" {
		t.Fatalf("response = %+v", resp)
	}

	t.Run("duplicate email", func(t *testing.T) {
		rec := doRequest(srv, http.MethodPost, "/users", "", map[string]string{
			"email":    "frodo@shire.me",
			"password": "different",
		})
		if got := decodeMessage(t, rec); rec.Code != http.StatusBadRequest || got != "User already exists" {
			t.Fatalf("status = %d, message = %q", rec.Code, got)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		for _, body := range []map[string]string{
			{"email": "sam@shire.me"},
			{"password": "hunter22"},
			{},
		} {
			rec := doRequest(srv, http.MethodPost, "/users", "", body)
			if got := decodeMessage(t, rec); rec.Code != http.StatusBadRequest || got != "Please provide all required fields" {
				t.Fatalf("body %v: status = %d, message = %q", body, rec.Code, got)
			}
		}
	})
}

func TestLogin(t *testing.T) {
	srv := buildTestServer(t)
	mustRegister(t, srv, "frodo@shire.me")

	rec := doRequest(srv, http.MethodPost, "/users/login", "", map[string]string{
		"email":    "frodo@shire.me",
		"password": "hunter22",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Token == "" || resp.Email != "frodo@shire.me" {
		t.Fatalf("response = %+v", resp)
	}

	// Wrong password and unknown email are indistinguishable.
	for _, body := range []map[string]string{
		{"email": "frodo@shire.me", "password": "wrong"},
		{"email": "nobody@shire.me", "password": "hunter22"},
	} {
		rec := doRequest(srv, http.MethodPost, "/users/login", "", body)
		if got := decodeMessage(t, rec); rec.Code != http.StatusForbidden || got != "Invalid email or password" {
			t.Fatalf("body %v: status = %d, message = %q", body, rec.Code, got)
		}
	}

	rec = doRequest(srv, http.MethodPost, "/users/login", "", map[string]string{"email": "frodo@shire.me"})
	if got := decodeMessage(t, rec); rec.Code != http.StatusBadRequest || got != "Please provide all required fields" {
		t.Fatalf("missing password: status = %d, message = %q", rec.Code, got)
	}
}

func TestMe(t *testing.T) {
	srv := buildTestServer(t)
	token := mustRegister(t, srv, "frodo@shire.me")

	rec := doRequest(srv, http.MethodGet, "/users/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["email"] != "frodo@shire.me" || resp["id"] == "" {
		t.Fatalf("response = %v", resp)
	}

	rec = doRequest(srv, http.MethodGet, "/users/me", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status = %d, want 401", rec.Code)
	}
}
