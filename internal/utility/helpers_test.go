package utility

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteJSON(rr, http.StatusCreated, map[string]string{"hello": "world"})

	if rr.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusCreated)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q, want application/json", ct)
	}
	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("could not decode body: %v", err)
	}
	if body["hello"] != "world" {
		t.Errorf("body = %v", body)
	}
}

func TestHttpError(t *testing.T) {
	rr := httptest.NewRecorder()
	HttpError(rr, http.StatusBadRequest, "bad input")

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("could not decode body: %v", err)
	}
	if body.Success {
		t.Error("expected success=false")
	}
	if body.Error != "bad input" {
		t.Errorf("error = %q, want bad input", body.Error)
	}
}

func TestGetenv(t *testing.T) {
	t.Setenv("MODPOCKET_TEST_KEY", "value")
	if got := Getenv("MODPOCKET_TEST_KEY", "def"); got != "value" {
		t.Errorf("Getenv() = %q, want value", got)
	}
	if got := Getenv("MODPOCKET_TEST_MISSING", "def"); got != "def" {
		t.Errorf("Getenv() = %q, want def", got)
	}
}
