package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewHTTPClient_NotNil(t *testing.T) {
	client := NewHTTPClient("http://localhost:8080", "")

	if client == nil || client.Client == nil {
		t.Fatal("expected non-nil client")
	}
	if client.BaseURL != "http://localhost:8080" {
		t.Errorf("unexpected base URL %q", client.BaseURL)
	}
}

func TestNewHTTPClient_Independence(t *testing.T) {
	client1 := NewHTTPClient("", "")
	client2 := NewHTTPClient("", "")

	if client1.Client == client2.Client {
		t.Fatal("expected NewHTTPClient to return HTTPClients with different *resty.Client instances")
	}
}

func TestHTTPClient_SendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
	}))
	defer srv.Close()

	var body map[string]string
	resp, err := NewHTTPClient(srv.URL, "tok").R().SetResult(&body).Get("/ping")

	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode())
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
	if body["status"] != "ok" {
		t.Errorf("unexpected body %v", body)
	}
}
