package scryfall

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewClient(t *testing.T) {
	client := NewClient()

	if client == nil {
		t.Fatal("NewClient() returned nil")
	}

	if client.httpClient == nil {
		t.Error("httpClient is nil")
	}

	if client.rateLimiter == nil {
		t.Error("rateLimiter is nil")
	}

	if client.userAgent == "" {
		t.Error("userAgent is empty")
	}
}

func TestClient_GetCardByName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cards/named" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("exact"); got != "Lightning Bolt" {
			t.Errorf("exact query = %q, want %q", got, "Lightning Bolt")
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
			"id": "test-id",
			"name": "Lightning Bolt",
			"mana_cost": "{R}",
			"cmc": 1.0,
			"type_line": "Instant",
			"oracle_text": "Lightning Bolt deals 3 damage to any target.",
			"legalities": {"modern": "legal", "standard": "not_legal"}
		}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)

	card, err := client.GetCardByName(context.Background(), "Lightning Bolt")
	if err != nil {
		t.Fatalf("GetCardByName() error = %v", err)
	}

	if card.Name != "Lightning Bolt" {
		t.Errorf("Name = %q, want %q", card.Name, "Lightning Bolt")
	}
	if card.ManaCost != "{R}" {
		t.Errorf("ManaCost = %q, want %q", card.ManaCost, "{R}")
	}
	if card.Legalities["modern"] != "legal" {
		t.Errorf("Legalities[modern] = %q, want %q", card.Legalities["modern"], "legal")
	}
}

func TestClient_GetCardByNameNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)

	_, err := client.GetCardByName(context.Background(), "No Such Card")
	if err == nil {
		t.Fatal("GetCardByName() error = nil, want not-found error")
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound() = false for %v", err)
	}
}

func TestClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"object":"error","code":"bad_request","status":400,"details":"Invalid query"}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)

	_, err := client.SearchCards(context.Background(), "((")
	if err == nil {
		t.Fatal("SearchCards() error = nil, want API error")
	}
}

func TestClient_RateLimiting(t *testing.T) {
	requestCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"test","name":"Test Card"}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := client.GetCard(context.Background(), "test"); err != nil {
			t.Fatalf("Request %d failed: %v", i+1, err)
		}
	}
	elapsed := time.Since(start)

	if requestCount != 3 {
		t.Errorf("Expected 3 requests, got %d", requestCount)
	}

	// Two 100ms gaps between three requests.
	if elapsed < 200*time.Millisecond {
		t.Errorf("Rate limiting not working: completed 3 requests in %v", elapsed)
	}
}

func TestClient_RetriesOn429(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"test","name":"Test Card"}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)

	card, err := client.GetCard(context.Background(), "test")
	if err != nil {
		t.Fatalf("GetCard() error = %v", err)
	}
	if card.Name != "Test Card" {
		t.Errorf("Name = %q, want %q", card.Name, "Test Card")
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}
