package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testClient(baseURL string) *OllamaClient {
	config := DefaultOllamaConfig()
	config.BaseURL = baseURL
	config.MaxRetries = 0
	return NewOllamaClient(config)
}

func TestGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		var req GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Stream {
			t.Error("stream = true, want false")
		}
		if req.System != "system prompt" {
			t.Errorf("system = %q", req.System)
		}

		_ = json.NewEncoder(w).Encode(GenerateResponse{
			Model:    req.Model,
			Response: "generated text",
			Done:     true,
		})
	}))
	defer server.Close()

	client := testClient(server.URL)

	resp, err := client.Generate(context.Background(), "system prompt", "user prompt", nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.Response != "generated text" {
		t.Errorf("Response = %q", resp.Response)
	}
}

func TestGenerateJSONSetsFormat(t *testing.T) {
	var gotFormat string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req GenerateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotFormat = req.Format
		_ = json.NewEncoder(w).Encode(GenerateResponse{Response: "{}", Done: true})
	}))
	defer server.Close()

	client := testClient(server.URL)

	if _, err := client.GenerateJSON(context.Background(), "", "prompt", nil); err != nil {
		t.Fatalf("GenerateJSON() error = %v", err)
	}
	if gotFormat != "json" {
		t.Errorf("format = %q, want json", gotFormat)
	}
}

func TestGenerateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := testClient(server.URL)

	if _, err := client.Generate(context.Background(), "", "prompt", nil); err == nil {
		t.Error("Generate() error = nil on server error")
	}
}

func TestCheckAvailability(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/version" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"version":"0.5.0"}`))
	}))
	defer server.Close()

	if err := testClient(server.URL).CheckAvailability(context.Background()); err != nil {
		t.Errorf("CheckAvailability() error = %v", err)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{
			name:     "bare object",
			response: `{"a": 1}`,
			want:     `{"a": 1}`,
		},
		{
			name:     "surrounding prose",
			response: "Here you go:\n{\"a\": 1}\nHope that helps!",
			want:     `{"a": 1}`,
		},
		{
			name:     "code fence",
			response: "```json\n{\"a\": 1}\n```",
			want:     "{\"a\": 1}",
		},
		{
			name:     "no object",
			response: "I cannot answer that.",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractJSON(tt.response)
			if got != tt.want {
				t.Errorf("ExtractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}
