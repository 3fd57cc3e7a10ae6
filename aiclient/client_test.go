package aiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGenerateParsesValidPreset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"preset_name": "warm pad",
			"engines": [{"slot": 1, "id": 9, "bypass": false}],
			"parameters": {"slot1_param0": 0.4}
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	p, err := c.Generate(context.Background(), "warm analog pad")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if p.Name != "warm pad" {
		t.Fatalf("got name %q, want %q", p.Name, "warm pad")
	}
}

func TestGeneratePropagatesServiceErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Generate(context.Background(), "x")
	if err == nil {
		t.Fatal("expected an error for a 500 response")
	}
}

func TestGenerateRejectsSchemaViolation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"preset_name": "bad", "engines": [], "parameters": {}}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Generate(context.Background(), "x")
	if err == nil {
		t.Fatal("expected a schema-violation error for empty engines")
	}
}

func TestGenerateTimesOutOnSlowService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.Generate(ctx, "x")
	if err == nil {
		t.Fatal("expected a timeout error")
	}
	if !strings.Contains(err.Error(), "request failed") {
		t.Fatalf("expected a request-failure error, got: %v", err)
	}
}

func TestNewsRequestCarriesPromptBody(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 1024)
		n, _ := r.Body.Read(buf)
		gotBody = string(buf[:n])
		_, _ = w.Write([]byte(`{"preset_name":"x","engines":[{"slot":1,"id":0,"bypass":false}],"parameters":{}}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.Generate(context.Background(), "bright pluck"); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(gotBody, "bright pluck") {
		t.Fatalf("request body %q did not contain the prompt", gotBody)
	}
}
