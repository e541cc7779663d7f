package tvdb_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mediarenamer/internal/lookup"
	"mediarenamer/internal/lookup/tvdb"
	"mediarenamer/internal/media"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v4/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode login body: %v", err)
		}
		if body["apikey"] != "key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("login content type = %q", ct)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","data":{"token":"tok"}}`))
	})
	mux.HandleFunc("GET /v4/search", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		q := r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		switch {
		case q.Get("q") == "Paradise 2025" && q.Get("type") == "series":
			_, _ = w.Write([]byte(`{"status":"success","data":[
				{"name":"Paradise","year":"2025","tvdb_id":"429310","type":"series"},
				{"name":"Paradise PD","year":"2018","tvdb_id":"350665","type":"series"}
			]}`))
		case q.Get("type") == "movie" && q.Get("q") == "Broken":
			_, _ = w.Write([]byte(`{"status":`))
		default:
			_, _ = w.Write([]byte(`{"status":"success","data":[]}`))
		}
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := tvdb.New(" ", ""); err == nil {
		t.Fatal("expected error when api key missing")
	}
}

func TestAuthenticateAndSearch(t *testing.T) {
	server := newServer(t)
	client, err := tvdb.New("key", server.URL+"/v4/")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := context.Background()

	if err := client.Authenticate(ctx); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	got, err := client.Search(ctx, "Paradise 2025", media.KindSeries)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	want := []lookup.Candidate{
		{Name: "Paradise", Year: "2025", ID: "429310"},
		{Name: "Paradise PD", Year: "2018", ID: "350665"},
	}
	if len(got) != len(want) {
		t.Fatalf("Search = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("candidate %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	empty, err := client.Search(ctx, "Nothing Here", media.KindMovie)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no candidates, got %v", empty)
	}
}

func TestSearchBeforeAuthenticate(t *testing.T) {
	client, err := tvdb.New("key", "https://example.invalid")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.Search(context.Background(), "Conclave", media.KindMovie); !errors.Is(err, tvdb.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthenticateRejected(t *testing.T) {
	server := newServer(t)
	client, err := tvdb.New("wrong", server.URL+"/v4")
	if err != nil {
		t.Fatal(err)
	}
	err = client.Authenticate(context.Background())
	var httpErr *tvdb.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusUnauthorized || httpErr.Endpoint != "login" {
		t.Fatalf("unexpected error: %+v", httpErr)
	}
}

func TestSearchDecodeError(t *testing.T) {
	server := newServer(t)
	client, err := tvdb.New("key", server.URL+"/v4")
	if err != nil {
		t.Fatal(err)
	}
	if err := client.Authenticate(context.Background()); err != nil {
		t.Fatal(err)
	}
	_, err = client.Search(context.Background(), "Broken", media.KindMovie)
	if err == nil || !strings.Contains(err.Error(), "decode tvdb response") {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestAuthenticateEmptyToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","data":{"token":""}}`))
	}))
	t.Cleanup(server.Close)

	client, err := tvdb.New("key", server.URL)
	if err != nil {
		t.Fatal(err)
	}
	if err := client.Authenticate(context.Background()); err == nil {
		t.Fatal("expected error for empty token")
	}
}
