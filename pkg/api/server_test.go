package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ascent/pkg/cache"
	"github.com/matzehuels/ascent/pkg/errors"
	"github.com/matzehuels/ascent/pkg/layout"
	"github.com/matzehuels/ascent/pkg/pipeline"
	"github.com/matzehuels/ascent/pkg/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := New(pipeline.NewRunner(c, nil, logger), st, nil)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func errorCode(t *testing.T, data []byte) errors.Code {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("error body %q: %v", data, err)
	}
	return body.Error.Code
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, data := do(t, http.MethodGet, ts.URL+"/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !bytes.Contains(data, []byte(`"ok"`)) {
		t.Errorf("body = %s", data)
	}
}

func TestGenerateAndFetch(t *testing.T) {
	ts := newTestServer(t)

	resp, data := do(t, http.MethodPost, ts.URL+"/layouts", `{"seed": 5, "players": 2}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST status = %d, body %s", resp.StatusCode, data)
	}
	if resp.Header.Get("X-Cache") != "MISS" {
		t.Errorf("X-Cache = %q, want MISS", resp.Header.Get("X-Cache"))
	}
	created, err := layout.Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Header.Get("Location") != "/layouts/"+created.ID {
		t.Errorf("Location = %q", resp.Header.Get("Location"))
	}

	resp, _ = do(t, http.MethodPost, ts.URL+"/layouts", `{"seed": 5, "players": 2}`)
	if resp.StatusCode != http.StatusCreated || resp.Header.Get("X-Cache") != "HIT" {
		t.Errorf("repeat POST: status %d, X-Cache %q", resp.StatusCode, resp.Header.Get("X-Cache"))
	}

	resp, data = do(t, http.MethodGet, ts.URL+"/layouts/"+created.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET status = %d, body %s", resp.StatusCode, data)
	}
	fetched, err := layout.Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if fetched.ID != created.ID || len(fetched.Rooms) != len(created.Rooms) {
		t.Error("fetched layout differs from created layout")
	}

	resp, data = do(t, http.MethodGet, ts.URL+"/layouts/"+created.ID+"/ascii", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("ascii status = %d", resp.StatusCode)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain") {
		t.Errorf("Content-Type = %q", resp.Header.Get("Content-Type"))
	}
	if string(data) != layout.ASCII(fetched) {
		t.Error("ascii body differs from layout.ASCII")
	}

	resp, data = do(t, http.MethodGet, ts.URL+"/layouts/"+created.ID+"/dot", "")
	if resp.StatusCode != http.StatusOK || !bytes.HasPrefix(data, []byte("graph G {")) {
		t.Errorf("dot: status %d, body %.20s", resp.StatusCode, data)
	}

	resp, data = do(t, http.MethodGet, ts.URL+"/layouts", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var list []layout.Summary
	if err := json.Unmarshal(data, &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != created.ID {
		t.Errorf("list = %+v", list)
	}

	resp, _ = do(t, http.MethodDelete, ts.URL+"/layouts/"+created.ID, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("DELETE status = %d", resp.StatusCode)
	}
	resp, data = do(t, http.MethodGet, ts.URL+"/layouts/"+created.ID, "")
	if resp.StatusCode != http.StatusNotFound || errorCode(t, data) != errors.ErrCodeNotFound {
		t.Errorf("GET after delete: status %d, body %s", resp.StatusCode, data)
	}
}

func TestGenerateErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   errors.Code
	}{
		{"malformed json", `{"seed":`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown field", `{"colour": "red"}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"invalid option", `{"players": -3}`, http.StatusBadRequest, errors.ErrCodeInvalidConfig},
		{"too few anchors", `{"anchors": [{"x": 1, "y": 1}, {"x": 5, "y": 5}]}`,
			http.StatusBadRequest, errors.ErrCodeInsufficientPoints},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, http.MethodPost, ts.URL+"/layouts", tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if got := errorCode(t, data); got != tt.code {
				t.Errorf("code = %s, want %s", got, tt.code)
			}
		})
	}
}

func TestFetchErrors(t *testing.T) {
	ts := newTestServer(t)
	missing := layout.NewID("missing")

	tests := []struct {
		name   string
		path   string
		status int
		code   errors.Code
	}{
		{"bad id", "/layouts/not-a-uuid", http.StatusBadRequest, errors.ErrCodeInvalidID},
		{"unknown id", "/layouts/" + missing, http.StatusNotFound, errors.ErrCodeNotFound},
		{"bad format", "/layouts/" + missing + "/png", http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"bad limit", "/layouts?limit=zero", http.StatusBadRequest, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, http.MethodGet, ts.URL+tt.path, "")
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if got := errorCode(t, data); got != tt.code {
				t.Errorf("code = %s, want %s", got, tt.code)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidConfig, http.StatusBadRequest},
		{errors.ErrCodeNotFound, http.StatusNotFound},
		{errors.ErrCodeSolverFailed, http.StatusUnprocessableEntity},
		{errors.ErrCodeTimeout, http.StatusGatewayTimeout},
		{errors.ErrCodeStorage, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusFor(errors.New(tt.code, "x")); got != tt.want {
			t.Errorf("StatusFor(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
	if got := StatusFor(io.EOF); got != http.StatusInternalServerError {
		t.Errorf("StatusFor(plain error) = %d, want 500", got)
	}
}
