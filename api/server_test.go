package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/poiesic/blogdex/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	err   error
	calls []string
}

func (f *fakeSearcher) results(mode, query string) ([]*core.SearchResult, error) {
	f.calls = append(f.calls, mode+":"+query)
	if f.err != nil {
		return nil, f.err
	}
	if query == "" {
		return nil, nil
	}
	return []*core.SearchResult{
		{Chunk: &core.Chunk{Id: "a", Title: "A", Text: "about " + query}, Score: 2.5, Source: core.SourceLexical},
		{Chunk: &core.Chunk{Id: "b", Start: 100, Title: "B"}, Score: 0.75, Source: core.SourceVector},
	}, nil
}

func (f *fakeSearcher) TextSearch(_ context.Context, q string) ([]*core.SearchResult, error) {
	return f.results("text", q)
}

func (f *fakeSearcher) VectorSearch(_ context.Context, q string) ([]*core.SearchResult, error) {
	return f.results("vector", q)
}

func (f *fakeSearcher) HybridSearch(_ context.Context, q string) ([]*core.SearchResult, error) {
	return f.results("hybrid", q)
}

func newTestServer(f *fakeSearcher) *httptest.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return httptest.NewServer(NewServer(f, logger))
}

type searchBody struct {
	Query   string `json:"query"`
	Mode    string `json:"mode"`
	Count   int    `json:"count"`
	Results []struct {
		Record struct {
			Id    string `json:"id"`
			Start int    `json:"start"`
			Title string `json:"title"`
			Text  string `json:"chunk"`
		} `json:"record"`
		Score  float64 `json:"score"`
		Source string  `json:"source"`
	} `json:"results"`
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&fakeSearcher{})
	defer srv.Close()

	resp, body := get(t, srv.URL+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestSearch_Modes(t *testing.T) {
	tests := []struct {
		param string
		mode  string
	}{
		{"", "hybrid"},
		{"&mode=hybrid", "hybrid"},
		{"&mode=text", "text"},
		{"&mode=VECTOR", "vector"},
	}
	for _, tt := range tests {
		t.Run(tt.mode+tt.param, func(t *testing.T) {
			f := &fakeSearcher{}
			srv := newTestServer(f)
			defer srv.Close()

			resp, body := get(t, srv.URL+"/api/search?q=card+magic"+tt.param)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

			var got searchBody
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, "card magic", got.Query)
			assert.Equal(t, tt.mode, got.Mode)
			assert.Equal(t, 2, got.Count)
			require.Len(t, got.Results, 2)
			assert.Equal(t, "a", got.Results[0].Record.Id)
			assert.Equal(t, "about card magic", got.Results[0].Record.Text)
			assert.Equal(t, "lexical", got.Results[0].Source)
			assert.Equal(t, 100, got.Results[1].Record.Start)
			assert.Equal(t, "vector", got.Results[1].Source)
			assert.Equal(t, []string{tt.mode + ":card magic"}, f.calls)
		})
	}
}

func TestSearch_BlankQueryReturnsEmptyArray(t *testing.T) {
	srv := newTestServer(&fakeSearcher{})
	defer srv.Close()

	resp, body := get(t, srv.URL+"/api/search?q=")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"query":"","mode":"hybrid","count":0,"results":[]}`, string(body))
}

func TestSearch_BadRequests(t *testing.T) {
	f := &fakeSearcher{}
	srv := newTestServer(f)
	defer srv.Close()

	resp, body := get(t, srv.URL+"/api/search")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "q query parameter is required")

	resp, body = get(t, srv.URL+"/api/search?q=x&mode=fuzzy")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "mode must be one of")

	assert.Empty(t, f.calls)
}

func TestSearch_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"embedding down", fmt.Errorf("%w: connection refused", core.ErrEmbeddingUnavailable), http.StatusServiceUnavailable},
		{"other failure", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&fakeSearcher{err: tt.err})
			defer srv.Close()

			resp, body := get(t, srv.URL+"/api/search?q=x")
			assert.Equal(t, tt.status, resp.StatusCode)
			var got map[string]string
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Contains(t, got["error"], "search failed")
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(&fakeSearcher{})
	defer srv.Close()

	resp, _ := get(t, srv.URL+"/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
