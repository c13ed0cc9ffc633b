package fetch

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestClient_GetDecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/products/1", r.URL.Path)
		_ = json.NewEncoder(w).Encode(item{ID: 1, Name: "Hiker"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/")

	var got item
	err := c.Get(t.Context(), "products/1", &got)

	require.NoError(t, err)
	require.Equal(t, item{ID: 1, Name: "Hiker"}, got)
}

func TestClient_NonSuccessStatusIsResponseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "missing", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)

	var got item
	err := c.Get(t.Context(), "/products/404", &got)

	var respErr *ResponseError
	require.True(t, errors.As(err, &respErr))
	require.Equal(t, http.StatusNotFound, respErr.StatusCode)
	require.Equal(t, http.MethodGet, respErr.Method)
	require.Contains(t, string(respErr.Body), "missing")
}

func TestClient_PostSendsJSON(t *testing.T) {
	var received map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 7}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)

	var created struct {
		ID int `json:"id"`
	}
	err := c.Post(t.Context(), "shippingAddress", map[string]string{"city": "Leeds"}, &created)

	require.NoError(t, err)
	require.Equal(t, "Leeds", received["city"])
	require.Equal(t, 7, created.ID)
}

func TestClient_URLJoinsSlashes(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"http://api/", "products", "http://api/products"},
		{"http://api", "/products", "http://api/products"},
		{"http://api/v1/", "/products/1", "http://api/v1/products/1"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, NewClient(tt.base).URL(tt.path))
		})
	}
}
