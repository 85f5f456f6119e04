// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/menuctl/internal/menu"
)

// fakeAPI is an in-memory implementation of the menu REST API.
type fakeAPI struct {
	mu     sync.Mutex
	nextID int
	menus  map[string][]map[string]any
	auth   string
	calls  []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{nextID: 1, menus: map[string][]map[string]any{}}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
	f.auth = r.Header.Get("Authorization")

	// /api/category/{category}/menu[/{id}[/soldout]]
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/api"), "/"), "/")
	if len(parts) < 3 || parts[0] != "category" || parts[2] != "menu" {
		http.NotFound(w, r)
		return
	}
	cat := parts[1]

	writeJSON := func(code int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(v)
	}
	find := func(id string) int {
		for i, it := range f.menus[cat] {
			if strconv.Itoa(it["id"].(int)) == id {
				return i
			}
		}
		return -1
	}

	switch {
	case len(parts) == 3 && r.Method == http.MethodGet:
		items := f.menus[cat]
		if items == nil {
			items = []map[string]any{}
		}
		writeJSON(http.StatusOK, items)
	case len(parts) == 3 && r.Method == http.MethodPost:
		var body struct{ Name string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		for _, it := range f.menus[cat] {
			if it["name"] == body.Name {
				writeJSON(http.StatusBadRequest, map[string]string{"message": "duplicate menu name"})
				return
			}
		}
		item := map[string]any{"id": f.nextID, "name": body.Name, "isSoldOut": false}
		f.nextID++
		f.menus[cat] = append(f.menus[cat], item)
		writeJSON(http.StatusCreated, item)
	case len(parts) == 4 && r.Method == http.MethodPut:
		i := find(parts[3])
		if i < 0 {
			writeJSON(http.StatusNotFound, map[string]string{"message": "no such menu"})
			return
		}
		var body struct{ Name string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.menus[cat][i]["name"] = body.Name
		writeJSON(http.StatusOK, f.menus[cat][i])
	case len(parts) == 4 && r.Method == http.MethodDelete:
		i := find(parts[3])
		if i < 0 {
			http.NotFound(w, r)
			return
		}
		f.menus[cat] = append(f.menus[cat][:i], f.menus[cat][i+1:]...)
		w.WriteHeader(http.StatusNoContent)
	case len(parts) == 5 && parts[4] == "soldout" && r.Method == http.MethodPut:
		i := find(parts[3])
		if i < 0 {
			http.NotFound(w, r)
			return
		}
		f.menus[cat][i]["isSoldOut"] = !f.menus[cat][i]["isSoldOut"].(bool)
		writeJSON(http.StatusOK, f.menus[cat][i])
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func newTestClient(t *testing.T, h http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL+"/api/", opts...)
	require.NoError(t, err)
	return c
}

func TestNewClient(t *testing.T) {
	_, err := NewClient("")
	assert.ErrorIs(t, err, ErrBaseURLEmpty)

	_, err = NewClient("ftp://example.com")
	assert.ErrorIs(t, err, ErrBaseURLInvalid)

	_, err = NewClient("localhost:3000")
	assert.Error(t, err)

	c, err := NewClient("http://localhost:3000/api/", WithToken("t"), WithTimeout(time.Second))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/api", c.BaseURL.String())
	assert.Equal(t, "t", c.Token)
	assert.Equal(t, time.Second, c.Timeout)
	assert.Equal(t, "http://localhost:3000/api/category/espresso/menu/4/soldout",
		c.endpoint(menu.Espresso, "4", "soldout"))
}

func TestClientLifecycle(t *testing.T) {
	api := newFakeAPI()
	c := newTestClient(t, api, WithToken("secret"))
	ctx := context.Background()

	items, err := c.List(ctx, menu.Espresso)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Equal(t, "Bearer secret", api.auth)

	require.NoError(t, c.Create(ctx, menu.Espresso, "Americano"))
	require.NoError(t, c.Create(ctx, menu.Espresso, "Latte"))

	items, err = c.List(ctx, menu.Espresso)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, menu.Item{ID: "1", Name: "Americano"}, items[0])

	renamed, err := c.Rename(ctx, menu.Espresso, "2", "Flat White")
	require.NoError(t, err)
	assert.Equal(t, "Flat White", renamed.Name)

	require.NoError(t, c.ToggleSoldOut(ctx, menu.Espresso, "1"))
	items, err = c.List(ctx, menu.Espresso)
	require.NoError(t, err)
	assert.True(t, items[0].IsSoldOut)

	require.NoError(t, c.Remove(ctx, menu.Espresso, "1"))
	items, err = c.List(ctx, menu.Espresso)
	require.NoError(t, err)
	assert.Equal(t, []menu.Item{{ID: "2", Name: "Flat White"}}, items)

	// Other categories are untouched.
	items, err = c.List(ctx, menu.Teavana)
	require.NoError(t, err)
	assert.Empty(t, items)

	assert.Contains(t, api.calls, "PUT /api/category/espresso/menu/1/soldout")
	assert.Contains(t, api.calls, "DELETE /api/category/espresso/menu/1")
}

func TestClientStatusError(t *testing.T) {
	api := newFakeAPI()
	c := newTestClient(t, api)
	ctx := context.Background()

	require.NoError(t, c.Create(ctx, menu.Blended, "Java Chip"))
	err := c.Create(ctx, menu.Blended, "Java Chip")
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Equal(t, "duplicate menu name", se.Message)
	assert.Equal(t, http.MethodPost, se.Method)

	// The failed create left remote state unchanged.
	items, err := c.List(ctx, menu.Blended)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	err = c.Remove(ctx, menu.Blended, "99")
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)
}

func TestClientTextErrorBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))

	_, err := c.List(context.Background(), menu.Desert)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "upstream exploded", se.Message)
	assert.Contains(t, se.Error(), "502 Bad Gateway")
}

func TestClientTimeout(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}), WithTimeout(20*time.Millisecond))

	_, err := c.List(context.Background(), menu.Espresso)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	friendly := FriendlyError(err, ErrorContext{Host: "localhost", Category: "espresso", Operation: "list menu"})
	assert.Contains(t, friendly.Error(), "did not answer in time")
}

func TestClientBadJSON(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	_, err := c.List(context.Background(), menu.Espresso)
	assert.ErrorContains(t, err, "failed to decode response")
}

func TestFriendlyError(t *testing.T) {
	ec := ErrorContext{Host: "cafe.example", Category: "espresso", Operation: "add menu"}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "not found", err: &StatusError{Code: 404}, want: "add menu in espresso: not found on cafe.example"},
		{name: "unauthorized", err: &StatusError{Code: 401}, want: "not authorized on cafe.example"},
		{name: "rejected", err: &StatusError{Code: 400, Message: "duplicate"}, want: "rejected by cafe.example: duplicate"},
		{name: "server", err: &StatusError{Code: 503}, want: "server error from cafe.example"},
		{name: "plain", err: errors.New("boom"), want: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FriendlyError(tt.err, ec)
			if tt.want == "" {
				assert.NoError(t, got)
				return
			}
			assert.Contains(t, got.Error(), tt.want)
			if tt.err != nil {
				assert.ErrorIs(t, got, tt.err)
			}
		})
	}
}
