// Copyright (c) 2025 Steve Taranto staranto@gmail.com.
// SPDX-License-Identifier: Apache-2.0

// Package remote is the REST client for a menu server.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/apex/log"
	cleanhttp "github.com/hashicorp/go-cleanhttp"

	"github.com/staranto/menuctl/internal/menu"
)

// DefaultBaseURL is used when no --url is configured.
const DefaultBaseURL = "http://localhost:3000/api"

// Sentinel errors for client construction.
var (
	ErrBaseURLEmpty   = errors.New("base URL is not set")
	ErrBaseURLInvalid = errors.New("base URL must be an absolute http(s) URL")
)

// Client talks to the menu REST API rooted at BaseURL. Every call is a single
// request; nothing is retried.
type Client struct {
	BaseURL *url.URL
	HTTP    *http.Client
	Token   string
	// Timeout bounds each request when non-zero.
	Timeout time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithToken sends the token as a bearer credential.
func WithToken(token string) Option {
	return func(c *Client) { c.Token = token }
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.Timeout = d }
}

// WithHTTPClient replaces the default pooled client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTP = hc }
}

// NewClient validates base and returns a Client for it.
func NewClient(base string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(base) == "" {
		return nil, ErrBaseURLEmpty
	}
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL %q: %w", base, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%q: %w", base, ErrBaseURLInvalid)
	}

	c := &Client{
		BaseURL: u,
		HTTP:    cleanhttp.DefaultPooledClient(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// endpoint builds {base}/category/{category}/menu[/{id}[/soldout]].
func (c *Client) endpoint(category menu.Category, parts ...string) string {
	segs := []string{"category", url.PathEscape(string(category)), "menu"}
	for _, p := range parts {
		segs = append(segs, url.PathEscape(p))
	}
	return c.BaseURL.String() + "/" + strings.Join(segs, "/")
}

// List fetches the items of a category. Failures are returned to the caller
// untouched.
func (c *Client) List(ctx context.Context, category menu.Category) ([]menu.Item, error) {
	var items []menu.Item
	if err := c.hit(ctx, http.MethodGet, c.endpoint(category), nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []menu.Item{}
	}
	log.Debugf("remote: %s has %d items", category, len(items))
	return items, nil
}

// Create adds an item named name to category.
func (c *Client) Create(ctx context.Context, category menu.Category, name string) error {
	return c.hit(ctx, http.MethodPost, c.endpoint(category), nameBody{Name: name}, nil)
}

// Rename changes the name of an item and returns the server's copy of it.
func (c *Client) Rename(ctx context.Context, category menu.Category, id menu.ID, name string) (menu.Item, error) {
	var item menu.Item
	err := c.hit(ctx, http.MethodPut, c.endpoint(category, string(id)), nameBody{Name: name}, &item)
	return item, err
}

// ToggleSoldOut flips the sold-out flag of an item.
func (c *Client) ToggleSoldOut(ctx context.Context, category menu.Category, id menu.ID) error {
	return c.hit(ctx, http.MethodPut, c.endpoint(category, string(id), "soldout"), nil, nil)
}

// Remove deletes an item.
func (c *Client) Remove(ctx context.Context, category menu.Category, id menu.ID) error {
	return c.hit(ctx, http.MethodDelete, c.endpoint(category, string(id)), nil, nil)
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.HTTP.CloseIdleConnections()
	return nil
}

func (c *Client) String() string {
	return "remote " + c.BaseURL.String()
}

type nameBody struct {
	Name string `json:"name"`
}
