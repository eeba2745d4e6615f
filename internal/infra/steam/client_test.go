package steam

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Config{BaseURL: srv.URL, Country: "jp", Language: "english"}, NewMemoryCache(time.Minute))
	return c, &calls
}

func TestPriceDecodesAndCaches(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1091500", r.URL.Query().Get("appids"))
		assert.Equal(t, "jp", r.URL.Query().Get("cc"))
		assert.Equal(t, "english", r.URL.Query().Get("l"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"1091500":{"success":true,"data":{
			"name":"Cyberpunk 2077",
			"header_image":"https://cdn.example/header.jpg",
			"price_overview":{"currency":"JPY","final":395000,"discount_percent":50}}}}`))
	})

	p, err := c.Price(context.Background(), 1091500)
	require.NoError(t, err)
	assert.Equal(t, int64(1091500), p.AppID)
	assert.Equal(t, "Cyberpunk 2077", p.Name)
	require.NotNil(t, p.Price)
	assert.InDelta(t, 3950.0, *p.Price, 0.0001)
	require.NotNil(t, p.Currency)
	assert.Equal(t, "JPY", *p.Currency)
	require.NotNil(t, p.Discount)
	assert.Equal(t, 50, *p.Discount)
	require.NotNil(t, p.Image)

	_, err = c.Price(context.Background(), 1091500)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestPriceFreeGameHasNoPrice(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"570":{"success":true,"data":{"name":"Dota 2"}}}`))
	})

	p, err := c.Price(context.Background(), 570)
	require.NoError(t, err)
	assert.Equal(t, "Dota 2", p.Name)
	assert.Nil(t, p.Price)
	assert.Nil(t, p.Currency)
}

func TestPriceGameNotFound(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"1":{"success":false}}`))
	})

	_, err := c.Price(context.Background(), 1)
	assert.ErrorIs(t, err, ErrGameNotFound)

	_, err = c.Price(context.Background(), 1)
	assert.ErrorIs(t, err, ErrGameNotFound)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestPriceUpstreamFailures(t *testing.T) {
	tests := []struct {
		name string
		h    http.HandlerFunc
	}{
		{"status", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTooManyRequests) }},
		{"garbage", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`<html>`)) }},
		{"missing app", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{}`)) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestClient(t, tc.h)
			_, err := c.Price(context.Background(), 10)
			assert.ErrorIs(t, err, ErrUpstream)
		})
	}
}
