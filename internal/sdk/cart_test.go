package sdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartService(t *testing.T, handler http.HandlerFunc) *CartService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewCartService(New(srv.URL), nil)
}

func TestCartService_Get(t *testing.T) {
	t.Parallel()

	s := newCartService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cart", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"id":"c1","items":[{"productId":"p1","quantity":2}],"totalAmount":40},"success":true}`))
	})

	cart, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "c1", cart.ID)
	assert.Equal(t, 2, cart.ItemCount())
	assert.InDelta(t, 40, cart.TotalAmount, 0.001)
}

func TestCartService_AddItem(t *testing.T) {
	t.Parallel()

	s := newCartService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/cart/items", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "p1", body["productId"])
		assert.InDelta(t, 3, body["quantity"], 0.001)

		_, _ = w.Write([]byte(`{"data":{"id":"c1","items":[{"productId":"p1","quantity":3}]},"success":true}`))
	})

	cart, err := s.AddItem(context.Background(), "p1", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, cart.ItemCount())
}

func TestCartService_UpdateAndRemove(t *testing.T) {
	t.Parallel()

	s := newCartService(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			assert.Equal(t, "/cart/items/p1", r.URL.Path)
		case http.MethodDelete:
			assert.Equal(t, "/cart/items/p1", r.URL.Path)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
		_, _ = w.Write([]byte(`{"data":{"id":"c1"},"success":true}`))
	})

	_, err := s.UpdateItem(context.Background(), "p1", 5)
	require.NoError(t, err)

	_, err = s.RemoveItem(context.Background(), "p1")
	require.NoError(t, err)
}

func TestCartService_Coupons(t *testing.T) {
	t.Parallel()

	s := newCartService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cart/coupon", r.URL.Path)
		if r.Method == http.MethodPost {
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "SAVE10", body["couponCode"])
		}
		_, _ = w.Write([]byte(`{"data":{"id":"c1","totalAmount":36},"success":true}`))
	})

	cart, err := s.ApplyCoupon(context.Background(), "SAVE10")
	require.NoError(t, err)
	assert.InDelta(t, 36, cart.TotalAmount, 0.001)

	_, err = s.RemoveCoupon(context.Background())
	require.NoError(t, err)
}

func TestCartService_CountAndTotal_DegradeToZero(t *testing.T) {
	t.Parallel()

	s := newCartService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	assert.Zero(t, s.ItemCount(context.Background()))
	assert.Zero(t, s.Total(context.Background()))
}
