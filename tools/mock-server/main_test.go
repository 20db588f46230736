package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/closetlabs/storefront/pkg/types"
)

func testProducts() []domain.Product {
	paid := domain.PricingPaid
	free := domain.PricingFree
	price := func(v float64) *float64 { return &v }
	return []domain.Product{
		{ID: "p1", Creator: "ada", Title: "Wool coat", PricingOption: &paid, Price: price(80)},
		{ID: "p2", Creator: "grace", Title: "Free pattern", PricingOption: &free},
		{ID: "p3", Creator: "joan", Title: "Silk scarf", PricingOption: &paid, Price: price(25)},
	}
}

func startServer(t *testing.T, failFilter, failSearch bool) *httptest.Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := newServer(log, testProducts(), failFilter, failSearch)
	srv := httptest.NewServer(s.echo)
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, dst any) int {
	t.Helper()
	resp, err := http.Get(url) //nolint:gosec // test URL
	require.NoError(t, err)
	defer resp.Body.Close()
	if dst != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
	}
	return resp.StatusCode
}

func postJSON(t *testing.T, url, token string, body, dst any) int {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if dst != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
	}
	return resp.StatusCode
}

func TestFeed_BareArray(t *testing.T) {
	srv := startServer(t, false, false)

	var products []domain.Product
	status := getJSON(t, srv.URL+"/data", &products)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, products, 3)
	assert.Equal(t, "p1", products[0].ID)
}

func TestFilter_ByPricingAndPrice(t *testing.T) {
	srv := startServer(t, false, false)

	var resp struct {
		Data    []domain.Product `json:"data"`
		Success bool             `json:"success"`
	}
	status := getJSON(t, srv.URL+"/products/filter?pricingOption=0&maxPrice=50", &resp)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, resp.Success)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "p3", resp.Data[0].ID)
}

func TestFilter_FailureMode(t *testing.T) {
	srv := startServer(t, true, false)

	var resp envelope
	status := getJSON(t, srv.URL+"/products/filter", &resp)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, resp.Success)
}

func TestSearch(t *testing.T) {
	srv := startServer(t, false, false)

	var resp struct {
		Data []domain.Product `json:"data"`
	}
	status := getJSON(t, srv.URL+"/products/search?search=coat", &resp)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Wool coat", resp.Data[0].Title)

	// Creator names match too.
	status = getJSON(t, srv.URL+"/products/search?search=grace", &resp)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "p2", resp.Data[0].ID)
}

func TestSearch_FailureMode(t *testing.T) {
	srv := startServer(t, false, true)

	status := getJSON(t, srv.URL+"/products/search?search=coat", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestProductAndPriceRange(t *testing.T) {
	srv := startServer(t, false, false)

	var one struct {
		Data domain.Product `json:"data"`
	}
	status := getJSON(t, srv.URL+"/products/p3", &one)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Silk scarf", one.Data.Title)

	status = getJSON(t, srv.URL+"/products/nope", nil)
	assert.Equal(t, http.StatusNotFound, status)

	var pr struct {
		Data domain.PriceRange `json:"data"`
	}
	status = getJSON(t, srv.URL+"/products/price-range", &pr)
	assert.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 25, pr.Data.Min, 0.001)
	assert.InDelta(t, 80, pr.Data.Max, 0.001)
}

func registerUser(t *testing.T, baseURL string) domain.AuthSession {
	t.Helper()
	var resp struct {
		Data domain.AuthSession `json:"data"`
	}
	status := postJSON(t, baseURL+"/auth/register", "", registerRequest{
		Email: "ada@example.com", Password: "hunter2", Name: "Ada",
	}, &resp)
	require.Equal(t, http.StatusOK, status)
	return resp.Data
}

func TestAuthFlow(t *testing.T) {
	srv := startServer(t, false, false)

	session := registerUser(t, srv.URL)
	assert.NotEmpty(t, session.Tokens.AccessToken)
	assert.Equal(t, "Ada", session.User.Name)

	// Duplicate registration is rejected.
	status := postJSON(t, srv.URL+"/auth/register", "", registerRequest{
		Email: "ada@example.com", Password: "x", Name: "Ada",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// Wrong password is rejected, right one answers a fresh session.
	status = postJSON(t, srv.URL+"/auth/login", "", registerRequest{
		Email: "ada@example.com", Password: "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	var login struct {
		Data domain.AuthSession `json:"data"`
	}
	status = postJSON(t, srv.URL+"/auth/login", "", registerRequest{
		Email: "ada@example.com", Password: "hunter2",
	}, &login)
	require.Equal(t, http.StatusOK, status)
	assert.NotEqual(t, session.Tokens.AccessToken, login.Data.Tokens.AccessToken)

	// The bearer token resolves to the user.
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/auth/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+login.Data.Tokens.AccessToken)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRefresh_RotatesTokens(t *testing.T) {
	srv := startServer(t, false, false)
	session := registerUser(t, srv.URL)

	var resp struct {
		Data domain.AuthTokens `json:"data"`
	}
	status := postJSON(t, srv.URL+"/auth/refresh", "", map[string]string{
		"refreshToken": session.Tokens.RefreshToken,
	}, &resp)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, resp.Data.AccessToken)

	// A refresh token is single use.
	status = postJSON(t, srv.URL+"/auth/refresh", "", map[string]string{
		"refreshToken": session.Tokens.RefreshToken,
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCartFlow(t *testing.T) {
	srv := startServer(t, false, false)
	session := registerUser(t, srv.URL)
	token := session.Tokens.AccessToken

	// Unauthenticated requests are rejected.
	status := getJSON(t, srv.URL+"/cart", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	var resp struct {
		Data domain.Cart `json:"data"`
	}
	status = postJSON(t, srv.URL+"/cart/items", token, cartItemRequest{
		ProductID: "p1", Quantity: 2,
	}, &resp)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, resp.Data.ItemCount())
	assert.InDelta(t, 160, resp.Data.TotalAmount, 0.001)

	// Adding the same product merges lines.
	status = postJSON(t, srv.URL+"/cart/items", token, cartItemRequest{
		ProductID: "p1", Quantity: 1,
	}, &resp)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, resp.Data.Items, 1)
	assert.Equal(t, 3, resp.Data.Items[0].Quantity)

	// Coupons take 10% off.
	status = postJSON(t, srv.URL+"/cart/coupon", token, map[string]string{
		"couponCode": "SAVE10",
	}, &resp)
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 216, resp.Data.TotalAmount, 0.001)

	// Clearing empties items and drops the coupon.
	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/cart/clear", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	raw, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer raw.Body.Close()
	require.Equal(t, http.StatusOK, raw.StatusCode)

	status = func() int {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/cart", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
		resp2, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp2.Body.Close()
		var env struct {
			Data domain.Cart `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp2.Body).Decode(&env))
		assert.Empty(t, env.Data.Items)
		assert.Zero(t, env.Data.TotalAmount)
		return resp2.StatusCode
	}()
	assert.Equal(t, http.StatusOK, status)
}

func TestLoadFixture(t *testing.T) {
	products, err := loadFixture("testdata/products.json")
	require.NoError(t, err)
	require.NotEmpty(t, products)

	// The fixture deliberately carries a record with pricingOption 0,
	// which must decode as PAID rather than be dropped as a zero value.
	var foundPaid bool
	for _, p := range products {
		if p.PricingOption != nil && *p.PricingOption == domain.PricingPaid {
			foundPaid = true
		}
	}
	assert.True(t, foundPaid)

	_, err = loadFixture("testdata/missing.json")
	require.Error(t, err)
	assert.Contains(t, fmt.Sprint(err), "reading fixture")
}
