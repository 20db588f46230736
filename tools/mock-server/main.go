// Package main implements a mock storefront API server for local
// development. It serves the product feed from a JSON fixture and keeps
// sessions and carts in memory, so the CLI and SDK can be exercised
// without the production backend. The --fail-filter and --fail-search
// flags simulate the endpoints the production API never implemented,
// which is what drives the client's in-memory fallback paths.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	domain "github.com/closetlabs/storefront/pkg/types"
)

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	fixtureFile := flag.String("fixture", "tools/mock-server/testdata/products.json", "path to product fixture")
	failFilter := flag.Bool("fail-filter", false, "answer 404 on the filter endpoint")
	failSearch := flag.Bool("fail-search", false, "answer 404 on the search endpoint")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	products, err := loadFixture(*fixtureFile)
	if err != nil {
		logger.Error("failed to load fixture", "path", *fixtureFile, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixture", "products", len(products))

	srv := newServer(logger, products, *failFilter, *failSearch)

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock storefront server", "addr", addr)
	if err := srv.echo.Start(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func loadFixture(path string) ([]domain.Product, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return products, nil
}

type mockUser struct {
	user     domain.User
	password string
}

type server struct {
	echo       *echo.Echo
	log        *slog.Logger
	products   []domain.Product
	failFilter bool
	failSearch bool

	mu       sync.Mutex
	users    map[string]*mockUser // by email
	sessions map[string]string    // access token -> email
	refresh  map[string]string    // refresh token -> email
	carts    map[string]*domain.Cart
	coupons  map[string]string // email -> applied coupon code
}

func newServer(log *slog.Logger, products []domain.Product, failFilter, failSearch bool) *server {
	s := &server{
		log:        log,
		products:   products,
		failFilter: failFilter,
		failSearch: failSearch,
		users:      map[string]*mockUser{},
		sessions:   map[string]string{},
		refresh:    map[string]string{},
		carts:      map[string]*domain.Cart{},
		coupons:    map[string]string{},
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(s.requestLogger)

	e.GET("/data", s.handleFeed)
	e.GET("/products/filter", s.handleFilter)
	e.GET("/products/search", s.handleSearch)
	e.GET("/products/featured", s.handleFeatured)
	e.GET("/products/categories", s.handleCategories)
	e.GET("/products/price-range", s.handlePriceRange)
	e.GET("/products/:id", s.handleProduct)

	e.POST("/auth/register", s.handleRegister)
	e.POST("/auth/login", s.handleLogin)
	e.POST("/auth/logout", s.handleLogout)
	e.POST("/auth/refresh", s.handleRefresh)
	e.GET("/auth/me", s.handleMe)

	e.GET("/cart", s.handleCartGet)
	e.POST("/cart/items", s.handleCartAdd)
	e.PUT("/cart/items/:id", s.handleCartUpdate)
	e.DELETE("/cart/items/:id", s.handleCartRemove)
	e.DELETE("/cart/clear", s.handleCartClear)
	e.POST("/cart/coupon", s.handleCouponApply)
	e.DELETE("/cart/coupon", s.handleCouponRemove)

	s.echo = e
	return s
}

func (s *server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.log.Debug("request",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"query", c.Request().URL.RawQuery,
			"request_id", c.Request().Header.Get("X-Request-ID"),
		)
		return next(c)
	}
}

type envelope struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Success bool   `json:"success"`
}

func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, envelope{Data: data, Success: true})
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, envelope{Message: message, Success: false})
}

// handleFeed answers the bare-array shape the production feed uses.
func (s *server) handleFeed(c echo.Context) error {
	return c.JSON(http.StatusOK, s.products)
}

func (s *server) handleFilter(c echo.Context) error {
	if s.failFilter {
		return fail(c, http.StatusNotFound, "filter endpoint not implemented")
	}

	var wanted []domain.PricingOption
	for _, v := range c.QueryParams()["pricingOption"] {
		opt, err := domain.ParsePricingOption(v)
		if err != nil {
			return fail(c, http.StatusBadRequest, err.Error())
		}
		wanted = append(wanted, opt)
	}

	var minPrice, maxPrice *float64
	if v := c.QueryParam("minPrice"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid minPrice")
		}
		minPrice = &p
	}
	if v := c.QueryParam("maxPrice"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid maxPrice")
		}
		maxPrice = &p
	}

	matched := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if len(wanted) > 0 && !containsPricing(wanted, p.PricingOption) {
			continue
		}
		if minPrice != nil && (p.Price == nil || *p.Price < *minPrice) {
			continue
		}
		if maxPrice != nil && (p.Price == nil || *p.Price > *maxPrice) {
			continue
		}
		matched = append(matched, p)
	}
	return ok(c, matched)
}

func containsPricing(options []domain.PricingOption, p *domain.PricingOption) bool {
	if p == nil {
		return false
	}
	for _, o := range options {
		if o == *p {
			return true
		}
	}
	return false
}

func (s *server) handleSearch(c echo.Context) error {
	if s.failSearch {
		return fail(c, http.StatusNotFound, "search endpoint not implemented")
	}

	term := strings.ToLower(c.QueryParam("search"))
	matched := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Title), term) ||
			strings.Contains(strings.ToLower(p.Creator), term) {
			matched = append(matched, p)
		}
	}
	return ok(c, matched)
}

func (s *server) handleFeatured(c echo.Context) error {
	limit := 10
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fail(c, http.StatusBadRequest, "invalid limit")
		}
		limit = n
	}
	if limit > len(s.products) {
		limit = len(s.products)
	}
	return ok(c, s.products[:limit])
}

func (s *server) handleCategories(c echo.Context) error {
	return ok(c, []string{"tops", "bottoms", "outerwear", "shoes", "accessories"})
}

func (s *server) handlePriceRange(c echo.Context) error {
	pr := domain.PriceRange{Min: 0, Max: 1000}
	first := true
	for _, p := range s.products {
		if p.Price == nil {
			continue
		}
		if first {
			pr.Min, pr.Max = *p.Price, *p.Price
			first = false
			continue
		}
		if *p.Price < pr.Min {
			pr.Min = *p.Price
		}
		if *p.Price > pr.Max {
			pr.Max = *p.Price
		}
	}
	return ok(c, pr)
}

func (s *server) handleProduct(c echo.Context) error {
	id := c.Param("id")
	for _, p := range s.products {
		if p.ID == id {
			return ok(c, p)
		}
	}
	return fail(c, http.StatusNotFound, "product not found")
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (s *server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil || req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "email and password required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[req.Email]; exists {
		return fail(c, http.StatusBadRequest, "account already exists")
	}

	now := time.Now().UTC()
	u := &mockUser{
		user: domain.User{
			ID:        uuid.NewString(),
			Email:     req.Email,
			Name:      req.Name,
			Role:      "customer",
			CreatedAt: now,
			UpdatedAt: now,
		},
		password: req.Password,
	}
	s.users[req.Email] = u
	return ok(c, s.issueSessionLocked(u))
}

func (s *server) handleLogin(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "malformed request")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, exists := s.users[req.Email]
	if !exists || u.password != req.Password {
		return fail(c, http.StatusUnauthorized, "invalid credentials")
	}
	return ok(c, s.issueSessionLocked(u))
}

// issueSessionLocked mints a token pair. Caller must hold s.mu.
func (s *server) issueSessionLocked(u *mockUser) domain.AuthSession {
	tokens := domain.AuthTokens{
		AccessToken:  uuid.NewString(),
		RefreshToken: uuid.NewString(),
		ExpiresIn:    3600,
	}
	s.sessions[tokens.AccessToken] = u.user.Email
	s.refresh[tokens.RefreshToken] = u.user.Email
	return domain.AuthSession{User: u.user, Tokens: tokens}
}

func (s *server) handleLogout(c echo.Context) error {
	if token := bearerToken(c); token != "" {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
	}
	return ok(c, nil)
}

func (s *server) handleRefresh(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "malformed request")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	email, exists := s.refresh[req.RefreshToken]
	if !exists {
		return fail(c, http.StatusUnauthorized, "unknown refresh token")
	}
	delete(s.refresh, req.RefreshToken)

	tokens := domain.AuthTokens{
		AccessToken:  uuid.NewString(),
		RefreshToken: uuid.NewString(),
		ExpiresIn:    3600,
	}
	s.sessions[tokens.AccessToken] = email
	s.refresh[tokens.RefreshToken] = email
	return ok(c, tokens)
}

func (s *server) handleMe(c echo.Context) error {
	u, err := s.authenticate(c)
	if err != nil {
		return err
	}
	return ok(c, u.user)
}

func bearerToken(c echo.Context) string {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	return strings.TrimPrefix(auth, "Bearer ")
}

// authenticate resolves the bearer token to a user or writes a 401.
func (s *server) authenticate(c echo.Context) (*mockUser, error) {
	token := bearerToken(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	email, exists := s.sessions[token]
	if token == "" || !exists {
		return nil, fail(c, http.StatusUnauthorized, "authentication required")
	}
	return s.users[email], nil
}

// cartLocked returns the user's cart, creating it on first use.
// Caller must hold s.mu.
func (s *server) cartLocked(u *mockUser) *domain.Cart {
	cart, exists := s.carts[u.user.Email]
	if !exists {
		cart = &domain.Cart{
			ID:     uuid.NewString(),
			UserID: u.user.ID,
		}
		s.carts[u.user.Email] = cart
	}
	return cart
}

// retotalLocked recomputes the cart total from fixture prices, applying
// a flat 10% discount when a coupon is attached.
func (s *server) retotalLocked(email string, cart *domain.Cart) {
	var total float64
	for _, item := range cart.Items {
		for _, p := range s.products {
			if p.ID == item.ProductID && p.Price != nil {
				total += *p.Price * float64(item.Quantity)
			}
		}
	}
	if _, hasCoupon := s.coupons[email]; hasCoupon {
		total *= 0.9
	}
	cart.TotalAmount = total
	cart.UpdatedAt = time.Now().UTC()
}

func (s *server) handleCartGet(c echo.Context) error {
	u, err := s.authenticate(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return ok(c, s.cartLocked(u))
}

type cartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (s *server) handleCartAdd(c echo.Context) error {
	u, err := s.authenticate(c)
	if err != nil {
		return err
	}

	var req cartItemRequest
	if err := c.Bind(&req); err != nil || req.ProductID == "" || req.Quantity <= 0 {
		return fail(c, http.StatusBadRequest, "productId and positive quantity required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cartLocked(u)
	for i := range cart.Items {
		if cart.Items[i].ProductID == req.ProductID {
			cart.Items[i].Quantity += req.Quantity
			s.retotalLocked(u.user.Email, cart)
			return ok(c, cart)
		}
	}
	cart.Items = append(cart.Items, domain.CartItem{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	s.retotalLocked(u.user.Email, cart)
	return ok(c, cart)
}

func (s *server) handleCartUpdate(c echo.Context) error {
	u, err := s.authenticate(c)
	if err != nil {
		return err
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil || req.Quantity <= 0 {
		return fail(c, http.StatusBadRequest, "positive quantity required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cartLocked(u)
	for i := range cart.Items {
		if cart.Items[i].ProductID == c.Param("id") {
			cart.Items[i].Quantity = req.Quantity
			s.retotalLocked(u.user.Email, cart)
			return ok(c, cart)
		}
	}
	return fail(c, http.StatusNotFound, "item not in cart")
}

func (s *server) handleCartRemove(c echo.Context) error {
	u, err := s.authenticate(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cartLocked(u)
	for i := range cart.Items {
		if cart.Items[i].ProductID == c.Param("id") {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			s.retotalLocked(u.user.Email, cart)
			return ok(c, cart)
		}
	}
	return fail(c, http.StatusNotFound, "item not in cart")
}

func (s *server) handleCartClear(c echo.Context) error {
	u, err := s.authenticate(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cartLocked(u)
	cart.Items = nil
	delete(s.coupons, u.user.Email)
	s.retotalLocked(u.user.Email, cart)
	return ok(c, cart)
}

func (s *server) handleCouponApply(c echo.Context) error {
	u, err := s.authenticate(c)
	if err != nil {
		return err
	}

	var req struct {
		CouponCode string `json:"couponCode"`
	}
	if err := c.Bind(&req); err != nil || req.CouponCode == "" {
		return fail(c, http.StatusBadRequest, "couponCode required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.coupons[u.user.Email] = req.CouponCode
	cart := s.cartLocked(u)
	s.retotalLocked(u.user.Email, cart)
	return ok(c, cart)
}

func (s *server) handleCouponRemove(c echo.Context) error {
	u, err := s.authenticate(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.coupons, u.user.Email)
	cart := s.cartLocked(u)
	s.retotalLocked(u.user.Email, cart)
	return ok(c, cart)
}
