// Package domain defines the core types shared by the storefront client.
package domain

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// PricingOption is the monetization mode of a catalog item. The wire
// representation is numeric, matching the storefront API.
type PricingOption int

// Pricing option constants.
const (
	PricingPaid PricingOption = iota
	PricingFree
	PricingViewOnly
)

// String returns the canonical lowercase name of the pricing option.
func (p PricingOption) String() string {
	switch p {
	case PricingPaid:
		return "paid"
	case PricingFree:
		return "free"
	case PricingViewOnly:
		return "view_only"
	default:
		return fmt.Sprintf("pricing_option(%d)", int(p))
	}
}

// Valid reports whether p is one of the known pricing options.
func (p PricingOption) Valid() bool {
	return p >= PricingPaid && p <= PricingViewOnly
}

// ParsePricingOption accepts either the canonical name ("paid", "free",
// "view_only") or the numeric wire value ("0", "1", "2").
func ParsePricingOption(s string) (PricingOption, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "paid":
		return PricingPaid, nil
	case "free":
		return PricingFree, nil
	case "view_only", "viewonly", "view-only":
		return PricingViewOnly, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !PricingOption(n).Valid() {
		return 0, fmt.Errorf("unknown pricing option %q", s)
	}
	return PricingOption(n), nil
}

// Product is a raw catalog record as returned by the storefront feed.
// Optional numeric fields are pointers so that an absent value can be
// distinguished from a legitimate zero (PAID is wire value 0).
type Product struct {
	ID            string         `json:"id,omitempty"`
	Creator       string         `json:"creator,omitempty"`
	Title         string         `json:"title,omitempty"`
	PricingOption *PricingOption `json:"pricingOption,omitempty"`
	ImagePath     string         `json:"imagePath,omitempty"`
	Price         *float64       `json:"price,omitempty"`
}

// DisplayProduct is the UI-ready product record. Display metrics
// (views, likes) are synthesized deterministically from the source id
// when the feed does not carry them.
type DisplayProduct struct {
	ID            string        `json:"id"`
	Image         string        `json:"image"`
	Username      string        `json:"username"`
	Title         string        `json:"title"`
	Price         float64       `json:"price"`
	Views         int           `json:"views"`
	Likes         int           `json:"likes"`
	PricingOption PricingOption `json:"pricingOption"`
}

// ProductFilters is the structured filter set sent to the server-side
// filter endpoint. Zero/nil fields are omitted from the query.
type ProductFilters struct {
	Category       string          `json:"category,omitempty"`
	MinPrice       *float64        `json:"minPrice,omitempty"`
	MaxPrice       *float64        `json:"maxPrice,omitempty"`
	InStock        *bool           `json:"inStock,omitempty"`
	PricingOptions []PricingOption `json:"pricingOption,omitempty"`
}

// QueryValues encodes the filters as URL query parameters.
func (f *ProductFilters) QueryValues() url.Values {
	params := url.Values{}
	if f.Category != "" {
		params.Set("category", f.Category)
	}
	if f.MinPrice != nil {
		params.Set("minPrice", strconv.FormatFloat(*f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice != nil {
		params.Set("maxPrice", strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64))
	}
	if f.InStock != nil {
		params.Set("inStock", strconv.FormatBool(*f.InStock))
	}
	for _, p := range f.PricingOptions {
		params.Add("pricingOption", strconv.Itoa(int(p)))
	}
	return params
}

// FiltersFromSelection converts a filter-id → selected-option-values
// mapping (the shape the filter panel maintains) into ProductFilters.
// Filter ids outside the known vocabulary are ignored.
func FiltersFromSelection(selection map[string][]string) ProductFilters {
	var f ProductFilters
	for id, values := range selection {
		switch id {
		case "pricing_option", "pricingOption":
			for _, v := range values {
				if p, err := ParsePricingOption(v); err == nil {
					f.PricingOptions = append(f.PricingOptions, p)
				}
			}
		case "category":
			if len(values) > 0 {
				f.Category = values[0]
			}
		case "min_price", "minPrice":
			if len(values) > 0 {
				if v, err := strconv.ParseFloat(values[0], 64); err == nil {
					f.MinPrice = &v
				}
			}
		case "max_price", "maxPrice":
			if len(values) > 0 {
				if v, err := strconv.ParseFloat(values[0], 64); err == nil {
					f.MaxPrice = &v
				}
			}
		}
	}
	return f
}

// PriceRange bounds the continuous price filter.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// User is the authenticated storefront user.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AuthTokens is the token pair issued by the auth endpoints.
type AuthTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

// LoginCredentials is the login request payload.
type LoginCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterData is the registration request payload.
type RegisterData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// AuthSession is the user plus tokens returned by login/register.
type AuthSession struct {
	User   User       `json:"user"`
	Tokens AuthTokens `json:"tokens"`
}

// CartItem is a single cart line.
type CartItem struct {
	ProductID string   `json:"productId"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product,omitempty"`
}

// Cart is the user's shopping cart.
type Cart struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Items       []CartItem `json:"items"`
	TotalAmount float64    `json:"totalAmount"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ItemCount returns the total quantity across all cart lines.
func (c *Cart) ItemCount() int {
	var n int
	for i := range c.Items {
		n += c.Items[i].Quantity
	}
	return n
}

// MarshalUser round-trips the user record through JSON for storage in
// the token store's user_data slot.
func MarshalUser(u *User) (string, error) {
	data, err := json.Marshal(u)
	if err != nil {
		return "", fmt.Errorf("encoding user data: %w", err)
	}
	return string(data), nil
}

// UnmarshalUser decodes a user record previously stored with MarshalUser.
func UnmarshalUser(data string) (*User, error) {
	var u User
	if err := json.Unmarshal([]byte(data), &u); err != nil {
		return nil, fmt.Errorf("decoding user data: %w", err)
	}
	return &u, nil
}
