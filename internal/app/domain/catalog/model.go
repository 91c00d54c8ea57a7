// Package catalog defines the storefront's sellable records. Fields mirror
// the backend's wire shapes; the client passes them through without
// normalization, the server owns validation.
package catalog

import "time"

// Product is a ready-made house design listed in the storefront.
type Product struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	SalePrice   float64   `json:"salePrice,omitempty"`
	Image       string    `json:"image"`
	Images      []string  `json:"images,omitempty"`
	PlotArea    string    `json:"plotArea,omitempty"`
	BuiltUpArea string    `json:"builtUpArea,omitempty"`
	Bedrooms    int       `json:"bedrooms,omitempty"`
	Bathrooms   int       `json:"bathrooms,omitempty"`
	Floors      int       `json:"floors,omitempty"`
	Facing      string    `json:"facing,omitempty"`
	Rating      float64   `json:"rating,omitempty"`
	NumReviews  int       `json:"numReviews,omitempty"`
	SellerID    string    `json:"seller,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// Plan is a drafted floor plan sold as a downloadable document set.
type Plan struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Price     float64   `json:"price"`
	PlotSize  string    `json:"plotSize,omitempty"`
	Direction string    `json:"direction,omitempty"`
	Floors    int       `json:"floors,omitempty"`
	Image     string    `json:"image,omitempty"`
	Documents []string  `json:"documents,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// ConstructionPackage is a turnkey construction offering with per-sqft
// pricing tiers.
type ConstructionPackage struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	PricePerSqt float64  `json:"pricePerSqft"`
	City        string   `json:"city,omitempty"`
	Features    []string `json:"features,omitempty"`
	Popular     bool     `json:"popular,omitempty"`
}

// Category groups products for browsing.
type Category struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Image string `json:"image,omitempty"`
}

// Review is a customer review attached to a product.
type Review struct {
	ID        string    `json:"_id"`
	ProductID string    `json:"product"`
	UserID    string    `json:"user"`
	UserName  string    `json:"name"`
	Rating    float64   `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}
