// Package account defines the people records of the storefront: customers,
// listed professionals and marketplace sellers.
package account

import "time"

// User is a storefront customer or back-office user.
type User struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Professional is a listed architect, engineer or interior designer offering
// services through the platform.
type Professional struct {
	ID         string   `json:"_id"`
	Name       string   `json:"name"`
	Profession string   `json:"profession"`
	City       string   `json:"city,omitempty"`
	Experience int      `json:"experience,omitempty"`
	Portfolio  []string `json:"portfolio,omitempty"`
	Verified   bool     `json:"verified,omitempty"`
}

// Seller is a marketplace vendor who lists products for sale.
type Seller struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Shop      string    `json:"shopName,omitempty"`
	GSTIN     string    `json:"gstin,omitempty"`
	Approved  bool      `json:"approved,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}
