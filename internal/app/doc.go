// Package app composes the storefront client.
//
// The app package sits above the transport and state layers and wires them
// into one Application: the shared API client, the session manager, one
// resource container per backend resource, the cart and wishlist services,
// the payment provider registry and the checkout orchestrator.
//
//	internal/app/
//	├── application.go   # Application struct, wiring, lifecycle
//	├── auth.go          # Login, register, logout, profile updates
//	├── resources.go     # Per-resource container configuration
//	├── domain/          # Wire-shape record types, grouped by area
//	│   ├── account/     # Users, professionals, sellers
//	│   ├── catalog/     # Products, plans, packages, categories, reviews
//	│   ├── commerce/    # Orders
//	│   └── content/     # Blog, gallery, media, inquiries, FAQs
//	└── system/          # Lifecycle manager
//
// Business behavior lives in the leaf packages (internal/store,
// internal/cart, internal/checkout, ...); app holds configuration and glue
// only.
package app
