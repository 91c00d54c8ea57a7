// Package content defines the storefront's editorial and media records.
package content

import "time"

// BlogPost is an article on the storefront blog.
type BlogPost struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Body      string    `json:"content"`
	Author    string    `json:"author,omitempty"`
	Image     string    `json:"image,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// GalleryItem is a project photo shown in the inspiration gallery.
type GalleryItem struct {
	ID       string `json:"_id"`
	Title    string `json:"title"`
	Image    string `json:"image"`
	Category string `json:"category,omitempty"`
}

// MediaItem is an uploaded asset (render, brochure, site photo).
type MediaItem struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	MimeType string `json:"mimeType,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

// Video is an embedded walkthrough or testimonial video.
type Video struct {
	ID        string `json:"_id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// Testimonial is a published customer quote.
type Testimonial struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Quote  string `json:"quote"`
	City   string `json:"city,omitempty"`
	Rating int    `json:"rating,omitempty"`
}

// Inquiry is a customer enquiry about a product, plan or service.
type Inquiry struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `json:"message"`
	ProductID string    `json:"product,omitempty"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// FAQ is a published question/answer pair.
type FAQ struct {
	ID       string `json:"_id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Order    int    `json:"order,omitempty"`
}
