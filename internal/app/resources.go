package app

import (
	"fmt"

	"github.com/vjzest/architect-storefront/internal/api"
	"github.com/vjzest/architect-storefront/internal/app/domain/account"
	"github.com/vjzest/architect-storefront/internal/app/domain/catalog"
	"github.com/vjzest/architect-storefront/internal/app/domain/commerce"
	"github.com/vjzest/architect-storefront/internal/app/domain/content"
	"github.com/vjzest/architect-storefront/internal/store"
	"github.com/vjzest/architect-storefront/pkg/logger"
)

// Resources groups one container per backend resource. The wiring below is
// configuration only: path, envelope shape, slug support and which operation
// categories need a token. The envelope shapes are deliberately uneven, they
// mirror what each backend endpoint actually returns.
type Resources struct {
	Products       *store.Resource[catalog.Product]
	Plans          *store.Resource[catalog.Plan]
	Packages       *store.Resource[catalog.ConstructionPackage]
	Categories     *store.Resource[catalog.Category]
	Reviews        *store.Resource[catalog.Review]
	Orders         *store.Resource[commerce.Order]
	Users          *store.Resource[account.User]
	Professionals  *store.Resource[account.Professional]
	Sellers        *store.Resource[account.Seller]
	SellerProducts *store.Resource[catalog.Product]
	Inquiries      *store.Resource[content.Inquiry]
	Gallery        *store.Resource[content.GalleryItem]
	Media          *store.Resource[content.MediaItem]
	Videos         *store.Resource[content.Video]
	Blog           *store.Resource[content.BlogPost]
	Testimonials   *store.Resource[content.Testimonial]
	FAQs           *store.Resource[content.FAQ]
}

func newResources(client *api.Client, log *logger.Logger) (*Resources, error) {
	r := &Resources{}
	var err error

	r.Products, err = store.New(client, store.Config[catalog.Product]{
		Name:         "products",
		Path:         "/api/products",
		ID:           func(p catalog.Product) string { return p.ID },
		ListEnvelope: api.EnvelopePaginated,
		ListKey:      "products",
		ItemEnvelope: api.EnvelopeBare,
		HasSlug:      true,
		WriteAuth:    true,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("app: products: %w", err)
	}

	r.Plans, err = store.New(client, store.Config[catalog.Plan]{
		Name:         "plans",
		Path:         "/api/plans",
		ID:           func(p catalog.Plan) string { return p.ID },
		ListEnvelope: api.EnvelopeBare,
		ItemEnvelope: api.EnvelopeBare,
		HasSlug:      true,
		WriteAuth:    true,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("app: plans: %w", err)
	}

	r.Packages, err = store.New(client, store.Config[catalog.ConstructionPackage]{
		Name:         "packages",
		Path:         "/api/packages",
		ID:           func(p catalog.ConstructionPackage) string { return p.ID },
		ListEnvelope: api.EnvelopeItems,
		ItemEnvelope: api.EnvelopeBare,
		WriteAuth:    true,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("app: packages: %w", err)
	}

	r.Categories, err = store.New(client, store.Config[catalog.Category]{
		Name:         "categories",
		Path:         "/api/categories",
		ID:           func(c catalog.Category) string { return c.ID },
		ListEnvelope: api.EnvelopeBare,
		ItemEnvelope: api.EnvelopeBare,
		WriteAuth:    true,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("app: categories: %w", err)
	}

	r.Reviews, err = store.New(client, store.Config[catalog.Review]{
		Name:         "reviews",
		Path:         "/api/reviews",
		ID:           func(rv catalog.Review) string { return rv.ID },
		ListEnvelope: api.EnvelopeData,
		ItemEnvelope: api.EnvelopeBare,
		WriteAuth:    true,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("app: reviews: %w", err)
	}

	r.Orders, err = store.New(client, store.Config[commerce.Order]{
		Name:         "orders",
		Path:         "/api/orders",
		ID:           func(o commerce.Order) string { return o.ID },
		ListEnvelope: api.EnvelopeData,
		ItemEnvelope: api.EnvelopeBare,
		ListAuth:     true,
		ReadAuth:     true,
		WriteAuth:    true,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("app: orders: %w", err)
	}

	r.Users, err = store.New(client, store.Config[account.User]{
		Name:         "users",
		Path:         "/api/users",
		ID:           func(u account.User) string { return u.ID },
		ListEnvelope: api.EnvelopeData,
		ItemEnvelope: api.EnvelopeBare,
		ListAuth:     true,
		ReadAuth:     true,
		WriteAuth:    true,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("app: users: %w", err)
	}

	r.Professionals, err = store.New(client, store.Config[account.Professional]{
		Name:         "professionals",
		Path:         "/api/professionals",
		ID:           func(p account.Professional) string { return p.ID },
		ListEnvelope: api.EnvelopeItems,
		ItemEnvelope: api.EnvelopeBare,
		WriteAuth:    true,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("app: professionals: %w", err)
	}

	r.Sellers, err = store.New(client, store.Config[account.Seller]{
		Name:         "sellers",
		Path:         "/api/sellers",
		ID:           func(s account.Seller) string { return s.ID },
		ListEnvelope: api.EnvelopeData,
		ItemEnvelope: api.EnvelopeBare,
		ListAuth:     true,
		ReadAuth:     true,
		WriteAuth:    true,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("app: sellers: %w", err)
	}

	r.SellerProducts, err = store.New(client, store.Config[catalog.Product]{
		Name:         "seller-products",
		Path:         "/api/seller/products",
		ID:           func(p catalog.Product) string { return p.ID },
		ListEnvelope: api.EnvelopeBare,
		ItemEnvelope: api.EnvelopeBare,
		ListAuth:     true,
		ReadAuth:     true,
		WriteAuth:    true,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("app: seller products: %w", err)
	}

	r.Inquiries, err = store.New(client, store.Config[content.Inquiry]{
		Name:         "inquiries",
		Path:         "/api/inquiries",
		ID:           func(i content.Inquiry) string { return i.ID },
		ListEnvelope: api.EnvelopeData,
		ItemEnvelope: api.EnvelopeBare,
		// Submitting an inquiry is the public contact form; listing them is
		// back office.
		ListAuth: true,
		ReadAuth: true,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("app: inquiries: %w", err)
	}

	r.Gallery, err = store.New(client, store.Config[content.GalleryItem]{
		Name:         "gallery",
		Path:         "/api/gallery",
		ID:           func(g content.GalleryItem) string { return g.ID },
		ListEnvelope: api.EnvelopeItems,
		ItemEnvelope: api.EnvelopeBare,
		WriteAuth:    true,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("app: gallery: %w", err)
	}

	r.Media, err = store.New(client, store.Config[content.MediaItem]{
		Name:         "media",
		Path:         "/api/media",
		ID:           func(m content.MediaItem) string { return m.ID },
		ListEnvelope: api.EnvelopeBare,
		ItemEnvelope: api.EnvelopeBare,
		ListAuth:     true,
		ReadAuth:     true,
		WriteAuth:    true,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("app: media: %w", err)
	}

	r.Videos, err = store.New(client, store.Config[content.Video]{
		Name:         "videos",
		Path:         "/api/videos",
		ID:           func(v content.Video) string { return v.ID },
		ListEnvelope: api.EnvelopeBare,
		ItemEnvelope: api.EnvelopeBare,
		WriteAuth:    true,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("app: videos: %w", err)
	}

	r.Blog, err = store.New(client, store.Config[content.BlogPost]{
		Name:         "blog",
		Path:         "/api/blog",
		ID:           func(p content.BlogPost) string { return p.ID },
		ListEnvelope: api.EnvelopePaginated,
		ListKey:      "posts",
		ItemEnvelope: api.EnvelopeBare,
		HasSlug:      true,
		WriteAuth:    true,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("app: blog: %w", err)
	}

	r.Testimonials, err = store.New(client, store.Config[content.Testimonial]{
		Name:         "testimonials",
		Path:         "/api/testimonials",
		ID:           func(t content.Testimonial) string { return t.ID },
		ListEnvelope: api.EnvelopeBare,
		ItemEnvelope: api.EnvelopeBare,
		WriteAuth:    true,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("app: testimonials: %w", err)
	}

	r.FAQs, err = store.New(client, store.Config[content.FAQ]{
		Name:         "faqs",
		Path:         "/api/faqs",
		ID:           func(f content.FAQ) string { return f.ID },
		ListEnvelope: api.EnvelopeBare,
		ItemEnvelope: api.EnvelopeBare,
		WriteAuth:    true,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("app: faqs: %w", err)
	}

	return r, nil
}
