package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vjzest/architect-storefront/internal/api"
	"github.com/vjzest/architect-storefront/internal/app/system"
	"github.com/vjzest/architect-storefront/internal/cart"
	"github.com/vjzest/architect-storefront/internal/checkout"
	"github.com/vjzest/architect-storefront/internal/config"
	"github.com/vjzest/architect-storefront/internal/payment"
	"github.com/vjzest/architect-storefront/internal/session"
	"github.com/vjzest/architect-storefront/internal/wishlist"
	"github.com/vjzest/architect-storefront/pkg/logger"
)

// Application composes the storefront client: one HTTP client, the session
// manager, every resource container, cart, wishlist and checkout. It manages
// their lifecycle through the system manager.
type Application struct {
	cfg     *config.Config
	client  *api.Client
	manager *system.Manager
	log     *logger.Logger

	Session   *session.Manager
	Resources *Resources
	Cart      *cart.Service
	Wishlist  *wishlist.Service
	Providers *payment.Registry
	Checkout  *checkout.Orchestrator
}

// Options override pieces of the default wiring, mainly for tests.
type Options struct {
	// SessionStore replaces the file-backed session store.
	SessionStore session.Store
	// HTTPClient replaces the default outbound client.
	HTTPClient *http.Client
}

// New builds a fully wired application from configuration.
func New(cfg *config.Config, log *logger.Logger, opts Options) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: config is required")
	}
	if log == nil {
		log = logger.NewDefault("app")
	}

	sessionStore := opts.SessionStore
	if sessionStore == nil {
		fileStore, err := session.NewFileStore(cfg.Session.File)
		if err != nil {
			return nil, fmt.Errorf("app: session store: %w", err)
		}
		sessionStore = fileStore
	}
	sessions := session.NewManager(sessionStore, log)

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.API.Timeout}
	}

	client, err := api.New(api.Config{
		BaseURL:           cfg.API.BaseURL,
		HTTPClient:        httpClient,
		Tokens:            sessions,
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Burst:             cfg.API.Burst,
		Instrument:        cfg.API.Metrics,
		Log:               log,
	})
	if err != nil {
		return nil, fmt.Errorf("app: api client: %w", err)
	}

	resources, err := newResources(client, log)
	if err != nil {
		return nil, err
	}

	cartSvc, err := cart.New(client, sessions, log)
	if err != nil {
		return nil, fmt.Errorf("app: cart: %w", err)
	}
	wishSvc, err := wishlist.New(client, sessions, log)
	if err != nil {
		return nil, fmt.Errorf("app: wishlist: %w", err)
	}

	gateway, err := payment.NewGateway(client)
	if err != nil {
		return nil, fmt.Errorf("app: gateway provider: %w", err)
	}
	wallet, err := payment.NewWalletPay(client)
	if err != nil {
		return nil, fmt.Errorf("app: wallet provider: %w", err)
	}
	card, err := payment.NewIntlCard(client)
	if err != nil {
		return nil, fmt.Errorf("app: card provider: %w", err)
	}
	providers := payment.NewRegistry(gateway, wallet, card)

	checkoutSvc, err := checkout.New(resources.Orders, cartSvc, providers, log)
	if err != nil {
		return nil, fmt.Errorf("app: checkout: %w", err)
	}

	a := &Application{
		cfg:       cfg,
		client:    client,
		manager:   system.NewManager(),
		log:       log,
		Session:   sessions,
		Resources: resources,
		Cart:      cartSvc,
		Wishlist:  wishSvc,
		Providers: providers,
		Checkout:  checkoutSvc,
	}

	// Session restore must run before the cart and wishlist hydrators so
	// they see the token.
	services := []system.Service{
		funcService{name: "session", start: a.restoreSession},
		funcService{name: "cart", start: a.hydrateCart},
		funcService{name: "wishlist", start: a.hydrateWishlist},
	}
	for _, svc := range services {
		if err := a.manager.Register(svc); err != nil {
			return nil, fmt.Errorf("app: register %s: %w", svc.Name(), err)
		}
	}
	return a, nil
}

// Start restores the persisted session and hydrates the cart and wishlist.
func (a *Application) Start(ctx context.Context) error {
	return a.manager.Start(ctx)
}

// Stop shuts the application down.
func (a *Application) Stop(ctx context.Context) error {
	return a.manager.Stop(ctx)
}

// Attach registers an additional lifecycle-managed service. Call before
// Start.
func (a *Application) Attach(svc system.Service) error {
	return a.manager.Register(svc)
}

// Client exposes the underlying API client for callers wiring their own
// resources.
func (a *Application) Client() *api.Client {
	return a.client
}

func (a *Application) restoreSession(context.Context) error {
	if err := a.Session.Load(); err != nil {
		return fmt.Errorf("app: restore session: %w", err)
	}
	if a.Session.Authenticated() {
		a.log.WithField("email", a.Session.Current().Email).Info("session restored")
	}
	return nil
}

// hydrateCart pulls the server cart at start. A failure is logged, not
// fatal: the cart recovers on its next successful operation.
func (a *Application) hydrateCart(ctx context.Context) error {
	if err := a.Cart.Hydrate(ctx); err != nil {
		a.log.WithError(err).Warn("hydrate cart")
	}
	return nil
}

func (a *Application) hydrateWishlist(ctx context.Context) error {
	if err := a.Wishlist.Hydrate(ctx); err != nil {
		a.log.WithError(err).Warn("hydrate wishlist")
	}
	return nil
}

// funcService adapts plain start functions to the lifecycle interface.
type funcService struct {
	name  string
	start func(context.Context) error
	stop  func(context.Context) error
}

func (f funcService) Name() string { return f.name }

func (f funcService) Start(ctx context.Context) error {
	if f.start == nil {
		return nil
	}
	return f.start(ctx)
}

func (f funcService) Stop(ctx context.Context) error {
	if f.stop == nil {
		return nil
	}
	return f.stop(ctx)
}
