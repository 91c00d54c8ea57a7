package app

import (
	"context"
	"fmt"

	"github.com/vjzest/architect-storefront/internal/api"
	"github.com/vjzest/architect-storefront/internal/session"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdate carries the editable profile fields. Zero values are
// omitted from the request and left unchanged server-side.
type ProfileUpdate struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

// Login authenticates against the backend and establishes the session. A
// failed login returns the normalized error and leaves both the in-memory
// session and durable storage untouched.
func (a *Application) Login(ctx context.Context, email, password string) (session.Session, error) {
	if email == "" || password == "" {
		return session.Session{}, fmt.Errorf("app: email and password are required")
	}

	body, err := a.client.Post(ctx, "/api/users/login", loginRequest{Email: email, Password: password}, false)
	if err != nil {
		return session.Session{}, err
	}
	return a.establish(ctx, body)
}

// Register creates an account; the backend logs the new user in, so the
// session is established from the same response.
func (a *Application) Register(ctx context.Context, name, email, password string) (session.Session, error) {
	if email == "" || password == "" {
		return session.Session{}, fmt.Errorf("app: email and password are required")
	}

	body, err := a.client.Post(ctx, "/api/users/register", registerRequest{Name: name, Email: email, Password: password}, false)
	if err != nil {
		return session.Session{}, err
	}
	return a.establish(ctx, body)
}

func (a *Application) establish(ctx context.Context, body []byte) (session.Session, error) {
	sess, err := api.DecodeOne[session.Session](api.EnvelopeBare, body)
	if err != nil {
		return session.Session{}, fmt.Errorf("app: decode session: %w", err)
	}
	if !sess.Valid() {
		return session.Session{}, fmt.Errorf("app: backend returned no token")
	}

	if err := a.Session.Establish(sess); err != nil {
		return session.Session{}, fmt.Errorf("app: persist session: %w", err)
	}

	// Push any guest cart and wishlist items to the server now that a token
	// exists. Failures are logged; the items stay local and flush on the
	// next successful sync.
	if err := a.Cart.Hydrate(ctx); err != nil {
		a.log.WithError(err).Warn("sync cart after login")
	}
	if err := a.Wishlist.Hydrate(ctx); err != nil {
		a.log.WithError(err).Warn("sync wishlist after login")
	}

	a.log.WithField("email", sess.Email).Info("logged in")
	return sess, nil
}

// Logout clears the session in memory and on disk.
func (a *Application) Logout(_ context.Context) error {
	if err := a.Session.Clear(); err != nil {
		return fmt.Errorf("app: clear session: %w", err)
	}
	a.log.Info("logged out")
	return nil
}

// UpdateProfile changes the logged-in user's profile and refreshes the
// stored session with the returned record. The token is kept.
func (a *Application) UpdateProfile(ctx context.Context, update ProfileUpdate) (session.Session, error) {
	if !a.Session.Authenticated() {
		return session.Session{}, fmt.Errorf("app: not logged in")
	}

	body, err := a.client.Put(ctx, "/api/users/profile", update, true)
	if err != nil {
		return session.Session{}, err
	}

	updated, err := api.DecodeOne[session.Session](api.EnvelopeBare, body)
	if err != nil {
		return session.Session{}, fmt.Errorf("app: decode profile: %w", err)
	}

	sess := a.Session.Current()
	if updated.Name != "" {
		sess.Name = updated.Name
	}
	if updated.Email != "" {
		sess.Email = updated.Email
	}
	if err := a.Session.Establish(sess); err != nil {
		return session.Session{}, fmt.Errorf("app: persist session: %w", err)
	}
	return sess, nil
}
