package client

import (
	"context"
	"net/http"

	"github.com/Asim1O1/Shelf-Society-sub000/auth"
)

// Client bundles the storefront stores behind one injectable instance.
// One Client per session; Reset tears down every store on logout so a new
// session never sees the previous session's snapshots.
type Client struct {
	Session  *Session
	Cart     *CartStore
	Orders   *OrderStore
	Wishlist *WishlistStore
	Catalog  *CatalogStore

	gw     *gateway
	notify Notifier
}

// Option customizes a Client.
type Option func(*Client)

// WithNotifier routes success/failure toasts to n.
func WithNotifier(n Notifier) Option {
	return func(c *Client) {
		if n != nil {
			c.notify = n
		}
	}
}

// New builds a Client against the given gateway config.
func New(cfg Config, opts ...Option) *Client {
	session := &Session{}
	c := &Client{
		Session: session,
		gw:      newGateway(cfg, session),
		notify:  noopNotifier{},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Cart = &CartStore{gw: c.gw, session: session, notify: c.notify}
	c.Orders = &OrderStore{gw: c.gw, session: session, notify: c.notify}
	c.Wishlist = &WishlistStore{gw: c.gw, session: session, notify: c.notify}
	c.Catalog = &CatalogStore{gw: c.gw}
	return c
}

// Login authenticates against the gateway and installs the session.
func (c *Client) Login(ctx context.Context, email, password string) Result {
	var payload auth.AuthPayload
	err := c.gw.do(ctx, http.MethodPost, "/auth/login", nil,
		auth.LoginRequest{Email: email, Password: password}, &payload)
	if err != nil {
		return failed(errMessage(err))
	}
	c.Session.SetCredentials(payload.Token, payload.User)
	return succeeded("Signed in")
}

// Register creates an account and signs the user in.
func (c *Client) Register(ctx context.Context, email, password, name string) Result {
	var payload auth.AuthPayload
	err := c.gw.do(ctx, http.MethodPost, "/auth/register", nil,
		auth.RegisterRequest{Email: email, Password: password, Name: name}, &payload)
	if err != nil {
		return failed(errMessage(err))
	}
	c.Session.SetCredentials(payload.Token, payload.User)
	return succeeded("Account created")
}

// Logout clears the session and resets every store.
func (c *Client) Logout() {
	c.Session.Clear()
	c.Reset()
}

// Reset restores all stores to their initial state. Idempotent.
func (c *Client) Reset() {
	c.Cart.Reset()
	c.Orders.Reset()
	c.Wishlist.Reset()
	c.Catalog.Reset()
}
