// Package app assembles the storefront client: durable stores, the session,
// the API client and the checkout, and runs the flows that span them.
package app

import (
	"context"
	"strings"

	"github.com/felixgeelhaar/maison/internal/api"
	"github.com/felixgeelhaar/maison/internal/cart"
	"github.com/felixgeelhaar/maison/internal/catalog"
	"github.com/felixgeelhaar/maison/internal/checkout"
	"github.com/felixgeelhaar/maison/internal/config"
	"github.com/felixgeelhaar/maison/internal/domain"
	"github.com/felixgeelhaar/maison/internal/errors"
	"github.com/felixgeelhaar/maison/internal/log"
	"github.com/felixgeelhaar/maison/internal/persist"
	"github.com/felixgeelhaar/maison/internal/search"
	"github.com/felixgeelhaar/maison/internal/session"
	"github.com/felixgeelhaar/maison/internal/ui"
	"github.com/felixgeelhaar/maison/internal/wishlist"
)

// App is one client process.
type App struct {
	Config   *config.Config
	Logger   *log.Logger
	Backend  persist.Backend
	Session  *session.Session
	Cart     *cart.Cart
	Wishlist *wishlist.Wishlist
	UI       *ui.State
	API      *api.Client
	Checkout *checkout.Checkout
}

// New opens the stores in the configured data directory.
func New(cfg *config.Config, logger *log.Logger, opts ...api.Option) (*App, error) {
	dir, err := cfg.DataDir()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigInvalid, "failed to resolve data directory", err)
	}
	return NewWithBackend(cfg, persist.NewFileBackend(dir), logger, opts...), nil
}

// NewWithBackend wires an App over backend. Options are applied to the API
// client after the configured ones.
func NewWithBackend(cfg *config.Config, backend persist.Backend, logger *log.Logger, opts ...api.Option) *App {
	if logger == nil {
		logger = log.Discard()
	}

	tokens := session.NewTokenStore(backend, cfg.Auth.TokenPassphrase)
	sess := session.Open(backend, tokens, logger)

	clientOpts := append([]api.Option{
		api.WithTimeout(cfg.API.Timeout.Std()),
		api.WithTokenSource(sess),
		api.WithLogger(logger),
	}, opts...)
	client := api.NewClient(cfg.API.BaseURL, clientOpts...)
	client.OnUnauthorized(func(*api.Error) {
		if err := sess.Invalidate(); err != nil {
			logger.WithError(err).Warn("failed to clear rejected session")
		}
	})

	c := cart.Open(backend, logger)
	return &App{
		Config:   cfg,
		Logger:   logger,
		Backend:  backend,
		Session:  sess,
		Cart:     c,
		Wishlist: wishlist.Open(backend, logger),
		UI:       ui.New(),
		API:      client,
		Checkout: checkout.New(c, client, logger),
	}
}

// Searcher returns a debouncer that searches the catalog through the API.
func (a *App) Searcher() *search.Debouncer {
	return search.New(func(ctx context.Context, query string) ([]domain.Product, error) {
		page, err := a.API.Products(ctx, catalog.ListParams{Search: query, PageSize: search.ResultLimit})
		if err != nil {
			return nil, err
		}
		return page.Products, nil
	}, a.Config.Search.Debounce.Std())
}

// AddToCart fetches the product and adds quantity of it in size. An empty
// size selects the product's first size.
func (a *App) AddToCart(ctx context.Context, productID, size string, quantity int) (domain.Product, error) {
	if quantity < 1 {
		return domain.Product{}, errors.NewInvalidQuantityError(quantity)
	}
	p, err := a.API.Product(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}
	if size == "" && len(p.Sizes) > 0 {
		size = p.Sizes[0]
	}
	if !p.HasSize(size) {
		return domain.Product{}, errors.New(errors.ErrCodeCartInvalidSize, "size "+size+" is not offered for "+p.Name).
			WithSuggestion("Available sizes: " + strings.Join(p.Sizes, ", "))
	}
	if err := a.Cart.AddItem(p, size, quantity); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// RequireAdmin checks the local profile before any admin call is issued.
func (a *App) RequireAdmin() error {
	return a.Session.RequireAdmin()
}
