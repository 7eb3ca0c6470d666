package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/maison/internal/domain"
)

// wishlistFetchLimit bounds concurrent product fetches for the wishlist view.
const wishlistFetchLimit = 4

// ToggleWishlist flips productID on the local wishlist. When signed in the
// change is mirrored to the account; a failed mirror is logged, not returned.
func (a *App) ToggleWishlist(ctx context.Context, productID string) (bool, error) {
	added, err := a.Wishlist.Toggle(productID)
	if err != nil {
		return false, err
	}
	if a.Session.IsAuthenticated() {
		if _, err := a.API.ToggleWishlist(ctx, productID); err != nil {
			a.Logger.WithError(err).Warn("failed to sync wishlist", "product_id", productID)
		}
	}
	return added, nil
}

// WishlistProducts fetches every saved product. Products that cannot be
// fetched are skipped and their ids returned as missing. The order of the
// wishlist is kept.
func (a *App) WishlistProducts(ctx context.Context) (found []domain.Product, missing []string, err error) {
	ids := a.Wishlist.Items()
	products := make([]*domain.Product, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(wishlistFetchLimit)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			p, err := a.API.Product(gctx, id)
			if err != nil {
				a.Logger.Debug("skipping wishlist product", "product_id", id, "error", err)
				return nil
			}
			products[i] = &p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	found = make([]domain.Product, 0, len(ids))
	for i, p := range products {
		if p == nil {
			missing = append(missing, ids[i])
			continue
		}
		found = append(found, *p)
	}
	return found, missing, nil
}
