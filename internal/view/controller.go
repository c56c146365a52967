package view

import (
	"context"
	"fmt"

	errx "github.com/dynamic-shelf-pricer/console/internal/core/error"
	"github.com/dynamic-shelf-pricer/console/internal/model"
	logx "github.com/dynamic-shelf-pricer/console/pkg/logger"
)

// Backend is the subset of the pricing API the page needs.
type Backend interface {
	FetchProducts(ctx context.Context) ([]model.Product, error)
	RecommendPrice(ctx context.Context, req model.RecommendRequest) (model.Recommendation, error)
}

// Store keeps one State per session. Update applies fn atomically for that
// session; fn may be called more than once and must not have side effects
// beyond its return value and local variables.
type Store interface {
	Load(ctx context.Context, sessionID string) (State, error)
	Update(ctx context.Context, sessionID string, fn func(State) State) (State, error)
	Delete(ctx context.Context, sessionID string) error
}

// Controller turns page events into state transitions and backend calls.
// Backend calls never run inside Store.Update, so a slow backend does not
// block other events for the same session.
type Controller struct {
	backend Backend
	store   Store
}

func NewController(backend Backend, store Store) *Controller {
	return &Controller{backend: backend, store: store}
}

// Open is the initial display of a session's page. The first call for a
// session fetches the catalog; later calls, including those after a failed
// fetch, only return the stored state.
func (c *Controller) Open(ctx context.Context, sessionID string) (State, error) {
	var first bool
	state, err := c.store.Update(ctx, sessionID, func(s State) State {
		first = !s.CatalogRequested
		return s.WithCatalogRequested()
	})
	if err != nil {
		return State{}, err
	}
	if !first {
		return state, nil
	}

	products, err := c.backend.FetchProducts(ctx)
	if err != nil {
		logx.Error().Err(err).Str("session", sessionID).Msg("failed to load product catalog")
		return state, nil
	}
	logx.Debug().Str("session", sessionID).Int("products", len(products)).Msg("product catalog loaded")

	return c.store.Update(ctx, sessionID, func(s State) State {
		return s.WithProducts(products)
	})
}

// SetFields merges form fields into the session's shared context.
func (c *Controller) SetFields(ctx context.Context, sessionID string, fields map[string]string) (State, error) {
	var mergeErr error
	state, err := c.store.Update(ctx, sessionID, func(s State) State {
		next, err := s.WithFields(fields)
		mergeErr = err
		return next
	})
	if err != nil {
		return State{}, err
	}
	return state, mergeErr
}

// Recommend requests a price for productID using the context as it is when
// the call is made, then stores the response under productID. Concurrent
// calls are not deduplicated: whichever response arrives last wins.
func (c *Controller) Recommend(ctx context.Context, sessionID, productID string) (model.Recommendation, error) {
	if productID == "" {
		return model.Recommendation{}, errx.Validation("product_id", fmt.Errorf("product id is empty"))
	}

	snapshot, err := c.store.Load(ctx, sessionID)
	if err != nil {
		return model.Recommendation{}, err
	}
	pricingCtx, err := BuildContext(snapshot.Form)
	if err != nil {
		return model.Recommendation{}, err
	}

	rec, err := c.backend.RecommendPrice(ctx, model.RecommendRequest{
		ProductID: productID,
		Context:   pricingCtx,
	})
	if err != nil {
		return model.Recommendation{}, err
	}

	if _, err := c.store.Update(ctx, sessionID, func(s State) State {
		return s.WithRecommendation(productID, rec)
	}); err != nil {
		return model.Recommendation{}, err
	}
	logx.Debug().
		Str("session", sessionID).
		Str("product_id", productID).
		Float64("recommended_price", rec.RecommendedPrice).
		Msg("recommendation stored")
	return rec, nil
}

// State returns the stored state for a session without side effects.
func (c *Controller) State(ctx context.Context, sessionID string) (State, error) {
	return c.store.Load(ctx, sessionID)
}

// Close discards a session.
func (c *Controller) Close(ctx context.Context, sessionID string) error {
	return c.store.Delete(ctx, sessionID)
}
