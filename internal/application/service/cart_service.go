package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/qmenu/selforder-api/internal/domain/entity"
	"github.com/qmenu/selforder-api/internal/domain/repository"
	"github.com/qmenu/selforder-api/pkg/apperror"
	"go.uber.org/zap"
)

// CartService owns the draft-cart lifecycle for kiosk sessions. Every
// mutation is a load-modify-save on the session's cart under a per-session
// lock, so two taps from the same kiosk cannot interleave half-applied
// states. Committed orders never pass through here.
type CartService struct {
	store       repository.CartStore
	catalogRepo repository.CatalogRepository
	logger      *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCartService creates a new cart service
func NewCartService(store repository.CartStore, catalogRepo repository.CatalogRepository, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{
		store:       store,
		catalogRepo: catalogRepo,
		logger:      logger,
		locks:       make(map[string]*sync.Mutex),
	}
}

// sessionLock returns the mutex guarding one session's cart.
func (s *CartService) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	return lock
}

// load fetches the session's cart, falling back to an empty draft when the
// store has nothing. The store reports failures as misses.
func (s *CartService) load(ctx context.Context, sessionID string) *entity.Cart {
	cart, _ := s.store.Load(ctx, sessionID)
	if cart == nil {
		cart = entity.NewCart()
	}
	return cart
}

// mutate runs fn against the session's cart and persists the result.
func (s *CartService) mutate(ctx context.Context, sessionID string, fn func(*entity.Cart)) *entity.Cart {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	cart := s.load(ctx, sessionID)
	fn(cart)
	_ = s.store.Save(ctx, sessionID, cart)
	return cart
}

// Get returns the session's current cart.
func (s *CartService) Get(ctx context.Context, sessionID string) *entity.Cart {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()
	return s.load(ctx, sessionID)
}

// AddVariant resolves the variant in the catalog and merges it into the
// cart. Variants that are not orderable (sold out, inactive) are rejected.
func (s *CartService) AddVariant(ctx context.Context, sessionID string, variantID uuid.UUID, productID string) (*entity.Cart, error) {
	variants, err := s.catalogRepo.GetVariants(ctx, []uuid.UUID{variantID})
	if err != nil {
		return nil, err
	}
	if len(variants) == 0 {
		return nil, apperror.NewNotFoundError("Variant")
	}
	variant := variants[0]
	if !variant.State.Orderable() {
		return nil, apperror.NewBadRequestError("This item is not available right now")
	}

	options := make([]entity.OrderItemOption, 0, len(variant.Options))
	for _, opt := range variant.Options {
		options = append(options, entity.OrderItemOption{
			ID:    opt.ID.String(),
			Name:  opt.Name,
			Price: opt.Price,
		})
	}

	cart := s.mutate(ctx, sessionID, func(c *entity.Cart) {
		c.Add(entity.CartVariant{
			ID:        variant.ID.String(),
			ProductID: productID,
			Name:      variant.Name,
			SalePrice: variant.SalePrice,
			Options:   options,
		})
	})
	return cart, nil
}

// AddConfigured appends a line configured on the product detail screen. The
// selected options are resolved against the catalog so the line carries the
// current option names and prices, not whatever the client claims.
func (s *CartService) AddConfigured(ctx context.Context, sessionID string, variantID uuid.UUID, productID string, quantity int, comment string, selection []entity.OrderItemOption) (*entity.Cart, error) {
	variants, err := s.catalogRepo.GetVariants(ctx, []uuid.UUID{variantID})
	if err != nil {
		return nil, err
	}
	if len(variants) == 0 {
		return nil, apperror.NewNotFoundError("Variant")
	}
	variant := variants[0]
	if !variant.State.Orderable() {
		return nil, apperror.NewBadRequestError("This item is not available right now")
	}

	catalogOptions := make(map[string]entity.MenuOption, len(variant.Options))
	for _, opt := range variant.Options {
		catalogOptions[opt.ID.String()] = opt
	}

	options := make([]entity.OrderItemOption, 0, len(selection))
	for _, sel := range selection {
		opt, ok := catalogOptions[sel.ID]
		if !ok {
			return nil, apperror.NewBadRequestError("Unknown option for this item")
		}
		options = append(options, entity.OrderItemOption{
			ID:    sel.ID,
			Name:  opt.Name,
			Price: opt.Price,
			Value: sel.Value,
		})
	}

	if quantity < 1 {
		quantity = 1
	}

	cart := s.mutate(ctx, sessionID, func(c *entity.Cart) {
		c.AddItem(entity.OrderItem{
			ID:        variant.ID.String(),
			ProductID: productID,
			Name:      variant.Name,
			Price:     variant.SalePrice,
			Quantity:  quantity,
			Comment:   comment,
			Options:   options,
		})
	})
	return cart, nil
}

// AddItem appends a line configured on the product detail screen, options
// already chosen. It never merges into existing lines: two configurations of
// the same variant stay distinct, told apart by uuid.
func (s *CartService) AddItem(ctx context.Context, sessionID string, item entity.OrderItem) *entity.Cart {
	return s.mutate(ctx, sessionID, func(c *entity.Cart) {
		c.AddItem(item)
	})
}

// Remove decrements the line matching the product id.
func (s *CartService) Remove(ctx context.Context, sessionID, productID string) *entity.Cart {
	return s.mutate(ctx, sessionID, func(c *entity.Cart) {
		c.Remove(productID)
	})
}

// Increase bumps one line by its uuid.
func (s *CartService) Increase(ctx context.Context, sessionID, itemUUID string) *entity.Cart {
	return s.mutate(ctx, sessionID, func(c *entity.Cart) {
		c.Increase(itemUUID)
	})
}

// Decrease lowers one line by its uuid, removing it at quantity zero.
func (s *CartService) Decrease(ctx context.Context, sessionID, itemUUID string) *entity.Cart {
	return s.mutate(ctx, sessionID, func(c *entity.Cart) {
		c.Decrease(itemUUID)
	})
}

// RemoveItem drops one line by its uuid regardless of quantity.
func (s *CartService) RemoveItem(ctx context.Context, sessionID, itemUUID string) *entity.Cart {
	return s.mutate(ctx, sessionID, func(c *entity.Cart) {
		c.RemoveItem(itemUUID)
	})
}

// SetItemComment attaches free text to the first line carrying the variant id.
func (s *CartService) SetItemComment(ctx context.Context, sessionID, itemID, comment string) *entity.Cart {
	return s.mutate(ctx, sessionID, func(c *entity.Cart) {
		c.SetItemComment(itemID, comment)
	})
}

// Clear empties the session's cart (session reset or post-submission).
func (s *CartService) Clear(ctx context.Context, sessionID string) *entity.Cart {
	return s.mutate(ctx, sessionID, func(c *entity.Cart) {
		c.Clear()
	})
}

// Forget drops the cart and its lock when a session ends.
func (s *CartService) Forget(ctx context.Context, sessionID string) {
	_ = s.store.Remove(ctx, sessionID)

	s.mu.Lock()
	delete(s.locks, sessionID)
	s.mu.Unlock()
}
