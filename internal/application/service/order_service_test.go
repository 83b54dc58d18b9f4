package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/qmenu/selforder-api/internal/domain/entity"
	domainRepo "github.com/qmenu/selforder-api/internal/domain/repository"
	"github.com/qmenu/selforder-api/internal/infrastructure/cache"
	"github.com/qmenu/selforder-api/pkg/apperror"
)

// memCartStore is an in-memory stand-in for the Redis cart store. The session
// janitor reaches it from a timer goroutine, so access is locked.
type memCartStore struct {
	mu    sync.Mutex
	carts map[string]*entity.Cart
}

func newMemCartStore() *memCartStore {
	return &memCartStore{carts: make(map[string]*entity.Cart)}
}

func (s *memCartStore) Load(ctx context.Context, sessionID string) (*entity.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.carts[sessionID], nil
}

func (s *memCartStore) Save(ctx context.Context, sessionID string, cart *entity.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sessionID] = cart
	return nil
}

func (s *memCartStore) Remove(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}

func (s *memCartStore) get(sessionID string) *entity.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.carts[sessionID]
}

// stubCatalog serves a fixed variant set.
type stubCatalog struct {
	variants []entity.Variant
}

func (s *stubCatalog) ListCategories(ctx context.Context, branchID uuid.UUID) ([]entity.Category, error) {
	return nil, nil
}

func (s *stubCatalog) ListProducts(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	return nil, 0, nil
}

func (s *stubCatalog) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	return nil, nil
}

func (s *stubCatalog) GetVariants(ctx context.Context, ids []uuid.UUID) ([]entity.Variant, error) {
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []entity.Variant
	for _, v := range s.variants {
		if want[v.ID] {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *stubCatalog) UpsertCategories(ctx context.Context, branchID uuid.UUID, categories []entity.Category) error {
	return nil
}

// stubParticipants serves a single participant.
type stubParticipants struct {
	participant *entity.Participant
}

func (s *stubParticipants) GetByID(ctx context.Context, id uuid.UUID) (*entity.Participant, error) {
	// Unknown ids come back as (nil, nil), like the gorm repository.
	if s.participant == nil || s.participant.ID != id {
		return nil, nil
	}
	return s.participant, nil
}

func (s *stubParticipants) GetByCode(ctx context.Context, code string) (*entity.Participant, error) {
	return s.participant, nil
}

func (s *stubParticipants) ListByBranch(ctx context.Context, branchID uuid.UUID) ([]entity.Participant, error) {
	return nil, nil
}

func (s *stubParticipants) GetBranch(ctx context.Context, id uuid.UUID) (*entity.Branch, error) {
	return nil, nil
}

// fakeSubmitter records submissions and returns a programmable result.
type fakeSubmitter struct {
	calls  []*domainRepo.CreateOrderInput
	result *entity.Order
	err    error
	listed []entity.Order
}

func (f *fakeSubmitter) CreateOrder(ctx context.Context, input *domainRepo.CreateOrderInput) (*entity.Order, error) {
	f.calls = append(f.calls, input)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeSubmitter) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	for i := range f.listed {
		if f.listed[i].ID == id {
			return &f.listed[i], nil
		}
	}
	return nil, nil
}

func (f *fakeSubmitter) ListOrders(ctx context.Context, customerID string) ([]entity.Order, error) {
	return f.listed, nil
}

type orderFixture struct {
	store       *memCartStore
	carts       *CartService
	submitter   *fakeSubmitter
	cache       *cache.OrderCache
	service     *OrderService
	participant *entity.Participant
	variantID   uuid.UUID
}

func newOrderFixture(t *testing.T, variants ...entity.Variant) *orderFixture {
	t.Helper()

	variantID := uuid.New()
	if len(variants) == 0 {
		variants = []entity.Variant{{ID: variantID, Name: "Latte", SalePrice: 4500, State: "ACTIVE"}}
	} else {
		variantID = variants[0].ID
	}

	store := newMemCartStore()
	catalog := &stubCatalog{variants: variants}
	participant := &entity.Participant{Orderable: true}
	participant.ID = uuid.New()
	submitter := &fakeSubmitter{result: &entity.Order{ID: "o1", TotalAmount: 4500}}
	orderCache := cache.NewOrderCache(zap.NewNop())
	carts := NewCartService(store, catalog, zap.NewNop())

	return &orderFixture{
		store:       store,
		carts:       carts,
		submitter:   submitter,
		cache:       orderCache,
		service:     NewOrderService(carts, catalog, &stubParticipants{participant: participant}, submitter, orderCache, zap.NewNop()),
		participant: participant,
		variantID:   variantID,
	}
}

func (f *orderFixture) seedCart(t *testing.T, sessionID string) {
	t.Helper()
	_, err := f.carts.AddVariant(context.Background(), sessionID, f.variantID, "p1")
	require.NoError(t, err)
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("submits the cart and clears it on success", func(t *testing.T) {
		f := newOrderFixture(t)
		f.seedCart(t, "s1")

		order, err := f.service.Submit(ctx, "s1", f.participant.ID.String(), &SubmitOrderInput{Guests: 2, Type: "DINE_IN"})
		require.NoError(t, err)
		assert.Equal(t, "o1", order.ID)

		require.Len(t, f.submitter.calls, 1)
		input := f.submitter.calls[0]
		assert.Equal(t, "s1", input.Customer)
		assert.Equal(t, f.participant.ID.String(), input.Participant)
		require.Len(t, input.Items, 1)
		assert.Equal(t, f.variantID.String(), input.Items[0].ID)
		assert.Equal(t, 1, input.Items[0].Quantity)

		cart := f.carts.Get(ctx, "s1")
		assert.Empty(t, cart.Items)

		orders, filled := f.cache.List("s1")
		require.True(t, filled)
		assert.Len(t, orders, 1)
	})

	t.Run("rejects an empty cart without calling the platform", func(t *testing.T) {
		f := newOrderFixture(t)

		_, err := f.service.Submit(ctx, "s1", f.participant.ID.String(), &SubmitOrderInput{})
		assert.ErrorIs(t, err, apperror.ErrEmptyCart)
		assert.Empty(t, f.submitter.calls)
	})

	t.Run("rejects a session whose table is gone", func(t *testing.T) {
		f := newOrderFixture(t)
		f.seedCart(t, "s1")

		_, err := f.service.Submit(ctx, "s1", uuid.New().String(), &SubmitOrderInput{})
		require.Error(t, err)
		appErr := apperror.GetAppError(err)
		assert.Equal(t, 404, appErr.Code)
		assert.Empty(t, f.submitter.calls)
	})

	t.Run("rejects a non-orderable table", func(t *testing.T) {
		f := newOrderFixture(t)
		f.participant.Orderable = false
		f.seedCart(t, "s1")

		_, err := f.service.Submit(ctx, "s1", f.participant.ID.String(), &SubmitOrderInput{})
		assert.ErrorIs(t, err, apperror.ErrNotOrderable)
		assert.Empty(t, f.submitter.calls)
	})

	t.Run("missing mandatory options block submission", func(t *testing.T) {
		variantID := uuid.New()
		variant := entity.Variant{ID: variantID, Name: "Steak", SalePrice: 20000, State: "ACTIVE",
			Options: []entity.MenuOption{
				{ID: uuid.New(), Name: "Doneness", Mandatory: true},
			}}
		f := newOrderFixture(t, variant)

		// A configured line with an empty selection is the one way a line
		// can reach submission without its mandatory options.
		_, err := f.carts.AddConfigured(ctx, "s1", variantID, "p1", 1, "", nil)
		require.NoError(t, err)

		_, err = f.service.Submit(ctx, "s1", f.participant.ID.String(), &SubmitOrderInput{})
		require.Error(t, err)
		appErr := apperror.GetAppError(err)
		assert.Equal(t, 422, appErr.Code)
		require.Len(t, appErr.Errors, 1)
		assert.Equal(t, "p1", appErr.Errors[0].Field)

		// The platform is never called for an invalid cart, and the draft
		// survives so the guest can fix it.
		assert.Empty(t, f.submitter.calls)
		cart := f.carts.Get(ctx, "s1")
		assert.Len(t, cart.Items, 1)
	})

	t.Run("selected mandatory option passes validation", func(t *testing.T) {
		optionID := uuid.New()
		variantID := uuid.New()
		variant := entity.Variant{ID: variantID, Name: "Steak", SalePrice: 20000, State: "ACTIVE",
			Options: []entity.MenuOption{
				{ID: optionID, Name: "Doneness", Mandatory: true},
			}}
		f := newOrderFixture(t, variant)

		_, err := f.carts.AddConfigured(ctx, "s1", variantID, "p1", 1, "", []entity.OrderItemOption{{ID: optionID.String(), Value: "medium"}})
		require.NoError(t, err)

		_, err = f.service.Submit(ctx, "s1", f.participant.ID.String(), &SubmitOrderInput{})
		require.NoError(t, err)
		require.Len(t, f.submitter.calls, 1)
		require.Len(t, f.submitter.calls[0].Items[0].Options, 1)
		assert.Equal(t, "medium", f.submitter.calls[0].Items[0].Options[0].Value)
	})

	t.Run("quick add carries the variant's option list", func(t *testing.T) {
		optionID := uuid.New()
		variantID := uuid.New()
		variant := entity.Variant{ID: variantID, Name: "Steak", SalePrice: 20000, State: "ACTIVE",
			Options: []entity.MenuOption{
				{ID: optionID, Name: "Doneness", Mandatory: true},
			}}
		f := newOrderFixture(t, variant)
		f.seedCart(t, "s1")

		// The one-tap add puts the variant in the cart with its full option
		// list, so the line already satisfies the mandatory check.
		_, err := f.service.Submit(ctx, "s1", f.participant.ID.String(), &SubmitOrderInput{})
		require.NoError(t, err)
		require.Len(t, f.submitter.calls, 1)
		require.Len(t, f.submitter.calls[0].Items[0].Options, 1)
		assert.Equal(t, optionID.String(), f.submitter.calls[0].Items[0].Options[0].ID)
	})

	t.Run("platform failure keeps the cart", func(t *testing.T) {
		f := newOrderFixture(t)
		f.submitter.err = apperror.NewUpstreamError("ordering platform unavailable")
		f.seedCart(t, "s1")

		_, err := f.service.Submit(ctx, "s1", f.participant.ID.String(), &SubmitOrderInput{})
		require.Error(t, err)

		cart := f.carts.Get(ctx, "s1")
		assert.Len(t, cart.Items, 1)
		_, filled := f.cache.List("s1")
		assert.False(t, filled)
	})
}

func TestListOrders(t *testing.T) {
	ctx := context.Background()

	t.Run("cold cache fetches from the platform and fills", func(t *testing.T) {
		f := newOrderFixture(t)
		f.submitter.listed = []entity.Order{{ID: "o1"}, {ID: "o2"}}

		orders, err := f.service.ListOrders(ctx, "s1")
		require.NoError(t, err)
		assert.Len(t, orders, 2)

		cached, filled := f.cache.List("s1")
		assert.True(t, filled)
		assert.Len(t, cached, 2)
	})

	t.Run("warm cache skips the platform", func(t *testing.T) {
		f := newOrderFixture(t)
		f.cache.Fill("s1", []entity.Order{{ID: "o1"}})
		f.submitter.listed = []entity.Order{{ID: "stale-1"}, {ID: "stale-2"}}

		orders, err := f.service.ListOrders(ctx, "s1")
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, "o1", orders[0].ID)
	})
}

func TestGetOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("prefers the cache", func(t *testing.T) {
		f := newOrderFixture(t)
		f.cache.Fill("s1", []entity.Order{{ID: "o1", Number: "42"}})

		order, err := f.service.GetOrder(ctx, "o1")
		require.NoError(t, err)
		assert.Equal(t, "42", order.Number)
	})

	t.Run("falls back to the platform", func(t *testing.T) {
		f := newOrderFixture(t)
		f.submitter.listed = []entity.Order{{ID: "o7"}}

		order, err := f.service.GetOrder(ctx, "o7")
		require.NoError(t, err)
		assert.Equal(t, "o7", order.ID)
	})

	t.Run("unknown order is not found", func(t *testing.T) {
		f := newOrderFixture(t)

		_, err := f.service.GetOrder(ctx, "nope")
		appErr := apperror.GetAppError(err)
		assert.Equal(t, 404, appErr.Code)
	})

	t.Run("deleted order is not found", func(t *testing.T) {
		f := newOrderFixture(t)
		f.cache.Fill("s1", []entity.Order{{ID: "o1"}})
		f.cache.Apply(&entity.OrderPush{
			Event:    "DELETE",
			Customer: "s1",
			Order:    &entity.Order{ID: "o1"},
		})

		order, err := f.service.GetOrder(ctx, "o1")
		assert.Nil(t, order)
		appErr := apperror.GetAppError(err)
		assert.Equal(t, 404, appErr.Code)
	})
}

func TestWaitForDecision(t *testing.T) {
	ctx := context.Background()

	t.Run("returns immediately when already decided", func(t *testing.T) {
		f := newOrderFixture(t)
		f.cache.Fill("s1", []entity.Order{{ID: "o1", PaymentState: "PAID"}})

		order, decided, err := f.service.WaitForDecision(ctx, "o1", time.Second)
		require.NoError(t, err)
		assert.True(t, decided)
		assert.Equal(t, "o1", order.ID)
	})

	t.Run("wakes up on a deciding push", func(t *testing.T) {
		f := newOrderFixture(t)
		f.cache.Fill("s1", []entity.Order{{ID: "o1", PaymentState: "PENDING"}})

		go func() {
			time.Sleep(20 * time.Millisecond)
			f.cache.Apply(&entity.OrderPush{
				Event:    "UPDATED",
				Customer: "s1",
				Order:    &entity.Order{ID: "o1", PaymentState: "PAID"},
			})
		}()

		order, decided, err := f.service.WaitForDecision(ctx, "o1", 2*time.Second)
		require.NoError(t, err)
		assert.True(t, decided)
		assert.Equal(t, "PAID", string(order.PaymentState))
	})

	t.Run("times out undecided", func(t *testing.T) {
		f := newOrderFixture(t)
		f.cache.Fill("s1", []entity.Order{{ID: "o1", PaymentState: "PENDING"}})

		_, decided, err := f.service.WaitForDecision(ctx, "o1", 20*time.Millisecond)
		require.NoError(t, err)
		assert.False(t, decided)
	})

	t.Run("deleted order reports not found instead of waiting", func(t *testing.T) {
		f := newOrderFixture(t)
		f.cache.Fill("s1", []entity.Order{{ID: "o1", PaymentState: "PENDING"}})
		f.cache.Apply(&entity.OrderPush{
			Event:    "DELETE",
			Customer: "s1",
			Order:    &entity.Order{ID: "o1"},
		})

		order, decided, err := f.service.WaitForDecision(ctx, "o1", time.Second)
		assert.Nil(t, order)
		assert.False(t, decided)
		appErr := apperror.GetAppError(err)
		assert.Equal(t, 404, appErr.Code)
	})

	t.Run("delete during the wait ends it as not found", func(t *testing.T) {
		f := newOrderFixture(t)
		f.cache.Fill("s1", []entity.Order{{ID: "o1", PaymentState: "PENDING"}})

		go func() {
			time.Sleep(20 * time.Millisecond)
			f.cache.Apply(&entity.OrderPush{
				Event:    "DELETE",
				Customer: "s1",
				Order:    &entity.Order{ID: "o1"},
			})
		}()

		order, decided, err := f.service.WaitForDecision(ctx, "o1", 2*time.Second)
		assert.Nil(t, order)
		assert.False(t, decided)
		appErr := apperror.GetAppError(err)
		assert.Equal(t, 404, appErr.Code)
	})
}
