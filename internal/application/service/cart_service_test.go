package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/qmenu/selforder-api/internal/domain/entity"
)

func newCartFixture(variants ...entity.Variant) (*CartService, *memCartStore) {
	store := newMemCartStore()
	return NewCartService(store, &stubCatalog{variants: variants}, zap.NewNop()), store
}

func TestCartServiceAddVariant(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves the variant and persists the cart", func(t *testing.T) {
		variantID := uuid.New()
		svc, store := newCartFixture(entity.Variant{ID: variantID, Name: "Latte", SalePrice: 4500, State: "ACTIVE"})

		cart, err := svc.AddVariant(ctx, "s1", variantID, "p1")
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, "Latte", cart.Items[0].Name)
		assert.Equal(t, int64(4500), cart.Items[0].Price)

		saved := store.carts["s1"]
		require.NotNil(t, saved)
		assert.Equal(t, int64(4500), saved.TotalAmount)
	})

	t.Run("rejects unknown variants", func(t *testing.T) {
		svc, _ := newCartFixture()

		_, err := svc.AddVariant(ctx, "s1", uuid.New(), "p1")
		assert.Error(t, err)
	})

	t.Run("rejects sold out variants", func(t *testing.T) {
		variantID := uuid.New()
		svc, _ := newCartFixture(entity.Variant{ID: variantID, Name: "Latte", SalePrice: 4500, State: "SOLD_OUT"})

		_, err := svc.AddVariant(ctx, "s1", variantID, "p1")
		assert.Error(t, err)
	})

	t.Run("sessions are isolated", func(t *testing.T) {
		variantID := uuid.New()
		svc, _ := newCartFixture(entity.Variant{ID: variantID, SalePrice: 100, State: "ACTIVE"})

		_, err := svc.AddVariant(ctx, "s1", variantID, "p1")
		require.NoError(t, err)

		other := svc.Get(ctx, "s2")
		assert.Empty(t, other.Items)
	})
}

func TestCartServiceAddConfigured(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves option names and prices from the catalog", func(t *testing.T) {
		optionID := uuid.New()
		variantID := uuid.New()
		svc, _ := newCartFixture(entity.Variant{
			ID: variantID, Name: "Burger", SalePrice: 9000, State: "ACTIVE",
			Options: []entity.MenuOption{{ID: optionID, Name: "Extra cheese", Price: 800}},
		})

		cart, err := svc.AddConfigured(ctx, "s1", variantID, "p1", 2, "well done", []entity.OrderItemOption{{ID: optionID.String(), Value: "1"}})
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)

		item := cart.Items[0]
		assert.Equal(t, 2, item.Quantity)
		assert.Equal(t, "well done", item.Comment)
		require.Len(t, item.Options, 1)
		assert.Equal(t, "Extra cheese", item.Options[0].Name)
		assert.Equal(t, int64(800), item.Options[0].Price)
		assert.Equal(t, int64(19600), cart.TotalAmount)
	})

	t.Run("rejects options the variant does not offer", func(t *testing.T) {
		variantID := uuid.New()
		svc, _ := newCartFixture(entity.Variant{ID: variantID, SalePrice: 9000, State: "ACTIVE"})

		_, err := svc.AddConfigured(ctx, "s1", variantID, "p1", 1, "", []entity.OrderItemOption{{ID: uuid.New().String()}})
		assert.Error(t, err)
	})
}

func TestCartServicePersistence(t *testing.T) {
	ctx := context.Background()
	variantID := uuid.New()
	svc, store := newCartFixture(entity.Variant{ID: variantID, SalePrice: 1000, State: "ACTIVE"})

	_, err := svc.AddVariant(ctx, "s1", variantID, "p1")
	require.NoError(t, err)

	t.Run("mutations round-trip through the store", func(t *testing.T) {
		cart := svc.Get(ctx, "s1")
		require.Len(t, cart.Items, 1)

		svc.Increase(ctx, "s1", cart.Items[0].UUID)
		assert.Equal(t, int64(2000), store.carts["s1"].TotalAmount)

		svc.Clear(ctx, "s1")
		assert.Empty(t, store.carts["s1"].Items)
	})

	t.Run("forget drops the stored cart", func(t *testing.T) {
		svc.Forget(ctx, "s1")
		assert.Nil(t, store.carts["s1"])

		cart := svc.Get(ctx, "s1")
		assert.Empty(t, cart.Items)
	})
}

func TestValidateMandatoryOptions(t *testing.T) {
	optionID := uuid.New()
	variantID := uuid.New()
	variant := entity.Variant{ID: variantID, Options: []entity.MenuOption{
		{ID: optionID, Name: "Size", Mandatory: true},
		{ID: uuid.New(), Name: "Ice", Mandatory: false},
	}}
	variants := map[string]entity.Variant{variantID.String(): variant}

	t.Run("flags lines missing a mandatory option", func(t *testing.T) {
		cart := entity.NewCart()
		cart.AddItem(entity.OrderItem{ID: variantID.String(), ProductID: "p1", Name: "Tea", Quantity: 1})

		issues := ValidateMandatoryOptions(cart, variants)
		require.Len(t, issues, 1)
		assert.Equal(t, "p1", issues[0].ProductID)
		assert.Equal(t, []string{"Size"}, issues[0].MissingOptions)
	})

	t.Run("passes lines with the option selected", func(t *testing.T) {
		cart := entity.NewCart()
		cart.AddItem(entity.OrderItem{
			ID: variantID.String(), ProductID: "p1", Quantity: 1,
			Options: []entity.OrderItemOption{{ID: optionID.String(), Value: "L"}},
		})

		assert.Empty(t, ValidateMandatoryOptions(cart, variants))
	})

	t.Run("ignores lines whose variant is not in the map", func(t *testing.T) {
		cart := entity.NewCart()
		cart.AddItem(entity.OrderItem{ID: uuid.New().String(), ProductID: "p2", Quantity: 1})

		assert.Empty(t, ValidateMandatoryOptions(cart, variants))
	})
}
