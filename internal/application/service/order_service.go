package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/qmenu/selforder-api/internal/domain/entity"
	domainRepo "github.com/qmenu/selforder-api/internal/domain/repository"
	"github.com/qmenu/selforder-api/pkg/apperror"
	"github.com/qmenu/selforder-api/pkg/utils"
)

// SubmitOrderInput carries the submission parameters that do not live in the
// cart itself.
type SubmitOrderInput struct {
	Guests  int
	Comment string
	Type    string
}

// OrderService turns draft carts into committed orders and serves the
// committed-order projection.
type OrderService struct {
	carts           *CartService
	catalogRepo     domainRepo.CatalogRepository
	participantRepo domainRepo.ParticipantRepository
	submitter       domainRepo.OrderSubmitter
	cache           domainRepo.OrderCache
	logger          *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	carts *CartService,
	catalogRepo domainRepo.CatalogRepository,
	participantRepo domainRepo.ParticipantRepository,
	submitter domainRepo.OrderSubmitter,
	cache domainRepo.OrderCache,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		carts:           carts,
		catalogRepo:     catalogRepo,
		participantRepo: participantRepo,
		submitter:       submitter,
		cache:           cache,
		logger:          logger,
	}
}

// Submit sends the session's draft cart to the ordering platform. The cart is
// cleared only after the platform has accepted the order; any failure before
// that leaves the draft untouched so the guest can retry.
func (s *OrderService) Submit(ctx context.Context, sessionID, participantID string, input *SubmitOrderInput) (*entity.Order, error) {
	cart := s.carts.Get(ctx, sessionID)
	if len(cart.Items) == 0 {
		return nil, apperror.ErrEmptyCart
	}

	pid, err := utils.ParseUUID(participantID)
	if err != nil {
		return nil, apperror.ErrBadRequest
	}
	// The repository reports an unknown id as (nil, nil); a session can
	// outlive its table, so both paths must land on the same error.
	participant, err := s.participantRepo.GetByID(ctx, pid)
	if err != nil || participant == nil {
		return nil, apperror.NewNotFoundError("Participant")
	}
	if !participant.Orderable {
		return nil, apperror.ErrNotOrderable
	}

	if err := s.validateCart(ctx, cart); err != nil {
		return nil, err
	}

	order, err := s.submitter.CreateOrder(ctx, buildOrderInput(cart, participantID, sessionID, input))
	if err != nil {
		s.logger.Error("order submission failed",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return nil, err
	}

	s.cache.Append(sessionID, order)
	s.carts.Clear(ctx, sessionID)

	s.logger.Info("order submitted",
		zap.String("session_id", sessionID),
		zap.String("order_id", order.ID),
		zap.Int64("total_amount", order.TotalAmount))

	return order, nil
}

// validateCart rejects submission when any line misses a mandatory option.
// The upstream platform is never called for an invalid cart.
func (s *OrderService) validateCart(ctx context.Context, cart *entity.Cart) error {
	ids := cart.VariantIDs()
	variantIDs := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		vid, err := utils.ParseUUID(id)
		if err != nil {
			continue
		}
		variantIDs = append(variantIDs, vid)
	}
	if len(variantIDs) == 0 {
		return nil
	}

	variants, err := s.catalogRepo.GetVariants(ctx, variantIDs)
	if err != nil {
		return err
	}
	byID := make(map[string]entity.Variant, len(variants))
	for _, v := range variants {
		byID[v.ID.String()] = v
	}

	if issues := ValidateMandatoryOptions(cart, byID); len(issues) > 0 {
		return apperror.NewValidationError(issuesToFieldErrors(issues))
	}
	return nil
}

func buildOrderInput(cart *entity.Cart, participantID, sessionID string, input *SubmitOrderInput) *domainRepo.CreateOrderInput {
	items := make([]domainRepo.CreateOrderItemInput, 0, len(cart.Items))
	for _, item := range cart.Items {
		options := make([]domainRepo.CreateOrderItemOption, 0, len(item.Options))
		for _, opt := range item.Options {
			options = append(options, domainRepo.CreateOrderItemOption{
				ID:    opt.ID,
				Value: opt.Value,
			})
		}
		items = append(items, domainRepo.CreateOrderItemInput{
			ID:       item.ID,
			Quantity: item.Quantity,
			Comment:  item.Comment,
			Options:  options,
		})
	}
	return &domainRepo.CreateOrderInput{
		Participant: participantID,
		Customer:    sessionID,
		Type:        input.Type,
		Guests:      input.Guests,
		Comment:     input.Comment,
		Items:       items,
	}
}

// ListOrders serves the committed orders for a session, from the cache when it
// has been filled and from the platform otherwise.
func (s *OrderService) ListOrders(ctx context.Context, sessionID string) ([]entity.Order, error) {
	if orders, filled := s.cache.List(sessionID); filled {
		return orders, nil
	}

	orders, err := s.submitter.ListOrders(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.cache.Fill(sessionID, orders)
	return orders, nil
}

// GetOrder loads one committed order, preferring the push-maintained cache.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	if order, ok := s.cache.Get(orderID); ok {
		// A nil entry marks an order removed by a DELETE push.
		if order == nil {
			return nil, apperror.NewNotFoundError("Order")
		}
		return order, nil
	}

	order, err := s.submitter.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// WaitForDecision blocks until the order's payment state is decided or the
// timeout elapses. It returns the latest known order and whether the payment
// has been decided. The watch is re-armed after pushes that leave the payment
// undecided.
func (s *OrderService) WaitForDecision(ctx context.Context, orderID string, timeout time.Duration) (*entity.Order, bool, error) {
	order, ok := s.cache.Get(orderID)
	if ok && order == nil {
		// Deleted orders never get a payment decision.
		return nil, false, apperror.NewNotFoundError("Order")
	}
	if ok && order.PaymentState.Decided() {
		return order, true, nil
	}

	updates := make(chan *entity.Order, 1)
	notify := func(o *entity.Order) {
		select {
		case updates <- o:
		default:
		}
	}

	cancel := s.cache.Watch(orderID, notify)
	defer func() { cancel() }()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return order, false, ctx.Err()
		case <-timer.C:
			return order, false, nil
		case latest := <-updates:
			if latest != nil {
				// A wake-up can come from a DELETE push; the cache pins a
				// nil entry for the id in that case.
				if cached, seen := s.cache.Get(orderID); seen && cached == nil {
					return nil, false, apperror.NewNotFoundError("Order")
				}
				order = latest
				if latest.PaymentState.Decided() {
					return latest, true, nil
				}
			}
			cancel()
			cancel = s.cache.Watch(orderID, notify)
		}
	}
}
