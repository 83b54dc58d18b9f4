package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/qmenu/selforder-api/internal/domain/entity"
	domainRepo "github.com/qmenu/selforder-api/internal/domain/repository"
	"github.com/qmenu/selforder-api/pkg/apperror"
	"github.com/qmenu/selforder-api/pkg/utils"
)

// PushSubscriber maintains the push channel behind a guest session.
type PushSubscriber interface {
	Subscribe(ctx context.Context, customerID string)
	Unsubscribe(customerID string)
}

// SessionService handles device registration and guest session lifecycle.
//
// Every session owns in-process state: a push subscription goroutine, a cart
// lock, a cached order list. Kiosks re-scan tables without ending the old
// session, so each session carries an expiry timer matched to its token TTL;
// whichever of EndSession or the timer runs first releases the state.
type SessionService struct {
	deviceRepo      domainRepo.DeviceRepository
	participantRepo domainRepo.ParticipantRepository
	carts           *CartService
	subscriber      PushSubscriber
	cache           domainRepo.OrderCache
	jwtManager      *utils.JWTManager
	sessionTTL      time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewSessionService creates a new session service
func NewSessionService(
	deviceRepo domainRepo.DeviceRepository,
	participantRepo domainRepo.ParticipantRepository,
	carts *CartService,
	subscriber PushSubscriber,
	cache domainRepo.OrderCache,
	jwtManager *utils.JWTManager,
	sessionTTL time.Duration,
) *SessionService {
	return &SessionService{
		deviceRepo:      deviceRepo,
		participantRepo: participantRepo,
		carts:           carts,
		subscriber:      subscriber,
		cache:           cache,
		jwtManager:      jwtManager,
		sessionTTL:      sessionTTL,
		timers:          make(map[string]*time.Timer),
	}
}

// RegisterDeviceInput represents the device registration input
type RegisterDeviceInput struct {
	BranchID string
	Name     string
}

// RegisterDeviceOutput carries the provisioning credentials. The secret is
// returned exactly once; only its hash is kept.
type RegisterDeviceOutput struct {
	Device *entity.Device
	Code   string
	Secret string
}

// RegisterDevice provisions a new kiosk device for a branch
func (s *SessionService) RegisterDevice(ctx context.Context, input *RegisterDeviceInput) (*RegisterDeviceOutput, error) {
	branchID, err := utils.ParseUUID(input.BranchID)
	if err != nil {
		return nil, apperror.NewBadRequestError("Invalid branch id")
	}

	secretBytes := make([]byte, 24)
	if _, err := rand.Read(secretBytes); err != nil {
		return nil, err
	}
	secret := hex.EncodeToString(secretBytes)

	hash, err := utils.HashSecret(secret)
	if err != nil {
		return nil, err
	}

	device := &entity.Device{
		BranchID:   branchID,
		Name:       input.Name,
		Code:       utils.GenerateDeviceCode(),
		SecretHash: hash,
		Active:     true,
	}
	if err := s.deviceRepo.Create(ctx, device); err != nil {
		return nil, err
	}

	return &RegisterDeviceOutput{
		Device: device,
		Code:   device.Code,
		Secret: secret,
	}, nil
}

// StartSessionInput represents the session start input
type StartSessionInput struct {
	DeviceCode      string
	DeviceSecret    string
	ParticipantCode string
}

// StartSessionOutput represents the session start output
type StartSessionOutput struct {
	SessionID   string
	Token       string
	Participant *entity.Participant
}

// StartSession authenticates a device against its provisioning secret and
// opens a guest session on a table. The session starts with an empty cart and
// an open push channel for its committed orders.
func (s *SessionService) StartSession(ctx context.Context, input *StartSessionInput) (*StartSessionOutput, error) {
	device, err := s.deviceRepo.GetByCode(ctx, input.DeviceCode)
	if err != nil || device == nil {
		return nil, apperror.ErrInvalidDevice
	}
	if !device.Active {
		return nil, apperror.ErrInvalidDevice
	}
	if !utils.CheckSecretHash(input.DeviceSecret, device.SecretHash) {
		return nil, apperror.ErrInvalidDevice
	}

	participant, err := s.participantRepo.GetByCode(ctx, input.ParticipantCode)
	if err != nil || participant == nil {
		return nil, apperror.NewNotFoundError("Table")
	}

	sessionID := utils.NewSessionID()
	token, err := s.jwtManager.GenerateSessionToken(sessionID, device.ID, participant.ID, device.BranchID)
	if err != nil {
		return nil, err
	}

	s.carts.Clear(ctx, sessionID)
	s.subscriber.Subscribe(context.WithoutCancel(ctx), sessionID)
	s.scheduleExpiry(sessionID)

	_ = s.deviceRepo.TouchLastSeen(ctx, device.ID)

	return &StartSessionOutput{
		SessionID:   sessionID,
		Token:       token,
		Participant: participant,
	}, nil
}

// EndSession closes the push channel, discards the session's draft cart and
// drops its cached orders.
func (s *SessionService) EndSession(ctx context.Context, sessionID string) {
	s.stopExpiry(sessionID)
	s.release(ctx, sessionID)
}

// scheduleExpiry arms the session's janitor timer. The session token stops
// validating after sessionTTL, so nothing can reach the state afterwards.
func (s *SessionService) scheduleExpiry(sessionID string) {
	if s.sessionTTL <= 0 {
		return
	}
	timer := time.AfterFunc(s.sessionTTL, func() {
		s.stopExpiry(sessionID)
		s.release(context.Background(), sessionID)
	})

	s.mu.Lock()
	s.timers[sessionID] = timer
	s.mu.Unlock()
}

func (s *SessionService) stopExpiry(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, ok := s.timers[sessionID]; ok {
		timer.Stop()
		delete(s.timers, sessionID)
	}
}

func (s *SessionService) release(ctx context.Context, sessionID string) {
	s.subscriber.Unsubscribe(sessionID)
	s.carts.Forget(ctx, sessionID)
	s.cache.Evict(sessionID)
}
