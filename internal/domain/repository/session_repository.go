package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/qmenu/selforder-api/internal/domain/entity"
)

// ParticipantRepository defines data access for branches and table/session
// contexts.
type ParticipantRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Participant, error)
	GetByCode(ctx context.Context, code string) (*entity.Participant, error)
	ListByBranch(ctx context.Context, branchID uuid.UUID) ([]entity.Participant, error)
	GetBranch(ctx context.Context, id uuid.UUID) (*entity.Branch, error)
}

// DeviceRepository defines data access for registered kiosk devices.
type DeviceRepository interface {
	Create(ctx context.Context, device *entity.Device) error
	GetByCode(ctx context.Context, code string) (*entity.Device, error)
	TouchLastSeen(ctx context.Context, id uuid.UUID) error
}
