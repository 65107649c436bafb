package workflow

import (
	"context"
	"time"

	"imogest/internal/domain"
)

// Store is the fallback-backed declaration persistence surface used by
// transitions. Each transition writes status plus side fields in one
// Update call; Update's bool reports a write that only reached the
// local mirror.
type Store interface {
	GetByID(ctx context.Context, id string) (*domain.Declaration, error)
	Update(ctx context.Context, id string, patch domain.DeclarationPatch) (*domain.Declaration, bool, error)
}

// ProviderRepository resolves assignment targets.
type ProviderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ServiceProvider, error)
}

// NotificationSender is the dispatcher surface the workflow fans out
// through. All sends are best-effort.
type NotificationSender interface {
	NotifyStatusChange(ctx context.Context, d *domain.Declaration, previous domain.Status) error
	NotifyProviderAssignment(ctx context.Context, d *domain.Declaration, p *domain.ServiceProvider) error
	NotifyTenantMeetingScheduled(ctx context.Context, d *domain.Declaration, p *domain.ServiceProvider, meetingDate time.Time) error
	NotifyProviderQuoteApproved(ctx context.Context, d *domain.Declaration, p *domain.ServiceProvider) error
	NotifyTenantQuoteApproved(ctx context.Context, d *domain.Declaration, p *domain.ServiceProvider) error
}

// BoardMirror pushes the collapsed status to the external board.
type BoardMirror interface {
	Enabled() bool
	UpdateItemStatus(ctx context.Context, itemID string, status domain.Status) error
}
