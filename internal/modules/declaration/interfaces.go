package declaration

import (
	"context"
	"mime/multipart"

	"imogest/internal/domain"
)

// Store is the fallback-backed declaration persistence surface.
// Create's bool reports a write that only reached the local mirror.
type Store interface {
	Create(ctx context.Context, d *domain.Declaration) (bool, error)
	GetAll(ctx context.Context, statusFilter *domain.Status) ([]domain.Declaration, error)
	GetByID(ctx context.Context, id string) (*domain.Declaration, error)
}

// NotificationSender is the slice of the dispatcher the submission
// flow uses.
type NotificationSender interface {
	NotifyNewDeclaration(ctx context.Context, d *domain.Declaration) error
}

// MediaStore saves one uploaded file and returns its public URL.
type MediaStore interface {
	Save(fh *multipart.FileHeader) (string, error)
}

// BoardMirror projects a declaration onto the external kanban board.
type BoardMirror interface {
	Enabled() bool
	SendDeclaration(ctx context.Context, d *domain.Declaration) (string, error)
}
