package store

import (
	"context"
	"log"

	"imogest/internal/domain"
	"imogest/internal/repository"
)

// declarationRepo is the slice of repository.DeclarationRepository the
// fallback store needs. Remote and local sides share the
// implementation over different gorm handles.
type declarationRepo interface {
	Create(ctx context.Context, d *domain.Declaration) error
	GetAll(ctx context.Context, statusFilter *domain.Status) ([]domain.Declaration, error)
	GetByID(ctx context.Context, id string) (*domain.Declaration, error)
	GetByMondayItemID(ctx context.Context, itemID string) (*domain.Declaration, error)
	Update(ctx context.Context, id string, patch domain.DeclarationPatch) (*domain.Declaration, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Declaration, error)
}

var _ declarationRepo = (*repository.DeclarationRepository)(nil)

// DeclarationStore is remote-first durable CRUD with a transparent
// local fallback. Every operation still succeeds from the caller's
// viewpoint as long as one side persisted; there is no reconciliation
// between the two copies.
type DeclarationStore struct {
	remote declarationRepo // nil in local-only deployments
	local  declarationRepo
	health *Health
}

func NewDeclarationStore(remote, local declarationRepo, health *Health) *DeclarationStore {
	return &DeclarationStore{remote: remote, local: local, health: health}
}

func (s *DeclarationStore) remoteUsable() bool {
	return s.remote != nil && s.health.Mode() != ModeLocalOnly
}

// degradedWrite reports whether a write that ended up local-only should
// carry a warning to the caller. A deployment without a remote at all
// runs on the local store by design and is not degraded.
func (s *DeclarationStore) degradedWrite() bool {
	return s.remote != nil
}

// Create inserts remote-first. On any remote failure the declaration
// is appended to the local mirror instead and the local copy is
// returned; callers must not assume both copies exist. The bool is
// true when the write only reached the local mirror of a deployment
// that does have a remote configured.
func (s *DeclarationStore) Create(ctx context.Context, d *domain.Declaration) (bool, error) {
	if s.remoteUsable() {
		if err := s.remote.Create(ctx, d); err == nil {
			return false, nil
		} else {
			log.Printf("declarations remote_create_failed id=%s error=%q falling back to local", d.ID, err)
		}
	}
	if err := s.local.Create(ctx, d); err != nil {
		return false, err
	}
	return s.degradedWrite(), nil
}

// GetAll prefers the remote query (status filtered server-side) and
// falls back to the mirror. Both paths sort newest first.
func (s *DeclarationStore) GetAll(ctx context.Context, statusFilter *domain.Status) ([]domain.Declaration, error) {
	if s.remoteUsable() {
		out, err := s.remote.GetAll(ctx, statusFilter)
		if err == nil {
			return out, nil
		}
		log.Printf("declarations remote_get_all_failed error=%q falling back to local", err)
	}
	return s.local.GetAll(ctx, statusFilter)
}

func (s *DeclarationStore) GetByID(ctx context.Context, id string) (*domain.Declaration, error) {
	if s.remoteUsable() {
		d, err := s.remote.GetByID(ctx, id)
		if err == nil {
			return d, nil
		}
		log.Printf("declarations remote_get_failed id=%s error=%q falling back to local", id, err)
	}
	return s.local.GetByID(ctx, id)
}

func (s *DeclarationStore) GetByMondayItemID(ctx context.Context, itemID string) (*domain.Declaration, error) {
	if s.remoteUsable() {
		d, err := s.remote.GetByMondayItemID(ctx, itemID)
		if err == nil {
			return d, nil
		}
		log.Printf("declarations remote_get_by_item_failed item_id=%s error=%q falling back to local", itemID, err)
	}
	return s.local.GetByMondayItemID(ctx, itemID)
}

// Update writes the patch to the remote in a single call; when falling
// back, the local record is shallow-merged with the same patch. The
// bool reports a local-only write, same as Create.
func (s *DeclarationStore) Update(ctx context.Context, id string, patch domain.DeclarationPatch) (*domain.Declaration, bool, error) {
	if s.remoteUsable() {
		d, err := s.remote.Update(ctx, id, patch)
		if err == nil {
			return d, false, nil
		}
		log.Printf("declarations remote_update_failed id=%s error=%q falling back to local", id, err)
	}
	d, err := s.local.Update(ctx, id, patch)
	if err != nil {
		return nil, false, err
	}
	return d, s.degradedWrite(), nil
}

// UpdateStatus applies a status-only patch through Update.
func (s *DeclarationStore) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Declaration, bool, error) {
	return s.Update(ctx, id, domain.DeclarationPatch{Status: &status})
}
