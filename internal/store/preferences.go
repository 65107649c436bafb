package store

import (
	"context"
	"log"

	"imogest/internal/domain"
	"imogest/internal/repository"
)

type preferenceRepo interface {
	Get(ctx context.Context) (*domain.NotificationPreference, error)
	Upsert(ctx context.Context, p *domain.NotificationPreference) error
}

var _ preferenceRepo = (*repository.PreferenceRepository)(nil)

// PreferenceStore serves the per-installation notification preference
// singleton, remote-first with a local mirror.
type PreferenceStore struct {
	remote preferenceRepo
	local  preferenceRepo
	health *Health
}

func NewPreferenceStore(remote, local preferenceRepo, health *Health) *PreferenceStore {
	return &PreferenceStore{remote: remote, local: local, health: health}
}

func (s *PreferenceStore) Get(ctx context.Context) (*domain.NotificationPreference, error) {
	if s.remote != nil && s.health.Mode() != ModeLocalOnly {
		p, err := s.remote.Get(ctx)
		if err == nil {
			return p, nil
		}
		log.Printf("preferences remote_get_failed error=%q falling back to local", err)
	}
	return s.local.Get(ctx)
}

// Upsert writes remote-first. The bool reports a write that only
// reached the local mirror while a remote is configured.
func (s *PreferenceStore) Upsert(ctx context.Context, p *domain.NotificationPreference) (bool, error) {
	if s.remote != nil && s.health.Mode() != ModeLocalOnly {
		if err := s.remote.Upsert(ctx, p); err == nil {
			return false, nil
		} else {
			log.Printf("preferences remote_upsert_failed error=%q falling back to local", err)
		}
	}
	if err := s.local.Upsert(ctx, p); err != nil {
		return false, err
	}
	return s.remote != nil, nil
}
