package store

import (
	"context"
	"log"
	"sync"
	"time"

	"imogest/internal/database"

	"gorm.io/gorm"
)

// Mode is the tri-state connectivity outcome surfaced to the UI.
type Mode int

const (
	ModeNotChecked Mode = iota
	ModeRemote
	ModeLocalOnly
)

func (m Mode) String() string {
	switch m {
	case ModeRemote:
		return "remote"
	case ModeLocalOnly:
		return "local_only"
	default:
		return "not_checked"
	}
}

// Migrator is anything that can create its own schema on the local
// mirror.
type Migrator interface {
	Migrate() error
}

// Health decides, once per process and on demand, whether the remote
// store is reachable. There is no background retry loop; a fresh
// Check is the only way to change modes.
type Health struct {
	mu        sync.RWMutex
	mode      Mode
	checkedAt time.Time

	remote *gorm.DB // nil when no remote DSN was configured
	local  []Migrator
}

func NewHealth(remote *gorm.DB, local ...Migrator) *Health {
	return &Health{remote: remote, local: local}
}

// Check pings the remote with a cheap round-trip and makes sure the
// local mirror schema exists, so fallback writes never fail on a
// missing table.
func (h *Health) Check(ctx context.Context) Mode {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, m := range h.local {
		if err := m.Migrate(); err != nil {
			log.Printf("health local_migrate_failed error=%q", err)
		}
	}

	h.checkedAt = time.Now().UTC()
	if h.remote == nil {
		h.mode = ModeLocalOnly
		return h.mode
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := database.Ping(checkCtx, h.remote); err != nil {
		log.Printf("health remote_unreachable error=%q", err)
		h.mode = ModeLocalOnly
		return h.mode
	}

	h.mode = ModeRemote
	return h.mode
}

func (h *Health) Mode() Mode {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.mode
}

func (h *Health) CheckedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.checkedAt
}
