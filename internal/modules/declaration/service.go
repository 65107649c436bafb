package declaration

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"time"

	"imogest/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	store  Store
	notifs NotificationSender
	media  MediaStore
	board  BoardMirror
}

func NewService(store Store, notifs NotificationSender, media MediaStore, board BoardMirror) *Service {
	return &Service{
		store:  store,
		notifs: notifs,
		media:  media,
		board:  board,
	}
}

// Submit persists a new tenant declaration. Media files are uploaded
// one at a time first; the record is only written once every upload
// has completed, so a declaration never lands with a partially known
// media list. The bool mirrors the store's local-only write signal so
// the handler can attach a warning to an otherwise successful reply.
func (s *Service) Submit(ctx context.Context, req SubmitRequest, files []*multipart.FileHeader) (*domain.Declaration, bool, error) {
	urgency := domain.Urgency(req.Urgency)
	if req.Urgency == "" {
		urgency = domain.UrgencyMedium
	}
	if !urgency.Valid() {
		return nil, false, ErrValidation
	}

	mediaURLs := make([]string, 0, len(files))
	for _, fh := range files {
		url, err := s.media.Save(fh)
		if err != nil {
			log.Printf("declaration media_upload_failed name=%q error=%q", fh.Filename, err)
			return nil, false, ErrUploadFailed
		}
		mediaURLs = append(mediaURLs, url)
	}

	d := &domain.Declaration{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		NIF:         req.NIF,
		Property:    req.Property,
		City:        req.City,
		PostalCode:  req.PostalCode,
		IssueType:   req.IssueType,
		Description: req.Description,
		Urgency:     urgency,
		Status:      domain.StatusNew,
		SubmittedAt: time.Now().UTC(),
		MediaURLs:   mediaURLs,
		UpdatedAt:   time.Now().UTC(),
	}

	degraded, err := s.store.Create(ctx, d)
	if err != nil {
		return nil, false, err
	}

	// Best-effort from here on: the declaration is committed.
	_ = s.notifs.NotifyNewDeclaration(ctx, d)

	if s.board != nil && s.board.Enabled() {
		if _, err := s.board.SendDeclaration(ctx, d); err != nil {
			log.Printf("declaration board_mirror_failed id=%s error=%q", d.ID, err)
		}
	}

	return d, degraded, nil
}

// List returns declarations newest first, optionally filtered by
// status.
func (s *Service) List(ctx context.Context, statusFilter string) ([]domain.Declaration, error) {
	var filter *domain.Status
	if statusFilter != "" {
		st := domain.Status(statusFilter)
		if !st.Valid() {
			st = domain.StatusFromStorage(statusFilter)
			if !st.Valid() {
				return nil, ErrValidation
			}
		}
		filter = &st
	}
	return s.store.GetAll(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Declaration, error) {
	d, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}
