package workflow

import (
	"context"
	"errors"
	"log"
	"time"

	"imogest/internal/domain"

	"gorm.io/gorm"
)

// Service owns the declaration lifecycle: it validates transitions,
// persists status plus side fields in a single update, then fans out
// notifications. Notification and board failures never roll back a
// committed transition.
type Service struct {
	store     Store
	providers ProviderRepository
	notifs    NotificationSender
	board     BoardMirror
}

func NewService(store Store, providers ProviderRepository, notifs NotificationSender, board BoardMirror) *Service {
	return &Service{
		store:     store,
		providers: providers,
		notifs:    notifs,
		board:     board,
	}
}

func (s *Service) load(ctx context.Context, id string) (*domain.Declaration, error) {
	d, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (s *Service) checkTransition(from, to domain.Status) error {
	if !to.Valid() {
		return ErrValidation
	}
	if from.Terminal() {
		return ErrTerminalStatus
	}
	if !domain.CanTransition(from, to) {
		return ErrInvalidTransition
	}
	return nil
}

// finishTransition emits the general tenant status-change notification
// and opportunistically mirrors the new status to the external board.
func (s *Service) finishTransition(ctx context.Context, d *domain.Declaration, previous domain.Status) {
	_ = s.notifs.NotifyStatusChange(ctx, d, previous)

	if s.board != nil && s.board.Enabled() && d.MondayItemID != "" {
		if err := s.board.UpdateItemStatus(ctx, d.MondayItemID, d.Status); err != nil {
			log.Printf("workflow board_update_failed id=%s item_id=%s error=%q", d.ID, d.MondayItemID, err)
		}
	}
}

// UpdateStatus performs a general transition carrying no side fields.
// Transitions that require side data (assignment, scheduling, quote)
// are rejected here and must go through their dedicated operations.
// The bool mirrors the store's local-only write signal.
func (s *Service) UpdateStatus(ctx context.Context, id string, newStatus domain.Status) (*domain.Declaration, bool, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if err := s.checkTransition(d.Status, newStatus); err != nil {
		return nil, false, err
	}

	// Assignment is a precondition of awaiting-diagnostic: without a
	// provider on file this transition must not write anything.
	if newStatus == domain.StatusAwaitingDiagnostic && d.ProviderID == nil {
		return nil, false, ErrProviderRequired
	}
	if newStatus == domain.StatusDiagnosticScheduled && d.MeetingDate == nil {
		return nil, false, ErrMeetingDateRequired
	}

	previous := d.Status
	updated, degraded, err := s.store.Update(ctx, id, domain.DeclarationPatch{Status: &newStatus})
	if err != nil {
		return nil, false, err
	}

	s.finishTransition(ctx, updated, previous)
	return updated, degraded, nil
}

// AssignProvider moves a declaration to awaiting-diagnostic. The
// provider reference is a hard precondition: nothing is written and no
// notification fires when it is missing or unknown.
func (s *Service) AssignProvider(ctx context.Context, id string, providerID int64) (*domain.Declaration, bool, error) {
	if providerID == 0 {
		return nil, false, ErrProviderRequired
	}

	p, err := s.providers.GetByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrProviderNotFound
		}
		return nil, false, err
	}

	d, err := s.load(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if err := s.checkTransition(d.Status, domain.StatusAwaitingDiagnostic); err != nil {
		return nil, false, err
	}

	previous := d.Status
	status := domain.StatusAwaitingDiagnostic
	now := time.Now().UTC()
	updated, degraded, err := s.store.Update(ctx, id, domain.DeclarationPatch{
		Status:     &status,
		ProviderID: &providerID,
		AssignedAt: &now,
	})
	if err != nil {
		return nil, false, err
	}

	_ = s.notifs.NotifyProviderAssignment(ctx, updated, p)
	s.finishTransition(ctx, updated, previous)
	return updated, degraded, nil
}

// ScheduleMeeting records the diagnostic meeting date (required) and
// optional notes, then moves to diagnostic-scheduled.
func (s *Service) ScheduleMeeting(ctx context.Context, id string, meetingDate time.Time, notes string) (*domain.Declaration, bool, error) {
	if meetingDate.IsZero() {
		return nil, false, ErrMeetingDateRequired
	}

	d, err := s.load(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if err := s.checkTransition(d.Status, domain.StatusDiagnosticScheduled); err != nil {
		return nil, false, err
	}
	if d.ProviderID == nil {
		return nil, false, ErrProviderRequired
	}

	p, err := s.providers.GetByID(ctx, *d.ProviderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrProviderNotFound
		}
		return nil, false, err
	}

	previous := d.Status
	status := domain.StatusDiagnosticScheduled
	updated, degraded, err := s.store.Update(ctx, id, domain.DeclarationPatch{
		Status:       &status,
		MeetingDate:  &meetingDate,
		MeetingNotes: &notes,
	})
	if err != nil {
		return nil, false, err
	}

	_ = s.notifs.NotifyTenantMeetingScheduled(ctx, updated, p, meetingDate)
	s.finishTransition(ctx, updated, previous)
	return updated, degraded, nil
}

// MarkQuoteReceived records that the provider sent a quote.
func (s *Service) MarkQuoteReceived(ctx context.Context, id string, amount *float64) (*domain.Declaration, bool, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if err := s.checkTransition(d.Status, domain.StatusQuoteReceived); err != nil {
		return nil, false, err
	}

	previous := d.Status
	status := domain.StatusQuoteReceived
	patch := domain.DeclarationPatch{Status: &status}
	if amount != nil {
		patch.QuoteAmount = amount
	}
	updated, degraded, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, false, err
	}

	s.finishTransition(ctx, updated, previous)
	return updated, degraded, nil
}

// RecordQuoteDecision moves to in-repair carrying the quote decision.
// A rejection must name its reason; an approval fires the paired
// provider/tenant notifications.
func (s *Service) RecordQuoteDecision(ctx context.Context, id string, approved bool, reason string, amount *float64) (*domain.Declaration, bool, error) {
	if !approved && reason == "" {
		return nil, false, ErrReasonRequired
	}

	d, err := s.load(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if err := s.checkTransition(d.Status, domain.StatusInRepair); err != nil {
		return nil, false, err
	}

	previous := d.Status
	status := domain.StatusInRepair
	patch := domain.DeclarationPatch{
		Status:        &status,
		QuoteApproved: &approved,
	}
	if amount != nil {
		patch.QuoteAmount = amount
	}
	if !approved {
		patch.RejectionReason = &reason
	}
	updated, degraded, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, false, err
	}

	if approved && updated.ProviderID != nil {
		if p, perr := s.providers.GetByID(ctx, *updated.ProviderID); perr == nil {
			_ = s.notifs.NotifyProviderQuoteApproved(ctx, updated, p)
			_ = s.notifs.NotifyTenantQuoteApproved(ctx, updated, p)
		} else {
			log.Printf("workflow quote_provider_lookup_failed id=%s provider_id=%d error=%q", id, *updated.ProviderID, perr)
		}
	}

	s.finishTransition(ctx, updated, previous)
	return updated, degraded, nil
}

// Cancel moves any non-terminal declaration to Annulé.
func (s *Service) Cancel(ctx context.Context, id string, reason string) (*domain.Declaration, bool, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if d.Status.Terminal() {
		return nil, false, ErrTerminalStatus
	}

	previous := d.Status
	status := domain.StatusCancelled
	patch := domain.DeclarationPatch{Status: &status}
	if reason != "" {
		patch.RejectionReason = &reason
	}
	updated, degraded, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, false, err
	}

	s.finishTransition(ctx, updated, previous)
	return updated, degraded, nil
}
