package notification

import (
	"context"
	"log"
	"strings"
	"time"

	"imogest/internal/domain"
)

// statusEmailTargets gates actual tenant status emails to the three
// statuses worth interrupting someone for. Attempts for every other
// status are still logged.
var statusEmailTargets = map[domain.Status]bool{
	domain.StatusResolved:  true,
	domain.StatusInRepair:  true,
	domain.StatusCancelled: true,
}

// Service renders and sends notifications and unconditionally records
// every attempt. Delivery is best-effort: a failed send becomes a
// logged failure, never an error that rolls back the triggering
// transition.
type Service struct {
	logs  LogStore
	prefs PreferenceStore
	email EmailSender
	sms   SMSSender
	push  PushSender
}

func NewService(logs LogStore, prefs PreferenceStore, email EmailSender, sms SMSSender, push PushSender) *Service {
	return &Service{
		logs:  logs,
		prefs: prefs,
		email: email,
		sms:   sms,
		push:  push,
	}
}

// NotifyNewDeclaration sends the tenant-facing "received" message.
// Attempted exactly once per creation.
func (s *Service) NotifyNewDeclaration(ctx context.Context, d *domain.Declaration) error {
	msg := renderDeclarationReceived(d)
	return s.dispatch(ctx, d.ID, domain.NotifTypeNewDeclaration, domain.RecipientTenant, d.Email, d.Phone, msg, false)
}

// NotifyStatusChange sends the tenant a status-update message. Actual
// transmission only happens for the gated target statuses; the attempt
// is logged either way.
func (s *Service) NotifyStatusChange(ctx context.Context, d *domain.Declaration, previous domain.Status) error {
	msg := renderStatusChange(d, previous)
	suppressed := !statusEmailTargets[d.Status]
	return s.dispatch(ctx, d.ID, domain.NotifTypeStatusChange, domain.RecipientTenant, d.Email, d.Phone, msg, suppressed)
}

// NotifyProviderAssignment tells a newly assigned provider everything
// it needs about the incident.
func (s *Service) NotifyProviderAssignment(ctx context.Context, d *domain.Declaration, p *domain.ServiceProvider) error {
	msg := renderProviderAssignment(d, p)
	return s.dispatch(ctx, d.ID, domain.NotifTypeProviderAssignment, domain.RecipientProvider, p.Email, p.Phone, msg, false)
}

// NotifyTenantMeetingScheduled confirms the diagnostic meeting with
// date and provider contact details.
func (s *Service) NotifyTenantMeetingScheduled(ctx context.Context, d *domain.Declaration, p *domain.ServiceProvider, meetingDate time.Time) error {
	msg := renderMeetingScheduled(d, p, meetingDate)
	return s.dispatch(ctx, d.ID, domain.NotifTypeMeetingScheduled, domain.RecipientTenant, d.Email, d.Phone, msg, false)
}

func (s *Service) NotifyProviderQuoteApproved(ctx context.Context, d *domain.Declaration, p *domain.ServiceProvider) error {
	msg := renderQuoteApprovedProvider(d, p)
	return s.dispatch(ctx, d.ID, domain.NotifTypeQuoteApprovedProv, domain.RecipientProvider, p.Email, p.Phone, msg, false)
}

func (s *Service) NotifyTenantQuoteApproved(ctx context.Context, d *domain.Declaration, p *domain.ServiceProvider) error {
	msg := renderQuoteApprovedTenant(d, p)
	return s.dispatch(ctx, d.ID, domain.NotifTypeQuoteApprovedTen, domain.RecipientTenant, d.Email, d.Phone, msg, false)
}

// dispatch evaluates channels against the stored preferences (read at
// call time, never cached; each channel independent) and writes
// exactly one log entry whatever happens.
func (s *Service) dispatch(ctx context.Context, declarationID, notifType, recipientType, email, phone string, msg message, suppressed bool) error {
	prefs, err := s.prefs.Get(ctx)
	if err != nil {
		log.Printf("notification prefs_read_failed error=%q using defaults", err)
		prefs = domain.DefaultPreferences()
	}

	var attempted []string
	var sendErrs []string

	if !suppressed {
		if prefs.EmailEnabled && s.email != nil {
			to := email
			if prefs.OverrideEmail != "" {
				to = prefs.OverrideEmail
			}
			if to != "" {
				attempted = append(attempted, domain.ChannelEmail)
				if err := s.email.Send(to, msg.Subject, msg.Body); err != nil {
					sendErrs = append(sendErrs, "email: "+err.Error())
				}
			}
		}

		if prefs.SMSEnabled && s.sms != nil {
			to := phone
			if prefs.OverridePhone != "" {
				to = prefs.OverridePhone
			}
			if to != "" {
				attempted = append(attempted, domain.ChannelSMS)
				if err := s.sms.Send(ctx, to, msg.Body); err != nil {
					sendErrs = append(sendErrs, "sms: "+err.Error())
				}
			}
		}

		if prefs.PushEnabled && s.push != nil {
			attempted = append(attempted, domain.ChannelPush)
			s.push.Push(declarationID, notifType, msg.Subject, msg.Body)
		}
	}

	entry := &domain.NotificationLog{
		DeclarationID: declarationID,
		RecipientType: recipientType,
		Recipient:     email,
		Type:          notifType,
		Channels:      strings.Join(attempted, ","),
		Message:       msg.Body,
		Success:       len(sendErrs) == 0,
		Error:         strings.Join(sendErrs, "; "),
		SentAt:        time.Now().UTC(),
	}
	if err := s.logs.Append(ctx, entry); err != nil {
		log.Printf("notification log_append_failed declaration_id=%s type=%s error=%q", declarationID, notifType, err)
		return err
	}
	return nil
}

// History returns the audit trail for one declaration.
func (s *Service) History(ctx context.Context, declarationID string) ([]domain.NotificationLog, error) {
	return s.logs.GetByDeclaration(ctx, declarationID)
}

// GetPreferences reads the singleton preference record.
func (s *Service) GetPreferences(ctx context.Context) (*domain.NotificationPreference, error) {
	return s.prefs.Get(ctx)
}

// UpdatePreferences replaces the singleton preference record. The bool
// mirrors the store's local-only write signal.
func (s *Service) UpdatePreferences(ctx context.Context, p *domain.NotificationPreference) (bool, error) {
	return s.prefs.Upsert(ctx, p)
}
