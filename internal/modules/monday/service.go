package monday

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"imogest/internal/domain"
)

// DeclarationStore is the slice of the fallback store the pull-sync
// needs to reconcile statuses.
type DeclarationStore interface {
	GetAll(ctx context.Context, statusFilter *domain.Status) ([]domain.Declaration, error)
	GetByMondayItemID(ctx context.Context, itemID string) (*domain.Declaration, error)
	Update(ctx context.Context, id string, patch domain.DeclarationPatch) (*domain.Declaration, bool, error)
}

// WebhookStore keeps board webhook registrations across restarts.
type WebhookStore interface {
	Save(ctx context.Context, w *domain.WebhookRegistration) error
	Delete(ctx context.Context, id string) error
	GetAll(ctx context.Context) ([]domain.WebhookRegistration, error)
}

// Service mirrors declarations (and technician reports) onto two
// external kanban boards. The mirror is one-way on create, lossy on
// status (7 internal states collapse to 3 labels) and reconciles only
// the status field on pull.
type Service struct {
	client    *Client
	declBoard Board
	techBoard Board
	decls     DeclarationStore
	webhooks  WebhookStore // nil when registrations are not persisted
}

func NewService(client *Client, declBoard, techBoard Board, decls DeclarationStore, webhooks WebhookStore) *Service {
	return &Service{
		client:    client,
		declBoard: declBoard,
		techBoard: techBoard,
		decls:     decls,
		webhooks:  webhooks,
	}
}

// Enabled reports whether declaration mirroring is configured.
func (s *Service) Enabled() bool {
	return s.client != nil && s.client.apiKey != "" && s.declBoard.ID != ""
}

const createItemQuery = `mutation ($board: ID!, $name: String!, $cols: JSON!) {
  create_item(board_id: $board, item_name: $name, column_values: $cols) { id }
}`

type createItemData struct {
	CreateItem struct {
		ID string `json:"id"`
	} `json:"create_item"`
}

// SendDeclaration creates a board item for the declaration and stores
// the returned item id back on the record for later status sync.
func (s *Service) SendDeclaration(ctx context.Context, d *domain.Declaration) (string, error) {
	if !s.Enabled() {
		return "", ErrDisabled
	}

	cols := s.declBoard.Columns
	values := map[string]any{
		cols.Email:       map[string]string{"email": d.Email, "text": d.Email},
		cols.Property:    d.Property,
		cols.IssueType:   d.IssueType,
		cols.Urgency:     map[string]any{"labels": []string{string(d.Urgency)}},
		cols.Status:      map[string]string{"label": d.Status.BoardLabel()},
		cols.SubmittedAt: map[string]string{"date": d.SubmittedAt.Format("2006-01-02")},
		cols.Reference:   d.ID,
	}
	if d.Phone != "" {
		values[cols.Phone] = map[string]string{"phone": d.Phone}
	}
	if d.City != "" {
		values[cols.City] = d.City
	}

	colsJSON, err := json.Marshal(values)
	if err != nil {
		return "", err
	}

	var data createItemData
	err = s.client.Do(ctx, createItemQuery, map[string]any{
		"board": s.declBoard.ID,
		"name":  d.Name + " — " + d.IssueType,
		"cols":  string(colsJSON),
	}, &data)
	if err != nil {
		return "", err
	}

	itemID := data.CreateItem.ID
	if _, _, err := s.decls.Update(ctx, d.ID, domain.DeclarationPatch{MondayItemID: &itemID}); err != nil {
		// The board item exists; losing the correlation id only means
		// later status syncs skip this declaration.
		log.Printf("monday correlate_failed declaration_id=%s item_id=%s error=%q", d.ID, itemID, err)
	}
	return itemID, nil
}

// TechReport is a technician-authored observation mirrored to the
// second board.
type TechReport struct {
	Technician  string `json:"technician" validate:"required"`
	Property    string `json:"property" validate:"required"`
	IssueType   string `json:"issue_type" validate:"required"`
	Description string `json:"description"`
	Urgency     string `json:"urgency"`
	Reference   string `json:"reference"`
}

// SendTechReport creates an item on the technician board.
func (s *Service) SendTechReport(ctx context.Context, r TechReport) (string, error) {
	if s.client == nil || s.client.apiKey == "" || s.techBoard.ID == "" {
		return "", ErrDisabled
	}

	cols := s.techBoard.Columns
	values := map[string]any{
		cols.Property:    r.Property,
		cols.IssueType:   r.IssueType,
		cols.Status:      map[string]string{"label": domain.BoardLabelNew},
		cols.SubmittedAt: map[string]string{"date": time.Now().UTC().Format("2006-01-02")},
	}
	if r.Urgency != "" {
		values[cols.Urgency] = map[string]any{"labels": []string{r.Urgency}}
	}
	if r.Reference != "" {
		values[cols.Reference] = r.Reference
	}

	colsJSON, err := json.Marshal(values)
	if err != nil {
		return "", err
	}

	var data createItemData
	err = s.client.Do(ctx, createItemQuery, map[string]any{
		"board": s.techBoard.ID,
		"name":  r.Technician + " — " + r.IssueType,
		"cols":  string(colsJSON),
	}, &data)
	if err != nil {
		return "", err
	}
	return data.CreateItem.ID, nil
}

const changeColumnQuery = `mutation ($board: ID!, $item: ID!, $col: String!, $val: JSON!) {
  change_column_value(board_id: $board, item_id: $item, column_id: $col, value: $val) { id }
}`

// UpdateItemStatus pushes the collapsed status label for one item.
func (s *Service) UpdateItemStatus(ctx context.Context, itemID string, status domain.Status) error {
	if !s.Enabled() {
		return ErrDisabled
	}

	val, err := json.Marshal(map[string]string{"label": status.BoardLabel()})
	if err != nil {
		return err
	}
	return s.client.Do(ctx, changeColumnQuery, map[string]any{
		"board": s.declBoard.ID,
		"item":  itemID,
		"col":   s.declBoard.Columns.Status,
		"val":   string(val),
	}, nil)
}

const boardItemsQuery = `query ($board: [ID!]) {
  boards(ids: $board) {
    items_page(limit: 100) {
      items {
        id
        column_values { id text }
      }
    }
  }
}`

type boardItemsData struct {
	Boards []struct {
		ItemsPage struct {
			Items []struct {
				ID           string `json:"id"`
				ColumnValues []struct {
					ID   string `json:"id"`
					Text string `json:"text"`
				} `json:"column_values"`
			} `json:"items"`
		} `json:"items_page"`
	} `json:"boards"`
}

// PullSync re-reads board items and reconciles only the status field
// back into the store, joined on external item id. Items without a
// matching declaration are skipped; the collapse means only coarser
// moves (e.g. a drag to Résolu) come back through here.
func (s *Service) PullSync(ctx context.Context) (int, error) {
	if !s.Enabled() {
		return 0, ErrDisabled
	}

	var data boardItemsData
	err := s.client.Do(ctx, boardItemsQuery, map[string]any{
		"board": []string{s.declBoard.ID},
	}, &data)
	if err != nil {
		return 0, err
	}
	if len(data.Boards) == 0 {
		return 0, nil
	}

	updated := 0
	for _, item := range data.Boards[0].ItemsPage.Items {
		var label string
		for _, cv := range item.ColumnValues {
			if cv.ID == s.declBoard.Columns.Status {
				label = cv.Text
				break
			}
		}
		if label == "" {
			continue
		}

		mapped, ok := domain.StatusFromBoardLabel(label)
		if !ok {
			continue
		}

		d, err := s.decls.GetByMondayItemID(ctx, item.ID)
		if err != nil {
			continue
		}
		if d.Status.BoardLabel() == label {
			continue // already in agreement under the collapsed view
		}
		if !domain.CanTransition(d.Status, mapped) {
			log.Printf("monday pull_sync_skipped declaration_id=%s from=%q board_label=%q", d.ID, d.Status, label)
			continue
		}

		if _, _, err := s.decls.Update(ctx, d.ID, domain.DeclarationPatch{Status: &mapped}); err != nil {
			log.Printf("monday pull_sync_update_failed declaration_id=%s error=%q", d.ID, err)
			continue
		}
		updated++
	}
	return updated, nil
}

const createWebhookQuery = `mutation ($board: ID!, $url: String!, $event: WebhookEventType!) {
  create_webhook(board_id: $board, url: $url, event: $event) { id }
}`

type createWebhookData struct {
	CreateWebhook struct {
		ID string `json:"id"`
	} `json:"create_webhook"`
}

// RegisterWebhook creates the webhook on the board and records the
// registration locally so it is known again after a restart.
func (s *Service) RegisterWebhook(ctx context.Context, url, event string) (string, error) {
	if !s.Enabled() {
		return "", ErrDisabled
	}

	var data createWebhookData
	err := s.client.Do(ctx, createWebhookQuery, map[string]any{
		"board": s.declBoard.ID,
		"url":   url,
		"event": event,
	}, &data)
	if err != nil {
		return "", err
	}

	id := data.CreateWebhook.ID
	if s.webhooks != nil {
		reg := &domain.WebhookRegistration{
			ID:        id,
			BoardID:   s.declBoard.ID,
			URL:       url,
			Event:     event,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.webhooks.Save(ctx, reg); err != nil {
			// The webhook is live on the board either way.
			log.Printf("monday webhook_save_failed webhook_id=%s error=%q", id, err)
		}
	}
	return id, nil
}

const deleteWebhookQuery = `mutation ($id: ID!) {
  delete_webhook(id: $id) { id }
}`

func (s *Service) DeleteWebhook(ctx context.Context, webhookID string) error {
	if !s.Enabled() {
		return ErrDisabled
	}
	if err := s.client.Do(ctx, deleteWebhookQuery, map[string]any{"id": webhookID}, nil); err != nil {
		return err
	}
	if s.webhooks != nil {
		if err := s.webhooks.Delete(ctx, webhookID); err != nil {
			log.Printf("monday webhook_delete_record_failed webhook_id=%s error=%q", webhookID, err)
		}
	}
	return nil
}

// ListWebhooks returns the recorded registrations.
func (s *Service) ListWebhooks(ctx context.Context) ([]domain.WebhookRegistration, error) {
	if s.webhooks == nil {
		return []domain.WebhookRegistration{}, nil
	}
	return s.webhooks.GetAll(ctx)
}
