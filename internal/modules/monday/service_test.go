package monday

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"imogest/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockDeclarationStore struct {
	mock.Mock
}

func (m *MockDeclarationStore) GetAll(ctx context.Context, statusFilter *domain.Status) ([]domain.Declaration, error) {
	args := m.Called(ctx, statusFilter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Declaration), args.Error(1)
}

func (m *MockDeclarationStore) GetByMondayItemID(ctx context.Context, itemID string) (*domain.Declaration, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Declaration), args.Error(1)
}

func (m *MockDeclarationStore) Update(ctx context.Context, id string, patch domain.DeclarationPatch) (*domain.Declaration, bool, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*domain.Declaration), args.Bool(1), args.Error(2)
}

// boardServer fakes the GraphQL endpoint: it records each request and
// answers from a canned data payload.
func boardServer(t *testing.T, handler func(query string, vars map[string]any) any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))

		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		data := handler(req.Query, req.Variables)
		resp := map[string]any{"data": data}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func testBoards() (Board, Board) {
	return Board{ID: "111", Columns: defaultDeclarationColumns()},
		Board{ID: "222", Columns: defaultTechColumns()}
}

func sampleDeclaration() *domain.Declaration {
	return &domain.Declaration{
		ID:          "decl-1",
		Name:        "Maria Santos",
		Email:       "maria@example.pt",
		Property:    "Rua das Flores 12",
		City:        "Lisboa",
		IssueType:   "electrical",
		Urgency:     domain.UrgencyMedium,
		Status:      domain.StatusNew,
		SubmittedAt: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestSendDeclaration_CreatesItemAndStoresID(t *testing.T) {
	var gotVars map[string]any
	srv := boardServer(t, func(query string, vars map[string]any) any {
		gotVars = vars
		return map[string]any{"create_item": map[string]string{"id": "item-42"}}
	})
	defer srv.Close()

	decls := new(MockDeclarationStore)
	declBoard, techBoard := testBoards()
	svc := NewService(NewClient(srv.URL, "test-key"), declBoard, techBoard, decls, nil)

	itemID := "item-42"
	decls.On("Update", mock.Anything, "decl-1", domain.DeclarationPatch{MondayItemID: &itemID}).
		Return(sampleDeclaration(), false, nil)

	got, err := svc.SendDeclaration(context.Background(), sampleDeclaration())

	assert.NoError(t, err)
	assert.Equal(t, "item-42", got)
	assert.Equal(t, "111", gotVars["board"])
	assert.Equal(t, "Maria Santos — electrical", gotVars["name"])

	var cols map[string]any
	assert.NoError(t, json.Unmarshal([]byte(gotVars["cols"].(string)), &cols))
	assert.Equal(t, "Rua das Flores 12", cols["text_property"])
	assert.Equal(t, map[string]any{"label": "Nouveau"}, cols["status"])
	assert.Equal(t, map[string]any{"date": "2026-08-01"}, cols["date4"])
	decls.AssertExpectations(t)
}

func TestSendDeclaration_CorrelationFailureIsNotFatal(t *testing.T) {
	srv := boardServer(t, func(query string, vars map[string]any) any {
		return map[string]any{"create_item": map[string]string{"id": "item-42"}}
	})
	defer srv.Close()

	decls := new(MockDeclarationStore)
	declBoard, techBoard := testBoards()
	svc := NewService(NewClient(srv.URL, "test-key"), declBoard, techBoard, decls, nil)

	decls.On("Update", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, false, gorm.ErrRecordNotFound)

	got, err := svc.SendDeclaration(context.Background(), sampleDeclaration())

	// The board item exists, so the id is still returned.
	assert.NoError(t, err)
	assert.Equal(t, "item-42", got)
}

func TestSendDeclaration_DisabledWithoutKey(t *testing.T) {
	declBoard, techBoard := testBoards()
	svc := NewService(NewClient("http://unused", ""), declBoard, techBoard, new(MockDeclarationStore), nil)

	assert.False(t, svc.Enabled())
	_, err := svc.SendDeclaration(context.Background(), sampleDeclaration())
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestUpdateItemStatus_SendsCollapsedLabel(t *testing.T) {
	var gotVars map[string]any
	srv := boardServer(t, func(query string, vars map[string]any) any {
		gotVars = vars
		return map[string]any{"change_column_value": map[string]string{"id": "item-42"}}
	})
	defer srv.Close()

	declBoard, techBoard := testBoards()
	svc := NewService(NewClient(srv.URL, "test-key"), declBoard, techBoard, new(MockDeclarationStore), nil)

	err := svc.UpdateItemStatus(context.Background(), "item-42", domain.StatusQuoteReceived)

	assert.NoError(t, err)
	assert.Equal(t, "item-42", gotVars["item"])
	assert.JSONEq(t, `{"label":"En cours"}`, gotVars["val"].(string))
}

func TestClient_GraphQLErrorsSurface(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"errors":[{"message":"board not found"}]}`)
	}))
	defer srv.Close()

	declBoard, techBoard := testBoards()
	svc := NewService(NewClient(srv.URL, "test-key"), declBoard, techBoard, new(MockDeclarationStore), nil)

	_, err := svc.SendDeclaration(context.Background(), sampleDeclaration())
	assert.ErrorContains(t, err, "board not found")
}

func pullSyncPayload(itemID, label string) any {
	return map[string]any{
		"boards": []any{
			map[string]any{
				"items_page": map[string]any{
					"items": []any{
						map[string]any{
							"id": itemID,
							"column_values": []any{
								map[string]string{"id": "status", "text": label},
							},
						},
					},
				},
			},
		},
	}
}

func TestPullSync_ReconcilesStatus(t *testing.T) {
	srv := boardServer(t, func(query string, vars map[string]any) any {
		return pullSyncPayload("item-42", "Résolu")
	})
	defer srv.Close()

	decls := new(MockDeclarationStore)
	declBoard, techBoard := testBoards()
	svc := NewService(NewClient(srv.URL, "test-key"), declBoard, techBoard, decls, nil)

	d := sampleDeclaration()
	d.Status = domain.StatusInRepair
	d.MondayItemID = "item-42"

	decls.On("GetByMondayItemID", mock.Anything, "item-42").Return(d, nil)
	decls.On("Update", mock.Anything, "decl-1", mock.MatchedBy(func(patch domain.DeclarationPatch) bool {
		return patch.Status != nil && *patch.Status == domain.StatusResolved
	})).Return(d, false, nil)

	updated, err := svc.PullSync(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, updated)
	decls.AssertExpectations(t)
}

func TestPullSync_SkipsWhenLabelAlreadyAgrees(t *testing.T) {
	srv := boardServer(t, func(query string, vars map[string]any) any {
		return pullSyncPayload("item-42", "En cours")
	})
	defer srv.Close()

	decls := new(MockDeclarationStore)
	declBoard, techBoard := testBoards()
	svc := NewService(NewClient(srv.URL, "test-key"), declBoard, techBoard, decls, nil)

	// In repair already collapses to "En cours": nothing to reconcile.
	d := sampleDeclaration()
	d.Status = domain.StatusInRepair
	d.MondayItemID = "item-42"
	decls.On("GetByMondayItemID", mock.Anything, "item-42").Return(d, nil)

	updated, err := svc.PullSync(context.Background())

	assert.NoError(t, err)
	assert.Zero(t, updated)
	decls.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestPullSync_SkipsIllegalTransitions(t *testing.T) {
	srv := boardServer(t, func(query string, vars map[string]any) any {
		// Someone dragged a resolved item back to the first column.
		return pullSyncPayload("item-42", "Nouveau")
	})
	defer srv.Close()

	decls := new(MockDeclarationStore)
	declBoard, techBoard := testBoards()
	svc := NewService(NewClient(srv.URL, "test-key"), declBoard, techBoard, decls, nil)

	d := sampleDeclaration()
	d.Status = domain.StatusResolved
	d.MondayItemID = "item-42"
	decls.On("GetByMondayItemID", mock.Anything, "item-42").Return(d, nil)

	updated, err := svc.PullSync(context.Background())

	assert.NoError(t, err)
	assert.Zero(t, updated)
	decls.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestPullSync_SkipsUnknownItems(t *testing.T) {
	srv := boardServer(t, func(query string, vars map[string]any) any {
		return pullSyncPayload("item-99", "Résolu")
	})
	defer srv.Close()

	decls := new(MockDeclarationStore)
	declBoard, techBoard := testBoards()
	svc := NewService(NewClient(srv.URL, "test-key"), declBoard, techBoard, decls, nil)

	decls.On("GetByMondayItemID", mock.Anything, "item-99").Return(nil, gorm.ErrRecordNotFound)

	updated, err := svc.PullSync(context.Background())

	assert.NoError(t, err)
	assert.Zero(t, updated)
}

func TestSendTechReport(t *testing.T) {
	var gotVars map[string]any
	srv := boardServer(t, func(query string, vars map[string]any) any {
		gotVars = vars
		return map[string]any{"create_item": map[string]string{"id": "tech-7"}}
	})
	defer srv.Close()

	declBoard, techBoard := testBoards()
	svc := NewService(NewClient(srv.URL, "test-key"), declBoard, techBoard, new(MockDeclarationStore), nil)

	id, err := svc.SendTechReport(context.Background(), TechReport{
		Technician: "Rui Costa",
		Property:   "Av. de Roma 3",
		IssueType:  "plumbing",
		Urgency:    "high",
	})

	assert.NoError(t, err)
	assert.Equal(t, "tech-7", id)
	assert.Equal(t, "222", gotVars["board"])
	assert.Equal(t, "Rui Costa — plumbing", gotVars["name"])
}

// fakeWebhookStore is an in-memory WebhookStore.
type fakeWebhookStore struct {
	regs map[string]domain.WebhookRegistration
}

func newFakeWebhookStore() *fakeWebhookStore {
	return &fakeWebhookStore{regs: map[string]domain.WebhookRegistration{}}
}

func (f *fakeWebhookStore) Save(ctx context.Context, w *domain.WebhookRegistration) error {
	f.regs[w.ID] = *w
	return nil
}

func (f *fakeWebhookStore) Delete(ctx context.Context, id string) error {
	delete(f.regs, id)
	return nil
}

func (f *fakeWebhookStore) GetAll(ctx context.Context) ([]domain.WebhookRegistration, error) {
	out := make([]domain.WebhookRegistration, 0, len(f.regs))
	for _, w := range f.regs {
		out = append(out, w)
	}
	return out, nil
}

func TestRegisterWebhook_RecordsRegistration(t *testing.T) {
	srv := boardServer(t, func(query string, vars map[string]any) any {
		return map[string]any{"create_webhook": map[string]string{"id": "wh-9"}}
	})
	defer srv.Close()

	webhooks := newFakeWebhookStore()
	declBoard, techBoard := testBoards()
	svc := NewService(NewClient(srv.URL, "test-key"), declBoard, techBoard, new(MockDeclarationStore), webhooks)

	id, err := svc.RegisterWebhook(context.Background(), "https://imogest.example.pt/hooks/board", "change_column_value")

	assert.NoError(t, err)
	assert.Equal(t, "wh-9", id)

	// The registration is on record and survives independently of the
	// process that created it.
	regs, err := svc.ListWebhooks(context.Background())
	assert.NoError(t, err)
	assert.Len(t, regs, 1)
	assert.Equal(t, "wh-9", regs[0].ID)
	assert.Equal(t, "111", regs[0].BoardID)
	assert.Equal(t, "https://imogest.example.pt/hooks/board", regs[0].URL)
	assert.Equal(t, "change_column_value", regs[0].Event)
}

func TestDeleteWebhook_RemovesRecord(t *testing.T) {
	srv := boardServer(t, func(query string, vars map[string]any) any {
		return map[string]any{"delete_webhook": map[string]string{"id": "wh-9"}}
	})
	defer srv.Close()

	webhooks := newFakeWebhookStore()
	webhooks.regs["wh-9"] = domain.WebhookRegistration{ID: "wh-9", BoardID: "111"}

	declBoard, techBoard := testBoards()
	svc := NewService(NewClient(srv.URL, "test-key"), declBoard, techBoard, new(MockDeclarationStore), webhooks)

	assert.NoError(t, svc.DeleteWebhook(context.Background(), "wh-9"))
	assert.Empty(t, webhooks.regs)
}

func TestListWebhooks_NoStoreConfigured(t *testing.T) {
	declBoard, techBoard := testBoards()
	svc := NewService(NewClient("http://unused", "test-key"), declBoard, techBoard, new(MockDeclarationStore), nil)

	regs, err := svc.ListWebhooks(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, regs)
}
