package declaration

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"imogest/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Create(ctx context.Context, d *domain.Declaration) (bool, error) {
	args := m.Called(ctx, d)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) GetAll(ctx context.Context, statusFilter *domain.Status) ([]domain.Declaration, error) {
	args := m.Called(ctx, statusFilter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Declaration), args.Error(1)
}

func (m *MockStore) GetByID(ctx context.Context, id string) (*domain.Declaration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Declaration), args.Error(1)
}

type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) NotifyNewDeclaration(ctx context.Context, d *domain.Declaration) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

// fakeMediaStore records upload order and can fail on the nth file.
type fakeMediaStore struct {
	saved  []string
	failAt int // 1-based, 0 means never
}

func (f *fakeMediaStore) Save(fh *multipart.FileHeader) (string, error) {
	if f.failAt > 0 && len(f.saved)+1 == f.failAt {
		return "", errors.New("disk full")
	}
	url := "/media/" + fh.Filename
	f.saved = append(f.saved, url)
	return url, nil
}

func fileHeaders(names ...string) []*multipart.FileHeader {
	out := make([]*multipart.FileHeader, 0, len(names))
	for _, n := range names {
		out = append(out, &multipart.FileHeader{Filename: n})
	}
	return out
}

func submitRequest() SubmitRequest {
	return SubmitRequest{
		Name:      "Maria Santos",
		Email:     "maria@example.pt",
		Property:  "Rua das Flores 12",
		IssueType: "electrical",
		Urgency:   "medium",
	}
}

func TestSubmit_CreatesAndNotifiesOnce(t *testing.T) {
	store := new(MockStore)
	notifs := new(MockNotificationSender)
	media := &fakeMediaStore{}
	svc := NewService(store, notifs, media, nil)

	var created *domain.Declaration
	store.On("Create", mock.Anything, mock.AnythingOfType("*domain.Declaration")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*domain.Declaration)
		}).Return(false, nil)
	notifs.On("NotifyNewDeclaration", mock.Anything, mock.Anything).Return(nil)

	before := time.Now().UTC()
	d, degraded, err := svc.Submit(context.Background(), submitRequest(), nil)

	assert.NoError(t, err)
	assert.False(t, degraded)
	assert.Equal(t, "Maria Santos", d.Name)
	assert.Equal(t, domain.StatusNew, d.Status)
	assert.Equal(t, domain.UrgencyMedium, d.Urgency)
	_, parseErr := uuid.Parse(d.ID)
	assert.NoError(t, parseErr)
	assert.False(t, d.SubmittedAt.Before(before))
	assert.Same(t, created, d)
	notifs.AssertNumberOfCalls(t, "NotifyNewDeclaration", 1)
}

func TestSubmit_DefaultsUrgencyToMedium(t *testing.T) {
	store := new(MockStore)
	notifs := new(MockNotificationSender)
	svc := NewService(store, notifs, &fakeMediaStore{}, nil)

	store.On("Create", mock.Anything, mock.Anything).Return(false, nil)
	notifs.On("NotifyNewDeclaration", mock.Anything, mock.Anything).Return(nil)

	req := submitRequest()
	req.Urgency = ""
	d, _, err := svc.Submit(context.Background(), req, nil)

	assert.NoError(t, err)
	assert.Equal(t, domain.UrgencyMedium, d.Urgency)
}

func TestSubmit_AcceptsEmergencyUrgency(t *testing.T) {
	store := new(MockStore)
	notifs := new(MockNotificationSender)
	svc := NewService(store, notifs, &fakeMediaStore{}, nil)

	store.On("Create", mock.Anything, mock.Anything).Return(false, nil)
	notifs.On("NotifyNewDeclaration", mock.Anything, mock.Anything).Return(nil)

	req := submitRequest()
	req.Urgency = "emergency"
	d, _, err := svc.Submit(context.Background(), req, nil)

	assert.NoError(t, err)
	assert.Equal(t, domain.UrgencyEmergency, d.Urgency)
}

func TestSubmit_ReportsLocalOnlyWrite(t *testing.T) {
	store := new(MockStore)
	notifs := new(MockNotificationSender)
	svc := NewService(store, notifs, &fakeMediaStore{}, nil)

	store.On("Create", mock.Anything, mock.Anything).Return(true, nil)
	notifs.On("NotifyNewDeclaration", mock.Anything, mock.Anything).Return(nil)

	d, degraded, err := svc.Submit(context.Background(), submitRequest(), nil)

	assert.NoError(t, err)
	assert.True(t, degraded)
	assert.NotNil(t, d)
}

func TestSubmit_RejectsUnknownUrgency(t *testing.T) {
	store := new(MockStore)
	svc := NewService(store, new(MockNotificationSender), &fakeMediaStore{}, nil)

	req := submitRequest()
	req.Urgency = "catastrophic"
	_, _, err := svc.Submit(context.Background(), req, nil)

	assert.ErrorIs(t, err, ErrValidation)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmit_UploadsMediaInOrderBeforePersisting(t *testing.T) {
	store := new(MockStore)
	notifs := new(MockNotificationSender)
	media := &fakeMediaStore{}
	svc := NewService(store, notifs, media, nil)

	store.On("Create", mock.Anything, mock.MatchedBy(func(d *domain.Declaration) bool {
		// All uploads must have finished by the time the record lands.
		return len(d.MediaURLs) == 3
	})).Return(false, nil)
	notifs.On("NotifyNewDeclaration", mock.Anything, mock.Anything).Return(nil)

	d, _, err := svc.Submit(context.Background(), submitRequest(), fileHeaders("a.jpg", "b.jpg", "c.mp4"))

	assert.NoError(t, err)
	assert.Equal(t, []string{"/media/a.jpg", "/media/b.jpg", "/media/c.mp4"}, media.saved)
	assert.Equal(t, media.saved, d.MediaURLs)
}

func TestSubmit_UploadFailureAbortsBeforeWrite(t *testing.T) {
	store := new(MockStore)
	notifs := new(MockNotificationSender)
	media := &fakeMediaStore{failAt: 2}
	svc := NewService(store, notifs, media, nil)

	_, _, err := svc.Submit(context.Background(), submitRequest(), fileHeaders("a.jpg", "b.jpg", "c.mp4"))

	assert.ErrorIs(t, err, ErrUploadFailed)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	notifs.AssertNotCalled(t, "NotifyNewDeclaration", mock.Anything, mock.Anything)
}

func TestSubmit_NotificationFailureDoesNotFailSubmission(t *testing.T) {
	store := new(MockStore)
	notifs := new(MockNotificationSender)
	svc := NewService(store, notifs, &fakeMediaStore{}, nil)

	store.On("Create", mock.Anything, mock.Anything).Return(false, nil)
	notifs.On("NotifyNewDeclaration", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	d, _, err := svc.Submit(context.Background(), submitRequest(), nil)

	assert.NoError(t, err)
	assert.NotNil(t, d)
}

func TestList_AcceptsSemanticAndStorageForms(t *testing.T) {
	store := new(MockStore)
	svc := NewService(store, new(MockNotificationSender), &fakeMediaStore{}, nil)

	want := domain.StatusInRepair
	store.On("GetAll", mock.Anything, &want).Return([]domain.Declaration{}, nil).Twice()

	_, err := svc.List(context.Background(), string(domain.StatusInRepair))
	assert.NoError(t, err)

	_, err = svc.List(context.Background(), "in_repair")
	assert.NoError(t, err)

	store.AssertExpectations(t)
}

func TestList_RejectsUnknownStatus(t *testing.T) {
	store := new(MockStore)
	svc := NewService(store, new(MockNotificationSender), &fakeMediaStore{}, nil)

	_, err := svc.List(context.Background(), "bogus")
	assert.ErrorIs(t, err, ErrValidation)
	store.AssertNotCalled(t, "GetAll", mock.Anything, mock.Anything)
}

func TestGet_MapsRecordNotFound(t *testing.T) {
	store := new(MockStore)
	svc := NewService(store, new(MockNotificationSender), &fakeMediaStore{}, nil)

	store.On("GetByID", mock.Anything, "missing").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
