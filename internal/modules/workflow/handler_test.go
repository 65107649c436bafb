package workflow

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"imogest/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/"))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestUpdateStatusEndpoint_Success(t *testing.T) {
	store := new(MockStore)
	notifs := new(MockNotificationSender)
	svc := NewService(store, new(MockProviderRepo), notifs, nil)
	r := newTestRouter(svc)

	updated := newDeclaration(domain.StatusTransmitted)
	store.On("GetByID", mock.Anything, "decl-1").Return(newDeclaration(domain.StatusNew), nil)
	store.On("Update", mock.Anything, "decl-1", mock.Anything).Return(updated, false, nil)
	notifs.On("NotifyStatusChange", mock.Anything, updated, domain.StatusNew).Return(nil)

	w := doJSON(t, r, http.MethodPatch, "/declarations/decl-1/status", `{"status":"Transmitido"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Transmitido")
}

func TestUpdateStatusEndpoint_NotFound(t *testing.T) {
	store := new(MockStore)
	svc := NewService(store, new(MockProviderRepo), new(MockNotificationSender), nil)
	r := newTestRouter(svc)

	store.On("GetByID", mock.Anything, "missing").Return(nil, gorm.ErrRecordNotFound)

	w := doJSON(t, r, http.MethodPatch, "/declarations/missing/status", `{"status":"Transmitido"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestAssignEndpoint_ProviderRequired(t *testing.T) {
	store := new(MockStore)
	notifs := new(MockNotificationSender)
	svc := NewService(store, new(MockProviderRepo), notifs, nil)
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/declarations/decl-1/assign", `{"provider_id":0}`)

	// Validation rejects the request before the service runs; nothing
	// is written either way.
	assert.Equal(t, http.StatusBadRequest, w.Code)
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	notifs.AssertNotCalled(t, "NotifyProviderAssignment", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatusEndpoint_TerminalConflict(t *testing.T) {
	store := new(MockStore)
	svc := NewService(store, new(MockProviderRepo), new(MockNotificationSender), nil)
	r := newTestRouter(svc)

	store.On("GetByID", mock.Anything, "decl-1").Return(newDeclaration(domain.StatusResolved), nil)

	w := doJSON(t, r, http.MethodPatch, "/declarations/decl-1/status", `{"status":"Em curso de reparação"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "TERMINAL_STATUS")
}

func TestQuoteDecisionEndpoint_ReasonRequired(t *testing.T) {
	store := new(MockStore)
	svc := NewService(store, new(MockProviderRepo), new(MockNotificationSender), nil)
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/declarations/decl-1/quote-decision", `{"approved":false}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "REASON_REQUIRED")
}

func TestCancelEndpoint_EmptyBodyAllowed(t *testing.T) {
	store := new(MockStore)
	notifs := new(MockNotificationSender)
	svc := NewService(store, new(MockProviderRepo), notifs, nil)
	r := newTestRouter(svc)

	updated := newDeclaration(domain.StatusCancelled)
	store.On("GetByID", mock.Anything, "decl-1").Return(newDeclaration(domain.StatusNew), nil)
	store.On("Update", mock.Anything, "decl-1", mock.Anything).Return(updated, false, nil)
	notifs.On("NotifyStatusChange", mock.Anything, updated, domain.StatusNew).Return(nil)

	w := doJSON(t, r, http.MethodPost, "/declarations/decl-1/cancel", "")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateStatusEndpoint_WarnsOnLocalOnlyWrite(t *testing.T) {
	store := new(MockStore)
	notifs := new(MockNotificationSender)
	svc := NewService(store, new(MockProviderRepo), notifs, nil)
	r := newTestRouter(svc)

	updated := newDeclaration(domain.StatusTransmitted)
	store.On("GetByID", mock.Anything, "decl-1").Return(newDeclaration(domain.StatusNew), nil)
	store.On("Update", mock.Anything, "decl-1", mock.Anything).Return(updated, true, nil)
	notifs.On("NotifyStatusChange", mock.Anything, updated, domain.StatusNew).Return(nil)

	w := doJSON(t, r, http.MethodPatch, "/declarations/decl-1/status", `{"status":"Transmitido"}`)

	// The transition succeeded, the reply just flags the degraded write.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Contains(t, w.Body.String(), `"warning"`)
	assert.Contains(t, w.Body.String(), "local store only")
}
