package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/oakstead/careledger/internal/logger"
	"github.com/oakstead/careledger/internal/metrics"
	"github.com/oakstead/careledger/internal/service"
	"github.com/oakstead/careledger/internal/store"
	"github.com/oakstead/careledger/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockAuthService stubs [service.AuthService] for transport tests.
type mockAuthService struct {
	parseTokenFunc func(tokenString string) (models.Token, error)
}

func (m *mockAuthService) Login(context.Context, string, string) (models.Token, error) {
	return models.Token{}, nil
}

func (m *mockAuthService) ParseToken(tokenString string) (models.Token, error) {
	return m.parseTokenFunc(tokenString)
}

func (m *mockAuthService) RequestPasswordReset(context.Context, string) error { return nil }

func (m *mockAuthService) ConfirmPasswordReset(context.Context, string, string) error { return nil }

// mockNoteService stubs [service.NoteService]; only the function fields a
// test sets are reachable.
type mockNoteService struct {
	service.NoteService // panic on anything not overridden below

	updateBowelNoteFunc func(ctx context.Context, id int64, patch models.BowelNotePatch, observed time.Time) (models.BowelNote, error)
	deleteCaseNoteFunc  func(ctx context.Context, id int64, observed time.Time) error
	getBowelNoteFunc    func(ctx context.Context, id int64) (models.BowelNote, error)
}

func (m *mockNoteService) UpdateBowelNote(ctx context.Context, id int64, patch models.BowelNotePatch, observed time.Time) (models.BowelNote, error) {
	return m.updateBowelNoteFunc(ctx, id, patch, observed)
}

func (m *mockNoteService) DeleteCaseNote(ctx context.Context, id int64, observed time.Time) error {
	return m.deleteCaseNoteFunc(ctx, id, observed)
}

func (m *mockNoteService) GetBowelNote(ctx context.Context, id int64) (models.BowelNote, error) {
	return m.getBowelNoteFunc(ctx, id)
}

const testBearer = "Bearer test-token"

func newTestServer(t *testing.T, notes service.NoteService) *httptest.Server {
	t.Helper()

	auth := &mockAuthService{
		parseTokenFunc: func(tokenString string) (models.Token, error) {
			if tokenString != "test-token" {
				return models.Token{}, service.ErrInvalidToken
			}
			return models.Token{UserID: 1, Role: models.RoleStaff}, nil
		},
	}

	handler := NewHandler(&service.Services{
		Auth:  auth,
		Notes: notes,
	}, metrics.New(), "test", logger.Nop())

	srv := httptest.NewServer(handler.Init())
	t.Cleanup(srv.Close)
	return srv
}

func doRequest(t *testing.T, method, url, body string, authorized bool) *http.Response {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if authorized {
		req.Header.Set("Authorization", testBearer)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestUpdateBowelNoteEndpoint_Accepted(t *testing.T) {
	stamp := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	notes := &mockNoteService{
		updateBowelNoteFunc: func(_ context.Context, id int64, patch models.BowelNotePatch, observed time.Time) (models.BowelNote, error) {
			assert.Equal(t, int64(7), id)
			require.NotNil(t, patch.BristolType)
			assert.Equal(t, 5, *patch.BristolType)
			assert.Equal(t, time.Date(2026, 3, 14, 9, 0, 0, 589_000_000, time.UTC), observed.UTC())
			return models.BowelNote{ID: id, BristolType: 5, LastUpdatedAt: stamp}, nil
		},
	}
	srv := newTestServer(t, notes)

	body := `{"bristolType":5,"currentLastUpdatedAt":"2026-03-14T09:00:00.589Z"}`
	resp := doRequest(t, http.MethodPatch, srv.URL+"/api/bowel-notes/7", body, true)

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.BowelNote
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	assert.Equal(t, stamp, updated.LastUpdatedAt)
}

func TestUpdateBowelNoteEndpoint_ConflictMapsTo409(t *testing.T) {
	notes := &mockNoteService{
		updateBowelNoteFunc: func(context.Context, int64, models.BowelNotePatch, time.Time) (models.BowelNote, error) {
			return models.BowelNote{}, store.ErrWatermarkConflict
		},
	}
	srv := newTestServer(t, notes)

	body := `{"notes":"x","currentLastUpdatedAt":"2026-03-14T09:00:00.589Z"}`
	resp := doRequest(t, http.MethodPatch, srv.URL+"/api/bowel-notes/7", body, true)

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestUpdateBowelNoteEndpoint_NotFoundMapsTo404(t *testing.T) {
	notes := &mockNoteService{
		updateBowelNoteFunc: func(context.Context, int64, models.BowelNotePatch, time.Time) (models.BowelNote, error) {
			return models.BowelNote{}, store.ErrNoteNotFound
		},
	}
	srv := newTestServer(t, notes)

	body := `{"notes":"x","currentLastUpdatedAt":"2026-03-14T09:00:00.589Z"}`
	resp := doRequest(t, http.MethodPatch, srv.URL+"/api/bowel-notes/404", body, true)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateBowelNoteEndpoint_MissingWatermarkMapsTo400(t *testing.T) {
	notes := &mockNoteService{
		updateBowelNoteFunc: func(_ context.Context, _ int64, _ models.BowelNotePatch, observed time.Time) (models.BowelNote, error) {
			assert.True(t, observed.IsZero())
			return models.BowelNote{}, service.ErrValidation
		},
	}
	srv := newTestServer(t, notes)

	resp := doRequest(t, http.MethodPatch, srv.URL+"/api/bowel-notes/7", `{"notes":"x"}`, true)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteCaseNoteEndpoint_WatermarkViaQuery(t *testing.T) {
	notes := &mockNoteService{
		deleteCaseNoteFunc: func(_ context.Context, id int64, observed time.Time) error {
			assert.Equal(t, int64(12), id)
			assert.Equal(t, time.Date(2026, 5, 2, 17, 0, 0, 0, time.UTC), observed.UTC())
			return nil
		},
	}
	srv := newTestServer(t, notes)

	resp := doRequest(t, http.MethodDelete,
		srv.URL+"/api/case-notes/12?currentLastUpdatedAt=2026-05-02T17:00:00Z", "", true)

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestDeleteCaseNoteEndpoint_MissingWatermark(t *testing.T) {
	srv := newTestServer(t, &mockNoteService{})

	resp := doRequest(t, http.MethodDelete, srv.URL+"/api/case-notes/12", "", true)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestNoteEndpoints_RequireAuthentication(t *testing.T) {
	srv := newTestServer(t, &mockNoteService{})

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/bowel-notes/7", "", false)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestVersionEndpoint_Public(t *testing.T) {
	srv := newTestServer(t, &mockNoteService{})

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/version", "", false)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
