package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/oakstead/careledger/internal/logger"
	"github.com/oakstead/careledger/internal/utils"
	"github.com/oakstead/careledger/models"
)

// Config carries the settings of the HTTP adapter.
type Config struct {
	// BaseURL is the root of the careledger API, e.g. "http://localhost:8080".
	BaseURL string

	// RequestTimeout bounds each request. Defaults to 15 seconds.
	RequestTimeout time.Duration
}

type httpServerAdapter struct {
	client *resty.Client
	token  string
	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [ServerAdapter]. It normalises and validates cfg.BaseURL and configures the
// underlying client with the resolved base URL and request timeout.
func NewHTTPServerAdapter(cfg Config, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter base url: %w", err)
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout)

	return &httpServerAdapter{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [ServerAdapter]. It stores token (whitespace-trimmed)
// for use in the Authorization header of all subsequent requests.
func (h *httpServerAdapter) SetToken(token string) {
	h.token = strings.TrimSpace(token)
}

// Token implements [ServerAdapter].
func (h *httpServerAdapter) Token() string {
	return h.token
}

// Login implements [ServerAdapter]. It POSTs the credentials to
// POST /api/auth/login and stores the bearer token from the Authorization
// response header via SetToken.
func (h *httpServerAdapter) Login(ctx context.Context, email, password string) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"email": email, "password": password}).
		Post("/api/auth/login")
	if err != nil {
		return fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return fmt.Errorf("login parse bearer token: %w", err)
	}

	h.SetToken(token)
	return nil
}

func (h *httpServerAdapter) CreateBowelNote(ctx context.Context, note models.BowelNote) (models.BowelNote, error) {
	var created models.BowelNote
	err := h.postJSON(ctx, fmt.Sprintf("/api/clients/%d/bowel-notes", note.ClientID), note, &created)
	if err != nil {
		return models.BowelNote{}, fmt.Errorf("create bowel note: %w", err)
	}
	return created, nil
}

func (h *httpServerAdapter) GetBowelNote(ctx context.Context, id int64) (models.BowelNote, error) {
	var note models.BowelNote
	if err := h.getJSON(ctx, fmt.Sprintf("/api/bowel-notes/%d", id), &note); err != nil {
		return models.BowelNote{}, fmt.Errorf("get bowel note: %w", err)
	}
	return note, nil
}

func (h *httpServerAdapter) ListBowelNotes(ctx context.Context, clientID int64) ([]models.BowelNote, error) {
	var notes []models.BowelNote
	if err := h.getJSON(ctx, fmt.Sprintf("/api/clients/%d/bowel-notes", clientID), &notes); err != nil {
		return nil, fmt.Errorf("list bowel notes: %w", err)
	}
	return notes, nil
}

// UpdateBowelNote implements [ServerAdapter]. The observed watermark travels
// in the request body next to the patch fields; a stale value surfaces as
// [ErrConflict].
func (h *httpServerAdapter) UpdateBowelNote(ctx context.Context, id int64, patch models.BowelNotePatch, observed time.Time) (models.BowelNote, error) {
	body := struct {
		models.BowelNotePatch
		CurrentLastUpdatedAt time.Time `json:"currentLastUpdatedAt"`
	}{BowelNotePatch: patch, CurrentLastUpdatedAt: observed}

	var updated models.BowelNote
	if err := h.patchJSON(ctx, fmt.Sprintf("/api/bowel-notes/%d", id), body, &updated); err != nil {
		return models.BowelNote{}, fmt.Errorf("update bowel note: %w", err)
	}
	return updated, nil
}

func (h *httpServerAdapter) CreateCaseNote(ctx context.Context, note models.CaseNote) (models.CaseNote, error) {
	var created models.CaseNote
	err := h.postJSON(ctx, fmt.Sprintf("/api/clients/%d/case-notes", note.ClientID), note, &created)
	if err != nil {
		return models.CaseNote{}, fmt.Errorf("create case note: %w", err)
	}
	return created, nil
}

func (h *httpServerAdapter) GetCaseNote(ctx context.Context, id int64) (models.CaseNote, error) {
	var note models.CaseNote
	if err := h.getJSON(ctx, fmt.Sprintf("/api/case-notes/%d", id), &note); err != nil {
		return models.CaseNote{}, fmt.Errorf("get case note: %w", err)
	}
	return note, nil
}

func (h *httpServerAdapter) UpdateCaseNote(ctx context.Context, id int64, patch models.CaseNotePatch, observed time.Time) (models.CaseNote, error) {
	body := struct {
		models.CaseNotePatch
		CurrentLastUpdatedAt time.Time `json:"currentLastUpdatedAt"`
	}{CaseNotePatch: patch, CurrentLastUpdatedAt: observed}

	var updated models.CaseNote
	if err := h.patchJSON(ctx, fmt.Sprintf("/api/case-notes/%d", id), body, &updated); err != nil {
		return models.CaseNote{}, fmt.Errorf("update case note: %w", err)
	}
	return updated, nil
}

// DeleteCaseNote implements [ServerAdapter]. DELETE requests carry no body,
// so the observed watermark travels as the currentLastUpdatedAt query
// parameter.
func (h *httpServerAdapter) DeleteCaseNote(ctx context.Context, id int64, observed time.Time) error {
	resp, err := h.authedRequest(ctx).
		SetQueryParam("currentLastUpdatedAt", observed.Format(time.RFC3339Nano)).
		Delete(fmt.Sprintf("/api/case-notes/%d", id))
	if err != nil {
		return fmt.Errorf("delete case note: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpServerAdapter) DocumentURL(ctx context.Context, id int64) (string, error) {
	var result struct {
		URL string `json:"url"`
	}
	if err := h.getJSON(ctx, fmt.Sprintf("/api/documents/%d/url", id), &result); err != nil {
		return "", fmt.Errorf("document url: %w", err)
	}
	return result.URL, nil
}

func (h *httpServerAdapter) getJSON(ctx context.Context, path string, out any) error {
	resp, err := h.authedRequest(ctx).Get(path)
	if err != nil {
		return err
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	return json.Unmarshal(resp.Body(), out)
}

func (h *httpServerAdapter) postJSON(ctx context.Context, path string, body, out any) error {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(path)
	if err != nil {
		return err
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	return json.Unmarshal(resp.Body(), out)
}

func (h *httpServerAdapter) patchJSON(ctx context.Context, path string, body, out any) error {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Patch(path)
	if err != nil {
		return err
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	return json.Unmarshal(resp.Body(), out)
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}
