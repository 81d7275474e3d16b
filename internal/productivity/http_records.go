package productivity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ecolife-backend/internal/models"
)

const documentPath = "/api/me/productivity"

// MissingRecordMessage is the error the document service sends with a 404 when the
// user simply has no record yet. Any other 404 (a wrong base URL, say) is an error.
const MissingRecordMessage = "No productivity record yet."

// HTTPRecords is a RecordStore backed by the document service. The bearer token
// identifies the user; the userID arguments only have to match it.
type HTTPRecords struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewHTTPRecords(baseURL, token string, client *http.Client) *HTTPRecords {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPRecords{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  client,
	}
}

// APIError is a non-2xx answer from the document service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("document service returned %d", e.Status)
	}
	return fmt.Sprintf("document service returned %d: %s", e.Status, e.Message)
}

func (h *HTTPRecords) Load(ctx context.Context, userID string) (*models.ProductivityRecord, error) {
	resp, err := h.do(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := apiError(resp)
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound && apiErr.Message == MissingRecordMessage {
			return nil, nil
		}
		return nil, err
	}

	var record models.ProductivityRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("decode productivity record: %w", err)
	}
	return &record, nil
}

func (h *HTTPRecords) Save(ctx context.Context, userID string, record models.ProductivityRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode productivity record: %w", err)
	}

	resp, err := h.do(ctx, http.MethodPut, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (h *HTTPRecords) do(ctx context.Context, method string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+documentPath, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, documentPath, err)
	}
	return resp, nil
}

func apiError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)
	return &APIError{Status: resp.StatusCode, Message: body.Error}
}
