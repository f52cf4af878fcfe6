// Package client talks to the portal API over HTTP and websocket. It
// implements the backend interfaces the stores sync against.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/moesamiii/production/internal/services/dto"
)

// APIError is a non-2xx response decoded from the server's error
// envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client is the REST half of the portal client. It satisfies both
// store.DeliverableBackend and store.ChatBackend. The admin token set
// by AdminLogin lives only in memory.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// --- deliverables ---

func (c *Client) ListDeliverables(ctx context.Context) (*dto.DeliverableBuckets, error) {
	var buckets dto.DeliverableBuckets
	if err := c.do(ctx, http.MethodGet, "/api/v1/deliverables", nil, &buckets); err != nil {
		return nil, err
	}
	return &buckets, nil
}

func (c *Client) CreateDeliverable(ctx context.Context, req *dto.CreateDeliverableRequest) (*dto.DeliverableResponse, error) {
	var created dto.DeliverableResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/deliverables", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateDeliverable(ctx context.Context, id string, req *dto.UpdateDeliverableRequest) (*dto.DeliverableResponse, error) {
	var updated dto.DeliverableResponse
	if err := c.do(ctx, http.MethodPut, "/api/v1/deliverables/"+id, req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteDeliverable(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/deliverables/"+id, nil, nil)
}

func (c *Client) SetApproval(ctx context.Context, id string, approved bool) (*dto.DeliverableResponse, error) {
	req := dto.SetApprovalRequest{Approved: &approved}
	var updated dto.DeliverableResponse
	if err := c.do(ctx, http.MethodPatch, "/api/v1/deliverables/"+id+"/approval", req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) SetComment(ctx context.Context, id string, comment string) (*dto.DeliverableResponse, error) {
	req := dto.SetCommentRequest{Comment: comment}
	var updated dto.DeliverableResponse
	if err := c.do(ctx, http.MethodPatch, "/api/v1/deliverables/"+id+"/comment", req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DownloadReport fetches the rendered delivery report as plain text.
func (c *Client) DownloadReport(ctx context.Context, notes string) (string, error) {
	httpReq, err := c.newRequest(ctx, http.MethodGet, "/api/v1/deliverables/report?notes="+url.QueryEscape(notes), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", decodeAPIError(resp.StatusCode, body)
	}
	return string(body), nil
}

// --- chat ---

func (c *Client) RecentMessages(ctx context.Context, limit int) ([]dto.MessageResponse, error) {
	path := "/api/v1/messages"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}

	var payload struct {
		Messages []dto.MessageResponse `json:"messages"`
		Total    int                   `json:"total"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Messages, nil
}

func (c *Client) SendMessage(ctx context.Context, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	var sent dto.MessageResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/messages", req, &sent); err != nil {
		return nil, err
	}
	return &sent, nil
}

// --- auth ---

// AdminLogin exchanges the password for a bearer token and keeps it for
// subsequent management calls.
func (c *Client) AdminLogin(ctx context.Context, password string) (*dto.AdminLoginResponse, error) {
	req := dto.AdminLoginRequest{Password: password}
	var resp dto.AdminLoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/admin/login", req, &resp); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.token = resp.Token
	c.mu.Unlock()
	return &resp, nil
}

// Logout drops the admin token.
func (c *Client) Logout() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// IsAdmin reports whether an admin token is held.
func (c *Client) IsAdmin() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

// --- internal ---

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp.StatusCode, payload)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(payload, out)
}

func decodeAPIError(status int, body []byte) error {
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return &APIError{StatusCode: status, Code: envelope.Error.Code, Message: envelope.Error.Message}
	}
	return &APIError{StatusCode: status, Message: http.StatusText(status)}
}
