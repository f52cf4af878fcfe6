package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moesamiii/production/internal/services/dto"
)

func newTestAPI(t *testing.T) (*Client, *http.ServeMux) {
	t.Helper()
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return New(server.URL), mux
}

func TestClient_ListDeliverables(t *testing.T) {
	c, mux := newTestAPI(t)

	mux.HandleFunc("/api/v1/deliverables", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		json.NewEncoder(w).Encode(dto.DeliverableBuckets{
			Photos: []dto.DeliverableResponse{{ID: "d-1", Category: "photos", Title: "Shot 01"}},
		})
	})

	buckets, err := c.ListDeliverables(context.Background())
	require.NoError(t, err)
	require.Len(t, buckets.Photos, 1)
	assert.Equal(t, "Shot 01", buckets.Photos[0].Title)
}

func TestClient_CreateSendsToken(t *testing.T) {
	c, mux := newTestAPI(t)

	mux.HandleFunc("/api/v1/auth/admin/login", func(w http.ResponseWriter, r *http.Request) {
		var req dto.AdminLoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "s3cret", req.Password)
		json.NewEncoder(w).Encode(dto.AdminLoginResponse{
			Token: "token-123", ExpiresAt: time.Now().Add(time.Hour),
		})
	})
	mux.HandleFunc("/api/v1/deliverables", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req dto.CreateDeliverableRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(dto.DeliverableResponse{
			ID: "d-1", Category: req.Category, Title: req.Title, URL: req.URL, Status: "pending",
		})
	})

	_, err := c.AdminLogin(context.Background(), "s3cret")
	require.NoError(t, err)
	assert.True(t, c.IsAdmin())

	created, err := c.CreateDeliverable(context.Background(), &dto.CreateDeliverableRequest{
		Category: "photos", Title: "Shot 01", URL: "https://cdn.example.com/1.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "d-1", created.ID)

	c.Logout()
	assert.False(t, c.IsAdmin())
}

func TestClient_DecodesErrorEnvelope(t *testing.T) {
	c, mux := newTestAPI(t)

	mux.HandleFunc("/api/v1/deliverables/d-404/comment", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"code":"NOT_FOUND","domain":"api","message":"deliverable not found"}}`))
	})

	_, err := c.SetComment(context.Background(), "d-404", "hello")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
	assert.Equal(t, "deliverable not found", apiErr.Message)
}

func TestClient_RecentMessages(t *testing.T) {
	c, mux := newTestAPI(t)

	mux.HandleFunc("/api/v1/messages", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"messages": []dto.MessageResponse{
				{ID: 1, UserID: "user_a", UserName: "Ann", Message: "hi"},
				{ID: 2, UserID: "user_b", UserName: "Bob", Message: "hello"},
			},
			"total": 2,
		})
	})

	messages, err := c.RecentMessages(context.Background(), 25)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, int64(1), messages[0].ID)
}

func TestClient_DownloadReport(t *testing.T) {
	c, mux := newTestAPI(t)

	mux.HandleFunc("/api/v1/deliverables/report", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "wrap by friday", r.URL.Query().Get("notes"))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("=== CLIENT DELIVERY PORTAL REPORT ===\n"))
	})

	text, err := c.DownloadReport(context.Background(), "wrap by friday")
	require.NoError(t, err)
	assert.Contains(t, text, "CLIENT DELIVERY PORTAL REPORT")
}
