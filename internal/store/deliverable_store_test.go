package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moesamiii/production/internal/events"
	"github.com/moesamiii/production/internal/services/dto"
)

// fakeDeliverableBackend is an in-memory stand-in for the portal API.
type fakeDeliverableBackend struct {
	rows    map[string]dto.DeliverableResponse
	nextID  int
	failAll bool
}

func newFakeDeliverableBackend() *fakeDeliverableBackend {
	return &fakeDeliverableBackend{rows: make(map[string]dto.DeliverableResponse)}
}

var errBackendDown = errors.New("backend down")

func (f *fakeDeliverableBackend) ListDeliverables(ctx context.Context) (*dto.DeliverableBuckets, error) {
	if f.failAll {
		return nil, errBackendDown
	}
	buckets := &dto.DeliverableBuckets{}
	for _, row := range f.rows {
		switch row.Category {
		case "photos":
			buckets.Photos = append(buckets.Photos, row)
		case "shortVideos":
			buckets.ShortVideos = append(buckets.ShortVideos, row)
		case "longVideos":
			buckets.LongVideos = append(buckets.LongVideos, row)
		}
	}
	return buckets, nil
}

func (f *fakeDeliverableBackend) CreateDeliverable(ctx context.Context, req *dto.CreateDeliverableRequest) (*dto.DeliverableResponse, error) {
	if f.failAll {
		return nil, errBackendDown
	}
	f.nextID++
	row := dto.DeliverableResponse{
		ID:        fmt.Sprintf("d-%d", f.nextID),
		Category:  req.Category,
		Title:     req.Title,
		URL:       req.URL,
		Status:    req.Status,
		Duration:  req.Duration,
		Progress:  req.Progress,
		CreatedAt: time.Now().Add(time.Duration(f.nextID) * time.Millisecond),
	}
	if row.Status == "" {
		row.Status = "pending"
	}
	f.rows[row.ID] = row
	return &row, nil
}

func (f *fakeDeliverableBackend) UpdateDeliverable(ctx context.Context, id string, req *dto.UpdateDeliverableRequest) (*dto.DeliverableResponse, error) {
	if f.failAll {
		return nil, errBackendDown
	}
	row, ok := f.rows[id]
	if !ok {
		return nil, errors.New("not found")
	}
	if req.Category != nil {
		row.Category = *req.Category
	}
	if req.Title != nil {
		row.Title = *req.Title
	}
	if req.URL != nil {
		row.URL = *req.URL
	}
	if req.Status != nil {
		row.Status = *req.Status
	}
	f.rows[id] = row
	return &row, nil
}

func (f *fakeDeliverableBackend) DeleteDeliverable(ctx context.Context, id string) error {
	if f.failAll {
		return errBackendDown
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeDeliverableBackend) SetApproval(ctx context.Context, id string, approved bool) (*dto.DeliverableResponse, error) {
	if f.failAll {
		return nil, errBackendDown
	}
	row := f.rows[id]
	row.IsApproved = approved
	f.rows[id] = row
	return &row, nil
}

func (f *fakeDeliverableBackend) SetComment(ctx context.Context, id string, comment string) (*dto.DeliverableResponse, error) {
	if f.failAll {
		return nil, errBackendDown
	}
	row := f.rows[id]
	row.Comment = comment
	f.rows[id] = row
	return &row, nil
}

func TestDeliverableStore_AddAppearsInBucket(t *testing.T) {
	backend := newFakeDeliverableBackend()
	s := NewDeliverableStore(backend)

	created, err := s.Add(context.Background(), &dto.CreateDeliverableRequest{
		Category: "shortVideos",
		Title:    "Reel 01",
		URL:      "https://cdn.example.com/reel01.mp4",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "pending", created.Status)

	snap := s.Snapshot()
	require.Len(t, snap.ShortVideos, 1)
	assert.Equal(t, "Reel 01", snap.ShortVideos[0].Title)
	assert.Empty(t, snap.Photos)
	assert.Empty(t, snap.LongVideos)
}

func TestDeliverableStore_LoadResetsOnError(t *testing.T) {
	backend := newFakeDeliverableBackend()
	s := NewDeliverableStore(backend)

	_, err := s.Add(context.Background(), &dto.CreateDeliverableRequest{
		Category: "photos", Title: "Shot 01", URL: "https://cdn.example.com/1.jpg",
	})
	require.NoError(t, err)

	backend.failAll = true
	err = s.Load(context.Background())
	assert.Error(t, err)

	snap := s.Snapshot()
	assert.Empty(t, snap.Photos)
}

func TestDeliverableStore_RemoveFiltersBucket(t *testing.T) {
	backend := newFakeDeliverableBackend()
	s := NewDeliverableStore(backend)

	created, err := s.Add(context.Background(), &dto.CreateDeliverableRequest{
		Category: "longVideos", Title: "Final Cut", URL: "https://cdn.example.com/final.mp4",
	})
	require.NoError(t, err)

	require.NoError(t, s.Remove(context.Background(), created.ID))
	assert.Empty(t, s.Snapshot().LongVideos)
}

func TestDeliverableStore_EditPreservesFeedback(t *testing.T) {
	backend := newFakeDeliverableBackend()
	s := NewDeliverableStore(backend)

	created, err := s.Add(context.Background(), &dto.CreateDeliverableRequest{
		Category: "shortVideos", Title: "Reel 01", URL: "https://cdn.example.com/r1.mp4",
	})
	require.NoError(t, err)

	require.NoError(t, s.SetApproval(context.Background(), created.ID, true))
	require.NoError(t, s.SetComment(context.Background(), created.ID, "love the pacing"))

	newTitle := "Reel 01 v2"
	updated, err := s.Edit(context.Background(), created.ID, &dto.UpdateDeliverableRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "Reel 01 v2", updated.Title)

	snap := s.Snapshot()
	require.Len(t, snap.ShortVideos, 1)
	assert.Equal(t, "Reel 01 v2", snap.ShortVideos[0].Title)
	assert.True(t, snap.ShortVideos[0].IsApproved)
	assert.Equal(t, "love the pacing", snap.ShortVideos[0].Comment)
}

func TestDeliverableStore_ApprovalIsOptimistic(t *testing.T) {
	backend := newFakeDeliverableBackend()
	s := NewDeliverableStore(backend)

	created, err := s.Add(context.Background(), &dto.CreateDeliverableRequest{
		Category: "photos", Title: "Shot 01", URL: "https://cdn.example.com/1.jpg",
	})
	require.NoError(t, err)

	backend.failAll = true
	err = s.SetApproval(context.Background(), created.ID, true)
	assert.Error(t, err)

	// The flag flipped locally even though the write failed.
	snap := s.Snapshot()
	require.Len(t, snap.Photos, 1)
	assert.True(t, snap.Photos[0].IsApproved)
}

func TestDeliverableStore_ApprovalToggleBack(t *testing.T) {
	backend := newFakeDeliverableBackend()
	s := NewDeliverableStore(backend)

	created, err := s.Add(context.Background(), &dto.CreateDeliverableRequest{
		Category: "photos", Title: "Shot 01", URL: "https://cdn.example.com/1.jpg",
	})
	require.NoError(t, err)

	require.NoError(t, s.SetApproval(context.Background(), created.ID, true))
	require.NoError(t, s.SetApproval(context.Background(), created.ID, false))

	snap := s.Snapshot()
	assert.False(t, snap.Photos[0].IsApproved)
	assert.False(t, backend.rows[created.ID].IsApproved)
}

func TestDeliverableStore_AddThenLoadRoundTrip(t *testing.T) {
	backend := newFakeDeliverableBackend()
	s := NewDeliverableStore(backend)

	duration := "0:28"
	_, err := s.Add(context.Background(), &dto.CreateDeliverableRequest{
		Category: "shortVideos",
		Title:    "Reel 01",
		URL:      "https://cdn.example.com/reel01.mp4",
		Status:   "uploaded",
		Duration: &duration,
	})
	require.NoError(t, err)

	require.NoError(t, s.Load(context.Background()))

	snap := s.Snapshot()
	require.Len(t, snap.ShortVideos, 1)
	row := snap.ShortVideos[0]
	assert.Equal(t, "Reel 01", row.Title)
	assert.Equal(t, "uploaded", row.Status)
	require.NotNil(t, row.Duration)
	assert.Equal(t, "0:28", *row.Duration)
	assert.False(t, row.IsApproved)
	assert.Empty(t, row.Comment)
}

func TestDeliverableStore_CommentLastWriteWins(t *testing.T) {
	backend := newFakeDeliverableBackend()
	s := NewDeliverableStore(backend)

	created, err := s.Add(context.Background(), &dto.CreateDeliverableRequest{
		Category: "photos", Title: "Shot 01", URL: "https://cdn.example.com/1.jpg",
	})
	require.NoError(t, err)

	require.NoError(t, s.SetComment(context.Background(), created.ID, "first pass"))
	require.NoError(t, s.SetComment(context.Background(), created.ID, "second pass"))

	snap := s.Snapshot()
	assert.Equal(t, "second pass", snap.Photos[0].Comment)
	assert.Equal(t, "second pass", backend.rows[created.ID].Comment)
}

func TestDeliverableStore_ApplyChangeReconciles(t *testing.T) {
	s := NewDeliverableStore(newFakeDeliverableBackend())

	row := dto.DeliverableResponse{
		ID: "d-remote", Category: "shortVideos", Title: "Reel 02",
		URL: "https://cdn.example.com/r2.mp4", Status: "uploaded",
		CreatedAt: time.Now(),
	}
	s.ApplyChange(events.OpInsert, &row, nil)
	require.Len(t, s.Snapshot().ShortVideos, 1)

	// The update echo of the same row must not duplicate it.
	row.Title = "Reel 02 final"
	s.ApplyChange(events.OpUpdate, &row, nil)
	snap := s.Snapshot()
	require.Len(t, snap.ShortVideos, 1)
	assert.Equal(t, "Reel 02 final", snap.ShortVideos[0].Title)

	s.ApplyChange(events.OpDelete, nil, &row)
	assert.Empty(t, s.Snapshot().ShortVideos)
}

func TestDeliverableStore_ApplyChangeMovesBuckets(t *testing.T) {
	s := NewDeliverableStore(newFakeDeliverableBackend())

	row := dto.DeliverableResponse{
		ID: "d-1", Category: "shortVideos", Title: "Clip",
		URL: "https://cdn.example.com/c.mp4", CreatedAt: time.Now(),
	}
	s.ApplyChange(events.OpInsert, &row, nil)

	row.Category = "longVideos"
	s.ApplyChange(events.OpUpdate, &row, nil)

	snap := s.Snapshot()
	assert.Empty(t, snap.ShortVideos)
	require.Len(t, snap.LongVideos, 1)
}

func TestDeliverableStore_SubscribersFireOnEveryChange(t *testing.T) {
	s := NewDeliverableStore(newFakeDeliverableBackend())

	var calls int
	s.Subscribe(func() { calls++ })

	row := dto.DeliverableResponse{ID: "d-1", Category: "photos", CreatedAt: time.Now()}
	s.ApplyChange(events.OpInsert, &row, nil)
	s.ApplyChange(events.OpDelete, nil, &row)

	assert.Equal(t, 2, calls)
}

func TestDeliverableStore_Progress(t *testing.T) {
	backend := newFakeDeliverableBackend()
	s := NewDeliverableStore(backend)

	ids := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		created, err := s.Add(context.Background(), &dto.CreateDeliverableRequest{
			Category: "photos",
			Title:    fmt.Sprintf("Shot %02d", i+1),
			URL:      fmt.Sprintf("https://cdn.example.com/%d.jpg", i+1),
		})
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	require.NoError(t, s.SetApproval(context.Background(), ids[0], true))
	require.NoError(t, s.SetApproval(context.Background(), ids[2], true))

	approved, total := s.Progress()
	assert.Equal(t, 2, approved)
	assert.Equal(t, 3, total)
}

func TestDeliverableStore_Report(t *testing.T) {
	backend := newFakeDeliverableBackend()
	s := NewDeliverableStore(backend)

	first, err := s.Add(context.Background(), &dto.CreateDeliverableRequest{
		Category: "photos", Title: "Shot 01", URL: "https://cdn.example.com/1.jpg",
	})
	require.NoError(t, err)
	_, err = s.Add(context.Background(), &dto.CreateDeliverableRequest{
		Category: "shortVideos", Title: "Reel 01", URL: "https://cdn.example.com/r1.mp4",
	})
	require.NoError(t, err)

	require.NoError(t, s.SetApproval(context.Background(), first.ID, true))
	require.NoError(t, s.SetComment(context.Background(), first.ID, "crop tighter"))

	text := s.Report("great batch overall")
	assert.Contains(t, text, "=== CLIENT DELIVERY PORTAL REPORT ===")
	assert.Contains(t, text, "Progress: 1/2 items approved")
	assert.Contains(t, text, "--- Pictures ---")
	assert.Contains(t, text, "Shot 01\nStatus: APPROVED ✓\nComment: crop tighter")
	assert.Contains(t, text, "Reel 01\nStatus: PENDING")
	assert.Contains(t, text, "--- FINAL NOTES ---\ngreat batch overall")
}
