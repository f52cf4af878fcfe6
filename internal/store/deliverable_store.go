// Package store holds the client-side mirrors of the portal tables.
// Each store owns its local state, pushes every mutation to the remote
// backend, and reconciles pushed change events so all connected clients
// converge on the same view.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/moesamiii/production/internal/events"
	"github.com/moesamiii/production/internal/logger"
	"github.com/moesamiii/production/internal/models"
	"github.com/moesamiii/production/internal/report"
	"github.com/moesamiii/production/internal/services/dto"
)

// DeliverableBackend is the remote half the store syncs against.
type DeliverableBackend interface {
	ListDeliverables(ctx context.Context) (*dto.DeliverableBuckets, error)
	CreateDeliverable(ctx context.Context, req *dto.CreateDeliverableRequest) (*dto.DeliverableResponse, error)
	UpdateDeliverable(ctx context.Context, id string, req *dto.UpdateDeliverableRequest) (*dto.DeliverableResponse, error)
	DeleteDeliverable(ctx context.Context, id string) error
	SetApproval(ctx context.Context, id string, approved bool) (*dto.DeliverableResponse, error)
	SetComment(ctx context.Context, id string, comment string) (*dto.DeliverableResponse, error)
}

// Buckets partitions the mirror by category. The three slices are kept
// in ascending creation order.
type Buckets struct {
	Photos      []dto.DeliverableResponse
	ShortVideos []dto.DeliverableResponse
	LongVideos  []dto.DeliverableResponse
}

// DeliverableStore owns the local mirror of the deliverables table. All
// rendering reads from it; every mutation goes remote first, then the
// mirror, then the subscribed render callbacks.
type DeliverableStore struct {
	mu      sync.Mutex
	backend DeliverableBackend
	buckets Buckets
	subs    []func()
}

func NewDeliverableStore(backend DeliverableBackend) *DeliverableStore {
	return &DeliverableStore{
		backend: backend,
	}
}

// Subscribe registers a render callback invoked after any change to the
// mirror, local or pushed.
func (s *DeliverableStore) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Load replaces the mirror wholesale with the remote state. On
// transport error the mirror is reset to empty; callers treat the load
// as background work and only log the returned error.
func (s *DeliverableStore) Load(ctx context.Context) error {
	buckets, err := s.backend.ListDeliverables(ctx)

	s.mu.Lock()
	if err != nil {
		s.buckets = Buckets{}
	} else {
		s.buckets = Buckets{
			Photos:      append([]dto.DeliverableResponse(nil), buckets.Photos...),
			ShortVideos: append([]dto.DeliverableResponse(nil), buckets.ShortVideos...),
			LongVideos:  append([]dto.DeliverableResponse(nil), buckets.LongVideos...),
		}
	}
	s.mu.Unlock()

	s.notify()
	if err != nil {
		logger.Error("failed to load deliverables", "error", err)
	}
	return err
}

// Add creates a deliverable remotely and appends the returned row (with
// server-assigned id and timestamp) to its bucket. Local state is
// untouched on failure.
func (s *DeliverableStore) Add(ctx context.Context, req *dto.CreateDeliverableRequest) (*dto.DeliverableResponse, error) {
	created, err := s.backend.CreateDeliverable(ctx, req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.upsertLocked(*created)
	s.mu.Unlock()

	s.notify()
	return created, nil
}

// Remove deletes remotely, then filters the row out of its bucket.
func (s *DeliverableStore) Remove(ctx context.Context, id string) error {
	if err := s.backend.DeleteDeliverable(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	s.removeLocked(id)
	s.mu.Unlock()

	s.notify()
	return nil
}

// Edit updates a deliverable in place, keyed by its stable id. The
// client's comment and approval survive the edit.
func (s *DeliverableStore) Edit(ctx context.Context, id string, req *dto.UpdateDeliverableRequest) (*dto.DeliverableResponse, error) {
	updated, err := s.backend.UpdateDeliverable(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.upsertLocked(*updated)
	s.mu.Unlock()

	s.notify()
	return updated, nil
}

// SetApproval flips the local flag before the remote write completes so
// the checkbox and badge react immediately. There is no rollback: a
// failed write leaves the mirror ahead of the backend until the next
// load or pushed event.
func (s *DeliverableStore) SetApproval(ctx context.Context, id string, approved bool) error {
	s.mu.Lock()
	if row := s.findLocked(id); row != nil {
		row.IsApproved = approved
	}
	s.mu.Unlock()
	s.notify()

	if _, err := s.backend.SetApproval(ctx, id, approved); err != nil {
		logger.Error("approval write failed", "id", id, "error", err)
		return err
	}
	return nil
}

// SetComment overwrites the single comment slot. Last write wins.
func (s *DeliverableStore) SetComment(ctx context.Context, id string, comment string) error {
	s.mu.Lock()
	if row := s.findLocked(id); row != nil {
		row.Comment = comment
	}
	s.mu.Unlock()
	s.notify()

	if _, err := s.backend.SetComment(ctx, id, comment); err != nil {
		logger.Error("comment write failed", "id", id, "error", err)
		return err
	}
	return nil
}

// ApplyChange reconciles one pushed change event into the mirror,
// keyed by row id. Upserting by id keeps a pushed echo of our own
// write idempotent.
func (s *DeliverableStore) ApplyChange(op string, newRow, oldRow *dto.DeliverableResponse) {
	s.mu.Lock()
	switch op {
	case events.OpInsert, events.OpUpdate:
		if newRow != nil {
			s.upsertLocked(*newRow)
		}
	case events.OpDelete:
		if oldRow != nil {
			s.removeLocked(oldRow.ID)
		}
	}
	s.mu.Unlock()

	s.notify()
}

// Snapshot returns a copy of the buckets for rendering.
func (s *DeliverableStore) Snapshot() Buckets {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Buckets{
		Photos:      append([]dto.DeliverableResponse(nil), s.buckets.Photos...),
		ShortVideos: append([]dto.DeliverableResponse(nil), s.buckets.ShortVideos...),
		LongVideos:  append([]dto.DeliverableResponse(nil), s.buckets.LongVideos...),
	}
}

// Progress returns approved and total counts across all buckets.
func (s *DeliverableStore) Progress() (approved, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, bucket := range s.allLocked() {
		for _, row := range *bucket {
			total++
			if row.IsApproved {
				approved++
			}
		}
	}
	return approved, total
}

// Report renders the client delivery report from the local mirror.
func (s *DeliverableStore) Report(finalNotes string) string {
	s.mu.Lock()
	sections := []report.Section{
		{Heading: models.CategoryPhotos.DisplayName(), Items: reportItems(s.buckets.Photos)},
		{Heading: models.CategoryShortVideos.DisplayName(), Items: reportItems(s.buckets.ShortVideos)},
		{Heading: models.CategoryLongVideos.DisplayName(), Items: reportItems(s.buckets.LongVideos)},
	}
	s.mu.Unlock()

	return report.Build(sections, finalNotes, time.Now())
}

// --- internal ---

func (s *DeliverableStore) notify() {
	s.mu.Lock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

func (s *DeliverableStore) allLocked() []*[]dto.DeliverableResponse {
	return []*[]dto.DeliverableResponse{
		&s.buckets.Photos,
		&s.buckets.ShortVideos,
		&s.buckets.LongVideos,
	}
}

func (s *DeliverableStore) findLocked(id string) *dto.DeliverableResponse {
	for _, bucket := range s.allLocked() {
		for i := range *bucket {
			if (*bucket)[i].ID == id {
				return &(*bucket)[i]
			}
		}
	}
	return nil
}

func (s *DeliverableStore) removeLocked(id string) {
	for _, bucket := range s.allLocked() {
		filtered := (*bucket)[:0]
		for _, row := range *bucket {
			if row.ID != id {
				filtered = append(filtered, row)
			}
		}
		*bucket = filtered
	}
}

// upsertLocked removes any existing row with the same id (it may have
// changed buckets) and inserts the new version in creation order.
func (s *DeliverableStore) upsertLocked(row dto.DeliverableResponse) {
	s.removeLocked(row.ID)

	var bucket *[]dto.DeliverableResponse
	switch models.Category(row.Category) {
	case models.CategoryPhotos:
		bucket = &s.buckets.Photos
	case models.CategoryShortVideos:
		bucket = &s.buckets.ShortVideos
	case models.CategoryLongVideos:
		bucket = &s.buckets.LongVideos
	default:
		return
	}

	*bucket = append(*bucket, row)
	sort.SliceStable(*bucket, func(i, j int) bool {
		return (*bucket)[i].CreatedAt.Before((*bucket)[j].CreatedAt)
	})
}

func reportItems(rows []dto.DeliverableResponse) []report.Item {
	items := make([]report.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, report.Item{
			Title:    row.Title,
			Approved: row.IsApproved,
			Comment:  row.Comment,
		})
	}
	return items
}
