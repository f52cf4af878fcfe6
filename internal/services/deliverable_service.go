package services

import (
	"errors"
	"time"

	"github.com/moesamiii/production/internal/events"
	"github.com/moesamiii/production/internal/models"
	"github.com/moesamiii/production/internal/report"
	"github.com/moesamiii/production/internal/repositories"
	"github.com/moesamiii/production/internal/services/dto"

	"gorm.io/gorm"
)

var (
	ErrInvalidCategory    = errors.New("invalid deliverable category")
	ErrInvalidProgress    = errors.New("progress must be between 0 and 100")
	ErrDeliverableMissing = repositories.ErrDeliverableNotFound
)

type DeliverableService interface {
	GetBuckets(db *gorm.DB) (*dto.DeliverableBuckets, error)
	Get(db *gorm.DB, id string) (*dto.DeliverableResponse, error)
	Create(db *gorm.DB, req *dto.CreateDeliverableRequest) (*dto.DeliverableResponse, error)
	Update(db *gorm.DB, id string, req *dto.UpdateDeliverableRequest) (*dto.DeliverableResponse, error)
	Delete(db *gorm.DB, id string) error
	SetApproval(db *gorm.DB, id string, approved bool) (*dto.DeliverableResponse, error)
	SetComment(db *gorm.DB, id string, comment string) (*dto.DeliverableResponse, error)
	Progress(db *gorm.DB) (*dto.ApprovalProgress, error)
	Report(db *gorm.DB, finalNotes string) (string, error)
}

type deliverableService struct {
	deliverableRepo repositories.DeliverableRepository
	publisher       events.Publisher
}

func NewDeliverableService(deliverableRepo repositories.DeliverableRepository, publisher events.Publisher) DeliverableService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &deliverableService{
		deliverableRepo: deliverableRepo,
		publisher:       publisher,
	}
}

// GetBuckets loads every deliverable ordered by creation time ascending
// and partitions the rows into the three category buckets.
func (s *deliverableService) GetBuckets(db *gorm.DB) (*dto.DeliverableBuckets, error) {
	deliverables, err := s.deliverableRepo.FindAll(db)
	if err != nil {
		return nil, err
	}

	buckets := &dto.DeliverableBuckets{
		Photos:      []dto.DeliverableResponse{},
		ShortVideos: []dto.DeliverableResponse{},
		LongVideos:  []dto.DeliverableResponse{},
	}
	for i := range deliverables {
		resp := dto.NewDeliverableResponse(&deliverables[i])
		switch deliverables[i].Category {
		case models.CategoryPhotos:
			buckets.Photos = append(buckets.Photos, resp)
		case models.CategoryShortVideos:
			buckets.ShortVideos = append(buckets.ShortVideos, resp)
		case models.CategoryLongVideos:
			buckets.LongVideos = append(buckets.LongVideos, resp)
		}
	}
	return buckets, nil
}

func (s *deliverableService) Get(db *gorm.DB, id string) (*dto.DeliverableResponse, error) {
	deliverable, err := s.deliverableRepo.FindByID(db, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewDeliverableResponse(deliverable)
	return &resp, nil
}

func (s *deliverableService) Create(db *gorm.DB, req *dto.CreateDeliverableRequest) (*dto.DeliverableResponse, error) {
	category := models.Category(req.Category)
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}

	status := req.Status
	if status == "" {
		status = models.DeliverableStatusPending
	}

	duration := req.Duration
	if category == models.CategoryPhotos {
		// Photos never carry a duration, whatever the form sent.
		duration = nil
	}

	if err := validateProgress(req.Progress); err != nil {
		return nil, err
	}
	progress := req.Progress
	if status != models.DeliverableStatusRendering {
		// Progress is only meaningful while rendering.
		progress = nil
	}

	deliverable := &models.Deliverable{
		Category: category,
		Title:    req.Title,
		URL:      req.URL,
		Status:   status,
		Duration: duration,
		Progress: progress,
	}

	if err := s.deliverableRepo.Create(db, deliverable); err != nil {
		return nil, err
	}

	resp := dto.NewDeliverableResponse(deliverable)
	s.publisher.Publish(events.ChangeEvent{
		Op:     events.OpInsert,
		Table:  events.TableDeliverables,
		NewRow: resp,
	})
	return &resp, nil
}

// Update edits a deliverable in place. The client's comment and approval
// flag are preserved across edits.
func (s *deliverableService) Update(db *gorm.DB, id string, req *dto.UpdateDeliverableRequest) (*dto.DeliverableResponse, error) {
	deliverable, err := s.deliverableRepo.FindByID(db, id)
	if err != nil {
		return nil, err
	}
	old := dto.NewDeliverableResponse(deliverable)

	if req.Category != nil {
		category := models.Category(*req.Category)
		if !category.Valid() {
			return nil, ErrInvalidCategory
		}
		deliverable.Category = category
	}
	if req.Title != nil {
		deliverable.Title = *req.Title
	}
	if req.URL != nil {
		deliverable.URL = *req.URL
	}
	if req.Status != nil {
		deliverable.Status = *req.Status
	}
	if req.Duration != nil {
		deliverable.Duration = req.Duration
	}
	if req.Progress != nil {
		if err := validateProgress(req.Progress); err != nil {
			return nil, err
		}
		deliverable.Progress = req.Progress
	}

	if deliverable.Category == models.CategoryPhotos {
		deliverable.Duration = nil
	}
	if deliverable.Status != models.DeliverableStatusRendering {
		deliverable.Progress = nil
	}

	if err := s.deliverableRepo.Update(db, deliverable); err != nil {
		return nil, err
	}

	resp := dto.NewDeliverableResponse(deliverable)
	s.publisher.Publish(events.ChangeEvent{
		Op:     events.OpUpdate,
		Table:  events.TableDeliverables,
		NewRow: resp,
		OldRow: old,
	})
	return &resp, nil
}

func (s *deliverableService) Delete(db *gorm.DB, id string) error {
	deliverable, err := s.deliverableRepo.FindByID(db, id)
	if err != nil {
		return err
	}

	if err := s.deliverableRepo.Delete(db, id); err != nil {
		return err
	}

	old := dto.NewDeliverableResponse(deliverable)
	s.publisher.Publish(events.ChangeEvent{
		Op:     events.OpDelete,
		Table:  events.TableDeliverables,
		OldRow: old,
	})
	return nil
}

func (s *deliverableService) SetApproval(db *gorm.DB, id string, approved bool) (*dto.DeliverableResponse, error) {
	if err := s.deliverableRepo.UpdateApproval(db, id, approved); err != nil {
		return nil, err
	}
	return s.publishUpdate(db, id)
}

// SetComment overwrites the single comment slot. Last write wins.
func (s *deliverableService) SetComment(db *gorm.DB, id string, comment string) (*dto.DeliverableResponse, error) {
	if err := s.deliverableRepo.UpdateComment(db, id, comment); err != nil {
		return nil, err
	}
	return s.publishUpdate(db, id)
}

func (s *deliverableService) Progress(db *gorm.DB) (*dto.ApprovalProgress, error) {
	approved, total, err := s.deliverableRepo.CountByApproval(db)
	if err != nil {
		return nil, err
	}
	return &dto.ApprovalProgress{Approved: approved, Total: total}, nil
}

// Report renders the plain-text client delivery report from the current
// state of all three buckets.
func (s *deliverableService) Report(db *gorm.DB, finalNotes string) (string, error) {
	deliverables, err := s.deliverableRepo.FindAll(db)
	if err != nil {
		return "", err
	}

	byCategory := make(map[models.Category][]report.Item)
	for _, d := range deliverables {
		byCategory[d.Category] = append(byCategory[d.Category], report.Item{
			Title:    d.Title,
			Approved: d.IsApproved,
			Comment:  d.Comment,
		})
	}

	sections := make([]report.Section, 0, len(models.Categories))
	for _, category := range models.Categories {
		sections = append(sections, report.Section{
			Heading: category.DisplayName(),
			Items:   byCategory[category],
		})
	}

	return report.Build(sections, finalNotes, time.Now()), nil
}

func (s *deliverableService) publishUpdate(db *gorm.DB, id string) (*dto.DeliverableResponse, error) {
	deliverable, err := s.deliverableRepo.FindByID(db, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewDeliverableResponse(deliverable)
	s.publisher.Publish(events.ChangeEvent{
		Op:     events.OpUpdate,
		Table:  events.TableDeliverables,
		NewRow: resp,
	})
	return &resp, nil
}

func validateProgress(progress *int) error {
	if progress == nil {
		return nil
	}
	if *progress < 0 || *progress > 100 {
		return ErrInvalidProgress
	}
	return nil
}
