package repositories

import (
	"errors"

	"github.com/moesamiii/production/internal/models"

	"gorm.io/gorm"
)

var (
	ErrDeliverableNotFound = errors.New("deliverable not found")
	ErrInvalidCategory     = errors.New("invalid deliverable category")
)

type DeliverableRepository interface {
	Create(db *gorm.DB, deliverable *models.Deliverable) error
	FindByID(db *gorm.DB, id string) (*models.Deliverable, error)
	FindAll(db *gorm.DB) ([]models.Deliverable, error)
	FindByCategory(db *gorm.DB, category models.Category) ([]models.Deliverable, error)
	Update(db *gorm.DB, deliverable *models.Deliverable) error
	UpdateApproval(db *gorm.DB, id string, approved bool) error
	UpdateComment(db *gorm.DB, id string, comment string) error
	Delete(db *gorm.DB, id string) error
	CountByApproval(db *gorm.DB) (approved int64, total int64, err error)
}

type DeliverableRepositoryImpl struct{}

func NewDeliverableRepository() DeliverableRepository {
	return &DeliverableRepositoryImpl{}
}

func (r *DeliverableRepositoryImpl) Create(db *gorm.DB, deliverable *models.Deliverable) error {
	if !deliverable.Category.Valid() {
		return ErrInvalidCategory
	}
	return db.Create(deliverable).Error
}

func (r *DeliverableRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Deliverable, error) {
	var deliverable models.Deliverable
	err := db.First(&deliverable, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeliverableNotFound
		}
		return nil, err
	}
	return &deliverable, nil
}

// FindAll returns every deliverable ordered by creation time ascending,
// the order the portal renders them in.
func (r *DeliverableRepositoryImpl) FindAll(db *gorm.DB) ([]models.Deliverable, error) {
	var deliverables []models.Deliverable
	err := db.Order("created_at ASC").Find(&deliverables).Error
	return deliverables, err
}

func (r *DeliverableRepositoryImpl) FindByCategory(db *gorm.DB, category models.Category) ([]models.Deliverable, error) {
	var deliverables []models.Deliverable
	err := db.Where("category = ?", category).
		Order("created_at ASC").
		Find(&deliverables).Error
	return deliverables, err
}

// Update writes the admin-editable fields in place. Comment and approval
// state are deliberately left untouched so an edit never discards client
// feedback.
func (r *DeliverableRepositoryImpl) Update(db *gorm.DB, deliverable *models.Deliverable) error {
	if !deliverable.Category.Valid() {
		return ErrInvalidCategory
	}

	result := db.Model(&models.Deliverable{}).
		Where("id = ?", deliverable.ID).
		Updates(map[string]interface{}{
			"category": deliverable.Category,
			"title":    deliverable.Title,
			"url":      deliverable.URL,
			"status":   deliverable.Status,
			"duration": deliverable.Duration,
			"progress": deliverable.Progress,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDeliverableNotFound
	}
	return nil
}

func (r *DeliverableRepositoryImpl) UpdateApproval(db *gorm.DB, id string, approved bool) error {
	result := db.Model(&models.Deliverable{}).
		Where("id = ?", id).
		Update("is_approved", approved)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDeliverableNotFound
	}
	return nil
}

// UpdateComment overwrites the single comment slot. Last write wins, no
// history is kept.
func (r *DeliverableRepositoryImpl) UpdateComment(db *gorm.DB, id string, comment string) error {
	result := db.Model(&models.Deliverable{}).
		Where("id = ?", id).
		Update("comment", comment)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDeliverableNotFound
	}
	return nil
}

func (r *DeliverableRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.Deliverable{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDeliverableNotFound
	}
	return nil
}

func (r *DeliverableRepositoryImpl) CountByApproval(db *gorm.DB) (int64, int64, error) {
	var approved, total int64
	if err := db.Model(&models.Deliverable{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := db.Model(&models.Deliverable{}).Where("is_approved = ?", true).Count(&approved).Error; err != nil {
		return 0, 0, err
	}
	return approved, total, nil
}
