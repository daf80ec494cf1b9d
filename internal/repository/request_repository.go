package repository

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/bytservice/repair-service-api/internal/models"
)

// GormRequestRepository is a GORM implementation of RequestRepository
type GormRequestRepository struct {
	db *gorm.DB
}

// NewRequestRepository creates a new RequestRepository
func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &GormRequestRepository{db: db}
}

// Create creates a new request
func (r *GormRequestRepository) Create(request *models.Request) error {
	return r.db.Create(request).Error
}

// FindByID finds a request by ID with optional preloading
func (r *GormRequestRepository) FindByID(id uint64, preload ...string) (*models.Request, error) {
	var request models.Request
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&request, id).Error; err != nil {
		return nil, err
	}

	return &request, nil
}

// filtered builds the scoped, filtered request query.
func (r *GormRequestRepository) filtered(filter RequestFilter) *gorm.DB {
	query := r.db.Model(&models.Request{}).
		Joins("LEFT JOIN users AS customers ON customers.id = requests.customer_id")

	if filter.OwnerID != nil {
		query = query.Where("requests.customer_id = ?", *filter.OwnerID)
	}
	if filter.AssignedOrUnassignedID != nil {
		query = query.Where(
			"requests.technician_id = ? OR requests.technician_id IS NULL",
			*filter.AssignedOrUnassignedID,
		)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"CAST(requests.id AS TEXT) LIKE ? OR LOWER(requests.appliance_type) LIKE ? OR LOWER(requests.problem_description) LIKE ? OR LOWER(customers.full_name) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if filter.Status != nil {
		query = query.Where("requests.status = ?", *filter.Status)
	}
	if filter.TechnicianID != nil {
		query = query.Where("requests.technician_id = ?", *filter.TechnicianID)
	}
	if filter.StartedAfter != nil {
		query = query.Where("requests.start_date >= ?", *filter.StartedAfter)
	}

	return query
}

// List retrieves requests with role scoping, filtering, and pagination,
// newest first.
func (r *GormRequestRepository) List(filter RequestFilter) ([]models.Request, int64, error) {
	query := r.filtered(filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("requests.created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		listQuery = listQuery.Offset(offset).Limit(filter.PageSize)
	}

	var requests []models.Request
	if err := listQuery.Preload("Customer").Preload("Technician").Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// Count returns the number of requests matching the filter
func (r *GormRequestRepository) Count(filter RequestFilter) (int64, error) {
	var total int64
	err := r.filtered(filter).Count(&total).Error
	return total, err
}

// Update updates a request
func (r *GormRequestRepository) Update(request *models.Request) error {
	return r.db.Save(request).Error
}

// Delete removes a request together with its comments
func (r *GormRequestRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("request_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Request{}, id).Error
	})
}

// AddComment attaches a comment to a request
func (r *GormRequestRepository) AddComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// ListComments returns the comments of a request, oldest first
func (r *GormRequestRepository) ListComments(requestID uint64) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.
		Preload("Author").
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// ListOverdue returns requests not ready for pickup that started before the
// cutoff, oldest first
func (r *GormRequestRepository) ListOverdue(cutoff time.Time) ([]models.Request, error) {
	var requests []models.Request
	err := r.db.
		Preload("Customer").
		Preload("Technician").
		Where("status <> ?", models.StatusReadyForPickup).
		Where("start_date < ?", cutoff).
		Order("start_date ASC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}
