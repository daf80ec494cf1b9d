package repository

import (
	"gorm.io/gorm"

	"github.com/bytservice/repair-service-api/internal/models"
)

// GormFeedbackRepository is a GORM implementation of FeedbackRepository
type GormFeedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository creates a new FeedbackRepository
func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &GormFeedbackRepository{db: db}
}

// Create stores a feedback entry
func (r *GormFeedbackRepository) Create(feedback *models.Feedback) error {
	return r.db.Create(feedback).Error
}

// ListByRequest returns feedback entries for a request, oldest first
func (r *GormFeedbackRepository) ListByRequest(requestID uint64) ([]models.Feedback, error) {
	var feedback []models.Feedback
	err := r.db.
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&feedback).Error
	if err != nil {
		return nil, err
	}
	return feedback, nil
}

// RatingCounts returns the number of feedback entries per rating value
func (r *GormFeedbackRepository) RatingCounts() (map[int]int64, error) {
	type ratingCount struct {
		Rating int
		Count  int64
	}

	var rows []ratingCount
	err := r.db.Model(&models.Feedback{}).
		Select("rating, COUNT(*) as count").
		Group("rating").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int64, len(rows))
	for _, row := range rows {
		counts[row.Rating] = row.Count
	}
	return counts, nil
}
