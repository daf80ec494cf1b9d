package services

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/bytservice/repair-service-api/internal/models"
	"github.com/bytservice/repair-service-api/internal/repository"
)

var (
	ErrRequestNotCompleted = errors.New("request not found or not ready for pickup")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
)

// QualityService is the quality/feedback collaborator: overdue monitoring,
// feedback QR codes, and rating capture keyed by request id.
type QualityService struct {
	requestRepo  repository.RequestRepository
	feedbackRepo repository.FeedbackRepository
	overdueDays  int
}

// NewQualityService creates a new QualityService.
func NewQualityService(requestRepo repository.RequestRepository, feedbackRepo repository.FeedbackRepository, overdueDays int) *QualityService {
	return &QualityService{
		requestRepo:  requestRepo,
		feedbackRepo: feedbackRepo,
		overdueDays:  overdueDays,
	}
}

// QRCode bundles a generated feedback QR code with its target URL.
type QRCode struct {
	DataURL     string `json:"qr_code"`
	FeedbackURL string `json:"feedback_url"`
}

// QualityStats aggregates captured feedback.
type QualityStats struct {
	TotalRatings     int64         `json:"total_ratings"`
	AvgRating        float64       `json:"avg_rating"`
	OverdueCount     int64         `json:"overdue_count"`
	SatisfactionRate float64       `json:"satisfaction_rate"`
	RatingCounts     map[int]int64 `json:"rating_counts"`
}

// ListOverdue returns unfinished requests older than the overdue threshold,
// oldest first.
func (s *QualityService) ListOverdue() ([]models.Request, error) {
	requests, err := s.requestRepo.ListOverdue(s.overdueCutoff())
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue requests: %w", err)
	}
	return requests, nil
}

// CountOverdue returns the number of overdue requests; used by the
// scheduled scan.
func (s *QualityService) CountOverdue() (int64, error) {
	requests, err := s.requestRepo.ListOverdue(s.overdueCutoff())
	if err != nil {
		return 0, fmt.Errorf("failed to count overdue requests: %w", err)
	}
	return int64(len(requests)), nil
}

// GenerateQRCode produces a PNG QR code pointing at the public feedback
// page. Only completed requests qualify.
func (s *QualityService) GenerateQRCode(requestID uint64, baseURL string) (*QRCode, error) {
	if _, err := s.completedRequest(requestID); err != nil {
		return nil, err
	}

	feedbackURL := fmt.Sprintf("%s/quality/feedback/%d", baseURL, requestID)
	png, err := qrcode.Encode(feedbackURL, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	return &QRCode{
		DataURL:     "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		FeedbackURL: feedbackURL,
	}, nil
}

// GetFeedbackRequest returns the completed request shown on the public
// feedback page.
func (s *QualityService) GetFeedbackRequest(requestID uint64) (*models.Request, error) {
	return s.completedRequest(requestID)
}

// SubmitFeedback captures a rating for a completed request.
func (s *QualityService) SubmitFeedback(requestID uint64, rating int, message string) (*models.Feedback, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	if _, err := s.completedRequest(requestID); err != nil {
		return nil, err
	}

	feedback := &models.Feedback{
		RequestID: requestID,
		Rating:    rating,
		Message:   message,
	}
	if err := s.feedbackRepo.Create(feedback); err != nil {
		return nil, fmt.Errorf("failed to store feedback: %w", err)
	}

	return feedback, nil
}

// GetStats aggregates captured ratings and the current overdue backlog.
func (s *QualityService) GetStats() (*QualityStats, error) {
	counts, err := s.feedbackRepo.RatingCounts()
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ratings: %w", err)
	}

	stats := &QualityStats{RatingCounts: counts}
	var weighted int64
	for rating, count := range counts {
		stats.TotalRatings += count
		weighted += int64(rating) * count
		if rating >= 4 {
			stats.SatisfactionRate += float64(count)
		}
	}
	if stats.TotalRatings > 0 {
		stats.AvgRating = float64(weighted) / float64(stats.TotalRatings)
		stats.SatisfactionRate = stats.SatisfactionRate / float64(stats.TotalRatings) * 100
	}

	overdue, err := s.CountOverdue()
	if err != nil {
		return nil, err
	}
	stats.OverdueCount = overdue

	return stats, nil
}

func (s *QualityService) completedRequest(requestID uint64) (*models.Request, error) {
	request, err := s.requestRepo.FindByID(requestID, "Customer", "Technician")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotCompleted
		}
		return nil, fmt.Errorf("failed to find request: %w", err)
	}
	if request.Status != models.StatusReadyForPickup {
		return nil, ErrRequestNotCompleted
	}
	return request, nil
}

func (s *QualityService) overdueCutoff() time.Time {
	return time.Now().AddDate(0, 0, -s.overdueDays)
}
