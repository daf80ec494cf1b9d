package services

import (
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/bytservice/repair-service-api/internal/models"
	"github.com/bytservice/repair-service-api/internal/repository"
)

// StatisticsService is the read-only reporting collaborator: it aggregates
// over the lifecycle engine's data and owns nothing itself.
type StatisticsService struct {
	db          *gorm.DB
	requestRepo repository.RequestRepository
}

// NewStatisticsService creates a new StatisticsService.
func NewStatisticsService(db *gorm.DB, requestRepo repository.RequestRepository) *StatisticsService {
	return &StatisticsService{
		db:          db,
		requestRepo: requestRepo,
	}
}

// StatusCount is a per-status request tally.
type StatusCount struct {
	Status models.RequestStatus `json:"status"`
	Count  int64                `json:"count"`
}

// TypeCount is a per-appliance-type request tally.
type TypeCount struct {
	ApplianceType string `json:"appliance_type"`
	Count         int64  `json:"count"`
}

// TechnicianStat aggregates a technician's workload.
type TechnicianStat struct {
	TechnicianName string  `json:"technician_name"`
	Total          int64   `json:"total"`
	Completed      int64   `json:"completed"`
	Active         int64   `json:"active"`
	Efficiency     float64 `json:"efficiency"`
}

// DayCount is a per-day request intake tally.
type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// Dashboard is the aggregate statistics view.
type Dashboard struct {
	TotalRequests     int64            `json:"total_requests"`
	ActiveRequests    int64            `json:"active_requests"`
	CompletedRequests int64            `json:"completed_requests"`
	AvgCompletionDays float64          `json:"avg_completion_days"`
	StatusCounts      []StatusCount    `json:"status_counts"`
	TypeCounts        []TypeCount      `json:"type_counts"`
	TechnicianStats   []TechnicianStat `json:"technician_stats"`
	RecentRequests    []DayCount       `json:"recent_requests"`
}

// Summary is the flat JSON summary for /statistics/api/summary.
type Summary struct {
	TotalRequests     int64   `json:"total_requests"`
	NewRequests       int64   `json:"new_requests"`
	InProgress        int64   `json:"in_progress"`
	Completed         int64   `json:"completed"`
	WaitingParts      int64   `json:"waiting_parts"`
	AvgCompletionDays float64 `json:"avg_completion_days"`
}

// DetailedRequestsInput filters the detailed statistics rows.
type DetailedRequestsInput struct {
	PeriodDays   int
	TechnicianID *uint64
	Status       *models.RequestStatus
}

// DetailedRequest is a request row annotated with its completion time.
type DetailedRequest struct {
	models.Request
	CompletionDays *float64 `json:"completion_days"`
}

// GetDashboard computes the aggregate statistics view.
func (s *StatisticsService) GetDashboard() (*Dashboard, error) {
	statusCounts, err := s.statusCounts()
	if err != nil {
		return nil, err
	}

	dashboard := &Dashboard{StatusCounts: statusCounts}
	for _, sc := range statusCounts {
		dashboard.TotalRequests += sc.Count
		if sc.Status == models.StatusReadyForPickup {
			dashboard.CompletedRequests += sc.Count
		} else {
			dashboard.ActiveRequests += sc.Count
		}
	}

	avg, err := s.averageCompletionDays()
	if err != nil {
		return nil, err
	}
	dashboard.AvgCompletionDays = avg

	if err := s.db.Model(&models.Request{}).
		Select("appliance_type, COUNT(*) as count").
		Group("appliance_type").
		Order("count DESC").
		Find(&dashboard.TypeCounts).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate appliance types: %w", err)
	}

	technicianStats, err := s.technicianStats()
	if err != nil {
		return nil, err
	}
	dashboard.TechnicianStats = technicianStats

	recent, err := s.recentRequests(30)
	if err != nil {
		return nil, err
	}
	dashboard.RecentRequests = recent

	return dashboard, nil
}

// GetSummary computes the flat per-status summary.
func (s *StatisticsService) GetSummary() (*Summary, error) {
	statusCounts, err := s.statusCounts()
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	for _, sc := range statusCounts {
		summary.TotalRequests += sc.Count
		switch sc.Status {
		case models.StatusNew:
			summary.NewRequests = sc.Count
		case models.StatusInRepair:
			summary.InProgress = sc.Count
		case models.StatusReadyForPickup:
			summary.Completed = sc.Count
		case models.StatusAwaitingParts:
			summary.WaitingParts = sc.Count
		}
	}

	avg, err := s.averageCompletionDays()
	if err != nil {
		return nil, err
	}
	summary.AvgCompletionDays = avg

	return summary, nil
}

// GetDetailedRequests returns annotated request rows for the given period.
func (s *StatisticsService) GetDetailedRequests(input DetailedRequestsInput) ([]DetailedRequest, error) {
	if input.PeriodDays <= 0 {
		input.PeriodDays = 30
	}
	cutoff := time.Now().AddDate(0, 0, -input.PeriodDays)

	requests, _, err := s.requestRepo.List(repository.RequestFilter{
		Status:       input.Status,
		TechnicianID: input.TechnicianID,
		StartedAfter: &cutoff,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	detailed := make([]DetailedRequest, len(requests))
	for i, req := range requests {
		detailed[i] = DetailedRequest{Request: req}
		if req.CompletionDate != nil {
			days := req.CompletionDate.Sub(req.StartDate).Hours() / 24
			detailed[i].CompletionDays = &days
		}
	}
	return detailed, nil
}

func (s *StatisticsService) statusCounts() ([]StatusCount, error) {
	var counts []StatusCount
	err := s.db.Model(&models.Request{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Find(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate statuses: %w", err)
	}
	return counts, nil
}

// averageCompletionDays averages completion time over finished requests,
// rounded to one decimal. Computed in Go so the query stays portable across
// sqlite and postgres.
func (s *StatisticsService) averageCompletionDays() (float64, error) {
	type span struct {
		StartDate      time.Time
		CompletionDate time.Time
	}

	var spans []span
	err := s.db.Model(&models.Request{}).
		Select("start_date, completion_date").
		Where("completion_date IS NOT NULL").
		Find(&spans).Error
	if err != nil {
		return 0, fmt.Errorf("failed to load completion spans: %w", err)
	}
	if len(spans) == 0 {
		return 0, nil
	}

	var totalDays float64
	for _, sp := range spans {
		totalDays += sp.CompletionDate.Sub(sp.StartDate).Hours() / 24
	}
	avg := totalDays / float64(len(spans))
	return math.Round(avg*10) / 10, nil
}

func (s *StatisticsService) technicianStats() ([]TechnicianStat, error) {
	var requests []models.Request
	if err := s.db.Preload("Technician").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to load requests: %w", err)
	}

	byName := make(map[string]*TechnicianStat)
	order := make([]string, 0)
	for _, req := range requests {
		name := "Unassigned"
		if req.Technician != nil {
			name = req.Technician.FullName
		}

		stat, ok := byName[name]
		if !ok {
			stat = &TechnicianStat{TechnicianName: name}
			byName[name] = stat
			order = append(order, name)
		}

		stat.Total++
		switch req.Status {
		case models.StatusReadyForPickup:
			stat.Completed++
		case models.StatusInRepair, models.StatusAwaitingParts:
			stat.Active++
		}
	}

	stats := make([]TechnicianStat, 0, len(order))
	for _, name := range order {
		stat := byName[name]
		if stat.Total > 0 {
			stat.Efficiency = math.Round(float64(stat.Completed)/float64(stat.Total)*1000) / 10
		}
		stats = append(stats, *stat)
	}
	return stats, nil
}

func (s *StatisticsService) recentRequests(days int) ([]DayCount, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	var dates []time.Time
	err := s.db.Model(&models.Request{}).
		Where("start_date >= ?", cutoff).
		Order("start_date DESC").
		Pluck("start_date", &dates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent requests: %w", err)
	}

	byDay := make(map[string]int64)
	order := make([]string, 0)
	for _, d := range dates {
		day := d.Format("2006-01-02")
		if _, ok := byDay[day]; !ok {
			order = append(order, day)
		}
		byDay[day]++
	}

	counts := make([]DayCount, 0, len(order))
	for _, day := range order {
		counts = append(counts, DayCount{Date: day, Count: byDay[day]})
	}
	return counts, nil
}
