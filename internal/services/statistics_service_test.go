package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bytservice/repair-service-api/internal/models"
	"github.com/bytservice/repair-service-api/internal/repository"
)

func setupStatisticsTest(t *testing.T) (*gorm.DB, *StatisticsService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Request{},
		&models.Comment{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db, NewStatisticsService(db, repository.NewRequestRepository(db))
}

func statsUser(t *testing.T, db *gorm.DB, name string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{
		FullName:     name,
		Phone:        "+7-900-000-00-00",
		Login:        name,
		PasswordHash: "hash",
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func statsRequest(t *testing.T, db *gorm.DB, customerID uint64, status models.RequestStatus, mutate ...func(*models.Request)) *models.Request {
	t.Helper()

	request := &models.Request{
		StartDate:          time.Now().AddDate(0, 0, -2),
		ApplianceType:      "Fridge",
		ApplianceModel:     "ModelX",
		ProblemDescription: "Not cooling",
		Status:             status,
		CustomerID:         customerID,
	}
	for _, m := range mutate {
		m(request)
	}
	require.NoError(t, db.Create(request).Error)
	return request
}

func TestStatisticsService_GetSummary(t *testing.T) {
	db, service := setupStatisticsTest(t)
	customer := statsUser(t, db, "client", models.RoleCustomer)

	statsRequest(t, db, customer.ID, models.StatusNew)
	statsRequest(t, db, customer.ID, models.StatusNew)
	statsRequest(t, db, customer.ID, models.StatusInRepair)
	statsRequest(t, db, customer.ID, models.StatusAwaitingParts)

	// Completed in exactly four days.
	start := time.Date(2023, 6, 6, 0, 0, 0, 0, time.UTC)
	completed := start.AddDate(0, 0, 4)
	statsRequest(t, db, customer.ID, models.StatusReadyForPickup, func(r *models.Request) {
		r.StartDate = start
		r.CompletionDate = &completed
	})

	summary, err := service.GetSummary()
	require.NoError(t, err)

	require.Equal(t, int64(5), summary.TotalRequests)
	require.Equal(t, int64(2), summary.NewRequests)
	require.Equal(t, int64(1), summary.InProgress)
	require.Equal(t, int64(1), summary.Completed)
	require.Equal(t, int64(1), summary.WaitingParts)
	require.InDelta(t, 4.0, summary.AvgCompletionDays, 0.001)
}

func TestStatisticsService_GetDashboard_TechnicianStats(t *testing.T) {
	db, service := setupStatisticsTest(t)
	customer := statsUser(t, db, "client", models.RoleCustomer)
	technician := statsUser(t, db, "Murashov Andrey", models.RoleTechnician)

	statsRequest(t, db, customer.ID, models.StatusReadyForPickup, func(r *models.Request) {
		r.TechnicianID = &technician.ID
		completed := time.Now()
		r.CompletionDate = &completed
	})
	statsRequest(t, db, customer.ID, models.StatusInRepair, func(r *models.Request) {
		r.TechnicianID = &technician.ID
	})
	statsRequest(t, db, customer.ID, models.StatusNew)

	dashboard, err := service.GetDashboard()
	require.NoError(t, err)

	require.Equal(t, int64(3), dashboard.TotalRequests)
	require.Equal(t, int64(1), dashboard.CompletedRequests)
	require.Equal(t, int64(2), dashboard.ActiveRequests)

	byName := make(map[string]TechnicianStat)
	for _, stat := range dashboard.TechnicianStats {
		byName[stat.TechnicianName] = stat
	}

	assigned, ok := byName["Murashov Andrey"]
	require.True(t, ok)
	require.Equal(t, int64(2), assigned.Total)
	require.Equal(t, int64(1), assigned.Completed)
	require.Equal(t, int64(1), assigned.Active)
	require.InDelta(t, 50.0, assigned.Efficiency, 0.001)

	unassigned, ok := byName["Unassigned"]
	require.True(t, ok)
	require.Equal(t, int64(1), unassigned.Total)
	require.Zero(t, unassigned.Completed)
}

func TestStatisticsService_GetDetailedRequests(t *testing.T) {
	db, service := setupStatisticsTest(t)
	customer := statsUser(t, db, "client", models.RoleCustomer)

	start := time.Now().AddDate(0, 0, -5)
	completed := start.AddDate(0, 0, 3)
	statsRequest(t, db, customer.ID, models.StatusReadyForPickup, func(r *models.Request) {
		r.StartDate = start
		r.CompletionDate = &completed
	})
	statsRequest(t, db, customer.ID, models.StatusInRepair)
	statsRequest(t, db, customer.ID, models.StatusNew, func(r *models.Request) {
		r.StartDate = time.Now().AddDate(0, 0, -90)
	})

	detailed, err := service.GetDetailedRequests(DetailedRequestsInput{PeriodDays: 30})
	require.NoError(t, err)
	require.Len(t, detailed, 2)

	var withCompletion int
	for _, row := range detailed {
		if row.CompletionDays != nil {
			withCompletion++
			require.InDelta(t, 3.0, *row.CompletionDays, 0.001)
		}
	}
	require.Equal(t, 1, withCompletion)
}

func TestStatisticsService_GetSummary_Empty(t *testing.T) {
	_, service := setupStatisticsTest(t)

	summary, err := service.GetSummary()
	require.NoError(t, err)
	require.Zero(t, summary.TotalRequests)
	require.Zero(t, summary.AvgCompletionDays)
}
