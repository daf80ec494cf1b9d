package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bytservice/repair-service-api/internal/models"
)

func setupRequestRepoTest(t *testing.T) (*gorm.DB, RequestRepository) {
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

	return db, NewRequestRepository(db)
}

func seedCustomer(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	user := &models.User{
		FullName:     name,
		Phone:        "+7-900-000-00-00",
		Login:        name,
		PasswordHash: "hash",
		Role:         models.RoleCustomer,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedRequest(t *testing.T, db *gorm.DB, customerID uint64, mutate ...func(*models.Request)) *models.Request {
	t.Helper()

	request := &models.Request{
		StartDate:          time.Now().AddDate(0, 0, -1),
		ApplianceType:      "Fridge",
		ApplianceModel:     "ModelX",
		ProblemDescription: "Not cooling",
		Status:             models.StatusNew,
		CustomerID:         customerID,
	}
	for _, m := range mutate {
		m(request)
	}
	require.NoError(t, db.Create(request).Error)
	return request
}

func TestRequestRepository_List_OwnerScope(t *testing.T) {
	db, repo := setupRequestRepoTest(t)
	owner := seedCustomer(t, db, "owner")
	other := seedCustomer(t, db, "other")
	own := seedRequest(t, db, owner.ID)
	seedRequest(t, db, other.ID)

	requests, total, err := repo.List(RequestFilter{OwnerID: &owner.ID})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, requests, 1)
	require.Equal(t, own.ID, requests[0].ID)
	require.Equal(t, "owner", requests[0].Customer.FullName)
}

func TestRequestRepository_List_SearchMatchesCustomerName(t *testing.T) {
	db, repo := setupRequestRepoTest(t)
	petrov := seedCustomer(t, db, "Petrov Semen")
	sidorov := seedCustomer(t, db, "Sidorov Pavel")
	match := seedRequest(t, db, petrov.ID)
	seedRequest(t, db, sidorov.ID)

	requests, total, err := repo.List(RequestFilter{Search: "PETROV"})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, requests, 1)
	require.Equal(t, match.ID, requests[0].ID)
}

func TestRequestRepository_List_Pagination(t *testing.T) {
	db, repo := setupRequestRepoTest(t)
	owner := seedCustomer(t, db, "owner")
	for i := 0; i < 5; i++ {
		seedRequest(t, db, owner.ID)
	}

	requests, total, err := repo.List(RequestFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, int64(5), total)
	require.Len(t, requests, 2)
}

func TestRequestRepository_Delete_RemovesComments(t *testing.T) {
	db, repo := setupRequestRepoTest(t)
	owner := seedCustomer(t, db, "owner")
	request := seedRequest(t, db, owner.ID)
	kept := seedRequest(t, db, owner.ID)

	for _, c := range []models.Comment{
		{Message: "first", AuthorID: owner.ID, RequestID: request.ID},
		{Message: "second", AuthorID: owner.ID, RequestID: request.ID},
		{Message: "other", AuthorID: owner.ID, RequestID: kept.ID},
	} {
		comment := c
		require.NoError(t, db.Create(&comment).Error)
	}

	require.NoError(t, repo.Delete(request.ID))

	var requestCount, orphanCount, keptCount int64
	db.Model(&models.Request{}).Where("id = ?", request.ID).Count(&requestCount)
	db.Model(&models.Comment{}).Where("request_id = ?", request.ID).Count(&orphanCount)
	db.Model(&models.Comment{}).Where("request_id = ?", kept.ID).Count(&keptCount)

	require.Zero(t, requestCount)
	require.Zero(t, orphanCount)
	require.Equal(t, int64(1), keptCount)
}

func TestRequestRepository_ListComments_OldestFirst(t *testing.T) {
	db, repo := setupRequestRepoTest(t)
	owner := seedCustomer(t, db, "owner")
	request := seedRequest(t, db, owner.ID)

	base := time.Now().Add(-time.Hour)
	for i, message := range []string{"first", "second", "third"} {
		comment := models.Comment{
			Message:   message,
			AuthorID:  owner.ID,
			RequestID: request.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&comment).Error)
	}

	comments, err := repo.ListComments(request.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	require.Equal(t, "first", comments[0].Message)
	require.Equal(t, "third", comments[2].Message)
	require.Equal(t, "owner", comments[0].Author.FullName)
}

func TestRequestRepository_ListOverdue(t *testing.T) {
	db, repo := setupRequestRepoTest(t)
	owner := seedCustomer(t, db, "owner")

	old := seedRequest(t, db, owner.ID, func(r *models.Request) {
		r.StartDate = time.Now().AddDate(0, 0, -10)
		r.Status = models.StatusAwaitingParts
	})
	seedRequest(t, db, owner.ID, func(r *models.Request) {
		r.StartDate = time.Now().AddDate(0, 0, -10)
		r.Status = models.StatusReadyForPickup
	})
	seedRequest(t, db, owner.ID)

	overdue, err := repo.ListOverdue(time.Now().AddDate(0, 0, -7))
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	require.Equal(t, old.ID, overdue[0].ID)
}
