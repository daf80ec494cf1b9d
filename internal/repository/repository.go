package repository

import (
	"time"

	"github.com/bytservice/repair-service-api/internal/models"
)

// RequestFilter holds filtering options for listing requests.
type RequestFilter struct {
	// OwnerID limits rows to a single customer (Customer scoping).
	OwnerID *uint64
	// AssignedOrUnassignedID limits rows to those assigned to the given
	// technician or not assigned at all (Technician scoping).
	AssignedOrUnassignedID *uint64

	// Search matches case-insensitively against the request id, appliance
	// type, problem description, and customer name.
	Search       string
	Status       *models.RequestStatus
	TechnicianID *uint64

	// StartedAfter limits rows by start date (statistics detail view).
	StartedAfter *time.Time

	Page     int
	PageSize int
}

// UserFilter holds filtering options for listing users.
type UserFilter struct {
	// Search matches against full name, login, and phone.
	Search string
	Role   *models.Role
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(user *models.User) error
	FindByID(id uint64) (*models.User, error)
	FindByLogin(login string) (*models.User, error)
	List(filter UserFilter) ([]models.User, error)

	// ListTechnicians returns all users with the Technician role.
	ListTechnicians() ([]models.User, error)

	// UpdateProfile updates the mutable profile fields of a user.
	UpdateProfile(id uint64, fullName, phone string) error
}

// RequestRepository defines the interface for request and comment data access
type RequestRepository interface {
	Create(request *models.Request) error
	FindByID(id uint64, preload ...string) (*models.Request, error)
	List(filter RequestFilter) ([]models.Request, int64, error)
	Count(filter RequestFilter) (int64, error)
	Update(request *models.Request) error

	// Delete removes a request together with its comments. Not exposed over
	// HTTP; kept for administrative tooling.
	Delete(id uint64) error

	AddComment(comment *models.Comment) error
	ListComments(requestID uint64) ([]models.Comment, error)

	// ListOverdue returns requests not ready for pickup that started before
	// the cutoff, oldest first.
	ListOverdue(cutoff time.Time) ([]models.Request, error)
}

// FeedbackRepository defines the interface for quality feedback data access
type FeedbackRepository interface {
	Create(feedback *models.Feedback) error
	ListByRequest(requestID uint64) ([]models.Feedback, error)
	RatingCounts() (map[int]int64, error)
}
