package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/bytservice/repair-service-api/internal/models"
	"github.com/bytservice/repair-service-api/internal/repository"
)

var (
	ErrRequestNotFound  = errors.New("request not found")
	ErrNotRequestOwner  = errors.New("customers can only view their own requests")
	ErrMissingFields    = errors.New("appliance type, model, problem description and customer are required")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrNotTechnician    = errors.New("assigned user must have the Technician role")
	ErrInvalidStatus    = errors.New("unknown request status")
	ErrEmptyComment     = errors.New("comment cannot be empty")
)

// RequestService owns the work-order lifecycle: creation, scoped listing,
// partial updates, and comment attachment.
type RequestService struct {
	requestRepo repository.RequestRepository
	userRepo    repository.UserRepository
}

// NewRequestService creates a new RequestService.
func NewRequestService(requestRepo repository.RequestRepository, userRepo repository.UserRepository) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		userRepo:    userRepo,
	}
}

// CreateRequestInput represents input for creating a request.
type CreateRequestInput struct {
	ApplianceType      string
	ApplianceModel     string
	ProblemDescription string
	CustomerID         *uint64
}

// ListRequestsInput represents filters for listing requests.
type ListRequestsInput struct {
	Search       string
	Status       *models.RequestStatus
	TechnicianID *uint64
	Page         int
	PageSize     int
}

// UpdateRequestInput represents a partial update. Set* flags record which
// fields were present in the call; unset fields are left untouched.
type UpdateRequestInput struct {
	Status *models.RequestStatus

	SetTechnician bool
	TechnicianID  *uint64

	SetRepairParts bool
	RepairParts    *string

	ProblemDescription *string
}

// RequestDetail bundles a request with its comments and the technician
// directory used by the assignment UI.
type RequestDetail struct {
	Request     *models.Request
	Comments    []models.Comment
	Technicians []models.User
}

// Create files a new work order. Customers always file on their own behalf:
// any supplied customer id is ignored for them.
func (s *RequestService) Create(actor *models.User, input CreateRequestInput) (*models.Request, error) {
	var customerID uint64
	if actor.Role == models.RoleCustomer {
		customerID = actor.ID
	} else if input.CustomerID != nil {
		customerID = *input.CustomerID
	}

	if input.ApplianceType == "" || input.ApplianceModel == "" || input.ProblemDescription == "" || customerID == 0 {
		return nil, ErrMissingFields
	}

	if actor.Role != models.RoleCustomer {
		if _, err := s.userRepo.FindByID(customerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCustomerNotFound
			}
			return nil, fmt.Errorf("failed to resolve customer: %w", err)
		}
	}

	request := &models.Request{
		StartDate:          today(),
		ApplianceType:      input.ApplianceType,
		ApplianceModel:     input.ApplianceModel,
		ProblemDescription: input.ProblemDescription,
		Status:             models.StatusNew,
		CustomerID:         customerID,
	}

	if err := s.requestRepo.Create(request); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return s.requestRepo.FindByID(request.ID, "Customer")
}

// List returns the requests visible to the actor: customers see their own,
// technicians see assigned-or-unassigned, everyone else sees all.
func (s *RequestService) List(actor *models.User, input ListRequestsInput) ([]models.Request, int64, error) {
	filter := repository.RequestFilter{
		Search:       input.Search,
		Status:       input.Status,
		TechnicianID: input.TechnicianID,
		Page:         input.Page,
		PageSize:     input.PageSize,
	}
	scopeFilter(&filter, actor)

	requests, total, err := s.requestRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list requests: %w", err)
	}

	return requests, total, nil
}

// CountVisible returns the number of requests visible to the actor.
func (s *RequestService) CountVisible(actor *models.User) (int64, error) {
	var filter repository.RequestFilter
	scopeFilter(&filter, actor)

	count, err := s.requestRepo.Count(filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count requests: %w", err)
	}
	return count, nil
}

// Get returns a request with comments and the technician directory. A
// customer may only read their own request.
func (s *RequestService) Get(actor *models.User, requestID uint64) (*RequestDetail, error) {
	request, err := s.requestRepo.FindByID(requestID, "Customer", "Technician")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to find request: %w", err)
	}

	if actor.Role == models.RoleCustomer && request.CustomerID != actor.ID {
		return nil, ErrNotRequestOwner
	}

	comments, err := s.requestRepo.ListComments(requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	technicians, err := s.userRepo.ListTechnicians()
	if err != nil {
		return nil, fmt.Errorf("failed to list technicians: %w", err)
	}

	return &RequestDetail{
		Request:     request,
		Comments:    comments,
		Technicians: technicians,
	}, nil
}

// Update applies a partial field update. A call with no fields set succeeds
// and changes nothing.
func (s *RequestService) Update(requestID uint64, input UpdateRequestInput) (*models.Request, error) {
	request, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to find request: %w", err)
	}

	changed := false

	if input.Status != nil {
		if !models.ValidStatus(*input.Status) {
			return nil, ErrInvalidStatus
		}
		applyStatus(request, *input.Status)
		changed = true
	}

	if input.SetTechnician {
		if input.TechnicianID != nil {
			technician, err := s.userRepo.FindByID(*input.TechnicianID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrNotTechnician
				}
				return nil, fmt.Errorf("failed to resolve technician: %w", err)
			}
			if technician.Role != models.RoleTechnician {
				return nil, ErrNotTechnician
			}
		}
		request.TechnicianID = input.TechnicianID
		changed = true
	}

	if input.SetRepairParts {
		request.RepairParts = input.RepairParts
		changed = true
	}

	if input.ProblemDescription != nil && *input.ProblemDescription != "" {
		request.ProblemDescription = *input.ProblemDescription
		changed = true
	}

	if changed {
		if err := s.requestRepo.Update(request); err != nil {
			return nil, fmt.Errorf("failed to update request: %w", err)
		}
	}

	return s.requestRepo.FindByID(requestID, "Customer", "Technician")
}

// AddComment attaches a comment authored by the actor.
func (s *RequestService) AddComment(actor *models.User, requestID uint64, message string) (*models.Comment, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyComment
	}

	if _, err := s.requestRepo.FindByID(requestID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to find request: %w", err)
	}

	comment := &models.Comment{
		Message:   message,
		AuthorID:  actor.ID,
		RequestID: requestID,
	}

	if err := s.requestRepo.AddComment(comment); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	return comment, nil
}

// applyStatus is the single place a status transition happens. Any status is
// currently settable from any other; a transition graph, if product ever
// wants one, goes here. Completion date tracks the ReadyForPickup status:
// set on entry, cleared when the request moves off it.
func applyStatus(request *models.Request, status models.RequestStatus) {
	request.Status = status
	if status == models.StatusReadyForPickup {
		now := today()
		request.CompletionDate = &now
	} else {
		request.CompletionDate = nil
	}
}

// scopeFilter applies role-based row visibility to a filter.
func scopeFilter(filter *repository.RequestFilter, actor *models.User) {
	switch actor.Role {
	case models.RoleCustomer:
		filter.OwnerID = &actor.ID
	case models.RoleTechnician:
		filter.AssignedOrUnassignedID = &actor.ID
	}
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
