package dto

import (
	"time"

	"github.com/bytservice/repair-service-api/internal/models"
	"github.com/bytservice/repair-service-api/internal/utils"
)

// RequestDTO represents a request in API responses
type RequestDTO struct {
	ID                 uint64               `json:"id"`
	StartDate          time.Time            `json:"start_date"`
	ApplianceType      string               `json:"appliance_type"`
	ApplianceModel     string               `json:"appliance_model"`
	ProblemDescription string               `json:"problem_description"`
	Status             models.RequestStatus `json:"status"`
	CompletionDate     *time.Time           `json:"completion_date"`
	RepairParts        *string              `json:"repair_parts"`
	TechnicianID       *uint64              `json:"technician_id"`
	CustomerID         uint64               `json:"customer_id"`
	CreatedAt          time.Time            `json:"created_at"`
	CustomerName       string               `json:"customer_name,omitempty"`
	CustomerPhone      string               `json:"customer_phone,omitempty"`
	TechnicianName     string               `json:"technician_name,omitempty"`
}

// RequestDetailDTO is the single-request view: the request plus its
// comments and the technician directory for the assignment UI.
type RequestDetailDTO struct {
	Request     RequestDTO             `json:"request"`
	Comments    []CommentDTO           `json:"comments"`
	Technicians []TechnicianDTO        `json:"technicians"`
	Statuses    []models.RequestStatus `json:"statuses"`
}

// RequestListResponse is the paginated request listing
type RequestListResponse struct {
	Requests   []RequestDTO             `json:"requests"`
	Statuses   []models.RequestStatus   `json:"statuses"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToRequestDTO converts a Request model to RequestDTO
func ToRequestDTO(request models.Request) RequestDTO {
	dto := RequestDTO{
		ID:                 request.ID,
		StartDate:          request.StartDate,
		ApplianceType:      request.ApplianceType,
		ApplianceModel:     request.ApplianceModel,
		ProblemDescription: request.ProblemDescription,
		Status:             request.Status,
		CompletionDate:     request.CompletionDate,
		RepairParts:        request.RepairParts,
		TechnicianID:       request.TechnicianID,
		CustomerID:         request.CustomerID,
		CreatedAt:          request.CreatedAt,
	}

	if request.Customer.ID != 0 {
		dto.CustomerName = request.Customer.FullName
		dto.CustomerPhone = request.Customer.Phone
	}
	if request.Technician != nil && request.Technician.ID != 0 {
		dto.TechnicianName = request.Technician.FullName
	}

	return dto
}

// ToRequestDetailDTO converts a request with comments and technicians to
// the detail response
func ToRequestDetailDTO(request models.Request, comments []models.Comment, technicians []models.User) RequestDetailDTO {
	commentDTOs := make([]CommentDTO, len(comments))
	for i, comment := range comments {
		commentDTOs[i] = ToCommentDTO(comment)
	}

	technicianDTOs := make([]TechnicianDTO, len(technicians))
	for i, technician := range technicians {
		technicianDTOs[i] = ToTechnicianDTO(technician)
	}

	return RequestDetailDTO{
		Request:     ToRequestDTO(request),
		Comments:    commentDTOs,
		Technicians: technicianDTOs,
		Statuses:    models.RequestStatuses,
	}
}

// ToRequestListResponse converts requests to the listing response
func ToRequestListResponse(requests []models.Request, page, limit int, total int64) RequestListResponse {
	dtos := make([]RequestDTO, len(requests))
	for i, request := range requests {
		dtos[i] = ToRequestDTO(request)
	}

	return RequestListResponse{
		Requests: dtos,
		Statuses: models.RequestStatuses,
		Pagination: utils.PaginationResponse{
			Page:  page,
			Limit: limit,
			Total: total,
		},
	}
}
