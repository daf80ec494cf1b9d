package dto

import (
	"time"

	"github.com/bytservice/repair-service-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64      `json:"id"`
	FullName string      `json:"full_name"`
	Phone    string      `json:"phone"`
	Login    string      `json:"login"`
	Role     models.Role `json:"role"`
}

// TechnicianDTO is the minimal user shape used by the assignment UI
type TechnicianDTO struct {
	ID       uint64 `json:"id"`
	FullName string `json:"full_name"`
}

// UserListResponse wraps the user directory listing
type UserListResponse struct {
	Users []UserDTO     `json:"users"`
	Roles []models.Role `json:"roles"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		FullName: user.FullName,
		Phone:    user.Phone,
		Login:    user.Login,
		Role:     user.Role,
	}
}

// ToTechnicianDTO converts a User model to TechnicianDTO
func ToTechnicianDTO(user models.User) TechnicianDTO {
	return TechnicianDTO{
		ID:       user.ID,
		FullName: user.FullName,
	}
}

// ToUserListResponse converts users to the directory response
func ToUserListResponse(users []models.User) UserListResponse {
	dtos := make([]UserDTO, len(users))
	for i, user := range users {
		dtos[i] = ToUserDTO(user)
	}
	return UserListResponse{
		Users: dtos,
		Roles: models.Roles,
	}
}

// CommentDTO represents a comment in API responses
type CommentDTO struct {
	ID         uint64    `json:"id"`
	Message    string    `json:"message"`
	AuthorID   uint64    `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
	RequestID  uint64    `json:"request_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToCommentDTO converts a Comment model to CommentDTO
func ToCommentDTO(comment models.Comment) CommentDTO {
	dto := CommentDTO{
		ID:        comment.ID,
		Message:   comment.Message,
		AuthorID:  comment.AuthorID,
		RequestID: comment.RequestID,
		CreatedAt: comment.CreatedAt,
	}
	if comment.Author.ID != 0 {
		dto.AuthorName = comment.Author.FullName
	}
	return dto
}
