package repository

import (
	"gorm.io/gorm"

	"github.com/bytservice/repair-service-api/internal/models"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByLogin finds a user by login
func (r *GormUserRepository) FindByLogin(login string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("login = ?", login).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List retrieves users with filtering, ordered by role then name
func (r *GormUserRepository) List(filter UserFilter) ([]models.User, error) {
	query := r.db.Model(&models.User{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"full_name LIKE ? OR login LIKE ? OR phone LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}

	var users []models.User
	if err := query.Order("role, full_name").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListTechnicians returns all users with the Technician role
func (r *GormUserRepository) ListTechnicians() ([]models.User, error) {
	var technicians []models.User
	err := r.db.
		Where("role = ?", models.RoleTechnician).
		Order("full_name").
		Find(&technicians).Error
	if err != nil {
		return nil, err
	}
	return technicians, nil
}

// UpdateProfile updates the mutable profile fields of a user
func (r *GormUserRepository) UpdateProfile(id uint64, fullName, phone string) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"full_name": fullName,
			"phone":     phone,
		}).Error
}
