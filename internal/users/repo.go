package users

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
	"github.com/aquasafi/aquasafi-backend/pkg/pagination"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns a filtered page of users plus the total row count.
func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("full_name LIKE ? OR email LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	norm := pagination.Normalize(page)
	var rows []models.User
	if err := query.
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(norm.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// UpdateLastLogin refreshes the user's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// UpdatePasswordHash swaps the stored credential digest.
func (r *Repository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("password_hash", hash).Error
}

// UpdateProfile applies the non-nil profile fields.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, dto UpdateProfileDTO) (*models.User, error) {
	updates := map[string]any{}
	if dto.FullName != nil {
		updates["full_name"] = *dto.FullName
	}
	if dto.PhoneNumber != nil {
		updates["phone_number"] = dto.PhoneNumber
	}
	if dto.Location != nil {
		updates["location"] = dto.Location
	}
	if dto.Community != nil {
		updates["community"] = dto.Community
	}
	if dto.Organization != nil {
		updates["organization"] = dto.Organization
	}
	if dto.EmergencyContact != nil {
		updates["emergency_contact"] = dto.EmergencyContact
	}
	if dto.EmergencyPhone != nil {
		updates["emergency_phone"] = dto.EmergencyPhone
	}

	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).
			Model(&models.User{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

// SetActive toggles the account's is_active flag.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
