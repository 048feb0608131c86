package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aquasafi/aquasafi-backend/internal/guard"
	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
	pkgerrors "github.com/aquasafi/aquasafi-backend/pkg/errors"
	"github.com/aquasafi/aquasafi-backend/pkg/pagination"
)

// Service defines the behavior needed by the users controller.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdateProfile(ctx context.Context, actor guard.Actor, userID uuid.UUID, dto UpdateProfileDTO) (*UserDTO, error)
	List(ctx context.Context, actor guard.Actor, filter ListFilter, page pagination.Params) ([]UserDTO, pagination.Meta, error)
	SetActive(ctx context.Context, actor guard.Actor, userID uuid.UUID, active bool) (*UserDTO, error)
}

type repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.User, int64, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, dto UpdateProfileDTO) (*models.User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type service struct {
	repo repository
}

// ServiceParams bundles the dependencies required to build a users service.
type ServiceParams struct {
	Repo repository
}

// NewService constructs a users service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	return FromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, actor guard.Actor, userID uuid.UUID, dto UpdateProfileDTO) (*UserDTO, error) {
	if !actor.IsSelfOrPrivileged(userID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot edit another user's profile")
	}

	user, err := s.repo.UpdateProfile(ctx, userID, dto)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
	}
	return FromModel(user), nil
}

func (s *service) List(ctx context.Context, actor guard.Actor, filter ListFilter, page pagination.Params) ([]UserDTO, pagination.Meta, error) {
	if !actor.IsPrivileged() {
		return nil, pagination.Meta{}, pkgerrors.New(pkgerrors.CodeForbidden, "listing users requires admin or supervisor")
	}

	rows, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}

	dtos := make([]UserDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, pagination.NewMeta(page, total), nil
}

func (s *service) SetActive(ctx context.Context, actor guard.Actor, userID uuid.UUID, active bool) (*UserDTO, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can change account status")
	}
	if actor.IsSelf(userID) && !active {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "admins cannot deactivate their own account")
	}

	if err := s.repo.SetActive(ctx, userID, active); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update account status")
	}
	return s.GetProfile(ctx, userID)
}
