package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aquasafi/aquasafi-backend/internal/audit"
	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
	pkgerrors "github.com/aquasafi/aquasafi-backend/pkg/errors"
	"github.com/aquasafi/aquasafi-backend/internal/guard"
)

// Service manages the key/value configuration store.
type Service interface {
	Get(ctx context.Context, actor guard.Actor, key string) (*SettingDTO, error)
	List(ctx context.Context, actor guard.Actor, filter ListFilter) ([]SettingDTO, error)
	Upsert(ctx context.Context, actor guard.Actor, dto UpsertSettingDTO) (*SettingDTO, error)
	Delete(ctx context.Context, actor guard.Actor, key string) error
}

type repository interface {
	FindByKey(ctx context.Context, key string) (*models.SystemSetting, error)
	List(ctx context.Context, filter ListFilter) ([]models.SystemSetting, error)
	Upsert(ctx context.Context, dto UpsertSettingDTO, updatedBy uuid.UUID) (*models.SystemSetting, error)
	Delete(ctx context.Context, key string) error
}

// ServiceParams lists the dependencies needed to build the service.
type ServiceParams struct {
	Repo          repository
	AuditRecorder audit.Recorder
}

type service struct {
	repo  repository
	audit audit.Recorder
}

// NewService validates its dependencies and returns the settings service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("repo is required")
	}
	if params.AuditRecorder == nil {
		return nil, fmt.Errorf("audit recorder is required")
	}
	return &service{repo: params.Repo, audit: params.AuditRecorder}, nil
}

func (s *service) Get(ctx context.Context, actor guard.Actor, key string) (*SettingDTO, error) {
	if !actor.IsPrivileged() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only supervisors may read settings")
	}
	setting, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		return nil, settingNotFoundOrInternal(err, "load setting")
	}
	return FromModel(setting), nil
}

func (s *service) List(ctx context.Context, actor guard.Actor, filter ListFilter) ([]SettingDTO, error) {
	if !actor.IsPrivileged() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only supervisors may read settings")
	}
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list settings")
	}
	return FromModels(rows), nil
}

func (s *service) Upsert(ctx context.Context, actor guard.Actor, dto UpsertSettingDTO) (*SettingDTO, error) {
	if !actor.IsPrivileged() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only supervisors may change settings")
	}
	dto.Key = strings.TrimSpace(dto.Key)
	if dto.Key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "key is required")
	}

	setting, err := s.repo.Upsert(ctx, dto, actor.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "upsert setting")
	}

	s.recordAudit(ctx, actor, "setting.upsert", dto.Key)
	return FromModel(setting), nil
}

func (s *service) Delete(ctx context.Context, actor guard.Actor, key string) error {
	if !actor.IsAdmin() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only admins may delete settings")
	}
	if err := s.repo.Delete(ctx, key); err != nil {
		return settingNotFoundOrInternal(err, "delete setting")
	}

	s.recordAudit(ctx, actor, "setting.delete", key)
	return nil
}

func (s *service) recordAudit(ctx context.Context, actor guard.Actor, action, key string) {
	s.audit.Record(ctx, audit.Entry{
		UserID:     &actor.ID,
		Action:     action,
		Resource:   "system_setting",
		ResourceID: &key,
	})
}

func settingNotFoundOrInternal(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "setting not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, op)
}
