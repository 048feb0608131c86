package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aquasafi/aquasafi-backend/internal/audit"
	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
	pkgerrors "github.com/aquasafi/aquasafi-backend/pkg/errors"
	"github.com/aquasafi/aquasafi-backend/internal/guard"
	"github.com/aquasafi/aquasafi-backend/pkg/pagination"
)

// Service manages spare parts and consumables stock.
type Service interface {
	Create(ctx context.Context, actor guard.Actor, dto CreateItemDTO) (*ItemDTO, error)
	Get(ctx context.Context, actor guard.Actor, id uuid.UUID) (*ItemDTO, error)
	List(ctx context.Context, actor guard.Actor, filter ListFilter, page pagination.Params) ([]ItemDTO, pagination.Meta, error)
	LowStock(ctx context.Context, actor guard.Actor) ([]ItemDTO, error)
	Update(ctx context.Context, actor guard.Actor, id uuid.UUID, dto UpdateItemDTO) (*ItemDTO, error)
	Delete(ctx context.Context, actor guard.Actor, id uuid.UUID) error
}

type repository interface {
	Create(ctx context.Context, dto CreateItemDTO) (*models.InventoryItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.InventoryItem, int64, error)
	ListLowStock(ctx context.Context) ([]models.InventoryItem, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.InventoryItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
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

// NewService validates its dependencies and returns the inventory service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("repo is required")
	}
	if params.AuditRecorder == nil {
		return nil, fmt.Errorf("audit recorder is required")
	}
	return &service{repo: params.Repo, audit: params.AuditRecorder}, nil
}

func (s *service) Create(ctx context.Context, actor guard.Actor, dto CreateItemDTO) (*ItemDTO, error) {
	if !actor.IsPrivileged() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only supervisors may manage inventory")
	}
	item, err := s.repo.Create(ctx, dto)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create inventory item")
	}

	s.recordAudit(ctx, actor, "inventory.create", item.ID)
	return FromModel(item), nil
}

func (s *service) Get(ctx context.Context, actor guard.Actor, id uuid.UUID) (*ItemDTO, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, itemNotFoundOrInternal(err, "load inventory item")
	}
	return FromModel(item), nil
}

func (s *service) List(ctx context.Context, actor guard.Actor, filter ListFilter, page pagination.Params) ([]ItemDTO, pagination.Meta, error) {
	page = pagination.Normalize(page)
	rows, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list inventory")
	}
	return FromModels(rows), pagination.NewMeta(page, total), nil
}

func (s *service) LowStock(ctx context.Context, actor guard.Actor) ([]ItemDTO, error) {
	rows, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list low stock")
	}
	return FromModels(rows), nil
}

func (s *service) Update(ctx context.Context, actor guard.Actor, id uuid.UUID, dto UpdateItemDTO) (*ItemDTO, error) {
	if !actor.IsPrivileged() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only supervisors may manage inventory")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, itemNotFoundOrInternal(err, "load inventory item")
	}

	updates := dto.changes()
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}
	if dto.Quantity != nil && *dto.Quantity > existing.Quantity {
		updates["last_restocked"] = time.Now().UTC()
	}

	item, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, itemNotFoundOrInternal(err, "update inventory item")
	}

	s.recordAudit(ctx, actor, "inventory.update", id)
	return FromModel(item), nil
}

func (s *service) Delete(ctx context.Context, actor guard.Actor, id uuid.UUID) error {
	if !actor.IsPrivileged() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only supervisors may manage inventory")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return itemNotFoundOrInternal(err, "delete inventory item")
	}

	s.recordAudit(ctx, actor, "inventory.delete", id)
	return nil
}

func (s *service) recordAudit(ctx context.Context, actor guard.Actor, action string, id uuid.UUID) {
	resourceID := id.String()
	s.audit.Record(ctx, audit.Entry{
		UserID:     &actor.ID,
		Action:     action,
		Resource:   "inventory_item",
		ResourceID: &resourceID,
	})
}

func itemNotFoundOrInternal(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, op)
}
