package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aquasafi/aquasafi-backend/internal/guard"
	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
	pkgerrors "github.com/aquasafi/aquasafi-backend/pkg/errors"
	"github.com/aquasafi/aquasafi-backend/pkg/pagination"
)

// LogDTO is the transport shape for one audit row.
type LogDTO struct {
	ID         uuid.UUID       `json:"id"`
	UserID     *uuid.UUID      `json:"user_id,omitempty"`
	Action     string          `json:"action"`
	Resource   string          `json:"resource"`
	ResourceID *string         `json:"resource_id,omitempty"`
	Details    json.RawMessage `json:"details,omitempty"`
	IPAddress  *string         `json:"ip_address,omitempty"`
	UserAgent  *string         `json:"user_agent,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Service exposes the admin-only read path over the trail.
type Service interface {
	List(ctx context.Context, actor guard.Actor, filter ListFilter, page pagination.Params) ([]LogDTO, pagination.Meta, error)
}

type lister interface {
	List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.AuditLog, int64, error)
}

type service struct {
	repo lister
}

// ServiceParams bundles the dependencies required to build an audit service.
type ServiceParams struct {
	Repo lister
}

// NewService constructs the audit read service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("audit repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) List(ctx context.Context, actor guard.Actor, filter ListFilter, page pagination.Params) ([]LogDTO, pagination.Meta, error) {
	if !actor.IsAdmin() {
		return nil, pagination.Meta{}, pkgerrors.New(pkgerrors.CodeForbidden, "audit log is admin-only")
	}

	rows, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list audit logs")
	}

	dtos := make([]LogDTO, 0, len(rows))
	for i := range rows {
		row := rows[i]
		dtos = append(dtos, LogDTO{
			ID:         row.ID,
			UserID:     row.UserID,
			Action:     row.Action,
			Resource:   row.Resource,
			ResourceID: row.ResourceID,
			Details:    row.Details,
			IPAddress:  row.IPAddress,
			UserAgent:  row.UserAgent,
			CreatedAt:  row.CreatedAt,
		})
	}
	return dtos, pagination.NewMeta(page, total), nil
}
