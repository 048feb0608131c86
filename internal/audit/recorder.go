package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
	"github.com/aquasafi/aquasafi-backend/pkg/logger"
)

// Entry describes one mutating action for the trail.
type Entry struct {
	UserID     *uuid.UUID
	Action     string
	Resource   string
	ResourceID *string
	Details    any
}

// Recorder appends audit entries. Implementations are best-effort:
// Record never returns an error and must not fail the caller.
type Recorder interface {
	Record(ctx context.Context, entry Entry)
}

type creator interface {
	Create(ctx context.Context, row *models.AuditLog) error
}

type recorder struct {
	repo creator
	logg *logger.Logger
}

// NewRecorder builds the production recorder. Write failures are
// logged and swallowed; callers have already committed by the time
// Record runs.
func NewRecorder(repo creator, logg *logger.Logger) (Recorder, error) {
	if repo == nil {
		return nil, fmt.Errorf("audit repository is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &recorder{repo: repo, logg: logg}, nil
}

func (r *recorder) Record(ctx context.Context, entry Entry) {
	row := &models.AuditLog{
		UserID:     entry.UserID,
		Action:     entry.Action,
		Resource:   entry.Resource,
		ResourceID: entry.ResourceID,
	}

	if entry.Details != nil {
		payload, err := json.Marshal(entry.Details)
		if err != nil {
			r.logg.Error(ctx, "audit details not serializable", err)
		} else {
			row.Details = payload
		}
	}

	if meta, ok := RequestMetaFrom(ctx); ok {
		if meta.IPAddress != "" {
			ip := meta.IPAddress
			row.IPAddress = &ip
		}
		if meta.UserAgent != "" {
			ua := meta.UserAgent
			row.UserAgent = &ua
		}
	}

	if err := r.repo.Create(ctx, row); err != nil {
		r.logg.Error(ctx, "audit append failed", err)
	}
}

// Noop returns a recorder that drops every entry; handy for tests.
func Noop() Recorder {
	return noopRecorder{}
}

type noopRecorder struct{}

func (noopRecorder) Record(context.Context, Entry) {}
