package quality

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aquasafi/aquasafi-backend/internal/audit"
	"github.com/aquasafi/aquasafi-backend/internal/guard"
	"github.com/aquasafi/aquasafi-backend/internal/waterpoints"
	"github.com/aquasafi/aquasafi-backend/pkg/config"
	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
	"github.com/aquasafi/aquasafi-backend/pkg/enums"
	pkgerrors "github.com/aquasafi/aquasafi-backend/pkg/errors"
	"github.com/aquasafi/aquasafi-backend/pkg/pagination"
)

// Service exposes the quality check operations used by the controller.
type Service interface {
	Create(ctx context.Context, actor guard.Actor, dto CreateQualityCheckDTO) (*QualityCheckDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*QualityCheckDTO, error)
	List(ctx context.Context, filter ListFilter, page pagination.Params) ([]QualityCheckDTO, pagination.Meta, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type checkRepository interface {
	Create(ctx context.Context, check *models.QualityCheck) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.QualityCheck, error)
	List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.QualityCheck, int64, error)
}

type waterPointRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.WaterPoint, error)
	UpdateQualityScore(ctx context.Context, id uuid.UUID, score float64) error
}

type service struct {
	tx           txRunner
	checks       checkRepository
	checkFactory func(tx *gorm.DB) checkRepository
	pointFactory func(tx *gorm.DB) waterPointRepository
	audit        audit.Recorder
	cfg          config.QualityConfig
}

// ServiceParams bundles the dependencies for the quality service.
// CheckRepo serves the read path; the factories build transaction-bound
// repositories for the create path.
type ServiceParams struct {
	TxRunner         txRunner
	CheckRepo        checkRepository
	CheckRepoFactory func(tx *gorm.DB) checkRepository
	PointRepoFactory func(tx *gorm.DB) waterPointRepository
	AuditRecorder    audit.Recorder
	QualityConfig    config.QualityConfig
}

// NewService constructs a quality service.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.CheckRepo == nil {
		return nil, fmt.Errorf("check repository is required")
	}
	if params.AuditRecorder == nil {
		return nil, fmt.Errorf("audit recorder is required")
	}
	checkFactory := params.CheckRepoFactory
	if checkFactory == nil {
		checkFactory = func(tx *gorm.DB) checkRepository {
			return NewRepository(tx)
		}
	}
	pointFactory := params.PointRepoFactory
	if pointFactory == nil {
		pointFactory = func(tx *gorm.DB) waterPointRepository {
			return waterpoints.NewRepository(tx)
		}
	}
	return &service{
		tx:           params.TxRunner,
		checks:       params.CheckRepo,
		checkFactory: checkFactory,
		pointFactory: pointFactory,
		audit:        params.AuditRecorder,
		cfg:          params.QualityConfig,
	}, nil
}

// Create scores the sample, persists it, and refreshes the owning
// point's cached score in the same transaction. Checks are immutable
// once written.
func (s *service) Create(ctx context.Context, actor guard.Actor, dto CreateQualityCheckDTO) (*QualityCheckDTO, error) {
	if !actor.IsOperational() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role")
	}

	result := Score(s.cfg, Sample{
		PHLevel:       dto.PHLevel,
		Turbidity:     dto.Turbidity,
		ChlorineLevel: dto.ChlorineLevel,
		EColiPresence: dto.EColiPresence,
	})

	checkedAt := time.Now().UTC()
	if dto.CheckedAt != nil {
		checkedAt = dto.CheckedAt.UTC()
	}
	check := &models.QualityCheck{
		WaterPointID:  dto.WaterPointID,
		CheckedBy:     &actor.ID,
		PHLevel:       dto.PHLevel,
		Turbidity:     dto.Turbidity,
		ChlorineLevel: dto.ChlorineLevel,
		Temperature:   dto.Temperature,
		EColiPresence: dto.EColiPresence,
		TotalColiform: dto.TotalColiform,
		OverallScore:  result.Score,
		IsSafe:        result.IsSafe,
		Notes:         dto.Notes,
		CheckedAt:     checkedAt,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		points := s.pointFactory(tx)
		point, err := points.FindByID(ctx, dto.WaterPointID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "water point not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load water point")
		}
		if point.Status == enums.WaterPointStatusArchived {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot record checks against an archived water point")
		}

		if err := s.checkFactory(tx).Create(ctx, check); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create quality check")
		}
		if err := points.UpdateQualityScore(ctx, dto.WaterPointID, result.Score); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "refresh cached quality score")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resourceID := check.ID.String()
	s.audit.Record(ctx, audit.Entry{
		UserID:     &actor.ID,
		Action:     "quality_check.create",
		Resource:   "quality_check",
		ResourceID: &resourceID,
		Details:    map[string]any{"score": result.Score, "is_safe": result.IsSafe},
	})

	return FromModel(check), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*QualityCheckDTO, error) {
	check, err := s.checks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quality check not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load quality check")
	}
	return FromModel(check), nil
}

func (s *service) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]QualityCheckDTO, pagination.Meta, error) {
	page = pagination.Normalize(page)
	rows, total, err := s.checks.List(ctx, filter, page)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list quality checks")
	}
	return FromModels(rows), pagination.NewMeta(page, total), nil
}
