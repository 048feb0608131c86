package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/aquasafi/aquasafi-backend/internal/audit"
	"github.com/aquasafi/aquasafi-backend/internal/users"
	pkgAuth "github.com/aquasafi/aquasafi-backend/pkg/auth"
	"github.com/aquasafi/aquasafi-backend/pkg/auth/session"
	"github.com/aquasafi/aquasafi-backend/pkg/config"
	"github.com/aquasafi/aquasafi-backend/pkg/db"
	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
	"github.com/aquasafi/aquasafi-backend/pkg/enums"
	pkgerrors "github.com/aquasafi/aquasafi-backend/pkg/errors"
	"github.com/aquasafi/aquasafi-backend/pkg/security"
)

// RegisterService handles public self-registration. Accounts always
// start as community members; privileged roles are granted by admins.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type registerUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
// UserRepoFactory may be left nil when DB wiring is used as-is.
type RegisterServiceParams struct {
	TxRunner        txRunner
	UserRepoFactory func(tx *gorm.DB) registerUserRepository
	SessionManager  sessionManager
	AuditRecorder   audit.Recorder
	JWTConfig       config.JWTConfig
	PasswordConfig  config.PasswordConfig
}

type registerService struct {
	tx          txRunner
	userRepo    func(tx *gorm.DB) registerUserRepository
	session     sessionManager
	audit       audit.Recorder
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.SessionManager == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session manager required")
	}
	if params.AuditRecorder == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "audit recorder required")
	}
	userRepo := params.UserRepoFactory
	if userRepo == nil {
		userRepo = func(tx *gorm.DB) registerUserRepository {
			return users.NewRepository(tx)
		}
	}
	return &registerService{
		tx:          params.TxRunner,
		userRepo:    userRepo,
		session:     params.SessionManager,
		audit:       params.AuditRecorder,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if strings.TrimSpace(req.FullName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full_name is required")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *models.User
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.userRepo(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:            email,
			PasswordHash:     passwordHash,
			FullName:         strings.TrimSpace(req.FullName),
			PhoneNumber:      req.PhoneNumber,
			Location:         req.Location,
			Community:        req.Community,
			Organization:     req.Organization,
			NationalID:       req.NationalID,
			EmergencyContact: req.EmergencyContact,
			EmergencyPhone:   req.EmergencyPhone,
			Role:             enums.UserRoleCommunityMember,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}
		created = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	jti := session.NewJTI()
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: created.ID,
		Role:   created.Role,
		JTI:    jti,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := s.session.Generate(ctx, jti)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:   &created.ID,
		Action:   "auth.register",
		Resource: "user",
	})

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         users.FromModel(created),
	}, nil
}
