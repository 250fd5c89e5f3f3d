package usecase

import (
	"context"
	"errors"

	"healthcare-appointment-api/internal/converter"
	"healthcare-appointment-api/internal/delivery/dto"
	"healthcare-appointment-api/internal/domain/entity"
	"healthcare-appointment-api/internal/domain/repository"
	"healthcare-appointment-api/internal/service"
	"healthcare-appointment-api/pkg/jwt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidRole        = errors.New("invalid role")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthUsecase interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	// FindByUsername resolves a token subject for the authentication gate.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
}

type authUsecase struct {
	log          *logrus.Logger
	userRepo     repository.UserRepository
	tokenService *jwt.TokenService
	auditService service.AuditService
}

func NewAuthUsecase(
	log *logrus.Logger,
	userRepo repository.UserRepository,
	tokenService *jwt.TokenService,
	auditService service.AuditService,
) AuthUsecase {
	return &authUsecase{
		log:          log,
		userRepo:     userRepo,
		tokenService: tokenService,
		auditService: auditService,
	}
}

func (u *authUsecase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	// Empty role set defaults to patient; names are case-normalized.
	roles, err := entity.NewRoleSet(req.Roles...)
	if err != nil {
		return nil, ErrInvalidRole
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		Username: req.Username,
		Password: string(hashedPassword),
		Roles:    roles,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		if isDuplicateKeyError(err, "username") {
			return nil, ErrUsernameExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	token, err := u.tokenService.Issue(user.Username, roles.Primary())
	if err != nil {
		u.log.Warnf("Failed to issue token: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, &user.ID, entity.AuditActionUserRegister, "user", user.ID.String(), user.Username); err != nil {
		u.log.Warnf("Failed to write audit log: %+v", err)
	}

	u.log.Infof("User registered: username=%s, roles=%v", user.Username, roles.Names())
	return converter.UserToAuthResponse(user, token, int64(u.tokenService.Expiry().Seconds())), nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := u.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		u.log.Warnf("Failed to find user by username: %+v", err)
		return nil, err
	}
	if user == nil {
		// Same failure as a bad password: no username-existence oracle.
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := u.tokenService.Issue(user.Username, user.Roles.Primary())
	if err != nil {
		u.log.Warnf("Failed to issue token: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, &user.ID, entity.AuditActionUserLogin, "user", user.ID.String(), user.Username); err != nil {
		u.log.Warnf("Failed to write audit log: %+v", err)
	}

	return converter.UserToAuthResponse(user, token, int64(u.tokenService.Expiry().Seconds())), nil
}

func (u *authUsecase) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return u.userRepo.FindByUsername(ctx, username)
}
