package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"employee-system/internal/dto"
	"employee-system/internal/entities"
	"employee-system/internal/repositories"
	"employee-system/pkg/config"
	apperrors "employee-system/pkg/errors"
	"employee-system/pkg/service"
	"employee-system/pkg/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, payload dto.RegisterDTO, ipAddress string) error
	Login(ctx context.Context, payload dto.LoginDTO, ipAddress string) (*dto.LoginResponseDTO, error)
	Logout(ctx context.Context) error
	ChangePassword(ctx context.Context, payload dto.ChangePasswordDTO) error
}

type AuthService struct {
	txManager          repositories.TxManagerInterface
	accountRepository  repositories.AccountRepositoryInterface
	employeeRepository repositories.EmployeeRepositoryInterface
	cacheRepo          repositories.CacheRepositoryInterface
	jwtService         service.JWTService
	logger             *zap.Logger
	cfg                *config.AuthConfig
	now                func() time.Time
}

func NewAuthService(
	txManager repositories.TxManagerInterface,
	accountRepository repositories.AccountRepositoryInterface,
	employeeRepository repositories.EmployeeRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	jwtService service.JWTService,
	logger *zap.Logger,
	cfg *config.AuthConfig,
) AuthServiceInterface {
	return &AuthService{
		txManager:          txManager,
		accountRepository:  accountRepository,
		employeeRepository: employeeRepository,
		cacheRepo:          cacheRepo,
		jwtService:         jwtService,
		logger:             logger,
		cfg:                cfg,
		now:                time.Now,
	}
}

// Register creates the login account of an existing employee.
func (s *AuthService) Register(ctx context.Context, payload dto.RegisterDTO, ipAddress string) error {
	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return apperrors.NewInternalError("Failed to register account.", err)
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		employee, err := s.employeeRepository.FindByEmail(ctx, tx, payload.Email)
		if err != nil {
			return badRequestIfMissing(err, "You are not a registered employee. Contact admin.")
		}

		_, err = s.accountRepository.FindByEmail(ctx, tx, payload.Email)
		if err == nil {
			return apperrors.NewConflictError("An account with this email already exists.")
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		account := &entities.Account{
			Email:        strings.TrimSpace(payload.Email),
			FullName:     employee.FullName,
			PasswordHash: hash,
		}
		if err := s.accountRepository.Create(ctx, tx, account); err != nil {
			return err
		}
		if err := s.employeeRepository.SetAccount(ctx, tx, employee.ID, account.ID); err != nil {
			return err
		}
		return s.accountRepository.CreateLoginActivity(ctx, tx, &entities.LoginActivityLog{
			AccountID:    account.ID,
			EmployeeID:   uint64Ptr(employee.ID),
			Email:        account.Email,
			IPAddress:    ipAddress,
			LoginTime:    s.now().UTC(),
			IsSuccessful: true,
		})
	})
	if err != nil {
		logFailure(s.logger, "failed to register account", err, zap.String("email", payload.Email))
		return err
	}
	s.logger.Info("account registered", zap.String("email", payload.Email))
	return nil
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO, ipAddress string) (*dto.LoginResponseDTO, error) {
	email := normalizeEmail(payload.Email)
	logger := s.logger.With(zap.String("email", email))

	if s.isThrottled(ctx, email) {
		logger.Warn("login rejected: too many failed attempts")
		return nil, apperrors.NewUnauthorizedError("Too many failed attempts. Try again later.")
	}

	account, err := s.accountRepository.FindByEmail(ctx, nil, email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if account == nil || utils.ComparePasswords(account.PasswordHash, payload.Password) != nil {
		s.handleFailedLoginAttempt(ctx, email)
		return nil, apperrors.NewUnauthorizedError("Invalid email or password.")
	}
	if account.IsLockedOut(s.now()) {
		logger.Warn("login rejected: account locked", zap.Uint64("account_id", account.ID))
		return nil, apperrors.NewForbiddenError("This account is locked. Contact administrator.")
	}
	s.resetLoginAttempts(ctx, email)

	var employee *entities.Employee
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		found, err := s.employeeRepository.FindByEmail(ctx, tx, email)
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		employee = found

		if employee.AccountID == nil {
			if err := s.employeeRepository.SetAccount(ctx, tx, employee.ID, account.ID); err != nil {
				return err
			}
			employee.AccountID = uint64Ptr(account.ID)
		}
		return s.accountRepository.CreateLoginActivity(ctx, tx, &entities.LoginActivityLog{
			AccountID:    account.ID,
			EmployeeID:   uint64Ptr(employee.ID),
			Email:        employee.Email,
			IPAddress:    ipAddress,
			LoginTime:    s.now().UTC(),
			IsSuccessful: true,
		})
	})
	if err != nil {
		logger.Error("failed to record login", zap.Error(err))
		return nil, err
	}

	response := &dto.LoginResponseDTO{
		ExpiresIn: int64(s.jwtService.GetAccessTokenTTL().Seconds()),
		Name:      account.FullName,
		Email:     account.Email,
	}
	if employee != nil {
		response.EmployeeID = employee.ID
		response.Role = employee.Role
	}

	token, err := s.jwtService.GenerateToken(account.ID, response.EmployeeID, response.Role)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to issue token.", err)
	}
	response.Token = token

	logger.Info("login succeeded", zap.Uint64("account_id", account.ID))
	return response, nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	accountID, err := utils.GetAccountIDFromCtx(ctx)
	if err != nil {
		return err
	}
	return s.accountRepository.CloseLatestLoginActivity(ctx, nil, accountID, s.now().UTC())
}

func (s *AuthService) ChangePassword(ctx context.Context, payload dto.ChangePasswordDTO) error {
	accountID, err := utils.GetAccountIDFromCtx(ctx)
	if err != nil {
		return err
	}

	account, err := s.accountRepository.FindByID(ctx, nil, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrUnauthorized
		}
		return err
	}
	if utils.ComparePasswords(account.PasswordHash, payload.CurrentPassword) != nil {
		return apperrors.NewValidationError("Current password is incorrect.")
	}

	hash, err := utils.HashPassword(payload.NewPassword)
	if err != nil {
		return apperrors.NewInternalError("Failed to change password.", err)
	}
	account.PasswordHash = hash
	if err := s.accountRepository.Update(ctx, nil, account); err != nil {
		s.logger.Error("failed to store new password", zap.Uint64("account_id", accountID), zap.Error(err))
		return err
	}
	return nil
}

func loginAttemptsKey(email string) string { return fmt.Sprintf("login_attempts:%s", email) }
func loginLockoutKey(email string) string  { return fmt.Sprintf("login_lockout:%s", email) }

func (s *AuthService) isThrottled(ctx context.Context, email string) bool {
	_, err := s.cacheRepo.Get(ctx, loginLockoutKey(email))
	if err == nil {
		return true
	}
	if !errors.Is(err, repositories.ErrCacheMiss) {
		s.logger.Warn("login throttle unavailable", zap.Error(err))
	}
	return false
}

func (s *AuthService) handleFailedLoginAttempt(ctx context.Context, email string) {
	attemptsKey := loginAttemptsKey(email)
	attempts, err := s.cacheRepo.IncrWithin(ctx, attemptsKey, s.cfg.LockoutDuration)
	if err != nil {
		s.logger.Warn("failed to count login attempt", zap.Error(err))
		return
	}
	if attempts >= int64(s.cfg.MaxLoginAttempts) {
		if err := s.cacheRepo.Set(ctx, loginLockoutKey(email), strconv.FormatInt(attempts, 10), s.cfg.LockoutDuration); err != nil {
			s.logger.Error("failed to store login lockout", zap.String("email", email), zap.Error(err))
			return
		}
		if err := s.cacheRepo.Del(ctx, attemptsKey); err != nil {
			s.logger.Warn("failed to reset login attempts", zap.String("email", email), zap.Error(err))
		}
		s.logger.Warn("login locked after repeated failures", zap.String("email", email), zap.Int64("attempts", attempts))
	}
}

func (s *AuthService) resetLoginAttempts(ctx context.Context, email string) {
	_ = s.cacheRepo.Del(ctx, loginAttemptsKey(email), loginLockoutKey(email))
}
