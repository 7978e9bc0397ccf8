package services

import (
	"context"

	"employee-system/internal/dto"
	"employee-system/internal/repositories"
	apperrors "employee-system/pkg/errors"

	"go.uber.org/zap"
)

type ActivityService struct {
	employeeRepository repositories.EmployeeRepositoryInterface
	accountRepository  repositories.AccountRepositoryInterface
	logger             *zap.Logger
}

func NewActivityService(
	employeeRepository repositories.EmployeeRepositoryInterface,
	accountRepository repositories.AccountRepositoryInterface,
	logger *zap.Logger,
) *ActivityService {
	return &ActivityService{
		employeeRepository: employeeRepository,
		accountRepository:  accountRepository,
		logger:             logger,
	}
}

// GetLoginHistory lists the logins of the employee's account, newest first.
func (s *ActivityService) GetLoginHistory(ctx context.Context, employeeID uint64) (*dto.LoginHistoryDTO, error) {
	employee, err := s.employeeRepository.FindByID(ctx, nil, employeeID)
	if err != nil {
		return nil, notFoundAs(err, employeeNotFound)
	}
	if employee.AccountID == nil {
		return nil, apperrors.NewValidationError("Employee has no login account.")
	}

	logs, err := s.accountRepository.GetLoginActivity(ctx, *employee.AccountID)
	if err != nil {
		s.logger.Error("failed to load login history", zap.Uint64("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	out := &dto.LoginHistoryDTO{
		EmployeeID: employee.ID,
		AccountID:  *employee.AccountID,
		Logs:       make([]dto.LoginActivityDTO, 0, len(logs)),
	}
	for _, l := range logs {
		out.Logs = append(out.Logs, dto.LoginActivityToDTO(l))
	}
	return out, nil
}
