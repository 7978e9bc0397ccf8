package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"employee-system/internal/dto"
	"employee-system/internal/entities"
	"employee-system/internal/repositories"
	"employee-system/pkg/constants"
	apperrors "employee-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const leaveNotFound = "Leave request not found."

type LeaveService struct {
	txManager          repositories.TxManagerInterface
	leaveRepository    repositories.LeaveRequestRepositoryInterface
	employeeRepository repositories.EmployeeRepositoryInterface
	accounting         *LeaveAccounting
	logger             *zap.Logger
	now                func() time.Time
}

func NewLeaveService(
	txManager repositories.TxManagerInterface,
	leaveRepository repositories.LeaveRequestRepositoryInterface,
	employeeRepository repositories.EmployeeRepositoryInterface,
	accounting *LeaveAccounting,
	logger *zap.Logger,
) *LeaveService {
	return &LeaveService{
		txManager:          txManager,
		leaveRepository:    leaveRepository,
		employeeRepository: employeeRepository,
		accounting:         accounting,
		logger:             logger,
		now:                time.Now,
	}
}

// Apply records a leave request for the caller, or for payload.EmployeeID when the caller may act for others.
// A request submitted as Approved is deducted immediately.
func (s *LeaveService) Apply(ctx context.Context, payload dto.ApplyLeaveDTO) (*dto.LeaveRequestDTO, error) {
	callerID, role, err := callerIdentity(ctx)
	if err != nil {
		return nil, err
	}
	employeeID := payload.EmployeeID
	if employeeID == 0 {
		employeeID = callerID
	}
	if role == constants.RoleEmployee && employeeID != callerID {
		return nil, apperrors.NewForbiddenError("You can only apply for your own leave.")
	}

	if payload.StartDate.IsZero() || payload.EndDate.IsZero() {
		return nil, apperrors.NewValidationError("Start date and end date are required.")
	}
	if payload.StartDate.After(payload.EndDate.Time) {
		return nil, apperrors.NewValidationError("End date must be after start date.")
	}
	days := CalculateBusinessDays(payload.StartDate.Time, payload.EndDate.Time)
	if days <= 0 {
		return nil, apperrors.NewValidationError("Invalid leave period.")
	}

	status := constants.LeaveStatusPending
	if strings.EqualFold(strings.TrimSpace(payload.Status), constants.LeaveStatusApproved) {
		status = constants.LeaveStatusApproved
	}

	request := &entities.LeaveRequest{
		EmployeeID:  employeeID,
		StartDate:   payload.StartDate.Time,
		EndDate:     payload.EndDate.Time,
		Status:      status,
		Reason:      strings.TrimSpace(payload.Reason),
		RequestDate: s.now().UTC(),
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.employeeRepository.FindByID(ctx, tx, employeeID); err != nil {
			return notFoundAs(err, employeeNotFound)
		}

		balance, ok, err := s.accounting.EnsureBalance(ctx, tx, employeeID, days)
		if err != nil {
			return err
		}
		if !ok {
			available := max(0, balance.Remaining())
			return apperrors.NewInsufficientBalanceError(
				fmt.Sprintf("Insufficient balance. Available leave: %d, Requested leave: %d", available, days),
				available, days)
		}

		if err := s.leaveRepository.Create(ctx, tx, request); err != nil {
			return err
		}

		if status == constants.LeaveStatusApproved {
			if err := s.accounting.Deduct(ctx, tx, balance, days); err != nil {
				return apperrors.NewInternalError("Failed to update leave balance.", err)
			}
		}
		return nil
	})
	if err != nil {
		logFailure(s.logger, "failed to apply leave", err, zap.Uint64("employee_id", employeeID))
		return nil, err
	}

	s.logger.Info("leave applied",
		zap.Uint64("leave_id", request.ID),
		zap.Uint64("employee_id", employeeID),
		zap.String("status", status),
		zap.Int("business_days", days))
	out := dto.LeaveRequestToDTO(&entities.LeaveRequestWithEmployee{LeaveRequest: *request}, days)
	return &out, nil
}

// ApproveOrReject writes a new status. Balance is deducted only when a request first becomes Approved;
// every other status is stored as given and never refunds.
func (s *LeaveService) ApproveOrReject(ctx context.Context, id uint64, newStatus string) (*dto.LeaveRequestDTO, error) {
	newStatus = strings.TrimSpace(newStatus)
	if newStatus == "" {
		return nil, apperrors.NewValidationError("Status is required.")
	}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		request, err := s.leaveRepository.FindByID(ctx, tx, id)
		if err != nil {
			return notFoundAs(err, leaveNotFound)
		}

		approving := strings.EqualFold(newStatus, constants.LeaveStatusApproved)
		if approving && !strings.EqualFold(request.Status, constants.LeaveStatusApproved) {
			days := CalculateBusinessDays(request.StartDate, request.EndDate)
			if _, err := s.employeeRepository.FindByID(ctx, tx, request.EmployeeID); err != nil {
				return notFoundAs(err, employeeNotFound)
			}

			balance, ok, err := s.accounting.EnsureBalance(ctx, tx, request.EmployeeID, days)
			if err != nil {
				return err
			}
			if !ok {
				return apperrors.NewInsufficientBalanceError(
					fmt.Sprintf("Insufficient balance. Available: %d, Requested: %d", balance.Remaining(), days),
					balance.Remaining(), days)
			}
			if err := s.accounting.Deduct(ctx, tx, balance, days); err != nil {
				return apperrors.NewInternalError("Failed to update leave balance.", err)
			}
		}

		status := newStatus
		if approving {
			status = constants.LeaveStatusApproved
		}
		return s.leaveRepository.UpdateStatus(ctx, tx, id, status)
	})
	if err != nil {
		logFailure(s.logger, "failed to change leave status", err, zap.Uint64("leave_id", id))
		return nil, err
	}

	s.logger.Info("leave status changed", zap.Uint64("leave_id", id), zap.String("status", newStatus))
	return s.FindLeave(ctx, id)
}

func (s *LeaveService) FindLeave(ctx context.Context, id uint64) (*dto.LeaveRequestDTO, error) {
	request, err := s.leaveRepository.FindWithEmployee(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, leaveNotFound)
	}
	out := dto.LeaveRequestToDTO(request, CalculateBusinessDays(request.StartDate, request.EndDate))
	return &out, nil
}

func (s *LeaveService) GetEmployeeLeaves(ctx context.Context, employeeID uint64) ([]dto.LeaveRequestDTO, error) {
	requests, err := s.leaveRepository.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return leaveRequestsToDTO(requests), nil
}

func (s *LeaveService) GetPending(ctx context.Context) ([]dto.LeaveRequestDTO, error) {
	requests, err := s.leaveRepository.ListByStatus(ctx, constants.LeaveStatusPending)
	if err != nil {
		return nil, err
	}
	return leaveRequestsToDTO(requests), nil
}

// GetTeamPending lists pending requests of employees reporting to managerID.
func (s *LeaveService) GetTeamPending(ctx context.Context, managerID uint64) ([]dto.LeaveRequestDTO, error) {
	if _, err := s.employeeRepository.FindByID(ctx, nil, managerID); err != nil {
		return nil, notFoundAs(err, "Manager not found.")
	}
	requests, err := s.leaveRepository.ListByStatusForManager(ctx, managerID, constants.LeaveStatusPending)
	if err != nil {
		return nil, err
	}
	return leaveRequestsToDTO(requests), nil
}
