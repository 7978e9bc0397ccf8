package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"employee-system/internal/dto"
	"employee-system/internal/entities"
	"employee-system/internal/repositories"
	"employee-system/pkg/constants"
	apperrors "employee-system/pkg/errors"
	"employee-system/pkg/types"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const employeeNotFound = "Employee not found."

// lockedForever is the lockout end written for accounts of deleted employees.
var lockedForever = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

type EmployeeService struct {
	txManager            repositories.TxManagerInterface
	employeeRepository   repositories.EmployeeRepositoryInterface
	departmentRepository repositories.DepartmentRepositoryInterface
	roleRepository       repositories.RoleRepositoryInterface
	accountRepository    repositories.AccountRepositoryInterface
	auditRepository      repositories.AuditLogRepositoryInterface
	leaveRepository      repositories.LeaveRequestRepositoryInterface
	accounting           *LeaveAccounting
	managers             *ManagerAssignment
	logger               *zap.Logger
	now                  func() time.Time
}

func NewEmployeeService(
	txManager repositories.TxManagerInterface,
	employeeRepository repositories.EmployeeRepositoryInterface,
	departmentRepository repositories.DepartmentRepositoryInterface,
	roleRepository repositories.RoleRepositoryInterface,
	accountRepository repositories.AccountRepositoryInterface,
	auditRepository repositories.AuditLogRepositoryInterface,
	leaveRepository repositories.LeaveRequestRepositoryInterface,
	accounting *LeaveAccounting,
	managers *ManagerAssignment,
	logger *zap.Logger,
) *EmployeeService {
	return &EmployeeService{
		txManager:            txManager,
		employeeRepository:   employeeRepository,
		departmentRepository: departmentRepository,
		roleRepository:       roleRepository,
		accountRepository:    accountRepository,
		auditRepository:      auditRepository,
		leaveRepository:      leaveRepository,
		accounting:           accounting,
		managers:             managers,
		logger:               logger,
		now:                  time.Now,
	}
}

// ---------- queries ----------

func (s *EmployeeService) GetEmployees(ctx context.Context, filter types.Filter) ([]dto.EmployeeDTO, uint64, error) {
	employees, total, err := s.employeeRepository.GetEmployees(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list employees", zap.Error(err))
		return nil, 0, err
	}
	out := make([]dto.EmployeeDTO, 0, len(employees))
	for i := range employees {
		out = append(out, dto.EmployeeWithDepartmentToDTO(&employees[i]))
	}
	return out, total, nil
}

// FilterEmployees returns every employee matching the optional department and role.
func (s *EmployeeService) FilterEmployees(ctx context.Context, criteria dto.EmployeeFilterDTO) ([]dto.EmployeeDTO, error) {
	filter := types.Filter{Filter: map[string]interface{}{}}
	if criteria.DepartmentID != nil {
		filter.Filter["department_id"] = strconv.FormatUint(*criteria.DepartmentID, 10)
	}
	if criteria.Role != "" {
		filter.Filter["role"] = criteria.Role
	}
	list, _, err := s.GetEmployees(ctx, filter)
	return list, err
}

func (s *EmployeeService) FindEmployee(ctx context.Context, id uint64) (*dto.EmployeeDTO, error) {
	employee, err := s.employeeRepository.FindWithDepartment(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, employeeNotFound)
	}
	out := dto.EmployeeWithDepartmentToDTO(employee)
	return &out, nil
}

func (s *EmployeeService) GetManagers(ctx context.Context) ([]dto.ManagerDetailsDTO, error) {
	roster, err := s.employeeRepository.GetManagers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ManagerDetailsDTO, 0, len(roster))
	for _, m := range roster {
		out = append(out, dto.ManagerDetailsToDTO(m))
	}
	return out, nil
}

func (s *EmployeeService) GetSubordinates(ctx context.Context, managerID uint64) ([]dto.EmployeeDTO, error) {
	subordinates, err := s.employeeRepository.GetSubordinates(ctx, managerID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EmployeeDTO, 0, len(subordinates))
	for i := range subordinates {
		out = append(out, dto.EmployeeToDTO(&subordinates[i]))
	}
	return out, nil
}

func (s *EmployeeService) GetEmployeeLogs(ctx context.Context, id uint64) ([]dto.EmployeeLogDTO, error) {
	logs, err := s.auditRepository.GetEmployeeLogs(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EmployeeLogDTO, 0, len(logs))
	for _, l := range logs {
		out = append(out, dto.EmployeeLogToDTO(l))
	}
	return out, nil
}

func (s *EmployeeService) GetProfile(ctx context.Context, employeeID uint64) (*dto.EmployeeProfileDTO, error) {
	employee, err := s.employeeRepository.FindWithDepartment(ctx, employeeID)
	if err != nil {
		return nil, notFoundAs(err, employeeNotFound)
	}
	balance, err := s.accounting.Current(ctx, employeeID)
	if err != nil {
		s.logger.Error("failed to load leave balance", zap.Uint64("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	return &dto.EmployeeProfileDTO{
		Employee:    dto.EmployeeWithDepartmentToDTO(employee),
		ManagerName: s.managerName(ctx, employee.ManagerID),
		Balance:     dto.LeaveBalanceToDTO(balance),
	}, nil
}

// GetCurrentMonthLeaves lists requests starting in the current calendar month.
func (s *EmployeeService) GetCurrentMonthLeaves(ctx context.Context, employeeID uint64) ([]dto.LeaveRequestDTO, error) {
	if _, err := s.employeeRepository.FindByID(ctx, nil, employeeID); err != nil {
		return nil, notFoundAs(err, employeeNotFound)
	}
	requests, err := s.currentMonthRequests(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return leaveRequestsToDTO(requests), nil
}

// GetCurrentMonthInfo counts approved calendar days on leave this month against the employee quota.
func (s *EmployeeService) GetCurrentMonthInfo(ctx context.Context, employeeID uint64) (*dto.CurrentMonthInfoDTO, error) {
	employee, err := s.employeeRepository.FindWithDepartment(ctx, employeeID)
	if err != nil {
		return nil, notFoundAs(err, employeeNotFound)
	}
	requests, err := s.currentMonthRequests(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	daysOnLeave := 0
	for _, r := range requests {
		if strings.EqualFold(r.Status, constants.LeaveStatusApproved) {
			daysOnLeave += calendarDays(r.StartDate, r.EndDate)
		}
	}

	return &dto.CurrentMonthInfoDTO{
		Employee:              dto.EmployeeWithDepartmentToDTO(employee),
		ManagerName:           s.managerName(ctx, employee.ManagerID),
		CurrentMonth:          s.now().UTC().Format("January 2006"),
		LeaveRequests:         leaveRequestsToDTO(requests),
		DaysOnLeave:           daysOnLeave,
		RemainingLeaveBalance: employee.LeaveBalance - daysOnLeave,
	}, nil
}

func (s *EmployeeService) currentMonthRequests(ctx context.Context, employeeID uint64) ([]entities.LeaveRequestWithEmployee, error) {
	now := s.now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return s.leaveRepository.ListByEmployeeStartingBetween(ctx, employeeID, from, from.AddDate(0, 1, 0))
}

func (s *EmployeeService) managerName(ctx context.Context, managerID *uint64) string {
	if managerID == nil {
		return constants.NotAvailable
	}
	manager, err := s.employeeRepository.FindByID(ctx, nil, *managerID)
	if err != nil {
		return constants.NotAvailable
	}
	return manager.FullName
}

// ---------- lifecycle ----------

func (s *EmployeeService) CreateEmployee(ctx context.Context, payload dto.CreateEmployeeDTO) (*dto.EmployeeDTO, error) {
	var created *entities.Employee
	var departmentName string

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.ensureEmailFree(ctx, tx, payload.Email, 0); err != nil {
			return err
		}

		department, err := s.departmentRepository.FindByID(ctx, tx, payload.DepartmentID)
		if err != nil {
			return badRequestIfMissing(err, "Selected department does not exist.")
		}

		switch payload.Role {
		case constants.RoleManager:
			if department.ManagerID != nil {
				return apperrors.NewConflictError("This department already has a manager assigned. Please change the current manager to employee role first.")
			}
			hasAdmin, err := s.employeeRepository.ExistsWithRole(ctx, tx, constants.RoleAdmin)
			if err != nil {
				return err
			}
			if !hasAdmin {
				return apperrors.NewValidationError("Please create an Admin before adding a Manager.")
			}
		case constants.RoleEmployee:
			if department.ManagerID == nil {
				return apperrors.NewValidationError("Please assign a Manager to the Department first.")
			}
		}

		role, err := s.roleRepository.FindByName(ctx, tx, payload.Role)
		if err != nil {
			return badRequestIfMissing(err, "Selected role is invalid.")
		}

		employee := &entities.Employee{
			FullName:     strings.TrimSpace(payload.FullName),
			Email:        strings.TrimSpace(payload.Email),
			PhoneNumber:  payload.PhoneNumber,
			Role:         role.Name,
			RoleID:       uint64Ptr(role.ID),
			IsActive:     payload.IsActive,
			DepartmentID: department.ID,
			LeaveBalance: payload.LeaveBalance,
		}
		if !employee.IsManager() && department.ManagerID != nil {
			employee.ManagerID = uint64Ptr(*department.ManagerID)
		}
		if err := s.employeeRepository.Create(ctx, tx, employee); err != nil {
			return err
		}

		if employee.IsManager() {
			if err := s.managers.AssignManager(ctx, tx, employee, department); err != nil {
				return err
			}
		}

		if _, err := s.accounting.Provision(ctx, tx, employee.ID, employee.LeaveBalance); err != nil {
			return err
		}
		if err := s.auditRepository.CreateEmployeeLogInTx(ctx, tx, entities.NewEmployeeLog(employee, constants.OperationCreated)); err != nil {
			return err
		}

		created = employee
		departmentName = department.Name
		return nil
	})
	if err != nil {
		logFailure(s.logger, "failed to create employee", err, zap.String("email", payload.Email))
		return nil, err
	}

	s.logger.Info("employee created", zap.Uint64("id", created.ID), zap.String("role", created.Role))
	out := dto.EmployeeToDTO(created)
	out.DepartmentName = departmentName
	return &out, nil
}

func (s *EmployeeService) UpdateEmployee(ctx context.Context, id uint64, payload dto.UpdateEmployeeDTO) (*dto.EmployeeDTO, error) {
	if payload.ID != 0 && payload.ID != id {
		return nil, apperrors.NewNotFoundError(employeeNotFound)
	}

	var updated *entities.Employee
	var departmentName string

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		existing, err := s.employeeRepository.FindByID(ctx, tx, id)
		if err != nil {
			return notFoundAs(err, employeeNotFound)
		}

		wasManager := existing.IsManager()
		willBeManager := payload.Role == constants.RoleManager
		oldDepartmentID := existing.DepartmentID

		target, err := s.departmentRepository.FindByID(ctx, tx, payload.DepartmentID)
		if err != nil {
			return badRequestIfMissing(err, "Selected department does not exist.")
		}
		managedByOther := target.ManagerID != nil && *target.ManagerID != id

		switch {
		case willBeManager && !wasManager:
			if managedByOther {
				return apperrors.NewConflictError("This department already has a manager assigned. Please change the current manager to employee role first.")
			}
		case willBeManager && wasManager && target.ID != oldDepartmentID:
			if managedByOther {
				return apperrors.NewConflictError("The target department already has a manager assigned.")
			}
		case payload.Role == constants.RoleEmployee:
			if target.ManagerID == nil {
				return apperrors.NewValidationError("Cannot assign employee to a department without a manager. Please assign a manager to the department first.")
			}
		}

		role, err := s.roleRepository.FindByName(ctx, tx, payload.Role)
		if err != nil {
			return badRequestIfMissing(err, "Selected role is invalid.")
		}

		if normalizeEmail(payload.Email) != normalizeEmail(existing.Email) {
			if err := s.ensureEmailFree(ctx, tx, payload.Email, id); err != nil {
				return err
			}
		}

		if delta := payload.LeaveBalance - existing.LeaveBalance; delta != 0 {
			if err := s.accounting.AdjustQuota(ctx, tx, id, delta); err != nil {
				return err
			}
		}

		existing.FullName = strings.TrimSpace(payload.FullName)
		existing.Email = strings.TrimSpace(payload.Email)
		existing.PhoneNumber = payload.PhoneNumber
		existing.Role = role.Name
		existing.RoleID = uint64Ptr(role.ID)
		existing.IsActive = payload.IsActive
		existing.DepartmentID = target.ID
		existing.LeaveBalance = payload.LeaveBalance
		existing.ManagerID = nil
		if !willBeManager && target.ManagerID != nil && *target.ManagerID != id {
			existing.ManagerID = uint64Ptr(*target.ManagerID)
		}
		if err := s.employeeRepository.Update(ctx, tx, existing); err != nil {
			return err
		}

		if err := s.managers.ApplyRoleTransition(ctx, tx, existing, wasManager, oldDepartmentID); err != nil {
			return err
		}

		final, department, err := s.resolveReportingLine(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.auditRepository.CreateEmployeeLogInTx(ctx, tx, entities.NewEmployeeLog(final, constants.OperationUpdated)); err != nil {
			return err
		}

		updated = final
		departmentName = department.Name
		return nil
	})
	if err != nil {
		logFailure(s.logger, "failed to update employee", err, zap.Uint64("id", id))
		return nil, err
	}

	s.logger.Info("employee updated", zap.Uint64("id", id), zap.String("role", updated.Role))
	out := dto.EmployeeToDTO(updated)
	out.DepartmentName = departmentName
	return &out, nil
}

// resolveReportingLine points a non-manager at its department's manager after role transitions ran.
func (s *EmployeeService) resolveReportingLine(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Employee, *entities.Department, error) {
	employee, err := s.employeeRepository.FindByID(ctx, tx, id)
	if err != nil {
		return nil, nil, err
	}
	department, err := s.departmentRepository.FindByID(ctx, tx, employee.DepartmentID)
	if err != nil {
		return nil, nil, err
	}
	if employee.IsManager() {
		return employee, department, nil
	}

	var managerID *uint64
	if department.ManagerID != nil && *department.ManagerID != employee.ID {
		managerID = uint64Ptr(*department.ManagerID)
	}
	if !sameRef(employee.ManagerID, managerID) {
		employee.ManagerID = managerID
		if err := s.employeeRepository.Update(ctx, tx, employee); err != nil {
			return nil, nil, err
		}
	}
	return employee, department, nil
}

func (s *EmployeeService) DeleteEmployee(ctx context.Context, id uint64) error {
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		employee, err := s.employeeRepository.FindByID(ctx, tx, id)
		if err != nil {
			return notFoundAs(err, employeeNotFound)
		}

		_, err = s.departmentRepository.FindManagedBy(ctx, tx, id, 0)
		if err == nil {
			return apperrors.NewConflictError("Cannot delete employee: assigned as department manager.")
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		if err := s.lockAccount(ctx, tx, employee); err != nil {
			return err
		}
		if err := s.employeeRepository.ClearSubordinates(ctx, tx, id); err != nil {
			return err
		}
		if err := s.auditRepository.CreateEmployeeLogInTx(ctx, tx, entities.NewEmployeeLog(employee, constants.OperationDeleted)); err != nil {
			return err
		}
		return s.employeeRepository.Delete(ctx, tx, id)
	})
	if err != nil {
		logFailure(s.logger, "failed to delete employee", err, zap.Uint64("id", id))
		return err
	}
	s.logger.Info("employee deleted", zap.Uint64("id", id))
	return nil
}

// lockAccount locks the linked account, or the account registered under the employee's email when none is linked.
func (s *EmployeeService) lockAccount(ctx context.Context, tx pgx.Tx, employee *entities.Employee) error {
	var (
		account *entities.Account
		err     error
	)
	if employee.AccountID != nil {
		account, err = s.accountRepository.FindByID(ctx, tx, *employee.AccountID)
	} else {
		account, err = s.accountRepository.FindByEmail(ctx, tx, employee.Email)
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	end := lockedForever
	account.LockoutEnabled = true
	account.LockoutEnd = &end
	return s.accountRepository.Update(ctx, tx, account)
}

// ensureEmailFree fails when another employee than exceptID uses email.
func (s *EmployeeService) ensureEmailFree(ctx context.Context, tx pgx.Tx, email string, exceptID uint64) error {
	other, err := s.employeeRepository.FindByEmail(ctx, tx, email)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return nil
	case err != nil:
		return err
	case other.ID != exceptID:
		return apperrors.NewConflictError("A user with this Email already exists.")
	}
	return nil
}

// calendarDays counts days in [start, end] including weekends.
func calendarDays(start, end time.Time) int {
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}

func leaveRequestsToDTO(requests []entities.LeaveRequestWithEmployee) []dto.LeaveRequestDTO {
	out := make([]dto.LeaveRequestDTO, 0, len(requests))
	for i := range requests {
		r := &requests[i]
		out = append(out, dto.LeaveRequestToDTO(r, CalculateBusinessDays(r.StartDate, r.EndDate)))
	}
	return out
}
