package services

import (
	"context"
	"errors"
	"fmt"

	"employee-system/internal/entities"
	"employee-system/internal/repositories"
	"employee-system/pkg/constants"
	apperrors "employee-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ManagerConflictError reports that a candidate already manages Department.
type ManagerConflictError struct {
	EmployeeID uint64
	Department entities.Department
}

func (e *ManagerConflictError) Error() string {
	return fmt.Sprintf("employee %d already manages department %d (%s)", e.EmployeeID, e.Department.ID, e.Department.Name)
}

// ManagerAssignment keeps departments.manager_id and employees.manager_id consistent.
// Every method must run inside the caller's transaction.
type ManagerAssignment struct {
	employeeRepository   repositories.EmployeeRepositoryInterface
	departmentRepository repositories.DepartmentRepositoryInterface
	roleRepository       repositories.RoleRepositoryInterface
	auditRepository      repositories.AuditLogRepositoryInterface
	logger               *zap.Logger
}

func NewManagerAssignment(
	employeeRepository repositories.EmployeeRepositoryInterface,
	departmentRepository repositories.DepartmentRepositoryInterface,
	roleRepository repositories.RoleRepositoryInterface,
	auditRepository repositories.AuditLogRepositoryInterface,
	logger *zap.Logger,
) *ManagerAssignment {
	return &ManagerAssignment{
		employeeRepository:   employeeRepository,
		departmentRepository: departmentRepository,
		roleRepository:       roleRepository,
		auditRepository:      auditRepository,
		logger:               logger,
	}
}

// ValidateManagerCandidate loads the employee and fails when it manages a department other than excludeDepartmentID.
func (m *ManagerAssignment) ValidateManagerCandidate(ctx context.Context, tx pgx.Tx, employeeID, excludeDepartmentID uint64) (*entities.Employee, error) {
	employee, err := m.employeeRepository.FindByID(ctx, tx, employeeID)
	if err != nil {
		return nil, err
	}
	managed, err := m.departmentRepository.FindManagedBy(ctx, tx, employeeID, excludeDepartmentID)
	switch {
	case err == nil:
		return nil, &ManagerConflictError{EmployeeID: employeeID, Department: *managed}
	case errors.Is(err, apperrors.ErrNotFound):
		return employee, nil
	default:
		return nil, err
	}
}

// AssignManager makes employee the manager of department and points every other member at it.
// The employee is promoted and moved into the department.
func (m *ManagerAssignment) AssignManager(ctx context.Context, tx pgx.Tx, employee *entities.Employee, department *entities.Department) error {
	if _, err := m.ValidateManagerCandidate(ctx, tx, employee.ID, department.ID); err != nil {
		return err
	}

	roleID, err := m.roleID(ctx, tx, constants.RoleManager)
	if err != nil {
		return err
	}
	employee.Role = constants.RoleManager
	if roleID != nil {
		employee.RoleID = roleID
	}
	employee.ManagerID = nil
	employee.DepartmentID = department.ID
	if err := m.employeeRepository.Update(ctx, tx, employee); err != nil {
		return err
	}

	managerID := employee.ID
	managerName := employee.FullName
	department.ManagerID = &managerID
	department.ManagerName = &managerName
	if err := m.departmentRepository.Update(ctx, tx, department); err != nil {
		return err
	}

	return m.employeeRepository.AssignManagerToDepartmentMembers(ctx, tx, department.ID, employee.ID)
}

// RemoveManager detaches employeeID from departmentID. The employee is demoted unless it still
// manages another department. Calling it again has no further effect.
func (m *ManagerAssignment) RemoveManager(ctx context.Context, tx pgx.Tx, employeeID, departmentID uint64) error {
	employee, err := m.employeeRepository.FindByID(ctx, tx, employeeID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	if employee != nil && employee.IsManager() {
		_, err := m.departmentRepository.FindManagedBy(ctx, tx, employeeID, departmentID)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			if err := m.demote(ctx, tx, employee, departmentID); err != nil {
				return err
			}
		case err != nil:
			return err
		}
	}

	return m.employeeRepository.ClearManagerInDepartment(ctx, tx, departmentID, employeeID)
}

func (m *ManagerAssignment) demote(ctx context.Context, tx pgx.Tx, employee *entities.Employee, releasedDepartmentID uint64) error {
	roleID, err := m.roleID(ctx, tx, constants.RoleEmployee)
	if err != nil {
		return err
	}
	employee.Role = constants.RoleEmployee
	employee.RoleID = roleID
	employee.ManagerID = nil

	home, err := m.departmentRepository.FindByID(ctx, tx, employee.DepartmentID)
	switch {
	case err == nil:
		if home.ManagerID != nil && *home.ManagerID != employee.ID && home.ID != releasedDepartmentID {
			managerID := *home.ManagerID
			employee.ManagerID = &managerID
		}
	case !errors.Is(err, apperrors.ErrNotFound):
		return err
	}

	m.logger.Info("manager demoted",
		zap.Uint64("employee_id", employee.ID),
		zap.Uint64("department_id", releasedDepartmentID))
	return m.employeeRepository.Update(ctx, tx, employee)
}

// ApplyRoleTransition reconciles departments after employee changed role or department.
// employee already carries its new role and department and has been persisted.
func (m *ManagerAssignment) ApplyRoleTransition(ctx context.Context, tx pgx.Tx, employee *entities.Employee, wasManager bool, oldDepartmentID uint64) error {
	willBeManager := employee.IsManager()

	switch {
	case wasManager && !willBeManager:
		return m.demoteEverywhere(ctx, tx, employee)
	case !wasManager && willBeManager:
		return m.promote(ctx, tx, employee)
	case wasManager && willBeManager && oldDepartmentID != employee.DepartmentID:
		if err := m.transferOut(ctx, tx, employee.ID, oldDepartmentID); err != nil {
			return err
		}
		return m.promote(ctx, tx, employee)
	}
	return nil
}

func (m *ManagerAssignment) demoteEverywhere(ctx context.Context, tx pgx.Tx, employee *entities.Employee) error {
	departments, err := m.departmentRepository.ListManagedBy(ctx, tx, employee.ID)
	if err != nil {
		return err
	}
	for i := range departments {
		d := &departments[i]
		d.ManagerID = nil
		d.ManagerName = nil
		if err := m.departmentRepository.Update(ctx, tx, d); err != nil {
			return err
		}
		if err := m.auditRepository.CreateDepartmentLogInTx(ctx, tx, entities.NewDepartmentLog(d, constants.OperationManagerDemoted)); err != nil {
			return err
		}
		if err := m.RemoveManager(ctx, tx, employee.ID, d.ID); err != nil {
			return err
		}
	}
	return m.employeeRepository.ClearSubordinates(ctx, tx, employee.ID)
}

func (m *ManagerAssignment) promote(ctx context.Context, tx pgx.Tx, employee *entities.Employee) error {
	department, err := m.departmentRepository.FindByID(ctx, tx, employee.DepartmentID)
	if err != nil {
		return err
	}
	if err := m.AssignManager(ctx, tx, employee, department); err != nil {
		return err
	}
	return m.auditRepository.CreateDepartmentLogInTx(ctx, tx, entities.NewDepartmentLog(department, constants.OperationManagerAssigned))
}

func (m *ManagerAssignment) transferOut(ctx context.Context, tx pgx.Tx, employeeID, departmentID uint64) error {
	old, err := m.departmentRepository.FindByID(ctx, tx, departmentID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !old.IsManagedBy(employeeID) {
		return nil
	}

	old.ManagerID = nil
	old.ManagerName = nil
	if err := m.departmentRepository.Update(ctx, tx, old); err != nil {
		return err
	}
	if err := m.employeeRepository.ClearManagerInDepartment(ctx, tx, old.ID, employeeID); err != nil {
		return err
	}
	return m.auditRepository.CreateDepartmentLogInTx(ctx, tx, entities.NewDepartmentLog(old, constants.OperationManagerTransferredOut))
}

// roleID resolves a catalog id; a missing role yields nil.
func (m *ManagerAssignment) roleID(ctx context.Context, tx pgx.Tx, name string) (*uint64, error) {
	role, err := m.roleRepository.FindByName(ctx, tx, name)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	id := role.ID
	return &id, nil
}
