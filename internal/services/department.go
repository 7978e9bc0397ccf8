package services

import (
	"context"
	"strings"

	"employee-system/internal/dto"
	"employee-system/internal/entities"
	"employee-system/internal/repositories"
	"employee-system/pkg/constants"
	apperrors "employee-system/pkg/errors"
	"employee-system/pkg/types"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const departmentNotFound = "Department not found."

type DepartmentService struct {
	txManager            repositories.TxManagerInterface
	departmentRepository repositories.DepartmentRepositoryInterface
	employeeRepository   repositories.EmployeeRepositoryInterface
	auditRepository      repositories.AuditLogRepositoryInterface
	managers             *ManagerAssignment
	logger               *zap.Logger
}

func NewDepartmentService(
	txManager repositories.TxManagerInterface,
	departmentRepository repositories.DepartmentRepositoryInterface,
	employeeRepository repositories.EmployeeRepositoryInterface,
	auditRepository repositories.AuditLogRepositoryInterface,
	managers *ManagerAssignment,
	logger *zap.Logger,
) *DepartmentService {
	return &DepartmentService{
		txManager:            txManager,
		departmentRepository: departmentRepository,
		employeeRepository:   employeeRepository,
		auditRepository:      auditRepository,
		managers:             managers,
		logger:               logger,
	}
}

func (s *DepartmentService) GetDepartments(ctx context.Context, filter types.Filter) ([]dto.DepartmentDTO, uint64, error) {
	departments, total, err := s.departmentRepository.GetDepartments(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list departments", zap.Error(err))
		return nil, 0, err
	}
	out := make([]dto.DepartmentDTO, 0, len(departments))
	for i := range departments {
		out = append(out, *dto.DepartmentToDTO(&departments[i]))
	}
	return out, total, nil
}

func (s *DepartmentService) FindDepartment(ctx context.Context, id uint64) (*dto.DepartmentDTO, error) {
	department, err := s.departmentRepository.FindByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundAs(err, departmentNotFound)
	}
	return dto.DepartmentToDTO(department), nil
}

func (s *DepartmentService) GetDepartmentLogs(ctx context.Context, id uint64) ([]dto.DepartmentLogDTO, error) {
	logs, err := s.auditRepository.GetDepartmentLogs(ctx, id)
	if err != nil {
		s.logger.Error("failed to list department logs", zap.Uint64("department_id", id), zap.Error(err))
		return nil, err
	}
	out := make([]dto.DepartmentLogDTO, 0, len(logs))
	for _, l := range logs {
		out = append(out, dto.DepartmentLogToDTO(l))
	}
	return out, nil
}

// CreateDepartment inserts the department and, when a manager is given, promotes it in the same transaction.
func (s *DepartmentService) CreateDepartment(ctx context.Context, payload dto.CreateDepartmentDTO) (*dto.DepartmentDTO, error) {
	name := strings.TrimSpace(payload.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("Department name is required.")
	}

	department := &entities.Department{Name: name}
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var manager *entities.Employee
		if payload.ManagerID != nil {
			candidate, err := s.managers.ValidateManagerCandidate(ctx, tx, *payload.ManagerID, 0)
			if err != nil {
				return candidateError(err, "Selected manager does not exist.", "This employee is already managing %s department.")
			}
			manager = candidate
		}

		if err := s.departmentRepository.Create(ctx, tx, department); err != nil {
			return err
		}
		if manager != nil {
			if err := s.managers.AssignManager(ctx, tx, manager, department); err != nil {
				return err
			}
		}
		return s.auditRepository.CreateDepartmentLogInTx(ctx, tx, entities.NewDepartmentLog(department, constants.OperationCreated))
	})
	if err != nil {
		logFailure(s.logger, "failed to create department", err, zap.String("name", name))
		return nil, err
	}

	s.logger.Info("department created", zap.Uint64("id", department.ID), zap.String("name", department.Name))
	return dto.DepartmentToDTO(department), nil
}

// UpdateDepartment renames the department and swaps its manager. The previous manager is released
// before the new one is assigned.
func (s *DepartmentService) UpdateDepartment(ctx context.Context, id uint64, payload dto.UpdateDepartmentDTO) (*dto.DepartmentDTO, error) {
	if payload.ID != 0 && payload.ID != id {
		return nil, apperrors.NewNotFoundError(departmentNotFound)
	}
	name := strings.TrimSpace(payload.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("Department name is required.")
	}

	var department *entities.Department
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		department, err = s.departmentRepository.FindByID(ctx, tx, id)
		if err != nil {
			return notFoundAs(err, departmentNotFound)
		}

		if !sameRef(department.ManagerID, payload.ManagerID) {
			var candidate *entities.Employee
			if payload.ManagerID != nil {
				candidate, err = s.managers.ValidateManagerCandidate(ctx, tx, *payload.ManagerID, department.ID)
				if err != nil {
					return candidateError(err, "Selected manager does not exist.", "This employee is already a manager of %s department.")
				}
			}

			if previous := department.ManagerID; previous != nil {
				department.ManagerID = nil
				department.ManagerName = nil
				if err := s.departmentRepository.Update(ctx, tx, department); err != nil {
					return err
				}
				if err := s.managers.RemoveManager(ctx, tx, *previous, department.ID); err != nil {
					return err
				}
			}

			if candidate != nil {
				if err := s.managers.AssignManager(ctx, tx, candidate, department); err != nil {
					return err
				}
			}
		}

		department.Name = name
		if err := s.departmentRepository.Update(ctx, tx, department); err != nil {
			return err
		}
		return s.auditRepository.CreateDepartmentLogInTx(ctx, tx, entities.NewDepartmentLog(department, constants.OperationUpdated))
	})
	if err != nil {
		logFailure(s.logger, "failed to update department", err, zap.Uint64("id", id))
		return nil, err
	}

	s.logger.Info("department updated", zap.Uint64("id", id))
	return dto.DepartmentToDTO(department), nil
}

func (s *DepartmentService) DeleteDepartment(ctx context.Context, id uint64) error {
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		department, err := s.departmentRepository.FindByID(ctx, tx, id)
		if err != nil {
			return notFoundAs(err, departmentNotFound)
		}

		occupied, err := s.employeeRepository.ExistsInDepartment(ctx, tx, id)
		if err != nil {
			return err
		}
		if occupied {
			return apperrors.NewConflictError("Cannot delete department while employees are still assigned.")
		}

		if err := s.auditRepository.CreateDepartmentLogInTx(ctx, tx, entities.NewDepartmentLog(department, constants.OperationDeleted)); err != nil {
			return err
		}
		return s.departmentRepository.Delete(ctx, tx, id)
	})
	if err != nil {
		logFailure(s.logger, "failed to delete department", err, zap.Uint64("id", id))
		return err
	}
	s.logger.Info("department deleted", zap.Uint64("id", id))
	return nil
}
