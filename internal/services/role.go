package services

import (
	"context"

	"employee-system/internal/dto"
	"employee-system/internal/repositories"

	"go.uber.org/zap"
)

type RoleServiceInterface interface {
	GetRoles(ctx context.Context) ([]dto.RoleDTO, error)
}

type RoleService struct {
	repo   repositories.RoleRepositoryInterface
	logger *zap.Logger
}

func NewRoleService(repo repositories.RoleRepositoryInterface, logger *zap.Logger) RoleServiceInterface {
	return &RoleService{repo: repo, logger: logger}
}

func (s *RoleService) GetRoles(ctx context.Context) ([]dto.RoleDTO, error) {
	roles, err := s.repo.GetRoles(ctx)
	if err != nil {
		s.logger.Error("failed to list roles", zap.Error(err))
		return nil, err
	}
	out := make([]dto.RoleDTO, 0, len(roles))
	for _, r := range roles {
		out = append(out, dto.RoleDTO{ID: r.ID, Name: r.Name, Description: r.Description})
	}
	return out, nil
}
