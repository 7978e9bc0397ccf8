package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"employee-system/internal/dto"
	"employee-system/internal/entities"
	"employee-system/internal/repositories"
)

const recentEmployeesLimit = 5

type DashboardService struct {
	repo   repositories.DashboardRepositoryInterface
	logger *zap.Logger
}

func NewDashboardService(repo repositories.DashboardRepositoryInterface, logger *zap.Logger) *DashboardService {
	return &DashboardService{repo: repo, logger: logger}
}

// GetDashboard loads the three dashboard sections concurrently.
func (s *DashboardService) GetDashboard(ctx context.Context) (*dto.DashboardDTO, error) {
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		firstErr  error
		counts    *entities.DashboardCounts
		headcount []entities.DepartmentHeadcount
		recent    []entities.Employee
	)

	fail := func(section string, err error) {
		s.logger.Error("failed to load dashboard section", zap.String("section", section), zap.Error(err))
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		c, err := s.repo.GetCounts(ctx)
		if err != nil {
			fail("counts", err)
			return
		}
		counts = c
	}()
	go func() {
		defer wg.Done()
		h, err := s.repo.GetDepartmentHeadcounts(ctx)
		if err != nil {
			fail("departments", err)
			return
		}
		headcount = h
	}()
	go func() {
		defer wg.Done()
		r, err := s.repo.GetRecentEmployees(ctx, recentEmployeesLimit)
		if err != nil {
			fail("recent_employees", err)
			return
		}
		recent = r
	}()
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	out := &dto.DashboardDTO{
		TotalEmployees:     counts.TotalEmployees,
		ActiveEmployees:    counts.ActiveEmployees,
		TotalDepartments:   counts.TotalDepartments,
		TotalLeaveRequests: counts.TotalLeaveRequests,
		ApprovedLeaves:     counts.ApprovedLeaves,
		PendingLeaves:      counts.PendingLeaves,
		RejectedLeaves:     counts.RejectedLeaves,
		DepartmentStats:    make([]dto.DepartmentStatsDTO, 0, len(headcount)),
		RecentEmployees:    make([]dto.EmployeeDTO, 0, len(recent)),
	}
	for _, h := range headcount {
		out.DepartmentStats = append(out.DepartmentStats, dto.DepartmentStatsDTO{
			ID:            h.DepartmentID,
			Name:          h.DepartmentName,
			EmployeeCount: h.EmployeeCount,
		})
	}
	for i := range recent {
		out.RecentEmployees = append(out.RecentEmployees, dto.EmployeeToDTO(&recent[i]))
	}
	return out, nil
}
