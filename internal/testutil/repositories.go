package testutil

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"employee-system/internal/entities"
	"employee-system/internal/repositories"
	"employee-system/pkg/constants"
	apperrors "employee-system/pkg/errors"
	"employee-system/pkg/types"

	"github.com/jackc/pgx/v5"
)

func sameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// ---------- employees ----------

type employeeRepo struct{ s *Store }

func (s *Store) Employees() repositories.EmployeeRepositoryInterface { return employeeRepo{s} }

func (r employeeRepo) FindByID(_ context.Context, _ pgx.Tx, id uint64) (*entities.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.data.employees[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &e, nil
}

func (r employeeRepo) FindByEmail(_ context.Context, _ pgx.Tx, email string) (*entities.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.data.employees {
		if sameEmail(e.Email, email) {
			return &e, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r employeeRepo) ExistsWithRole(_ context.Context, _ pgx.Tx, role string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.data.employees {
		if e.Role == role {
			return true, nil
		}
	}
	return false, nil
}

func (r employeeRepo) ExistsInDepartment(_ context.Context, _ pgx.Tx, departmentID uint64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.data.employees {
		if e.DepartmentID == departmentID {
			return true, nil
		}
	}
	return false, nil
}

func (r employeeRepo) Create(_ context.Context, _ pgx.Tx, employee *entities.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("Employee.Create"); err != nil {
		return err
	}
	employee.ID = r.s.nextID()
	employee.CreatedAt, employee.UpdatedAt = r.s.stamp(), r.s.stamp()
	stored := *employee
	stored.ManagerID = copyRef(employee.ManagerID)
	stored.RoleID = copyRef(employee.RoleID)
	stored.AccountID = copyRef(employee.AccountID)
	r.s.data.employees[stored.ID] = stored
	return nil
}

func (r employeeRepo) Update(_ context.Context, _ pgx.Tx, employee *entities.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("Employee.Update"); err != nil {
		return err
	}
	if _, ok := r.s.data.employees[employee.ID]; !ok {
		return apperrors.ErrNotFound
	}
	employee.UpdatedAt = r.s.stamp()
	stored := *employee
	stored.ManagerID = copyRef(employee.ManagerID)
	stored.RoleID = copyRef(employee.RoleID)
	stored.AccountID = copyRef(employee.AccountID)
	r.s.data.employees[stored.ID] = stored
	return nil
}

func (r employeeRepo) Delete(_ context.Context, _ pgx.Tx, id uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.employees[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.s.data.employees, id)
	for k, b := range r.s.data.balances {
		if b.EmployeeID == id {
			delete(r.s.data.balances, k)
		}
	}
	for k, l := range r.s.data.leaves {
		if l.EmployeeID == id {
			delete(r.s.data.leaves, k)
		}
	}
	return nil
}

func (r employeeRepo) SetAccount(_ context.Context, _ pgx.Tx, id, accountID uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.data.employees[id]
	if !ok {
		return nil
	}
	e.AccountID = &accountID
	r.s.data.employees[id] = e
	return nil
}

func (r employeeRepo) rewrite(match func(entities.Employee) bool, managerID *uint64) {
	for id, e := range r.s.data.employees {
		if match(e) {
			e.ManagerID = copyRef(managerID)
			r.s.data.employees[id] = e
		}
	}
}

func (r employeeRepo) AssignManagerToDepartmentMembers(_ context.Context, _ pgx.Tx, departmentID, managerID uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.rewrite(func(e entities.Employee) bool {
		return e.DepartmentID == departmentID && e.ID != managerID
	}, &managerID)
	return nil
}

func (r employeeRepo) ClearManagerInDepartment(_ context.Context, _ pgx.Tx, departmentID, managerID uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.rewrite(func(e entities.Employee) bool {
		return e.DepartmentID == departmentID && e.ManagerID != nil && *e.ManagerID == managerID
	}, nil)
	return nil
}

func (r employeeRepo) ClearSubordinates(_ context.Context, _ pgx.Tx, managerID uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.rewrite(func(e entities.Employee) bool {
		return e.ManagerID != nil && *e.ManagerID == managerID
	}, nil)
	return nil
}

func (r employeeRepo) withDepartment(e entities.Employee) entities.EmployeeWithDepartment {
	out := entities.EmployeeWithDepartment{Employee: e}
	if d, ok := r.s.data.departments[e.DepartmentID]; ok {
		out.DepartmentName = d.Name
	}
	return out
}

func matchesFilter(e entities.Employee, filter types.Filter) bool {
	for field, val := range filter.Filter {
		wanted := strings.Split(fmt.Sprintf("%v", val), ",")
		var actual string
		switch field {
		case "id":
			actual = strconv.FormatUint(e.ID, 10)
		case "department_id":
			actual = strconv.FormatUint(e.DepartmentID, 10)
		case "manager_id":
			if e.ManagerID == nil {
				return false
			}
			actual = strconv.FormatUint(*e.ManagerID, 10)
		case "role":
			actual = e.Role
		case "full_name":
			actual = e.FullName
		case "email":
			actual = e.Email
		default:
			continue
		}
		found := false
		for _, w := range wanted {
			if strings.TrimSpace(w) == actual {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.Search != "" {
		q := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(e.FullName), q) && !strings.Contains(strings.ToLower(e.Email), q) {
			return false
		}
	}
	return true
}

func page[T any](items []T, filter types.Filter) []T {
	if !filter.WithPagination {
		return items
	}
	if filter.Offset >= len(items) {
		return []T{}
	}
	items = items[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(items) {
		items = items[:filter.Limit]
	}
	return items
}

func (r employeeRepo) GetEmployees(_ context.Context, filter types.Filter) ([]entities.EmployeeWithDepartment, uint64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entities.EmployeeWithDepartment, 0)
	for _, e := range r.s.data.employees {
		if matchesFilter(e, filter) {
			out = append(out, r.withDepartment(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return page(out, filter), uint64(len(out)), nil
}

func (r employeeRepo) FindWithDepartment(_ context.Context, id uint64) (*entities.EmployeeWithDepartment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.data.employees[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := r.withDepartment(e)
	return &out, nil
}

func (r employeeRepo) GetSubordinates(_ context.Context, managerID uint64) ([]entities.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entities.Employee, 0)
	for _, e := range r.s.data.employees {
		if e.ManagerID != nil && *e.ManagerID == managerID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (r employeeRepo) GetManagers(_ context.Context) ([]entities.ManagerRosterItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entities.ManagerRosterItem, 0)
	for _, e := range r.s.data.employees {
		if e.Role != constants.RoleManager {
			continue
		}
		item := entities.ManagerRosterItem{EmployeeID: e.ID, FullName: e.FullName, Email: e.Email}
		for _, d := range r.s.data.departments {
			if d.IsManagedBy(e.ID) {
				id, name := d.ID, d.Name
				item.DepartmentID, item.DepartmentName = &id, &name
				break
			}
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

// ---------- departments ----------

type departmentRepo struct{ s *Store }

func (s *Store) Departments() repositories.DepartmentRepositoryInterface { return departmentRepo{s} }

func (r departmentRepo) FindByID(_ context.Context, _ pgx.Tx, id uint64) (*entities.Department, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.data.departments[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &d, nil
}

func (r departmentRepo) managedBy(employeeID, excludeID uint64) []entities.Department {
	out := make([]entities.Department, 0)
	for _, d := range r.s.data.departments {
		if d.IsManagedBy(employeeID) && d.ID != excludeID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r departmentRepo) FindManagedBy(_ context.Context, _ pgx.Tx, employeeID, excludeID uint64) (*entities.Department, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	found := r.managedBy(employeeID, excludeID)
	if len(found) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &found[0], nil
}

func (r departmentRepo) ListManagedBy(_ context.Context, _ pgx.Tx, employeeID uint64) ([]entities.Department, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.managedBy(employeeID, 0), nil
}

func (r departmentRepo) store(d *entities.Department) {
	stored := *d
	stored.ManagerID = copyRef(d.ManagerID)
	stored.ManagerName = copyString(d.ManagerName)
	r.s.data.departments[stored.ID] = stored
}

func (r departmentRepo) Create(_ context.Context, _ pgx.Tx, department *entities.Department) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("Department.Create"); err != nil {
		return err
	}
	department.ID = r.s.nextID()
	department.CreatedAt, department.UpdatedAt = r.s.stamp(), r.s.stamp()
	r.store(department)
	return nil
}

func (r departmentRepo) Update(_ context.Context, _ pgx.Tx, department *entities.Department) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("Department.Update"); err != nil {
		return err
	}
	if _, ok := r.s.data.departments[department.ID]; !ok {
		return apperrors.ErrNotFound
	}
	department.UpdatedAt = r.s.stamp()
	r.store(department)
	return nil
}

func (r departmentRepo) Delete(_ context.Context, _ pgx.Tx, id uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.departments[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.s.data.departments, id)
	return nil
}

func (r departmentRepo) GetDepartments(_ context.Context, filter types.Filter) ([]entities.Department, uint64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q := strings.ToLower(filter.Search)
	out := make([]entities.Department, 0)
	for _, d := range r.s.data.departments {
		if q != "" {
			manager := ""
			if d.ManagerName != nil {
				manager = *d.ManagerName
			}
			if !strings.Contains(strings.ToLower(d.Name), q) && !strings.Contains(strings.ToLower(manager), q) {
				continue
			}
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, filter), uint64(len(out)), nil
}

// ---------- leave requests ----------

type leaveRepo struct{ s *Store }

func (s *Store) LeaveRequests() repositories.LeaveRequestRepositoryInterface { return leaveRepo{s} }

func (r leaveRepo) Create(_ context.Context, _ pgx.Tx, request *entities.LeaveRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("LeaveRequest.Create"); err != nil {
		return err
	}
	request.ID = r.s.nextID()
	r.s.data.leaves[request.ID] = *request
	return nil
}

func (r leaveRepo) FindByID(_ context.Context, _ pgx.Tx, id uint64) (*entities.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.data.leaves[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &l, nil
}

func (r leaveRepo) UpdateStatus(_ context.Context, _ pgx.Tx, id uint64, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("LeaveRequest.UpdateStatus"); err != nil {
		return err
	}
	l, ok := r.s.data.leaves[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	l.Status = status
	r.s.data.leaves[id] = l
	return nil
}

func (r leaveRepo) withEmployee(l entities.LeaveRequest) entities.LeaveRequestWithEmployee {
	out := entities.LeaveRequestWithEmployee{LeaveRequest: l}
	if e, ok := r.s.data.employees[l.EmployeeID]; ok {
		out.EmployeeName = e.FullName
	}
	return out
}

func (r leaveRepo) collect(match func(entities.LeaveRequest) bool, newestFirst bool) []entities.LeaveRequestWithEmployee {
	out := make([]entities.LeaveRequestWithEmployee, 0)
	for _, l := range r.s.data.leaves {
		if match(l) {
			out = append(out, r.withEmployee(l))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].RequestDate, out[j].RequestDate
		if a.Equal(b) {
			return out[i].ID < out[j].ID
		}
		if newestFirst {
			return a.After(b)
		}
		return a.Before(b)
	})
	return out
}

func (r leaveRepo) FindWithEmployee(_ context.Context, id uint64) (*entities.LeaveRequestWithEmployee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.data.leaves[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := r.withEmployee(l)
	return &out, nil
}

func (r leaveRepo) ListByEmployee(_ context.Context, employeeID uint64) ([]entities.LeaveRequestWithEmployee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.collect(func(l entities.LeaveRequest) bool { return l.EmployeeID == employeeID }, true), nil
}

func (r leaveRepo) ListByEmployeeStartingBetween(_ context.Context, employeeID uint64, from, to time.Time) ([]entities.LeaveRequestWithEmployee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.collect(func(l entities.LeaveRequest) bool {
		return l.EmployeeID == employeeID && !l.StartDate.Before(from) && l.StartDate.Before(to)
	}, false), nil
}

func (r leaveRepo) ListByStatus(_ context.Context, status string) ([]entities.LeaveRequestWithEmployee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.collect(func(l entities.LeaveRequest) bool { return strings.EqualFold(l.Status, status) }, false), nil
}

func (r leaveRepo) ListByStatusForManager(_ context.Context, managerID uint64, status string) ([]entities.LeaveRequestWithEmployee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.collect(func(l entities.LeaveRequest) bool {
		e, ok := r.s.data.employees[l.EmployeeID]
		return ok && e.ManagerID != nil && *e.ManagerID == managerID && strings.EqualFold(l.Status, status)
	}, false), nil
}

// ---------- leave balances ----------

type balanceRepo struct{ s *Store }

func (s *Store) LeaveBalances() repositories.LeaveBalanceRepositoryInterface { return balanceRepo{s} }

func (r balanceRepo) FindByEmployee(_ context.Context, _ pgx.Tx, employeeID uint64) (*entities.LeaveBalance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.data.balances {
		if b.EmployeeID == employeeID {
			return &b, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r balanceRepo) Create(_ context.Context, _ pgx.Tx, balance *entities.LeaveBalance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("LeaveBalance.Create"); err != nil {
		return err
	}
	balance.ID = r.s.nextID()
	r.s.data.balances[balance.ID] = *balance
	return nil
}

func (r balanceRepo) Update(_ context.Context, _ pgx.Tx, balance *entities.LeaveBalance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("LeaveBalance.Update"); err != nil {
		return err
	}
	if _, ok := r.s.data.balances[balance.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.s.data.balances[balance.ID] = *balance
	return nil
}

// ---------- audit ----------

type auditRepo struct{ s *Store }

func (s *Store) AuditLogs() repositories.AuditLogRepositoryInterface { return auditRepo{s} }

func (r auditRepo) CreateEmployeeLogInTx(_ context.Context, _ pgx.Tx, log *entities.EmployeeLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	log.ID = r.s.nextID()
	log.CreatedAt = r.s.Now()
	stored := *log
	stored.ManagerID = copyRef(log.ManagerID)
	stored.RoleID = copyRef(log.RoleID)
	r.s.data.employeeLogs = append(r.s.data.employeeLogs, stored)
	return nil
}

func (r auditRepo) CreateDepartmentLogInTx(_ context.Context, _ pgx.Tx, log *entities.DepartmentLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	log.ID = r.s.nextID()
	log.CreatedAt = r.s.Now()
	stored := *log
	stored.ManagerID = copyRef(log.ManagerID)
	r.s.data.departmentLogs = append(r.s.data.departmentLogs, stored)
	return nil
}

func (r auditRepo) GetEmployeeLogs(_ context.Context, employeeID uint64) ([]entities.EmployeeLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entities.EmployeeLog, 0)
	for i := len(r.s.data.employeeLogs) - 1; i >= 0; i-- {
		if l := r.s.data.employeeLogs[i]; l.EmployeeID == employeeID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r auditRepo) GetDepartmentLogs(_ context.Context, departmentID uint64) ([]entities.DepartmentLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entities.DepartmentLog, 0)
	for i := len(r.s.data.departmentLogs) - 1; i >= 0; i-- {
		if l := r.s.data.departmentLogs[i]; l.DepartmentID == departmentID {
			out = append(out, l)
		}
	}
	return out, nil
}

// ---------- roles ----------

type roleRepo struct{ s *Store }

func (s *Store) Roles() repositories.RoleRepositoryInterface { return roleRepo{s} }

func (r roleRepo) FindByName(_ context.Context, _ pgx.Tx, name string) (*entities.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, role := range r.s.data.roles {
		if role.Name == name {
			return &role, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r roleRepo) GetRoles(_ context.Context) ([]entities.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entities.Role, 0, len(r.s.data.roles))
	for _, role := range r.s.data.roles {
		out = append(out, role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r roleRepo) EnsureRole(_ context.Context, _ pgx.Tx, name, description string) (*entities.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, role := range r.s.data.roles {
		if role.Name == name {
			role.Description = description
			r.s.data.roles[id] = role
			return &role, nil
		}
	}
	role := entities.Role{ID: r.s.nextID(), Name: name, Description: description}
	r.s.data.roles[role.ID] = role
	return &role, nil
}

// ---------- accounts ----------

type accountRepo struct{ s *Store }

func (s *Store) Accounts() repositories.AccountRepositoryInterface { return accountRepo{s} }

func (r accountRepo) FindByEmail(_ context.Context, _ pgx.Tx, email string) (*entities.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.data.accounts {
		if sameEmail(a.Email, email) {
			return &a, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r accountRepo) FindByID(_ context.Context, _ pgx.Tx, id uint64) (*entities.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.data.accounts[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &a, nil
}

func (r accountRepo) Create(_ context.Context, _ pgx.Tx, account *entities.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	account.ID = r.s.nextID()
	account.CreatedAt = r.s.Now()
	r.s.data.accounts[account.ID] = *account
	return nil
}

func (r accountRepo) Update(_ context.Context, _ pgx.Tx, account *entities.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.accounts[account.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.s.data.accounts[account.ID] = *account
	return nil
}

func (r accountRepo) CreateLoginActivity(_ context.Context, _ pgx.Tx, activity *entities.LoginActivityLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	activity.ID = r.s.nextID()
	stored := *activity
	stored.EmployeeID = copyRef(activity.EmployeeID)
	r.s.data.activity = append(r.s.data.activity, stored)
	return nil
}

func (r accountRepo) CloseLatestLoginActivity(_ context.Context, _ pgx.Tx, accountID uint64, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := len(r.s.data.activity) - 1; i >= 0; i-- {
		a := &r.s.data.activity[i]
		if a.AccountID == accountID && a.IsSuccessful && a.LogoutTime == nil {
			t := at
			a.LogoutTime = &t
			return nil
		}
	}
	return nil
}

func (r accountRepo) GetLoginActivity(_ context.Context, accountID uint64) ([]entities.LoginActivityLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entities.LoginActivityLog, 0)
	for i := len(r.s.data.activity) - 1; i >= 0; i-- {
		if a := r.s.data.activity[i]; a.AccountID == accountID {
			out = append(out, a)
		}
	}
	return out, nil
}

// ---------- dashboard ----------

type dashboardRepo struct{ s *Store }

func (s *Store) Dashboard() repositories.DashboardRepositoryInterface { return dashboardRepo{s} }

func (r dashboardRepo) GetCounts(_ context.Context) (*entities.DashboardCounts, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("Dashboard.GetCounts"); err != nil {
		return nil, err
	}
	c := &entities.DashboardCounts{
		TotalEmployees:     len(r.s.data.employees),
		TotalDepartments:   len(r.s.data.departments),
		TotalLeaveRequests: len(r.s.data.leaves),
	}
	for _, e := range r.s.data.employees {
		if e.IsActive {
			c.ActiveEmployees++
		}
	}
	for _, l := range r.s.data.leaves {
		switch {
		case strings.EqualFold(l.Status, constants.LeaveStatusApproved):
			c.ApprovedLeaves++
		case strings.EqualFold(l.Status, constants.LeaveStatusPending):
			c.PendingLeaves++
		case strings.EqualFold(l.Status, constants.LeaveStatusRejected):
			c.RejectedLeaves++
		}
	}
	return c, nil
}

func (r dashboardRepo) GetDepartmentHeadcounts(_ context.Context) ([]entities.DepartmentHeadcount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entities.DepartmentHeadcount, 0, len(r.s.data.departments))
	for _, d := range r.s.data.departments {
		h := entities.DepartmentHeadcount{DepartmentID: d.ID, DepartmentName: d.Name}
		for _, e := range r.s.data.employees {
			if e.DepartmentID == d.ID {
				h.EmployeeCount++
			}
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DepartmentName < out[j].DepartmentName })
	return out, nil
}

func (r dashboardRepo) GetRecentEmployees(_ context.Context, limit uint64) ([]entities.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entities.Employee, 0)
	for _, e := range r.s.data.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if uint64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}
