// Package testutil provides an in-memory implementation of the repository interfaces.
// Transactions are emulated by snapshotting the whole store and restoring it when fn fails.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"employee-system/internal/entities"
	"employee-system/internal/repositories"
	"employee-system/pkg/constants"

	"github.com/jackc/pgx/v5"
)

type state struct {
	seq            uint64
	roles          map[uint64]entities.Role
	employees      map[uint64]entities.Employee
	departments    map[uint64]entities.Department
	balances       map[uint64]entities.LeaveBalance
	leaves         map[uint64]entities.LeaveRequest
	accounts       map[uint64]entities.Account
	employeeLogs   []entities.EmployeeLog
	departmentLogs []entities.DepartmentLog
	activity       []entities.LoginActivityLog
}

func newState() state {
	return state{
		roles:       map[uint64]entities.Role{},
		employees:   map[uint64]entities.Employee{},
		departments: map[uint64]entities.Department{},
		balances:    map[uint64]entities.LeaveBalance{},
		leaves:      map[uint64]entities.LeaveRequest{},
		accounts:    map[uint64]entities.Account{},
	}
}

func (s state) clone() state {
	c := state{
		seq:            s.seq,
		roles:          make(map[uint64]entities.Role, len(s.roles)),
		employees:      make(map[uint64]entities.Employee, len(s.employees)),
		departments:    make(map[uint64]entities.Department, len(s.departments)),
		balances:       make(map[uint64]entities.LeaveBalance, len(s.balances)),
		leaves:         make(map[uint64]entities.LeaveRequest, len(s.leaves)),
		accounts:       make(map[uint64]entities.Account, len(s.accounts)),
		employeeLogs:   append([]entities.EmployeeLog(nil), s.employeeLogs...),
		departmentLogs: append([]entities.DepartmentLog(nil), s.departmentLogs...),
		activity:       append([]entities.LoginActivityLog(nil), s.activity...),
	}
	for k, v := range s.roles {
		c.roles[k] = v
	}
	for k, v := range s.employees {
		c.employees[k] = v
	}
	for k, v := range s.departments {
		c.departments[k] = v
	}
	for k, v := range s.balances {
		c.balances[k] = v
	}
	for k, v := range s.leaves {
		c.leaves[k] = v
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	return c
}

// Store is safe for concurrent use. Transactions are serialized.
type Store struct {
	txMu     sync.Mutex
	mu       sync.Mutex
	data     state
	failures map[string]error

	// Now stamps created_at columns.
	Now func() time.Time
}

func NewStore() *Store {
	return &Store{
		data:     newState(),
		failures: map[string]error{},
		Now:      func() time.Time { return time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC) },
	}
}

// FailNext makes the next call of op (e.g. "LeaveBalance.Update") return err.
func (s *Store) FailNext(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// must be called with mu held
func (s *Store) injected(op string) error {
	if err, ok := s.failures[op]; ok {
		delete(s.failures, op)
		return err
	}
	return nil
}

// must be called with mu held
func (s *Store) nextID() uint64 {
	s.data.seq++
	return s.data.seq
}

func (s *Store) stamp() *time.Time {
	t := s.Now()
	return &t
}

func copyRef(p *uint64) *uint64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

type txManager struct{ s *Store }

// TxManager returns a TxManagerInterface whose rollback restores the store snapshot.
func (s *Store) TxManager() repositories.TxManagerInterface { return txManager{s: s} }

func (m txManager) RunInTransaction(_ context.Context, fn func(tx pgx.Tx) error) (err error) {
	m.s.txMu.Lock()
	defer m.s.txMu.Unlock()

	m.s.mu.Lock()
	snapshot := m.s.data.clone()
	m.s.mu.Unlock()

	rollback := func() {
		m.s.mu.Lock()
		m.s.data = snapshot
		m.s.mu.Unlock()
	}

	defer func() {
		if p := recover(); p != nil {
			rollback()
			panic(p)
		}
	}()

	if err = fn(nil); err != nil {
		rollback()
	}
	return err
}

// ---------- seeding and inspection ----------

// SeedRoles inserts Admin, Manager and Employee and returns their ids by name.
func (s *Store) SeedRoles() map[string]uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := map[string]uint64{}
	for _, name := range constants.Roles {
		id := s.nextID()
		s.data.roles[id] = entities.Role{ID: id, Name: name, Description: name + " role"}
		ids[name] = id
	}
	return ids
}

func (s *Store) AddDepartment(name string, managerID *uint64) entities.Department {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := entities.Department{ID: s.nextID(), Name: name, ManagerID: copyRef(managerID)}
	if managerID != nil {
		if m, ok := s.data.employees[*managerID]; ok {
			name := m.FullName
			d.ManagerName = &name
		}
	}
	d.CreatedAt, d.UpdatedAt = s.stamp(), s.stamp()
	s.data.departments[d.ID] = d
	return d
}

// SetDepartmentManager rewrites manager fields without any cascading.
func (s *Store) SetDepartmentManager(departmentID uint64, managerID *uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.data.departments[departmentID]
	d.ManagerID = copyRef(managerID)
	d.ManagerName = nil
	if managerID != nil {
		if m, ok := s.data.employees[*managerID]; ok {
			name := m.FullName
			d.ManagerName = &name
		}
	}
	s.data.departments[departmentID] = d
}

// AddEmployee stores e as given; a zero ID is assigned.
func (s *Store) AddEmployee(e entities.Employee) entities.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == 0 {
		e.ID = s.nextID()
	}
	e.ManagerID = copyRef(e.ManagerID)
	e.RoleID = copyRef(e.RoleID)
	e.AccountID = copyRef(e.AccountID)
	e.CreatedAt, e.UpdatedAt = s.stamp(), s.stamp()
	s.data.employees[e.ID] = e
	return e
}

func (s *Store) AddBalance(employeeID uint64, total, taken int) entities.LeaveBalance {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := entities.LeaveBalance{ID: s.nextID(), EmployeeID: employeeID, TotalLeaves: total, LeavesTaken: taken}
	s.data.balances[b.ID] = b
	return b
}

func (s *Store) AddLeave(l entities.LeaveRequest) entities.LeaveRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = s.nextID()
	if l.RequestDate.IsZero() {
		l.RequestDate = s.Now()
	}
	s.data.leaves[l.ID] = l
	return l
}

func (s *Store) AddAccount(a entities.Account) entities.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.nextID()
	a.CreatedAt = s.Now()
	s.data.accounts[a.ID] = a
	return a
}

func (s *Store) Employee(id uint64) (entities.Employee, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data.employees[id]
	return e, ok
}

func (s *Store) Department(id uint64) (entities.Department, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.data.departments[id]
	return d, ok
}

func (s *Store) Leave(id uint64) (entities.LeaveRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.data.leaves[id]
	return l, ok
}

func (s *Store) Account(id uint64) (entities.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.data.accounts[id]
	return a, ok
}

// Balance returns the balance of employeeID.
func (s *Store) Balance(employeeID uint64) (entities.LeaveBalance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.data.balances {
		if b.EmployeeID == employeeID {
			return b, true
		}
	}
	return entities.LeaveBalance{}, false
}

func (s *Store) LeaveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.leaves)
}

func (s *Store) EmployeeLogs() []entities.EmployeeLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.EmployeeLog(nil), s.data.employeeLogs...)
}

func (s *Store) DepartmentLogs() []entities.DepartmentLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.DepartmentLog(nil), s.data.departmentLogs...)
}

func (s *Store) LoginActivity() []entities.LoginActivityLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.LoginActivityLog(nil), s.data.activity...)
}

// DepartmentsManagedBy counts departments whose manager is employeeID.
func (s *Store) DepartmentsManagedBy(employeeID uint64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, d := range s.data.departments {
		if d.IsManagedBy(employeeID) {
			n++
		}
	}
	return n
}

func (s *Store) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("store{employees=%d departments=%d leaves=%d}", len(s.data.employees), len(s.data.departments), len(s.data.leaves))
}
