package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"employee-system/internal/entities"
	apperrors "employee-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const accountFields = "id, email, full_name, password_hash, lockout_enabled, lockout_end, created_at"

type AccountRepositoryInterface interface {
	FindByEmail(ctx context.Context, tx pgx.Tx, email string) (*entities.Account, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Account, error)
	Create(ctx context.Context, tx pgx.Tx, account *entities.Account) error
	Update(ctx context.Context, tx pgx.Tx, account *entities.Account) error

	CreateLoginActivity(ctx context.Context, tx pgx.Tx, activity *entities.LoginActivityLog) error
	// CloseLatestLoginActivity stamps logout time on the newest open successful login of the account.
	CloseLatestLoginActivity(ctx context.Context, tx pgx.Tx, accountID uint64, at time.Time) error
	GetLoginActivity(ctx context.Context, accountID uint64) ([]entities.LoginActivityLog, error)
}

type AccountRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewAccountRepository(storage *pgxpool.Pool, logger *zap.Logger) AccountRepositoryInterface {
	return &AccountRepository{storage: storage, logger: logger}
}

func scanAccount(row pgx.Row) (*entities.Account, error) {
	var a entities.Account
	err := row.Scan(&a.ID, &a.Email, &a.FullName, &a.PasswordHash, &a.LockoutEnabled, &a.LockoutEnd, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}
	return &a, nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, tx pgx.Tx, email string) (*entities.Account, error) {
	query := `SELECT ` + accountFields + ` FROM accounts WHERE LOWER(TRIM(email)) = $1`
	return scanAccount(pick(r.storage, tx).QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(email))))
}

func (r *AccountRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Account, error) {
	query := `SELECT ` + accountFields + ` FROM accounts WHERE id = $1`
	return scanAccount(pick(r.storage, tx).QueryRow(ctx, query, id))
}

func (r *AccountRepository) Create(ctx context.Context, tx pgx.Tx, account *entities.Account) error {
	query := `
		INSERT INTO accounts (email, full_name, password_hash, lockout_enabled, lockout_end)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	err := pick(r.storage, tx).QueryRow(ctx, query,
		account.Email, account.FullName, account.PasswordHash, account.LockoutEnabled, account.LockoutEnd,
	).Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("account email %q is taken: %w", account.Email, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

func (r *AccountRepository) Update(ctx context.Context, tx pgx.Tx, account *entities.Account) error {
	query := `
		UPDATE accounts
		SET email = $2, full_name = $3, password_hash = $4, lockout_enabled = $5, lockout_end = $6, updated_at = NOW()
		WHERE id = $1`
	result, err := pick(r.storage, tx).Exec(ctx, query,
		account.ID, account.Email, account.FullName, account.PasswordHash, account.LockoutEnabled, account.LockoutEnd,
	)
	if err != nil {
		return fmt.Errorf("failed to update account %d: %w", account.ID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) CreateLoginActivity(ctx context.Context, tx pgx.Tx, activity *entities.LoginActivityLog) error {
	query := `
		INSERT INTO login_activity_logs (account_id, employee_id, email, ip_address, login_time, is_successful)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := pick(r.storage, tx).QueryRow(ctx, query,
		activity.AccountID, activity.EmployeeID, activity.Email, activity.IPAddress, activity.LoginTime, activity.IsSuccessful,
	).Scan(&activity.ID)
	if err != nil {
		return fmt.Errorf("failed to insert login activity: %w", err)
	}
	return nil
}

func (r *AccountRepository) CloseLatestLoginActivity(ctx context.Context, tx pgx.Tx, accountID uint64, at time.Time) error {
	query := `
		UPDATE login_activity_logs SET logout_time = $2
		WHERE id = (
			SELECT id FROM login_activity_logs
			WHERE account_id = $1 AND is_successful AND logout_time IS NULL
			ORDER BY login_time DESC LIMIT 1
		)`
	_, err := pick(r.storage, tx).Exec(ctx, query, accountID, at)
	return err
}

func (r *AccountRepository) GetLoginActivity(ctx context.Context, accountID uint64) ([]entities.LoginActivityLog, error) {
	query := `
		SELECT id, account_id, employee_id, email, ip_address, login_time, logout_time, is_successful
		FROM login_activity_logs WHERE account_id = $1 ORDER BY login_time DESC`
	rows, err := r.storage.Query(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]entities.LoginActivityLog, 0)
	for rows.Next() {
		var l entities.LoginActivityLog
		if err := rows.Scan(&l.ID, &l.AccountID, &l.EmployeeID, &l.Email, &l.IPAddress, &l.LoginTime, &l.LogoutTime, &l.IsSuccessful); err != nil {
			return nil, fmt.Errorf("failed to scan login activity: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
