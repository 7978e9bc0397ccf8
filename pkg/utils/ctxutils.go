package utils

import (
	"context"

	"employee-system/pkg/contextkeys"
	apperrors "employee-system/pkg/errors"
)

func GetEmployeeIDFromCtx(ctx context.Context) (uint64, error) {
	employeeID, ok := ctx.Value(contextkeys.EmployeeIDKey).(uint64)
	if !ok || employeeID == 0 {
		return 0, apperrors.ErrEmployeeIDNotFoundInContext
	}
	return employeeID, nil
}

func GetAccountIDFromCtx(ctx context.Context) (uint64, error) {
	accountID, ok := ctx.Value(contextkeys.AccountIDKey).(uint64)
	if !ok || accountID == 0 {
		return 0, apperrors.ErrUnauthorized
	}
	return accountID, nil
}

func GetRoleFromCtx(ctx context.Context) string {
	role, _ := ctx.Value(contextkeys.RoleKey).(string)
	return role
}

func GetRequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(contextkeys.RequestIDKey).(string)
	return id
}
