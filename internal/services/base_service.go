package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "employee-system/pkg/errors"
	"employee-system/pkg/utils"

	"go.uber.org/zap"
)

// notFoundAs replaces a bare ErrNotFound with a 404 carrying message.
func notFoundAs(err error, message string) error {
	if errors.Is(err, apperrors.ErrNotFound) && apperrors.KindOf(err) == "" {
		return apperrors.NewNotFoundError(message)
	}
	return err
}

// badRequestIfMissing turns a lookup miss of a referenced entity into a validation error.
func badRequestIfMissing(err error, message string) error {
	if errors.Is(err, apperrors.ErrNotFound) && apperrors.KindOf(err) == "" {
		return apperrors.NewValidationError(message)
	}
	return err
}

// candidateError renders ValidateManagerCandidate failures. format receives the managed department name.
func candidateError(err error, missingMessage, format string) error {
	var conflict *ManagerConflictError
	if errors.As(err, &conflict) {
		return apperrors.NewConflictError(fmt.Sprintf(format, conflict.Department.Name))
	}
	return badRequestIfMissing(err, missingMessage)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func uint64Ptr(v uint64) *uint64 { return &v }

func sameRef(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// logFailure logs unexpected failures; domain errors are the caller's business.
func logFailure(logger *zap.Logger, msg string, err error, fields ...zap.Field) {
	if err == nil {
		return
	}
	if kind := apperrors.KindOf(err); kind != "" && kind != apperrors.KindInternal {
		return
	}
	if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrForbidden) {
		return
	}
	logger.Error(msg, append(fields, zap.Error(err))...)
}

// callerIdentity reads the authenticated employee and role set by the auth middleware.
func callerIdentity(ctx context.Context) (uint64, string, error) {
	employeeID, err := utils.GetEmployeeIDFromCtx(ctx)
	if err != nil {
		return 0, "", err
	}
	return employeeID, utils.GetRoleFromCtx(ctx), nil
}
