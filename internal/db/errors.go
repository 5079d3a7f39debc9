package db

import (
	"errors"

	"github.com/lib/pq"

	apperrors "yt-summarizer/internal/errors"
)

const uniqueSubscriptionConstraint = "uq_user_channel"

// handlePostgresError converts driver errors to AppError codes. Unique
// violations become CodeConflict, everything else CodeInternal.
func handlePostgresError(err error, operation string) *apperrors.AppError {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return apperrors.Wrap(err, apperrors.CodeInternal, operation)
	}

	switch pqErr.Code {
	case "23505": // unique_violation
		if pqErr.Constraint == uniqueSubscriptionConstraint {
			return apperrors.Wrap(err, apperrors.CodeConflict, "already subscribed to this channel")
		}
		return apperrors.Wrap(err, apperrors.CodeConflict, "resource already exists")
	case "23502": // not_null_violation
		return apperrors.Wrap(err, apperrors.CodeInvalidArg, "required field is missing")
	case "08000", "08003", "08006": // connection_exception
		return apperrors.Wrap(err, apperrors.CodeInternal, "database connection error")
	default:
		return apperrors.Wrap(err, apperrors.CodeInternal, operation+" (PostgreSQL code: "+string(pqErr.Code)+")")
	}
}
