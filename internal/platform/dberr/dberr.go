// Copyright (c) 2026 Songatlas. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/songatlas/internal/platform/apperr"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// The action names the failed operation ("count genre facet") and ends up in
// the server-side cause only.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// An error that was already classified passes through untouched.
	if apperr.IsAppError(err) {
		return err
	}

	cause := fmt.Errorf("%s: %w", action, err)

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("Resource")
	}

	// 2. Deadline exceeded on our side, or statement_timeout on the server side
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Timeout(cause)
	}

	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case pgerrcode.QueryCanceled:
			return apperr.Timeout(cause)
		case pgerrcode.ForeignKeyViolation, pgerrcode.RestrictViolation:
			return apperr.Conflict("The record is still referenced by other records")
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(cause)
}

// IsForeignKeyViolation reports whether err carries SQLSTATE 23503 or 23001.
func IsForeignKeyViolation(err error) bool {
	var pgError *pgconn.PgError
	if !errors.As(err, &pgError) {
		return false
	}
	return pgError.Code == pgerrcode.ForeignKeyViolation || pgError.Code == pgerrcode.RestrictViolation
}
