// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/joy/internal/audit"
	"github.com/tomtom215/joy/internal/validation"
)

// AuditError maps an error from the audit packages to a response.
func (rw *ResponseWriter) AuditError(err error) {
	var reqErr *validation.RequestValidationError
	var valErr *audit.ValidationError

	switch {
	case errors.As(err, &reqErr):
		rw.ValidationError(reqErr.Error(), reqErr.Fields())
	case errors.As(err, &valErr):
		var details interface{}
		if valErr.Field != "" {
			details = []validation.FieldError{{Field: valErr.Field, Message: valErr.Message}}
		}
		rw.ValidationError(valErr.Error(), details)
	case errors.Is(err, audit.ErrNotFound):
		rw.NotFound("Audit record not found")
	case errors.Is(err, context.DeadlineExceeded):
		rw.Error(http.StatusGatewayTimeout, ErrCodeTimeout, "The operation timed out")
	default:
		rw.DatabaseError(err)
	}
}
