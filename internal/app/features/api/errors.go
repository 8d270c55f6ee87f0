// internal/app/features/api/errors.go
package api

import (
	"github.com/wedevhq/wedev/internal/domain/apperr"
)

// resolverError adapts an apperr.Error to the executor's extended error
// interface so kind, label, and field travel in the error extensions.
type resolverError struct {
	err *apperr.Error
}

func (e *resolverError) Error() string {
	if e.err.Kind == apperr.KindInternal {
		return "internal server error"
	}
	return e.err.Msg
}

func (e *resolverError) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": string(e.err.Kind)}
	if e.err.Label != "" {
		ext["errorLabel"] = e.err.Label
	}
	if e.err.Field != "" {
		ext["field"] = e.err.Field
	}
	return ext
}

// fail wraps a service error for the executor.
func fail(err error) error {
	if appErr, ok := apperr.As(err); ok {
		return &resolverError{err: appErr}
	}
	return &resolverError{err: apperr.Internal(err)}
}
