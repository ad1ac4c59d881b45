package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Freeeeeet/edu_platform/internal/repository/base"
)

// Ошибки сервисного слоя. Контроллеры различают их через errors.Is.
var (
	ErrValidation     = errors.New("validation failed")
	ErrDenied         = errors.New("access denied")
	ErrNotFound       = errors.New("not found")
	ErrUpstreamFailed = errors.New("completion provider failed")
	ErrStorage        = errors.New("storage failure")
	ErrConflict       = errors.New("already exists")
	ErrBadCredentials = errors.New("invalid email or password")
)

// ValidationError lists field errors keyed by JSON field name
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalidField(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

func notFound(what string, id int64) error {
	return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
}

// repoErr maps repository failures: a missing row becomes ErrNotFound, the rest ErrStorage
func repoErr(op string, err error) error {
	if errors.Is(err, base.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return storageErr(op, err)
}
