package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	cause := errors.New("exit status 1")
	tests := []struct {
		name string
		err  error
		is   []error
		not  []error
	}{
		{"format", Formatf("zz", "not hex"), []error{ErrFormat}, []error{ErrLimit, ErrBackend}},
		{"limit", &LimitError{Quantity: "refinement level", Requested: 40, Maximum: 30}, []error{ErrLimit}, []error{ErrFormat, ErrBackend}},
		{"backend", &BackendError{Backend: "dggrid", Op: "run", Err: cause}, []error{ErrBackend, cause}, []error{ErrLimit}},
		{"overflow", fmt.Errorf("edges: %w", ErrOverflow), []error{ErrOverflow, ErrBackend}, []error{ErrUnknownGrid}},
		{"unknown grid", ErrUnknownGrid, []error{ErrBackend}, []error{ErrUnsupported}},
		{"lock", ErrLockFailure, []error{ErrBackend}, []error{ErrOverflow}},
		{"unsupported", fmt.Errorf("%w: no adapter", ErrUnsupported), []error{ErrUnsupported}, []error{ErrBackend}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, target := range tt.is {
				assert.ErrorIs(t, tt.err, target)
			}
			for _, target := range tt.not {
				assert.NotErrorIs(t, tt.err, target)
			}
		})
	}
}

func TestLimitErrorMessage(t *testing.T) {
	above := &LimitError{Grid: "H3-H3O", Quantity: "refinement level", Requested: 16, Maximum: 15}
	assert.Equal(t, `requested refinement level 16 exceeds maximum allowed 15 for grid "H3-H3O"`, above.Error())

	below := &LimitError{Quantity: "refinement level", Requested: -1, Minimum: 0, Maximum: 15}
	assert.Equal(t, "requested refinement level -1 is below minimum allowed 0", below.Error())
}

func TestFormatErrorMessage(t *testing.T) {
	assert.Equal(t, `format error: not hex: "zz"`, Formatf("zz", "not hex").Error())
	assert.Equal(t, "format error: empty id", Formatf("", "empty id").Error())
}

func TestBackendErrorAs(t *testing.T) {
	err := fmt.Errorf("query: %w", &BackendError{Backend: "dggal", Op: "init", Err: errors.New("no display")})
	var be *BackendError
	if assert.ErrorAs(t, err, &be) {
		assert.Equal(t, "init", be.Op)
		assert.Equal(t, "dggal init: no display", be.Error())
	}
}
