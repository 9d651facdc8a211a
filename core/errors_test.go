package core

import (
	"errors"
	"testing"
)

func TestDomainError(t *testing.T) {
	err := NewDomainError(ModuleSnapshot, ErrorCodeUserNotFound, "snapshot: no taste vector for user: 42")
	if err.Error() != "snapshot: no taste vector for user: 42" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !IsDomainError(err) {
		t.Error("IsDomainError = false")
	}
	if got := GetDomainError(err); got == nil || got.Module != ModuleSnapshot || got.Code != ErrorCodeUserNotFound {
		t.Errorf("GetDomainError = %+v", got)
	}
}

func TestGetDomainErrorForeignError(t *testing.T) {
	if GetDomainError(errors.New("plain")) != nil {
		t.Error("plain error misidentified as DomainError")
	}
	if GetDomainError(nil) != nil {
		t.Error("GetDomainError(nil) != nil")
	}
}

func TestCodePredicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		pred func(error) bool
		want bool
	}{
		{"user not found", NewDomainError(ModuleSnapshot, ErrorCodeUserNotFound, "x"), IsUserNotFound, true},
		{"product not found", NewDomainError(ModuleSnapshot, ErrorCodeProductNotFound, "x"), IsProductNotFound, true},
		{"insufficient signal", NewDomainError(ModuleEngine, ErrorCodeInsufficientSignal, "x"), IsInsufficientSignal, true},
		{"dimension mismatch", NewDomainError(ModuleVector, ErrorCodeDimensionMismatch, "x"), IsDimensionMismatch, true},
		{"load failed", NewDomainError(ModuleSnapshot, ErrorCodeLoadFailed, "x"), IsLoadFailed, true},
		{"invalid input", NewDomainError(ModuleEngine, ErrorCodeInvalidInput, "x"), IsInvalidInput, true},
		{"not supported", NewDomainError(ModuleStore, ErrorCodeNotSupported, "x"), IsNotSupported, true},
		{"wrong code", NewDomainError(ModuleEngine, ErrorCodeInvalidInput, "x"), IsUserNotFound, false},
		{"plain error", errors.New("x"), IsInvalidInput, false},
		{"nil error", nil, IsInvalidInput, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pred(tt.err); got != tt.want {
				t.Errorf("predicate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsNotFoundCoversAllVariants(t *testing.T) {
	variants := []string{ErrorCodeNotFound, ErrorCodeUserNotFound, ErrorCodeProductNotFound}
	for _, code := range variants {
		if !IsNotFound(NewDomainError(ModuleSnapshot, code, "x")) {
			t.Errorf("IsNotFound(%s) = false", code)
		}
	}
	if IsNotFound(NewDomainError(ModuleEngine, ErrorCodeInvalidInput, "x")) {
		t.Error("IsNotFound matched INVALID_INPUT")
	}
}
