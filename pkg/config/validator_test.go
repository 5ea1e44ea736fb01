package config

import (
	"errors"
	"testing"
)

type validatedConfig struct {
	Mode string `validate:"omitempty,oneof=debug release test"`
	Port int    `validate:"min=0,max=65535"`
}

func TestValidatorAccepts(t *testing.T) {
	v := NewValidator()

	cases := []validatedConfig{
		{},
		{Mode: "release", Port: 8080},
		{Mode: "debug"},
	}
	for _, c := range cases {
		if err := v.Validate(&c); err != nil {
			t.Fatalf("expected config %+v to validate, got %v", c, err)
		}
	}
}

func TestValidatorRejects(t *testing.T) {
	v := NewValidator()

	cases := []validatedConfig{
		{Mode: "production"},
		{Port: 70000},
	}
	for _, c := range cases {
		err := v.Validate(&c)
		if err == nil {
			t.Fatalf("expected config %+v to fail validation", c)
		}
		if !errors.Is(err, ErrValidationFailed) {
			t.Fatalf("expected ErrValidationFailed, got %v", err)
		}
	}
}

func TestValidatorNil(t *testing.T) {
	v := NewValidator()
	if err := v.Validate(nil); !errors.Is(err, ErrNilConfig) {
		t.Fatalf("expected ErrNilConfig, got %v", err)
	}
}
