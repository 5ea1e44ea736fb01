package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator 配置验证器
// 支持标准的 validator tag：required / min / max / oneof 等
type Validator struct {
	validate *validator.Validate
}

// NewValidator 创建验证器
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate 验证配置结构体
func (v *Validator) Validate(cfg any) error {
	if cfg == nil {
		return ErrNilConfig
	}
	if err := v.validate.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %s", ErrValidationFailed, formatValidationErrors(err))
	}
	return nil
}

// formatValidationErrors 格式化验证错误信息
func formatValidationErrors(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	var sb strings.Builder
	for i, fieldErr := range validationErrors {
		if i > 0 {
			sb.WriteString("; ")
		}

		field := fieldErr.Field()
		switch tag := fieldErr.Tag(); tag {
		case "required":
			fmt.Fprintf(&sb, "field '%s' is required", field)
		case "min":
			fmt.Fprintf(&sb, "field '%s' must be at least %s", field, fieldErr.Param())
		case "max":
			fmt.Fprintf(&sb, "field '%s' must be at most %s", field, fieldErr.Param())
		case "oneof":
			fmt.Fprintf(&sb, "field '%s' must be one of [%s]", field, fieldErr.Param())
		default:
			fmt.Fprintf(&sb, "field '%s' failed validation '%s'", field, tag)
		}
	}
	return sb.String()
}
