package config

import "errors"

var (
	// ErrConfigFileNotFound 配置文件未找到
	ErrConfigFileNotFound = errors.New("config file not found")

	// ErrNilConfig 配置为 nil
	ErrNilConfig = errors.New("config cannot be nil")

	// ErrValidationFailed 配置验证失败
	ErrValidationFailed = errors.New("config validation failed")
)
