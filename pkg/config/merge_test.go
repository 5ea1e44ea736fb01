package config

import (
	"testing"
	"time"
)

type mergeTestConfig struct {
	Host    string
	Port    int
	Timeout time.Duration
	Nested  mergeNested
	Extra   map[string]string
}

type mergeNested struct {
	Enabled bool
	Name    string
}

func TestMergeConfig(t *testing.T) {
	dst := &mergeTestConfig{
		Host:    "0.0.0.0",
		Port:    8080,
		Timeout: 30 * time.Second,
		Nested:  mergeNested{Enabled: true, Name: "default"},
		Extra:   map[string]string{"a": "1"},
	}
	src := &mergeTestConfig{
		Port:   9090,
		Nested: mergeNested{Name: "override"},
		Extra:  map[string]string{"b": "2"},
	}

	merged, err := MergeConfig(dst, src)
	if err != nil {
		t.Fatalf("MergeConfig failed: %v", err)
	}

	if merged.Host != "0.0.0.0" {
		t.Errorf("expected host preserved, got %s", merged.Host)
	}
	if merged.Port != 9090 {
		t.Errorf("expected port 9090, got %d", merged.Port)
	}
	if merged.Timeout != 30*time.Second {
		t.Errorf("expected timeout preserved, got %v", merged.Timeout)
	}
	if merged.Nested.Name != "override" {
		t.Errorf("expected nested name overridden, got %s", merged.Nested.Name)
	}
	if merged.Extra["a"] != "1" || merged.Extra["b"] != "2" {
		t.Errorf("expected maps merged, got %v", merged.Extra)
	}
}

func TestMergeConfigNil(t *testing.T) {
	cfg := &mergeTestConfig{Port: 1}

	if _, err := MergeConfig[mergeTestConfig](nil, nil); err == nil {
		t.Error("expected error for double nil")
	}

	got, err := MergeConfig(nil, cfg)
	if err != nil || got != cfg {
		t.Errorf("expected src returned when dst is nil")
	}

	got, err = MergeConfig(cfg, nil)
	if err != nil || got != cfg {
		t.Errorf("expected dst returned when src is nil")
	}
}
