package config

import (
	"strings"
	"testing"
	"time"
)

func TestSchemaLookupAndIsKnown(t *testing.T) {
	s := NewSchema()
	s.Register(ConfigOption{Key: "verbose", Type: TypeBool})
	s.Register(ConfigOption{Key: "summary", Section: "run", Type: TypeBool})

	if s.Lookup("", "verbose") == nil {
		t.Error("Expected global verbose to be registered")
	}
	if s.Lookup("run", "summary") == nil {
		t.Error("Expected run.summary to be registered")
	}
	if s.Lookup("run", "verbose") != nil {
		t.Error("Lookup must not fall back to global options")
	}

	// IsKnown does fall back: globals may appear in command sections.
	if !s.IsKnown("run", "verbose") {
		t.Error("Expected global key to be known inside a command section")
	}
	if s.IsKnown("", "nonexistent") {
		t.Error("Expected unregistered key to be unknown")
	}
}

func TestValidateConfigAllValid(t *testing.T) {
	config := NewConfig()
	config.SetGlobalOption("verbose", "true")
	config.SetGlobalOption("workspace", "/srv/assignments")
	config.SetCommandOption("run", "summary", "false")

	issues := ValidateConfig(config, DefaultSchema())
	if len(issues) != 0 {
		t.Errorf("Expected no issues, got %v", issues)
	}
}

func TestValidateConfigUnknownGlobal(t *testing.T) {
	config := NewConfig()
	config.SetGlobalOption("frobnicate", "yes")

	issues := ValidateConfig(config, DefaultSchema())
	if len(issues) != 1 {
		t.Fatalf("Expected 1 issue, got %v", issues)
	}
	if !strings.Contains(issues[0], `unknown global option: "frobnicate"`) {
		t.Errorf("Unexpected issue: %s", issues[0])
	}
}

func TestValidateConfigUnknownCommandOption(t *testing.T) {
	config := NewConfig()
	config.SetCommandOption("inspect", "mystery", "on")

	issues := ValidateConfig(config, DefaultSchema())
	if len(issues) != 1 {
		t.Fatalf("Expected 1 issue, got %v", issues)
	}
	if !strings.Contains(issues[0], `unknown option for command "inspect"`) {
		t.Errorf("Unexpected issue: %s", issues[0])
	}
}

func TestValidateConfigTypeMismatch(t *testing.T) {
	config := NewConfig()
	config.SetGlobalOption("verbose", "purple")
	config.SetCommandOption("run", "summary", "maybe")

	issues := ValidateConfig(config, DefaultSchema())
	if len(issues) != 2 {
		t.Fatalf("Expected 2 issues, got %v", issues)
	}
	joined := strings.Join(issues, "\n")
	if !strings.Contains(joined, "expected bool") {
		t.Errorf("Expected bool type mismatch, got:\n%s", joined)
	}
}

func TestValidateType(t *testing.T) {
	cases := []struct {
		optType OptionType
		value   string
		wantErr bool
	}{
		{TypeString, "anything at all", false},
		{TypeBool, "true", false},
		{TypeBool, "off", false},
		{TypeBool, "purple", true},
		{TypeInt, "42", false},
		{TypeInt, "forty-two", true},
		{TypeDuration, "1m30s", false},
		{TypeDuration, "soon", true},
		{"", "untyped default", false},
	}
	for _, tc := range cases {
		err := validateType(tc.optType, tc.value)
		if tc.wantErr && err == nil {
			t.Errorf("validateType(%q, %q): expected error", tc.optType, tc.value)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("validateType(%q, %q): unexpected error %v", tc.optType, tc.value, err)
		}
	}
}

func TestTypedGetters(t *testing.T) {
	config := NewConfig()
	config.SetGlobalOption("verbose", "yes")
	config.SetGlobalOption("workspace", "/srv/assignments")
	config.SetGlobalOption("retries", "3")
	config.SetGlobalOption("pause", "250ms")

	if !config.GetBool("verbose") {
		t.Error("Expected GetBool(verbose)=true")
	}
	if config.GetBool("missing") {
		t.Error("Expected GetBool(missing)=false")
	}
	if got := config.GetString("workspace"); got != "/srv/assignments" {
		t.Errorf("Expected workspace path, got %q", got)
	}
	if got := config.GetStringDefault("missing", "fallback"); got != "fallback" {
		t.Errorf("Expected fallback, got %q", got)
	}
	if got := config.GetInt("retries"); got != 3 {
		t.Errorf("Expected retries=3, got %d", got)
	}
	if got := config.GetDuration("pause"); got != 250*time.Millisecond {
		t.Errorf("Expected pause=250ms, got %s", got)
	}
}

func TestResolvePrecedence(t *testing.T) {
	s := DefaultSchema()

	// Default only.
	config := NewConfig()
	if got := s.Resolve(config, "manifest"); got != "assignment.yaml" {
		t.Errorf("Expected schema default, got %q", got)
	}

	// Config value beats default.
	config.SetGlobalOption("manifest", "exam.yaml")
	if got := s.Resolve(config, "manifest"); got != "exam.yaml" {
		t.Errorf("Expected config value, got %q", got)
	}

	// Env var beats config value.
	config.SetGlobalOption("workspace", "/from-config")
	t.Setenv("DPROBOT_WORKSPACE", "/from-env")
	if got := s.Resolve(config, "workspace"); got != "/from-env" {
		t.Errorf("Expected env value, got %q", got)
	}
}

func TestDefaultSchemaCanonicalOptions(t *testing.T) {
	s := DefaultSchema()

	cases := []struct {
		section string
		key     string
		optType OptionType
	}{
		{"", "verbose", TypeBool},
		{"", "workspace", TypeString},
		{"", "manifest", TypeString},
		{"", "metrics", TypeBool},
		{"", "log.level", TypeString},
		{"run", "summary", TypeBool},
		{"inspect", "show-valid", TypeBool},
		{"trials", "robotName", TypeString},
		{"trials", "deadline", TypeDuration},
		{"trials", "limitTotal", TypeInt},
	}
	for _, tc := range cases {
		opt := s.Lookup(tc.section, tc.key)
		if opt == nil {
			t.Errorf("Expected option %q in section %q to be registered", tc.key, tc.section)
			continue
		}
		if opt.Type != tc.optType {
			t.Errorf("Option %q: expected type %q, got %q", tc.key, tc.optType, opt.Type)
		}
	}

	if opt := s.Lookup("", "workspace"); opt == nil || opt.EnvVar != "DPROBOT_WORKSPACE" {
		t.Error("Expected workspace to declare the DPROBOT_WORKSPACE override")
	}
}

func TestFormatHelpListsSections(t *testing.T) {
	help := DefaultSchema().FormatHelp()

	for _, want := range []string{
		"Global Options:",
		"[run] Options:",
		"[trials] Options:",
		"env: DPROBOT_WORKSPACE",
		"default: assignment.yaml",
	} {
		if !strings.Contains(help, want) {
			t.Errorf("Expected help to contain %q, got:\n%s", want, help)
		}
	}
}

func TestGetWithEnv(t *testing.T) {
	config := NewConfig()
	config.SetGlobalOption("workspace", "/from-config")

	if got := config.GetWithEnv("workspace", "DPROBOT_TEST_UNSET"); got != "/from-config" {
		t.Errorf("Expected config value with unset env, got %q", got)
	}

	t.Setenv("DPROBOT_TEST_WS", "/from-env")
	if got := config.GetWithEnv("workspace", "DPROBOT_TEST_WS"); got != "/from-env" {
		t.Errorf("Expected env value, got %q", got)
	}
}
