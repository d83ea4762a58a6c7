package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEffect_String verifies that Effect values produce the expected
// string representations for CLI output and JSON serialization.
func TestEffect_String(t *testing.T) {
	tests := []struct {
		effect   Effect
		expected string
	}{
		{EffectNone, "none"},
		{EffectRewritesSource, "rewrites-source"},
		{EffectWritesArtifacts, "writes-artifacts"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.effect.String())
		})
	}
}

// TestEffect_IsMutating checks that only source rewrites and artifact
// writes count as mutating.
func TestEffect_IsMutating(t *testing.T) {
	assert.False(t, EffectNone.IsMutating())
	assert.True(t, EffectRewritesSource.IsMutating())
	assert.True(t, EffectWritesArtifacts.IsMutating())
	assert.False(t, Effect("invalid").IsValid())
}

// TestParseEffect verifies string-to-effect conversion, including case
// normalization, the empty default and error cases.
func TestParseEffect(t *testing.T) {
	tests := []struct {
		input    string
		expected Effect
		hasError bool
	}{
		{"none", EffectNone, false},
		{"rewrites-source", EffectRewritesSource, false},
		{"WRITES-ARTIFACTS", EffectWritesArtifacts, false}, // case insensitive
		{"", EffectNone, false},                             // omitted field
		{"deletes-everything", "", true},                    // unknown value
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParseEffect(tt.input)
			if tt.hasError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

// TestValidateName checks target name validation rules.
func TestValidateName(t *testing.T) {
	tests := []struct {
		name     string
		hasError bool
	}{
		{"clippy", false},     // valid: lowercase word
		{"build-all", false},  // valid: hyphen
		{"unit_test2", false}, // valid: underscore and digit
		{"a", false},          // valid: single letter
		{"", true},            // invalid: empty
		{"Build", true},       // invalid: uppercase
		{"2fast", true},       // invalid: starts with digit
		{"-lint", true},       // invalid: starts with hyphen
		{"run tests", true},   // invalid: space
		{"doc.open", true},    // invalid: dot
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.name)
			if tt.hasError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestTarget_Validate covers the per-target rules: a name, a command or
// deps, a non-empty program and a known effect.
func TestTarget_Validate(t *testing.T) {
	tests := []struct {
		name     string
		target   Target
		hasError bool
	}{
		{
			name:   "command only",
			target: Target{Name: "test", Command: []string{"go", "test", "./..."}},
		},
		{
			name:   "deps only",
			target: Target{Name: "all", Deps: []string{"clippy", "test"}},
		},
		{
			name:     "neither command nor deps",
			target:   Target{Name: "empty"},
			hasError: true,
		},
		{
			name:     "empty program",
			target:   Target{Name: "bad", Command: []string{"", "x"}},
			hasError: true,
		},
		{
			name:     "invalid effect",
			target:   Target{Name: "fmt", Command: []string{"gofmt"}, Effects: "explodes"},
			hasError: true,
		},
		{
			name:     "invalid name",
			target:   Target{Name: "Fmt", Command: []string{"gofmt"}},
			hasError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.target.Validate()
			if tt.hasError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, EffectNone, tt.target.Effects)
			}
		})
	}
}

// TestTarget_CommandLine verifies the display form never alters plain
// arguments and quotes ones that would be ambiguous.
func TestTarget_CommandLine(t *testing.T) {
	tg := Target{Command: []string{"go", "run", "./cmd/logical", "fulladder"}}
	assert.Equal(t, "go run ./cmd/logical fulladder", tg.CommandLine())
	assert.True(t, tg.HasCommand())

	tg = Target{Command: []string{"echo", "hello world", ""}}
	assert.Equal(t, `echo "hello world" ""`, tg.CommandLine())

	assert.False(t, (&Target{Deps: []string{"x"}}).HasCommand())
}

func TestStepResult_Succeeded(t *testing.T) {
	ok := StepResult{Target: "test", ExitCode: 0, StartedAt: time.Now()}
	assert.True(t, ok.Succeeded())

	failed := StepResult{Target: "test", ExitCode: 2}
	assert.False(t, failed.Succeeded())

	crashed := StepResult{Target: "test", Err: errors.New("killed")}
	assert.False(t, crashed.Succeeded())
}

// TestCLIError verifies the custom error type used for exit code mapping.
func TestCLIError(t *testing.T) {
	t.Run("simple error", func(t *testing.T) {
		err := NewCLIError(ExitUnknownTarget, "unknown target \"lint\"")
		assert.Equal(t, ExitUnknownTarget, err.Code)
		assert.Equal(t, "unknown target \"lint\"", err.Error())
		assert.Nil(t, err.Unwrap())
	})

	t.Run("wrapped error", func(t *testing.T) {
		inner := errors.New("connection refused")
		err := WrapCLIError(ExitDockerNotRunning, "Docker daemon is not running", inner)
		assert.Equal(t, ExitDockerNotRunning, err.Code)
		assert.Contains(t, err.Error(), "connection refused")
		assert.Equal(t, inner, err.Unwrap())
	})

	// Verify errors.Is works with unwrapped errors (Go 1.13+ error chain).
	t.Run("errors.Is chain", func(t *testing.T) {
		err := WrapCLIError(ExitConfigError, "invalid task file", ErrCycle)
		assert.True(t, errors.Is(err, ErrCycle))
	})
}
