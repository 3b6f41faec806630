package otel

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		name, arg string
		want      string
	}{
		{"always_on", "", "AlwaysOnSampler"},
		{"always_off", "", "AlwaysOffSampler"},
		{"traceidratio", "0.25", "TraceIDRatioBased{0.25}"},
		{"traceidratio", "abc", "AlwaysOnSampler"},
		{"parentbased_always_off", "", "ParentBased{root:AlwaysOffSampler,"},
		{"bogus", "", "ParentBased{root:AlwaysOnSampler,"},
	}
	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.arg, func(t *testing.T) {
			assert.True(t, strings.HasPrefix(samplerFor(tt.name, tt.arg).Description(), tt.want))
		})
	}
}

func TestInit_Disabled(t *testing.T) {
	t.Setenv("OTEL_SDK_DISABLED", "true")

	shutdown, err := Init(context.Background(), "umrahportal")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestGetEnv(t *testing.T) {
	t.Setenv("OTEL_TEST_KEY", "")
	assert.Equal(t, "fallback", getEnv("OTEL_TEST_KEY", "fallback"))

	t.Setenv("OTEL_TEST_KEY", "set")
	assert.Equal(t, "set", getEnv("OTEL_TEST_KEY", "fallback"))
}
