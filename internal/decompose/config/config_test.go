package config

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "schema.yaml", cfg.SchemaPath)
	assert.Equal(t, "plan.yaml", cfg.PlanPath)
	assert.Equal(t, "_id", cfg.LinkSuffix)
	assert.Equal(t, 0.5, cfg.Analyzer.CoChangeThreshold)
	assert.Equal(t, 0, cfg.Analyzer.MaxBoundaryEntities)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("SCHEMA_PATH", "testdata/monolith.yaml")
	t.Setenv("PLAN_PATH", "out/plan.yaml")
	t.Setenv("LINK_SUFFIX", "_ref")
	t.Setenv("COCHANGE_THRESHOLD", "0.8")
	t.Setenv("MAX_BOUNDARY_ENTITIES", "4")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "testdata/monolith.yaml", cfg.SchemaPath)
	assert.Equal(t, "out/plan.yaml", cfg.PlanPath)
	assert.Equal(t, "_ref", cfg.LinkSuffix)
	assert.Equal(t, 0.8, cfg.Analyzer.CoChangeThreshold)
	assert.Equal(t, 4, cfg.Analyzer.MaxBoundaryEntities)
}

func TestLoadConfig_InfiniteThreshold(t *testing.T) {
	t.Setenv("COCHANGE_THRESHOLD", "+inf")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.True(t, math.IsInf(cfg.Analyzer.CoChangeThreshold, 1))
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(cfg *DecomposeConfig)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(cfg *DecomposeConfig) {},
		},
		{
			name:    "empty schema path",
			mutate:  func(cfg *DecomposeConfig) { cfg.SchemaPath = "" },
			wantErr: "SCHEMA_PATH",
		},
		{
			name:    "empty plan path",
			mutate:  func(cfg *DecomposeConfig) { cfg.PlanPath = "" },
			wantErr: "PLAN_PATH",
		},
		{
			name:    "empty link suffix",
			mutate:  func(cfg *DecomposeConfig) { cfg.LinkSuffix = "" },
			wantErr: "LINK_SUFFIX",
		},
		{
			name:    "negative threshold",
			mutate:  func(cfg *DecomposeConfig) { cfg.Analyzer.CoChangeThreshold = -1 },
			wantErr: "COCHANGE_THRESHOLD",
		},
		{
			name:    "NaN threshold",
			mutate:  func(cfg *DecomposeConfig) { cfg.Analyzer.CoChangeThreshold = math.NaN() },
			wantErr: "COCHANGE_THRESHOLD",
		},
		{
			name:    "negative entity cap",
			mutate:  func(cfg *DecomposeConfig) { cfg.Analyzer.MaxBoundaryEntities = -1 },
			wantErr: "MAX_BOUNDARY_ENTITIES",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultDecomposeConfig()
			tc.mutate(cfg)

			err := cfg.Validate()

			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestLoadConfig_RejectsInvalidEnvironment(t *testing.T) {
	t.Setenv("MAX_BOUNDARY_ENTITIES", "-3")

	_, err := LoadConfig()

	assert.Error(t, err)
}
