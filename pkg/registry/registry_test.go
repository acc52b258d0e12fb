// pkg/registry/registry_test.go
package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistry() *ActivityRegistry {
	return &ActivityRegistry{
		Version:     "1.0.0",
		LastUpdated: "2024-06-01T00:00:00Z",
		Activities: []Activity{
			{
				ID:          "evaluate-eligibility",
				DisplayName: "Evaluate TICPE Eligibility",
				Category:    "simulation",
				TaskType:    "evaluate-ticpe-eligibility",
			},
			{
				ID:          "benchmark-comparison",
				DisplayName: "Compare TICPE Benchmark",
				Category:    "simulation",
				TaskType:    "compare-ticpe-benchmark",
			},
		},
	}
}

func TestLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"version": "1.0.0",
		"lastUpdated": "2024-06-01T00:00:00Z",
		"activities": [
			{"id": "evaluate-eligibility", "displayName": "Evaluate TICPE Eligibility",
			 "category": "simulation", "taskType": "evaluate-ticpe-eligibility"}
		]
	}`), 0644))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", reg.Version)
	require.Len(t, reg.Activities, 1)
	assert.Equal(t, "evaluate-ticpe-eligibility", reg.Activities[0].TaskType)
}

func TestLoadRegistry_MissingFile(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestFindByTaskType(t *testing.T) {
	reg := validRegistry()

	activity, ok := reg.FindByTaskType("compare-ticpe-benchmark")
	require.True(t, ok)
	assert.Equal(t, "benchmark-comparison", activity.ID)

	_, ok = reg.FindByTaskType("unknown-task")
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	t.Run("valid registry passes", func(t *testing.T) {
		assert.NoError(t, validRegistry().Validate())
	})

	t.Run("empty registry fails", func(t *testing.T) {
		reg := &ActivityRegistry{}
		assert.Error(t, reg.Validate())
	})

	t.Run("duplicate id fails", func(t *testing.T) {
		reg := validRegistry()
		reg.Activities[1].ID = reg.Activities[0].ID
		assert.Error(t, reg.Validate())
	})

	t.Run("duplicate task type fails", func(t *testing.T) {
		reg := validRegistry()
		reg.Activities[1].TaskType = reg.Activities[0].TaskType
		assert.Error(t, reg.Validate())
	})

	t.Run("missing task type fails", func(t *testing.T) {
		reg := validRegistry()
		reg.Activities[0].TaskType = ""
		assert.Error(t, reg.Validate())
	})
}
