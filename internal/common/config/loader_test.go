// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const baseConfigYAML = `
camunda:
  broker_address: localhost:26500

database:
  postgres:
    host: localhost
    database: profitum
    user: worker
  redis:
    address: localhost:6379
`

func TestLoadFromFile_ElasticsearchURLOnly(t *testing.T) {
	path := writeConfigFile(t, baseConfigYAML+`
  elasticsearch:
    url: http://es.internal:9200
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://es.internal:9200", cfg.Database.Elasticsearch.GetURL())
	require.Len(t, cfg.Database.Elasticsearch.Addresses, 1)
	assert.Equal(t, "http://es.internal:9200", cfg.Database.Elasticsearch.Addresses[0])
}

func TestLoadFromFile_ElasticsearchAddressesOnly(t *testing.T) {
	path := writeConfigFile(t, baseConfigYAML+`
  elasticsearch:
    addresses:
      - http://es-1.internal:9200
      - http://es-2.internal:9200
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://es-1.internal:9200", cfg.Database.Elasticsearch.GetURL())
	assert.Len(t, cfg.Database.Elasticsearch.Addresses, 2)
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, baseConfigYAML)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Camunda.MaxJobsActive)
	assert.Equal(t, "2024.1", cfg.Simulation.TablesVersion)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile_MissingRequiredFields(t *testing.T) {
	path := writeConfigFile(t, `
camunda:
  broker_address: localhost:26500
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.postgres.host")
}
