package config

import (
	"strings"

	"github.com/kailas-cloud/ytsearch/internal/domain"
)

// Setting names a credential or endpoint that is resolved when a request needs it.
// Names follow the config file layout, never the environment variable.
type Setting string

// Settings used by the direct strategy.
const (
	SettingEmbeddingAPIKey Setting = "embedding.api_key"
	SettingVectorStoreURL  Setting = "vector_store.url"
	SettingVectorStoreKey  Setting = "vector_store.key"
	SettingVectorStoreDSN  Setting = "vector_store.dsn"
	SettingYouTubeAPIKey   Setting = "youtube.api_key"
)

// Credentials resolves required settings from a configuration snapshot taken at startup.
// A missing value fails the request that needs it, not the process.
type Credentials struct {
	values map[Setting]string
}

// NewCredentials creates a resolver over explicit values (blank values count as missing).
func NewCredentials(values map[Setting]string) Credentials {
	m := make(map[Setting]string, len(values))
	for k, v := range values {
		m[k] = v
	}
	return Credentials{values: m}
}

// Credentials returns the resolver for this configuration.
func (c *Config) Credentials() Credentials {
	return NewCredentials(map[Setting]string{
		SettingEmbeddingAPIKey: c.Embedding.APIKey,
		SettingVectorStoreURL:  c.VectorStore.URL,
		SettingVectorStoreKey:  c.VectorStore.Key,
		SettingVectorStoreDSN:  c.VectorStore.DSN,
		SettingYouTubeAPIKey:   c.YouTube.APIKey,
	})
}

// VectorStoreSettings lists the settings the configured vector store driver needs.
func (c *Config) VectorStoreSettings() []Setting {
	if c.VectorStore.Driver == DriverPostgres {
		return []Setting{SettingVectorStoreDSN}
	}
	return []Setting{SettingVectorStoreURL, SettingVectorStoreKey}
}

// Resolve returns the value of a setting or a *domain.ConfigurationError.
func (c Credentials) Resolve(s Setting) (string, error) {
	v := strings.TrimSpace(c.values[s])
	if v == "" {
		return "", &domain.ConfigurationError{Setting: string(s)}
	}
	return v, nil
}

// Require checks settings in order and reports the first missing one.
func (c Credentials) Require(settings ...Setting) error {
	for _, s := range settings {
		if _, err := c.Resolve(s); err != nil {
			return err
		}
	}
	return nil
}
