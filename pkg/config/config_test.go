package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "Fall 2024", cfg.Gradebook.Semester)
	assert.Equal(t, 10000, cfg.Gradebook.StudentIDStart)
	assert.Equal(t, 0.4, cfg.Grading.TestsWeight)
	assert.Equal(t, StorageBackendFile, cfg.Storage.Backend)
	assert.Equal(t, "/tmp", cfg.Storage.DataDir)
	assert.Equal(t, 5*time.Minute, cfg.Statistics.CacheTTL)
	assert.False(t, cfg.JWT.Enabled())
	assert.False(t, cfg.Autosave.Enabled)
	assert.Equal(t, 3, cfg.Autosave.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Autosave.RetryDelay)
}

func TestUnknownBackendFallsBackToFile(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("STORAGE_BACKEND", "dynamo")
	assert.Equal(t, StorageBackendFile, fromViper(v).Storage.Backend)

	v.Set("STORAGE_BACKEND", " Postgres ")
	assert.Equal(t, StorageBackendPostgres, fromViper(v).Storage.Backend)
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	assert.Equal(t, 2*time.Second, parseDuration("2s", time.Minute))
}

func TestSplitAndTrim(t *testing.T) {
	assert.Nil(t, splitAndTrim(""))
	assert.Equal(t, []string{"a", "b"}, splitAndTrim(" a, ,b "))
}
