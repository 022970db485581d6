package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/dataguardian/internal/aead"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, aead.AESGCM, cfg.DefaultAEAD)
				assert.Equal(t, defaultChunkSize, cfg.DefaultChunkSize)
				assert.Equal(t, "sha256", cfg.DefaultOAEPHash)
				assert.Equal(t, 1<<15, cfg.ScryptN)
				assert.Equal(t, 8, cfg.ScryptR)
				assert.Equal(t, 1, cfg.ScryptP)
				assert.Equal(t, 16, cfg.ScryptSaltLen)
				assert.NotEmpty(t, cfg.StoreDir)
			},
		},
		{
			name: "load custom store dir",
			envVars: map[string]string{
				"DG_STORE_DIR": "/tmp/custom-store",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/tmp/custom-store", cfg.StoreDir)
			},
		},
		{
			name: "load custom log level",
			envVars: map[string]string{
				"DG_LOG_LEVEL": "debug",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.LogLevel)
			},
		},
		{
			name: "load custom default AEAD",
			envVars: map[string]string{
				"DG_DEFAULT_AEAD": "chacha20-poly1305",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, aead.ChaCha20, cfg.DefaultAEAD)
			},
		},
		{
			name: "load custom chunk size",
			envVars: map[string]string{
				"DG_DEFAULT_CHUNK_SIZE": "4096",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 4096, cfg.DefaultChunkSize)
			},
		},
		{
			name: "load custom scrypt parameters",
			envVars: map[string]string{
				"DG_SCRYPT_N":        "16384",
				"DG_SCRYPT_R":        "4",
				"DG_SCRYPT_P":        "2",
				"DG_SCRYPT_SALT_LEN": "32",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 16384, cfg.ScryptN)
				assert.Equal(t, 4, cfg.ScryptR)
				assert.Equal(t, 2, cfg.ScryptP)
				assert.Equal(t, 32, cfg.ScryptSaltLen)
			},
		},
		{
			name: "load custom OAEP hash",
			envVars: map[string]string{
				"DG_DEFAULT_OAEP_HASH": "sha512",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "sha512", cfg.DefaultOAEPHash)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()

			for key, value := range tt.envVars {
				err := os.Setenv(key, value)
				require.NoError(t, err)
			}

			cfg := Load()

			tt.validate(t, cfg)
		})
	}
}

func TestDefaultStoreDir(t *testing.T) {
	dir := defaultStoreDir()
	assert.NotEmpty(t, dir)
	assert.True(t, filepath.IsAbs(dir) || dir == ".data_guardian")
}

func TestLoadDotEnv(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "config_test")
	require.NoError(t, err)
	defer func() {
		_ = os.RemoveAll(tmpDir)
	}()

	err = os.WriteFile(filepath.Join(tmpDir, ".env"), []byte("TEST_ENV_VAR=found"), 0600)
	require.NoError(t, err)

	childDir := filepath.Join(tmpDir, "child", "grandchild")
	err = os.MkdirAll(childDir, 0700)
	require.NoError(t, err)

	oldCwd, err := os.Getwd()
	require.NoError(t, err)
	defer func() {
		_ = os.Chdir(oldCwd)
	}()

	err = os.Chdir(childDir)
	require.NoError(t, err)

	loadDotEnv()

	assert.Equal(t, "found", os.Getenv("TEST_ENV_VAR"))
	err = os.Unsetenv("TEST_ENV_VAR")
	require.NoError(t, err)
}
