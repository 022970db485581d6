// Package config provides application configuration management through environment variables.
package config

import (
	"os"
	"path/filepath"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"

	"github.com/allisson/dataguardian/internal/aead"
)

// Config holds runtime defaults for the CLI and the library packages it
// wires together. Individual operations may still override these via
// explicit parameters; Config only supplies what the environment doesn't.
type Config struct {
	// StoreDir is the filesystem root for the key store: keys.json plus
	// keys/<kid>_pub.pem and keys/<kid>_priv.enc.
	StoreDir string

	// LogLevel controls the slog handler's minimum level ("debug", "info",
	// "warn", "error").
	LogLevel string

	// DefaultAEAD is loaded from the environment but not read by the
	// encryptor or the CLI; the encryptor falls back to aead.AESGCM itself.
	DefaultAEAD aead.Algorithm

	// DefaultChunkSize is a plaintext frame size in bytes. It is loaded but
	// not read by the encryptor, which uses encryptor.DefaultChunkSize.
	DefaultChunkSize int

	// DefaultOAEPHash names an RSA-OAEP hash ("sha256" or "sha512"). It is
	// loaded but not read by the encryptor or the CLI, which use SHA-256.
	DefaultOAEPHash string

	// Scrypt parameters for sealing private keys.
	ScryptN       int
	ScryptR       int
	ScryptP       int
	ScryptSaltLen int
}

// Default chunk size: 1 MiB, matching the boundary exercised by the
// streaming scenarios this package's consumers test against.
const defaultChunkSize = 1 << 20

// Load loads configuration from environment variables, defaulting any
// variable that isn't set. It first attempts to load a .env file by
// searching recursively from the current directory up to the root
// directory; if none is found, it continues with the process environment
// as-is.
func Load() *Config {
	loadDotEnv()

	storeDir := env.GetString("DG_STORE_DIR", "")
	if storeDir == "" {
		storeDir = defaultStoreDir()
	}

	return &Config{
		StoreDir:         storeDir,
		LogLevel:         env.GetString("DG_LOG_LEVEL", "info"),
		DefaultAEAD:      aead.Algorithm(env.GetString("DG_DEFAULT_AEAD", string(aead.AESGCM))),
		DefaultChunkSize: env.GetInt("DG_DEFAULT_CHUNK_SIZE", defaultChunkSize),
		DefaultOAEPHash:  env.GetString("DG_DEFAULT_OAEP_HASH", "sha256"),
		ScryptN:          env.GetInt("DG_SCRYPT_N", 1<<15),
		ScryptR:          env.GetInt("DG_SCRYPT_R", 8),
		ScryptP:          env.GetInt("DG_SCRYPT_P", 1),
		ScryptSaltLen:    env.GetInt("DG_SCRYPT_SALT_LEN", 16),
	}
}

// defaultStoreDir returns ~/.data_guardian, falling back to a relative
// path if the home directory can't be resolved.
func defaultStoreDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".data_guardian"
	}
	return filepath.Join(home, ".data_guardian")
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
