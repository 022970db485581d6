// Package app provides a dependency injection container for assembling
// the CLI's components from configuration.
package app

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/allisson/dataguardian/internal/config"
	"github.com/allisson/dataguardian/internal/decryptor"
	"github.com/allisson/dataguardian/internal/encryptor"
	"github.com/allisson/dataguardian/internal/kdf"
	"github.com/allisson/dataguardian/internal/keystore"
	"github.com/allisson/dataguardian/internal/policy"
	"github.com/allisson/dataguardian/internal/signer"
)

// Container holds all application dependencies and provides methods to
// access them. Components are created on first access and cached,
// following the lazy-initialization pattern.
type Container struct {
	config      *config.Config
	passphrases keystore.PassphraseProvider

	logger    *slog.Logger
	store     *keystore.Store
	gate      *policy.ExpiryGate
	encryptor *encryptor.Encryptor
	decryptor *decryptor.Decryptor
	signer    *signer.Signer

	loggerInit    sync.Once
	storeInit     sync.Once
	gateInit      sync.Once
	encryptorInit sync.Once
	decryptorInit sync.Once
	signerInit    sync.Once

	mu         sync.Mutex
	initErrors map[string]error
}

// NewContainer creates a dependency injection container from cfg.
// passphrases supplies passphrases for private-key operations; it is
// typically a CLI-layer adapter over a TTY prompt or an env var.
func NewContainer(cfg *config.Config, passphrases keystore.PassphraseProvider) *Container {
	return &Container{
		config:      cfg,
		passphrases: passphrases,
		initErrors:  make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger, creating it on first access
// from the configured log level.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// Store returns the key store, creating its on-disk layout under
// Config.StoreDir on first access if it doesn't already exist.
func (c *Container) Store() (*keystore.Store, error) {
	var err error
	c.storeInit.Do(func() {
		c.store, err = c.initStore()
		c.recordErr("store", err)
	})
	if storedErr, ok := c.lookupErr("store"); ok {
		return nil, storedErr
	}
	return c.store, err
}

// PolicyGate returns the key-expiry policy gate.
func (c *Container) PolicyGate() (*policy.ExpiryGate, error) {
	var err error
	c.gateInit.Do(func() {
		c.gate, err = c.initGate()
		c.recordErr("gate", err)
	})
	if storedErr, ok := c.lookupErr("gate"); ok {
		return nil, storedErr
	}
	return c.gate, err
}

// Encryptor returns the envelope encryptor.
func (c *Container) Encryptor() (*encryptor.Encryptor, error) {
	var err error
	c.encryptorInit.Do(func() {
		c.encryptor, err = c.initEncryptor()
		c.recordErr("encryptor", err)
	})
	if storedErr, ok := c.lookupErr("encryptor"); ok {
		return nil, storedErr
	}
	return c.encryptor, err
}

// Decryptor returns the envelope decryptor.
func (c *Container) Decryptor() (*decryptor.Decryptor, error) {
	var err error
	c.decryptorInit.Do(func() {
		c.decryptor, err = c.initDecryptor()
		c.recordErr("decryptor", err)
	})
	if storedErr, ok := c.lookupErr("decryptor"); ok {
		return nil, storedErr
	}
	return c.decryptor, err
}

// Signer returns the detached-signature signer.
func (c *Container) Signer() (*signer.Signer, error) {
	var err error
	c.signerInit.Do(func() {
		c.signer, err = c.initSigner()
		c.recordErr("signer", err)
	})
	if storedErr, ok := c.lookupErr("signer"); ok {
		return nil, storedErr
	}
	return c.signer, err
}

func (c *Container) recordErr(key string, err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initErrors[key] = err
}

func (c *Container) lookupErr(key string) (error, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	err, ok := c.initErrors[key]
	return err, ok
}

func (c *Container) initLogger() *slog.Logger {
	var level slog.Level
	switch c.config.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

func (c *Container) initStore() (*keystore.Store, error) {
	params := kdf.Params{
		N:       c.config.ScryptN,
		R:       c.config.ScryptR,
		P:       c.config.ScryptP,
		KeyLen:  32,
		SaltLen: c.config.ScryptSaltLen,
	}
	return keystore.New(c.config.StoreDir, params)
}

func (c *Container) initGate() (*policy.ExpiryGate, error) {
	store, err := c.Store()
	if err != nil {
		return nil, err
	}
	return policy.NewExpiryGate(store, time.Now), nil
}

func (c *Container) initEncryptor() (*encryptor.Encryptor, error) {
	store, err := c.Store()
	if err != nil {
		return nil, err
	}
	gate, err := c.PolicyGate()
	if err != nil {
		return nil, err
	}
	enc := encryptor.New(store)
	enc.Gate = gate
	return enc, nil
}

func (c *Container) initDecryptor() (*decryptor.Decryptor, error) {
	store, err := c.Store()
	if err != nil {
		return nil, err
	}
	gate, err := c.PolicyGate()
	if err != nil {
		return nil, err
	}
	dec := decryptor.New(store, c.passphrases)
	dec.Gate = gate
	return dec, nil
}

func (c *Container) initSigner() (*signer.Signer, error) {
	store, err := c.Store()
	if err != nil {
		return nil, err
	}
	gate, err := c.PolicyGate()
	if err != nil {
		return nil, err
	}
	s := signer.New(store, c.passphrases)
	s.Gate = gate
	return s, nil
}
