package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	DefaultGeneration = "mammoth-packer-v3"

	BackendSQLite = "sqlite"
	BackendKeyDB  = "keydb"
	BackendNone   = "none"
)

// DefaultStaticAssets are the application paths precached at install
var DefaultStaticAssets = []string{
	"/",
	"/index.html",
	"/manifest.json",
}

// DefaultCDNAssets are the third-party SDK files precached at install
var DefaultCDNAssets = []string{
	"https://www.gstatic.com/firebasejs/9.23.0/firebase-app-compat.js",
	"https://www.gstatic.com/firebasejs/9.23.0/firebase-database-compat.js",
}

var validate = validator.New()

// Config represents the main configuration structure
type Config struct {
	Generation string          `yaml:"generation" validate:"required"`
	AppOrigin  string          `yaml:"app_origin" validate:"required,url"`
	Precache   PrecacheConfig  `yaml:"precache"`
	Server     ServerConfig    `yaml:"server"`
	Transport  TransportConfig `yaml:"transport"`
	Storage    StorageConfig   `yaml:"storage"`
	Lifecycle  LifecycleConfig `yaml:"lifecycle"`
	Admin      AdminConfig     `yaml:"admin"`
}

// PrecacheConfig lists the assets fetched as one batch at install time
type PrecacheConfig struct {
	Static []string `yaml:"static" validate:"dive,startswith=/"`
	CDN    []string `yaml:"cdn" validate:"dive,url"`
}

// ServerConfig configures the proxy and admin listeners
type ServerConfig struct {
	ListenAddr      string        `yaml:"listen_addr" validate:"required"`
	AdminAddr       string        `yaml:"admin_addr" validate:"required"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// TransportConfig configures the outgoing network transport.
// A zero Timeout means fetches are never cut short.
type TransportConfig struct {
	Timeout      time.Duration `yaml:"timeout" validate:"min=0"`
	MaxIdleConns int           `yaml:"max_idle_conns" validate:"min=0"`
	UserAgent    string        `yaml:"user_agent"`
}

// StorageConfig selects the generation store layers
type StorageConfig struct {
	L1      BigCacheConfig `yaml:"l1"`
	Backend string         `yaml:"backend" validate:"oneof=sqlite keydb none"`
	SQLite  SQLiteConfig   `yaml:"sqlite"`
	KeyDB   KeyDBConfig    `yaml:"keydb"`
}

// BigCacheConfig configures the in-memory layer
type BigCacheConfig struct {
	Enabled      bool `yaml:"enabled"`
	Size         int  `yaml:"size" validate:"min=0"`           // MB per generation
	Shards       int  `yaml:"shards" validate:"min=0"`         // power of two
	MaxEntrySize int  `yaml:"max_entry_size" validate:"min=0"` // bytes, must fit in one shard
}

// SQLiteConfig configures the on-disk layer
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// KeyDBConfig configures the KeyDB/Redis layer
type KeyDBConfig struct {
	Connection ConnectionConfig `yaml:"connection"`
	Keepalive  KeepaliveConfig  `yaml:"keepalive"`
	KeyPrefix  string           `yaml:"key_prefix"`
}

// ConnectionConfig holds KeyDB timeouts
type ConnectionConfig struct {
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	SendTimeout    time.Duration `yaml:"send_timeout"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
}

// KeepaliveConfig holds KeyDB pool settings
type KeepaliveConfig struct {
	PoolSize       int           `yaml:"pool_size"`
	MaxIdleTimeout time.Duration `yaml:"max_idle_timeout"`
}

// LifecycleConfig controls what the host does at boot
type LifecycleConfig struct {
	AutoInstall bool `yaml:"auto_install"`
}

// AdminConfig protects the admin API
type AdminConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// LoadConfig loads configuration from file path
func LoadConfig(configPath string, logger *zap.Logger) (*Config, error) {
	logger.Info("Loading configuration", zap.String("path", configPath))

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var config Config
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode YAML config: %w", err)
	}

	// Apply defaults
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger.Info("Configuration loaded",
		zap.String("generation", config.Generation),
		zap.String("backend", config.Storage.Backend),
		zap.Bool("l1_enabled", config.Storage.L1.Enabled))

	return &config, nil
}

// Validate checks struct constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid configuration: field %s failed %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Storage.Backend == BackendSQLite && c.Storage.SQLite.Path == "" {
		return errors.New("invalid configuration: storage.sqlite.path is required for the sqlite backend")
	}
	if err := c.Storage.L1.validate(); err != nil {
		return fmt.Errorf("invalid configuration: storage.l1: %w", err)
	}
	return nil
}

// ShardSize is the byte capacity of one bigcache shard
func (b *BigCacheConfig) ShardSize() int {
	if b.Shards <= 0 {
		return 0
	}
	return b.Size * 1024 * 1024 / b.Shards
}

func (b *BigCacheConfig) validate() error {
	if !b.Enabled {
		return nil
	}
	if b.Shards <= 0 || b.Shards&(b.Shards-1) != 0 {
		return fmt.Errorf("shards must be a power of two, got %d", b.Shards)
	}
	if b.Size <= 0 {
		return errors.New("size must be positive")
	}
	// bigcache stores a header next to every entry
	if b.MaxEntrySize >= b.ShardSize() {
		return fmt.Errorf("max_entry_size %d does not fit in a %d byte shard (size %d MB / %d shards)",
			b.MaxEntrySize, b.ShardSize(), b.Size, b.Shards)
	}
	return nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Generation == "" {
		c.Generation = DefaultGeneration
	}
	if c.Precache.Static == nil {
		c.Precache.Static = append([]string(nil), DefaultStaticAssets...)
	}
	if c.Precache.CDN == nil {
		c.Precache.CDN = append([]string(nil), DefaultCDNAssets...)
	}

	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = ":8080"
	}
	if c.Server.AdminAddr == "" {
		c.Server.AdminAddr = ":9090"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 30 * time.Second
	}

	if c.Transport.MaxIdleConns == 0 {
		c.Transport.MaxIdleConns = 100
	}

	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendSQLite
	}
	if c.Storage.SQLite.Path == "" {
		c.Storage.SQLite.Path = "sw_cache.db"
	}
	c.Storage.L1.applyDefaults()
	c.Storage.KeyDB.applyDefaults()
}

func (b *BigCacheConfig) applyDefaults() {
	if b.Size == 0 {
		b.Size = 64
	}
	if b.Shards == 0 {
		b.Shards = 16
	}
	if b.MaxEntrySize == 0 {
		b.MaxEntrySize = 1024 * 1024
	}
}

func (k *KeyDBConfig) applyDefaults() {
	if k.Connection.ConnectTimeout == 0 {
		k.Connection.ConnectTimeout = time.Second
	}
	if k.Connection.SendTimeout == 0 {
		k.Connection.SendTimeout = time.Second
	}
	if k.Connection.ReadTimeout == 0 {
		k.Connection.ReadTimeout = time.Second
	}
	if k.Keepalive.PoolSize == 0 {
		k.Keepalive.PoolSize = 10
	}
	if k.Keepalive.MaxIdleTimeout == 0 {
		k.Keepalive.MaxIdleTimeout = 10 * time.Second
	}
	if k.KeyPrefix == "" {
		k.KeyPrefix = "swcache"
	}
}

// GetReadTimeout returns the KeyDB read timeout
func (k *KeyDBConfig) GetReadTimeout() time.Duration {
	return k.Connection.ReadTimeout
}

// GetSendTimeout returns the KeyDB write timeout
func (k *KeyDBConfig) GetSendTimeout() time.Duration {
	return k.Connection.SendTimeout
}
