// Package config loads the server configuration from a TOML file, applying
// defaults for anything unset. Storage paths may additionally be overridden
// through environment variables so containerized deployments need no file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Server contains the HTTP listener configuration.
type Server struct {
	Bind string `toml:"bind"`
}

// Storage contains filesystem and database locations.
type Storage struct {
	StagingDir   string `toml:"staging_dir"`
	DatabasePath string `toml:"database_path"`
}

// Images contains the variant tunables for the ingestion pipeline.
type Images struct {
	// ProcessingEnabled selects the real codec; when false the server runs
	// with the passthrough codec and derived variants are byte-identical to
	// uploads, with no size bound.
	ProcessingEnabled bool `toml:"processing_enabled"`

	MiddleMaxBytes int `toml:"middle_max_bytes"`
	MiddleMaxWidth int `toml:"middle_max_width"`
	ThumbnailSize  int `toml:"thumbnail_size"`
}

type Config struct {
	Server  Server  `toml:"server"`
	Storage Storage `toml:"storage"`
	Images  Images  `toml:"images"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: Server{
			Bind: ":8080",
		},
		Storage: Storage{
			StagingDir:   "./data/uploads_tmp",
			DatabasePath: "./voxel.db",
		},
		Images: Images{
			ProcessingEnabled: true,
			MiddleMaxBytes:    2 << 20,
			MiddleMaxWidth:    1920,
			ThumbnailSize:     200,
		},
	}
}

// Load reads the config file at path. A missing file is not an error; the
// defaults apply. Environment overrides (VOXEL_STAGING_DIR, VOXEL_DB_PATH)
// win over both.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if dir := os.Getenv("VOXEL_STAGING_DIR"); dir != "" {
		cfg.Storage.StagingDir = dir
	}
	if dbPath := os.Getenv("VOXEL_DB_PATH"); dbPath != "" {
		cfg.Storage.DatabasePath = dbPath
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Bind == "" {
		return errors.New("server.bind must not be empty")
	}
	if c.Storage.StagingDir == "" {
		return errors.New("storage.staging_dir must not be empty")
	}
	if c.Storage.DatabasePath == "" {
		return errors.New("storage.database_path must not be empty")
	}
	if c.Images.MiddleMaxBytes <= 0 {
		return errors.New("images.middle_max_bytes must be positive")
	}
	if c.Images.MiddleMaxWidth <= 0 {
		return errors.New("images.middle_max_width must be positive")
	}
	if c.Images.ThumbnailSize <= 0 {
		return errors.New("images.thumbnail_size must be positive")
	}
	return nil
}
