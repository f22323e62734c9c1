// Package app assembles the wishlist bot from its configuration: database,
// services, conversation engine, Telegram handlers and metrics.
package app

import (
	"fmt"
	"strings"
	"time"

	coreconfig "github.com/m3rciful/wishbot/core/config"
	coredatabase "github.com/m3rciful/wishbot/core/database"
	"github.com/m3rciful/wishbot/internal/service"
)

// WishlistConfig tunes the wishlist domain.
type WishlistConfig struct {
	MaxWishesPerUser int `yaml:"max_wishes_per_user" envconfig:"WISHLIST_MAX_WISHES" validate:"gte=0"`
	// Timezone is an IANA name used for "Added" timestamps on cards; UTC when empty.
	Timezone string `yaml:"timezone" envconfig:"WISHLIST_TIMEZONE"`
}

// Config is the full bot configuration: the core sections plus database and wishlist.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`
	Wishlist WishlistConfig      `yaml:"wishlist"`

	location *time.Location
}

// Load reads the YAML file at path, applies .env and environment overrides and normalizes the result.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates every section and fills defaults.
func (c *Config) Normalize() error {
	if err := coreconfig.Normalize(&c.Config); err != nil {
		return err
	}
	if err := coreconfig.Validate(&c.Database); err != nil {
		return err
	}
	if err := c.Database.Normalize(); err != nil {
		return err
	}
	if err := coreconfig.Validate(&c.Wishlist); err != nil {
		return err
	}
	if c.Wishlist.MaxWishesPerUser == 0 {
		c.Wishlist.MaxWishesPerUser = service.DefaultMaxWishes
	}

	c.location = time.UTC
	if tz := strings.TrimSpace(c.Wishlist.Timezone); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return fmt.Errorf("invalid wishlist.timezone %q: %w", c.Wishlist.Timezone, err)
		}
		c.location = loc
	}
	return nil
}

// CoreConfig exposes the embedded core sections to the command runner.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Config
}

// Location returns the zone used to render timestamps.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}
