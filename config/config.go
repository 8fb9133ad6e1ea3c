package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

type ServerConfig struct {
	Port    int    `toml:"port" env:"CLUB_SERVER_PORT"`
	DataDir string `toml:"data_dir" env:"CLUB_DATA_DIR"`
}

// FirebaseConfig holds the connection parameters for the Identity Provider and
// the Directory Store. ProjectID and APIKey are required; startup fails
// without them.
type FirebaseConfig struct {
	ProjectID  string `toml:"project_id" env:"CLUB_FIREBASE_PROJECT_ID"`
	APIKey     string `toml:"api_key" env:"CLUB_FIREBASE_API_KEY"`
	AuthDomain string `toml:"auth_domain" env:"CLUB_FIREBASE_AUTH_DOMAIN"`
	// Collection is the member collection name in the store
	Collection string `toml:"collection" env:"CLUB_FIREBASE_COLLECTION"`
	// Endpoint overrides the Firestore/Identity Toolkit base URLs, used by
	// tests and local emulators
	AuthEndpoint  string `toml:"auth_endpoint" env:"CLUB_FIREBASE_AUTH_ENDPOINT"`
	StoreEndpoint string `toml:"store_endpoint" env:"CLUB_FIREBASE_STORE_ENDPOINT"`
}

type JWTConfig struct {
	Secret string `toml:"secret" env:"CLUB_JWT_SECRET"`
}

// AssetsConfig describes the letter artwork. Each logo has a primary and a
// fallback location; signatures fall back to omission.
type AssetsConfig struct {
	Dir               string `toml:"dir"`
	InstituteLogo     string `toml:"institute_logo"`
	InstituteLogoAlt  string `toml:"institute_logo_alt"`
	ClubLogo          string `toml:"club_logo"`
	ClubLogoAlt       string `toml:"club_logo_alt"`
	FacultySign       string `toml:"faculty_sign"`
	PresidentSign     string `toml:"president_sign"`
	VicePresidentSign string `toml:"vice_president_sign"`
}

type LetterConfig struct {
	// SettleDelayMS is the pause between the export surface finishing its load
	// and the print action, so embedded images and fonts finish painting.
	// Values below 1400 are raised to 1400.
	SettleDelayMS int    `toml:"settle_delay_ms" env:"CLUB_LETTER_SETTLE_DELAY_MS"`
	Tenure        string `toml:"tenure"`
}

type CacheConfig struct {
	Folder string `toml:"folder"`
	// ListingTTLMinutes bounds how long the member listing is served from
	// memory before a refetch
	ListingTTLMinutes int `toml:"listing_ttl_minutes"`
}

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Firebase FirebaseConfig `toml:"firebase"`
	JWT      JWTConfig      `toml:"jwt"`
	Assets   AssetsConfig   `toml:"assets"`
	Letter   LetterConfig   `toml:"letter"`
	Cache    CacheConfig    `toml:"cache"`
}

// MinSettleDelay is the minimum acceptable settle delay before printing
const MinSettleDelay = 1400 * time.Millisecond

func LoadConfig(filepath string) (*Config, error) {
	var config Config

	// Set default values
	config.Server.Port = 3000
	config.Server.DataDir = "./data"
	config.Firebase.Collection = "members"
	config.Firebase.AuthEndpoint = "https://identitytoolkit.googleapis.com/v1"
	config.Firebase.StoreEndpoint = "https://firestore.googleapis.com/v1"
	config.Assets.Dir = "./assets"
	config.Assets.InstituteLogo = "Logos/VITB_logo.png"
	config.Assets.InstituteLogoAlt = "VITB logo.png"
	config.Assets.ClubLogo = "Logos/GSOC Innovators Club Website.png"
	config.Assets.ClubLogoAlt = "GSOC Innovators Club Website.png"
	config.Assets.FacultySign = "Signs/Javed_Sir_Sign.jpg"
	config.Assets.PresidentSign = "Signs/Aarushi_Sign.jpg"
	config.Assets.VicePresidentSign = "Signs/Ashish_Sign.jpg"
	config.Letter.SettleDelayMS = 1400
	config.Letter.Tenure = "2025-26"
	config.Cache.Folder = "./cache"
	config.Cache.ListingTTLMinutes = 10

	// Load config file
	_, err := toml.DecodeFile(filepath, &config)
	if err != nil {
		return nil, err
	}

	// Environment variables override file values, so deployments can keep
	// the API key out of the config file
	if err := env.Parse(&config); err != nil {
		return nil, fmt.Errorf("error parsing environment config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the required connection parameters. A missing Identity
// Provider / Directory Store parameter is fatal at startup.
func (c *Config) Validate() error {
	if c.Firebase.ProjectID == "" {
		return fmt.Errorf("firebase project_id is required")
	}
	if c.Firebase.APIKey == "" {
		return fmt.Errorf("firebase api_key is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required")
	}
	return nil
}

// SettleDelay returns the configured settle delay, clamped to the minimum
func (c *Config) SettleDelay() time.Duration {
	d := time.Duration(c.Letter.SettleDelayMS) * time.Millisecond
	if d < MinSettleDelay {
		return MinSettleDelay
	}
	return d
}

// ListingTTL returns the member listing cache TTL
func (c *Config) ListingTTL() time.Duration {
	if c.Cache.ListingTTLMinutes <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(c.Cache.ListingTTLMinutes) * time.Minute
}
