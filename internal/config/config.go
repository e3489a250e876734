package config

import (
	"github.com/spf13/viper"
)

// Config holds all configuration values for the application, loaded from environment variables or config files.
// This struct centralizes configuration for maintainability and testability.
type Config struct {
	Port                 string // HTTP server port
	Env                  string // Application environment (e.g., development, production)
	GitHubClientID       string // GitHub OAuth client ID
	GitHubClientSecret   string // GitHub OAuth client secret
	GitHubRedirectURL    string // GitHub OAuth redirect URL
	DBUser               string // Database user
	DBPort               string // Database port
	DBHost               string // Database host
	DBName               string // Database name
	DBPassword           string // Database password
	DBMaxOpenConns       int    // Max open connections in the pool
	DBMaxIdleConns       int    // Max idle connections in the pool
	DBConnMaxLifetime    int    // Max connection lifetime in minutes
	DBConnMaxIdleTime    int    // Max connection idle time in minutes
	JWTSecret            string // Secret key for signing JWTs
	AccessTokenDuration  int    // Access token duration in minutes
	RefreshTokenDuration int    // Refresh token duration in minutes
	TokenCipherKey       string // Base64 AES-256 key for GitHub tokens at rest
	GitHubCacheTTL       int    // TTL for cached GitHub reads, in seconds
	PickerSessionTTL     int    // Idle lifetime of a radar picker session, in minutes
	MaxRadarsPerUser     int    // Limit metadata, enforced on radar creation
	MaxReposPerRadar     int    // Limit metadata, enforced on membership add
}

// Load reads configuration from the .env file and environment variables, returning a Config struct.
// This function enables flexible configuration for different environments (dev, prod, test).
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()
	viper.SetDefault("DB_USER", "reporadar_user")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PASSWORD", "reporadar")
	viper.SetDefault("DB_NAME", "reporadar")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", 30)     // minutes
	viper.SetDefault("DB_CONN_MAX_IDLE_TIME", 5)     // minutes
	viper.SetDefault("ACCESS_TOKEN_DURATION", 10)    // 10 minutes
	viper.SetDefault("REFRESH_TOKEN_DURATION", 1440) // 1 day in minutes
	viper.SetDefault("GITHUB_CACHE_TTL", 300)        // 5 minutes
	viper.SetDefault("PICKER_SESSION_TTL", 30)       // 30 minutes idle
	viper.SetDefault("MAX_RADARS_PER_USER", 20)
	viper.SetDefault("MAX_REPOS_PER_RADAR", 100)
	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	return &Config{
		Port:                 viper.GetString("PORT"),
		Env:                  viper.GetString("ENV"),
		GitHubClientID:       viper.GetString("GITHUB_CLIENT_ID"),
		GitHubClientSecret:   viper.GetString("GITHUB_CLIENT_SECRET"),
		GitHubRedirectURL:    viper.GetString("GITHUB_REDIRECT_URL"),
		DBUser:               viper.GetString("DB_USER"),
		DBPort:               viper.GetString("DB_PORT"),
		DBHost:               viper.GetString("DB_HOST"),
		DBName:               viper.GetString("DB_NAME"),
		DBPassword:           viper.GetString("DB_PASSWORD"),
		DBMaxOpenConns:       viper.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns:       viper.GetInt("DB_MAX_IDLE_CONNS"),
		DBConnMaxLifetime:    viper.GetInt("DB_CONN_MAX_LIFETIME"),
		DBConnMaxIdleTime:    viper.GetInt("DB_CONN_MAX_IDLE_TIME"),
		JWTSecret:            viper.GetString("JWT_SECRET"),
		AccessTokenDuration:  viper.GetInt("ACCESS_TOKEN_DURATION"),
		RefreshTokenDuration: viper.GetInt("REFRESH_TOKEN_DURATION"),
		TokenCipherKey:       viper.GetString("TOKEN_CIPHER_KEY"),
		GitHubCacheTTL:       viper.GetInt("GITHUB_CACHE_TTL"),
		PickerSessionTTL:     viper.GetInt("PICKER_SESSION_TTL"),
		MaxRadarsPerUser:     viper.GetInt("MAX_RADARS_PER_USER"),
		MaxReposPerRadar:     viper.GetInt("MAX_REPOS_PER_RADAR"),
	}, nil
}
