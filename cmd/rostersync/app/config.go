package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/rostersync/internal/cmd/application"
	"github.com/agentstation/rostersync/internal/sources/brightspace"
	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/errors"
)

// Configuration keys.
const (
	keyBaseURL          = "bspace_url"
	keyAuthService      = "auth_service"
	keyClientID         = "client_id"
	keyClientSecret     = "client_secret"
	keyRefreshToken     = "refresh_token"
	keyOutputRoot       = "output_root"
	keySystemUser       = "system_user"
	keyLeafOrganization = "leaf_organization"
	keyLeafType         = "leaf_type"
	keyLeafExpression   = "leaf_expression"
	keyLogLevel         = "log_level"
	keyLogFormat        = "log_format"
	keyLogOutput        = "log_output"
)

// envPrefix prefixes every environment variable read by viper.
const envPrefix = "ROSTERSYNC"

// configName is the config file name searched in $HOME and the working directory.
const configName = ".rostersync"

// Config holds the application configuration loaded from the config file,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file; ConfigFile is the file in use, if any
	ConfigFile string

	Brightspace brightspace.Config
	Settings    application.Settings

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string

	v *viper.Viper
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (handled by cobra)
//  2. Environment variables (ROSTERSYNC_*, plus BRIGHTSPACE_* for credentials)
//  3. .env files
//  4. Config file (~/.rostersync.yaml or --config)
//  5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := bindBrightspaceEnv(v); err != nil {
		return nil, err
	}

	defaults := application.DefaultSettings()
	v.SetDefault(keyAuthService, constants.DefaultAuthService)
	v.SetDefault(keyOutputRoot, defaults.OutputRoot)
	v.SetDefault(keySystemUser, defaults.SystemUser)
	v.SetDefault(keyLeafOrganization, defaults.LeafOrganization)
	v.SetDefault(keyLeafType, defaults.LeafType)
	v.SetDefault(keyLogFormat, "auto")
	v.SetDefault(keyLogOutput, "stderr")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "cannot read "+configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(configName)

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.NewConfigError("config", "cannot parse config file", err)
			}
		}
	}

	return &Config{
		ConfigFile: v.ConfigFileUsed(),
		Brightspace: brightspace.Config{
			BaseURL:      v.GetString(keyBaseURL),
			AuthService:  v.GetString(keyAuthService),
			ClientID:     v.GetString(keyClientID),
			ClientSecret: v.GetString(keyClientSecret),
			RefreshToken: v.GetString(keyRefreshToken),
		},
		Settings: application.Settings{
			OutputRoot:       v.GetString(keyOutputRoot),
			SystemUser:       v.GetString(keySystemUser),
			LeafOrganization: v.GetString(keyLeafOrganization),
			LeafType:         v.GetString(keyLeafType),
			LeafExpression:   v.GetString(keyLeafExpression),
		},
		LogLevel:  v.GetString(keyLogLevel),
		LogFormat: v.GetString(keyLogFormat),
		LogOutput: v.GetString(keyLogOutput),
		v:         v,
	}, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags so flag values take
// precedence over the config file and environment.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// SaveRefreshToken stores a rotated refresh token. Brightspace refresh
// tokens are single use, so the next fetch fails if this is lost. Without a
// config file in use, ~/.rostersync.yaml is created.
func (c *Config) SaveRefreshToken(token string) error {
	c.Brightspace.RefreshToken = token
	c.v.Set(keyRefreshToken, token)

	if c.ConfigFile != "" {
		if err := c.v.WriteConfig(); err != nil {
			return errors.WrapIO("write", c.ConfigFile, err)
		}
		return os.Chmod(c.ConfigFile, constants.SecureFilePermissions)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return errors.NewConfigError("config", "cannot locate home directory", err)
	}
	path := filepath.Join(home, configName+".yaml")
	if err := c.v.WriteConfigAs(path); err != nil {
		return errors.WrapIO("write", path, err)
	}
	c.ConfigFile = path
	return os.Chmod(path, constants.SecureFilePermissions)
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// .env.local overrides .env
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// bindBrightspaceEnv lets the credentials come from BRIGHTSPACE_* as well as
// the ROSTERSYNC_ prefixed names.
func bindBrightspaceEnv(v *viper.Viper) error {
	bindings := map[string]string{
		keyBaseURL:      "BRIGHTSPACE_URL",
		keyAuthService:  "BRIGHTSPACE_AUTH_SERVICE",
		keyClientID:     "BRIGHTSPACE_CLIENT_ID",
		keyClientSecret: "BRIGHTSPACE_CLIENT_SECRET",
		keyRefreshToken: "BRIGHTSPACE_REFRESH_TOKEN",
	}
	for key, env := range bindings {
		prefixed := envPrefix + "_" + strings.ToUpper(key)
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return errors.NewConfigError("config", "cannot bind "+env, err)
		}
	}
	return nil
}
