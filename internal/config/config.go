package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leighmacdonald/ctbans/internal/log"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var (
	ErrReadConfig   = errors.New("failed to read config file")
	ErrFormatConfig = errors.New("invalid config file format")
	ErrHomeDir      = errors.New("failed to locate home directory")
)

type General struct {
	// Prefix prepended to every chat line the plugin sends.
	MessagePrefix string `mapstructure:"message_prefix"`
	// Team name players are banned from joining.
	RestrictedTeam string `mapstructure:"restricted_team"`
}

type Database struct {
	DSN         string `mapstructure:"dsn"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
	LogQueries  bool   `mapstructure:"log_queries"`
}

// Commands holds the chat command words. Both are matched against the first
// whitespace separated token of a say message.
type Commands struct {
	Menu   string `mapstructure:"menu"`
	Status string `mapstructure:"status"`
}

// Permissions holds the names the host authorization system is queried with.
type Permissions struct {
	OpenMenu    string `mapstructure:"open_menu"`
	CheckStatus string `mapstructure:"check_status"`
}

type Configuration struct {
	General     General     `mapstructure:"general"`
	DB          Database    `mapstructure:"database"`
	Log         log.Config  `mapstructure:"log"`
	Commands    Commands    `mapstructure:"commands"`
	Permissions Permissions `mapstructure:"permissions"`
}

// Read reads the config file and ENV variables if set.
func Read(cfgFile string) (Configuration, error) {
	var config Configuration

	setDefaults()

	home, errHomeDir := homedir.Dir()
	if errHomeDir != nil {
		return config, errors.Join(errHomeDir, ErrHomeDir)
	}

	viper.AddConfigPath(home)
	viper.AddConfigPath(".")
	viper.SetConfigName("ctbans")
	viper.SetEnvPrefix("ctbans")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if errReadConfig := viper.ReadInConfig(); errReadConfig != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(errReadConfig, &notFound) {
			return config, fmt.Errorf("%w: %w", ErrReadConfig, errReadConfig)
		}
	}

	if errUnmarshal := viper.Unmarshal(&config); errUnmarshal != nil {
		return config, fmt.Errorf("%w: %w", ErrFormatConfig, errUnmarshal)
	}

	if strings.HasPrefix(config.DB.DSN, "pgx://") {
		config.DB.DSN = strings.Replace(config.DB.DSN, "pgx://", "postgres://", 1)
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("general.message_prefix", "[CTBAN] ")
	viper.SetDefault("general.restricted_team", "ct")

	viper.SetDefault("database.dsn", "postgresql://localhost/ctbans")
	viper.SetDefault("database.auto_migrate", true)
	viper.SetDefault("database.log_queries", false)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", "")
	viper.SetDefault("log.sentry_dsn", "")

	viper.SetDefault("commands.menu", "!ctban")
	viper.SetDefault("commands.status", "!is_banned")

	viper.SetDefault("permissions.open_menu", "ctban.open")
	viper.SetDefault("permissions.check_status", "ctban.status")
}
