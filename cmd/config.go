package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/josephgoksu/tasktrack/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configName = ".tasktrack"
	envPrefix  = "TASKTRACK"
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// validate is a single instance of Validate, it caches struct info
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// validateAppConfig performs validation on the AppConfig struct.
func validateAppConfig(config *types.AppConfig) error {
	return validate.Struct(config)
}

// setConfigDefaults registers the default value of every known key.
func setConfigDefaults() {
	viper.SetDefault("verbose", false)
	viper.SetDefault("log.level", "warn")
	viper.SetDefault("log.timestamps", false)

	viper.SetDefault("storage.backend", "text")
	viper.SetDefault("storage.dir", "")
	viper.SetDefault("storage.usersFile", "users.txt")
	viper.SetDefault("storage.tasksFile", "tasks.txt")
	viper.SetDefault("storage.database", "tasktrack.db")
	viper.SetDefault("storage.lock", true)

	viper.SetDefault("policy.enforceOwnership", false)
}

// bindFlags maps persistent flags onto their configuration keys.
func bindFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("storage.backend", flags.Lookup("backend"))
	_ = viper.BindPFlag("storage.dir", flags.Lookup("data-dir"))
	_ = viper.BindPFlag("policy.enforceOwnership", flags.Lookup("enforce-ownership"))
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	// It's okay if .env doesn't exist.
	_ = godotenv.Load()

	bindFlags(rootCmd)

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %s\n", err)
		os.Exit(1)
	}
	GlobalAppConfig = cfg
}

// loadConfig resolves env, config file and defaults into a validated AppConfig.
func loadConfig() (types.AppConfig, error) {
	// Environment handling must be set up before reading the config file.
	viper.SetEnvPrefix(envPrefix)                          // e.g., TASKTRACK_VERBOSE
	viper.AutomaticEnv()                                   // Read in environment variables that match
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // storage.dir -> TASKTRACK_STORAGE_DIR

	if cfgFileFlag := viper.GetString("config"); cfgFileFlag != "" {
		viper.SetConfigFile(cfgFileFlag)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if viper.GetString("config") != "" || !os.IsNotExist(err) {
				return types.AppConfig{}, fmt.Errorf("reading config file %s: %w", viper.ConfigFileUsed(), err)
			}
		}
	}

	setConfigDefaults()

	var cfg types.AppConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.AppConfig{}, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := validateAppConfig(&cfg); err != nil {
		return types.AppConfig{}, fmt.Errorf("validation: %w", err)
	}
	return cfg, nil
}

// GetConfig returns a pointer to the global types.AppConfig instance.
func GetConfig() *types.AppConfig {
	return &GlobalAppConfig
}
