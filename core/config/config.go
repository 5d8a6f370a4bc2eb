package config

import (
	"reflect"
	"strings"

	"stream-sync/core/database"
	"stream-sync/core/logger"
	"stream-sync/core/server"
	"stream-sync/core/storage"
	"stream-sync/feature/catalog"
	"stream-sync/feature/mediaserver"
	"stream-sync/feature/sync"
	"stream-sync/feature/vault"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the poster object storage.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Catalog holds configuration for the streaming catalog API.
	Catalog catalog.Config `mapstructure:"catalog"`
	// MediaServer holds the configured Jellyfin instances.
	MediaServer mediaserver.Config `mapstructure:"mediaserver"`
	// Sync holds the field policy and filename templates.
	Sync sync.Config `mapstructure:"sync"`
	// Vault holds configuration for the markdown document vault.
	Vault vault.Config `mapstructure:"vault"`
}

// LoadConfig loads configuration from environment variables, an optional
// .env file, and an optional config.yaml. Scalar settings come from the
// environment; list-valued settings (media server instances, streaming
// services to sync) can only be expressed in the YAML file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	// The config file is optional; env vars alone are a valid setup.
	_ = v.ReadInConfig()

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values
// in Viper based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		switch field.Type.Kind() {
		case reflect.Struct:
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		case reflect.Slice, reflect.Map:
			// Lists and maps have no scalar default; they come from the
			// YAML file only.
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
