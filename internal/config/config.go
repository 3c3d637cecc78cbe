package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const envPrefix = "SIPCALL"

// Storage backends understood by storage.Open.
const (
	BackendMemory    = "memory"
	BackendSQLite    = "sqlite"
	BackendPostgres  = "postgres"
	BackendFirestore = "firestore"
)

type Config struct {
	Port string

	StorageBackend   string // "memory", "sqlite", "postgres" o "firestore"
	StorageDSN       string // file path for sqlite, connection string for postgres
	FirestoreProject string

	BusyPolicy  string // "reject" or "preempt"
	StrictInput bool   // apply the form rules of the mobile app to contacts

	LogLevel  string
	LogFormat string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.port", "8080")
	v.SetDefault("storage.backend", BackendSQLite)
	v.SetDefault("storage.dsn", "sipcall.db")
	v.SetDefault("firestore.project", "")
	v.SetDefault("session.busy_policy", "reject")
	v.SetDefault("directory.strict_input", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load builds the config from defaults, an optional YAML file and SIPCALL_*
// env vars, in increasing priority. With an empty path, sipcall.yaml in the
// working directory is used if present.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
	} else {
		v.SetConfigName("sipcall")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "failed to read sipcall.yaml")
			}
		}
	}

	cfg := &Config{
		Port:             v.GetString("http.port"),
		StorageBackend:   strings.ToLower(v.GetString("storage.backend")),
		StorageDSN:       v.GetString("storage.dsn"),
		FirestoreProject: v.GetString("firestore.project"),
		BusyPolicy:       strings.ToLower(v.GetString("session.busy_policy")),
		StrictInput:      v.GetBool("directory.strict_input"),
		LogLevel:         v.GetString("log.level"),
		LogFormat:        strings.ToLower(v.GetString("log.format")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendMemory:
	case BackendSQLite, BackendPostgres:
		if c.StorageDSN == "" {
			return errors.Errorf("storage.dsn must be set for the %s backend", c.StorageBackend)
		}
	case BackendFirestore:
		if c.FirestoreProject == "" {
			return errors.New("firestore.project must be set for the firestore backend")
		}
	default:
		return errors.Errorf("unknown storage backend %q", c.StorageBackend)
	}

	switch c.BusyPolicy {
	case "reject", "preempt":
	default:
		return errors.Errorf("unknown session.busy_policy %q", c.BusyPolicy)
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		return errors.Errorf("unknown log.format %q", c.LogFormat)
	}

	if c.Port == "" {
		return errors.New("http.port must not be empty")
	}
	return nil
}
