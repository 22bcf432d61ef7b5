// Package config handles input from etc/*.toml files and the environment.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is the prefix of all environment overrides, e.g. CASTBOARD_WEBSERVER_PORT.
	EnvPrefix = "CASTBOARD"

	// EnvConfigJSON holds a JSON document merged over the file and env config.
	EnvConfigJSON = "CASTBOARD_CONFIG_JSON"

	mainConfigFile = "main.toml"
	redacted       = "***"
)

// ReadConfig from config file and environment.
// path is the directory holding main.toml. If path is empty ./etc/ is used
// and a missing file is not an error.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
		explicit      = path != ""
	)

	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// well known env names used by container platforms
	_ = v.BindEnv("webserver.port", EnvPrefix+"_WEBSERVER_PORT", "PORT")
	_ = v.BindEnv("db.dsn", EnvPrefix+"_DB_DSN", "DATABASE_URL")
	_ = v.BindEnv("auth.jwtsecret", EnvPrefix+"_AUTH_JWTSECRET", "JWT_SECRET")

	// Read main configuration
	file := filepath.Join(path, mainConfigFile)
	if _, err = os.Stat(file); err == nil {
		v.SetConfigFile(file)

		if err = v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrap(err, "failed to read main config file")
		}
	} else if explicit {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err = v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode config")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("title", "castboard")
	v.SetDefault("devmode", false)

	v.SetDefault("webserver.port", 9000) //nolint:mnd
	v.SetDefault("webserver.url", "http://localhost:9000")
	v.SetDefault("webserver.shutdowntime", 5)          //nolint:mnd
	v.SetDefault("webserver.bodylimit", 100*1024*1024) //nolint:mnd
	v.SetDefault("webserver.corsorigins", []string{})
	v.SetDefault("webserver.disablerecover", false)

	v.SetDefault("db.gormengine", "sqlite")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.path", "castboard.db")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 0)
	v.SetDefault("db.user", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "castboard")
	v.SetDefault("db.extras", "")

	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.tokenttl", 24*time.Hour) //nolint:mnd
	v.SetDefault("auth.header", "token")

	v.SetDefault("upload.backend", "disk")
	v.SetDefault("upload.timeout", 5*time.Minute)      //nolint:mnd
	v.SetDefault("upload.maximagebytes", 10*1024*1024) //nolint:mnd
	v.SetDefault("upload.maxmediabytes", 0)
	v.SetDefault("upload.disk.dir", "./uploads")
	v.SetDefault("upload.disk.urlprefix", "/uploads")
	v.SetDefault("upload.s3.endpoint", "")
	v.SetDefault("upload.s3.accesskey", "")
	v.SetDefault("upload.s3.secretkey", "")
	v.SetDefault("upload.s3.bucket", "")
	v.SetDefault("upload.s3.region", "")
	v.SetDefault("upload.s3.publicurl", "")

	v.SetDefault("seed.adminname", "")
	v.SetDefault("seed.adminemail", "")
	v.SetDefault("seed.adminpassword", "")

	v.SetDefault("log.loglevel", "info")
	v.SetDefault("log.appname", "castboard")
	v.SetDefault("log.servicename", "castboard")
	v.SetDefault("log.enableaccesslogtoconsole", true)
	v.SetDefault("log.reportcaller", false)
	v.SetDefault("log.disablecheckalive", true)
	v.SetDefault("log.slowquerythreshold", 200*time.Millisecond) //nolint:mnd
	v.SetDefault("log.console.enabled", true)
	v.SetDefault("log.console.useconsolewriter", false)
	v.SetDefault("log.file.enabled", false)
	v.SetDefault("log.file.path", "./logs")
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read json config override")
	}

	return c, nil
}

// Redacted returns a copy of the config with all secrets masked.
func (c *Config) Redacted() Config {
	out := *c

	mask := func(s *string) {
		if *s != "" {
			*s = redacted
		}
	}

	mask(&out.DB.Password)
	mask(&out.DB.DSN)
	mask(&out.Auth.JWTSecret)
	mask(&out.Upload.S3.SecretKey)
	mask(&out.Seed.AdminPassword)

	return out
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate minimal config settings.
// Secrets have no defaults, so a missing token secret stops the start.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Auth.JWTSecret == "" {
		return errors.Wrap(ErrEmptyJWTSecret, invalidErrMessage)
	}

	switch strings.ToLower(c.DB.GormEngine) {
	case EnginePostgres, EngineMySQL, EngineSQLite:
	default:
		return errors.Wrap(ErrUnknownGormEngine, invalidErrMessage)
	}

	switch c.Upload.Backend {
	case UploadBackendDisk:
	case UploadBackendS3:
		s3 := c.Upload.S3
		if s3.Endpoint == "" || s3.AccessKey == "" || s3.SecretKey == "" || s3.Bucket == "" {
			return errors.Wrap(ErrIncompleteS3, invalidErrMessage)
		}
	default:
		return errors.Wrap(ErrUnknownUploadBackend, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5 // set default of 5 seconds
	}

	if c.Auth.Header == "" {
		c.Auth.Header = "token"
	}

	return nil
}
