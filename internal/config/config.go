package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`
	Env      string `env:"APP_ENV" envDefault:"development"`

	DBType      string `env:"DB_TYPE" envDefault:"postgres"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:""`
	DBPath      string `env:"DB_PATH" envDefault:"datas/herbalog.db"`

	SessionSecret   string `env:"SESSION_SECRET" envDefault:"herbalog-dev-secret-change-me"`
	SessionTTLHours int    `env:"SESSION_TTL_HOURS" envDefault:"720"`
}

// IsProduction reports whether the process runs in production mode.
// Production turns on the Secure flag of the session cookie.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func ParseConfig() (Config, error) {
	var Conf Config
	err := env.Parse(&Conf)
	if err != nil {
		logrus.WithError(err).Error("env.Parse error")
		return Config{}, err
	}
	if Conf.DBType != "sqlite" && Conf.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL must be set for database type %q", Conf.DBType)
	}
	logrus.Debugf("%#v\n", Conf)
	return Conf, nil
}
