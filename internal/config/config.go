package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string `yaml:"log-level" env-default:"info"`
	HTTPPort   string `yaml:"http-port" env-default:"9090"`
	SocketPort string `yaml:"socket-port" env-default:"9091"`

	// GameTTL bounds how long an untouched live game survives in hot
	// storage before it silently expires.
	GameTTL time.Duration `yaml:"game-ttl" env-default:"30m"`

	Redis   Redis   `yaml:"redis"`
	Archive Archive `yaml:"archive"`
}

type Redis struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"6379"`
}

type Archive struct {
	SQLitePath    string `yaml:"sqlite-path" env-default:"noughts.db"`
	PurgeSchedule string `yaml:"purge-schedule" env-default:"0 3 * * *"`
	RetentionDays int    `yaml:"retention-days" env-default:"30"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

// RetentionAge converts the configured retention days into the age the
// janitor prunes by.
func (that *Archive) RetentionAge() time.Duration {
	return time.Duration(that.RetentionDays) * 24 * time.Hour
}
