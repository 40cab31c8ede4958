package core

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/wayfinder-ai/wayfinder/app/core/srv"
)

func MustLoadBaseConfig(path string) CoreConfig {
	if path == "" {
		return LoadBaseConfigFromENV()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	conf := &CoreConfig{}
	conf.SetConfigBytes(raw)

	if err = toml.Unmarshal(raw, conf); err != nil {
		panic(err)
	}

	return *conf
}

func (c CoreConfig) LoadCustomConfig(cfg any) error {
	if len(c.bytes) == 0 {
		return nil
	}
	if err := toml.Unmarshal(c.bytes, cfg); err != nil {
		return err
	}
	return nil
}

func LoadBaseConfigFromENV() CoreConfig {
	var c CoreConfig
	c.FromENV()
	return c
}

type CoreConfig struct {
	Addr          string              `toml:"addr"`
	Log           Log                 `toml:"log"`
	Postgres      PGConfig            `toml:"postgres"`
	ObjectStorage ObjectStorageDriver `toml:"object_storage"`

	AI       srv.AIConfig   `toml:"ai"`
	Research ResearchConfig `toml:"research"`

	Assistant AssistantConfig `toml:"assistant"`
	Retention RetentionConfig `toml:"retention"`

	bytes []byte `toml:"-"`
}

type ObjectStorageDriver struct {
	StaticDomain string    `toml:"static_domain"`
	Driver       string    `toml:"driver"`
	S3           *S3Config `toml:"s3"`
}

type S3Config struct {
	Bucket    string `toml:"bucket"`
	Region    string `toml:"region"`
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
}

type ResearchConfig struct {
	Endpoint       string `toml:"endpoint"`
	Token          string `toml:"token"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type AssistantConfig struct {
	// MaxScreenshots caps screenshot captures per assistant message.
	MaxScreenshots int `toml:"max_screenshots"`
}

type RetentionConfig struct {
	// Days of conversation history to keep. Zero disables the cleanup job.
	Days     int    `toml:"days"`
	CronSpec string `toml:"cron_spec"`
}

func (c *CoreConfig) SetConfigBytes(raw []byte) {
	c.bytes = raw
}

func (c *CoreConfig) FromENV() {
	c.Addr = os.Getenv("WAYFINDER_API_SERVICE_ADDRESS")
	c.Log.FromENV()
	c.Postgres.FromENV()
	c.AI.Token = os.Getenv("WAYFINDER_AI_TOKEN")
	c.AI.Endpoint = os.Getenv("WAYFINDER_AI_ENDPOINT")
	c.Research.Endpoint = os.Getenv("WAYFINDER_RESEARCH_ENDPOINT")
	c.Research.Token = os.Getenv("WAYFINDER_RESEARCH_TOKEN")
	if days := os.Getenv("WAYFINDER_RETENTION_DAYS"); days != "" {
		if v, err := strconv.Atoi(days); err == nil {
			c.Retention.Days = v
		}
	}
}

type PGConfig struct {
	DSN string `toml:"dsn"`
}

func (m *PGConfig) FromENV() {
	m.DSN = os.Getenv("WAYFINDER_API_POSTGRESQL_DSN")
}

func (c PGConfig) FormatDSN() string {
	return c.DSN
}

type Log struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

func (l *Log) FromENV() {
	l.Level = os.Getenv("WAYFINDER_API_LOG_LEVEL")
	l.Path = os.Getenv("WAYFINDER_API_LOG_PATH")
}

func (l *Log) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}
