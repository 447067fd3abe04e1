package service

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/gissleh/predpatt"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	StorageJSON   = "json"
	StorageSource = "source"

	DefaultListen   = "localhost:8080"
	DefaultCacheTTL = 24 * time.Hour
)

type Config struct {
	Listen   string           `yaml:"listen"`
	Workers  int              `yaml:"workers"`
	ReadOnly bool             `yaml:"read_only"`
	Storage  StorageConfig    `yaml:"storage"`
	Redis    *RedisConfig     `yaml:"redis"`
	Options  predpatt.Options `yaml:"options"`
}

type StorageConfig struct {
	// Kind is StorageJSON for a single compiled file, or StorageSource for a directory of CoNLL-U files.
	Kind string `yaml:"kind"`
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
}

// LoadConfig reads a yaml config file. Options missing from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	conf := &Config{Options: predpatt.DefaultOptions()}
	if err := yaml.NewDecoder(f).Decode(conf); err != nil {
		return nil, fmt.Errorf("could not read config %s: %w", path, err)
	}

	return conf, nil
}

// ValidateAndDefaults fills in missing values, logging each default it takes.
func (conf *Config) ValidateAndDefaults(logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	if conf.Listen == "" {
		conf.Listen = DefaultListen
		logger.Warn("Listen address not specified, using default", zap.String("listen", conf.Listen))
	}
	if conf.Workers <= 0 {
		conf.Workers = runtime.NumCPU()
		logger.Warn("Worker count not specified, using the number of CPUs", zap.Int("workers", conf.Workers))
	}

	switch conf.Storage.Kind {
	case "":
		conf.Storage.Kind = StorageSource
		logger.Warn("Storage kind not specified, using default", zap.String("kind", conf.Storage.Kind))
	case StorageJSON, StorageSource:
	default:
		return fmt.Errorf("unknown storage kind %q", conf.Storage.Kind)
	}
	if conf.Storage.Path == "" {
		return errors.New("storage path must be specified")
	}

	if conf.Redis != nil {
		if conf.Redis.Addr == "" {
			return errors.New("redis address must be specified")
		}
		if conf.Redis.Prefix == "" {
			conf.Redis.Prefix = "predpatt"
			logger.Warn("Redis key prefix not specified, using default", zap.String("prefix", conf.Redis.Prefix))
		}
		if conf.Redis.TTL <= 0 {
			conf.Redis.TTL = DefaultCacheTTL
			logger.Warn("Redis cache TTL not specified, using default", zap.Duration("ttl", conf.Redis.TTL))
		}
	}

	if conf.Options.UD == "" {
		conf.Options.UD = predpatt.UDv1
	}

	return conf.Options.Validate()
}
