package config

import (
	"os"
	"reflect"
	"strings"
)

type ClientType string

const (
	Memory      ClientType = "memory"
	TimescaleDB ClientType = "timescaledb"
)

type ClientConfig struct {
	Type    ClientType `toml:"type" yaml:"type"`
	Dataset string     `toml:"dataset" yaml:"dataset"`
}

type PostgreSQLConfig struct {
	Connection string `toml:"connection" yaml:"connection"`
	Password   string `toml:"password" yaml:"password"`
}

type StatsConfig struct {
	Enabled *bool `toml:"enabled" yaml:"enabled"`
	Port    uint  `toml:"port" yaml:"port"`
}

type EncodingConfig struct {
	CustomReflection *bool `toml:"customreflection" yaml:"customreflection"`
}

type Config struct {
	Client     ClientConfig     `toml:"client" yaml:"client"`
	PostgreSQL PostgreSQLConfig `toml:"postgresql" yaml:"postgresql"`
	Logging    LoggerConfig     `toml:"logging" yaml:"logging"`
	Stats      StatsConfig      `toml:"stats" yaml:"stats"`
	Encoding   EncodingConfig   `toml:"encoding" yaml:"encoding"`
}

type LoggerConfig struct {
	Level   string                     `toml:"level" yaml:"level"`
	Outputs LoggerOutputConfig         `toml:"output" yaml:"output"`
	Loggers map[string]SubLoggerConfig `toml:"loggers" yaml:"loggers"`
}

type LoggerOutputConfig struct {
	Console LoggerConsoleConfig `toml:"console" yaml:"console"`
	File    LoggerFileConfig    `toml:"file" yaml:"file"`
}

type SubLoggerConfig struct {
	Level   *string            `toml:"level" yaml:"level"`
	Outputs LoggerOutputConfig `toml:"output" yaml:"output"`
}

type LoggerConsoleConfig struct {
	Enabled *bool `toml:"enabled" yaml:"enabled"`
}

type LoggerFileConfig struct {
	Enabled     *bool   `toml:"enabled" yaml:"enabled"`
	Path        string  `toml:"path" yaml:"path"`
	Rotate      *bool   `toml:"rotate" yaml:"rotate"`
	MaxSize     *string `toml:"maxsize" yaml:"maxsize"`
	MaxDuration *int    `toml:"maxduration" yaml:"maxduration"`
	Compress    bool    `toml:"compress" yaml:"compress"`
}

// environment variables override file properties, prefixed and
// uppercased: client.type becomes BQO_CLIENT_TYPE, literal
// underscores are doubled
const envVarPrefix = "BQO_"

func GetOrDefault[V any](config *Config, canonicalProperty string, defaultValue V) V {
	if env, found := findEnvProperty(canonicalProperty, defaultValue); found {
		return env
	}

	properties := strings.Split(canonicalProperty, ".")

	element := reflect.ValueOf(*config)
	for _, property := range properties {
		if e, ok := findProperty(element, property); ok {
			element = e
		} else {
			return defaultValue
		}
	}

	if !element.IsZero() &&
		!(element.Kind() == reflect.Ptr && element.IsNil()) {

		if element.Kind() == reflect.Ptr {
			element = element.Elem()
		}

		return element.Convert(reflect.TypeOf(defaultValue)).Interface().(V)
	}
	return defaultValue
}

func findEnvProperty[V any](canonicalProperty string, defaultValue V) (V, bool) {
	t := reflect.TypeOf(defaultValue)

	envVarName := strings.ToUpper(canonicalProperty)
	envVarName = strings.ReplaceAll(envVarName, "_", "__")
	envVarName = envVarPrefix + strings.ReplaceAll(envVarName, ".", "_")
	if val, ok := os.LookupEnv(envVarName); ok {
		v := reflect.ValueOf(val)
		cv := v.Convert(t)
		if !cv.IsZero() &&
			!(cv.Kind() == reflect.Ptr && cv.IsNil()) {
			return cv.Interface().(V), true
		}
	}
	return defaultValue, false
}

func findProperty(element reflect.Value, property string) (reflect.Value, bool) {
	t := element.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" && !f.Anonymous {
			continue
		}

		if f.Tag.Get("toml") == property {
			return element.Field(i), true
		}
	}
	return reflect.Value{}, false
}
