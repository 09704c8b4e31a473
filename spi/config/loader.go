/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements. See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License. You may obtain a copy of the License at
 *
 *    http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-errors/errors"
	"gopkg.in/yaml.v3"
)

// Format identifies the serialization format of a configuration
// document.
type Format string

const (
	FormatToml Format = "toml"
	FormatYaml Format = "yaml"
)

var unmarshallers = map[Format]func(content []byte, v any) error{
	FormatToml: toml.Unmarshal,
	FormatYaml: yaml.Unmarshal,
}

// FormatOf derives the configuration format from a file name.
// Extensions other than .toml are treated as YAML.
func FormatOf(
	path string,
) Format {

	if strings.ToLower(filepath.Ext(path)) == ".toml" {
		return FormatToml
	}
	return FormatYaml
}

// Unmarshall decodes a configuration document of the given format
// into config.
func Unmarshall(
	content []byte, format Format, config *Config,
) error {

	unmarshaller, present := unmarshallers[format]
	if !present {
		return errors.Errorf("unsupported configuration format: %s", format)
	}
	return unmarshaller(content, config)
}

// LoadConfig reads and parses a configuration file, dispatching
// on the file extension. Missing client type defaults to the
// in-process memory client.
func LoadConfig(
	path string,
) (*Config, error) {

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}

	config := &Config{}
	if err := Unmarshall(content, FormatOf(path), config); err != nil {
		return nil, errors.Wrap(err, 0)
	}

	ApplyDefaults(config)
	return config, nil
}

func ApplyDefaults(
	config *Config,
) {

	if config.Client.Type == "" {
		config.Client.Type = Memory
	}
	if config.Client.Dataset == "" {
		config.Client.Dataset = "public"
	}
	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
}
