// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"io/ioutil"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v2"
)

// Config is the global configuration file.  A typical file looks
// like
//
//     owner: ops
//     header_limit: 8192
//     page_size: 50
//     cache_size: 512
//     extensions:
//       - /etc/occi/example.yaml
type Config struct {
	// Owner is recorded on every entity the server creates.
	Owner string `mapstructure:"owner"`

	// HeaderLimit is the largest text/occi header the server
	// parses, in bytes.  Zero uses the codec default.
	HeaderLimit int `mapstructure:"header_limit"`

	// PageSize is the default collection page size.
	PageSize int `mapstructure:"page_size"`

	// Extensions lists YAML extension files to install after the
	// standard ones.
	Extensions []string `mapstructure:"extensions"`

	// CacheSize is the number of category lookups cached.
	CacheSize int `mapstructure:"cache_size"`
}

func loadConfigYaml(filename string) (Config, error) {
	var (
		config Config
		raw    map[string]interface{}
	)
	bytes, err := ioutil.ReadFile(filename)
	if err == nil {
		err = yaml.Unmarshal(bytes, &raw)
	}
	if err != nil {
		return config, err
	}
	return decodeConfig(raw)
}

func decodeConfig(raw map[string]interface{}) (Config, error) {
	var config Config
	decoderConfig := mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &config,
	}
	decoder, err := mapstructure.NewDecoder(&decoderConfig)
	if err == nil {
		err = decoder.Decode(raw)
	}
	return config, err
}
