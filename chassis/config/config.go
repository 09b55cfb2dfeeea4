package config

import (
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

const (
	// EnvPrefix is the prefix of environment overrides (APP_RUNTIME__REGION=eu-west-1).
	EnvPrefix = "APP"
	// EnvSeparator separates nested keys inside an environment variable name.
	EnvSeparator = "__"

	defaultRecvWaitSecs = 10
)

// Mode - where the queue service lives
type Mode string

const (
	// ModeLocal targets a LocalStack endpoint with static credentials.
	ModeLocal Mode = "local"
	// ModeRemote targets the real service using the default credentials chain.
	ModeRemote Mode = "aws"
)

// AppConfig ...
type AppConfig struct {
	Runtime struct {
		Mode    Mode   `mapstructure:"mode"`
		Region  string `mapstructure:"region"`
		Profile string `mapstructure:"profile"`
	} `mapstructure:"runtime"`
	SQS struct {
		QueueName             string `mapstructure:"queue_name"`
		EndpointURL           string `mapstructure:"endpoint_url"`
		VisibilityTimeoutSecs *int   `mapstructure:"visibility_timeout_secs"`
		Fifo                  *bool  `mapstructure:"fifo"`
		ContentBasedDedup     *bool  `mapstructure:"content_based_dedup"`
		MaxRetries            *int   `mapstructure:"max_retries"`
	} `mapstructure:"sqs"`
	Recv struct {
		WaitSecs *int `mapstructure:"wait_secs"`
	} `mapstructure:"recv"`
	Storage struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"storage"`
	Metrics struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"metrics"`
}

// Load merges the root config, the optional lab config and the environment.
// Later sources override earlier ones key by key.
func Load(rootPath, labPath, envPrefix string) (*AppConfig, error) {
	sources := []Source{RootFile(rootPath)}
	if labPath != "" {
		sources = append(sources, LabFile(labPath))
	}
	sources = append(sources, Environment(envPrefix, os.Environ()))
	return Resolve(sources...)
}

// Resolve applies sources in order and decodes the result.
func Resolve(sources ...Source) (*AppConfig, error) {
	merged := map[string]interface{}{}
	for _, src := range sources {
		values, err := src.Values()
		if err != nil {
			return nil, err
		}
		overlay(merged, values)
	}
	cfg := &AppConfig{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(merged); err != nil {
		return nil, &Error{Kind: Invalid, Err: errors.Wrap(err, "deserializing config")}
	}
	if err := cfg.validate(); err != nil {
		return nil, &Error{Kind: Invalid, Err: err}
	}
	return cfg, nil
}

func (cfg *AppConfig) validate() error {
	cfg.Runtime.Region = strings.TrimSpace(cfg.Runtime.Region)
	if cfg.Runtime.Region == "" {
		return errors.New("runtime.region is required")
	}
	switch Mode(strings.ToLower(string(cfg.Runtime.Mode))) {
	case "", ModeRemote, "remote":
		cfg.Runtime.Mode = ModeRemote
	case ModeLocal:
		cfg.Runtime.Mode = ModeLocal
	default:
		return errors.Errorf("runtime.mode must be local or aws (got: %s)", cfg.Runtime.Mode)
	}
	return nil
}

// RecvWaitSecs - long poll duration for receive loops
func (cfg *AppConfig) RecvWaitSecs() int {
	if cfg.Recv.WaitSecs == nil {
		return defaultRecvWaitSecs
	}
	return *cfg.Recv.WaitSecs
}

// UsesStaticCredentials reports whether the client should skip the credentials chain.
func (cfg *AppConfig) UsesStaticCredentials() bool {
	return cfg.Runtime.Mode == ModeLocal || cfg.SQS.EndpointURL != ""
}

func overlay(dst, src map[string]interface{}) {
	for key, value := range src {
		srcMap, srcIsMap := value.(map[string]interface{})
		dstMap, dstIsMap := dst[key].(map[string]interface{})
		if srcIsMap && dstIsMap {
			overlay(dstMap, srcMap)
			continue
		}
		if srcIsMap {
			copied := map[string]interface{}{}
			overlay(copied, srcMap)
			dst[key] = copied
			continue
		}
		dst[key] = value
	}
}
