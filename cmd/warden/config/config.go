// Package config loads and validates the warden service configuration.
package config

import (
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/zachmann/go-utils/duration"
	"github.com/zachmann/go-utils/fileutils"
	"gopkg.in/yaml.v3"

	"github.com/wardenhq/warden"
	"github.com/wardenhq/warden/engine"
)

// Config holds the complete configuration under one yaml document.
type Config struct {
	Server        warden.ServerConf       `yaml:"server"`
	Logging       loggingConf             `yaml:"logging"`
	Storage       storageConf             `yaml:"storage"`
	API           apiConf                 `yaml:"api"`
	Policies      policiesConf            `yaml:"policies"`
	Delivery      deliveryConf            `yaml:"delivery"`
	Assistance    assistanceConf          `yaml:"assistance"`
	Membership    warden.MembershipConf   `yaml:"membership"`
	DM            warden.DMConf           `yaml:"dm"`
	Discipline    engine.DisciplineConfig `yaml:"discipline"`
	Superuser     string                  `yaml:"superuser"`
	SweepInterval duration.DurationOption `yaml:"sweep_interval"`
}

var conf *Config

// Get returns the loaded Config.
func Get() *Config {
	return conf
}

var possibleConfigLocations = []string{
	"config.yaml",
	"/etc/warden/config.yaml",
}

// Load reads the config file, applies defaults and validates every
// section. Errors are fatal; the service cannot run misconfigured.
func Load(file string) {
	if file == "" {
		for _, l := range possibleConfigLocations {
			if fileutils.FileExists(l) {
				file = l
				break
			}
		}
	}
	if file == "" {
		log.Fatal("no config file found")
	}
	data, err := os.ReadFile(file)
	if err != nil {
		log.WithError(err).Fatal("could not read config file")
	}
	c := defaultConfig()
	if err = yaml.Unmarshal(data, &c); err != nil {
		log.WithError(err).Fatal("could not parse config file")
	}
	if err = c.validate(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}
	conf = &c
}

func defaultConfig() Config {
	return Config{
		Server:  warden.ServerConf{Port: 8365},
		Logging: defaultLoggingConf,
		Storage: defaultStorageConf,
		API:     defaultAPIConf,
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 {
		return errors.New("error in server conf: port must be positive")
	}
	if err := c.Logging.validate(); err != nil {
		return err
	}
	if err := c.Storage.validate(); err != nil {
		return err
	}
	if err := c.Policies.validate(); err != nil {
		return err
	}
	return nil
}
