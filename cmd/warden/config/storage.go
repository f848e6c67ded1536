package config

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/wardenhq/warden/storage"
	"github.com/wardenhq/warden/storage/model"
)

type storageConf struct {
	RecordsBackend storage.RecordsBackendType `yaml:"records_backend"`
	Driver         storage.DriverType         `yaml:"driver"`
	DataDir        string                     `yaml:"data_dir"`
	DSN            string                     `yaml:"dsn"`
	Debug          bool                       `yaml:"debug"`

	storage.DSNConf `yaml:",inline"`
}

func (c *storageConf) validate() error {
	if c.DataDir == "" {
		return errors.New("error in storage conf: data_dir must be specified")
	}
	if c.Driver == storage.DriverSQLite {
		return nil
	}
	var err error
	if c.DSN == "" {
		c.DSN, err = storage.DSN(c.Driver, c.DSNConf)
	}
	return err
}

var defaultStorageConf = storageConf{
	RecordsBackend: storage.RecordsBackendJSON,
	Driver:         storage.DriverSQLite,
	DSNConf: storage.DSNConf{
		User: "warden",
		Host: "localhost",
		DB:   "warden",
	},
	Debug: false,
}

// LoadStorageBackends loads and returns the storage backends for the passed Config
func LoadStorageBackends(c storageConf, hash storage.Argon2idParams) (model.Backends, error) {
	cfg := storage.Config{
		Driver:         c.Driver,
		DSN:            c.DSN,
		DataDir:        c.DataDir,
		RecordsBackend: c.RecordsBackend,
		Debug:          c.Debug,
		UsersHash:      hash,
	}
	backs, err := storage.LoadStorageBackends(cfg)
	if err != nil {
		return model.Backends{}, err
	}
	log.Info("Loaded storage backend")
	return backs, nil
}
