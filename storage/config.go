package storage

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wardenhq/warden/storage/model"
)

// DriverType represents the type of database driver
type DriverType string

const (
	// DriverSQLite is the SQLite driver
	DriverSQLite DriverType = "sqlite"
	// DriverMySQL is the MySQL driver
	DriverMySQL DriverType = "mysql"
	// DriverPostgres is the PostgreSQL driver
	DriverPostgres DriverType = "postgres"
)

var SupportedDrivers = []DriverType{
	DriverSQLite,
	DriverMySQL,
	DriverPostgres,
}

// RecordsBackendType selects the backend used for the timed status record
// store. The relational database only holds audit events, authorization
// levels and admin users; records live in their own store.
type RecordsBackendType string

const (
	// RecordsBackendJSON stores records as whole-file JSON per policy kind
	RecordsBackendJSON RecordsBackendType = "json"
	// RecordsBackendBadger stores records in a Badger key-value database
	RecordsBackendBadger RecordsBackendType = "badger"
)

// DSN creates and returns a dsn connection string for the passed DriverType and DSNConf
func DSN(driver DriverType, conf DSNConf) (string, error) {
	switch driver {
	case DriverSQLite:
		return "", errors.Errorf("driver %s does not use dsn", driver)
	case DriverMySQL:
		if conf.Port == 0 {
			conf.Port = 3306
		}
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True", conf.User, conf.Password, conf.Host, conf.Port,
			conf.DB,
		), nil
	case DriverPostgres:
		if conf.Port == 0 {
			conf.Port = 5432
		}
		return fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%d",
			conf.Host, conf.User, conf.Password, conf.DB, conf.Port,
		), nil
	default:
		return "", errors.Errorf("unsupported driver '%s'", driver)
	}
}

// DSNConf provides configuration options for database connection strings.
// It contains common connection parameters used across the supported
// drivers; when used with the DSN function it helps generate a proper
// connection string for the selected driver type.
type DSNConf struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	DB       string `yaml:"db"`
}

// Config represents the storage configuration
type Config struct {
	// Driver is the database driver type for the relational store
	Driver DriverType `yaml:"driver"`
	// DSN is the data source name (connection string)
	// For SQLite, this is the database file path
	// For MySQL / PostgreSQL, this is the driver connection string
	DSN string `yaml:"dsn"`
	// DataDir is the directory where record and database files are stored
	DataDir string `yaml:"data_dir"`
	// RecordsBackend selects the timed status record backend
	RecordsBackend RecordsBackendType `yaml:"records_backend"`
	// Debug enables debug logging
	Debug bool `yaml:"debug"`
	// UsersHash defines parameters for hashing admin user passwords
	UsersHash Argon2idParams `yaml:"password_hashing"`
}

// Argon2idParams configures Argon2id hashing parameters
type Argon2idParams struct {
	Time        uint32 `yaml:"time"`
	MemoryKiB   uint32 `yaml:"memory_kib"`
	Parallelism uint8  `yaml:"parallelism"`
	KeyLen      uint32 `yaml:"key_len"`
	SaltLen     uint32 `yaml:"salt_len"`
}

// Connect establishes a connection to the relational database based on the
// configuration
func Connect(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case DriverSQLite:
		// If DSN is not provided, use the default database file in DataDir
		dsn := cfg.DSN
		if dsn == "" {
			dsn = filepath.Join(cfg.DataDir, "warden.db")
		}
		dialector = sqlite.Open(dsn)
	case DriverMySQL:
		dialector = mysql.Open(cfg.DSN)
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	logMode := logger.Silent
	if cfg.Debug {
		logMode = logger.Info
	}

	return gorm.Open(
		dialector, &gorm.Config{
			Logger: logger.Default.LogMode(logMode),
		},
	)
}

// LoadStorageBackends initializes the record store and the relational
// warehouse and returns grouped backends.
func LoadStorageBackends(cfg Config) (model.Backends, error) {
	warehouse, err := NewStorage(cfg)
	if err != nil {
		return model.Backends{}, err
	}

	var records model.RecordStorageBackend
	switch cfg.RecordsBackend {
	case RecordsBackendBadger:
		records, err = NewBadgerRecordStorage(filepath.Join(cfg.DataDir, "records"))
		if err != nil {
			return model.Backends{}, errors.Wrap(err, "failed to open badger record storage")
		}
	case RecordsBackendJSON, "":
		records = NewFileRecordStorage(cfg.DataDir)
	default:
		return model.Backends{}, errors.Errorf("unsupported records backend '%s'", cfg.RecordsBackend)
	}
	if err = records.Load(); err != nil {
		return model.Backends{}, err
	}

	return model.Backends{
		Records: records,
		Events:  warehouse.EventsStorage(),
		Authz:   warehouse.AuthzStorage(),
		Users:   warehouse.UsersStorage(),
	}, nil
}
