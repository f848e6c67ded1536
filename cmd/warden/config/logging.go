package config

import (
	"github.com/pkg/errors"
	"github.com/zachmann/go-utils/fileutils"

	"github.com/wardenhq/warden/internal/logger"
)

// loggingConf holds all logging-related configuration under the `logging`
// key.
//
// YAML example:
//
//	logging:
//	  internal:
//	    dir: /var/log/warden
//	    stderr: false
//	    level: INFO
type loggingConf struct {
	Internal logger.Config `yaml:"internal"`
}

func checkLoggingDirExists(dir string) error {
	if dir != "" && !fileutils.FileExists(dir) {
		return errors.Errorf("logging directory '%s' does not exist", dir)
	}
	return nil
}

func (l *loggingConf) validate() error {
	return checkLoggingDirExists(l.Internal.Dir)
}

var defaultLoggingConf = loggingConf{
	Internal: logger.Config{
		Level: "INFO",
	},
}
