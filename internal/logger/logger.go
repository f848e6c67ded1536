// Package logger sets up the application loggers.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Config configures the internal logger.
type Config struct {
	Dir    string `yaml:"dir"`
	StdErr bool   `yaml:"stderr"`
	Level  string `yaml:"level"`
}

// Init initializes the logrus standard logger from the passed Config.
// Logs go to <dir>/warden.log when a directory is set, to stderr when
// requested, and to stderr alone when neither is configured.
func Init(c Config) {
	level, err := log.ParseLevel(strings.ToLower(c.Level))
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(
		&log.TextFormatter{
			FullTimestamp: true,
		},
	)

	var writers []io.Writer
	if c.Dir != "" {
		f, err := os.OpenFile(
			filepath.Join(c.Dir, "warden.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644,
		)
		if err != nil {
			log.WithError(err).Error("could not open log file, falling back to stderr")
		} else {
			writers = append(writers, f)
		}
	}
	if c.StdErr || len(writers) == 0 {
		writers = append(writers, os.Stderr)
	}
	if len(writers) == 1 {
		log.SetOutput(writers[0])
	} else {
		log.SetOutput(io.MultiWriter(writers...))
	}
}
