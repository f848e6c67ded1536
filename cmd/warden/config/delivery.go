package config

import (
	"github.com/wardenhq/warden/delivery"
)

// deliveryConf configures the notification and directory layer.
type deliveryConf struct {
	Directory delivery.DirectoryConf `yaml:"directory"`
}
