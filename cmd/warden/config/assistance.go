package config

import (
	"github.com/wardenhq/warden"
)

// assistanceConf extends the assistance surface configuration with the
// optional redis connection used to share cooldown state between
// instances.
type assistanceConf struct {
	warden.AssistanceConf `yaml:",inline"`
	RedisAddr             string `yaml:"redis_addr"`
	Username              string `yaml:"username"`
	Password              string `yaml:"password"`
	RedisDB               int    `yaml:"redis_db"`
}
