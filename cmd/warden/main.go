package main

import (
	"os"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/wardenhq/warden"
	"github.com/wardenhq/warden/cmd/warden/config"
	"github.com/wardenhq/warden/delivery"
	"github.com/wardenhq/warden/engine"
	"github.com/wardenhq/warden/internal/cooldown"
	"github.com/wardenhq/warden/internal/logger"
)

func main() {
	var configFile string
	if len(os.Args) > 1 {
		configFile = os.Args[1]
	}
	config.Load(configFile)
	c := config.Get()
	logger.Init(c.Logging.Internal)
	log.Info("Loaded Config")

	backs, err := config.LoadStorageBackends(c.Storage, c.API.Admin.Argon2idParams)
	if err != nil {
		log.Fatal(err)
	}

	notifier := delivery.NewLogNotifier()
	directory := delivery.NewStaticDirectory(c.Delivery.Directory)

	var cooldowns cooldown.Store
	if redisAddr := c.Assistance.RedisAddr; redisAddr != "" {
		cooldowns = cooldown.NewRedisStore(
			&redis.Options{
				Addr:     redisAddr,
				Username: c.Assistance.Username,
				Password: c.Assistance.Password,
				DB:       c.Assistance.RedisDB,
			}, "warden:assistance:",
		)
		log.Info("Loaded Redis cooldown store")
	} else {
		cooldowns = cooldown.NewMemoryStore()
	}

	eng := engine.New(
		backs.Records, notifier, directory,
		&engine.Options{
			Events:     backs.Events,
			Authz:      backs.Authz,
			Policies:   c.Policies.Policies(),
			Superuser:  c.Superuser,
			Discipline: c.Discipline,
		},
	)

	w, err := warden.NewWarden(
		warden.Config{
			Server: c.Server,
			Admin: warden.AdminConf{
				Disabled:      !c.API.Admin.Enabled,
				UsersDisabled: !c.API.Admin.UsersEnabled,
			},
			Assistance: c.Assistance.AssistanceConf,
			Membership: c.Membership,
			DM:         c.DM,
		},
		eng, notifier, directory, cooldowns, backs,
		c.SweepInterval.Duration(),
	)
	if err != nil {
		log.Fatal(err)
	}
	w.Start()
}
