// Package warden implements a moderation service that manages timed
// status records (leaves of absence, zero-tolerance strikes, suspensions)
// for a community: members file requests, authorized staff decide and
// issue, and a background sweeper lifts records when their window ends.
package warden

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	log "github.com/sirupsen/logrus"

	"github.com/wardenhq/warden/api/adminapi"
	"github.com/wardenhq/warden/engine"
	"github.com/wardenhq/warden/internal/cooldown"
	"github.com/wardenhq/warden/internal/version"
	"github.com/wardenhq/warden/storage/model"
)

// FiberServerConfig is the fiber.Config that is used to init the http fiber.App
var FiberServerConfig = fiber.Config{
	ReadTimeout:    3 * time.Second,
	WriteTimeout:   20 * time.Second,
	IdleTimeout:    150 * time.Second,
	ReadBufferSize: 8192,
	ErrorHandler:   handleError,
	Network:        "tcp",
}

// handleError renders every handler error as a JSON body with the status
// derived from the error kind.
func handleError(ctx *fiber.Ctx, err error) error {
	var (
		validationErr engine.ValidationError
		authzErr      engine.AuthorizationError
		conflictErr   engine.ConflictError
		deliveryErr   engine.DeliveryError
		notFoundErr   model.NotFoundError
		fiberErr      *fiber.Error
	)
	status := fiber.StatusInternalServerError
	switch {
	case errors.As(err, &validationErr):
		status = fiber.StatusBadRequest
	case errors.As(err, &authzErr):
		status = fiber.StatusForbidden
	case errors.As(err, &notFoundErr):
		status = fiber.StatusNotFound
	case errors.As(err, &conflictErr):
		status = fiber.StatusConflict
	case errors.As(err, &deliveryErr):
		status = fiber.StatusBadGateway
	case errors.As(err, &fiberErr):
		status = fiberErr.Code
	}
	return ctx.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// Config bundles everything a Warden needs besides its storage backends.
type Config struct {
	Server     ServerConf
	Admin      AdminConf
	Assistance AssistanceConf
	Membership MembershipConf
	DM         DMConf
}

// AdminConf controls the admin API surface.
type AdminConf struct {
	Disabled      bool `yaml:"disabled"`
	UsersDisabled bool `yaml:"users_disabled"`
}

// Warden is the service: the engine plus its http command surface.
type Warden struct {
	engine    *engine.Engine
	sweeper   *engine.Sweeper
	notifier  engine.Notifier
	directory engine.Directory
	cooldowns cooldown.Store
	server    *fiber.App
	conf      Config
}

// NewWarden assembles the service: it wires the engine's command surface
// and the admin API onto a fiber app and prepares the expiry sweeper.
func NewWarden(
	conf Config,
	eng *engine.Engine,
	notifier engine.Notifier,
	directory engine.Directory,
	cooldowns cooldown.Store,
	backends model.Backends,
	sweepInterval time.Duration,
) (*Warden, error) {
	if tps := conf.Server.TrustedProxies; len(tps) > 0 {
		FiberServerConfig.TrustedProxies = tps
		FiberServerConfig.EnableTrustedProxyCheck = true
	}
	FiberServerConfig.ProxyHeader = conf.Server.ForwardedIPHeader
	server := fiber.New(FiberServerConfig)
	server.Use(recover.New())
	server.Use(compress.New())
	server.Use(logger.New())
	server.Use(requestid.New())

	if cooldowns == nil {
		cooldowns = cooldown.NewMemoryStore()
	}
	w := &Warden{
		engine:    eng,
		sweeper:   engine.NewSweeper(eng, sweepInterval),
		notifier:  notifier,
		directory: directory,
		cooldowns: cooldowns,
		server:    server,
		conf:      conf,
	}

	server.Get(
		"/healthz", func(ctx *fiber.Ctx) error {
			return ctx.JSON(fiber.Map{"status": "ok", "version": version.VERSION})
		},
	)
	w.addLOAEndpoints()
	w.addPolicyEndpoints()
	w.addDisciplineEndpoint()
	w.addAssistanceEndpoints()
	w.addMembershipEndpoint()
	w.addDMEndpoint()

	if !conf.Admin.Disabled {
		err := adminapi.RegisterWithOptions(
			server.Group("/api/v1/admin"), eng, backends,
			&adminapi.Options{UsersEnabled: !conf.Admin.UsersDisabled},
		)
		if err != nil {
			return nil, err
		}
	}
	return w, nil
}

// HttpHandlerFunc returns an http.HandlerFunc serving all endpoints
func (w *Warden) HttpHandlerFunc() http.HandlerFunc {
	return adaptor.FiberApp(w.server)
}

// Listen starts the http server on the passed address without the
// sweeper; mainly useful in tests.
func (w *Warden) Listen(addr string) error {
	return w.server.Listen(addr)
}

// Start runs the sweeper and the http server according to the server
// configuration. It blocks until the server exits.
func (w *Warden) Start() {
	w.sweeper.Start()
	defer w.sweeper.Stop()
	conf := w.conf.Server
	if !conf.TLS.Enabled {
		log.WithField("port", conf.Port).Info("TLS is disabled, starting http server")
		log.WithError(w.server.Listen(fmt.Sprintf("%s:%d", conf.IPListen, conf.Port))).Fatal()
	}
	if conf.TLS.RedirectHTTP {
		httpServer := fiber.New(FiberServerConfig)
		httpServer.All(
			"*", func(ctx *fiber.Ctx) error {
				return ctx.Redirect(
					strings.Replace(ctx.Request().URI().String(), "http://", "https://", 1),
					fiber.StatusPermanentRedirect,
				)
			},
		)
		log.Info("TLS and http redirect enabled, starting redirect server on port 80")
		go func() {
			log.WithError(httpServer.Listen(":80")).Fatal()
		}()
	}
	log.Info("TLS enabled, starting https server on port 443")
	log.WithError(w.server.ListenTLS(":443", conf.TLS.Cert, conf.TLS.Key)).Fatal()
}
