package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime"

	"github.com/localfs/localfs/pkg/config"
	"github.com/localfs/localfs/pkg/opener"
	"github.com/localfs/localfs/pkg/server"
	"github.com/localfs/localfs/pkg/version"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/signals"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logger.New()

	if err := newApp().Run(os.Args); err != nil {
		log.Err(err).Fatal("localfs error")
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "localfs",
		Usage:   "browse a local directory over HTTP",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "root",
				Usage: "directory to serve (defaults to the current directory)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "port to listen on",
				Value: 8080,
			},
			&cli.BoolFlag{
				Name:  "no-browser",
				Usage: "do not open a browser window on startup",
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "optional YAML config file",
				EnvVars: []string{"CONFIG_FILE"},
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.New(c.String("config"), overrides(c))
			if err != nil {
				return errors.WithStack(err)
			}
			return run(c.Context, cfg)
		},
	}
}

// overrides returns only the flags given on the command line, so unset flags
// do not mask the config file or the environment.
func overrides(c *cli.Context) map[string]interface{} {
	o := map[string]interface{}{}
	if c.IsSet("root") {
		o[config.KeyRootDirectory] = c.String("root")
	}
	if c.IsSet("port") {
		o[config.KeyServerPort] = c.Int("port")
	}
	if c.IsSet("no-browser") {
		o[config.KeyOpenBrowser] = !c.Bool("no-browser")
	}
	return o
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.New()

	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "config error")
	}

	opnr := opener.NewDefault(opener.StrategyFor(runtime.GOOS))

	srv, err := server.New(cfg, opnr)
	if err != nil {
		return errors.Wrap(err, "server error")
	}

	lc := net.ListenConfig{}
	listener, err := lc.Listen(ctx, "tcp", cfg.Addr())
	if err != nil {
		return errors.Wrap(err, "failed to bind port")
	}

	// Extract actual port (useful when ServerPort is 0)
	actualPort := listener.Addr().(*net.TCPAddr).Port
	url := fmt.Sprintf("http://localhost:%d", actualPort)
	log.Info("server started", logger.Data{
		"version":      version.Version,
		"root":         cfg.RootDirectory,
		"url":          url,
		"port":         actualPort,
		"open_browser": cfg.OpenBrowser,
		"strategy":     opnr.Strategy().Name(),
	})

	launchCtx, cancelLaunch := context.WithCancel(ctx)
	defer cancelLaunch()
	if cfg.OpenBrowser {
		opnr.OpenURLAfter(launchCtx, url, cfg.BrowserDelay)
	}

	graceful := signals.Setup()
	serveErr := make(chan error, 1)

	go func() {
		err := srv.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- errors.WithStack(err)
		}
		close(serveErr)
	}()

	select {
	case <-graceful:
		log.Info("starting graceful shutdown")
	case err := <-serveErr:
		return errors.Wrap(err, "server stopped")
	}

	cancelLaunch()
	if err := srv.Shutdown(ctx); err != nil {
		log.Err(err).Error("server shutdown error")
	}
	log.Info("server shutdown")

	return nil
}
