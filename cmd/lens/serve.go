package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/openvlm/lens/internal/api"
	"github.com/openvlm/lens/internal/inference"
	"github.com/openvlm/lens/internal/logger"
	"github.com/openvlm/lens/internal/toyengine"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		apiKey      string
		readTimeout time.Duration
		stepDelay   time.Duration
		logBodies   bool
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the OpenAI-compatible chat completions API",
		Flags: append(append(engineFlags(), loggingFlags()...),
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8000",
				Destination: &addr,
			},
			&cli.StringFlag{
				Name:        "api-key",
				Usage:       "require this bearer token on /v1 routes",
				Sources:     cli.EnvVars("LENS_API_KEY"),
				Destination: &apiKey,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read header timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
			&cli.DurationFlag{
				Name:        "step-delay",
				Usage:       "artificial per-token delay for the toy engine",
				Destination: &stepDelay,
			},
			&cli.BoolFlag{
				Name:        "log-bodies",
				Usage:       "log request and response payloads at debug level",
				Destination: &logBodies,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := LoadConfig()
			applyServeConfig(cmd, cfg, &addr, &apiKey)

			if debug {
				logLevel = "debug"
			}
			log := logger.Build(logFormat, logLevel, os.Stderr)

			eng, err := buildEngine(stepDelay)
			if err != nil {
				return err
			}
			defer eng.Close()

			server := api.NewServer(api.NewEngineGate(eng), api.ServerConfig{
				APIKey:    apiKey,
				LogBodies: logBodies,
				Logger:    log,
			})

			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			e.Use(middleware.CORS())
			server.Register(e)

			log.Info("starting server",
				"address", addr,
				"model", eng.ModelID(),
				"device", eng.Device(),
				"auth", apiKey != "")
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}

func buildEngine(stepDelay time.Duration) (inference.Engine, error) {
	switch engineName {
	case "toy":
		eng := toyengine.New(modelName)
		eng.StepDelay = stepDelay
		return eng, nil
	default:
		return nil, fmt.Errorf("unknown engine %q", engineName)
	}
}
