package main

import "github.com/urfave/cli/v3"

var (
	modelName  string
	engineName string
	logLevel   string
	logFormat  string
	debug      bool
)

func engineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "model",
			Aliases:     []string{"m"},
			Usage:       "model id to expose on the API",
			Value:       "Qwen/Qwen2.5-VL-7B-Instruct",
			Destination: &modelName,
		},
		&cli.StringFlag{
			Name:        "engine",
			Usage:       "inference engine (toy)",
			Value:       "toy",
			Destination: &engineName,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}
