package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/ivlev/stabilize/internal/config"
	"github.com/ivlev/stabilize/internal/pipeline"
	"github.com/ivlev/stabilize/internal/pipelineerr"
)

func main() {
	log := logrus.New()

	input, output, cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		exitWith(log, err)
	}

	if cfg.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	p := pipeline.New(cfg, log)
	if err := p.Run(ctx, input, output); err != nil {
		exitWith(log, err)
	}
}

// exitWith maps each error category to a distinct process exit code so
// scripting callers can tell a bad invocation from a bad input without
// parsing log output.
func exitWith(log *logrus.Logger, err error) {
	var cfgErr *pipelineerr.ConfigError
	var inputErr *pipelineerr.UnsupportedInputError
	switch {
	case errors.As(err, &cfgErr):
		log.WithError(err).Error("configuration error")
		os.Exit(2)
	case errors.As(err, &inputErr):
		log.WithError(err).Error("unsupported input")
		os.Exit(3)
	default:
		log.WithError(err).Error("stabilize failed")
		os.Exit(1)
	}
}
