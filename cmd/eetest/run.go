package main

import (
	"context"
	"errors"
	"io"

	"github.com/alexisbeaulieu97/eetest/internal/config"
	"github.com/alexisbeaulieu97/eetest/internal/envprovider"
	"github.com/alexisbeaulieu97/eetest/internal/logger"
	"github.com/alexisbeaulieu97/eetest/internal/runner"
	eeerrors "github.com/alexisbeaulieu97/eetest/pkg/errors"
)

var runCmdRunner = runTargets

func runTargets(ctx context.Context, out io.Writer, log *logger.Logger, provider envprovider.Provider, opts config.RunOptions) error {
	r := runner.New(provider, log, out)
	_, err := r.Run(ctx, opts)

	var discErr *eeerrors.DiscoveryError
	if errors.As(err, &discErr) {
		log.WithFields(map[string]any{"operation": discErr.Operation}).Error(err, "cluster node discovery failed")
	}

	return err
}
