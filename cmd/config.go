package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotlists/internal/shared"
	"github.com/urfave/cli/v3"
)

// ConfigInit writes the example configuration file.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Wrote %s\n", path)
	r.writePlain("Set SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET in your environment before running serve.\n")
	return nil
}

// ConfigShow prints the effective configuration with the client secret masked.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	data, err := config.Redacted()
	if err != nil {
		return err
	}

	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
