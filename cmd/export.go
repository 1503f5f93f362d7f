package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotlists/internal/formatter"
	"github.com/urfave/cli/v3"
)

// Export signs in through the browser and writes the playlist listing to a file or stdout.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Validate(); err != nil {
		return err
	}

	_, playlists, token, err := r.signIn(ctx, config)
	if err != nil {
		return err
	}

	summaries, err := playlists.FetchCurrentUserPlaylists(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to fetch playlists: %w", err)
	}
	r.logger.Debug("fetched playlists", "count", len(summaries))

	output := cmd.String("output")
	if output == "" {
		data, err := formatter.Export(format, summaries)
		if err != nil {
			return err
		}
		if _, err := r.output.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	if err := formatter.WriteExport(format, summaries, output); err != nil {
		return err
	}

	r.writePlain("✓ Exported %d playlists to %s\n", len(summaries), output)
	return nil
}
