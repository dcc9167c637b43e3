package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hinwong/salescast/internal/version"
)

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print the salescast version",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			fmt.Println("salescast", version.String())
			return nil
		},
	}
}
