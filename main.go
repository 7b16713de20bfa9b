package main

import (
	"context"
	"os"

	"github.com/m-mizutani/brief/pkg/cli"
	"github.com/m-mizutani/brief/pkg/utils/logging"
)

func main() {
	ctx := context.Background()
	if err := cli.Run(ctx, os.Args); err != nil {
		logging.Default().Error("fatal", "error", err.Message)
		os.Exit(err.Code)
	}
}
