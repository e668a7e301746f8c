package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/enertrack/meterd/app"
	"github.com/enertrack/meterd/config"
)

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Serve the public consumption HTTP API",
	RunE:  runGateway,
}

func init() {
	rootCmd.AddCommand(gatewayCmd)
}

func runGateway(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.NewGateway(cfg)
	if err != nil {
		return err
	}
	return svc.Run(ctx)
}
