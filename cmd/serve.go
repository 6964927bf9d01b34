package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/team-matcher/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address, overrides server.addr")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := setup(ctx)
	defer e.Close()

	advisor, err := newAdvisor(ctx, e.config.AI, e.logger, e.metrics)
	if err != nil {
		e.logger.Fatal("building ai advisor", zap.Error(err))
	}

	e.logger.Info("starting the team-matcher api", zap.String("version", version))

	srv := server.New(e.config.Server, e.store, advisor, e.logger, e.metrics)
	if err := srv.Run(ctx); err != nil {
		e.logger.Error("http server stopped", zap.Error(err))
	}
}
