package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"checklist/internal/config"
	"checklist/internal/repository"
	"checklist/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the REST API server",
	Long:  `Starts the HTTP server exposing the list and task API, and optionally the static browser front end.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		st, err := GetStore(logger)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		repos := repository.New(st, logger)
		srv := server.New(server.Config{
			Port:           config.ServerPort(),
			StaticDir:      config.StaticDir(),
			AllowedOrigins: config.AllowedOrigins(),
		}, st, repos, logger)

		errCh := make(chan error, 1)
		go func() { errCh <- srv.ListenAndServe() }()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-stop:
			logger.Info("shutting down", "signal", sig)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		}
	},
}

func init() {
	serveCmd.Flags().IntP("port", "p", 8080, "port to listen on")
	serveCmd.Flags().String("static-dir", "", "directory with the browser front end to serve")
	_ = viper.BindPFlag(config.KeyServerPort, serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag(config.KeyStaticDir, serveCmd.Flags().Lookup("static-dir"))

	rootCmd.AddCommand(serveCmd)
}
