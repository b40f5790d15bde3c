package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/axellelanca/shortlinks/cmd"
	"github.com/axellelanca/shortlinks/internal/api"
	"github.com/axellelanca/shortlinks/internal/app"
	"github.com/axellelanca/shortlinks/internal/monitor"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

// RunServerCmd représente la commande 'run-server' de Cobra.
// C'est le point d'entrée pour lancer le serveur de l'application.
var RunServerCmd = &cobra.Command{
	Use:   "run-server",
	Short: "Lance le serveur API de raccourcissement d'URLs et le moniteur d'expiration.",
	Long: `Cette commande ouvre le stockage configuré, démarre le moniteur d'expiration
des liens, puis lance le serveur HTTP.`,
	Run: func(c *cobra.Command, args []string) {
		cfg := cmd.Cfg

		a, err := app.New(cfg)
		if err != nil {
			log.Fatalf("Échec de l'initialisation de l'application : %v", err)
		}
		defer a.Close()
		a.Log.Info("storage opened", "driver", cfg.Storage.Driver, "key", cfg.Storage.Key)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		monitorInterval := time.Duration(cfg.Monitor.IntervalMinutes) * time.Minute
		expiryMonitor := monitor.NewExpiryMonitor(a.Links, a.Clock, monitorInterval, a.Log)
		go expiryMonitor.Start(ctx)

		gin.SetMode(gin.ReleaseMode)
		router := gin.New()
		router.Use(gin.Recovery())
		api.SetupRoutes(router, api.NewHandler(a.Service, a.Requests, a.Clock, cfg.Server.BaseURL, a.Log))

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			a.Log.Info("server listening", "addr", srv.Addr, "base_url", cfg.Server.BaseURL)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case <-ctx.Done():
			a.Log.Info("shutdown signal received")
		case err := <-errCh:
			log.Fatalf("Échec du démarrage du serveur : %v", err)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.Log.Error("server shutdown failed", "error", err)
		}
		a.Log.Info("server stopped")
	},
}

func init() {
	cmd.RootCmd.AddCommand(RunServerCmd)
}
