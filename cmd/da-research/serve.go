// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/pdiddy/da-research/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the research pipeline over HTTP",
	Long: `Serve exposes POST /api/agent/generate and GET /api/agent/health.
The listen address comes from serve.addr (default :5001) or --addr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		p, err := setup(ctx)
		if err != nil {
			return err
		}
		defer p.close()

		addr := p.cfg.Serve.Addr
		if flagAddr, _ := cmd.Flags().GetString("addr"); flagAddr != "" {
			addr = flagAddr
		}
		if !p.cfg.Log.Development {
			gin.SetMode(gin.ReleaseMode)
		}
		router := api.NewRouter(api.NewHandler(p.coordinator, logger), logger)
		return api.Serve(ctx, addr, router, logger)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides serve.addr)")
	rootCmd.AddCommand(serveCmd)
}
