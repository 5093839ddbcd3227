package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"agrigpt/controllers"
)

var uiAPIURL string

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Serve the question form against a running API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		apiURL := cfg.UI.APIURL
		if uiAPIURL != "" {
			apiURL = uiAPIURL
		}

		r := gin.New()
		r.Use(gin.Logger(), gin.Recovery())
		ui := controllers.NewUIController(apiURL, time.Duration(cfg.RAG.TimeoutSeconds)*time.Second)
		if cfg.Auth.JWTSecret != "" {
			ui.WithBearer(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
		}
		ui.Register(r, "/")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return listen(ctx, cfg.UI.Port, r)
	},
}

func init() {
	uiCmd.Flags().StringVar(&uiAPIURL, "api-url", "", "ask endpoint to call (default ui.apiURL)")
	rootCmd.AddCommand(uiCmd)
}
