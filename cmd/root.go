package cmd

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"agrigpt/config"
)

var (
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "agrigpt",
	Short: "Agriculture question-answering service",
	Long: `AgriGPT answers agriculture questions in the asker's language from a
local text corpus, using Google Gemini for embeddings and generation.

Run without a subcommand to start the API server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		config.ConfigureLogging(cmd.ErrOrStderr(), cfg.Log.Level)
		if cfg.App.Mode != "" {
			gin.SetMode(cfg.App.Mode)
		}
		return nil
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yml (default ./config/config.yml)")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
