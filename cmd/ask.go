package cmd

import (
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"agrigpt/services"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer one question and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := services.WithRequestID(cmd.Context(), uuid.NewString())

	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ans, err := a.rag.Answer(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	cmd.Println(ans.Text)
	return nil
}
