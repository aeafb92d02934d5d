package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vytor/studysmart/internal/models"
)

func newGuideCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "guide",
		Short: "Generate a study guide and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readRequest(cmd, models.ModeGuide)
			if err != nil {
				return err
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			g, err := a.guides.Create(cmd.Context(), a.owner, req, a.apiKey)
			if err != nil {
				return describe(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), g.Content)
			return nil
		},
	}
	generationFlags(cmd)
	return cmd
}
