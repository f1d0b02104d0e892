package cli

import (
	"github.com/spf13/cobra"

	"staffhive/internal/app/server"
)

var seedDemo bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the admin account and optional demo data",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()
		return server.Seed(cmd.Context(), app.Config, app.Services, seedDemo)
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedDemo, "demo", false, "also load a sample company, employees and job postings")
}
