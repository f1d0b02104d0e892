package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"staffhive/internal/platform/config"
	"staffhive/internal/platform/jobs"
)

var importFile string

var importCmd = &cobra.Command{
	Use:   "import-localstorage",
	Short: "Load a browser local-storage export into the store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if importFile == "" {
			return errors.New("--file is required")
		}
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()
		if app.Config.StorageDriver == config.DriverMemory {
			slog.Warn("importing into the memory store; data is discarded when the command exits")
		}

		f, err := os.Open(importFile)
		if err != nil {
			return err
		}
		defer f.Close()

		res, err := app.Services.Jobs.RunNow(cmd.Context(), jobs.JobLegacyImport, func(ctx context.Context) (any, error) {
			return app.Services.Importer.Import(ctx, f)
		})
		if err != nil {
			return fmt.Errorf("import %s: %w", importFile, err)
		}
		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "path to the exported JSON object")
}
