package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/interior-ledger/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Export a project balance sheet to Excel",
		Long:  `Write the balance sheet of one project to an .xlsx workbook, optionally limited to some categories.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runExport(ctx)
		},
	}
	exportUserID     int64
	exportProjectID  int64
	exportOut        string
	exportCategories string
)

func init() {
	exportCmd.Flags().Int64Var(&exportUserID, "user-id", 0, "owner of the project")
	exportCmd.Flags().Int64Var(&exportProjectID, "project-id", 0, "project to export")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file, defaults to the project's export name")
	exportCmd.Flags().StringVar(&exportCategories, "categories", "", "comma separated categories to keep")
	rootCmd.AddCommand(exportCmd)
}

func runExport(ctx context.Context) error {
	if exportUserID <= 0 || exportProjectID <= 0 {
		return errors.New("--user-id and --project-id are required")
	}

	cfg, err := loadConfig(configDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	sheet, err := app.Ledger.ProjectBalanceSheet(ctx, exportUserID, exportProjectID)
	if err != nil {
		return err
	}
	sheet = sheet.OnlyCategories(export.SplitCategories(exportCategories))

	f, err := export.BuildWorkbook(sheet)
	if err != nil {
		return fmt.Errorf("failed to build workbook: %w", err)
	}
	defer f.Close()

	out := exportOut
	if out == "" {
		out = export.FileName(sheet)
	}
	if err := f.SaveAs(out); err != nil {
		return fmt.Errorf("failed to save %s: %w", out, err)
	}

	app.Logger.Info("balance sheet exported", "project_id", exportProjectID, "file", out)
	return nil
}
