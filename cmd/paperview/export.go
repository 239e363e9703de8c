package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kyaoi/paperview/internal/app"
	"github.com/kyaoi/paperview/internal/export"
)

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the analysis as a standalone HTML page",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, closeLog, err := setup()
		if err != nil {
			return err
		}
		defer closeLog()

		doc, err := app.LoadDocument(cfg, targetArg(args))
		if err != nil {
			return err
		}
		dir := cfg.Export.Dir
		if exportDir != "" {
			dir = exportDir
		}
		path, err := export.ToFile(doc, dir)
		if err != nil {
			return err
		}
		logger.Info("analysis exported", zap.String("path", path))
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportDir, "out", "o", "", "output directory (default export.dir)")
	rootCmd.AddCommand(exportCmd)
}
