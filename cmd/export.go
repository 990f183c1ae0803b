package main

import (
	"fmt"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/furnacex/intel-cli/internal/export"
	"github.com/furnacex/intel-cli/internal/model"
	"github.com/furnacex/intel-cli/internal/store"
)

var (
	exportFormat   string
	exportOut      string
	exportMinScore float64
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored leads as a CSV or XLSX worklist",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		minScore := exportMinScore
		if minScore == 0 {
			minScore = cfg.Pipeline.MinExportScore
		}

		listed, err := st.ListLeads(ctx, store.LeadFilter{MinScore: minScore})
		if err != nil {
			return err
		}
		leads := make([]*model.Lead, len(listed))
		for i := range listed {
			leads[i] = &listed[i]
		}

		out := exportOut
		switch exportFormat {
		case "csv":
			if out == "" {
				out = filepath.Join(cfg.Pipeline.DataDir, "leads_export.csv")
			}
			err = export.WriteCSV(out, leads)
		case "xlsx":
			if out == "" {
				out = filepath.Join(cfg.Pipeline.DataDir, "worklist.xlsx")
			}
			err = export.WriteXLSX(out, leads)
		default:
			return eris.Errorf("unsupported export format: %s", exportFormat)
		}
		if err != nil {
			return err
		}

		zap.L().Info("export complete",
			zap.String("file", out),
			zap.Int("leads", len(leads)),
			zap.Float64("min_score", minScore))
		fmt.Printf("Exported %d leads to %s\n", len(leads), out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "xlsx", "export format (csv, xlsx)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default under data dir)")
	exportCmd.Flags().Float64Var(&exportMinScore, "min-score", 0, "minimum score (default from config)")
	rootCmd.AddCommand(exportCmd)
}
