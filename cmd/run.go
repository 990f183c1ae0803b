package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/furnacex/intel-cli/internal/model"
	"github.com/furnacex/intel-cli/internal/pipeline"
)

var (
	runInput string
	runFrom  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the lead pipeline over scraped records",
	Long: `Runs normalize, classify, score, and route over a batch of scraped records,
persisting a CSV artifact per stage and the final leads to the store.

--from resumes from a later stage using the previous stage's artifact,
skipping the raw input entirely.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		router, err := initRouter()
		if err != nil {
			return err
		}

		reference, err := referenceTime()
		if err != nil {
			return err
		}
		zap.L().Info("pipeline starting", zap.Time("reference", reference))

		p, err := pipeline.New(cfg, st, router, reference)
		if err != nil {
			return err
		}

		var summary *model.RunSummary
		if runFrom != "" {
			stage, err := pipeline.ParseStage(runFrom)
			if err != nil {
				return err
			}
			summary, err = p.Resume(ctx, stage)
			if err != nil {
				return err
			}
		} else {
			records, err := loadRecords()
			if err != nil {
				return err
			}
			summary, err = p.Run(ctx, records)
			if err != nil {
				return err
			}
		}

		printSummary(summary)
		return nil
	},
}

func loadRecords() ([]model.RawRecord, error) {
	if runInput == "" {
		return nil, eris.New("--input is required (file or directory of scraped JSON)")
	}
	info, err := os.Stat(runInput)
	if err != nil {
		return nil, eris.Wrapf(err, "stat input %s", runInput)
	}
	if info.IsDir() {
		return pipeline.ReadRawRecordsDir(runInput)
	}
	return pipeline.ReadRawRecords(runInput)
}

func printSummary(s *model.RunSummary) {
	fmt.Printf("Input records:   %d\n", s.Input)
	fmt.Printf("Leads:           %d\n", s.Leads)
	fmt.Printf("Skipped:         %d\n", s.Skipped)
	fmt.Printf("Deduplicated:    %d\n", s.Deduplicated)
	fmt.Printf("ID conflicts:    %d\n", s.IDConflicts)
	fmt.Printf("Unresolved:      %d\n", s.Unresolved)
	fmt.Printf("Record errors:   %d\n", s.RecordErrors)
	fmt.Printf("Tier 1 / 2 / 3:  %d / %d / %d\n", s.Tier1, s.Tier2, s.Tier3)
}

func init() {
	runCmd.Flags().StringVar(&runInput, "input", "", "scraped records JSON file or directory")
	runCmd.Flags().StringVar(&runFrom, "from", "", "resume from stage (classify, score, route)")
	rootCmd.AddCommand(runCmd)
}
