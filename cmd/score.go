package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/furnacex/intel-cli/internal/pipeline"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Re-score and re-route classified leads",
	Long: `Re-runs the scoring and routing stages over the classified-leads artifact.
Useful after tuning scoring weights: classification is untouched, so the
re-run is cheap and reproducible for a pinned reference date.`,
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
		zap.L().Info("re-scoring leads", zap.Time("reference", reference))

		p, err := pipeline.New(cfg, st, router, reference)
		if err != nil {
			return err
		}
		summary, err := p.Resume(ctx, pipeline.StageScore)
		if err != nil {
			return err
		}

		printSummary(summary)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}
