package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/furnacex/intel-cli/internal/registry"
)

var officersCmd = &cobra.Command{
	Use:   "officers",
	Short: "Officer registry tools",
}

var officersValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the officer registry and print coverage by state",
	RunE: func(cmd *cobra.Command, args []string) error {
		officers, err := registry.Load(cfg.Registry.OfficersFile)
		if err != nil {
			return err
		}

		byState := make(map[string]int)
		for _, o := range officers {
			byState[o.State]++
		}
		states := make([]string, 0, len(byState))
		for s := range byState {
			states = append(states, s)
		}
		sort.Strings(states)

		fmt.Printf("Registry %s: %d officers, %d states\n", cfg.Registry.OfficersFile, len(officers), len(states))
		for _, s := range states {
			fmt.Printf("  %-20s %d\n", s, byState[s])
		}
		return nil
	},
}

func init() {
	officersCmd.AddCommand(officersValidateCmd)
	rootCmd.AddCommand(officersCmd)
}
