package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Anurag9000/Gram-Connect/internal/mockdata"
)

func mockdataCmd(g *globalFlags) *cobra.Command {
	var (
		dir string
		gen = mockdata.DefaultConfig()
	)

	cmd := &cobra.Command{
		Use:   "mockdata",
		Short: "Generate a synthetic reference dataset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := g.setup(ctx, os.Stderr); err != nil {
				return err
			}
			return mockdata.Write(ctx, dir, mockdata.Generate(gen))
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "data", "Output directory")
	cmd.Flags().Int64Var(&gen.Seed, "seed", gen.Seed, "Random seed")
	cmd.Flags().IntVar(&gen.People, "people", gen.People, "Number of volunteers")
	cmd.Flags().IntVar(&gen.Proposals, "proposals", gen.Proposals, "Number of historical proposals")
	cmd.Flags().IntVar(&gen.PairsPerProposal, "pairs-per-proposal", gen.PairsPerProposal, "Labelled pairs per proposal")
	return cmd
}
