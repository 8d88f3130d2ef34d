package main

import (
	"github.com/spf13/cobra"

	"github.com/scrim-network/pubstats/internal/fake"
)

var (
	fakeOut     string
	fakeSeed    uint64
	fakeAuthors int
	fakePubs    int
)

func init() {
	defaults := fake.DefaultOptions()
	fakeCmd.Flags().StringVar(&fakeOut, "out", ".", "Directory for key.csv and paperpile.json")
	fakeCmd.Flags().Uint64Var(&fakeSeed, "seed", defaults.Seed, "Random seed (0 for a fresh data set)")
	fakeCmd.Flags().IntVar(&fakeAuthors, "authors", defaults.Authors, "Number of key authors")
	fakeCmd.Flags().IntVar(&fakePubs, "pubs", defaults.Publications, "Number of publications")
	rootCmd.AddCommand(fakeCmd)
}

var fakeCmd = &cobra.Command{
	Use:   "fake",
	Short: "Generate a demonstration roster and bibliography",
	Long: `Generate a fake key-author roster (key.csv) and Paperpile export
(paperpile.json) for trying pubstats out.

The default seed always produces the same data set. Publications carry
one of the labels label1, label2 or label3.

Examples:
  pubstats fake --out demo
  pubstats display demo/key.csv demo/paperpile.json label1`,
	Args: cobra.NoArgs,
	RunE: runFake,
}

// FakeResponse is the response for the fake command.
type FakeResponse struct {
	KeyFile      string `json:"key_file"`
	DataFile     string `json:"data_file"`
	Authors      int    `json:"authors"`
	Publications int    `json:"publications"`
}

func runFake(cmd *cobra.Command, args []string) error {
	opts := fake.DefaultOptions()
	opts.Seed = fakeSeed
	opts.Authors = fakeAuthors
	opts.Publications = fakePubs

	ds, err := fake.Generate(opts)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	keyPath, dataPath, err := ds.WriteFiles(fakeOut)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	resp := FakeResponse{
		KeyFile:      keyPath,
		DataFile:     dataPath,
		Authors:      len(ds.Keys),
		Publications: len(ds.Publications),
	}
	if humanOutput {
		outputHuman("Wrote %d key authors to %s\n", resp.Authors, resp.KeyFile)
		outputHuman("Wrote %d publications to %s\n", resp.Publications, resp.DataFile)
		return nil
	}
	return outputJSON(resp)
}
