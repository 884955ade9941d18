package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/CarlosCampa21/aura-api/pkg/cli/config"
)

func cmdSearch() *cli.Command {
	var (
		repoCfg     config.Repository
		llmCfg      config.LLM
		academicCfg config.Academic
		limit       int64
	)

	flags := []cli.Flag{
		&cli.Int64Flag{
			Name:        "limit",
			Usage:       "Maximum number of results",
			Value:       8,
			Destination: &limit,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, academicCfg.Flags()...)

	return &cli.Command{
		Name:      "search",
		Usage:     "Run a raw KNN search without synthesis, for debugging retrieval",
		ArgsUsage: "<query>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if query == "" {
				return goerr.New("query argument is required")
			}

			uc, closer, err := buildUseCases(ctx, &repoCfg, &llmCfg, &academicCfg)
			if err != nil {
				return err
			}
			defer closer()

			hits, err := uc.SearchChunks(ctx, query, int(limit))
			if err != nil {
				return err
			}
			if len(hits) == 0 {
				fmt.Fprintln(os.Stdout, "no results")
				return nil
			}

			title := color.New(color.FgGreen, color.Bold)
			meta := color.New(color.FgHiBlack)
			for i, hit := range hits {
				title.Fprintf(os.Stdout, "%d. %s (%.4f)\n", i+1, hit.Chunk.Title, hit.Similarity)
				meta.Fprintf(os.Stdout, "   doc=%s index=%d section=%q\n",
					hit.Chunk.DocumentID, hit.Chunk.Index, hit.Chunk.Section)
				fmt.Fprintln(os.Stdout, "   "+snippet(hit.Chunk.Text, 160))
			}
			return nil
		},
	}
}

func snippet(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
