package cli

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/CarlosCampa21/aura-api/pkg/cli/config"
	"github.com/CarlosCampa21/aura-api/pkg/domain/types"
	"github.com/CarlosCampa21/aura-api/pkg/service/ratelimit"
	"github.com/CarlosCampa21/aura-api/pkg/usecase"
	"github.com/CarlosCampa21/aura-api/pkg/utils/errutil"
	"github.com/CarlosCampa21/aura-api/pkg/utils/logging"
)

// buildUseCases wires the repository, model chain and tuning config for
// a command. The returned closer releases the repository.
func buildUseCases(ctx context.Context, repoCfg *config.Repository, llmCfg *config.LLM, academicCfg *config.Academic, extra ...usecase.Option) (*usecase.UseCases, func(), error) {
	academic, err := academicCfg.Load()
	if err != nil {
		return nil, nil, err
	}

	repo, err := repoCfg.Configure(ctx)
	if err != nil {
		return nil, nil, err
	}
	closer := func() {
		errutil.Handle(ctx, repo.Close(), "failed to close repository")
	}

	chain, err := llmCfg.Configure(ctx)
	if err != nil {
		closer()
		return nil, nil, err
	}

	opts := []usecase.Option{
		usecase.WithAcademicContext(academic.Context),
		usecase.WithChunking(academic.Chunking.MaxChars, academic.Chunking.Overlap),
		usecase.WithTopK(academic.Retrieval.TopK),
	}
	if academic.RateLimit.Requests > 0 {
		opts = append(opts, usecase.WithRateLimiter(ratelimit.NewSlidingWindow(
			academic.RateLimit.Requests,
			time.Duration(academic.RateLimit.WindowSeconds)*time.Second,
		)))
	}
	if chain != nil {
		opts = append(opts, usecase.WithLLM(chain))
	}
	opts = append(opts, extra...)

	return usecase.New(repo, opts...), closer, nil
}

func cmdIngest() *cli.Command {
	var (
		repoCfg     config.Repository
		llmCfg      config.LLM
		academicCfg config.Academic
		documentID  string
		all         bool
		limit       int64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "document-id",
			Usage:       "Ingest a single document by ID",
			Destination: &documentID,
		},
		&cli.BoolFlag{
			Name:        "all",
			Usage:       "Ingest all enabled knowledge documents",
			Destination: &all,
		},
		&cli.Int64Flag{
			Name:        "limit",
			Usage:       "Maximum number of documents to ingest with --all (0 = no limit)",
			Destination: &limit,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, academicCfg.Flags()...)

	return &cli.Command{
		Name:  "ingest",
		Usage: "Ingest documents into the vector store",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if (documentID == "") == (!all) {
				return goerr.New("exactly one of --document-id or --all is required")
			}

			uc, closer, err := buildUseCases(ctx, &repoCfg, &llmCfg, &academicCfg)
			if err != nil {
				return err
			}
			defer closer()

			logger := logging.From(ctx)

			if documentID != "" {
				res, err := uc.IngestDocument(ctx, types.DocumentID(documentID))
				if err != nil {
					return err
				}
				logger.Info("Ingestion finished",
					"documentID", res.DocumentID,
					"chunks", res.Chunks,
					"status", res.Status)
				return nil
			}

			res, err := uc.IngestAll(ctx, int(limit))
			if err != nil {
				return err
			}
			logger.Info("Bulk ingestion finished",
				"processed", res.Processed,
				"failed", res.Failed)
			return nil
		},
	}
}
