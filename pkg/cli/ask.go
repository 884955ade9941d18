package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/CarlosCampa21/aura-api/pkg/agent/tool"
	"github.com/CarlosCampa21/aura-api/pkg/cli/config"
	"github.com/CarlosCampa21/aura-api/pkg/usecase"
)

func cmdAsk() *cli.Command {
	var (
		repoCfg     config.Repository
		llmCfg      config.LLM
		academicCfg config.Academic
		email       string
		entityHint  string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "email",
			Usage:       "Email of the asking user, for profile and rate limiting",
			Required:    true,
			Sources:     cli.EnvVars("AURA_ASK_EMAIL"),
			Destination: &email,
		},
		&cli.StringFlag{
			Name:        "entity",
			Usage:       "Proper name the answer must be scoped to",
			Destination: &entityHint,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, academicCfg.Flags()...)

	return &cli.Command{
		Name:      "ask",
		Usage:     "Ask a question through the answering priority chain",
		ArgsUsage: "<question>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if question == "" {
				return goerr.New("question argument is required")
			}

			uc, closer, err := buildUseCases(ctx, &repoCfg, &llmCfg, &academicCfg)
			if err != nil {
				return err
			}
			defer closer()

			// tool progress lines go to stderr so stdout stays the answer
			ctx = tool.WithUpdate(ctx, func(ctx context.Context, message string) {
				color.New(color.Faint).Fprintln(os.Stderr, message)
			})

			answer, err := uc.Ask(ctx, usecase.AskInput{
				Email:      email,
				Question:   question,
				EntityHint: entityHint,
			})
			if err != nil {
				return err
			}

			color.New(color.FgCyan).Fprintf(os.Stdout, "[%s]\n", answer.Origin)
			fmt.Fprintln(os.Stdout, answer.Text)
			return nil
		},
	}
}
