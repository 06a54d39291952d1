package cli

import (
	"fmt"
	"io"

	"github.com/rogerio-castellano/wabot-dashboard/internal/config"
	"github.com/rogerio-castellano/wabot-dashboard/internal/models"
	"github.com/spf13/cobra"
)

func insightsCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "insights [kind]",
		Short:     "Generate and print insights",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: models.InsightKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			if settings.Backend.BaseURL == "" {
				return config.ErrMissingBackendURL
			}
			a, err := newApp(cmd.Context(), settings)
			if err != nil {
				return err
			}
			defer a.Close()

			var list []models.Insight
			if len(args) == 1 {
				in, err := a.insights.Generate(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				list = []models.Insight{in}
			} else if list, err = a.insights.All(cmd.Context()); err != nil {
				return err
			}

			for i, in := range list {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				printInsight(cmd.OutOrStdout(), in)
			}
			return nil
		},
	}
}

func printInsight(out io.Writer, in models.Insight) {
	source := in.Source
	if in.Provider != "" {
		source += " " + in.Provider
	}
	fmt.Fprintf(out, "%s [%s, %s]\n", in.Title, in.Kind, source)
	fmt.Fprintln(out, in.Summary)
	for _, h := range in.Highlights {
		fmt.Fprintf(out, "  - %s\n", h)
	}
}
