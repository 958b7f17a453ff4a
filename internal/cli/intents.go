package cli

import (
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/mrlokans/library-agent/internal/agent"
)

func (a *app) newIntentsCommand() *cobra.Command {
	var route string

	cmd := &cobra.Command{
		Use:   "intents",
		Short: "List question patterns in match order",
		Long: `List the question patterns in the order they are tried. The first
pattern that matches a question decides how it is answered.

With --route, show which pattern a question would match instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := agent.DefaultPatterns()
			if cmd.Flags().Changed("route") {
				return printRoute(cmd, table, route)
			}
			return printPatterns(cmd, table)
		},
	}

	cmd.Flags().StringVar(&route, "route", "", "Show the pattern a question routes to")
	return cmd
}

func printPatterns(cmd *cobra.Command, table agent.PatternTable) error {
	data := pterm.TableData{{"#", "Intent", "Pattern"}}
	for i, p := range table {
		data = append(data, []string{strconv.Itoa(i + 1), string(p.Intent), p.Regexp.String()})
	}

	rendered, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render pattern table")
	}
	fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return nil
}

func printRoute(cmd *cobra.Command, table agent.PatternTable, question string) error {
	out := cmd.OutOrStdout()
	outcome := table.Route(question)

	switch outcome.Kind {
	case agent.OutcomeMatched:
		fmt.Fprintf(out, "intent:  %s\npattern: #%d %s\n", outcome.Intent, outcome.Position+1, table[outcome.Position].Regexp)
		for i, g := range outcome.Groups {
			fmt.Fprintf(out, "group %d: %q\n", i+1, g)
		}
	default:
		fmt.Fprintf(out, "intent:  %s (%s)\n", agent.IntentUnknown, outcome.Kind)
	}
	return nil
}
