package cmd

import (
	"fmt"
	"strings"

	"github.com/joonpark/srnav/core"
	"github.com/joonpark/srnav/internal/contract"
	"github.com/joonpark/srnav/schema"
	"github.com/spf13/cobra"
)

// queryFromCommand builds a search query from the positional title argument
// and the per-invocation query flags. These flags are read straight from
// Cobra rather than Viper because they describe a single search, not
// persistent configuration.
func queryFromCommand(cmd *cobra.Command, args []string) (schema.Query, error) {
	var q schema.Query
	if len(args) > 0 {
		q.Title = args[0]
	}

	var err error
	if q.Description, err = cmd.Flags().GetString("description"); err != nil {
		return q, err
	}
	if q.System, err = cmd.Flags().GetString("system"); err != nil {
		return q, err
	}
	if q.Category, err = cmd.Flags().GetString("category"); err != nil {
		return q, err
	}

	components, err := cmd.Flags().GetString("components")
	if err != nil {
		return q, err
	}
	for _, c := range strings.Split(components, ",") {
		if c = strings.TrimSpace(c); c != "" {
			q.Components = append(q.Components, c)
		}
	}

	priority, err := cmd.Flags().GetString("priority")
	if err != nil {
		return q, err
	}
	if priority != "" {
		p := schema.Priority(priority)
		if _, ok := p.Rank(); !ok {
			return q, fmt.Errorf("priority must be one of Critical, High, Medium, Low (received %q)", priority)
		}
		q.Priority = p
	}

	return q, nil
}

// runSearch adapts a core executor into a Cobra run function, wiring the
// query flags and the active record provider.
func runSearch(executor core.ExecutorFunc, failMsg string) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		q, err := queryFromCommand(cmd, args)
		if err != nil {
			contract.LogFatal("Invalid query flags", err)
		}
		provider, err := activeProvider()
		if err != nil {
			contract.LogFatal("Cannot load records", err)
		}
		if err := executor(rootCtx, cfg, q, provider); err != nil {
			contract.LogFatal(failMsg, err)
		}
	}
}
