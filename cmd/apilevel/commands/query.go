package commands

import (
	"bufio"
	"context"

	"github.com/spf13/cobra"
	"go.trai.ch/apilevel/internal/app"
	"go.trai.ch/apilevel/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Answer queries read line by line from standard input",
		Long: `Answer queries read line by line from standard input.

Each line holds one query: "<kind> <arg>...", where kind is one of
class, field, call, package, cast or super. Blank lines and lines
starting with '#' are ignored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			watch, _ := cmd.Flags().GetBool("watch")
			ctx := cmd.Context()
			opts := c.options()

			if watch {
				var cancel context.CancelFunc
				ctx, cancel = context.WithCancel(ctx)
				done := make(chan error, 1)
				go func() {
					done <- c.app.Watch(ctx, opts, nil)
				}()
				defer func() {
					cancel()
					if werr := <-done; werr != nil && err == nil {
						err = werr
					}
				}()
			}

			return c.runQueries(ctx, cmd, opts)
		},
	}
	cmd.Flags().BoolP("watch", "w", false, "Reload the database when the descriptor changes")
	return cmd
}

func (c *CLI) runQueries(ctx context.Context, cmd *cobra.Command, opts app.Options) error {
	p := c.printer(cmd.OutOrStdout())
	scanner := bufio.NewScanner(cmd.InOrStdin())
	failed := 0
	for n := 1; scanner.Scan(); n++ {
		q, ok, err := app.ParseQuery(scanner.Text())
		if err != nil {
			c.logger.Log(domain.SeverityError, zerr.With(err, "line", n), "")
			failed++
			continue
		}
		if !ok {
			continue
		}
		answers, err := c.app.Query(ctx, opts, q)
		if err != nil {
			return err
		}
		for _, a := range answers {
			if err := p.answer(a); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return zerr.Wrap(err, "failed to read queries")
	}
	if failed > 0 {
		return domain.ErrQueriesFailed
	}
	return nil
}
