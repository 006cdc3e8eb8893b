package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vanshika/osintportal/internal/domain"
	"github.com/vanshika/osintportal/internal/service"
	"github.com/vanshika/osintportal/internal/validate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func (a *app) newBatchCmd() *cobra.Command {
	var (
		input  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "batch <kind>",
		Short: "Look up every query in a file, one JSON document per line",
		Long: "Reads one query per line from --input (\"-\" for stdin). Blank lines and lines " +
			"starting with # are skipped. Each completed lookup is written as a JSON line; " +
			"rejected queries are reported on stderr.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"username", "domain", "email", "ip"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := domain.ParseKind(args[0])
			if err != nil {
				return err
			}

			workers := 0
			if cmd.Flags().Changed("workers") {
				if workers, err = cmd.Flags().GetInt("workers"); err != nil {
					return err
				}
				if workers <= 0 {
					return fmt.Errorf("--workers must be a positive integer, got %d", workers)
				}
			}

			queries, err := readQueries(input, cmd.InOrStdin())
			if err != nil {
				return err
			}

			rt, err := a.build(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.Close()

			w, closeOutput, err := openOutput(output, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer func() { _ = closeOutput() }()

			encoder := json.NewEncoder(w)
			if output == "" && a.isTerminal(cmd.OutOrStdout()) {
				encoder.SetIndent("", "  ")
			}

			if workers == 0 {
				workers = rt.cfg.Lookup.BatchWorkers
			}

			emitted := 0
			runner := service.NewBulkRunner(rt.service, workers)
			err = runner.Run(cmd.Context(), kind, queries, func(_ int, l domain.Lookup) error {
				emitted++
				return encoder.Encode(l)
			})
			if taskErr, ok := service.IsPartial(err); ok {
				for _, qErr := range taskErr.Errors {
					fmt.Fprintln(cmd.ErrOrStderr(), "skipped", qErr)
				}
				return fmt.Errorf("%d of %d queries rejected", len(taskErr.Errors), len(queries))
			}
			if err != nil {
				return err
			}
			rt.logger.Info("batch complete", zap.Int("emitted", emitted), zap.Int("workers", workers))
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "file with one query per line (\"-\" for stdin)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write JSON lines to a file instead of stdout")
	cmd.Flags().IntP("workers", "w", 0, "number of concurrent lookups (defaults to lookup.batch_workers)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func readQueries(path string, stdin io.Reader) ([]string, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	var queries []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := validate.SanitizeLine(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		queries = append(queries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if len(queries) == 0 {
		return nil, fmt.Errorf("no queries found in %s", path)
	}
	return queries, nil
}
