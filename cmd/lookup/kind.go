package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vanshika/osintportal/internal/domain"
	"github.com/vanshika/osintportal/internal/export"
	"github.com/vanshika/osintportal/internal/validate"
)

var examples = map[domain.Kind]string{
	domain.KindUsername: "johndoe",
	domain.KindDomain:   "example.com",
	domain.KindEmail:    "user@example.com",
	domain.KindIP:       "8.8.8.8",
}

func (a *app) newKindCmd(kind domain.Kind) *cobra.Command {
	var (
		format string
		output string
	)

	formats := export.Formats(kind)
	cmd := &cobra.Command{
		Use:     kind.String() + " <query>",
		Short:   fmt.Sprintf("Look up a single %s", kind),
		Example: fmt.Sprintf("  lookup %s %s --format %s", kind, examples[kind], formats[len(formats)-1]),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(kind, format)
			if err != nil {
				return err
			}

			rt, err := a.build(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.Close()

			l, err := rt.service.Lookup(cmd.Context(), kind, args[0])
			if err != nil {
				if notice, ok := validate.Notice(err); ok {
					return fmt.Errorf("%s: %s", notice.Title, notice.Message)
				}
				return err
			}

			w, closeOutput, err := openOutput(output, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := export.Write(w, f, l); err != nil {
				_ = closeOutput()
				return err
			}
			if err := closeOutput(); err != nil {
				return err
			}

			if output != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s\nwrote %s\n", l.Summary, output)
			} else if a.isTerminal(cmd.OutOrStdout()) {
				fmt.Fprintln(cmd.ErrOrStderr(), l.Summary)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatJSON), fmt.Sprintf("output format %v", formats))
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result to a file instead of stdout")
	return cmd
}
