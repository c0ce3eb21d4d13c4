// Package cli wires flowplan's single external operation (spec.md §2)
// onto a cobra command tree: read a task payload, schedule it, print
// the result as a table.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alexanderramin/flowplan/internal/cli/formatter"
	"github.com/alexanderramin/flowplan/internal/contract"
	"github.com/alexanderramin/flowplan/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// App holds the service collaborators CLI commands dispatch to.
type App struct {
	Schedule service.ScheduleService
}

// NewRootCmd builds the top-level "flowplan" command.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "flowplan",
		Short: "Parse a task list, verify it, and schedule it",
	}

	root.AddCommand(newScheduleCmd(app))
	return root
}

func newScheduleCmd(app *App) *cobra.Command {
	var save string

	cmd := &cobra.Command{
		Use:   "schedule [file]",
		Short: "Schedule a task payload (JSON, comma-CSV, or tab-CSV) from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			resp, errs := app.Schedule.ParseAndSchedule(ctx, contract.ScheduleRequest{Payload: payload}, time.Now())
			if len(errs) > 0 {
				for _, e := range errs {
					fmt.Fprintln(cmd.ErrOrStderr(), formatter.Dim("error: ")+e.Error())
				}
				return fmt.Errorf("scheduling failed: %d error(s)", len(errs))
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderSchedule(resp))

			if save != "" {
				id, err := app.Schedule.SaveSchedule(ctx, save, resp)
				if err != nil {
					return fmt.Errorf("save schedule: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\n%s %s (%s)\n", formatter.Dim("saved as"), save, id)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&save, "save", "", "persist the resulting schedule under this project name")
	return cmd
}

// readPayload reads the raw payload from args[0] (a file path, or "-"
// for stdin) or from stdin when no argument is given. Reading from an
// interactive terminal with no piped input would otherwise block
// forever waiting on a payload that's never coming, so that case is
// rejected up front.
func readPayload(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		if f, ok := stdin.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
			return "", fmt.Errorf("no input: pipe a payload to stdin or pass a file path")
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(data), nil
}
