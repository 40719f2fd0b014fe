package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/initia-labs/counterd/x/counter/types"
	"github.com/initia-labs/counterd/x/counter/workflow"
)

// GetTxCmds returns the commands submitting counter calls.
func GetTxCmds(newApp AppCreator) []*cobra.Command {
	return []*cobra.Command{
		CreateCmd(newApp),
		IncreaseCmd(newApp),
	}
}

// CreateCmd calls <package>::counter::create.
func CreateCmd(newApp AppCreator) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [init-value]",
		Short: "Create a counter",
		Long: strings.TrimSpace(`
Create a counter starting at init-value. The init value is kept for later
invocations; when omitted the last one is used (0 initially).

Example:
$ counterd create 10 --counter.package-id 0x2f3a...
`),
		Args:    cobra.MaximumNArgs(1),
		Aliases: []string{"c"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var initValue *uint64
			if len(args) == 1 {
				v, err := ParseU64("init value", args[0])
				if err != nil {
					return err
				}
				initValue = &v
			}

			return runAction(cmd, newApp, func(s *types.UIState) {
				if initValue != nil {
					s.InitValue = *initValue
				}
			}, (*workflow.Workflow).Create)
		},
	}

	AddOutputFlagToCmd(cmd)
	return cmd
}

// IncreaseCmd calls <package>::counter::increase.
func IncreaseCmd(newApp AppCreator) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "increase [amount]",
		Short: "Increase a counter",
		Long: strings.TrimSpace(`
Increase a counter by amount. The amount and the counter id are kept for
later invocations; when omitted the last ones are used.

Example:
$ counterd increase 5 --counter-id 0x8b1c...
`),
		Args:    cobra.MaximumNArgs(1),
		Aliases: []string{"i"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var amount *uint64
			if len(args) == 1 {
				v, err := ParseU64("amount", args[0])
				if err != nil {
					return err
				}
				amount = &v
			}

			counterID, err := cmd.Flags().GetString(FlagCounterID)
			if err != nil {
				return err
			}

			return runAction(cmd, newApp, func(s *types.UIState) {
				if amount != nil {
					s.IncrementAmount = *amount
				}
				if counterID != "" {
					s.CounterID = counterID
				}
			}, (*workflow.Workflow).Increase)
		},
	}

	cmd.Flags().AddFlagSet(FlagSetCounterID())
	AddOutputFlagToCmd(cmd)
	return cmd
}

// runAction applies the user input, runs one attempt, persists the view
// state and prints the outcome. A failed attempt makes the command fail.
func runAction(
	cmd *cobra.Command,
	newApp AppCreator,
	input func(*types.UIState),
	action func(*workflow.Workflow, context.Context) workflow.Outcome,
) error {
	app, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	wf := app.Workflow()
	wf.View().Update(input)

	outcome := action(wf, cmd.Context())
	if err := app.SaveState(); err != nil {
		return err
	}

	if err := PrintOutput(cmd, outcome); err != nil {
		return err
	}

	if outcome.Err != nil {
		return fmt.Errorf("%s %s: %w", outcome.Action, outcome.Phase, outcome.Err)
	}

	return nil
}
