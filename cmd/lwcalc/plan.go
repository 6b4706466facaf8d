package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/napolitain/lastwar-buildtime/internal/format"
	"github.com/napolitain/lastwar-buildtime/internal/models"
	"github.com/napolitain/lastwar-buildtime/internal/plan"
)

type planOptions struct {
	building string
	from     int
	to       int
	self     float64
	bonus    float64
	now      string
	tz       string
}

func newPlanCmd(a *app) *cobra.Command {
	var opts planOptions
	cmd := &cobra.Command{
		Use:     "plan",
		Short:   "Schedule consecutive upgrades of one building back to back",
		Example: `  lwcalc plan -b 본부 --from 25 --to 28 -s 82.5 --bonus 50`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPlan(opts)
		},
	}
	cmd.Flags().StringVarP(&opts.building, "building", "b", "", "Building ID (e.g. 본부)")
	cmd.Flags().IntVar(&opts.from, "from", 0, "Current level")
	cmd.Flags().IntVar(&opts.to, "to", 0, "Target level")
	cmd.Flags().Float64VarP(&opts.self, "self", "s", 0, "Own construction speed in percent")
	cmd.Flags().Float64Var(&opts.bonus, "bonus", 0, "Extra speed bonus in percent (e.g. 0, 25, 50)")
	cmd.Flags().StringVar(&opts.now, "now", "", "Start time in RFC 3339 (default: current time)")
	cmd.Flags().StringVar(&opts.tz, "tz", "", "Time zone for displayed times (default: config calculator.timezone)")
	_ = cmd.MarkFlagRequired("building")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func (a *app) runPlan(opts planOptions) error {
	loc, err := a.location(opts.tz)
	if err != nil {
		return err
	}
	start, err := a.reference(opts.now, loc)
	if err != nil {
		return err
	}

	planner := plan.NewPlanner(a.catalog, a.cfg.Calculator.Policy())
	acc := models.Acceleration{SelfSpeedPercent: opts.self, BonusSpeedPercent: opts.bonus}
	p, err := planner.Plan(models.BuildingID(opts.building), opts.from, opts.to, acc, start)
	if err != nil {
		return err
	}

	if !a.quiet {
		a.banner("Upgrade Plan")
		a.printPlanSteps(p)
	}

	successColor := color.New(color.FgGreen, color.Bold)
	successColor.Fprintf(a.out, "[최종 건설 시간] %s\n", p.Breakdown())
	successColor.Fprintf(a.out, "[완료 예정 시각] %s\n", format.Instant(p.End))
	return nil
}

func (a *app) printPlanSteps(p plan.Plan) {
	table := tablewriter.NewTable(a.out,
		tablewriter.WithHeader([]string{"#", "Upgrade", "Base", "Reduced", "Start", "End", "Costs"}),
	)
	for i, s := range p.Steps {
		_ = table.Append([]string{
			fmt.Sprintf("%d", i+1),
			s.Entry.Transition.Key(),
			format.Duration(s.Entry.BaseSeconds),
			s.Result.Breakdown.String(),
			format.Instant(s.Start()),
			format.Instant(s.End()),
			format.Costs(s.Entry.Costs),
		})
	}
	_ = table.Render()

	fmt.Fprintf(a.out, "\n⏱️  Total: %s of %s base (%s saved)\n",
		p.Breakdown(), format.Duration(p.BaseSeconds), format.Duration(p.BaseSeconds-p.ReducedSeconds))
	fmt.Fprintf(a.out, "💰 Costs: %s\n\n", format.Costs(p.Costs))
}

// reference parses an RFC 3339 --now value, defaulting to the clock, in loc
func (a *app) reference(now string, loc *time.Location) (time.Time, error) {
	if now == "" {
		return a.now().In(loc), nil
	}
	t, err := time.Parse(time.RFC3339, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: --now: %v", models.ErrInvalidInput, err)
	}
	return t.In(loc), nil
}
