package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/napolitain/lastwar-buildtime/internal/calc"
	"github.com/napolitain/lastwar-buildtime/internal/format"
	"github.com/napolitain/lastwar-buildtime/internal/models"
)

type calcOptions struct {
	building   string
	transition string
	base       string
	self       float64
	bonus      float64
	now        string
	tz         string
}

func newCalcCmd(a *app) *cobra.Command {
	var opts calcOptions
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Apply speed bonuses to an upgrade and show when it finishes",
		Example: `  lwcalc calc -b 본부 -t "25 → 26" -s 82.5 --bonus 50
  lwcalc calc --base "4d 08:24:00" -s 82.5 --bonus 25 --tz Asia/Seoul`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCalc(opts)
		},
	}
	cmd.Flags().StringVarP(&opts.building, "building", "b", "", "Building ID (e.g. 본부)")
	cmd.Flags().StringVarP(&opts.transition, "transition", "t", "", `Upgrade, e.g. "25 → 26" or 25-26`)
	cmd.Flags().StringVar(&opts.base, "base", "", `Base duration instead of a catalog row, e.g. "4d 08:24:00"`)
	cmd.Flags().Float64VarP(&opts.self, "self", "s", 0, "Own construction speed in percent")
	cmd.Flags().Float64Var(&opts.bonus, "bonus", 0, "Extra speed bonus in percent (e.g. 0, 25, 50)")
	cmd.Flags().StringVar(&opts.now, "now", "", "Reference time in RFC 3339 (default: current time)")
	cmd.Flags().StringVar(&opts.tz, "tz", "", "Time zone for the finish time (default: config calculator.timezone)")

	cmd.MarkFlagsRequiredTogether("building", "transition")
	cmd.MarkFlagsMutuallyExclusive("building", "base")
	cmd.MarkFlagsOneRequired("building", "base")
	return cmd
}

func (a *app) runCalc(opts calcOptions) error {
	base, entry, err := a.resolveBase(opts)
	if err != nil {
		return err
	}

	loc, err := a.location(opts.tz)
	if err != nil {
		return err
	}

	ref, err := a.reference(opts.now, loc)
	if err != nil {
		return err
	}

	acc := models.Acceleration{SelfSpeedPercent: opts.self, BonusSpeedPercent: opts.bonus}
	result, err := a.cfg.Calculator.Policy().ReduceAcceleration(base, acc, ref)
	if err != nil {
		return err
	}

	if !a.quiet {
		a.banner("Construction Time")
		a.printCalcSummary(opts, entry, result)
	}

	successColor := color.New(color.FgGreen, color.Bold)
	successColor.Fprintf(a.out, "[최종 건설 시간] %s\n", result.Breakdown)
	successColor.Fprintf(a.out, "[완료 예정 시각] %s\n", format.Instant(result.CompletionInstant))
	return nil
}

func (a *app) resolveBase(opts calcOptions) (int64, *models.BuildingLevelEntry, error) {
	switch {
	case opts.building != "":
		e, err := a.catalog.Lookup(models.BuildingID(opts.building), opts.transition)
		if err != nil {
			return 0, nil, err
		}
		return e.BaseSeconds, &e, nil
	case opts.base != "":
		base, err := calc.ParseBaseDuration(opts.base)
		return base, nil, err
	}
	return 0, nil, errors.New("one of --building/--transition or --base is required")
}

func (a *app) location(tz string) (*time.Location, error) {
	if tz == "" {
		return a.cfg.Calculator.Location()
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: --tz %q: %v", models.ErrInvalidInput, tz, err)
	}
	return loc, nil
}

func (a *app) printCalcSummary(opts calcOptions, entry *models.BuildingLevelEntry, r models.CalculationResult) {
	infoColor := color.New(color.FgYellow)

	if entry != nil {
		infoColor.Fprintf(a.out, "🏗️  %s %s\n", opts.building, entry.Transition.Key())
		fmt.Fprintf(a.out, "   Costs: %s\n", format.Costs(entry.Costs))
		fmt.Fprintf(a.out, "   Prerequisites: %s\n\n", format.Prerequisites(entry.Prerequisites))
	}

	table := tablewriter.NewTable(a.out,
		tablewriter.WithHeader([]string{"Base", "Speed", "Reduced", "Saved", "Start", "Finish"}),
	)
	_ = table.Append([]string{
		format.Duration(r.BaseSeconds),
		format.Percent(r.TotalSpeedPercent),
		r.Breakdown.String(),
		format.Duration(r.SavedSeconds),
		format.Instant(r.ReferenceInstant),
		format.Instant(r.CompletionInstant),
	})
	_ = table.Render()
	fmt.Fprintln(a.out)
}
