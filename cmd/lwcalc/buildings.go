package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/napolitain/lastwar-buildtime/internal/converter"
	"github.com/napolitain/lastwar-buildtime/internal/format"
	"github.com/napolitain/lastwar-buildtime/internal/models"
)

func newBuildingsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "buildings",
		Short: "List buildings in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBuildings()
		},
	}
}

func (a *app) runBuildings() error {
	a.banner("Buildings")

	table := tablewriter.NewTable(a.out,
		tablewriter.WithHeader([]string{"ID", "Name", "Transitions", "Highest"}),
	)
	for _, id := range a.catalog.Buildings() {
		b, err := a.catalog.Building(id)
		if err != nil {
			return err
		}
		dto := converter.BuildingToDTO(b)
		_ = table.Append([]string{dto.ID, dto.Name, fmt.Sprintf("%d", dto.Transitions), dto.Highest})
	}
	_ = table.Render()

	if !a.quiet {
		color.New(color.FgYellow).Fprintf(a.out, "\n📦 %d buildings, %d transitions\n", len(a.catalog.Buildings()), a.catalog.Len())
	}
	return nil
}

func newTableCmd(a *app) *cobra.Command {
	var building string
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Show a building's upgrade table, highest level first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTable(models.BuildingID(building))
		},
	}
	cmd.Flags().StringVarP(&building, "building", "b", "", "Building ID (e.g. 본부)")
	_ = cmd.MarkFlagRequired("building")
	return cmd
}

func (a *app) runTable(id models.BuildingID) error {
	b, err := a.catalog.Building(id)
	if err != nil {
		return err
	}
	entries, err := a.catalog.Entries(id)
	if err != nil {
		return err
	}

	a.banner(b.DisplayName())

	header := []string{"Upgrade", "Base Time"}
	for _, rt := range models.AllResourceTypes() {
		header = append(header, format.ResourceLabel(rt))
	}
	header = append(header, "Prerequisites")

	table := tablewriter.NewTable(a.out, tablewriter.WithHeader(header))
	for _, e := range entries {
		row := []string{e.Transition.Key(), format.Duration(e.BaseSeconds)}
		for _, rt := range models.AllResourceTypes() {
			row = append(row, format.Resource(e.Costs.Get(rt)))
		}
		row = append(row, format.Prerequisites(e.Prerequisites))
		_ = table.Append(row)
	}
	_ = table.Render()
	return nil
}
