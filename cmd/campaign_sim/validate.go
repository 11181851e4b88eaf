package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/starshatter/campaign/internal/campaign"
	"github.com/starshatter/campaign/internal/config"
	"github.com/starshatter/campaign/internal/geo"
)

var validateCmd = &cobra.Command{
	Use:   "validate <definition.yaml>",
	Short: "Check a campaign definition and print its order of battle",
	Args:  cobra.ExactArgs(1),
	RunE:  validateCampaign,
}

func validateCampaign(cmd *cobra.Command, args []string) error {
	def, err := loadDefinition(args[0])
	if err != nil {
		return err
	}

	// building the campaign also compiles the strategy formula
	c, err := campaign.New(def, plannerOptions(config.GetPlannerConfig()), campaign.Dependencies{
		LogManager: SlogManager,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d combatants, %d zones, %d actions\n",
		c.Name(), len(c.Combatants()), len(c.Zones()), len(c.Actions()))
	for _, cmb := range c.Combatants() {
		fmt.Fprintf(out, "  [%d] %s value=%d\n", cmb.IFF, cmb.Name, cmb.Force.Value())
		for _, g := range cmb.Groups() {
			if g == cmb.Force {
				continue
			}
			fmt.Fprintf(out, "    %-28s %-10s %s\n", g.Description(), g.Region, geo.WKT(g.Location))
		}
	}
	if pg := c.PlayerGroup(); pg != nil {
		fmt.Fprintf(out, "  player group: %s\n", pg.Description())
	}
	return nil
}
