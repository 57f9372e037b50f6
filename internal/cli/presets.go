package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/logsift/logsift/pkg/filter"
)

// presetListing is the serializable view of one preset.
type presetListing struct {
	ID       string `json:"id" yaml:"id"`
	Label    string `json:"label" yaml:"label"`
	Duration string `json:"duration" yaml:"duration"`
}

// presetGroupListing is the serializable view of one display group.
type presetGroupListing struct {
	Name    string          `json:"name" yaml:"name"`
	Presets []presetListing `json:"presets" yaml:"presets"`
}

func newPresetsCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List the rolling time window presets",
		Long: `List the preset windows accepted by --last, grouped for display.

Examples:
  logsift presets
  logsift presets -o json
  logsift presets -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			groups := make([]presetGroupListing, 0)
			for _, g := range filter.PresetGroups() {
				listing := presetGroupListing{Name: g.Name}
				for _, id := range g.Presets {
					d, err := id.Duration()
					if err != nil {
						return err
					}
					listing.Presets = append(listing.Presets, presetListing{
						ID:       string(id),
						Label:    id.Label(),
						Duration: d.String(),
					})
				}
				groups = append(groups, listing)
			}

			switch outputFormat {
			case "json":
				data, err := json.MarshalIndent(groups, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal JSON: %w", err)
				}
				fmt.Println(string(data))
			case "yaml":
				data, err := yaml.Marshal(groups)
				if err != nil {
					return fmt.Errorf("failed to marshal YAML: %w", err)
				}
				fmt.Print(string(data))
			case "table":
				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "GROUP\tID\tLABEL")
				for _, g := range groups {
					for _, p := range g.Presets {
						fmt.Fprintf(w, "%s\t%s\t%s\n", g.Name, p.ID, p.Label)
					}
				}
				return w.Flush()
			default:
				return fmt.Errorf("unknown output format %q (expected table, json, or yaml)", outputFormat)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json, yaml)")

	return cmd
}
