/*
Copyright © 2024 Victor Hang
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Banh-Canh/cinedeck/internal/nav"
	"github.com/Banh-Canh/cinedeck/internal/render"
	"github.com/Banh-Canh/cinedeck/pkg/catalog"
)

var (
	listFlags  locationFlags
	listOutput string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the titles a page would show",
	Long: `
Print the titles shown for a search, theme or category without starting the TUI.

Examples:
  cinedeck list --search drama
  cinedeck list --location "/theme?theme=Action"
  cinedeck list --category series --output json`,
	Run: func(cmd *cobra.Command, args []string) {
		loc, err := listFlags.resolve()
		if err != nil {
			fmt.Printf("❌ Invalid location: %v\n", err)
			os.Exit(1)
		}
		cat, err := loadCatalog()
		if err != nil {
			fmt.Printf("❌ Error loading catalog: %v\n", err)
			os.Exit(1)
		}
		if err := runList(cmd.OutOrStdout(), cat, loc, cfg.Catalog.Featured, listOutput); err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	listFlags.register(listCmd)
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "table", "output format: table or json")
	RootCmd.AddCommand(listCmd)
}

var (
	listHeadingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#bb9af7"))
	listHeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7aa2f7")).Padding(0, 1)
	listCellStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#c0caf5")).Padding(0, 1)
	listMutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
)

func runList(w io.Writer, cat *catalog.Catalog, loc nav.Location, featured int, output string) error {
	results := render.NewContainer(render.NoResults, nil)
	ctrl := nav.NewController(cat, nav.Regions{Results: results}, nav.Options{FeaturedCount: featured})
	state, _ := ctrl.Load(loc)

	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Heading string          `json:"heading"`
			Address string          `json:"address"`
			Titles  []catalog.Title `json:"titles"`
		}{state.Heading, ctrl.Address(), state.Titles})
	case "table", "":
	default:
		return fmt.Errorf("unknown output format %q", output)
	}

	fmt.Fprintln(w, listHeadingStyle.Render(state.Heading))
	if results.Empty() {
		fmt.Fprintln(w, listMutedStyle.Render(results.Placeholder()))
		return nil
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#3b4261"))).
		Headers("ID", "NAME", "THEME", "TYPE", "YEAR", "LENGTH").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return listHeaderStyle
			}
			return listCellStyle
		})
	for _, u := range results.Units() {
		t.Row(u.TitleID, u.Name, u.Theme, u.Type, u.Year, u.Length)
	}
	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w, listMutedStyle.Render(fmt.Sprintf("%s of %s titles · %s",
		humanize.Comma(int64(results.Len())), humanize.Comma(int64(cat.Len())), ctrl.Address())))
	return nil
}
