package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"

	"muko/data"
)

var (
	devColor  = tablewriter.Colors{tablewriter.Bold, tablewriter.FgGreenColor}
	prodColor = tablewriter.Colors{tablewriter.Bold, tablewriter.FgBlueColor}
)

// renderTable prints entries as Mode | Domain | Alias | Dev IP | Prod IP.
// Colours are only emitted when color is set.
func renderTable(w io.Writer, entries []data.ManagedEntry, color bool) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Mode", "Domain", "Alias", "Dev IP", "Prod IP"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	for _, e := range entries {
		row := []string{e.Mode().String(), e.Domain, e.DisplayAlias(), e.IP, prodIPCell(e)}
		if !color {
			table.Append(row)
			continue
		}
		modeColor := devColor
		if !e.Active {
			modeColor = prodColor
		}
		table.Rich(row, []tablewriter.Colors{modeColor, {}, {}, {}, {}})
	}
	table.Render()
}

// prodIPCell is blank for DEV rows and "-" when resolution failed.
func prodIPCell(e data.ManagedEntry) string {
	if e.Active {
		return ""
	}
	if e.ProdIP == "" {
		return "-"
	}
	return e.ProdIP
}

func writeJSON(w io.Writer, entries []data.ManagedEntry) error {
	if entries == nil {
		entries = []data.ManagedEntry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
