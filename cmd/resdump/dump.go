package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wippyai/pe-emit/win32res"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	dataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

const defaultWidth = 100

var typeNames = map[int32]string{
	win32res.TypeCursor:      "CURSOR",
	win32res.TypeBitmap:      "BITMAP",
	win32res.TypeIcon:        "ICON",
	win32res.TypeMenu:        "MENU",
	win32res.TypeDialog:      "DIALOG",
	win32res.TypeString:      "STRING",
	win32res.TypeRCData:      "RCDATA",
	win32res.TypeGroupCursor: "GROUP_CURSOR",
	win32res.TypeGroupIcon:   "GROUP_ICON",
	win32res.TypeVersion:     "VERSION",
	win32res.TypeManifest:    "MANIFEST",
}

func typeName(t win32res.NameOrID) string {
	if !t.IsName() {
		if name, ok := typeNames[t.ID()]; ok {
			return name
		}
	}
	return t.String()
}

// hexPreview renders at most width characters of data as hex.
func hexPreview(data []byte, width int) string {
	n := width / 2
	if n <= 0 {
		return ""
	}
	if len(data) <= n {
		return hex.EncodeToString(data)
	}
	if n <= 1 {
		return "…"
	}
	return hex.EncodeToString(data[:n-1]) + "…"
}

func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

func formatEntry(r win32res.Resource, width int) string {
	head := fmt.Sprintf("%-14s %-20s lang=0x%04x cp=%d size=%d",
		typeName(r.Type), r.Name, r.LanguageID, r.CodePage, len(r.Data))
	line := typeStyle.Render(fmt.Sprintf("%-14s", typeName(r.Type))) + " " +
		nameStyle.Render(fmt.Sprintf("%-20s", r.Name)) +
		fmt.Sprintf(" lang=0x%04x cp=%d size=%d", r.LanguageID, r.CodePage, len(r.Data))
	if room := width - len(head) - 2; room > 8 {
		line += "  " + dataStyle.Render(hexPreview(r.Data, room))
	}
	return line
}

func dump(w io.Writer, path string, resources []win32res.Resource, width int) {
	fmt.Fprintf(w, "%s %s (%d resources)\n\n", titleStyle.Render("RES"), path, len(resources))
	for _, r := range resources {
		fmt.Fprintln(w, formatEntry(r, width))
	}
	fmt.Fprintln(w)
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file.res>...",
		Short: "List the resources of .res files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			width := terminalWidth()
			out := cmd.OutOrStdout()
			var failed int
			for _, path := range args {
				res, err := readResources(path)
				if err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render(err.Error()))
					failed++
					continue
				}
				dump(out, path, res, width)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files could not be read", failed, len(args))
			}
			return nil
		},
	}
}

func describeTypes(resources []win32res.Resource) string {
	counts := map[string]int{}
	var order []string
	for _, r := range resources {
		n := typeName(r.Type)
		if counts[n] == 0 {
			order = append(order, n)
		}
		counts[n]++
	}
	parts := make([]string, len(order))
	for i, n := range order {
		parts[i] = fmt.Sprintf("%s×%d", n, counts[n])
	}
	return strings.Join(parts, " ")
}
