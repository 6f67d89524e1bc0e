package output

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fatih/color"

	"github.com/ritzau/ontology-explorer/pkg/model"
	"github.com/ritzau/ontology-explorer/pkg/stats"
	"github.com/ritzau/ontology-explorer/pkg/tree"
	"github.com/ritzau/ontology-explorer/pkg/view"
)

var (
	bold   = color.New(color.Bold)
	red    = color.New(color.FgRed)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
	subtle = color.New(color.FgHiBlack)
)

func kindColor(k model.Kind) *color.Color {
	switch k {
	case model.KindClass:
		return cyan
	case model.KindInstance:
		return green
	case model.KindProperty:
		return yellow
	default:
		return color.New(color.Reset)
	}
}

// PrintView prints the snapshot as an indented tree. Collapsed parents get
// a ▸ marker, expanded ones ▾, and filter matches are highlighted.
func PrintView(w io.Writer, source string, snap *view.Snapshot) {
	bold.Fprintf(w, "Ontology: %s\n", source)
	if snap.Query != "" {
		fmt.Fprintf(w, "Filter: %q\n", snap.Query)
	}
	fmt.Fprintln(w)

	if len(snap.Rows) == 0 {
		yellow.Fprintln(w, "(nothing to show)")
		return
	}

	for _, row := range snap.Rows {
		marker := " "
		if row.HasChildren {
			marker = "▸"
			if row.Expanded {
				marker = "▾"
			}
		}

		fmt.Fprintf(w, "%s%s %s ", strings.Repeat("  ", row.Level), marker, row.Icon)
		label := kindColor(row.Kind)
		if row.Match {
			label = color.New(color.Bold, color.Underline)
		}
		label.Fprint(w, row.Label)
		if row.Label != row.ID {
			subtle.Fprintf(w, " (%s)", row.ID)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w)
	subtle.Fprintf(w, "%d of %d nodes shown\n", len(snap.Rows), snap.Total)
}

// PrintStats prints forest statistics
func PrintStats(w io.Writer, source string, st stats.Stats) {
	bold.Fprintln(w, "Ontology Statistics")
	bold.Fprintln(w, "===================")
	fmt.Fprintf(w, "Source: %s\n", source)
	fmt.Fprintf(w, "Nodes: %d\n", st.Nodes)
	fmt.Fprintf(w, "Roots: %d\n", st.Roots)
	fmt.Fprintf(w, "Leaves: %d\n", st.Leaves)
	fmt.Fprintf(w, "Max depth: %d\n", st.MaxDepth)
	fmt.Fprintf(w, "Expanded: %d\n", st.Expanded)

	if len(st.ByKind) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "By kind:")
	kinds := make([]model.Kind, 0, len(st.ByKind))
	for k := range st.ByKind {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	for _, k := range kinds {
		kindColor(k).Fprintf(w, "  %-10s %d\n", k.String(), st.ByKind[k])
	}
}

// PrintError explains a failed load. Malformed input gets the reason and,
// for cycles, the members involved.
func PrintError(w io.Writer, err error) {
	var malformed *tree.MalformedInputError
	if !errors.As(err, &malformed) {
		red.Fprintf(w, "✗ %v\n", err)
		return
	}

	red.Fprintf(w, "✗ Malformed input: %s\n", malformed.Reason)
	if malformed.ID != "" {
		fmt.Fprintf(w, "  Node: %s\n", malformed.ID)
	}
	if malformed.Ref != "" {
		fmt.Fprintf(w, "  Parent reference: %s\n", malformed.Ref)
	}
	if len(malformed.Cycle) > 0 {
		yellow.Fprintf(w, "  Cycle: %s -> %s\n", strings.Join(malformed.Cycle, " -> "), malformed.Cycle[0])
	}
}
