package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/asaidimu/go-sysparm/core/persistence"
	"github.com/asaidimu/go-sysparm/core/schema"
)

const timeLayout = time.RFC3339

// filterDetail renders one saved filter.
type filterDetail persistence.SavedFilter

func (f filterDetail) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s\n", f.Name)
	fmt.Fprintf(tw, "ID:\t%s\n", f.ID)
	fmt.Fprintf(tw, "Table:\t%s\n", f.Table)
	fmt.Fprintf(tw, "Query:\t%s\n", f.Query)
	fmt.Fprintf(tw, "Created:\t%s\n", f.CreatedAt.Format(timeLayout))
	fmt.Fprintf(tw, "Updated:\t%s\n", f.UpdatedAt.Format(timeLayout))
	return tw.Flush()
}

// filterList renders saved filters one per line.
type filterList []persistence.SavedFilter

func (l filterList) WriteText(w io.Writer) error {
	if len(l) == 0 {
		_, err := fmt.Fprintln(w, "No saved filters.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTABLE\tQUERY")
	for _, f := range l {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Name, f.Table, f.Query)
	}
	return tw.Flush()
}

type deleteResult struct {
	Deleted string `json:"deleted" yaml:"deleted"`
}

func (d deleteResult) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Deleted %s\n", d.Deleted)
	return err
}

type matchResult struct {
	Query string            `json:"query" yaml:"query"`
	Count int               `json:"count" yaml:"count"`
	Rows  []schema.Document `json:"rows" yaml:"rows"`
}

func (m matchResult) WriteText(w io.Writer) error {
	query := m.Query
	if query == "" {
		query = "EMPTY QUERY"
	}
	fmt.Fprintf(w, "Query: %s\n", query)
	fmt.Fprintf(w, "Matched %d row(s)\n", m.Count)
	for _, row := range m.Rows {
		fmt.Fprintf(w, "%v\n", map[string]any(row))
	}
	return nil
}
