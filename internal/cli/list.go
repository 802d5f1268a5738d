package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/listctl/internal/logging"
	"github.com/rshade/listctl/internal/pagination"
	"github.com/rshade/listctl/internal/records"
)

// Output formats of the list command.
const (
	OutputTable  = "table"
	OutputJSON   = "json"
	OutputNDJSON = "ndjson"
)

const (
	tabPadding     = 2
	updatedLayout  = "2006-01-02 15:04"
	maxDetailWidth = 48
)

// ErrInvalidOutput is returned for an unknown --output value.
var ErrInvalidOutput = errors.New("output must be table, json or ndjson")

type listFlags struct {
	datasetFlags

	page     int
	search   string
	statuses []string
	output   string
}

// listResult is the JSON document written by list --output json.
type listResult struct {
	Kind    records.Kind             `json:"kind"`
	Source  string                   `json:"source"`
	Filter  listFilter               `json:"filter"`
	Meta    pagination.Meta          `json:"meta"`
	Window  []pagination.WindowEntry `json:"window"`
	Records []records.Record         `json:"records"`
}

type listFilter struct {
	Search   string   `json:"search,omitempty"`
	Statuses []string `json:"statuses,omitempty"`
}

// NewListCmd creates the list command, which prints one page of records.
func NewListCmd() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list <groups|flows>",
		Short: "Print one page of records",
		Long: `Loads the dataset, applies the status filter and name search, and prints
the requested page together with the page navigation strip.

A page past the end is clamped to the last page. The default output is a
table on a terminal and JSON otherwise.`,
		Example: `  # First page of groups
  listctl list groups

  # Draft or deprecated flows, page 3, 10 per page
  listctl list flows --status DRAFT --status DEPRECATED --page 3 --page-size 10

  # Stream the matching records as JSON lines
  listctl list groups --search team --output ndjson`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args, &flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&flags.page, "page", pagination.DefaultPage, "page to print (1-based)")
	cmd.Flags().StringVar(&flags.search, "search", "", "case-insensitive substring of the record name")
	cmd.Flags().StringSliceVar(&flags.statuses, "status", nil, "keep only records with this status (repeatable)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output format: table, json or ndjson")

	return cmd
}

func runList(cmd *cobra.Command, args []string, flags *listFlags) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	kind, err := kindArg(args)
	if err != nil {
		return err
	}
	output, err := resolveOutput(flags.output, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	statuses, err := canonicalStatuses(kind, flags.statuses)
	if err != nil {
		return err
	}

	cfg := configFromContext(ctx)
	p := flags.params(cmd, cfg)
	p.Page = flags.page
	p.Search = flags.search
	p.Statuses = statuses
	if err = p.Validate(); err != nil {
		return err
	}

	f, err := newFetcher(ctx, cfg, kind, flags.source)
	if err != nil {
		return err
	}
	recs, err := fetchOnce(ctx, f)
	if err != nil {
		return err
	}

	ctrl := newController(ctx, p)
	ctrl.Load(recs)
	pagination.Apply(*p, ctrl)

	if ctrl.CurrentPage() != p.Page && ctrl.TotalPages() > 0 {
		log.Debug().Ctx(ctx).
			Str("component", "cli").
			Int("requested", p.Page).
			Int("page", ctrl.CurrentPage()).
			Msg("requested page clamped")
	}

	result := listResult{
		Kind:    kind,
		Source:  f.Describe(),
		Filter:  listFilter{Search: ctrl.Filter().Search, Statuses: ctrl.Filter().StatusList()},
		Meta:    ctrl.Meta(),
		Window:  ctrl.PageWindow(),
		Records: ctrl.PageSlice(),
	}

	w := cmd.OutOrStdout()
	switch output {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case OutputNDJSON:
		enc := json.NewEncoder(w)
		for _, r := range result.Records {
			if err = enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	default:
		return renderTable(w, result, ctrl.NoRecords())
	}
}

// resolveOutput picks the output format, defaulting by whether w is a terminal.
func resolveOutput(flag string, w io.Writer) (string, error) {
	switch strings.ToLower(flag) {
	case OutputTable:
		return OutputTable, nil
	case OutputJSON:
		return OutputJSON, nil
	case OutputNDJSON:
		return OutputNDJSON, nil
	case "":
		if f, ok := w.(*os.File); ok && isTerminal(f) {
			return OutputTable, nil
		}
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("%w, got %q", ErrInvalidOutput, flag)
	}
}

// canonicalStatuses maps user input onto the status spelling used by kind.
func canonicalStatuses(kind records.Kind, in []string) ([]string, error) {
	known := records.KnownStatuses(kind)
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		match := ""
		for _, k := range known {
			if strings.EqualFold(k, s) {
				match = k
				break
			}
		}
		if match == "" {
			return nil, fmt.Errorf("%w: %q for %s (known: %s)",
				records.ErrUnknownStatus, s, kind, strings.Join(known, ", "))
		}
		out = append(out, match)
	}
	return out, nil
}

// renderTable writes the page as a table followed by the page strip.
func renderTable(w io.Writer, res listResult, noRecords bool) error {
	p := message.NewPrinter(language.English)

	switch {
	case noRecords:
		_, err := p.Fprintf(w, "No %s yet.\n", res.Kind)
		return err
	case res.Meta.TotalItems == 0:
		_, err := p.Fprintf(w, "No %s match the current filter.\n", res.Kind)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSTATUS\tDETAIL\tUPDATED\tID")
	for _, r := range res.Records {
		updated := "-"
		if !r.Updated.IsZero() {
			updated = r.Updated.Format(updatedLayout)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Name, r.Status, clip(r.Detail, maxDetailWidth), updated, r.ID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	m := res.Meta
	if _, err := p.Fprintf(w, "\n‹ %s ›\n", pagination.FormatWindow(res.Window)); err != nil {
		return err
	}
	_, err := p.Fprintf(w, "Showing %d–%d of %d %s (page %d of %d)\n",
		m.Start, m.End, m.TotalItems, res.Kind, m.CurrentPage, m.TotalPages)
	return err
}

func clip(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
