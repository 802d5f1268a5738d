package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/listctl/internal/config"
	"github.com/rshade/listctl/internal/loader"
	"github.com/rshade/listctl/internal/logging"
	"github.com/rshade/listctl/internal/pagination"
	"github.com/rshade/listctl/internal/records"
	"github.com/rshade/listctl/internal/source"
)

// datasetFlags are the flags shared by browse and list.
type datasetFlags struct {
	source       string
	pageSize     int
	visiblePages int
	resetFirst   bool
}

func (f *datasetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.source, "source", "",
		"load records from this path, URL or mongodb URI instead of the configured source")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "records per page (default from config)")
	cmd.Flags().IntVar(&f.visiblePages, "visible-pages", 0, "width of the page navigation strip (default from config)")
	cmd.Flags().BoolVar(&f.resetFirst, "reset-on-filter", false, "return to page 1 whenever the filter changes")
}

// params merges the flags that were set onto the configured defaults.
func (f *datasetFlags) params(cmd *cobra.Command, cfg *config.Config) *pagination.Params {
	p := cfg.PaginationParams()
	if cmd.Flags().Changed("page-size") {
		p.PageSize = f.pageSize
	}
	if cmd.Flags().Changed("visible-pages") {
		p.VisiblePages = f.visiblePages
	}
	if cmd.Flags().Changed("reset-on-filter") {
		p.ResetOnFilter = f.resetFirst
	}
	return p
}

// kindArg parses the single positional record kind.
func kindArg(args []string) (records.Kind, error) {
	return records.ParseKind(args[0])
}

// newFetcher builds the fetcher for kind. A non-empty override replaces the
// configured location and its includes.
func newFetcher(ctx context.Context, cfg *config.Config, kind records.Kind, override string) (source.Fetcher, error) {
	srcCfg := cfg.Source(kind)
	if override != "" {
		srcCfg.Location = override
		srcCfg.Include = nil
	}

	log := logging.FromContext(ctx)
	f, err := source.New(kind, srcCfg, logging.ComponentLogger(*log, "source"))
	if err != nil {
		return nil, fmt.Errorf("configuring %s source: %w (set --source or sources.%s.location)", kind, err, kind)
	}
	return f, nil
}

// newController creates a record controller configured from p.
func newController(ctx context.Context, p *pagination.Params) *pagination.Controller[records.Record] {
	log := logging.FromContext(ctx)
	opts := append(p.Options(), pagination.WithLogger(logging.ComponentLogger(*log, "pagination")))
	return pagination.NewController(records.Accessors(), opts...)
}

// fetchOnce runs a single load through a loader so one-shot commands share
// the timeout and logging of the interactive browser.
func fetchOnce(ctx context.Context, f source.Fetcher) ([]records.Record, error) {
	log := logging.FromContext(ctx)
	ld := loader.New(f, loader.WithLogger(*log))
	_, run := ld.Start(ctx)
	res := run()
	if !ld.Accept(res) {
		return nil, fmt.Errorf("load of %s was superseded", f.Describe())
	}
	if res.Err != nil {
		return nil, fmt.Errorf("loading from %s: %w", f.Describe(), res.Err)
	}
	return res.Records, nil
}
