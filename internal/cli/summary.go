package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Shivani-Chovatiya/Analytics-Dashboard/internal/business/dashboard"
	"github.com/Shivani-Chovatiya/Analytics-Dashboard/internal/business/ingest"
	"github.com/Shivani-Chovatiya/Analytics-Dashboard/pkg/model"
)

type summaryOpts struct {
	evType   string
	make     string
	yearFrom int
	yearTo   int
	query    string
	page     int
	top      int
	asJSON   bool
}

func newSummaryCommand(a *app) *cobra.Command {
	var o summaryOpts
	cmd := &cobra.Command{
		Use:   "summary [file.csv|url]",
		Short: "Print KPIs, chart series and one table page for a dataset",
		Long: `Loads a registration CSV (a local file or an http(s) URL; the configured
default dataset when omitted), applies the filter flags and prints the result.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := a.cfg.Dataset.DefaultPath
			if len(args) == 1 {
				src = args[0]
			}
			ds, err := a.loadDataset(cmd.Context(), cmd.ErrOrStderr(), src)
			if err != nil {
				return err
			}

			spec, err := o.filter(cmd, ds)
			if err != nil {
				return err
			}
			view := dashboard.BuildView(ds, spec, o.page)
			if o.top >= 0 && o.top < len(view.TopMakes) {
				view.TopMakes = view.TopMakes[:o.top]
			}

			if o.asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}
			printSummary(cmd.OutOrStdout(), ds, view)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.evType, "type", model.FilterAll, "vehicle type: All, BEV or PHEV")
	f.StringVar(&o.make, "make", model.FilterAll, "manufacturer, or All")
	f.IntVar(&o.yearFrom, "year-from", 0, "first model year (default: dataset minimum)")
	f.IntVar(&o.yearTo, "year-to", 0, "last model year (default: dataset maximum)")
	f.StringVar(&o.query, "query", "", "case-insensitive search over make, model, city, county and state")
	f.IntVar(&o.page, "page", 1, "table page to print")
	f.IntVar(&o.top, "top", dashboard.TopMakesLimit, "number of manufacturers to list")
	f.BoolVar(&o.asJSON, "json", false, "print the view as JSON")
	return cmd
}

func (o summaryOpts) filter(cmd *cobra.Command, ds *dashboard.Dataset) (model.FilterSpec, error) {
	spec := dashboard.DefaultFilter(ds.Bounds)
	switch t := strings.ToUpper(strings.TrimSpace(o.evType)); t {
	case "", "ALL":
	case string(model.EVTypeBEV), string(model.EVTypePHEV):
		spec.EVType = t
	default:
		return spec, fmt.Errorf("--type must be All, BEV or PHEV, got %q", o.evType)
	}
	if m := strings.TrimSpace(o.make); m != "" && !strings.EqualFold(m, model.FilterAll) {
		spec.Make = m
	}
	if cmd.Flags().Changed("year-from") {
		spec.YearFrom = o.yearFrom
	}
	if cmd.Flags().Changed("year-to") {
		spec.YearTo = o.yearTo
	}
	if spec.YearFrom > spec.YearTo {
		return spec, fmt.Errorf("--year-from %d is after --year-to %d", spec.YearFrom, spec.YearTo)
	}
	spec.Query = o.query
	return spec, nil
}

func (a *app) loadDataset(ctx context.Context, errOut io.Writer, src string) (*dashboard.Dataset, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("no dataset given and dataset.default_path is empty")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var res ingest.Result
	var err error
	lower := strings.ToLower(src)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		res, err = a.fetchRemote(ctx, errOut, src)
	} else {
		res, err = a.readLocal(errOut, src)
	}
	if err != nil {
		return nil, err
	}

	matched := dashboard.MatchedHeaders(res.Headers)
	a.log.Debug().
		Int("rows", len(res.Rows)).
		Int("matchedFields", len(matched)).
		Bool("headersCleaned", res.HeadersCleaned).
		Str("source", src).
		Msg("dataset parsed")
	if _, ok := matched[dashboard.FieldMake]; !ok {
		a.log.Warn().Msg("no make column found; every row will be reported as Unknown")
	}
	return dashboard.NewDataset(uuid.NewString(), src, res.Headers, res.Rows, time.Now().UTC()), nil
}

func (a *app) fetchRemote(ctx context.Context, errOut io.Writer, url string) (ingest.Result, error) {
	loader := ingest.NewLoader(
		ingest.NewHTTPFetcher(nil, a.cfg.Dataset.FetchTimeout),
		ingest.LoaderConfig{DefaultPath: url, MaxBytes: a.cfg.Dataset.MaxUploadBytes},
	)
	if a.showProgress(errOut) {
		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(errOut))
		s.Suffix = " fetching " + url
		s.Start()
		defer s.Stop()
	}
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Dataset.FetchTimeout)
	defer cancel()
	return loader.LoadDefault(ctx)
}

func (a *app) readLocal(errOut io.Writer, path string) (ingest.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return ingest.Result{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if a.showProgress(errOut) {
		if fi, err := f.Stat(); err == nil {
			bar := progressbar.NewOptions64(fi.Size(),
				progressbar.OptionSetWriter(errOut),
				progressbar.OptionSetDescription("reading "+filepath.Base(path)),
				progressbar.OptionShowBytes(true),
				progressbar.OptionClearOnFinish(),
			)
			pr := progressbar.NewReader(f, bar)
			r = &pr
			defer bar.Finish()
		}
	}

	data, err := io.ReadAll(io.LimitReader(r, a.cfg.Dataset.MaxUploadBytes+1))
	if err != nil {
		return ingest.Result{}, fmt.Errorf("read dataset: %w", err)
	}
	loader := ingest.NewLoader(nil, ingest.LoaderConfig{MaxBytes: a.cfg.Dataset.MaxUploadBytes})
	return loader.LoadFromFile(filepath.Base(path), data)
}
