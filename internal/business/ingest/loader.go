package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Fetcher abstracts how remote datasets are downloaded so tests need no network.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// Loader turns the default dataset location or an uploaded file into parsed rows.
type Loader struct {
	fetcher     Fetcher
	defaultPath string
	maxBytes    int64
}

// LoaderConfig defines where the default dataset lives and how much may be read.
type LoaderConfig struct {
	DefaultPath string
	MaxBytes    int64
}

// NewLoader creates a Loader. A nil fetcher gets an HTTPFetcher with default settings.
func NewLoader(fetcher Fetcher, cfg LoaderConfig) *Loader {
	if fetcher == nil {
		fetcher = NewHTTPFetcher(nil, 0)
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 64 << 20
	}
	return &Loader{
		fetcher:     fetcher,
		defaultPath: cfg.DefaultPath,
		maxBytes:    maxBytes,
	}
}

// DefaultSource is the configured location of the default dataset.
func (l *Loader) DefaultSource() string {
	return l.defaultPath
}

// LoadDefault reads the default dataset. http(s) locations are fetched, anything
// else is read from the local filesystem. Both count as the network path.
func (l *Loader) LoadDefault(ctx context.Context) (Result, error) {
	src := l.defaultPath
	if strings.TrimSpace(src) == "" {
		return Result{}, newError(KindNetworkFailure, "default", fmt.Errorf("no default dataset configured"))
	}

	var body io.ReadCloser
	var err error
	if isRemote(src) {
		body, err = l.fetcher.Fetch(ctx, src)
	} else {
		body, err = os.Open(src)
	}
	if err != nil {
		return Result{}, newError(KindNetworkFailure, src, err)
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, l.maxBytes+1))
	if err != nil {
		return Result{}, newError(KindNetworkFailure, src, fmt.Errorf("read body: %w", err))
	}
	if int64(len(data)) > l.maxBytes {
		return Result{}, newError(KindParseFailure, src, fmt.Errorf("dataset exceeds %d bytes", l.maxBytes))
	}
	return parse(src, data)
}

// LoadFromFile parses a user supplied .csv file.
func (l *Loader) LoadFromFile(name string, data []byte) (Result, error) {
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		return Result{}, newError(KindParseFailure, name, fmt.Errorf("expected a .csv file"))
	}
	if int64(len(data)) > l.maxBytes {
		return Result{}, newError(KindParseFailure, name, fmt.Errorf("file exceeds %d bytes", l.maxBytes))
	}
	return parse(name, data)
}

func parse(source string, data []byte) (Result, error) {
	res, err := ParseCSV(bytes.NewReader(data))
	if err != nil {
		return Result{}, newError(KindParseFailure, source, err)
	}
	if len(res.Rows) == 0 {
		return Result{}, newError(KindEmptyOrMalformed, source, nil)
	}
	return res, nil
}

func isRemote(src string) bool {
	lower := strings.ToLower(src)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
