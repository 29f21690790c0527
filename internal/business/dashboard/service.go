package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Shivani-Chovatiya/Analytics-Dashboard/internal/business/ingest"
	"github.com/Shivani-Chovatiya/Analytics-Dashboard/internal/platform/cache"
	"github.com/Shivani-Chovatiya/Analytics-Dashboard/pkg/model"
	"github.com/Shivani-Chovatiya/Analytics-Dashboard/pkg/util"
)

var (
	// ErrNotReady is returned for view operations while no dataset is committed
	// or a load is pending.
	ErrNotReady = errors.New("dataset not ready")
	// ErrSuperseded is returned when a newer load settled before this one finished.
	ErrSuperseded = errors.New("load superseded by a newer request")
)

const viewKeyPrefix = "view"

// Loader produces parsed rows from the default location or an upload.
type Loader interface {
	LoadDefault(ctx context.Context) (ingest.Result, error)
	LoadFromFile(name string, data []byte) (ingest.Result, error)
	DefaultSource() string
}

// RunLifecycleRepo records load attempts.
type RunLifecycleRepo interface {
	CreateRun(ctx context.Context, run model.LoadRun) error
	UpdateRun(ctx context.Context, run model.LoadRun) error
	ListRuns(ctx context.Context, limit int) ([]model.LoadRun, error)
}

// ServiceConfig tunes background loads and view caching.
type ServiceConfig struct {
	FetchTimeout time.Duration
	ViewTTL      time.Duration
}

// Service owns the dashboard state. All state changes go through Reduce.
type Service struct {
	loader Loader
	runs   RunLifecycleRepo
	views  cache.Client
	seq    *ingest.Sequencer
	log    zerolog.Logger
	cfg    ServiceConfig

	newID func() string
	now   func() time.Time

	mu    sync.RWMutex
	state State
	wg    sync.WaitGroup
}

// NewService wires a Service. views may be nil to disable memoization.
func NewService(loader Loader, runs RunLifecycleRepo, views cache.Client, log zerolog.Logger, cfg ServiceConfig) *Service {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	if cfg.ViewTTL <= 0 {
		cfg.ViewTTL = 10 * time.Minute
	}
	return &Service{
		loader: loader,
		runs:   runs,
		views:  views,
		seq:    ingest.NewSequencer(),
		log:    log,
		cfg:    cfg,
		newID:  uuid.NewString,
		now:    func() time.Time { return time.Now().UTC() },
		state:  NewState(),
	}
}

// StartDefaultLoad loads the default dataset in the background and returns its ticket.
func (s *Service) StartDefaultLoad() uint64 {
	source := s.loader.DefaultSource()
	seq := s.begin(context.Background(), source)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.FetchTimeout)
		defer cancel()
		res, err := s.loader.LoadDefault(ctx)
		_ = s.finish(ctx, seq, source, res, err)
	}()
	return seq
}

// LoadDefault loads the default dataset and waits for the outcome.
func (s *Service) LoadDefault(ctx context.Context) (model.DatasetStatus, error) {
	source := s.loader.DefaultSource()
	seq := s.begin(ctx, source)
	ctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()
	res, loadErr := s.loader.LoadDefault(ctx)
	if err := s.finish(ctx, seq, source, res, loadErr); err != nil {
		return s.Status(), err
	}
	return s.Status(), nil
}

// Upload ingests a user supplied file.
func (s *Service) Upload(ctx context.Context, name string, data []byte) (model.DatasetStatus, error) {
	seq := s.begin(ctx, name)
	res, loadErr := s.loader.LoadFromFile(name, data)
	if err := s.finish(ctx, seq, name, res, loadErr); err != nil {
		return s.Status(), err
	}
	return s.Status(), nil
}

// Wait blocks until background loads have finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Drain is Wait bounded by ctx.
func (s *Service) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) begin(ctx context.Context, source string) uint64 {
	seq := s.seq.Begin(source)
	s.dispatch(LoadStarted{Seq: seq, Source: source})
	if err := s.runs.CreateRun(ctx, model.LoadRun{
		Seq:       seq,
		Source:    source,
		Status:    model.RunRunning,
		StartedAt: s.now(),
	}); err != nil {
		s.log.Warn().Err(err).Uint64("seq", seq).Msg("record load run")
	}
	s.log.Info().Uint64("seq", seq).Str("source", source).Msg("dataset load started")
	return seq
}

// finish settles a load attempt. It returns the load error, ErrSuperseded when
// the outcome was discarded, or nil when a dataset was committed.
func (s *Service) finish(ctx context.Context, seq uint64, source string, res ingest.Result, loadErr error) error {
	defer s.seq.Done(seq)
	run := model.LoadRun{Seq: seq, FinishedAt: s.now()}
	logger := s.log.With().Uint64("seq", seq).Str("source", source).Logger()

	var result error
	if loadErr != nil {
		applied := s.dispatch(LoadFailed{
			Seq:    seq,
			Source: source,
			Err:    loadErr.Error(),
			Kind:   string(ingest.KindOf(loadErr)),
		})
		run.Error = loadErr.Error()
		run.Status = model.RunFailed
		result = loadErr
		if !applied {
			run.Status = model.RunStale
			result = fmt.Errorf("%w: %v", ErrSuperseded, loadErr)
		}
		logger.Error().Err(loadErr).Bool("applied", applied).Msg("dataset load failed")
	} else {
		ds := NewDataset(s.newID(), source, res.Headers, res.Rows, s.now())
		run.Rows = len(ds.Vehicles)
		if s.dispatch(LoadCommitted{Seq: seq, Dataset: ds}) {
			run.Status = model.RunCommitted
			s.dropViews(ctx)
			logger.Info().
				Str("datasetId", ds.ID).
				Int("rows", run.Rows).
				Bool("headersCleaned", res.HeadersCleaned).
				Msg("dataset committed")
		} else {
			run.Status = model.RunStale
			result = ErrSuperseded
			logger.Warn().Int("rows", run.Rows).Msg("stale dataset discarded")
		}
	}

	if err := s.runs.UpdateRun(context.WithoutCancel(ctx), run); err != nil {
		logger.Warn().Err(err).Msg("update load run")
	}
	return result
}

func (s *Service) dispatch(e Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, applied := Reduce(s.state, e)
	s.state = next
	return applied
}

func (s *Service) snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Status describes the current dataset along with any loads still running.
func (s *Service) Status() model.DatasetStatus {
	status := s.snapshot().Status
	status.InFlight = s.seq.InFlight()
	return status
}

// Runs lists recent load attempts, newest first.
func (s *Service) Runs(ctx context.Context, limit int) ([]model.LoadRun, error) {
	runs, err := s.runs.ListRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// View derives the view for the current state.
func (s *Service) View(ctx context.Context) (model.View, error) {
	st := s.snapshot()
	if !st.Ready() {
		return model.View{}, ErrNotReady
	}
	return s.view(ctx, st), nil
}

// SetFilter replaces the filter and returns the first page of the new view.
func (s *Service) SetFilter(ctx context.Context, spec model.FilterSpec) (model.View, error) {
	if err := ValidateFilter(spec); err != nil {
		return model.View{}, err
	}
	st, err := s.update(FilterChanged{Filter: spec})
	if err != nil {
		return model.View{}, err
	}
	return s.view(ctx, st), nil
}

// PatchFilter merges patch over the current filter and returns the first page
// of the new view. The current filter is left untouched when the result is invalid.
func (s *Service) PatchFilter(ctx context.Context, patch FilterPatch) (model.View, error) {
	s.mu.Lock()
	if !s.state.Ready() {
		s.mu.Unlock()
		return model.View{}, ErrNotReady
	}
	spec := patch.Merge(s.state.Filter)
	if err := ValidateFilter(spec); err != nil {
		s.mu.Unlock()
		return model.View{}, err
	}
	s.state, _ = Reduce(s.state, FilterChanged{Filter: spec})
	st := s.state
	s.mu.Unlock()
	return s.view(ctx, st), nil
}

// SetPage moves to another page; out of range numbers are clamped.
func (s *Service) SetPage(ctx context.Context, page int) (model.View, error) {
	st, err := s.update(PageRequested{Page: page})
	if err != nil {
		return model.View{}, err
	}
	return s.view(ctx, st), nil
}

// Filtered returns every row passing the current filter.
func (s *Service) Filtered() ([]model.Vehicle, model.FilterSpec, error) {
	st := s.snapshot()
	if !st.Ready() {
		return nil, model.FilterSpec{}, ErrNotReady
	}
	return Apply(st.Dataset.Vehicles, st.Filter), st.Filter, nil
}

func (s *Service) update(e Event) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.Ready() {
		return State{}, ErrNotReady
	}
	s.state, _ = Reduce(s.state, e)
	return s.state, nil
}

func (s *Service) view(ctx context.Context, st State) model.View {
	if s.views == nil {
		return BuildView(st.Dataset, st.Filter, st.Page)
	}
	key := cache.Key(viewKeyPrefix, st.Dataset.ID, util.HashFilterKey(st.Filter), strconv.Itoa(st.Page))

	if raw, err := s.views.Get(ctx, key); err == nil {
		var v model.View
		if err := json.Unmarshal(raw, &v); err == nil {
			return v
		}
		s.log.Warn().Str("key", key).Msg("discarding undecodable cached view")
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn().Err(err).Msg("view cache get")
	}

	v := BuildView(st.Dataset, st.Filter, st.Page)
	if raw, err := json.Marshal(v); err == nil {
		if err := s.views.Set(ctx, key, raw, s.cfg.ViewTTL); err != nil {
			s.log.Warn().Err(err).Msg("view cache set")
		}
	}
	return v
}

func (s *Service) dropViews(ctx context.Context) {
	if s.views == nil {
		return
	}
	if err := s.views.DeleteByPrefix(context.WithoutCancel(ctx), viewKeyPrefix+":"); err != nil {
		s.log.Warn().Err(err).Msg("drop cached views")
	}
}
