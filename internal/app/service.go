// Package service runs the ranking pipeline and serves the leaderboards of
// the last run to the CLI and the HTTP API.
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	repository "github.com/okian/squadrank/internal/adapters/repository"
	"github.com/okian/squadrank/internal/domain/coerce"
	"github.com/okian/squadrank/internal/domain/enrich"
	"github.com/okian/squadrank/internal/domain/marketvalue"
	"github.com/okian/squadrank/internal/domain/model"
	"github.com/okian/squadrank/internal/domain/per90"
	"github.com/okian/squadrank/internal/domain/ranking"
	"github.com/okian/squadrank/internal/domain/role"
	"github.com/okian/squadrank/internal/domain/schema"
	"github.com/okian/squadrank/internal/domain/scoring"
	"github.com/okian/squadrank/internal/domain/table"
	"github.com/okian/squadrank/internal/domain/types"
	"github.com/okian/squadrank/pkg/logger"
	"github.com/okian/squadrank/pkg/metrics"
)

// Pipeline stages, in execution order.
const (
	StageEnrich      = "enrich"
	StageSchema      = "schema"
	StageCoerce      = "coerce"
	StageClassify    = "classify"
	StagePer90       = "per90"
	StageScore       = "score"
	StageRank        = "rank"
	StageMarketValue = "marketvalue"
	StageUnderrated  = "underrated"
	StageBoards      = "boards"
)

// Report describes one completed run.
type Report struct {
	RunID             string             `json:"run_id"`
	Rows              int                `json:"rows"`
	MinNineties       float64            `json:"min_90s"`
	CoercedColumns    []string           `json:"coerced_columns"`
	MissingOptional   []string           `json:"missing_optional,omitempty"`
	PlayersByRole     map[string]int     `json:"players_by_role"`
	Eligible          map[string]int     `json:"eligible"`
	Undefined         map[string]int     `json:"undefined"`
	MarketValueColumn string             `json:"market_value_column"`
	EnrichedRows      int                `json:"enriched_rows"`
	EnrichedColumns   []string           `json:"enriched_columns,omitempty"`
	StagesMs          map[string]float64 `json:"stages_ms"`
	StartedAt         time.Time          `json:"started_at"`
	FinishedAt        time.Time          `json:"finished_at"`
}

// Result is the output of Run.
type Result struct {
	Table  *table.Table
	Roles  []model.Role
	Report Report
}

// Service implements the pipeline and the read side of the API.
type Service struct {
	mu sync.RWMutex

	// Pipeline components
	classifier *role.Classifier
	scorer     scoring.Scorer
	enrichment []enrich.Record

	// Configuration
	floor     float64
	mvColumns []string
	topN      int
	workers   int

	// State of the last successful run
	last   *Result
	boards map[string]repository.Store

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		classifier: role.New(),
		floor:      model.DefaultMinNineties,
		mvColumns:  marketvalue.DefaultCandidates(),
		topN:       10,
		boards:     make(map[string]repository.Store),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	if s.scorer == nil {
		s.scorer = scoring.NewComposite(scoring.WithMinNineties(s.floor))
	}
	return s
}

// TopNSetting returns how many underrated players a report lists per role.
func (s *Service) TopNSetting() int { return s.topN }

func (s *Service) log() logger.Logger {
	if s.logger != nil {
		return s.logger
	}
	return logger.Named("pipeline")
}

// stageTimer observes a stage duration into the report and metrics.
type stageTimer struct {
	rep   *Report
	start time.Time
}

func (st *stageTimer) done(stage string) {
	d := time.Since(st.start)
	st.rep.StagesMs[stage] = float64(d.Microseconds()) / 1000
	metrics.ObserveStage(stage, d)
	st.start = time.Now()
}

// Run ranks the players of in and publishes the leaderboards. The input is
// not modified; the returned table carries every derived column. A missing
// required column or a missing market value column fails the run.
func (s *Service) Run(ctx context.Context, in *table.Table) (*Result, error) {
	started := time.Now()
	runID := uuid.NewString()
	log := s.log().With(logger.String("run_id", runID))
	rep := Report{
		RunID:         runID,
		Rows:          in.Len(),
		MinNineties:   s.floor,
		PlayersByRole: make(map[string]int),
		Eligible:      make(map[string]int),
		StagesMs:      make(map[string]float64),
		StartedAt:     started.UTC(),
	}
	timer := &stageTimer{rep: &rep, start: started}
	metrics.RecordRowsLoaded(in.Len())
	log.Info(ctx, "run started", logger.Int("rows", in.Len()), logger.Float64("min_90s", s.floor))

	t := in.Clone()
	if len(s.enrichment) > 0 {
		merged, mr := enrich.Merge(t, s.enrichment)
		t = merged
		rep.EnrichedRows = mr.Matched
		rep.EnrichedColumns = mr.Added
		metrics.RecordEnrichedRows(mr.Matched)
		log.Info(ctx, "enrichment merged",
			logger.Int("records", mr.Records),
			logger.Int("identities", mr.Identities),
			logger.Int("matched", mr.Matched),
			logger.Int("duplicates", mr.Duplicates),
			logger.Int("unused", mr.Unused),
			logger.Strings("added", mr.Added),
			logger.Int("filled", mr.Filled),
		)
		timer.done(StageEnrich)
	}

	sr := schema.Validate(t)
	if !sr.OK() {
		metrics.RecordError(StageSchema, "missing_required")
		err := fmt.Errorf("%w: %w: %s", ErrInvalidInput, schema.ErrMissingRequired, strings.Join(sr.MissingRequired, ", "))
		log.Error(ctx, "schema check failed", logger.Error(err))
		return nil, err
	}
	if len(sr.MissingOptional) > 0 {
		rep.MissingOptional = sr.MissingOptional
		log.Warn(ctx, "optional columns missing, treated as undefined", logger.Strings("columns", sr.MissingOptional))
	}
	timer.done(StageSchema)

	cr := coerce.Table(t)
	rep.CoercedColumns = cr.Columns
	metrics.RecordCoercedColumns(len(cr.Columns))
	log.Info(ctx, "columns coerced",
		logger.Int("columns", len(cr.Columns)),
		logger.Int("cells", cr.Cells),
		logger.Int("residual", cr.Residual),
	)
	timer.done(StageCoerce)

	roles := s.classifier.ClassifyAll(t.Texts(schema.Position))
	labels := make([]string, len(roles))
	counts := make(map[model.Role]int, len(model.Roles)+1)
	for i, r := range roles {
		labels[i] = string(r)
		counts[r]++
	}
	t.SetTexts(schema.RoleLabel, labels)
	for _, r := range append([]model.Role{model.Unclassified}, model.Roles...) {
		rep.PlayersByRole[r.Label()] = counts[r]
		metrics.SetPlayersByRole(r.Label(), counts[r])
	}
	log.Info(ctx, "roles classified", logger.Any("players_by_role", rep.PlayersByRole))
	timer.done(StageClassify)

	rep.Undefined = per90.Normalize(t)
	for col, n := range rep.Undefined {
		metrics.RecordUndefined(col, n)
		if n > 0 {
			log.Debug(ctx, "undefined rates", logger.String("column", col), logger.Int("cells", n))
		}
	}
	timer.done(StagePer90)

	scores, err := s.scorer.Score(ctx, t, roles)
	if err != nil {
		metrics.RecordError(StageScore, "score_failed")
		return nil, fmt.Errorf("score: %w", err)
	}
	scoring.Apply(t, scores)
	timer.done(StageScore)

	engine := ranking.NewEngine(ranking.WithMinNineties(s.floor))
	ranked := engine.Rank(t, roles, scores)
	s.recordEligible(&rep, ranking.KindScore, ranked)
	timer.done(StageRank)

	mvCol, err := marketvalue.FindColumn(t, s.mvColumns)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrInvalidInput, err)
		metrics.RecordError(StageMarketValue, "missing_column")
		log.Error(ctx, "market value column missing", logger.Error(err))
		return nil, err
	}
	mv := marketvalue.Column(t, mvCol)
	t.SetFloats(schema.MarketValueEUR, mv)
	rep.MarketValueColumn = mvCol
	for _, v := range mv {
		if !v.Ok {
			rep.Undefined[schema.MarketValueEUR]++
		}
	}
	metrics.RecordUndefined(schema.MarketValueEUR, rep.Undefined[schema.MarketValueEUR])
	log.Info(ctx, "market values parsed",
		logger.String("column", mvCol),
		logger.Int("undefined", rep.Undefined[schema.MarketValueEUR]),
	)
	timer.done(StageMarketValue)

	under := engine.Underrated(t, roles, scores, mv)
	s.recordEligible(&rep, ranking.KindUnderrated, under)
	timer.done(StageUnderrated)

	boards, err := buildBoards(ctx, t, ranked, under)
	if err != nil {
		metrics.RecordError(StageBoards, "put_failed")
		return nil, err
	}
	timer.done(StageBoards)

	finished := time.Now()
	rep.FinishedAt = finished.UTC()
	metrics.ObserveRun(finished.Sub(started), finished)
	log.Info(ctx, "run finished",
		logger.Any("eligible", rep.Eligible),
		logger.Float64("duration_ms", float64(finished.Sub(started).Microseconds())/1000),
	)

	res := &Result{Table: t, Roles: roles, Report: rep}
	s.mu.Lock()
	s.last = res
	s.boards = boards
	s.mu.Unlock()
	return res, nil
}

func (s *Service) recordEligible(rep *Report, kind string, out ranking.Outcome) {
	for _, r := range model.Roles {
		rep.Eligible[types.Board(r, kind)] = out.Eligible[r]
		metrics.SetEligible(string(r), kind, out.Eligible[r])
	}
}

// buildBoards fills one store per role and kind with the ranked rows.
func buildBoards(ctx context.Context, t *table.Table, outcomes ...ranking.Outcome) (map[string]repository.Store, error) {
	ids := schema.Identities(t)
	kinds := []string{ranking.KindScore, ranking.KindUnderrated}
	boards := make(map[string]repository.Store, len(model.Roles)*len(kinds))
	for k, out := range outcomes {
		for _, r := range model.Roles {
			name := types.Board(r, kinds[k])
			store := repository.NewTreapStore(repository.WithName(name))
			for i, rank := range out.Ranks[r] {
				if !rank.Ok {
					continue
				}
				e := repository.Entry{Row: i, Player: ids[i].Name, Club: ids[i].Club, Score: out.Scores[r][i].V}
				if err := store.Put(ctx, e); err != nil {
					return nil, fmt.Errorf("board %s row %d: %w", name, i, err)
				}
			}
			boards[store.Name()] = store
		}
	}
	return boards, nil
}

// Boards lists the leaderboard names of the last run.
func (s *Service) Boards() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.boards))
	for name := range s.boards {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Service) board(name string) (repository.Store, model.Role, error) {
	r, _, ok := types.ParseBoard(name)
	if !ok {
		return nil, r, fmt.Errorf("%w: %q", ErrUnknownBoard, name)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil, r, ErrNoRun
	}
	store, ok := s.boards[name]
	if !ok {
		return nil, r, fmt.Errorf("%w: %q", ErrUnknownBoard, name)
	}
	return store, r, nil
}

func toEntry(e repository.Entry, r model.Role, board string) types.Entry {
	return types.Entry{
		Rank:   e.Rank,
		Player: e.Player,
		Club:   e.Club,
		Role:   string(r),
		Board:  board,
		Score:  e.Score,
	}
}

// TopN returns the top n entries of a leaderboard.
func (s *Service) TopN(ctx context.Context, board string, n int) (types.Leaderboard, error) {
	store, r, err := s.board(board)
	if err != nil {
		return types.Leaderboard{}, err
	}
	entries, err := store.TopN(ctx, n)
	if err != nil {
		return types.Leaderboard{}, err
	}

	// Convert to API format
	lb := types.Leaderboard{Board: board, Total: store.Count(ctx), Entries: make([]types.Entry, len(entries))}
	for i, e := range entries {
		lb.Entries[i] = toEntry(e, r, board)
	}
	return lb, nil
}

// Rank returns the entries of a player on a leaderboard, best first. Players
// sharing a name at different clubs are all returned.
func (s *Service) Rank(ctx context.Context, board, player string) ([]types.Entry, error) {
	store, r, err := s.board(board)
	if err != nil {
		return nil, err
	}
	entries, err := store.Find(ctx, player)
	if err != nil {
		return nil, err
	}
	out := make([]types.Entry, len(entries))
	for i, e := range entries {
		out[i] = toEntry(e, r, board)
	}
	return out, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"ran":     s.last != nil,
		"min_90s": s.floor,
		"top_n":   s.topN,
	}
	if s.last == nil {
		return stats
	}

	ctx := context.Background()
	sizes := make(map[string]int, len(s.boards))
	for name, store := range s.boards {
		sizes[name] = store.Count(ctx)
	}
	stats["report"] = s.last.Report
	stats["boards"] = sizes
	return stats
}
