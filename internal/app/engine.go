package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Anurag9000/Gram-Connect/internal/adapters/repository"
	"github.com/Anurag9000/Gram-Connect/internal/domain/compat"
	"github.com/Anurag9000/Gram-Connect/internal/domain/extract"
	"github.com/Anurag9000/Gram-Connect/internal/domain/model"
	"github.com/Anurag9000/Gram-Connect/internal/domain/quota"
	"github.com/Anurag9000/Gram-Connect/internal/domain/scoring"
	"github.com/Anurag9000/Gram-Connect/internal/domain/textnorm"
	"github.com/Anurag9000/Gram-Connect/internal/domain/types"
	"github.com/Anurag9000/Gram-Connect/internal/domain/ultra"
	"github.com/Anurag9000/Gram-Connect/pkg/logger"
	"github.com/Anurag9000/Gram-Connect/pkg/metrics"
)

// Catalog is the read-only reference data the engine scores against.
type Catalog interface {
	People() []model.Person
	Person(id string) (model.Person, bool)
	Distance(a, b string) (float64, bool)
	DeriveSkills(text string) []string
	VillageNames() []string
	AvailabilityLegend() map[model.Availability]float64
}

// Models hands out the artifact in service.
type Models interface {
	Current() (*compat.Model, error)
}

// Ledger hands out assigned-hours snapshots.
type Ledger interface {
	Snapshot() *repository.Snapshot
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithClock sets the time source used when a request has no task window.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithEngineLogger sets the engine logger.
func WithEngineLogger(l logger.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// Engine answers recommendation requests. It reads one model and one ledger
// snapshot per request and never writes shared state.
type Engine struct {
	catalog   Catalog
	models    Models
	ledger    Ledger
	settings  Settings
	extractor *extract.Extractor
	legend    map[model.Availability]float64
	now       func() time.Time
	log       logger.Logger
}

// NewEngine wires an engine over its read-only collaborators.
func NewEngine(catalog Catalog, models Models, ledger Ledger, settings Settings, opts ...EngineOption) *Engine {
	e := &Engine{
		catalog:   catalog,
		models:    models,
		ledger:    ledger,
		settings:  settings,
		extractor: extract.New(extract.WithVillages(catalog.VillageNames()...)),
		legend:    catalog.AvailabilityLegend(),
		now:       time.Now,
		log:       logger.Named("engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MergeText appends the transcription and visual tags to the proposal text.
func MergeText(text, transcription string, tags []string) string {
	parts := []string{strings.TrimSpace(text)}
	if t := strings.TrimSpace(transcription); t != "" {
		parts = append(parts, "[Transcribed Audio Context]: "+t)
	}
	var clean []string
	for _, tag := range tags {
		if t := strings.TrimSpace(tag); t != "" {
			clean = append(clean, t)
		}
	}
	if len(clean) > 0 {
		parts = append(parts, "[Visual Content Tags]: "+strings.Join(clean, ", "))
	}
	return strings.Join(parts, "\n\n")
}

type task struct {
	window    quota.Interval
	hasWindow bool
	split     map[quota.Week]decimal.Decimal
	refWeek   quota.Week
}

func (e *Engine) task(req *types.RecommendRequest) (task, error) {
	switch {
	case req.TaskStart == nil && req.TaskEnd == nil:
		return task{split: map[quota.Week]decimal.Decimal{}, refWeek: quota.WeekOf(e.now())}, nil
	case req.TaskStart == nil || req.TaskEnd == nil:
		return task{}, fmt.Errorf("%w: both start and end are required", ErrInvalidTaskWindow)
	case !req.TaskEnd.After(*req.TaskStart):
		return task{}, ErrInvalidTaskWindow
	}
	iv := quota.Interval{Start: *req.TaskStart, End: *req.TaskEnd}
	return task{window: iv, hasWindow: true, split: quota.Split(iv), refWeek: quota.WeekOf(iv.Start)}, nil
}

// withBaseline folds the roster's pre-existing hours into the task's first week.
func (t task) withBaseline(hours float64) map[quota.Week]decimal.Decimal {
	out := make(map[quota.Week]decimal.Decimal, len(t.split)+1)
	for w, h := range t.split {
		out[w] = h
	}
	if hours > 0 {
		out[t.refWeek] = out[t.refWeek].Add(decimal.NewFromFloat(hours))
	} else if _, ok := out[t.refWeek]; !ok {
		out[t.refWeek] = decimal.Zero
	}
	return out
}

// Recommend scores every eligible volunteer for the proposal and returns the
// best teams. Shortfalls and empty pools are reported through Status.
func (e *Engine) Recommend(ctx context.Context, req types.RecommendRequest) (*types.RecommendResponse, error) {
	started := time.Now()
	status := "error"
	defer func() { metrics.RecordRecommendation(status, time.Since(started).Seconds()) }()

	if req.TeamSize < 1 {
		return nil, ultra.ErrInvalidTeamSize
	}
	if req.NumTeams < 1 {
		return nil, ultra.ErrInvalidNumTeams
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyProposal
	}
	tk, err := e.task(&req)
	if err != nil {
		return nil, err
	}
	var override *model.Severity
	if strings.TrimSpace(req.Severity) != "" {
		sev, err := model.ParseSeverity(req.Severity)
		if err != nil {
			return nil, err
		}
		override = &sev
	}

	text := MergeText(req.Text, req.Transcription, req.VisualTags)
	in := extract.Input{Text: text, Override: override, Village: req.Village}
	if req.AutoExtract != nil && !*req.AutoExtract {
		in.Text = ""
	}
	ext := e.extractor.Extract(in)
	metrics.RecordSeverity(ext.Severity.Level().String(), string(ext.Severity.Source()))
	if !ext.LocationFound {
		metrics.RecordUnresolvedLocation()
		e.log.Warn(ctx, "proposal location unresolved, distance factor disabled")
	}

	required := normalizeSkills(req.RequiredSkills)
	if len(required) == 0 {
		required = e.catalog.DeriveSkills(text)
	}

	m, err := e.models.Current()
	if err != nil {
		return nil, err
	}
	snap := e.ledger.Snapshot()
	sc := e.scorer(req.Weights)
	threshold := e.settings.Threshold
	if req.Weights.Threshold != nil {
		threshold = *req.Weights.Threshold
	}

	people := e.catalog.People()
	candidates := make([]model.Candidate, 0, len(people))
	missing := 0
	for _, p := range people {
		if tk.hasWindow && snap.Conflicts(p.ID, tk.window) {
			continue
		}
		km, known := 0.0, false
		if ext.LocationFound {
			km, known = e.catalog.Distance(ext.Location, p.HomeLocation)
			if !known {
				missing++
			}
		}
		pair := compat.Pair{
			ProposalText:   text,
			RequiredSkills: required,
			Person:         p,
			Severity:       ext.Severity.Level(),
			DistanceKM:     km,
			DistanceKnown:  known,
		}
		prob := m.Score(pair)
		if prob < threshold {
			continue
		}
		over, _ := snap.Overage(p.ID, tk.withBaseline(p.AssignedHours), decimal.NewFromFloat(p.WeeklyQuotaHours)).Float64()
		res := sc.Score(scoring.Input{
			Compatibility: prob,
			Availability:  p.Availability,
			Severity:      ext.Severity.Level(),
			DistanceKM:    km,
			DistanceKnown: known,
			Overage:       over,
		})
		candidates = append(candidates, model.Candidate{
			Person:        p,
			Compatibility: prob,
			WAdj:          res.WAdj,
			Factors:       res.Factors,
			DistanceKM:    km,
			DistanceKnown: known,
			OverworkHours: over,
		})
	}
	if missing > 0 {
		metrics.RecordMissingDistance(missing)
		e.log.Warn(ctx, "distance entries missing, distance factor disabled for those candidates",
			logger.String("village", ext.Location),
			logger.Int("missing", missing),
		)
	}
	rankCandidates(candidates)
	metrics.RecordCandidates(len(people), len(candidates))

	resp := &types.RecommendResponse{
		Severity:           ext.Severity.Level().String(),
		SeveritySource:     string(ext.Severity.Source()),
		Confidence:         ext.Severity.Confidence(),
		LocationSource:     string(ext.LocationSource),
		RequiredSkills:     required,
		Teams:              []types.Team{},
		ModelVersion:       m.Version(),
		LedgerVersion:      snap.Version,
		Strategy:           string(ultra.StrategyNone),
		CandidatesScored:   len(people),
		CandidatesEligible: len(candidates),
	}
	if ext.LocationFound {
		loc := ext.Location
		resp.Location = &loc
	}
	if resp.RequiredSkills == nil {
		resp.RequiredSkills = []string{}
	}

	if len(candidates) == 0 {
		status = types.StatusNoCandidate
		resp.Status = status
		resp.Message = "no eligible candidates for this proposal"
		e.log.Info(ctx, "no eligible candidates", logger.Int("people", len(people)))
		return resp, nil
	}

	sel, err := e.selector(req.Weights).Select(ultra.Request{
		Candidates:     candidates,
		RequiredSkills: required,
		TeamSize:       req.TeamSize,
		NumTeams:       req.NumTeams,
		UniqueMembers:  req.UniqueMembers,
	})
	if err != nil {
		return nil, err
	}
	resp.Strategy = string(sel.Strategy)
	if sel.Shortfall != nil {
		status = types.StatusShortfall
		metrics.RecordShortfall()
		resp.Status = status
		resp.Message = fmt.Sprintf("only %d eligible candidates for a team of %d", sel.Shortfall.Available, sel.Shortfall.Requested)
		resp.Shortfall = &types.Shortfall{
			Requested: sel.Shortfall.Requested,
			Available: sel.Shortfall.Available,
			Deficit:   sel.Shortfall.Deficit,
		}
		return resp, nil
	}

	metrics.RecordEnumeration(string(sel.Strategy), sel.Evaluated)
	metrics.RecordTeamsReturned(len(sel.Teams))
	for i, t := range sel.Teams {
		resp.Teams = append(resp.Teams, toTeam(i+1, t))
	}
	status = types.StatusOK
	resp.Status = status
	e.log.Info(ctx, "recommendation served",
		logger.String("severity", resp.Severity),
		logger.Int("eligible", len(candidates)),
		logger.Int("teams", len(resp.Teams)),
		logger.String("strategy", resp.Strategy),
		logger.Int("evaluated", sel.Evaluated),
	)
	return resp, nil
}

func (e *Engine) scorer(w types.Weights) *scoring.Scorer {
	decay := e.settings.DistanceDecay
	if w.DistanceDecay != nil {
		decay = *w.DistanceDecay
	}
	strength := e.settings.OverworkStrength
	if w.OverworkStrength != nil {
		strength = *w.OverworkStrength
	}
	opts := []scoring.Option{
		scoring.WithDistanceDecay(decay),
		scoring.WithOverworkStrength(strength),
		scoring.WithSeveritySpread(e.settings.HighSeveritySpread, e.settings.LowSeveritySpread),
	}
	if len(e.legend) > 0 {
		opts = append(opts, scoring.WithAvailabilityMultipliers(e.legend))
	}
	return scoring.New(opts...)
}

func (e *Engine) selector(w types.Weights) *ultra.Selector {
	red, size, will := e.settings.LambdaRedundancy, e.settings.LambdaSize, e.settings.LambdaWillingness
	if w.LambdaRedundancy != nil {
		red = *w.LambdaRedundancy
	}
	if w.LambdaSize != nil {
		size = *w.LambdaSize
	}
	if w.LambdaWillingness != nil {
		will = *w.LambdaWillingness
	}
	return ultra.New(
		ultra.WithPoolCap(e.settings.PoolCap),
		ultra.WithEnumerationCeiling(e.settings.EnumerationCeiling),
		ultra.WithRobustnessTarget(e.settings.RobustnessTarget),
		ultra.WithLambdas(red, size, will),
	)
}

// rankCandidates orders by W_adj desc, compatibility desc, id asc and assigns
// 1-based ranks.
func rankCandidates(cs []model.Candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		if a.WAdj != b.WAdj {
			return a.WAdj > b.WAdj
		}
		if a.Compatibility != b.Compatibility {
			return a.Compatibility > b.Compatibility
		}
		return a.Person.ID < b.Person.ID
	})
	for i := range cs {
		cs[i].Rank = i + 1
	}
}

func normalizeSkills(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	var out []string
	for _, s := range in {
		n := textnorm.Phrase(s)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func toTeam(rank int, t model.Team) types.Team {
	members := make([]types.Member, len(t.Members))
	for i, c := range t.Members {
		m := types.Member{
			ID:            c.Person.ID,
			Name:          c.Person.Name,
			Skills:        c.Person.Skills,
			WAdj:          round(c.WAdj),
			Compatibility: round(c.Compatibility),
			Availability:  c.Person.Availability.String(),
			HomeLocation:  c.Person.HomeLocation,
			Rank:          c.Rank,
		}
		if c.DistanceKnown {
			km := round(c.DistanceKM)
			m.DistanceKM = &km
		}
		members[i] = m
	}
	mt := t.Metrics
	return types.Team{
		Rank:    rank,
		Members: members,
		Metrics: types.Metrics{
			Goodness:       round(mt.Goodness),
			Coverage:       round(mt.Coverage),
			KRobustness:    mt.KRobustness,
			Redundancy:     round(mt.Redundancy),
			SizeFit:        round(mt.SizeFit),
			WillingnessAvg: round(mt.WillingnessAvg),
			WillingnessMin: round(mt.WillingnessMin),
			TeamSize:       mt.TeamSize,
		},
	}
}

// round keeps six decimals so responses are stable across platforms.
func round(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
