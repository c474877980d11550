package service

import (
	"context"
	"log"
	"strings"
	"time"

	"estate/internal/model"
	"estate/internal/repository"
)

// SearchService resolves free-text property queries for a caller
type SearchService struct {
	store        repository.ListingStore
	heuristic    *HeuristicExtractor
	interpreter  *Interpreter
	cascade      *Cascade
	ranker       *Ranker
	defaultLimit int
	maxLimit     int
}

// NewSearchService creates a new search service
func NewSearchService(
	store repository.ListingStore,
	heuristic *HeuristicExtractor,
	interpreter *Interpreter,
	ranker *Ranker,
	defaultLimit, maxLimit int,
) *SearchService {
	if defaultLimit <= 0 {
		defaultLimit = 20
	}
	if maxLimit < defaultLimit {
		maxLimit = defaultLimit
	}
	return &SearchService{
		store:        store,
		heuristic:    heuristic,
		interpreter:  interpreter,
		cascade:      NewCascade(heuristic),
		ranker:       ranker,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// SearchEventCallback is called for streaming search events
type SearchEventCallback func(event string, data any) error

// Search resolves one query. The only errors it returns come from the listing store.
func (s *SearchService) Search(ctx context.Context, caller model.Caller, req *model.SearchRequest) (*model.SearchResponse, error) {
	return s.run(ctx, caller, req, nil)
}

// SearchStream resolves one query and reports each stage through callback
func (s *SearchService) SearchStream(ctx context.Context, caller model.Caller, req *model.SearchRequest, callback SearchEventCallback) (*model.SearchResponse, error) {
	return s.run(ctx, caller, req, callback)
}

// ResolveFilter picks exactly one filter for the query: the interpreter's when
// usable, otherwise the heuristic's. The heuristic result is computed first and
// never waits on the network.
func (s *SearchService) ResolveFilter(ctx context.Context, query string, useInterpreter bool) (model.StructuredFilter, model.FilterSource) {
	heuristic := s.heuristic.Extract(query)
	if !useInterpreter || !s.interpreter.Enabled() {
		return heuristic, model.SourceHeuristic
	}
	if candidate, ok := s.interpreter.Interpret(ctx, query); ok {
		return candidate, model.SourceInterpreter
	}
	return heuristic, model.SourceHeuristic
}

func (s *SearchService) run(ctx context.Context, caller model.Caller, req *model.SearchRequest, callback SearchEventCallback) (*model.SearchResponse, error) {
	startTime := time.Now()
	emit := func(event string, data any) error {
		if callback == nil {
			return nil
		}
		return callback(event, data)
	}

	query := strings.TrimSpace(req.Query)
	options := s.normalizeOptions(req.Options)

	if err := emit("start", map[string]any{"query": query}); err != nil {
		return nil, err
	}

	useInterpreter := options.UseInterpreter == nil || *options.UseInterpreter
	if useInterpreter && s.interpreter.Enabled() && query != "" {
		if err := emit("interpreting", map[string]any{"status": "Interpreting your query..."}); err != nil {
			return nil, err
		}
	}

	filter, source := s.ResolveFilter(ctx, query, useInterpreter)

	// Explicit filters win over extracted ones
	if req.Filters != nil {
		filter = req.Filters.Sanitize().Merge(filter)
	}

	if err := emit("filter", map[string]any{"filter": filter, "source": source}); err != nil {
		return nil, err
	}

	listings, err := s.store.FetchActiveListings(ctx, caller.Scope())
	if err != nil {
		return nil, err
	}

	result := s.cascade.Resolve(filter, listings, query)
	if result.Step != model.StepStrict {
		if err := emit("relaxing", map[string]any{"step": result.Step, "filter": result.Filter}); err != nil {
			return nil, err
		}
	}

	ranked := s.ranker.Rank(result.Listings, options.Sort)
	total := len(ranked)

	start := min(options.Offset, total)
	end := start + min(options.Limit, total-start)

	views := make([]model.ListingView, 0, end-start)
	for i := start; i < end; i++ {
		views = append(views, MaskListing(ranked[i], s.ranker.MatchedReasons(&ranked[i], &result.Filter)))
	}

	resp := &model.SearchResponse{
		Results: views,
		Total:   total,
		Limit:   options.Limit,
		Offset:  options.Offset,
		HasMore: end < total,
		Filter:  result.Filter,
		Source:  source,
		Relaxed: result.Relaxed,
		Step:    result.Step,
		Stats:   result.Stats,
		Took:    time.Since(startTime).Milliseconds(),
	}

	log.Printf("🔎 Search %q by %s: %d results via %s (step=%s, %dms)",
		query, caller.Role, total, source, result.Step, resp.Took)

	if err := emit("results", resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *SearchService) normalizeOptions(in *model.SearchOptions) model.SearchOptions {
	var out model.SearchOptions
	if in != nil {
		out = *in
	}
	if out.Limit <= 0 {
		out.Limit = s.defaultLimit
	}
	if out.Limit > s.maxLimit {
		out.Limit = s.maxLimit
	}
	if out.Offset < 0 {
		out.Offset = 0
	}
	out.Sort = s.ranker.Criterion(out.Sort)
	return out
}

// GetListing returns one listing visible to the caller, contact masked
func (s *SearchService) GetListing(ctx context.Context, caller model.Caller, id int64) (*model.ListingView, error) {
	listing, err := s.store.GetActiveListing(ctx, caller.Scope(), id)
	if err != nil {
		return nil, err
	}
	view := MaskListing(*listing, nil)
	return &view, nil
}
