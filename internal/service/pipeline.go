package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"roomnlu/internal/config"
	"roomnlu/internal/metrics"
	"roomnlu/internal/model"
	"roomnlu/internal/repository"

	"github.com/google/uuid"
)

// ErrEmptyUtterance rejects requests with nothing to parse. This is the only
// hard failure the pipeline reports; every other condition degrades to an
// omission or a warning.
var ErrEmptyUtterance = errors.New("utterance is required")

// ParseService runs the full extraction pipeline: lexical extraction,
// confidence gating, optional model extraction, reconciliation,
// normalization and compilation. Each stage builds fresh maps, so concurrent
// parses need no locking.
type ParseService struct {
	lexical   *LexicalExtractor
	extractor ModelExtractor
	cache     *repository.ParseCache         // optional
	repo      *repository.PostgresRepository // optional
	parserCfg config.ParserConfig
	now       func() time.Time
}

// NewParseService creates a new parse service. cache and repo may be nil.
func NewParseService(extractor ModelExtractor, cache *repository.ParseCache, repo *repository.PostgresRepository, parserCfg config.ParserConfig) *ParseService {
	return &ParseService{
		lexical:   NewLexicalExtractor(),
		extractor: extractor,
		cache:     cache,
		repo:      repo,
		parserCfg: parserCfg,
		now:       time.Now,
	}
}

// Parse turns one utterance into a compiled, normalized request.
func (s *ParseService) Parse(ctx context.Context, req *model.ParseRequest) (*model.ParseResponse, error) {
	utterance := strings.TrimSpace(req.Utterance)
	if utterance == "" {
		return nil, ErrEmptyUtterance
	}

	start := s.now()
	referenceTime := start
	parseID := uuid.NewString()
	modelName := req.Model
	if modelName == "" {
		modelName = "room-nlu"
	}

	// 1) deterministic pre-parse
	lexicalSlots := s.lexical.Extract(utterance)

	// 2) gate: skip the model when lexical evidence alone is sufficient
	bypassed := s.parserCfg.BypassEnabled && IsConfident(lexicalSlots) && !req.ForceModel

	// cache lookup only applies on the bypass path; a model-backed parse is
	// not deterministic enough to share
	cacheKey := ""
	if bypassed && s.cache != nil {
		cacheKey = s.cache.Key(modelName, referenceTime.Format("2006-01-02"), utterance)
		if cached, err := s.cache.Get(ctx, cacheKey); err != nil {
			log.Printf("Warning: parse cache lookup failed: %v", err)
		} else if cached != nil {
			metrics.CacheHitsTotal.Inc()
			return s.respond(ctx, parseID, utterance, modelName, lexicalSlots, *cached, bypassed, start), nil
		}
	}

	// 3) secondary extractor; any failure counts as an empty contribution
	modelSlots := model.SlotMap{}
	if !bypassed && s.extractor != nil && s.extractor.IsEnabled() {
		slots, err := s.extractor.ExtractSlots(ctx, utterance, modelName)
		if err != nil {
			log.Printf("Model extraction failed, continuing with lexical slots only: %v", err)
			metrics.ModelCallsTotal.WithLabelValues("error").Inc()
		} else {
			modelSlots = slots
			metrics.ModelCallsTotal.WithLabelValues("ok").Inc()
		}
	} else if bypassed {
		metrics.BypassesTotal.Inc()
	}

	// 4) literal evidence wins over model guesses
	chosen := Reconcile(utterance, modelSlots, lexicalSlots)

	// 5) + 6) canonical forms, then template selection and validation
	args := Normalize(chosen, referenceTime)
	compiled := Compile(chosen, args)

	if cacheKey != "" {
		if err := s.cache.Set(ctx, cacheKey, &compiled); err != nil {
			log.Printf("Warning: parse cache store failed: %v", err)
		}
	}

	return s.respond(ctx, parseID, utterance, modelName, chosen, compiled, bypassed, start), nil
}

// respond assembles the response and records metrics and the audit log.
func (s *ParseService) respond(ctx context.Context, parseID, utterance, modelName string, slots model.SlotMap, compiled model.CompiledRequest, bypassed bool, start time.Time) *model.ParseResponse {
	took := s.now().Sub(start)
	metrics.ParsesTotal.WithLabelValues(compiled.Template).Inc()
	metrics.ParseDuration.Observe(took.Seconds())

	resp := &model.ParseResponse{
		ParseID:  parseID,
		Template: compiled.Template,
		Args:     compiled.Args,
		Warnings: compiled.Warnings,
		Bypassed: bypassed,
		Took:     took.Milliseconds(),
	}
	if s.parserCfg.IncludeSlots {
		resp.Slots = slots
	}

	if s.repo != nil {
		slotsJSON, _ := json.Marshal(slots)
		warningsJSON, _ := json.Marshal(compiled.Warnings)
		entry := &model.ParseLog{
			ParseID:        parseID,
			Utterance:      utterance,
			ModelName:      modelName,
			Template:       compiled.Template,
			Slots:          string(slotsJSON),
			Warnings:       string(warningsJSON),
			Bypassed:       bypassed,
			ResponseTimeMs: took.Milliseconds(),
		}
		if err := s.repo.LogParse(ctx, entry); err != nil {
			log.Printf("Warning: failed to log parse %s: %v", parseID, err)
		}
	}

	return resp
}

// GetParse retrieves the audit record for a previous parse.
func (s *ParseService) GetParse(ctx context.Context, parseID string) (*model.ParseLog, error) {
	if s.repo == nil {
		return nil, errors.New("parse logging is not enabled")
	}
	return s.repo.GetParseLog(ctx, parseID)
}

// LogFeedback records a verdict against a previous parse.
func (s *ParseService) LogFeedback(ctx context.Context, parseID, verdict string) error {
	if s.repo == nil {
		return errors.New("parse logging is not enabled")
	}
	return s.repo.LogFeedback(ctx, parseID, verdict)
}
