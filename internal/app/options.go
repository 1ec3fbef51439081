package service

import (
	"github.com/okian/squadrank/internal/domain/enrich"
	"github.com/okian/squadrank/internal/domain/role"
	"github.com/okian/squadrank/internal/domain/scoring"
	"github.com/okian/squadrank/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMinNineties sets the eligibility floor shared by scoring and ranking.
func WithMinNineties(floor float64) Option {
	return func(s *Service) {
		if floor >= 0 {
			s.floor = floor
		}
	}
}

// WithMarketValueColumns sets the market value column candidates.
func WithMarketValueColumns(candidates ...string) Option {
	return func(s *Service) {
		if len(candidates) > 0 {
			s.mvColumns = candidates
		}
	}
}

// WithEnrichment adds records merged onto every input before ranking.
func WithEnrichment(records ...enrich.Record) Option {
	return func(s *Service) {
		s.enrichment = append(s.enrichment, records...)
	}
}

// WithTopN sets how many underrated players a report lists per role.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.topN = n
		}
	}
}

// WithClassifier replaces the position classifier.
func WithClassifier(c *role.Classifier) Option {
	return func(s *Service) {
		if c != nil {
			s.classifier = c
		}
	}
}

// WithScorer replaces the composite scorer. The scorer keeps its own floor.
func WithScorer(sc scoring.Scorer) Option {
	return func(s *Service) {
		if sc != nil {
			s.scorer = sc
		}
	}
}

// WithWorkerCount sets how many saved pages Collect parses at once.
func WithWorkerCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}
