// Package ingest refreshes the reference tables from the portal's XML feeds
// and from the search engine's author facet.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	domref "github.com/zeit-online/contentapi/internal/domain/reference"
	"github.com/zeit-online/contentapi/internal/metrics"
)

// DefaultPortalURL is the public site linked from reference rows.
const DefaultPortalURL = "http://www.zeit.de"

// authorFacet requests every author name known to the search engine.
var authorFacet = url.Values{
	"q":              {"*:*"},
	"facet":          {"true"},
	"facet.field":    {"author"},
	"facet.limit":    {"1000000"},
	"facet.mincount": {"1"},
	"rows":           {"0"},
	"wt":             {"xml"},
}

// Feeds holds the feed locations, each a file path or http(s) URL. Empty
// locations are skipped.
type Feeds struct {
	Products    string
	Series      string
	Keywords    string
	Departments string
}

// Config holds ingestion settings.
type Config struct {
	APIURL    string
	PortalURL string
	Feeds     Feeds
}

// Service runs metadata ingestion. Runs are serialized.
type Service struct {
	writer Writer
	feeds  FeedSource
	search SearchSource
	links  links
	cfg    Config
	logger *zap.Logger

	mu sync.Mutex
}

// New creates a Service. search can be nil to skip authors.
func New(writer Writer, feeds FeedSource, search SearchSource, cfg Config, logger *zap.Logger) *Service {
	portal := strings.TrimRight(cfg.PortalURL, "/")
	if portal == "" {
		portal = DefaultPortalURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		writer: writer,
		feeds:  feeds,
		search: search,
		links:  links{apiURL: strings.TrimRight(cfg.APIURL, "/"), portalURL: portal},
		cfg:    cfg,
		logger: logger,
	}
}

type feedStep struct {
	entity   domref.Entity
	location string
	parse    func([]byte) ([]domref.Row, error)
}

// Run updates every entity. A failing entity does not stop the others; all
// failures are returned joined.
func (s *Service) Run(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	steps := []feedStep{
		{domref.Product, s.cfg.Feeds.Products, s.links.products},
		{domref.Series, s.cfg.Feeds.Series, s.links.series},
		{domref.Keyword, s.cfg.Feeds.Keywords, s.links.keywords},
		{domref.Department, s.cfg.Feeds.Departments, s.links.departments},
	}

	var errs []error
	for _, step := range steps {
		if step.location == "" {
			s.logger.Debug("feed not configured", zap.String("entity", string(step.entity)))
			continue
		}
		if err := s.runFeed(ctx, step); err != nil {
			errs = append(errs, err)
		}
	}
	if s.search != nil {
		if err := s.runAuthors(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Service) runFeed(ctx context.Context, step feedStep) error {
	data, err := s.feeds.Fetch(ctx, step.location)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", step.entity, err)
	}
	rows, err := step.parse(data)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", step.entity, err)
	}
	return s.write(ctx, step.entity, rows)
}

func (s *Service) runAuthors(ctx context.Context) error {
	data, err := s.search.Raw(ctx, "select", authorFacet)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", domref.Author, err)
	}
	names, err := authorNames(data)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", domref.Author, err)
	}

	rows := make([]domref.Row, 0, len(names))
	for _, name := range names {
		href := s.links.authorPage(name)
		ok, err := s.feeds.Exists(ctx, href)
		if err != nil {
			s.logger.Debug("author page probe failed", zap.String("author", name), zap.Error(err))
		}
		if !ok {
			href = ""
		}
		rows = append(rows, s.links.author(name, href))
	}
	return s.write(ctx, domref.Author, rows)
}

func (s *Service) write(ctx context.Context, e domref.Entity, rows []domref.Row) error {
	if len(rows) == 0 {
		s.logger.Info("feed empty", zap.String("entity", string(e)))
		return nil
	}
	if err := s.writer.Replace(ctx, rows); err != nil {
		return fmt.Errorf("ingest %s: %w", e, err)
	}
	metrics.IngestRowsTotal.WithLabelValues(string(e)).Add(float64(len(rows)))
	s.logger.Info("reference rows updated", zap.String("entity", string(e)), zap.Int("rows", len(rows)))
	return nil
}

// Schedule registers Run on a cron spec. The caller starts and stops the
// returned scheduler.
func (s *Service) Schedule(spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		s.logger.Info("scheduled ingestion started")
		if err := s.Run(context.Background()); err != nil {
			s.logger.Error("scheduled ingestion failed", zap.Error(err))
			return
		}
		s.logger.Info("scheduled ingestion completed")
	})
	if err != nil {
		return nil, fmt.Errorf("schedule ingestion %q: %w", spec, err)
	}
	return c, nil
}
