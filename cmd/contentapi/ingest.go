package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	refrepo "github.com/zeit-online/contentapi/internal/repository/reference"
	"github.com/zeit-online/contentapi/internal/transport/feed"
	"github.com/zeit-online/contentapi/internal/transport/solr"
	ingestuc "github.com/zeit-online/contentapi/internal/usecase/ingest"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Refresh the reference tables from the metadata feeds and the search index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		start := time.Now()
		if err := a.ingester(a.searchClient()).Run(cmd.Context()); err != nil {
			return fmt.Errorf("ingest: %w", err)
		}
		a.logger.Info("metadata update completed", zap.Duration("took", time.Since(start)))
		return nil
	},
}

func (a *app) searchClient() *solr.Client {
	return solr.New(solr.Config{
		BaseURL: a.cfg.Search.URL,
		Timeout: time.Duration(a.cfg.Search.TimeoutSec) * time.Second,
		Logger:  a.logger,
	})
}

func (a *app) ingester(search *solr.Client) *ingestuc.Service {
	c := a.cfg.Ingest
	return ingestuc.New(
		refrepo.New(a.store),
		feed.New(time.Duration(c.TimeoutSec)*time.Second),
		search,
		ingestuc.Config{
			APIURL:    a.cfg.HTTP.APIURL,
			PortalURL: c.PortalURL,
			Feeds: ingestuc.Feeds{
				Products:    c.Products,
				Series:      c.Series,
				Keywords:    c.Keywords,
				Departments: c.Departments,
			},
		},
		a.logger,
	)
}
