// Package fetch polls RSS feeds for active substack profiles and writes the
// entries as post-document JSON files. The files then ride the normal import
// pipeline; nothing here writes to the posts table, keeping ingestion free
// of network I/O.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"postvault/internal/config"
	"postvault/internal/document"
	"postvault/internal/store"
)

// Result summarizes one fetch invocation.
type Result struct {
	Profiles  int
	Documents int
	Files     []string
}

// Fetcher downloads feeds for active substack profiles.
type Fetcher struct {
	store   *store.Store
	parser  *gofeed.Parser
	limiter *rate.Limiter
	log     *zap.SugaredLogger
	outDir  string
}

func New(st *store.Store, log *zap.SugaredLogger, cfg config.FetchConfig) *Fetcher {
	rps := cfg.RPS
	if rps <= 0 {
		rps = 1
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Fetcher{
		store:   st,
		parser:  gofeed.NewParser(),
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		log:     log,
		outDir:  cfg.OutputDir,
	}
}

// Run fetches every active substack profile's feed and writes one document
// file per profile under {outDir}/{yyyymmdd}/substack. A profile whose feed
// fails to fetch or parse is logged and skipped; the rest continue.
func (f *Fetcher) Run(ctx context.Context) (Result, error) {
	profiles, err := f.store.ListProfiles(ctx, true)
	if err != nil {
		return Result{}, err
	}

	dir := filepath.Join(f.outDir, time.Now().UTC().Format("20060102"), "substack")
	var res Result
	for _, p := range profiles {
		if p.Platform != "substack" {
			continue
		}
		res.Profiles++
		if err := f.limiter.Wait(ctx); err != nil {
			return res, err
		}
		url := fmt.Sprintf("https://%s.substack.com/feed", p.Username)
		feed, err := f.parser.ParseURLWithContext(url, ctx)
		if err != nil {
			f.log.Warnw("feed fetch failed", "username", p.Username, "url", url, "error", err)
			continue
		}
		docs := f.documentsFromFeed(p.Username, feed)
		if len(docs) == 0 {
			continue
		}
		path, err := writeDocuments(dir, p.Username, docs)
		if err != nil {
			return res, err
		}
		res.Documents += len(docs)
		res.Files = append(res.Files, path)
		f.log.Infow("feed fetched", "username", p.Username, "documents", len(docs))
	}
	return res, nil
}

func (f *Fetcher) documentsFromFeed(username string, feed *gofeed.Feed) []document.Document {
	docs := make([]document.Document, 0, len(feed.Items))
	for _, item := range feed.Items {
		guid := item.GUID
		if guid == "" {
			guid = item.Link
		}
		if guid == "" {
			f.log.Warnw("feed entry without id or link", "username", username, "title", item.Title)
			continue
		}
		// Substack GUIDs are stable article URLs; the trailing slug keys the URN.
		parts := strings.Split(strings.TrimRight(guid, "/"), "/")
		slug := parts[len(parts)-1]

		published := time.Now().UTC()
		if item.PublishedParsed != nil {
			published = item.PublishedParsed.UTC()
		}
		text := item.Description
		if text == "" {
			text = item.Content
		}
		docs = append(docs, document.Document{
			URNField: document.URNField{Scalar: fmt.Sprintf("substack:%s:%s", username, slug)},
			Author:   document.Author{Username: username},
			Text:     text,
			PostedAt: document.PostedAt{
				Timestamp: published.UnixMilli(),
				Date:      published.Format("2006-01-02 15:04:05"),
			},
			PostType: "article",
			URL:      item.Link,
		})
	}
	return docs
}

func writeDocuments(dir, username string, docs []document.Document) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create fetch directory")
	}
	b, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "marshal documents")
	}
	path := filepath.Join(dir, username+".json")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", errors.Wrap(err, "write documents")
	}
	return path, nil
}
