// Package ingest walks directories of exported post documents and folds
// each one into the store: a post created once per URN, an observation
// recorded on every sighting. Per-document problems become counters, never
// aborts; only an unavailable store or filesystem stops a run.
package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"postvault/internal/document"
	"postvault/internal/identifier"
	"postvault/internal/metrics"
	"postvault/internal/store"
)

// Stats aggregates per-document outcomes for one import. Processed counts
// every attempted document; New, Duplicates and Errors are mutually
// exclusive outcomes.
type Stats struct {
	Processed  int
	New        int
	Duplicates int
	Errors     int
}

// Importer ingests export files into a store. It runs strictly
// sequentially; the store's uniqueness constraint guards against
// concurrently executing runs.
type Importer struct {
	store    *store.Store
	log      *zap.SugaredLogger
	platform string
}

func NewImporter(st *store.Store, log *zap.SugaredLogger, platform string) *Importer {
	return &Importer{store: st, log: log, platform: platform}
}

// ImportDirectory ingests every .json file under dir for the given run.
// File order is name order but must not matter: outcomes are keyed on URN
// lookups, so any order produces the same post table. A missing directory
// is returned to the caller; per-file and per-document failures are counted
// and logged instead.
func (im *Importer) ImportDirectory(ctx context.Context, dir string, run *Run) (Stats, error) {
	start := time.Now()
	defer metrics.ObserveIngestDuration(start)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return Stats{}, errors.Wrapf(err, "read directory %s", dir)
	}

	var stats Stats
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			stats.Errors++
			metrics.IngestErrors.Inc()
			im.log.Warnw("unreadable file", "path", path, "error", err)
			continue
		}
		docs, err := document.DecodeFile(data)
		if err != nil {
			// Malformed file: one error, move on to the next file.
			stats.Errors++
			metrics.IngestErrors.Inc()
			im.log.Warnw("malformed file", "path", path, "error", err)
			continue
		}
		for i := range docs {
			if err := im.importDocument(ctx, &docs[i], path, run, &stats); err != nil {
				return stats, err
			}
		}
	}
	return stats, nil
}

// importDocument resolves one document to a post and records its
// observation. Returns an error only for failures that should abort the
// whole run.
func (im *Importer) importDocument(ctx context.Context, doc *document.Document, path string, run *Run, stats *Stats) error {
	stats.Processed++

	urn, ok := doc.URN()
	if !ok {
		stats.Errors++
		metrics.IngestErrors.Inc()
		im.log.Warnw("no urn found for document", "path", path)
		return nil
	}

	postID, found, err := im.store.FindPostIDByURN(ctx, urn)
	if err != nil {
		return errors.Wrap(err, "lookup post")
	}

	if found {
		stats.Duplicates++
		metrics.PostsDuplicate.Inc()
	} else {
		postID = identifier.Generate(identifier.PrefixPost)
		err := im.store.InsertPost(ctx, &store.Post{
			ID:                postID,
			URN:               urn,
			FullURN:           doc.FullURN,
			Platform:          im.platform,
			PostedAtTimestamp: doc.PostedAt.Timestamp,
			AuthorUsername:    doc.Author.Username,
			TextContent:       doc.Text,
			PostType:          postType(doc),
			URL:               doc.URL,
			RawJSON:           doc.Raw,
			FirstSeenAt:       time.Now().UTC(),
			IsRead:            false,
			IsMarked:          false,
		})
		if err != nil {
			// A conflict here means another run inserted the same URN
			// between our lookup and insert. Count it and move on; no
			// observation is recorded for this document.
			stats.Errors++
			metrics.IngestErrors.Inc()
			if errors.Is(err, store.ErrDuplicateURN) {
				im.log.Warnw("insert raced another run", "urn", urn)
			} else {
				im.log.Warnw("insert post failed", "urn", urn, "error", err)
			}
			return nil
		}
		stats.New++
		metrics.PostsNew.Inc()
	}

	obs := &store.Observation{
		ID:             identifier.Generate(identifier.PrefixObservation),
		PostID:         postID,
		RunID:          run.ID(),
		ObservedAt:     time.Now().UTC(),
		TotalReactions: doc.Stats.TotalReactions,
		StatsJSON:      doc.Stats.Raw,
		RawJSON:        doc.Raw,
		SourceFilePath: path,
	}
	if err := im.store.InsertObservation(ctx, obs); err != nil {
		// The post stays; only the sighting is lost.
		stats.Errors++
		metrics.IngestErrors.Inc()
		im.log.Warnw("insert observation failed", "urn", urn, "error", err)
	}
	return nil
}

func postType(doc *document.Document) string {
	if doc.PostType == "" {
		return "regular"
	}
	return doc.PostType
}
