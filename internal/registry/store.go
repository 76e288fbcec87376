package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bundlex-labs/bundlex/internal/document"
)

// Load clears the registry and replays the document at Path. Bundles are
// rebuilt first, then assets through AssignAsset, so records that would
// break an invariant are skipped with a warning instead of applied.
//
// A missing document returns ErrNoDocument. A document that cannot be
// parsed is deleted and ErrCorruptDocument is returned. A document from an
// unsupported format version is left in place and ErrUnsupportedDocument
// is returned. In each of these cases the registry stays empty.
//
// If ctx is done between records, replay stops and the result is marked
// Partial; no error is returned.
func (r *Registry) Load(ctx context.Context, progress Progress) (LoadResult, error) {
	start := time.Now()
	defer func() { loadDuration.Observe(time.Since(start).Seconds()) }()

	r.Clear()

	parsed, err := document.ReadFile(r.path)
	if err != nil {
		switch {
		case errors.Is(err, document.ErrNotFound):
			loadTotal.WithLabelValues("missing").Inc()
		case errors.Is(err, document.ErrCorrupt):
			loadTotal.WithLabelValues("corrupt").Inc()
			r.logger.Warn("discarding corrupt registry document", "path", r.path, "error", err)
			if derr := document.Discard(r.path); derr != nil {
				err = errors.Join(err, derr)
			}
		default:
			loadTotal.WithLabelValues("error").Inc()
		}
		return LoadResult{}, err
	}

	res, skipped := r.replay(ctx, parsed, progress)
	for record, n := range skipped {
		skippedRecordsTotal.WithLabelValues(record).Add(float64(n))
	}
	if res.Partial {
		loadTotal.WithLabelValues("partial").Inc()
	} else {
		loadTotal.WithLabelValues("ok").Inc()
	}
	r.recordSize()
	return res, nil
}

// Replay clears the registry and rebuilds it from an already parsed
// document with the same rules as Load. It touches no file and records no
// metrics, so it can be used to preview what a Load would keep.
func (r *Registry) Replay(ctx context.Context, parsed *document.Parsed, progress Progress) LoadResult {
	res, _ := r.replay(ctx, parsed, progress)
	return res
}

// replay rebuilds the registry from parsed and reports skipped record
// counts by kind.
func (r *Registry) replay(ctx context.Context, parsed *document.Parsed, progress Progress) (LoadResult, map[string]int) {
	if progress == nil {
		progress = ProgressFuncs{}
	}
	r.Clear()

	skipped := make(map[string]int)
	skip := func(res *LoadResult, record string, index int, reason string) {
		res.Skipped++
		skipped[record]++
		r.logger.Warn("skipping registry record", "record", record, "index", index, "reason", reason)
	}

	var res LoadResult
	n := len(parsed.Bundles)
	for i, e := range parsed.Bundles {
		if ctx.Err() != nil {
			res.Partial = true
			break
		}
		progress.BundleLoading(i+1, n)

		if !e.Valid() {
			skip(&res, "bundle", e.Index, issuesReason(e.Issues))
			continue
		}
		rec := e.Record
		opts := BundleOptions{
			LoadType:       LoadType(rec.LoadType),
			Packed:         rec.Packed,
			ResourceGroups: rec.ResourceGroups,
		}
		if _, err := r.addBundle(rec.Name, rec.Variant, opts); err != nil {
			skip(&res, "bundle", e.Index, err.Error())
			continue
		}
		res.Bundles++
	}

	n = len(parsed.Assets)
	for i, e := range parsed.Assets {
		if res.Partial {
			break
		}
		if ctx.Err() != nil {
			res.Partial = true
			break
		}
		progress.AssetLoading(i+1, n)

		if !e.Valid() {
			skip(&res, "asset", e.Index, issuesReason(e.Issues))
			continue
		}
		rec := e.Record
		if err := r.assignAsset(rec.GUID, rec.Bundle, rec.Variant); err != nil {
			skip(&res, "asset", e.Index, err.Error())
			continue
		}
		res.Assets++
	}

	progress.LoadCompleted(res)
	return res, skipped
}

func issuesReason(issues []document.ValidationIssue) string {
	parts := make([]string, 0, len(issues))
	for _, is := range issues {
		parts = append(parts, is.String())
	}
	return strings.Join(parts, "; ")
}

// Document returns the persisted form of the registry: bundles in key
// order, then assets ordered by identifier.
func (r *Registry) Document() *document.Document {
	doc := document.New()
	for _, b := range r.Bundles() {
		rec := document.BundleRecord{
			Name:     b.name,
			Variant:  b.variant,
			LoadType: int(b.loadType),
			Packed:   b.packed,
		}
		if len(b.resourceGroups) > 0 {
			rec.ResourceGroups = b.ResourceGroups()
		}
		doc.Bundles = append(doc.Bundles, rec)
	}
	for _, a := range r.Assets() {
		b, ok := r.bundles[a.bundle]
		if !ok {
			continue
		}
		doc.Assets = append(doc.Assets, document.AssetRecord{
			GUID:    a.guid,
			Bundle:  b.name,
			Variant: b.variant,
		})
	}
	return doc
}

// Save writes the registry to Path, creating the directory when needed.
// A failed save leaves no partial file behind.
func (r *Registry) Save() (err error) {
	start := time.Now()
	defer func() {
		saveDuration.Observe(time.Since(start).Seconds())
		status := "ok"
		if err != nil {
			status = "error"
		}
		saveTotal.WithLabelValues(status).Inc()
	}()

	if err := document.WriteFile(r.path, r.Document()); err != nil {
		return fmt.Errorf("saving registry: %w", err)
	}
	r.recordSize()
	return nil
}
