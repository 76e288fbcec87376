package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bundlex-labs/bundlex/internal/catalog"
	"github.com/bundlex-labs/bundlex/internal/config"
	"github.com/bundlex-labs/bundlex/internal/project"
	"github.com/bundlex-labs/bundlex/internal/registry"
)

// session is the resolved project state of the running command.
var session *env

type env struct {
	cfg      *config.Config
	settings config.Settings
	logger   *slog.Logger
}

// projectRoot returns --project when given, otherwise the discovered root.
func projectRoot() (string, error) {
	if flagProject != "" {
		return filepath.Abs(flagProject)
	}
	return project.Root()
}

// loadEnv resolves the project, its settings and the logger, applying
// global flag overrides.
func loadEnv(cmd *cobra.Command) (*env, error) {
	root, err := projectRoot()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return nil, err
	}
	if flagDocument != "" {
		settings.Layout.Document, err = filepath.Abs(flagDocument)
		if err != nil {
			return nil, err
		}
	}
	if flagMetricsFile != "" {
		settings.MetricsFile = flagMetricsFile
	}

	level := settings.LogLevel
	if flagVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	session = &env{cfg: cfg, settings: settings, logger: logger}
	return session, nil
}

// openCatalog opens the content catalog of the project.
func (e *env) openCatalog(cmd *cobra.Command) (*catalog.Catalog, error) {
	l := e.settings.Layout
	cat, err := catalog.Open(cmd.Context(), l.AssetsRoot, l.Root, l.CatalogCache)
	if err != nil {
		return nil, fmt.Errorf("opening asset catalog: %w", err)
	}
	e.logger.Debug("catalog opened", "root", l.AssetsRoot, "items", cat.Len())
	return cat, nil
}

// openRegistry loads the project registry. A missing document yields an
// empty registry; a corrupt one has already been discarded by Load and
// also yields an empty registry. An interrupted load is an error so that
// a partial registry is never saved.
func openRegistry(cmd *cobra.Command) (*registry.Registry, *catalog.Catalog, *env, error) {
	e, err := loadEnv(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	cat, err := e.openCatalog(cmd)
	if err != nil {
		return nil, nil, nil, err
	}

	r := registry.New(e.settings.Layout.Document, cat, registry.WithLogger(e.logger))
	progress := registry.ProgressFuncs{
		Completed: func(res registry.LoadResult) {
			e.logger.Debug("registry loaded", "bundles", res.Bundles, "assets", res.Assets, "skipped", res.Skipped)
			if res.Skipped > 0 {
				e.logger.Warn("records skipped during load will be dropped on the next save", "count", res.Skipped)
			}
		},
	}

	res, err := r.Load(cmd.Context(), progress)
	switch {
	case errors.Is(err, registry.ErrNoDocument):
		e.logger.Debug("no registry document, starting empty", "path", r.Path())
	case errors.Is(err, registry.ErrCorruptDocument):
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: registry document %s was unreadable and has been discarded\n", r.Path())
	case err != nil:
		return nil, nil, nil, err
	case res.Partial:
		return nil, nil, nil, fmt.Errorf("loading registry interrupted: %w", cmd.Context().Err())
	}
	return r, cat, e, nil
}

// save persists r.
func (e *env) save(r *registry.Registry) error {
	if err := r.Save(); err != nil {
		return err
	}
	e.logger.Debug("registry saved", "path", r.Path(), "bundles", r.BundleCount(), "assets", r.AssetCount())
	return nil
}

// writeMetrics writes registry metrics when a metrics file is configured.
// Failures are logged, not returned.
func (e *env) writeMetrics() {
	if e.settings.MetricsFile == "" {
		return
	}
	if err := registry.WriteMetrics(e.settings.MetricsFile); err != nil {
		e.logger.Warn("writing metrics", "path", e.settings.MetricsFile, "error", err)
	}
}

// lookupBundle finds an existing bundle by full name, suggesting close
// names when there is none.
func lookupBundle(r *registry.Registry, fullName string) (*registry.Bundle, error) {
	if b, ok := r.Lookup(fullName); ok {
		return b, nil
	}
	return nil, notFound(r, fullName)
}

func notFound(r *registry.Registry, fullName string) error {
	err := fmt.Errorf("%w: %s", registry.ErrBundleNotFound, fullName)
	if s := r.Suggest(fullName, 3); len(s) > 0 {
		return fmt.Errorf("%w (did you mean %s?)", err, strings.Join(s, ", "))
	}
	return err
}
