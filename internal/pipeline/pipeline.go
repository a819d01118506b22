// Ludopanel - Genre Specialization Panels for Game Developers and Publishers
// Copyright 2026 pipeton8
// SPDX-License-Identifier: MIT
// https://github.com/pipeton8/ludopanel

// Package pipeline orchestrates one end-to-end run: extract the game catalog,
// expand it into per-role company-game rows, compute cumulative genre shares,
// balance the panels, export the CSVs, and derive the diversity datasets.
//
// The run is audited rather than transactional. Only fatal schema errors
// (unreadable catalog, malformed indicator matrix, unwritable output) abort;
// every data-quality problem is recorded on the tracker and in the final
// audit report while the run continues.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/pipeton8/ludopanel/internal/audit"
	"github.com/pipeton8/ludopanel/internal/catalog"
	"github.com/pipeton8/ludopanel/internal/config"
	"github.com/pipeton8/ludopanel/internal/diversity"
	"github.com/pipeton8/ludopanel/internal/export"
	"github.com/pipeton8/ludopanel/internal/genre"
	"github.com/pipeton8/ludopanel/internal/logging"
	"github.com/pipeton8/ludopanel/internal/metrics"
	"github.com/pipeton8/ludopanel/internal/panel"
)

// Diversity dataset file names, fixed so downstream plotting scripts can find
// them without configuration.
const (
	diversityYearFile = "diversity_by_year.csv"
	diversityAgeFile  = "diversity_by_age.csv"
)

// RoleStats summarizes one role's panel construction.
type RoleStats struct {
	Role         catalog.Role
	Orphans      int64
	Expand       panel.ExpandStats
	Balance      panel.BalanceStats
	PanelRecords int64
	RowsWritten  int64
	PanelPath    string
}

// Result is what a completed run produced.
type Result struct {
	RunID      string
	Duration   time.Duration
	Games      catalog.ExtractStats
	Developer  RoleStats
	Publisher  RoleStats
	ReportPath string

	// Suspect is true when at least one audit check failed. The outputs were
	// still written; the audit report explains what to distrust.
	Suspect bool
}

// Pipeline wires the stages together for one or more runs.
type Pipeline struct {
	cfg     *config.Config
	metrics *metrics.Metrics
	history audit.History
}

// New creates a pipeline. history may be nil when run persistence is
// disabled.
func New(cfg *config.Config, m *metrics.Metrics, history audit.History) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		metrics: m,
		history: history,
	}
}

// Run executes the full pipeline once. The returned error is non-nil only for
// fatal schema or I/O failures; audit-check failures are reported through
// Result.Suspect and the written report.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	started := time.Now()
	logger := logging.Ctx(ctx)
	runID := logging.RunIDFromContext(ctx)
	tracker := audit.NewTracker(runID, *logger)

	logger.Info().
		Str("catalog", p.cfg.Catalog.DBPath).
		Str("output_dir", p.cfg.Output.Dir).
		Msg("Starting pipeline run")

	reader, err := catalog.NewReader(p.cfg.Catalog.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer reader.Close() //nolint:errcheck // read-only connection, close errors not actionable

	games, stats, hierarchy, matrix, err := p.extract(ctx, reader, tracker)
	if err != nil {
		return nil, err
	}

	developers, publishers, err := p.loadLookups(ctx, reader, tracker)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID: runID,
		Games: stats,
	}

	var developerRecords, publisherRecords []panel.Record
	for _, spec := range []struct {
		role     catalog.Role
		lookup   map[int64]string
		fileName string
		stats    *RoleStats
		records  *[]panel.Record
	}{
		{catalog.RoleDeveloper, developers, p.cfg.Output.DeveloperPanel, &result.Developer, &developerRecords},
		{catalog.RolePublisher, publishers, p.cfg.Output.PublisherPanel, &result.Publisher, &publisherRecords},
	} {
		roleStats, records, err := p.buildPanel(ctx, tracker, games, matrix, hierarchy, spec.role, spec.lookup, spec.fileName)
		if err != nil {
			return nil, err
		}
		*spec.stats = roleStats
		*spec.records = records
	}

	if p.cfg.Diversity.Enabled {
		if err := p.deriveDiversity(ctx, developerRecords, publisherRecords); err != nil {
			return nil, err
		}
	}

	result.Duration = time.Since(started)
	p.finishMetrics(ctx, result, tracker)

	tracker.LogSummary()
	report := tracker.Report()
	result.Suspect = report.Suspect()

	reportPath, err := report.WriteFile(p.cfg.Output.ReportDir)
	if err != nil {
		return nil, err
	}
	result.ReportPath = reportPath
	logger.Info().Str("path", reportPath).Msg("Audit report written")

	if p.history != nil {
		if err := p.history.Save(ctx, report); err != nil {
			logger.Warn().Err(err).Msg("Failed to persist run report to history")
		}
	}

	logger.Info().
		Dur("duration", result.Duration).
		Bool("suspect", result.Suspect).
		Msg("Pipeline run complete")

	return result, nil
}

// extract reads and parses the games table, loads the indicator matrix, and
// records the extraction-quality checks.
func (p *Pipeline) extract(ctx context.Context, reader *catalog.Reader, tracker *audit.Tracker) ([]catalog.Game, catalog.ExtractStats, *genre.Hierarchy, *catalog.IndicatorMatrix, error) {
	const step = "extract"
	logger := logging.Ctx(ctx)
	started := time.Now()

	games, stats, sampleErrs, err := reader.ReadGames(ctx, p.cfg.Catalog.MinYear, p.cfg.Catalog.EffectiveMaxYear())
	if err != nil {
		return nil, stats, nil, nil, fmt.Errorf("read games: %w", err)
	}
	for _, sampleErr := range sampleErrs {
		tracker.Warnf(step, "payload parse failure: %v", sampleErr)
	}

	tracker.Checkf(step, "games extracted", stats.Total > 0,
		"%d rows read from games table", stats.Total)
	tracker.Checkf(step, "payloads parsed", stats.Parsed > 0 && stats.ParseErrors < stats.Total,
		"%d parsed, %d parse errors", stats.Parsed, stats.ParseErrors)

	devRatio := ratio(stats.NoDevelopers, stats.Parsed)
	pubRatio := ratio(stats.NoPublishers, stats.Parsed)
	yearRatio := ratio(stats.NoYear, stats.Parsed)
	tracker.Checkf(step, "games with developers", devRatio <= p.cfg.Pipeline.MissingRoleFailRatio,
		"%d of %d games lack developers (%.1f%%)", stats.NoDevelopers, stats.Parsed, devRatio*100)
	tracker.Checkf(step, "games with publishers", pubRatio <= p.cfg.Pipeline.MissingRoleFailRatio,
		"%d of %d games lack publishers (%.1f%%)", stats.NoPublishers, stats.Parsed, pubRatio*100)
	tracker.Checkf(step, "games with release year", yearRatio <= p.cfg.Pipeline.MissingYearFailRatio,
		"%d of %d games lack a resolvable year (%.1f%%)", stats.NoYear, stats.Parsed, yearRatio*100)
	tracker.Checkf(step, "release years in window", yearsInWindow(stats, p.cfg.Catalog.MinYear, p.cfg.Catalog.EffectiveMaxYear()),
		"resolved years span [%d, %d]", stats.MinYear, stats.MaxYear)

	matrix, err := reader.LoadIndicators(ctx, p.cfg.Catalog.GenreVectorsPath)
	if err != nil {
		return nil, stats, nil, nil, fmt.Errorf("load genre vectors: %w", err)
	}
	if matrix.DuplicateGames > 0 {
		tracker.Warnf(step, "%d duplicate game IDs in genre vector matrix, first occurrence kept", matrix.DuplicateGames)
	}
	tracker.Checkf(step, "genre vectors loaded", len(matrix.Vectors) > 0,
		"%d games with indicator vectors, %d indicators across %d categories",
		len(matrix.Vectors), matrix.Hierarchy.G(), matrix.Hierarchy.Categories())

	p.metrics.GamesExtracted.Set(float64(stats.Total))
	p.metrics.GamesParsed.Set(float64(stats.Parsed))
	p.metrics.ParseErrors.Add(float64(stats.ParseErrors))
	p.metrics.ObserveStage("extract", time.Since(started))

	logger.Info().
		Int64("games", stats.Parsed).
		Int("indicators", matrix.Hierarchy.G()).
		Int("categories", matrix.Hierarchy.Categories()).
		Msg("Extraction complete")

	return games, stats, matrix.Hierarchy, matrix, nil
}

// loadLookups reads both company lookup tables.
func (p *Pipeline) loadLookups(ctx context.Context, reader *catalog.Reader, tracker *audit.Tracker) (developers, publishers map[int64]string, err error) {
	const step = "lookups"

	developers, err = reader.LoadCompanies(ctx, p.cfg.Catalog.DevelopersPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load developers: %w", err)
	}
	publishers, err = reader.LoadCompanies(ctx, p.cfg.Catalog.PublishersPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load publishers: %w", err)
	}

	tracker.Checkf(step, "developer lookup loaded", len(developers) > 0,
		"%d developers", len(developers))
	tracker.Checkf(step, "publisher lookup loaded", len(publishers) > 0,
		"%d publishers", len(publishers))

	return developers, publishers, nil
}

// buildPanel runs expansion, share computation, verification, balancing, and
// export for one role.
func (p *Pipeline) buildPanel(
	ctx context.Context,
	tracker *audit.Tracker,
	games []catalog.Game,
	matrix *catalog.IndicatorMatrix,
	hierarchy *genre.Hierarchy,
	role catalog.Role,
	lookup map[int64]string,
	fileName string,
) (RoleStats, []panel.Record, error) {
	step := string(role)
	logger := logging.Ctx(ctx)
	started := time.Now()

	roleStats := RoleStats{Role: role}

	roleStats.Orphans = catalog.StripOrphans(games, lookup, role)
	if roleStats.Orphans > 0 {
		tracker.Warnf(step, "%d %s references absent from the lookup table were dropped", roleStats.Orphans, role)
	}

	rows, expandStats := panel.Expand(games, matrix, role)
	roleStats.Expand = expandStats
	if expandStats.DuplicatesRemoved > 0 {
		tracker.Warnf(step, "%d duplicate (game, company, year) rows removed", expandStats.DuplicatesRemoved)
	}
	tracker.Checkf(step, "rows expanded", expandStats.Rows > 0,
		"%d rows from %d games (dropped: %d missing vector, %d zero vector, %d missing %s, %d missing year)",
		expandStats.Rows, expandStats.Games,
		expandStats.MissingVector, expandStats.ZeroVector, expandStats.MissingRole, role, expandStats.MissingYear)

	engine := panel.NewEngine(hierarchy, p.cfg.Pipeline.Workers)
	records, err := engine.ComputeShares(ctx, rows, lookup)
	if err != nil {
		return roleStats, nil, fmt.Errorf("compute %s shares: %w", role, err)
	}
	panel.Verify(tracker, step, records, rows, hierarchy, p.cfg.Pipeline.SpotCheckSamples)

	balanced, balanceStats := panel.Balance(records)
	roleStats.Balance = balanceStats
	roleStats.PanelRecords = int64(len(balanced))
	panel.VerifyBalanced(tracker, step, records, balanced)

	panelPath := filepath.Join(p.cfg.Output.Dir, fileName)
	written, err := export.WritePanel(panelPath, hierarchy, balanced)
	if err != nil {
		return roleStats, nil, fmt.Errorf("write %s panel: %w", role, err)
	}
	roleStats.RowsWritten = written
	roleStats.PanelPath = panelPath
	tracker.Checkf(step, "panel written", written == int64(len(balanced)),
		"%d rows written to %s", written, panelPath)

	dropped := expandStats.MissingVector + expandStats.ZeroVector + expandStats.MissingRole + expandStats.MissingYear
	p.metrics.RowsExpanded.WithLabelValues(step).Set(float64(expandStats.Rows))
	p.metrics.RowsDeduplicated.WithLabelValues(step).Set(float64(expandStats.DuplicatesRemoved))
	p.metrics.GamesDropped.WithLabelValues(step).Set(float64(dropped))
	p.metrics.Companies.WithLabelValues(step).Set(float64(balanceStats.Companies))
	p.metrics.PanelRecords.WithLabelValues(step).Set(float64(len(balanced)))
	p.metrics.SynthesizedYears.WithLabelValues(step).Set(float64(balanceStats.Synthesized))
	p.metrics.ObserveStage(step, time.Since(started))

	logger.Info().
		Str("role", step).
		Int64("companies", balanceStats.Companies).
		Int("records", len(balanced)).
		Int64("synthesized_years", balanceStats.Synthesized).
		Str("path", panelPath).
		Msg("Panel written")

	return roleStats, balanced, nil
}

// deriveDiversity computes the diversity indices over both balanced panels
// and writes the combined year and firm-age datasets.
func (p *Pipeline) deriveDiversity(ctx context.Context, developer, publisher []panel.Record) error {
	logger := logging.Ctx(ctx)
	started := time.Now()
	cfg := p.cfg.Diversity

	developerSeries := diversity.BuildSeries(
		diversity.Compute(developer, cfg.YearMin, cfg.YearMax),
		diversity.CompanyTotals(developer), cfg.Thresholds, cfg.AgeMax)
	publisherSeries := diversity.BuildSeries(
		diversity.Compute(publisher, cfg.YearMin, cfg.YearMax),
		diversity.CompanyTotals(publisher), cfg.Thresholds, cfg.AgeMax)

	yearPath := filepath.Join(p.cfg.Output.Dir, diversityYearFile)
	yearRows, err := export.WriteDiversityDataset(yearPath, "Year", diversity.CombineYear(developerSeries, publisherSeries))
	if err != nil {
		return fmt.Errorf("write diversity year dataset: %w", err)
	}

	agePath := filepath.Join(p.cfg.Output.Dir, diversityAgeFile)
	ageRows, err := export.WriteDiversityDataset(agePath, "Age", diversity.CombineAge(developerSeries, publisherSeries))
	if err != nil {
		return fmt.Errorf("write diversity age dataset: %w", err)
	}

	p.metrics.ObserveStage("diversity", time.Since(started))

	logger.Info().
		Int64("year_rows", yearRows).
		Int64("age_rows", ageRows).
		Msg("Diversity datasets written")

	return nil
}

// finishMetrics records the run-level gauges and pushes the registry if a
// Pushgateway is configured. Push failures degrade to a warning.
func (p *Pipeline) finishMetrics(ctx context.Context, result *Result, tracker *audit.Tracker) {
	_, _, failed, _ := tracker.Counts()

	p.metrics.AuditChecksFailed.Set(float64(failed))
	p.metrics.RunDuration.Set(result.Duration.Seconds())
	p.metrics.LastRunUnixtime.Set(float64(time.Now().Unix()))
	if failed == 0 {
		p.metrics.RunSuccess.Set(1)
	} else {
		p.metrics.RunSuccess.Set(0)
	}

	if err := p.metrics.Push(p.cfg.Metrics.PushgatewayURL, p.cfg.Metrics.JobName, result.RunID); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to push metrics")
	}
}

// yearsInWindow reports whether the resolved release-year bounds fall inside
// the configured window. Vacuously true when no game resolved a year
// (MinYear stays 0); that case is covered by the "games with release year"
// ratio check instead.
func yearsInWindow(stats catalog.ExtractStats, minYear, maxYear int) bool {
	if stats.MinYear == 0 {
		return true
	}
	return stats.MinYear >= minYear && stats.MaxYear <= maxYear
}

// ratio guards against a zero denominator.
func ratio(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole)
}
