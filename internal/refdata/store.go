// internal/refdata/store.go

// Package refdata loads the engine's reference tables (sector weights, fuel
// rates, vehicle coefficients, sector benchmarks) from Postgres, caches the
// assembled sets in Redis, and falls back to the compiled defaults whenever
// the database has nothing to say. The engine itself never touches I/O; it
// only ever sees a fully assembled *ticpe.Tables.
package refdata

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"profitum-workers/internal/common/database"
	"profitum-workers/internal/common/errors"
	"profitum-workers/internal/common/logger"
	"profitum-workers/internal/common/metrics"
	"profitum-workers/internal/models"
	"profitum-workers/internal/ticpe"
)

const (
	tablesCacheKeyFmt    = "ticpe:tables:%s"
	benchmarkCacheKeyFmt = "ticpe:benchmark:%s"

	sectorQuery = `SELECT sector_name, eligibility_points, default_rate, estimated_consumption
		FROM "TICPESectors" WHERE tables_version = $1`
	rateQuery = `SELECT fuel_type, rate FROM "TICPERates" WHERE tables_version = $1`
	vehicleQuery = `SELECT vehicle_type, eligibility_points, eligibility_coefficient
		FROM "TICPEVehicleTypes" WHERE tables_version = $1`
	benchmarkQuery = `SELECT s.sector_name, b.average_recovery, b.min_recovery, b.max_recovery,
		b.sample_size, b.confidence_level
		FROM "TICPEBenchmarks" b
		JOIN "TICPESectors" s ON s.id = b.sector_id
		WHERE s.sector_name = $1
		ORDER BY b.sample_size DESC
		LIMIT 1`
)

// StoreOptions configures a Store. DB and Redis may both be nil, in which
// case every lookup serves the compiled defaults.
type StoreOptions struct {
	DB       *database.PostgresClient
	Redis    *database.RedisClient
	Logger   logger.Logger
	Version  string
	CacheTTL time.Duration
}

// Store assembles and caches reference-table sets.
type Store struct {
	db       *database.PostgresClient
	redis    *database.RedisClient
	logger   logger.Logger
	version  string
	cacheTTL time.Duration
}

// NewStore builds a Store.
func NewStore(opts StoreOptions) *Store {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	version := opts.Version
	if version == "" {
		version = ticpe.DefaultTables().Version
	}
	ttl := opts.CacheTTL
	if ttl == 0 {
		ttl = 6 * time.Hour
	}
	return &Store{
		db:       opts.DB,
		redis:    opts.Redis,
		logger:   log,
		version:  version,
		cacheTTL: ttl,
	}
}

// Tables returns the table set for the configured version: Redis cache
// first, then Postgres overlaid on the defaults, then the plain defaults.
// It never fails: unreachable reference data degrades to the compiled
// numbers.
func (s *Store) Tables(ctx context.Context) *ticpe.Tables {
	if cached := s.cachedTables(ctx); cached != nil {
		return cached
	}

	tables := ticpe.DefaultTables()
	tables.Version = s.version

	if s.db == nil {
		metrics.RefDataFallbacks.WithLabelValues("all").Inc()
		return tables
	}

	overlaid := false
	if err := s.overlaySectors(ctx, tables); err != nil {
		s.logger.Warn("sector reference rows unavailable, using defaults", map[string]interface{}{
			"version": s.version,
			"error":   errors.NewReferenceDataUnavailableError("TICPESectors", err).Error(),
		})
		metrics.RefDataFallbacks.WithLabelValues("sectors").Inc()
	} else {
		overlaid = true
	}

	if err := s.overlayRates(ctx, tables); err != nil {
		s.logger.Warn("fuel rate rows unavailable, using defaults", map[string]interface{}{
			"version": s.version,
			"error":   errors.NewReferenceDataUnavailableError("TICPERates", err).Error(),
		})
		metrics.RefDataFallbacks.WithLabelValues("rates").Inc()
	} else {
		overlaid = true
	}

	if err := s.overlayVehicleTypes(ctx, tables); err != nil {
		s.logger.Warn("vehicle type rows unavailable, using defaults", map[string]interface{}{
			"version": s.version,
			"error":   errors.NewReferenceDataUnavailableError("TICPEVehicleTypes", err).Error(),
		})
		metrics.RefDataFallbacks.WithLabelValues("vehicle_types").Inc()
	} else {
		overlaid = true
	}

	if overlaid {
		s.cacheTables(ctx, tables)
	}

	return tables
}

// Benchmark fetches the best-sampled benchmark row for a sector. Unlike
// Tables, a missing benchmark is surfaced as an error: the caller decides
// whether comparison is optional.
func (s *Store) Benchmark(ctx context.Context, sector string) (*models.SectorBenchmark, error) {
	if b := s.cachedBenchmark(ctx, sector); b != nil {
		return b, nil
	}

	if s.db == nil {
		return nil, errors.NewBenchmarkNotFoundError(sector)
	}

	var b models.SectorBenchmark
	row := s.db.QueryRow(ctx, benchmarkQuery, sector)
	err := row.Scan(&b.Sector, &b.AverageRecovery, &b.MinRecovery, &b.MaxRecovery,
		&b.SampleSize, &b.ConfidenceLevel)
	if err == sql.ErrNoRows {
		return nil, errors.NewBenchmarkNotFoundError(sector)
	}
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.NewQueryTimeoutError("benchmark")
		}
		return nil, errors.NewQueryExecutionFailedError("benchmark", err)
	}

	s.cacheBenchmark(ctx, &b)
	return &b, nil
}

func (s *Store) overlaySectors(ctx context.Context, tables *ticpe.Tables) error {
	rows, err := s.db.Query(ctx, sectorQuery, s.version)
	if err != nil {
		return err
	}
	defer rows.Close()

	found := false
	for rows.Next() {
		var name string
		var points int
		var rate, consumption float64
		if err := rows.Scan(&name, &points, &rate, &consumption); err != nil {
			return err
		}
		tables.SectorPoints[name] = points
		tables.SectorDefaultRates[name] = rate
		tables.SectorConsumption[name] = consumption
		found = true
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no sector rows for version %s", s.version)
	}
	return nil
}

func (s *Store) overlayRates(ctx context.Context, tables *ticpe.Tables) error {
	rows, err := s.db.Query(ctx, rateQuery, s.version)
	if err != nil {
		return err
	}
	defer rows.Close()

	found := false
	for rows.Next() {
		var fuelType string
		var rate float64
		if err := rows.Scan(&fuelType, &rate); err != nil {
			return err
		}
		tables.FuelRates[fuelType] = rate
		found = true
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no rate rows for version %s", s.version)
	}
	return nil
}

func (s *Store) overlayVehicleTypes(ctx context.Context, tables *ticpe.Tables) error {
	rows, err := s.db.Query(ctx, vehicleQuery, s.version)
	if err != nil {
		return err
	}
	defer rows.Close()

	found := false
	for rows.Next() {
		var vehicleType string
		var points int
		var coeff float64
		if err := rows.Scan(&vehicleType, &points, &coeff); err != nil {
			return err
		}
		tables.VehicleTypePoints[vehicleType] = points
		tables.VehicleCoefficients[vehicleType] = coeff
		found = true
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no vehicle type rows for version %s", s.version)
	}
	return nil
}

func (s *Store) cachedTables(ctx context.Context) *ticpe.Tables {
	if s.redis == nil {
		return nil
	}
	raw, err := s.redis.Get(ctx, fmt.Sprintf(tablesCacheKeyFmt, s.version))
	if err != nil {
		return nil
	}
	var tables ticpe.Tables
	if err := json.Unmarshal([]byte(raw), &tables); err != nil {
		s.logger.Warn("corrupt tables cache entry, ignoring", map[string]interface{}{
			"version": s.version,
			"error":   err.Error(),
		})
		return nil
	}
	return &tables
}

func (s *Store) cacheTables(ctx context.Context, tables *ticpe.Tables) {
	if s.redis == nil {
		return
	}
	raw, err := json.Marshal(tables)
	if err != nil {
		return
	}
	key := fmt.Sprintf(tablesCacheKeyFmt, s.version)
	if err := s.redis.Set(ctx, key, raw, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache tables", map[string]interface{}{
			"version": s.version,
			"error":   errors.NewCacheWriteFailedError(key, err).Error(),
		})
	}
}

func (s *Store) cachedBenchmark(ctx context.Context, sector string) *models.SectorBenchmark {
	if s.redis == nil {
		return nil
	}
	raw, err := s.redis.Get(ctx, fmt.Sprintf(benchmarkCacheKeyFmt, sector))
	if err != nil {
		return nil
	}
	var b models.SectorBenchmark
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		return nil
	}
	return &b
}

func (s *Store) cacheBenchmark(ctx context.Context, b *models.SectorBenchmark) {
	if s.redis == nil {
		return
	}
	raw, err := json.Marshal(b)
	if err != nil {
		return
	}
	key := fmt.Sprintf(benchmarkCacheKeyFmt, b.Sector)
	if err := s.redis.Set(ctx, key, raw, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache benchmark", map[string]interface{}{
			"sector": b.Sector,
			"error":  errors.NewCacheWriteFailedError(key, err).Error(),
		})
	}
}
