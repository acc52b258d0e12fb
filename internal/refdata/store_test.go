// internal/refdata/store_test.go
package refdata

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profitum-workers/internal/common/database"
	"profitum-workers/internal/common/logger"
	"profitum-workers/internal/models"
	"profitum-workers/internal/ticpe"
)

func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock, redismock.ClientMock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	redisClient, redisMock := redismock.NewClientMock()

	store := NewStore(StoreOptions{
		DB:       &database.PostgresClient{DB: db},
		Redis:    &database.RedisClient{Client: redisClient},
		Logger:   logger.NewTestLogger(t),
		Version:  "2024.1",
		CacheTTL: time.Hour,
	})
	return store, mock, redisMock
}

func TestStore_Tables_OverlaysDatabaseRows(t *testing.T) {
	store, mock, redisMock := newTestStore(t)

	redisMock.ExpectGet("ticpe:tables:2024.1").RedisNil()

	sectorRows := sqlmock.NewRows([]string{"sector_name", "eligibility_points", "default_rate", "estimated_consumption"}).
		AddRow("Transport routier de marchandises", 35, 0.180, 26000).
		AddRow("Secteur fluvial", 12, 0.120, 9000)
	mock.ExpectQuery(`FROM "TICPESectors"`).WithArgs("2024.1").WillReturnRows(sectorRows)

	rateRows := sqlmock.NewRows([]string{"fuel_type", "rate"}).
		AddRow("Gazole professionnel", 0.179)
	mock.ExpectQuery(`FROM "TICPERates"`).WithArgs("2024.1").WillReturnRows(rateRows)

	vehicleRows := sqlmock.NewRows([]string{"vehicle_type", "eligibility_points", "eligibility_coefficient"}).
		AddRow("Camions de plus de 7,5 tonnes", 20, 1.0)
	mock.ExpectQuery(`FROM "TICPEVehicleTypes"`).WithArgs("2024.1").WillReturnRows(vehicleRows)

	redisMock.Regexp().ExpectSet("ticpe:tables:2024.1", `.*`, time.Hour).SetVal("OK")

	tables := store.Tables(context.Background())
	require.NotNil(t, tables)

	// Database rows win over compiled defaults.
	assert.Equal(t, 35, tables.SectorPoints["Transport routier de marchandises"])
	assert.InDelta(t, 0.179, tables.FuelRates["Gazole professionnel"], 0.0001)
	assert.InDelta(t, 26000, tables.SectorConsumption["Transport routier de marchandises"], 0.01)

	// New rows extend the tables.
	assert.Equal(t, 12, tables.SectorPoints["Secteur fluvial"])

	// Untouched defaults survive the overlay.
	assert.Equal(t, 20, tables.SectorPoints[ticpe.SectorConstruction])
	assert.InDelta(t, 0.150, tables.FuelRates[ticpe.FuelOffRoadDiesel], 0.0001)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Tables_CacheHitSkipsDatabase(t *testing.T) {
	store, mock, redisMock := newTestStore(t)

	cached := ticpe.DefaultTables()
	cached.SectorPoints["Transport routier de marchandises"] = 42
	raw, err := json.Marshal(cached)
	require.NoError(t, err)

	redisMock.ExpectGet("ticpe:tables:2024.1").SetVal(string(raw))

	tables := store.Tables(context.Background())
	require.NotNil(t, tables)
	assert.Equal(t, 42, tables.SectorPoints["Transport routier de marchandises"])

	// No query was registered, so any database access would fail the test.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Tables_FallsBackToDefaultsOnQueryError(t *testing.T) {
	store, mock, redisMock := newTestStore(t)

	redisMock.ExpectGet("ticpe:tables:2024.1").RedisNil()

	mock.ExpectQuery(`FROM "TICPESectors"`).WithArgs("2024.1").WillReturnError(assert.AnError)
	mock.ExpectQuery(`FROM "TICPERates"`).WithArgs("2024.1").WillReturnError(assert.AnError)
	mock.ExpectQuery(`FROM "TICPEVehicleTypes"`).WithArgs("2024.1").WillReturnError(assert.AnError)

	tables := store.Tables(context.Background())
	require.NotNil(t, tables)

	defaults := ticpe.DefaultTables()
	assert.Equal(t, defaults.SectorPoints, tables.SectorPoints)
	assert.Equal(t, defaults.FuelRates, tables.FuelRates)
	assert.Equal(t, defaults.VehicleCoefficients, tables.VehicleCoefficients)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Tables_CacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := NewStore(StoreOptions{
		DB:       &database.PostgresClient{DB: db},
		Redis:    &database.RedisClient{Client: redisClient},
		Logger:   logger.NewTestLogger(t),
		Version:  "2024.1",
		CacheTTL: time.Hour,
	})

	sectorRows := sqlmock.NewRows([]string{"sector_name", "eligibility_points", "default_rate", "estimated_consumption"}).
		AddRow("Transport routier de marchandises", 35, 0.180, 26000)
	mock.ExpectQuery(`FROM "TICPESectors"`).WithArgs("2024.1").WillReturnRows(sectorRows)
	mock.ExpectQuery(`FROM "TICPERates"`).WithArgs("2024.1").WillReturnError(assert.AnError)
	mock.ExpectQuery(`FROM "TICPEVehicleTypes"`).WithArgs("2024.1").WillReturnError(assert.AnError)

	first := store.Tables(context.Background())
	assert.Equal(t, 35, first.SectorPoints["Transport routier de marchandises"])
	require.NoError(t, mock.ExpectationsWereMet())

	require.True(t, mr.Exists("ticpe:tables:2024.1"))
	mr.FastForward(30 * time.Minute)

	// No further query expectations: the second call must come from cache.
	second := store.Tables(context.Background())
	assert.Equal(t, first.SectorPoints, second.SectorPoints)
	assert.Equal(t, first.FuelRates, second.FuelRates)

	mr.FastForward(time.Hour)
	assert.False(t, mr.Exists("ticpe:tables:2024.1"))
}

func TestStore_Tables_NilClientsServeDefaults(t *testing.T) {
	store := NewStore(StoreOptions{Version: "2024.1"})

	tables := store.Tables(context.Background())
	require.NotNil(t, tables)
	assert.Equal(t, ticpe.DefaultTables().SectorPoints, tables.SectorPoints)
}

func TestStore_Benchmark(t *testing.T) {
	t.Run("fetches and caches benchmark row", func(t *testing.T) {
		store, mock, redisMock := newTestStore(t)

		redisMock.ExpectGet("ticpe:benchmark:Transport routier de marchandises").RedisNil()

		rows := sqlmock.NewRows([]string{"sector_name", "average_recovery", "min_recovery", "max_recovery", "sample_size", "confidence_level"}).
			AddRow("Transport routier de marchandises", 5800.0, 1200.0, 18000.0, 340, 0.85)
		mock.ExpectQuery(`FROM "TICPEBenchmarks"`).
			WithArgs("Transport routier de marchandises").
			WillReturnRows(rows)

		redisMock.Regexp().ExpectSet("ticpe:benchmark:Transport routier de marchandises", `.*`, time.Hour).SetVal("OK")

		b, err := store.Benchmark(context.Background(), "Transport routier de marchandises")
		require.NoError(t, err)
		assert.InDelta(t, 5800.0, b.AverageRecovery, 0.01)
		assert.Equal(t, 340, b.SampleSize)
		assert.InDelta(t, 0.85, b.ConfidenceLevel, 0.001)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cache hit skips database", func(t *testing.T) {
		store, mock, redisMock := newTestStore(t)

		cached := models.SectorBenchmark{
			Sector:          "Taxi / VTC",
			AverageRecovery: 1400,
			SampleSize:      90,
			ConfidenceLevel: 0.6,
		}
		raw, err := json.Marshal(cached)
		require.NoError(t, err)
		redisMock.ExpectGet("ticpe:benchmark:Taxi / VTC").SetVal(string(raw))

		b, err := store.Benchmark(context.Background(), "Taxi / VTC")
		require.NoError(t, err)
		assert.InDelta(t, 1400.0, b.AverageRecovery, 0.01)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row returns a business error", func(t *testing.T) {
		store, mock, redisMock := newTestStore(t)

		redisMock.ExpectGet("ticpe:benchmark:Commerce").RedisNil()
		mock.ExpectQuery(`FROM "TICPEBenchmarks"`).
			WithArgs("Commerce").
			WillReturnRows(sqlmock.NewRows([]string{"sector_name", "average_recovery", "min_recovery", "max_recovery", "sample_size", "confidence_level"}))

		_, err := store.Benchmark(context.Background(), "Commerce")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "BENCHMARK_NOT_FOUND")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
