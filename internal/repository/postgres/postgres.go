package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/DaFrankort/nodejs-measurements/internal/config"
	"github.com/DaFrankort/nodejs-measurements/internal/domain"
	"github.com/DaFrankort/nodejs-measurements/internal/metrics"
	"github.com/DaFrankort/nodejs-measurements/internal/query"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type PostgresRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgresRepository(ctx context.Context, dbConfig config.DBConfig, logger *zap.Logger) (*PostgresRepository, error) {
	// Конфигурация пула
	poolConfig, err := pgxpool.ParseConfig(dbConfig.DBSource)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	poolConfig.MaxConns = int32(dbConfig.MaxDBConnections)
	poolConfig.MinConns = int32(dbConfig.MinDBConnections)
	poolConfig.MaxConnLifetime = dbConfig.MaxConnLifetime
	poolConfig.MaxConnIdleTime = dbConfig.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	// Проверка соединения
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Горутина мониторинга соединений
	go monitorConnections(ctx, pool, logger)

	return &PostgresRepository{
		pool:   pool,
		logger: logger,
	}, nil
}

// monitorConnections периодически обновляет метрики пула и завершается при отмене ctx
func monitorConnections(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopping monitorConnections goroutine due to context cancellation")
			return
		case <-ticker.C:
			stats := pool.Stat()
			metrics.DBActiveConnections.Set(float64(stats.AcquiredConns()))
			metrics.DBIdleConnections.Set(float64(stats.IdleConns()))

			logger.Debug("Database connection stats",
				zap.Int("acquired", int(stats.AcquiredConns())),
				zap.Int("idle", int(stats.IdleConns())),
				zap.Int("max", int(stats.MaxConns())),
			)
		}
	}
}

// InitSchema идемпотентно создаёт таблицу показаний при старте
func (r *PostgresRepository) InitSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, query.CreateTable); err != nil {
		return fmt.Errorf("failed to create table %q: %w", query.Table, err)
	}

	r.logger.Info("Table ready", zap.String("table", query.Table))
	return nil
}

func (r *PostgresRepository) Insert(ctx context.Context, m *domain.Measurement) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	start := time.Now()
	defer func() {
		metrics.DBQueryDuration.WithLabelValues("insert_measurement").Observe(time.Since(start).Seconds())
	}()

	sql, args := query.Insert(m)
	if _, err := r.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to insert measurement: %w", err)
	}

	return nil
}

// InsertBatch вставляет пачку показаний в одной транзакции одним и тем же
// запросом на все строки. Первая ошибка откатывает всю пачку.
func (r *PostgresRepository) InsertBatch(ctx context.Context, measurements []*domain.Measurement) error {
	if len(measurements) == 0 {
		return nil
	}

	start := time.Now()
	defer func() {
		metrics.DBQueryDuration.WithLabelValues("insert_measurement_batch").Observe(time.Since(start).Seconds())
	}()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		// no-op после успешного Commit
		_ = tx.Rollback(ctx)
	}()

	for _, m := range measurements {
		sql, args := query.Insert(m)
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("failed to insert measurement %s: %w", m.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Select(ctx context.Context, filter *domain.MeasurementFilter) ([]*domain.Measurement, error) {
	start := time.Now()
	defer func() {
		metrics.DBQueryDuration.WithLabelValues("select_measurements").Observe(time.Since(start).Seconds())
	}()

	sql, args := query.Select(filter)
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query measurements: %w", err)
	}
	defer rows.Close()

	var results []*domain.Measurement
	for rows.Next() {
		var m domain.Measurement
		err := rows.Scan(
			&m.ID,
			&m.Timestamp,
			&m.Value,
			&m.MeterID,
			&m.Type,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		results = append(results, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return results, nil
}

func (r *PostgresRepository) SelectStats(ctx context.Context, filter *domain.MeasurementFilter) (*domain.MeasurementStats, error) {
	start := time.Now()
	defer func() {
		metrics.DBQueryDuration.WithLabelValues("select_measurement_stats").Observe(time.Since(start).Seconds())
	}()

	sql, args := query.SelectStats(filter)

	var stats domain.MeasurementStats
	err := r.pool.QueryRow(ctx, sql, args...).Scan(
		&stats.Count,
		&stats.Sum,
		&stats.Average,
		&stats.Min,
		&stats.Max,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query measurement stats: %w", err)
	}

	return &stats, nil
}

func (r *PostgresRepository) HealthCheck(ctx context.Context) error {
	start := time.Now()
	defer func() {
		metrics.DBQueryDuration.WithLabelValues("health_check").Observe(time.Since(start).Seconds())
	}()

	return r.pool.Ping(ctx)
}

func (r *PostgresRepository) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
}
