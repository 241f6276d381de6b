package service

import (
	"context"

	"github.com/DaFrankort/nodejs-measurements/internal/domain"
	"github.com/DaFrankort/nodejs-measurements/internal/metrics"

	"go.uber.org/zap"
)

type Repository interface {
	Insert(ctx context.Context, m *domain.Measurement) error
	InsertBatch(ctx context.Context, measurements []*domain.Measurement) error
	Select(ctx context.Context, filter *domain.MeasurementFilter) ([]*domain.Measurement, error)
	SelectStats(ctx context.Context, filter *domain.MeasurementFilter) (*domain.MeasurementStats, error)
	HealthCheck(ctx context.Context) error
}

type MeasurementService struct {
	repo   Repository
	logger *zap.Logger
}

func NewMeasurementService(repo Repository, logger *zap.Logger) *MeasurementService {
	return &MeasurementService{
		repo:   repo,
		logger: logger,
	}
}

func (s *MeasurementService) CheckDBConnection(ctx context.Context) error {
	return s.repo.HealthCheck(ctx)
}

// Create сохраняет одно валидированное показание
func (s *MeasurementService) Create(ctx context.Context, m *domain.Measurement) error {
	if err := ctx.Err(); err != nil {
		s.logger.Warn("[MeasurementService] Create cancelled by context",
			zap.String("measurement_id", m.ID))
		return err
	}

	if err := s.repo.Insert(ctx, m); err != nil {
		s.logger.Error("[MeasurementService] Failed to insert measurement",
			zap.String("measurement_id", m.ID),
			zap.Error(err))
		return domain.NewStorageError(domain.OpInsert, err)
	}

	metrics.MeasurementsCreated.WithLabelValues(string(m.Type)).Inc()

	s.logger.Info("[MeasurementService] Measurement created",
		zap.String("measurement_id", m.ID),
		zap.String("meter_id", m.MeterID),
		zap.Float64("value", m.Value))

	return nil
}

// CreateMany сохраняет пачку показаний как одну логическую операцию.
// Сбой любой строки откатывает всю пачку (семантика всё-или-ничего).
func (s *MeasurementService) CreateMany(ctx context.Context, measurements []*domain.Measurement) error {
	if len(measurements) == 0 {
		return nil
	}

	if err := s.repo.InsertBatch(ctx, measurements); err != nil {
		s.logger.Error("[MeasurementService] Failed to insert measurement batch",
			zap.Int("count", len(measurements)),
			zap.Error(err))
		return domain.NewStorageError(domain.OpInsert, err)
	}

	for _, m := range measurements {
		metrics.MeasurementsCreated.WithLabelValues(string(m.Type)).Inc()
	}

	s.logger.Info("[MeasurementService] Measurement batch created",
		zap.Int("count", len(measurements)))

	return nil
}

// FindAll возвращает показания по фильтру, окно page/limit.
// Пустой результат — это пустой срез, не ошибка.
func (s *MeasurementService) FindAll(ctx context.Context, filter *domain.MeasurementFilter) ([]*domain.Measurement, error) {
	measurements, err := s.repo.Select(ctx, filter)
	if err != nil {
		s.logger.Error("[MeasurementService] Failed to find measurements", zap.Error(err))
		return nil, domain.NewStorageError(domain.OpSelect, err)
	}

	if measurements == nil {
		measurements = []*domain.Measurement{}
	}

	return measurements, nil
}

// GetStats возвращает агрегаты по всей отфильтрованной выборке,
// пагинация здесь не участвует
func (s *MeasurementService) GetStats(ctx context.Context, filter *domain.MeasurementFilter) (*domain.MeasurementStats, error) {
	stats, err := s.repo.SelectStats(ctx, filter)
	if err != nil {
		s.logger.Error("[MeasurementService] Failed to get measurement stats", zap.Error(err))
		return nil, domain.NewStorageError(domain.OpSelect, err)
	}

	return stats, nil
}
