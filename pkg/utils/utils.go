package utils

import (
	"math/rand"
	"time"

	"github.com/DaFrankort/nodejs-measurements/internal/domain"

	"github.com/google/uuid"
)

func NewUUID() uuid.UUID {
	return uuid.New()
}

func IsValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// RandomMeasurement генерит случайное показание для тестов и сидинга
func RandomMeasurement() *domain.Measurement {
	mType := domain.TypeConsumption
	if rand.Intn(2) == 1 {
		mType = domain.TypeProduction
	}

	return &domain.Measurement{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Value:     rand.Float64() * 5000,
		MeterID:   uuid.NewString(),
		Type:      mType,
	}
}

// RandomMeasurements генерит пачку случайных показаний
func RandomMeasurements(amount int) []*domain.Measurement {
	measurements := make([]*domain.Measurement, 0, amount)
	for i := 0; i < amount; i++ {
		measurements = append(measurements, RandomMeasurement())
	}
	return measurements
}
