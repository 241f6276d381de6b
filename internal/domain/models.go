package domain

// MeasurementType — тип показания счётчика
type MeasurementType string

const (
	TypeProduction  MeasurementType = "production"
	TypeConsumption MeasurementType = "consumption"
)

// IsValid проверяет, что тип один из двух допустимых
func (t MeasurementType) IsValid() bool {
	return t == TypeProduction || t == TypeConsumption
}

// Measurement представляет одно показание энергосчётчика.
// Timestamp хранится строкой ISO 8601 и сравнивается лексикографически.
type Measurement struct {
	ID        string          `json:"id" db:"id"`
	Timestamp string          `json:"timestamp" db:"timestamp"`
	Value     float64         `json:"value" db:"value"`
	MeterID   string          `json:"meterID" db:"meterID"`
	Type      MeasurementType `json:"type" db:"type"`
}

// MeasurementFilter — разреженный набор условий выборки.
// Нулевые значения означают "без ограничения по этому полю".
type MeasurementFilter struct {
	StartDate string
	EndDate   string
	MeterID   string
	Type      MeasurementType
	Page      int
	Limit     int
}

// MeasurementStats — агрегаты по отфильтрованной выборке.
// При пустой выборке все поля равны 0, не NULL и не NaN.
type MeasurementStats struct {
	Count   int64   `json:"count"`
	Sum     float64 `json:"sum"`
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}
