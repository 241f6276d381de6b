package validator

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/DaFrankort/nodejs-measurements/internal/domain"

	"github.com/google/uuid"
)

// isoTimestampPattern — ISO 8601 с долями секунды и Z либо явным смещением
var isoTimestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`)

// IsISOTimestamp проверяет строку на соответствие формату ISO 8601
func IsISOTimestamp(s string) bool {
	return isoTimestampPattern.MatchString(s)
}

func isValidMeterID(s string) bool {
	return s != "" && !strings.ContainsAny(s, " \t\n\r\v\f")
}

// числа из JSON приходят как float64, но поддерживаем и int на случай ручной сборки map
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// ValidateMeasurement превращает сырой ввод в валидное показание.
// Проверки идут в фиксированном порядке, первая нарушенная останавливает валидацию.
// Если id не передан — генерируется новый UUID v4.
func ValidateMeasurement(raw map[string]any) (*domain.Measurement, error) {
	var missing []string
	for _, field := range []string{"timestamp", "value", "meterID", "type"} {
		if v, ok := raw[field]; !ok || v == nil {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, domain.ErrMissingFields(missing)
	}

	timestamp, ok := raw["timestamp"].(string)
	if !ok || !IsISOTimestamp(timestamp) {
		return nil, domain.ErrInvalidTimestamp("timestamp")
	}

	value, ok := toNumber(raw["value"])
	if !ok || value < 0 {
		return nil, domain.ErrMustBePositiveNumber("value")
	}

	meterID, ok := raw["meterID"].(string)
	if !ok || !isValidMeterID(meterID) {
		return nil, domain.ErrInvalidMeterID()
	}

	typeStr, ok := raw["type"].(string)
	mType := domain.MeasurementType(typeStr)
	if !ok || !mType.IsValid() {
		return nil, domain.ErrInvalidType()
	}

	id := uuid.NewString()
	if rawID, ok := raw["id"]; ok && rawID != nil {
		idStr, ok := rawID.(string)
		if !ok {
			return nil, domain.ErrInvalidID()
		}
		if _, err := uuid.Parse(idStr); err != nil {
			return nil, domain.ErrInvalidID()
		}
		id = idStr
	}

	return &domain.Measurement{
		ID:        id,
		Timestamp: timestamp,
		Value:     value,
		MeterID:   meterID,
		Type:      mType,
	}, nil
}

// ValidateFilter собирает фильтр из query-параметров.
// Каждое поле проверяется только если передано, отсутствие — не ошибка.
// При withPagination=false page/limit не читаются вовсе (эндпоинт статистики).
func ValidateFilter(params url.Values, withPagination bool) (*domain.MeasurementFilter, error) {
	filter := &domain.MeasurementFilter{}

	if startDate := params.Get("startDate"); startDate != "" {
		if !IsISOTimestamp(startDate) {
			return nil, domain.ErrInvalidTimestamp("startDate")
		}
		filter.StartDate = startDate
	}

	if endDate := params.Get("endDate"); endDate != "" {
		if !IsISOTimestamp(endDate) {
			return nil, domain.ErrInvalidTimestamp("endDate")
		}
		filter.EndDate = endDate
	}

	if meterID := params.Get("meterID"); meterID != "" {
		if !isValidMeterID(meterID) {
			return nil, domain.ErrInvalidMeterID()
		}
		filter.MeterID = meterID
	}

	if typeStr := params.Get("type"); typeStr != "" {
		mType := domain.MeasurementType(typeStr)
		if !mType.IsValid() {
			return nil, domain.ErrInvalidType()
		}
		filter.Type = mType
	}

	if !withPagination {
		return filter, nil
	}

	if pageStr := params.Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			return nil, domain.ErrMustBePositiveNumber("page")
		}
		filter.Page = page
	}

	if limitStr := params.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > 100 {
			return nil, domain.ErrInvalidLimit()
		}
		filter.Limit = limit
	}

	return filter, nil
}
