package validator

import (
	"net/url"
	"testing"

	"github.com/DaFrankort/nodejs-measurements/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func validRaw() map[string]any {
	return map[string]any{
		"timestamp": "2026-01-15T10:30:00Z",
		"value":     42.5,
		"meterID":   "meter-1",
		"type":      "production",
	}
}

func TestValidateMeasurement_Valid(t *testing.T) {
	raw := validRaw()

	m, err := ValidateMeasurement(raw)
	assert.NoError(t, err)
	assert.Equal(t, "2026-01-15T10:30:00Z", m.Timestamp)
	assert.Equal(t, 42.5, m.Value)
	assert.Equal(t, "meter-1", m.MeterID)
	assert.Equal(t, domain.TypeProduction, m.Type)
	assert.True(t, m.ID != "", "id must be generated when absent")

	_, parseErr := uuid.Parse(m.ID)
	assert.NoError(t, parseErr)
}

func TestValidateMeasurement_KeepsProvidedID(t *testing.T) {
	raw := validRaw()
	id := uuid.NewString()
	raw["id"] = id

	m, err := ValidateMeasurement(raw)
	assert.NoError(t, err)
	assert.Equal(t, id, m.ID)
}

func TestValidateMeasurement_MissingFields(t *testing.T) {
	tests := []struct {
		name     string
		remove   []string
		expected string
	}{
		{"missing timestamp", []string{"timestamp"}, "Missing required fields: timestamp"},
		{"missing value", []string{"value"}, "Missing required fields: value"},
		{"missing meterID", []string{"meterID"}, "Missing required fields: meterID"},
		{"missing type", []string{"type"}, "Missing required fields: type"},
		{"missing several", []string{"timestamp", "type"}, "Missing required fields: timestamp, type"},
		{"missing all", []string{"timestamp", "value", "meterID", "type"}, "Missing required fields: timestamp, value, meterID, type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw()
			for _, field := range tt.remove {
				delete(raw, field)
			}

			_, err := ValidateMeasurement(raw)
			assert.Error(t, err)

			validationErr, ok := err.(*domain.ValidationError)
			assert.True(t, ok)
			assert.Equal(t, domain.KindMissingFields, validationErr.Kind)
			assert.Equal(t, tt.expected, validationErr.Message)
		})
	}
}

func TestValidateMeasurement_NilFieldCountsAsMissing(t *testing.T) {
	raw := validRaw()
	raw["timestamp"] = nil

	_, err := ValidateMeasurement(raw)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Missing required fields: timestamp")
}

func TestValidateMeasurement_InvalidFields(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value any
		kind  domain.ValidationKind
	}{
		{"timestamp without offset", "timestamp", "2026-01-15T10:30:00", domain.KindInvalidTimestamp},
		{"timestamp not a date", "timestamp", "yesterday", domain.KindInvalidTimestamp},
		{"timestamp wrong type", "timestamp", 12345, domain.KindInvalidTimestamp},
		{"negative value", "value", -1.0, domain.KindMustBePositiveNumber},
		{"value not a number", "value", "42", domain.KindMustBePositiveNumber},
		{"meterID with whitespace", "meterID", "a b", domain.KindInvalidMeterID},
		{"meterID empty", "meterID", "", domain.KindInvalidMeterID},
		{"meterID wrong type", "meterID", 7.0, domain.KindInvalidMeterID},
		{"unknown type", "type", "other", domain.KindInvalidType},
		{"id not a uuid", "id", "not-a-uuid", domain.KindInvalidID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw()
			raw[tt.field] = tt.value

			_, err := ValidateMeasurement(raw)
			assert.Error(t, err)

			validationErr, ok := err.(*domain.ValidationError)
			assert.True(t, ok)
			assert.Equal(t, tt.kind, validationErr.Kind)
		})
	}
}

func TestValidateMeasurement_ZeroValueIsValid(t *testing.T) {
	raw := validRaw()
	raw["value"] = 0.0

	m, err := ValidateMeasurement(raw)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, m.Value)
}

func TestValidateMeasurement_AcceptsBothTypes(t *testing.T) {
	for _, mType := range []string{"production", "consumption"} {
		raw := validRaw()
		raw["type"] = mType

		m, err := ValidateMeasurement(raw)
		assert.NoError(t, err)
		assert.Equal(t, domain.MeasurementType(mType), m.Type)
	}
}

func TestValidateMeasurement_TimestampWithFractionAndOffset(t *testing.T) {
	for _, ts := range []string{
		"2026-01-15T10:30:00.123Z",
		"2026-01-15T10:30:00+02:00",
		"2026-01-15T10:30:00.5-07:00",
	} {
		raw := validRaw()
		raw["timestamp"] = ts

		_, err := ValidateMeasurement(raw)
		assert.NoError(t, err, ts)
	}
}

func TestValidateFilter_Empty(t *testing.T) {
	filter, err := ValidateFilter(url.Values{}, true)
	assert.NoError(t, err)
	assert.Equal(t, &domain.MeasurementFilter{}, filter)
}

func TestValidateFilter_AllFields(t *testing.T) {
	params := url.Values{}
	params.Set("startDate", "2026-01-01T00:00:00Z")
	params.Set("endDate", "2026-02-01T00:00:00Z")
	params.Set("meterID", "meter-1")
	params.Set("type", "consumption")
	params.Set("page", "2")
	params.Set("limit", "25")

	filter, err := ValidateFilter(params, true)
	assert.NoError(t, err)
	assert.Equal(t, "2026-01-01T00:00:00Z", filter.StartDate)
	assert.Equal(t, "2026-02-01T00:00:00Z", filter.EndDate)
	assert.Equal(t, "meter-1", filter.MeterID)
	assert.Equal(t, domain.TypeConsumption, filter.Type)
	assert.Equal(t, 2, filter.Page)
	assert.Equal(t, 25, filter.Limit)
}

func TestValidateFilter_InvalidFields(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		kind  domain.ValidationKind
	}{
		{"bad startDate", "startDate", "01-01-2026", domain.KindInvalidTimestamp},
		{"bad endDate", "endDate", "soon", domain.KindInvalidTimestamp},
		{"bad meterID", "meterID", "a b", domain.KindInvalidMeterID},
		{"bad type", "type", "other", domain.KindInvalidType},
		{"page zero", "page", "0", domain.KindMustBePositiveNumber},
		{"page not a number", "page", "one", domain.KindMustBePositiveNumber},
		{"limit zero", "limit", "0", domain.KindInvalidLimit},
		{"limit above max", "limit", "150", domain.KindInvalidLimit},
		{"limit not a number", "limit", "many", domain.KindInvalidLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := url.Values{}
			params.Set(tt.key, tt.value)

			_, err := ValidateFilter(params, true)
			assert.Error(t, err)

			validationErr, ok := err.(*domain.ValidationError)
			assert.True(t, ok)
			assert.Equal(t, tt.kind, validationErr.Kind)
		})
	}
}

func TestValidateFilter_PaginationIgnoredWithoutFlag(t *testing.T) {
	params := url.Values{}
	params.Set("page", "0")
	params.Set("limit", "9000")

	// эндпоинт статистики не читает пагинацию вовсе
	filter, err := ValidateFilter(params, false)
	assert.NoError(t, err)
	assert.Equal(t, 0, filter.Page)
	assert.Equal(t, 0, filter.Limit)
}
