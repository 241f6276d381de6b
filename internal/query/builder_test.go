package query

import (
	"testing"

	"github.com/DaFrankort/nodejs-measurements/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestInsert(t *testing.T) {
	m := &domain.Measurement{
		ID:        "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d",
		Timestamp: "2026-01-15T10:30:00Z",
		Value:     42.5,
		MeterID:   "meter-1",
		Type:      domain.TypeProduction,
	}

	sql, args := Insert(m)

	assert.Equal(t, `INSERT INTO measurements (id, timestamp, value, "meterID", type) VALUES ($1, $2, $3, $4, $5)`, sql)
	assert.Equal(t, []any{m.ID, m.Timestamp, m.Value, m.MeterID, "production"}, args)
}

func TestSelect_EmptyFilter(t *testing.T) {
	sql, args := Select(&domain.MeasurementFilter{})

	assert.Equal(t, `SELECT id, timestamp, value, "meterID", type FROM measurements ORDER BY timestamp, id LIMIT $1 OFFSET $2`, sql)
	assert.Equal(t, []any{50, 0}, args)
}

func TestSelect_AllFilterFields(t *testing.T) {
	filter := &domain.MeasurementFilter{
		StartDate: "2026-01-01T00:00:00Z",
		EndDate:   "2026-02-01T00:00:00Z",
		MeterID:   "meter-1",
		Type:      domain.TypeConsumption,
		Page:      3,
		Limit:     20,
	}

	sql, args := Select(filter)

	assert.Equal(t,
		`SELECT id, timestamp, value, "meterID", type FROM measurements`+
			` WHERE timestamp >= $1 AND timestamp <= $2 AND "meterID" = $3 AND type = $4`+
			` ORDER BY timestamp, id LIMIT $5 OFFSET $6`,
		sql)
	assert.Equal(t, []any{"2026-01-01T00:00:00Z", "2026-02-01T00:00:00Z", "meter-1", "consumption", 20, 40}, args)
}

func TestSelect_SingleDimension(t *testing.T) {
	tests := []struct {
		name   string
		filter *domain.MeasurementFilter
		where  string
		arg    any
	}{
		{"startDate only", &domain.MeasurementFilter{StartDate: "2026-01-01T00:00:00Z"}, "timestamp >= $1", "2026-01-01T00:00:00Z"},
		{"endDate only", &domain.MeasurementFilter{EndDate: "2026-02-01T00:00:00Z"}, "timestamp <= $1", "2026-02-01T00:00:00Z"},
		{"meterID only", &domain.MeasurementFilter{MeterID: "m1"}, `"meterID" = $1`, "m1"},
		{"type only", &domain.MeasurementFilter{Type: domain.TypeProduction}, "type = $1", "production"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := Select(tt.filter)
			assert.Contains(t, sql, " WHERE "+tt.where)
			assert.Equal(t, []any{tt.arg, 50, 0}, args)
		})
	}
}

func TestSelect_PaginationClamping(t *testing.T) {
	tests := []struct {
		name           string
		page, limit    int
		expectedLimit  int
		expectedOffset int
	}{
		{"defaults", 0, 0, 50, 0},
		{"page below floor", -5, 10, 10, 0},
		{"limit above max", 1, 150, 100, 0},
		{"limit below min", 1, -3, 1, 0},
		{"offset from page", 3, 10, 10, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, args := Select(&domain.MeasurementFilter{Page: tt.page, Limit: tt.limit})
			assert.Equal(t, tt.expectedLimit, args[len(args)-2])
			assert.Equal(t, tt.expectedOffset, args[len(args)-1])
		})
	}
}

func TestSelectStats_EmptyFilter(t *testing.T) {
	sql, args := SelectStats(&domain.MeasurementFilter{})

	assert.Equal(t,
		"SELECT COUNT(*), COALESCE(SUM(value), 0), COALESCE(AVG(value), 0), "+
			"COALESCE(MIN(value), 0), COALESCE(MAX(value), 0) FROM measurements",
		sql)
	assert.Empty(t, args)
}

func TestSelectStats_IgnoresPagination(t *testing.T) {
	filter := &domain.MeasurementFilter{
		MeterID: "meter-1",
		Page:    4,
		Limit:   10,
	}

	sql, args := SelectStats(filter)

	assert.NotContains(t, sql, "LIMIT")
	assert.NotContains(t, sql, "OFFSET")
	assert.Equal(t, []any{"meter-1"}, args)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 50, ClampLimit(0))
	assert.Equal(t, 1, ClampLimit(-10))
	assert.Equal(t, 100, ClampLimit(150))
	assert.Equal(t, 77, ClampLimit(77))
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, ClampPage(0))
	assert.Equal(t, 1, ClampPage(-1))
	assert.Equal(t, 9, ClampPage(9))
}
