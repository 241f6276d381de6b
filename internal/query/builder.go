package query

import (
	"fmt"
	"strings"

	"github.com/DaFrankort/nodejs-measurements/internal/domain"
)

// Table — имя таблицы показаний
const Table = "measurements"

const (
	DefaultPage  = 1
	DefaultLimit = 50
	MaxLimit     = 100
)

// CreateTable — идемпотентное создание таблицы при старте процесса.
// meterID в кавычках, чтобы Postgres сохранил регистр колонки.
const CreateTable = `CREATE TABLE IF NOT EXISTS ` + Table + ` (
	id TEXT PRIMARY KEY,
	timestamp TEXT NOT NULL,
	value REAL NOT NULL,
	"meterID" TEXT NOT NULL,
	type TEXT NOT NULL
)`

// Insert рендерит параметризованную вставку одного показания.
// Порядок параметров: id, timestamp, value, meterID, type.
func Insert(m *domain.Measurement) (string, []any) {
	sql := `INSERT INTO ` + Table + ` (id, timestamp, value, "meterID", type) VALUES ($1, $2, $3, $4, $5)`
	return sql, []any{m.ID, m.Timestamp, m.Value, m.MeterID, string(m.Type)}
}

// condition — одно опциональное условие WHERE.
// Явный упорядоченный список вместо перебора map, чтобы порядок
// параметров был детерминированным.
type condition struct {
	set    bool
	clause string
	value  any
}

func conditions(f *domain.MeasurementFilter) []condition {
	return []condition{
		{f.StartDate != "", "timestamp >=", f.StartDate},
		{f.EndDate != "", "timestamp <=", f.EndDate},
		{f.MeterID != "", `"meterID" =`, f.MeterID},
		{f.Type != "", "type =", string(f.Type)},
	}
}

// whereClause собирает WHERE из присутствующих полей фильтра.
// Если ни одно поле не задано — возвращает пустую строку без WHERE.
func whereClause(f *domain.MeasurementFilter, args []any) (string, []any) {
	var clauses []string
	for _, c := range conditions(f) {
		if !c.set {
			continue
		}
		args = append(args, c.value)
		clauses = append(clauses, fmt.Sprintf("%s $%d", c.clause, len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// ClampPage поднимает page до 1, если задано меньше
func ClampPage(page int) int {
	if page < 1 {
		return DefaultPage
	}
	return page
}

// ClampLimit приводит limit к диапазону [1, 100], 0 означает значение по умолчанию
func ClampLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultLimit
	case limit < 1:
		return 1
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

// Select рендерит выборку показаний по фильтру с пагинацией.
// Сортировка по timestamp, id фиксирует порядок страниц между вызовами.
// Клампим page/limit повторно: builder обязан быть безопасным и для
// фильтра, собранного в обход валидации (например пустого).
func Select(f *domain.MeasurementFilter) (string, []any) {
	sql := `SELECT id, timestamp, value, "meterID", type FROM ` + Table

	where, args := whereClause(f, nil)
	sql += where

	page := ClampPage(f.Page)
	limit := ClampLimit(f.Limit)
	offset := (page - 1) * limit

	args = append(args, limit)
	sql += fmt.Sprintf(" ORDER BY timestamp, id LIMIT $%d", len(args))
	args = append(args, offset)
	sql += fmt.Sprintf(" OFFSET $%d", len(args))

	return sql, args
}

// SelectStats рендерит агрегатную выборку по фильтру, без пагинации.
// COALESCE приводит агрегаты пустой выборки к 0 вместо NULL.
func SelectStats(f *domain.MeasurementFilter) (string, []any) {
	sql := `SELECT COUNT(*), COALESCE(SUM(value), 0), COALESCE(AVG(value), 0), ` +
		`COALESCE(MIN(value), 0), COALESCE(MAX(value), 0) FROM ` + Table

	where, args := whereClause(f, nil)
	sql += where

	return sql, args
}
