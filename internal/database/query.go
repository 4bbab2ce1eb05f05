package database

import (
	"fmt"
	"strings"
)

// QueryBuilder converts SQL queries with ? placeholders to dialect-specific format.
type QueryBuilder struct {
	dialect Dialect
}

// NewQueryBuilder creates a new QueryBuilder for the given dialect.
func NewQueryBuilder(dialect Dialect) *QueryBuilder {
	return &QueryBuilder{dialect: dialect}
}

// Build converts a query with ? placeholders to dialect-specific placeholders.
//
// Example:
//
//	input:    "SELECT data FROM save_slots WHERE slot = ?"
//	SQLite:   "SELECT data FROM save_slots WHERE slot = ?"
//	Postgres: "SELECT data FROM save_slots WHERE slot = $1"
func (qb *QueryBuilder) Build(query string) string {
	if qb.dialect.Placeholder(1) == "?" {
		return query
	}

	var result strings.Builder
	position := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			result.WriteString(qb.dialect.Placeholder(position))
			position++
		} else {
			result.WriteByte(query[i])
		}
	}
	return result.String()
}

// Upsert builds an INSERT that overwrites the row when key already exists.
// Both SQLite (3.24+) and PostgreSQL accept ON CONFLICT ... DO UPDATE.
//
// Example:
//
//	Upsert("save_slots", "slot", "slot", "data")
//	SQLite:   "INSERT INTO save_slots (slot, data) VALUES (?, ?) ON CONFLICT (slot) DO UPDATE SET data = excluded.data"
func (qb *QueryBuilder) Upsert(table, key string, columns ...string) string {
	marks := make([]string, len(columns))
	var updates []string
	for i, c := range columns {
		marks[i] = "?"
		if c != key {
			updates = append(updates, fmt.Sprintf("%s = excluded.%s", c, c))
		}
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		table, strings.Join(columns, ", "), strings.Join(marks, ", "), key, strings.Join(updates, ", "))
	return qb.Build(query)
}
