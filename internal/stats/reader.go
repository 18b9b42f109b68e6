// Package stats implements the aggregate reader: two query shapes over the
// events table, both predicated on site_id and an occured_at range, never
// on a HAVING clause — the range lives on the table's sort key, so it
// belongs in WHERE.
package stats

import (
	"context"
	"database/sql"
	"fmt"
)

// What selects which metric a Query computes. Page views is the default.
const (
	WhatPageViews      = "pv"
	WhatUniqueVisitors = "uv"
)

// Query describes one aggregate request.
type Query struct {
	SiteID string
	From   uint32
	To     uint32
	What   string
}

// Point is a single bucketed result row. Value holds the event/page name
// for page-view queries and the visitor identity for unique-visitor
// queries.
type Point struct {
	OccuredAt uint32
	Value     string
	Count     uint64
}

// Reader answers aggregate queries over the shared analytics connection.
type Reader struct {
	db *sql.DB
}

// NewReader builds a Reader over db.
func NewReader(db *sql.DB) *Reader {
	return &Reader{db: db}
}

// Run executes q and returns its bucketed points. An empty What defaults
// to page views.
func (r *Reader) Run(ctx context.Context, q Query) ([]Point, error) {
	what := q.What
	if what == "" {
		what = WhatPageViews
	}

	var sqlText string
	switch what {
	case WhatPageViews:
		sqlText = `
			SELECT occured_at, event, count() AS cnt
			FROM events
			WHERE site_id = ? AND occured_at BETWEEN ? AND ?
			GROUP BY occured_at, event
			ORDER BY occured_at`
	case WhatUniqueVisitors:
		sqlText = `
			SELECT occured_at, user_id, count() AS cnt
			FROM events
			WHERE site_id = ? AND occured_at BETWEEN ? AND ?
			GROUP BY occured_at, user_id, event
			ORDER BY occured_at`
	default:
		return nil, fmt.Errorf("stats: unknown metric %q", what)
	}

	rows, err := r.db.QueryContext(ctx, sqlText, q.SiteID, q.From, q.To)
	if err != nil {
		return nil, fmt.Errorf("stats: query failed: %w", err)
	}
	defer rows.Close()

	var points []Point
	for rows.Next() {
		var p Point
		if err := rows.Scan(&p.OccuredAt, &p.Value, &p.Count); err != nil {
			return nil, fmt.Errorf("stats: scan failed: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
