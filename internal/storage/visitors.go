package storage

import (
	"context"
	"fmt"

	"sitio/internal/core"
)

// InsertVisit logs one visit. The date column defaults to the insert date
// when the visit carries none; the raw timestamp stays free-form client text.
func (r *SQLiteRepository) InsertVisit(ctx context.Context, v core.Visit) error {
	var err error
	if v.Date == "" {
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO visitors (ip, city, region, country, org, timestamp, loc)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			v.IP, v.City, v.Region, v.Country, v.Org, v.Timestamp, v.Loc)
	} else {
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO visitors (ip, city, region, country, org, timestamp, loc, date)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			v.IP, v.City, v.Region, v.Country, v.Org, v.Timestamp, v.Loc, v.Date)
	}
	if err != nil {
		return fmt.Errorf("insert visit: %w", err)
	}
	return nil
}

// CountVisitsByMonth counts visits stamped in the given YYYY-MM month.
func (r *SQLiteRepository) CountVisitsByMonth(ctx context.Context, month core.MonthKey) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM visitors WHERE substr(date, 1, 7) = ?",
		month.String()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count visits by month %s: %w", month, err)
	}
	return n, nil
}

// CountVisitsByDay counts visits stamped on the given YYYY-MM-DD day.
func (r *SQLiteRepository) CountVisitsByDay(ctx context.Context, day string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM visitors WHERE date = ?",
		day).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count visits by day %s: %w", day, err)
	}
	return n, nil
}

// CountryCityCounts returns visit counts grouped by country and city,
// keyed as "<country> - <city>".
func (r *SQLiteRepository) CountryCityCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT country, city, COUNT(*) FROM visitors
		 WHERE country != '' GROUP BY country, city`)
	if err != nil {
		return nil, fmt.Errorf("country counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var country, city string
		var n int
		if err := rows.Scan(&country, &city, &n); err != nil {
			return nil, fmt.Errorf("scan country count: %w", err)
		}
		counts[country+" - "+city] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate country counts: %w", err)
	}
	return counts, nil
}

// LocationStats returns visit counts grouped by coordinate pair, most
// visited first.
func (r *SQLiteRepository) LocationStats(ctx context.Context) ([]core.LocationStat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT city, country, loc, org, COUNT(*) AS visits FROM visitors
		 WHERE loc != '' GROUP BY loc ORDER BY visits DESC`)
	if err != nil {
		return nil, fmt.Errorf("location stats: %w", err)
	}
	defer rows.Close()

	stats := make([]core.LocationStat, 0)
	for rows.Next() {
		var s core.LocationStat
		if err := rows.Scan(&s.City, &s.Country, &s.Loc, &s.Org, &s.Count); err != nil {
			return nil, fmt.Errorf("scan location stat: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate location stats: %w", err)
	}
	return stats, nil
}
