package repository

import (
	"context"
	"database/sql"
)

// PageViewRepo records page view events and serves the visit-statistics
// aggregations backing the owner dashboard.
type PageViewRepo struct{ DB *sql.DB }

func NewPageViewRepo(db *sql.DB) *PageViewRepo { return &PageViewRepo{DB: db} }

// Record upserts the aggregate counter for a page and appends one raw log
// row with the classified device type. Both writes share one transaction
// so the counter and the log never drift.
func (r *PageViewRepo) Record(ctx context.Context, pageID, deviceType string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	const upsert = `INSERT INTO page_views (page_id, views, last_viewed_at)
	                VALUES (?, 1, NOW())
	                ON DUPLICATE KEY UPDATE views = views + 1, last_viewed_at = NOW()`
	if _, err := tx.ExecContext(ctx, upsert, pageID); err != nil {
		return err
	}
	const logQ = `INSERT INTO page_view_logs (page_id, device_type, viewed_at) VALUES (?, ?, NOW())`
	if _, err := tx.ExecContext(ctx, logQ, pageID, deviceType); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// PageCount is one page's aggregate view count.
type PageCount struct {
	PageID string `json:"page_id"`
	Views  uint64 `json:"views"`
}

// TopPages returns the most viewed pages, highest first.
func (r *PageViewRepo) TopPages(ctx context.Context, limit int) ([]PageCount, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	const q = `SELECT page_id, views FROM page_views ORDER BY views DESC, page_id LIMIT ?`
	rows, err := r.DB.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]PageCount, 0)
	for rows.Next() {
		var p PageCount
		if err := rows.Scan(&p.PageID, &p.Views); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeviceCounts returns total view counts per device type.
func (r *PageViewRepo) DeviceCounts(ctx context.Context) (map[string]int, error) {
	const q = `SELECT device_type, COUNT(*) FROM page_view_logs GROUP BY device_type`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var dev string
		var n int
		if err := rows.Scan(&dev, &n); err != nil {
			return nil, err
		}
		out[dev] = n
	}
	return out, rows.Err()
}

// DailyCount is one day's raw view count.
type DailyCount struct {
	Day   string `json:"day"`
	Views int    `json:"views"`
}

// DailyCounts returns per-day view counts for the trailing N days,
// oldest first. Days without views are absent.
func (r *PageViewRepo) DailyCounts(ctx context.Context, days int) ([]DailyCount, error) {
	if days < 1 || days > 90 {
		days = 7
	}
	const q = `SELECT DATE_FORMAT(viewed_at, '%Y-%m-%d') AS day, COUNT(*)
	           FROM page_view_logs
	           WHERE viewed_at >= DATE_SUB(CURDATE(), INTERVAL ? DAY)
	           GROUP BY day
	           ORDER BY day`
	rows, err := r.DB.QueryContext(ctx, q, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]DailyCount, 0)
	for rows.Next() {
		var d DailyCount
		if err := rows.Scan(&d.Day, &d.Views); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
