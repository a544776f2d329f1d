package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sflanaga/parascan/internal/aggregate"
	"github.com/sflanaga/parascan/internal/topn"
)

// Persist writes one completed scan's results as a single set of
// transactions, stamped with a fresh scan id: one transaction per table,
// one INSERT per row, rollback on first error.
func Persist(db *sql.DB, stats *aggregate.Stats, started, finished time.Time) (string, error) {
	scanID := uuid.NewString()

	if _, err := db.Exec(
		`INSERT INTO scans (id, root_path, started_at, finished_at, total_bytes) VALUES (?, ?, ?, ?, ?)`,
		scanID, stats.Root, started.Unix(), finished.Unix(), stats.TotalBytes,
	); err != nil {
		return "", fmt.Errorf("insert scan row: %w", err)
	}

	if err := persistDirs(db, scanID, stats); err != nil {
		return "", err
	}
	if err := persistExtensions(db, scanID, stats); err != nil {
		return "", err
	}
	if err := persistUsers(db, scanID, stats); err != nil {
		return "", err
	}
	if err := persistRankings(db, scanID, stats); err != nil {
		return "", err
	}

	return scanID, nil
}

func persistDirs(db *sql.DB, scanID string, stats *aggregate.Stats) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin dir_stats transaction: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO dir_stats
		(scan_id, path, size_direct, files_direct, dirs_direct, size_recursive, files_recursive, dirs_recursive)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare dir_stats insert: %w", err)
	}
	defer stmt.Close()

	for path, d := range stats.Dirs {
		if _, err := stmt.Exec(scanID, path, d.SizeDirect, d.FilesDirect, d.DirsDirect,
			d.SizeRecursive, d.FilesRecursive, d.DirsRecursive); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert dir_stats %q: %w", path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit dir_stats transaction: %w", err)
	}
	return nil
}

func persistExtensions(db *sql.DB, scanID string, stats *aggregate.Stats) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin extension_stats transaction: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO extension_stats (scan_id, extension, total_bytes) VALUES (?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare extension_stats insert: %w", err)
	}
	defer stmt.Close()

	for ext, total := range stats.Extension {
		if _, err := stmt.Exec(scanID, ext, total); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert extension_stats %q: %w", ext, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit extension_stats transaction: %w", err)
	}
	return nil
}

func persistUsers(db *sql.DB, scanID string, stats *aggregate.Stats) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin user_stats transaction: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO user_stats (scan_id, owner_id, files, bytes) VALUES (?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare user_stats insert: %w", err)
	}
	defer stmt.Close()

	for owner, u := range stats.Users {
		if _, err := stmt.Exec(scanID, owner, u.Files, u.Bytes); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert user_stats %d: %w", owner, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit user_stats transaction: %w", err)
	}
	return nil
}

// rankings names every top-N heap under a stable label for the ranking
// column.
func rankings(stats *aggregate.Stats) map[string][]topn.Entry[string] {
	return map[string][]topn.Entry[string]{
		"size_direct":     stats.TopSizeDirect.Ranked(),
		"size_recursive":  stats.TopSizeRecursive.Ranked(),
		"dirs_direct":     stats.TopDirsDirect.Ranked(),
		"files_direct":    stats.TopFilesDirect.Ranked(),
		"files_recursive": stats.TopFilesRecursive.Ranked(),
		"largest_files":   stats.TopLargestFiles.Ranked(),
		"extensions":      stats.TopExtensions.Ranked(),
	}
}

func persistRankings(db *sql.DB, scanID string, stats *aggregate.Stats) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin top_entries transaction: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO top_entries (scan_id, ranking, rank, score, payload) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare top_entries insert: %w", err)
	}
	defer stmt.Close()

	for name, entries := range rankings(stats) {
		for rank, e := range entries {
			if _, err := stmt.Exec(scanID, name, rank, e.Score, e.Payload); err != nil {
				tx.Rollback()
				return fmt.Errorf("insert top_entries %s[%d]: %w", name, rank, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit top_entries transaction: %w", err)
	}
	return nil
}
