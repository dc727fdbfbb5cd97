package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/classactionfinder/finder-data/internal/acquisition"
	"github.com/classactionfinder/finder-data/internal/config"
	"github.com/classactionfinder/finder-data/internal/db"
)

func scanSource(row pgx.Row) (acquisition.DataSource, error) {
	var src acquisition.DataSource
	var reliability, scraping, mapping, history []byte
	err := row.Scan(&src.ID, &src.Name, &src.URL, &reliability, &scraping,
		&mapping, &history, &src.CreatedAt, &src.UpdatedAt)
	if err != nil {
		return src, err
	}
	if err := unmarshalJSON(reliability, &src.Reliability); err != nil {
		return src, fmt.Errorf("decode reliability_metrics: %w", err)
	}
	if err := unmarshalJSON(scraping, &src.ScrapingConfig); err != nil {
		return src, fmt.Errorf("decode scraping_config: %w", err)
	}
	if err := unmarshalJSON(mapping, &src.DataMapping); err != nil {
		return src, fmt.Errorf("decode data_mapping: %w", err)
	}
	if err := unmarshalJSON(history, &src.SuccessHistory); err != nil {
		return src, fmt.Errorf("decode success_history: %w", err)
	}
	return src, nil
}

// ListSources returns all data sources in creation order.
func (s *Store) ListSources(ctx context.Context) ([]acquisition.DataSource, error) {
	rows, err := s.pool.Query(ctx, "list_data_sources")
	if err != nil {
		return nil, fmt.Errorf("list data sources: %w", err)
	}
	defer rows.Close()

	var sources []acquisition.DataSource
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan data source: %w", err)
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

// GetSource returns one data source by id.
func (s *Store) GetSource(ctx context.Context, id string) (*acquisition.DataSource, error) {
	if err := checkID(id, "data source "+id); err != nil {
		return nil, err
	}
	src, err := scanSource(s.pool.QueryRow(ctx, "get_data_source", id))
	if err != nil {
		return nil, db.NotFound(err, "data source "+id)
	}
	return &src, nil
}

// AddSource inserts a data source and returns its id.
func (s *Store) AddSource(ctx context.Context, src acquisition.DataSource) (string, error) {
	if src.ID == "" {
		src.ID = uuid.NewString()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO `+config.DataSourcesTable+` (
			id, name, url, reliability_metrics, scraping_config,
			data_mapping, success_history
		) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		src.ID, src.Name, src.URL,
		marshalJSON(src.Reliability), marshalJSON(src.ScrapingConfig),
		marshalJSON(src.DataMapping), marshalJSON(src.SuccessHistory),
	)
	if err != nil {
		return "", fmt.Errorf("insert data source: %w", err)
	}
	return src.ID, nil
}

// UpdateReliability replaces a source's reliability metrics.
func (s *Store) UpdateReliability(ctx context.Context, id string, r acquisition.Reliability) error {
	if err := checkID(id, "data source "+id); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE `+config.DataSourcesTable+`
		SET reliability_metrics = $2, updated_at = NOW()
		WHERE id = $1`, id, marshalJSON(r))
	if err != nil {
		return fmt.Errorf("update reliability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("data source %s: %w", id, db.ErrNotFound)
	}
	return nil
}

// RecordAttempt adds one scrape outcome to a source's success history. The
// row is locked for the read-modify-write so concurrent probes never lose a
// count.
func (s *Store) RecordAttempt(ctx context.Context, id string, success bool, at time.Time) error {
	if err := checkID(id, "data source "+id); err != nil {
		return err
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var raw []byte
	err = tx.QueryRow(ctx, `
		SELECT success_history FROM `+config.DataSourcesTable+`
		WHERE id = $1 FOR UPDATE`, id).Scan(&raw)
	if err != nil {
		return db.NotFound(err, "data source "+id)
	}

	var history acquisition.SuccessHistory
	if err := unmarshalJSON(raw, &history); err != nil {
		return fmt.Errorf("decode success_history: %w", err)
	}
	history.Record(success, at)

	if _, err := tx.Exec(ctx, `
		UPDATE `+config.DataSourcesTable+`
		SET success_history = $2, updated_at = NOW()
		WHERE id = $1`, id, marshalJSON(history)); err != nil {
		return fmt.Errorf("update success_history: %w", err)
	}
	return tx.Commit(ctx)
}
