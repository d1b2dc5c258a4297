// Package foodlog persists confirmed food-log entries and serves the date and
// range lookups behind stats queries.
package foodlog

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nutripal/server/internal/agent/model"
	errx "github.com/nutripal/server/internal/core/error"
	logx "github.com/nutripal/server/pkg/logger"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS daily_logs (
	id          TEXT PRIMARY KEY,
	food_id     INTEGER,
	amount_g    REAL NOT NULL,
	calories    REAL NOT NULL,
	protein     REAL NOT NULL,
	carbs       REAL NOT NULL,
	fat         REAL NOT NULL,
	timestamp   TEXT NOT NULL,
	log_date    TEXT NOT NULL,
	meal_type   TEXT,
	source_text TEXT,
	created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_daily_logs_date ON daily_logs(log_date);
`

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Init creates the log schema. Safe to call on every startup.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaDDL); err != nil {
		logx.Error().Err(err).Msg("failed to create food log schema")
		return errx.WrapSQLite(err)
	}
	return nil
}

// CreateEntry persists one log row and returns its id. The macros are already
// scaled to the consumed amount; log_date is derived from the timestamp so
// date lookups never parse timestamps.
func (s *Store) CreateEntry(ctx context.Context, entry model.NewLogEntry) (string, error) {
	id := uuid.NewString()
	ts := entry.Timestamp.UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO daily_logs
			(id, food_id, amount_g, calories, protein, carbs, fat, timestamp, log_date, meal_type, source_text, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, entry.FoodID, entry.Amount,
		entry.Macros.Calories, entry.Macros.Protein, entry.Macros.Carbs, entry.Macros.Fat,
		ts.Format(time.RFC3339), model.DateOf(ts).String(),
		nullable(entry.MealType), nullable(entry.SourceText),
		s.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		logx.Error().Err(err).Msg("failed to insert log entry")
		return "", errx.WrapSQLite(err)
	}
	return id, nil
}

const selectColumns = `id, food_id, amount_g, calories, protein, carbs, fat, timestamp, meal_type, source_text`

func (s *Store) ByDate(ctx context.Context, d model.Date) ([]model.LogRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM daily_logs WHERE log_date = ? ORDER BY timestamp`,
		d.String(),
	)
	if err != nil {
		logx.Error().Err(err).Str("date", d.String()).Msg("log lookup by date failed")
		return nil, errx.WrapSQLite(err)
	}
	defer rows.Close()
	return scanRows(rows)
}

func (s *Store) ByRange(ctx context.Context, start, end model.Date) ([]model.LogRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM daily_logs WHERE log_date >= ? AND log_date <= ? ORDER BY timestamp`,
		start.String(), end.String(),
	)
	if err != nil {
		logx.Error().Err(err).Str("start", start.String()).Str("end", end.String()).Msg("log lookup by range failed")
		return nil, errx.WrapSQLite(err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// TotalsByDate aggregates macro sums for one day; zero values for an empty day.
func (s *Store) TotalsByDate(ctx context.Context, d model.Date) (model.Macros, error) {
	var totals model.Macros
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(calories), 0), COALESCE(SUM(protein), 0),
		        COALESCE(SUM(carbs), 0), COALESCE(SUM(fat), 0)
		 FROM daily_logs WHERE log_date = ?`,
		d.String(),
	).Scan(&totals.Calories, &totals.Protein, &totals.Carbs, &totals.Fat)
	if err != nil {
		logx.Error().Err(err).Str("date", d.String()).Msg("totals aggregation failed")
		return model.Macros{}, errx.WrapSQLite(err)
	}
	return totals, nil
}

func scanRows(rows *sql.Rows) ([]model.LogRow, error) {
	var out []model.LogRow
	for rows.Next() {
		var (
			r        model.LogRow
			foodID   sql.NullInt64
			ts       string
			mealType sql.NullString
			source   sql.NullString
		)
		if err := rows.Scan(&r.ID, &foodID, &r.Amount,
			&r.Macros.Calories, &r.Macros.Protein, &r.Macros.Carbs, &r.Macros.Fat,
			&ts, &mealType, &source); err != nil {
			return nil, errx.WrapSQLite(err)
		}
		if foodID.Valid {
			id := foodID.Int64
			r.FoodID = &id
		}
		parsed, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, errx.New(err, http.StatusInternalServerError, errx.SQLiteErrorMessage)
		}
		r.Timestamp = parsed
		r.MealType = mealType.String
		r.SourceText = source.String
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errx.WrapSQLite(err)
	}
	return out, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ model.FoodLog = (*Store)(nil)
