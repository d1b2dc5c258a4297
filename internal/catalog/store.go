// Package catalog is the food catalog boundary: name search over indexed food
// items plus linear macro computation for a consumed amount.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/nutripal/server/internal/agent/model"
	errx "github.com/nutripal/server/internal/core/error"
	logx "github.com/nutripal/server/pkg/logger"
)

// ErrFoodNotFound signals a macro lookup for an id the catalog does not hold.
var ErrFoodNotFound = errors.New("food not found")

const DefaultMaxResults = 5

type Store struct {
	db         *sql.DB
	maxResults int
}

func NewStore(db *sql.DB, maxResults int) *Store {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &Store{db: db, maxResults: maxResults}
}

// Search returns up to maxResults candidates whose name contains the query,
// case-insensitively. Only id and name leave the store; macros stay behind
// the Macros lookup.
func (s *Store) Search(ctx context.Context, name string) ([]model.Candidate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name FROM food_items WHERE name LIKE ? COLLATE NOCASE ORDER BY name LIMIT ?`,
		"%"+name+"%", s.maxResults,
	)
	if err != nil {
		logx.Error().Err(err).Str("query", name).Msg("food search failed")
		return nil, errx.WrapSQLite(err)
	}
	defer rows.Close()

	var out []model.Candidate
	for rows.Next() {
		var c model.Candidate
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, errx.WrapSQLite(err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errx.WrapSQLite(err)
	}
	return out, nil
}

// Macros computes the nutritional values for the given amount of the food,
// scaling the stored per-100g columns linearly.
func (s *Store) Macros(ctx context.Context, id int64, amount float64) (*model.Macros, error) {
	var per100 model.Macros
	err := s.db.QueryRowContext(ctx,
		`SELECT calories, protein, carbs, fat FROM food_items WHERE id = ?`, id,
	).Scan(&per100.Calories, &per100.Protein, &per100.Carbs, &per100.Fat)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFoodNotFound
		}
		logx.Error().Err(err).Int64("food_id", id).Msg("macro lookup failed")
		return nil, errx.WrapSQLite(err)
	}

	scaled := per100.ScaleTo(amount)
	return &scaled, nil
}

var _ model.Catalog = (*Store)(nil)
