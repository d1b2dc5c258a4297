package catalog

import (
	"context"
	"database/sql"

	errx "github.com/nutripal/server/internal/core/error"
	logx "github.com/nutripal/server/pkg/logger"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS food_items (
	id       INTEGER PRIMARY KEY,
	name     TEXT NOT NULL,
	calories REAL NOT NULL,
	protein  REAL NOT NULL,
	carbs    REAL NOT NULL,
	fat      REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_food_items_name ON food_items(name);
`

// starterFoods is the minimal catalog for local runs; per-100g values.
var starterFoods = []struct {
	name     string
	calories float64
	protein  float64
	carbs    float64
	fat      float64
}{
	{"Chicken Breast, raw", 120, 22.5, 0, 2.6},
	{"Chicken Breast, grilled", 165, 31, 0, 3.6},
	{"White Rice, cooked", 130, 2.7, 28.2, 0.3},
	{"Brown Rice, cooked", 112, 2.3, 23.5, 0.8},
	{"Apple, raw", 52, 0.3, 13.8, 0.2},
	{"Banana, raw", 89, 1.1, 22.8, 0.3},
	{"Egg, whole, boiled", 155, 12.6, 1.1, 10.6},
	{"Broccoli, steamed", 35, 2.4, 7.2, 0.4},
	{"Salmon, baked", 206, 22.1, 0, 12.4},
	{"Oatmeal, cooked", 71, 2.5, 12, 1.5},
}

// Seed creates the catalog schema and inserts the starter foods when the
// table is empty. Safe to call on every startup.
func Seed(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		logx.Error().Err(err).Msg("failed to create catalog schema")
		return errx.WrapSQLite(err)
	}

	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM food_items`).Scan(&n); err != nil {
		return errx.WrapSQLite(err)
	}
	if n > 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errx.WrapSQLite(err)
	}
	defer tx.Rollback()

	for _, f := range starterFoods {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO food_items (name, calories, protein, carbs, fat) VALUES (?, ?, ?, ?, ?)`,
			f.name, f.calories, f.protein, f.carbs, f.fat,
		); err != nil {
			return errx.WrapSQLite(err)
		}
	}
	if err := tx.Commit(); err != nil {
		return errx.WrapSQLite(err)
	}

	logx.Info().Int("foods", len(starterFoods)).Msg("seeded food catalog")
	return nil
}
