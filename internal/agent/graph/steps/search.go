package steps

import (
	"context"
	"fmt"

	"github.com/nutripal/server/internal/agent/model"
	logx "github.com/nutripal/server/pkg/logger"
)

// NewFoodSearchStep creates the candidate search step. It queries the catalog
// for the head pending item and overwrites the previous search results; with
// nothing pending it overwrites them with an empty set.
func NewFoodSearchStep(catalog model.Catalog) Func {
	return func(ctx context.Context, s *model.State) (model.Update, error) {
		head, ok := s.HeadItem()
		if !ok {
			return model.Update{SetSearchResults: true}, nil
		}

		candidates, err := catalog.Search(ctx, head.Name)
		if err != nil {
			return model.Update{}, fmt.Errorf("food search %q: %w", head.Name, err)
		}

		logx.Debug().
			Str("query", head.Name).
			Int("candidates", len(candidates)).
			Msg("catalog searched")

		return model.Update{SetSearchResults: true, SearchResults: candidates}, nil
	}
}
