// internal/routing/store.go
//
// SQL source for the alias table.
//
// Deployments that manage aliases from an admin UI keep them in a small
// table instead of YAML:
//
//	route_alias (alias VARCHAR PK, pattern VARCHAR)
//
// LoadAliases reads the whole table once at startup.  Config-file aliases
// are overlaid afterwards with AliasTable.Merge, so YAML wins on conflict.

package routing

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type aliasRow struct {
	Alias   string `db:"alias"`
	Pattern string `db:"pattern"`
}

// LoadAliases returns every row of route_alias as an AliasTable.
func LoadAliases(ctx context.Context, db *sqlx.DB) (AliasTable, error) {
	var rows []aliasRow
	if err := db.SelectContext(ctx, &rows, `SELECT alias, pattern FROM route_alias`); err != nil {
		return nil, err
	}

	table := make(AliasTable, len(rows))
	for _, r := range rows {
		table[r.Alias] = r.Pattern
	}

	zap.L().Debug("alias table load", zap.Int("count", len(table)))
	return table, nil
}
