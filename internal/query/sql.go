package query

import (
	"fmt"
	"strings"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SQL renders the predicate as a Postgres WHERE clause over the plants
// table. Placeholders are numbered from firstArg. An empty predicate yields
// an empty clause and no arguments.
//
// A NULL in_stock column counts as in stock.
func (p Predicate) SQL(firstArg int) (string, []interface{}) {
	clauses := []string{}
	args := []interface{}{}
	argIndex := firstArg

	if p.search != "" {
		clauses = append(clauses, fmt.Sprintf(
			"(name ILIKE $%d OR EXISTS (SELECT 1 FROM unnest(categories) AS c(value) WHERE c.value ILIKE $%d))",
			argIndex, argIndex,
		))
		args = append(args, "%"+likeEscaper.Replace(p.search)+"%")
		argIndex++
	}

	if p.category != "" {
		clauses = append(clauses, fmt.Sprintf("$%d = ANY(categories)", argIndex))
		args = append(args, p.category)
		argIndex++
	}

	if p.inStockOnly {
		clauses = append(clauses, "in_stock IS DISTINCT FROM FALSE")
	}

	if len(clauses) == 0 {
		return "", nil
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}
