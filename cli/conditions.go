package cli

import (
	"fmt"
	"strings"

	"github.com/asaidimu/go-sysparm/core/query"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// ConditionFlags collects the query-building flags shared by save and match.
// Conditions are joined with AND in flag-group order (eq, neq, contains,
// starts-with); orderings follow all conditions.
type ConditionFlags struct {
	Equals      []string
	NotEquals   []string
	Contains    []string
	StartsWith  []string
	OrderBy     []string
	OrderByDesc []string
}

// Register adds the condition flags to a flag set.
func (c *ConditionFlags) Register(flags *pflag.FlagSet) {
	flags.StringArrayVar(&c.Equals, "eq", nil, "field=value condition (repeatable)")
	flags.StringArrayVar(&c.NotEquals, "neq", nil, "field!=value condition, given as field=value (repeatable)")
	flags.StringArrayVar(&c.Contains, "contains", nil, "field contains value, given as field=value (repeatable)")
	flags.StringArrayVar(&c.StartsWith, "starts-with", nil, "field starts with value, given as field=value (repeatable)")
	flags.StringArrayVar(&c.OrderBy, "order-by", nil, "sort ascending by field (repeatable)")
	flags.StringArrayVar(&c.OrderByDesc, "order-by-desc", nil, "sort descending by field (repeatable)")
}

// Builder assembles a query builder from the flags. A malformed field=value
// pair is reported before anything is built.
func (c *ConditionFlags) Builder(logger *zap.Logger) (*query.QueryBuilder, error) {
	qb := query.NewQueryBuilder(query.WithLogger(logger))

	groups := []struct {
		flag  string
		pairs []string
		apply func(qb *query.QueryBuilder, value string) *query.QueryBuilder
	}{
		{"eq", c.Equals, func(qb *query.QueryBuilder, v string) *query.QueryBuilder { return qb.Equals(v) }},
		{"neq", c.NotEquals, func(qb *query.QueryBuilder, v string) *query.QueryBuilder { return qb.NotEquals(v) }},
		{"contains", c.Contains, func(qb *query.QueryBuilder, v string) *query.QueryBuilder { return qb.Contains(v) }},
		{"starts-with", c.StartsWith, func(qb *query.QueryBuilder, v string) *query.QueryBuilder { return qb.StartsWith(v) }},
	}

	conditions := 0
	for _, group := range groups {
		for _, pair := range group.pairs {
			field, value, ok := strings.Cut(pair, "=")
			if !ok || field == "" {
				return nil, fmt.Errorf("invalid --%s value %q: expected field=value", group.flag, pair)
			}
			if conditions > 0 {
				qb.And()
			}
			group.apply(qb.Field(field), value)
			conditions++
		}
	}

	for _, field := range c.OrderBy {
		qb.Field(field).OrderAscending()
	}
	for _, field := range c.OrderByDesc {
		qb.Field(field).OrderDescending()
	}

	return qb, qb.Err()
}
