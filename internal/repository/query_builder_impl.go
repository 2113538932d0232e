package repository

import (
	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

type queryBuilderImpl struct {
	conditions    map[string]interface{}
	search        string
	searchColumns []string
}

func NewQueryBuilder() QueryBuilder {
	return &queryBuilderImpl{
		conditions: make(map[string]interface{}),
	}
}

func (q *queryBuilderImpl) AddCondition(key string, value interface{}) {
	q.conditions[key] = value
}

// AddSearch matches value case-insensitively as a substring of any of columns.
func (q *queryBuilderImpl) AddSearch(value string, columns ...string) {
	q.search = value
	q.searchColumns = columns
}

func (q *queryBuilderImpl) IsEmpty() bool {
	return len(q.conditions) == 0 && q.search == ""
}

func (q *queryBuilderImpl) BuildConditions(aliases map[string]string) goqu.Ex {
	conditions := goqu.Ex{}
	for key, value := range q.conditions {
		conditions[resolve(aliases, key)] = value
	}
	return conditions
}

// BuildSearch returns nil when no search term was added.
func (q *queryBuilderImpl) BuildSearch(aliases map[string]string) exp.Expression {
	if q.search == "" || len(q.searchColumns) == 0 {
		return nil
	}

	pattern := "%" + q.search + "%"
	or := goqu.Or()
	for _, column := range q.searchColumns {
		or = or.Append(goqu.I(resolve(aliases, column)).ILike(pattern))
	}
	return or
}

func resolve(aliases map[string]string, key string) string {
	if alias, ok := aliases[key]; ok {
		return alias
	}
	return key
}
