package repository

import (
	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

type QueryBuilder interface {
	AddCondition(key string, value interface{})
	AddSearch(value string, columns ...string)
	BuildConditions(aliases map[string]string) goqu.Ex
	BuildSearch(aliases map[string]string) exp.Expression
	IsEmpty() bool
}
