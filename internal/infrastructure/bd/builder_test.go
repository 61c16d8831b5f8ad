package bd

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tarsier/pkg/types"
)

var testMap = map[string]string{
	"code":   "e.code",
	"statut": "e.active",
}

func TestApplyListParams(t *testing.T) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	f := types.Filter{
		Filter:         map[string]interface{}{"code": "A,B", "unknown": "x"},
		Sort:           map[string]string{"statut": "desc", "nope": "asc"},
		Limit:          10,
		Offset:         20,
		WithPagination: true,
	}

	query, args, err := ApplyListParams(psql.Select("e.id").From("equipments e"), f, testMap).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT e.id FROM equipments e WHERE e.code IN ($1,$2) ORDER BY e.active DESC LIMIT 10 OFFSET 20", query)
	assert.Equal(t, []interface{}{"A", "B"}, args)
}

func TestApplySearch(t *testing.T) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := ApplySearch(psql.Select("id").From("t"), "pump", "code", "description").ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT id FROM t WHERE (code ILIKE $1 OR description ILIKE $2)", query)
	assert.Equal(t, []interface{}{"%pump%", "%pump%"}, args)
}

func TestCountFilter(t *testing.T) {
	f := CountFilter(types.Filter{Sort: map[string]string{"code": "asc"}, WithPagination: true, Limit: 5})
	assert.False(t, f.WithPagination)
	assert.Nil(t, f.Sort)
}
