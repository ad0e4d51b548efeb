package psqlbuilder

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	assert.Equal(t, `"tenant_acme"."bookings"`, Table("tenant_acme", "bookings"))
	assert.Equal(t, `"bookings"`, Table("", "bookings"))
	assert.Equal(t, `"we""ird"."bookings"`, Table(`we"ird`, "bookings"))
}

func TestSelect_UsesDollarPlaceholders(t *testing.T) {
	query, args, err := Select("id").
		From(Table("t1", "resources")).
		Where(squirrel.Eq{"location_id": int64(7)}).
		Where(squirrel.Eq{"id": []int64{1, 2}}).
		ToSql()

	require.NoError(t, err)
	assert.Equal(t, `SELECT id FROM "t1"."resources" WHERE location_id = $1 AND id IN ($2,$3)`, query)
	assert.Equal(t, []interface{}{int64(7), int64(1), int64(2)}, args)
}
