package repository

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// updateBuilder assembles a partial UPDATE from the non-nil fields of an
// update input. Unspecified columns are never mentioned in the statement,
// which is what gives updates their merge semantics.
type updateBuilder struct {
	sets []string
	args []interface{}
}

func newUpdateBuilder() *updateBuilder {
	return &updateBuilder{}
}

func set[T any](b *updateBuilder, col string, v *T) {
	if v == nil {
		return
	}
	b.args = append(b.args, *v)
	b.sets = append(b.sets, fmt.Sprintf("%s = $%d", col, len(b.args)))
}

func (b *updateBuilder) build(table, columns string, id uuid.UUID) (string, []interface{}) {
	b.sets = append(b.sets, "updated_at = NOW()")
	b.args = append(b.args, id)
	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		table, strings.Join(b.sets, ", "), len(b.args), columns,
	)
	return query, b.args
}
