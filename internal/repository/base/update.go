package base

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/edu_platform/internal/model"
)

// UpdateBuilder собирает UPDATE только из переданных полей
type UpdateBuilder struct {
	table string
	sets  []string
	args  []any
}

// NewUpdate создаёт билдер для таблицы
func NewUpdate(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

// Set добавляет присваивание column = $n
func (u *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	u.args = append(u.args, value)
	u.sets = append(u.sets, fmt.Sprintf("%s = $%d", column, len(u.args)))
	return u
}

// SetOptional добавляет присваивание, только если поле присутствует в патче
func SetOptional[T any](u *UpdateBuilder, column string, o model.Optional[T]) {
	if o.Set {
		u.Set(column, o.Value)
	}
}

// Empty сообщает, что нет ни одного поля для обновления
func (u *UpdateBuilder) Empty() bool {
	return len(u.sets) == 0
}

// Build возвращает запрос и аргументы; updated_at обновляется всегда
func (u *UpdateBuilder) Build(id int64) (string, []any) {
	sets := append(append([]string{}, u.sets...), "updated_at = now()")
	args := append(append([]any{}, u.args...), id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d",
		u.table, strings.Join(sets, ", "), len(args))

	return query, args
}
