package postgres

import (
	"fmt"
	"strings"

	"github.com/sweetify/sweets-api/internal/core/ports"
)

const sweetColumns = `id, name, category, price, quantity, description, image_url, created_at, updated_at`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildSearchQuery composes the conjunctive catalog filter. Absent filters
// add no condition.
func buildSearchQuery(f ports.SearchFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Name != "" {
		conds = append(conds, `name ILIKE `+arg("%"+likeEscaper.Replace(f.Name)+"%")+` ESCAPE '\'`)
	}
	if f.Category != "" {
		conds = append(conds, "category = "+arg(f.Category))
	}
	if f.MinPrice != nil {
		conds = append(conds, "price >= "+arg(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		conds = append(conds, "price <= "+arg(*f.MaxPrice))
	}

	var b strings.Builder
	b.WriteString("SELECT " + sweetColumns + " FROM sweets")
	if len(conds) > 0 {
		b.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	b.WriteString(" ORDER BY created_at DESC")
	return b.String(), args
}

// buildUpdateQuery writes only the fields present in the patch. The caller
// must not pass an empty patch.
func buildUpdateQuery(id string, p ports.UpdateSweetInput) (string, []any) {
	var (
		sets []string
		args []any
	)
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if p.Name != nil {
		set("name", *p.Name)
	}
	if p.Category != nil {
		set("category", *p.Category)
	}
	if p.Price != nil {
		set("price", *p.Price)
	}
	if p.Quantity != nil {
		set("quantity", *p.Quantity)
	}
	if p.Description != nil {
		set("description", *p.Description)
	}
	if p.ImageURL != nil {
		set("image_url", *p.ImageURL)
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	q := fmt.Sprintf("UPDATE sweets SET %s WHERE id = $%d RETURNING %s", strings.Join(sets, ", "), len(args), sweetColumns)
	return q, args
}
