package formula

import (
	"errors"
	"fmt"
	"ootp-toolkit/internal/domain"
	"strings"
)

var ErrEmptyName = errors.New("metric name is required")

// AddMetric evaluates expr for every row of table and returns a new table
// with the result stored under name. If the expression does not compile or
// reads a column the table does not have, the error is returned and no
// column is added.
func AddMetric(table domain.Table, name, expr string) (domain.Table, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Table{}, ErrEmptyName
	}

	compiled, err := Compile(expr)
	if err != nil {
		return domain.Table{}, err
	}

	var missing []string
	for _, id := range compiled.Idents() {
		if !table.HasColumn(id) {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return domain.Table{}, fmt.Errorf("%w: %s", ErrUnknownColumn, strings.Join(missing, ", "))
	}

	rows := make([]domain.StatRow, len(table.Rows))
	for i, r := range table.Rows {
		rows[i] = r.With(name, compiled.Eval(r))
	}

	columns := make([]string, 0, len(table.Columns)+1)
	for _, c := range table.Columns {
		if c != name {
			columns = append(columns, c)
		}
	}
	columns = append(columns, name)

	return domain.Table{Columns: columns, Rows: rows}, nil
}
