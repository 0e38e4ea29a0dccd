package dataset

import (
	"fmt"
	"strings"

	"github.com/go-gota/gota/series"
)

// Condition selects the records whose Column equals Value. Value is converted
// to the column's detected type before comparing.
type Condition struct {
	Column string `json:"column" yaml:"column"`
	Value  string `json:"value" yaml:"value"`
}

func (c Condition) String() string {
	return c.Column + "=" + c.Value
}

// ParseCondition parses "column=value". The column may not be empty; the value
// may.
func ParseCondition(s string) (Condition, error) {
	column, value, ok := strings.Cut(s, "=")
	if !ok {
		return Condition{}, fmt.Errorf("invalid filter %q: expected column=value", s)
	}
	if column == "" {
		return Condition{}, fmt.Errorf("invalid filter %q: empty column name", s)
	}
	return Condition{Column: column, Value: value}, nil
}

// ParseConditions parses every entry with ParseCondition.
func ParseConditions(raw []string) ([]Condition, error) {
	conds := make([]Condition, 0, len(raw))
	for _, s := range raw {
		c, err := ParseCondition(s)
		if err != nil {
			return nil, err
		}
		conds = append(conds, c)
	}
	return conds, nil
}

// Where returns the records matching all conditions.
func (d *Dataset) Where(conds ...Condition) (*Dataset, error) {
	if len(conds) == 0 {
		return d, nil
	}

	keep := make([]bool, d.Len())
	for i := range keep {
		keep[i] = true
	}

	for _, c := range conds {
		col, err := d.Column(c.Column)
		if err != nil {
			return nil, err
		}
		if d.Len() == 0 {
			continue
		}

		mask := col.Compare(series.Eq, c.Value)
		if mask.Err != nil {
			return nil, fmt.Errorf("filter %s: %w", c, mask.Err)
		}
		matches, err := mask.Bool()
		if err != nil {
			return nil, fmt.Errorf("filter %s: %w", c, err)
		}
		for i, ok := range matches {
			keep[i] = keep[i] && ok
		}
	}

	idx := make([]int, 0, len(keep))
	for i, ok := range keep {
		if ok {
			idx = append(idx, i)
		}
	}

	return d.Rows(idx)
}
