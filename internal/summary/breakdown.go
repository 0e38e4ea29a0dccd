package summary

import (
	"sort"
	"strconv"

	"github.com/go-gota/gota/series"

	"github.com/syedshahzad7/diabetes-visualization/internal/dataset"
)

// Group is the label distribution of the records sharing one key.
type Group struct {
	Key      string  `json:"key" yaml:"key"`
	Total    int     `json:"total" yaml:"total"`
	Positive int     `json:"positive" yaml:"positive"`
	Negative int     `json:"negative" yaml:"negative"`
	Rate     float64 `json:"rate" yaml:"rate" jsonschema:"description=Positive / Total"`
}

// Breakdown is a per-group label distribution.
type Breakdown struct {
	File   string  `json:"file,omitempty" yaml:"file,omitempty"`
	Column string  `json:"column,omitempty" yaml:"column,omitempty" jsonschema:"description=Grouping column, empty for indicator breakdowns"`
	Prefix string  `json:"prefix,omitempty" yaml:"prefix,omitempty" jsonschema:"description=Indicator column prefix, empty for column breakdowns"`
	Groups []Group `json:"groups" yaml:"groups"`
}

// BreakdownBy groups records by the value of column. Records with a missing
// value are left out. Groups are sorted by key.
func BreakdownBy(ds *dataset.Dataset, column string) (Breakdown, error) {
	if err := ds.Require(LabelColumn, column); err != nil {
		return Breakdown{}, err
	}

	keys := ds.Frame.Col(column)
	labels := ds.Frame.Col(LabelColumn)

	groups := make(map[string]*Group)
	for i := 0; i < keys.Len(); i++ {
		e := keys.Elem(i)
		if e.IsNA() {
			continue
		}

		key := groupKey(e)
		g, ok := groups[key]
		if !ok {
			g = &Group{Key: key}
			groups[key] = g
		}
		g.add(classify(labels.Elem(i)))
	}

	b := Breakdown{File: ds.Path, Column: column, Groups: make([]Group, 0, len(groups))}
	for _, g := range groups {
		b.Groups = append(b.Groups, g.finish())
	}
	sort.Slice(b.Groups, func(i, j int) bool {
		return b.Groups[i].Key < b.Groups[j].Key
	})

	return b, nil
}

// IndicatorBreakdown treats every column starting with prefix as a one-hot
// indicator and reports, per column, the records where it equals 1. Groups
// keep file column order.
func IndicatorBreakdown(ds *dataset.Dataset, prefix string) (Breakdown, error) {
	if err := Validate(ds); err != nil {
		return Breakdown{}, err
	}

	columns := ds.ColumnsWithPrefix(prefix)
	if len(columns) == 0 {
		return Breakdown{}, &dataset.SchemaError{Column: prefix + "*"}
	}

	labels := ds.Frame.Col(LabelColumn)
	b := Breakdown{File: ds.Path, Prefix: prefix, Groups: make([]Group, 0, len(columns))}

	for _, column := range columns {
		indicator := ds.Frame.Col(column)
		g := &Group{Key: column}
		for i := 0; i < indicator.Len(); i++ {
			if classify(indicator.Elem(i)) != classPositive {
				continue
			}
			g.add(classify(labels.Elem(i)))
		}
		b.Groups = append(b.Groups, g.finish())
	}

	return b, nil
}

func (g *Group) add(c class) {
	g.Total++
	switch c {
	case classPositive:
		g.Positive++
	case classNegative:
		g.Negative++
	}
}

func (g *Group) finish() Group {
	if g.Total > 0 {
		g.Rate = float64(g.Positive) / float64(g.Total)
	}
	return *g
}

func groupKey(e series.Element) string {
	if e.Type() == series.Float {
		return strconv.FormatFloat(e.Float(), 'f', -1, 64)
	}
	return e.String()
}
