// Package summary computes label distributions over a loaded dataset.
package summary

import (
	"fmt"
	"io"

	"github.com/go-gota/gota/series"
	"github.com/rs/zerolog/log"

	"github.com/syedshahzad7/diabetes-visualization/internal/dataset"
)

// LabelColumn holds the class label of every record: 1 for diabetic, 0 for
// non-diabetic.
const LabelColumn = "diabetes"

// Summary is the label distribution of a dataset. Records whose label is
// neither 0 nor 1, missing included, count toward Total only.
type Summary struct {
	File     string `json:"file,omitempty" yaml:"file,omitempty" jsonschema:"description=Dataset path the counts were computed from"`
	Total    int    `json:"total" yaml:"total" jsonschema:"description=Number of records"`
	Positive int    `json:"positive" yaml:"positive" jsonschema:"description=Records with diabetes = 1"`
	Negative int    `json:"negative" yaml:"negative" jsonschema:"description=Records with diabetes = 0"`
}

// Validate checks that the label column is present.
func Validate(ds *dataset.Dataset) error {
	return ds.Require(LabelColumn)
}

// Summarize counts records per label class. It assumes Validate passed; a
// dataset without the label column yields only a total.
func Summarize(ds *dataset.Dataset) Summary {
	s := Summary{File: ds.Path, Total: ds.Len()}

	col, err := ds.Column(LabelColumn)
	if err != nil {
		return s
	}

	for i := 0; i < col.Len(); i++ {
		switch classify(col.Elem(i)) {
		case classPositive:
			s.Positive++
		case classNegative:
			s.Negative++
		}
	}

	log.Debug().
		Str("file", s.File).
		Int("total", s.Total).
		Int("positive", s.Positive).
		Int("negative", s.Negative).
		Msg("Dataset summarized")

	return s
}

// Report writes the three summary lines.
func Report(w io.Writer, s Summary) error {
	_, err := fmt.Fprintf(w,
		"Total records: %d\nDiabetic (diabetes = 1): %d\nNon-diabetic (diabetes = 0): %d\n",
		s.Total, s.Positive, s.Negative)
	return err
}

type class int

const (
	classOther class = iota
	classPositive
	classNegative
)

// classify compares a label cell with the integers 1 and 0. Numeric and
// boolean cells compare by value; text cells never equal an integer.
func classify(e series.Element) class {
	if e.IsNA() {
		return classOther
	}

	switch e.Type() {
	case series.Int, series.Float, series.Bool:
		switch e.Float() {
		case 1:
			return classPositive
		case 0:
			return classNegative
		}
	}

	return classOther
}
