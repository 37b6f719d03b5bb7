package panel

import (
	"github.com/pkg/errors"
)

// Derived score-percentage columns.
const (
	SATPctColumn = "SAT_SCORE_PCT"
	ACTPctColumn = "ACT_SCORE_PCT"
)

// Score denominators: the combined SAT sections before January 2016 and the
// ACT composite.
const (
	satFullScore = 2400.0
	actFullScore = 36.0
)

// scoreSourceColumns are the columns a row must fully populate to appear in
// the derived table.
var scoreSourceColumns = []string{
	"MD_EARN_WNE_P10",
	"SATVRMID",
	"SATMTMID",
	"SATWRMID",
	"ACTCMMID",
}

// DeriveScores builds the derived test-score table: the score source columns
// plus the SAT and ACT percentage columns. The SAT percentage is the sum of
// the three section midpoints over 2400; the ACT percentage is the composite
// midpoint over 36. Rows missing any source column are excluded entirely.
func DeriveScores(ds *Dataset) (*Dataset, error) {
	src := make([]int, len(scoreSourceColumns))
	for i, name := range scoreSourceColumns {
		j, ok := ds.ColumnIndex(name)
		if !ok {
			return nil, errors.Errorf("dataset missing score column %s", name)
		}
		src[i] = j
	}
	vr, mt, wr, cm := src[1], src[2], src[3], src[4]

	columns := append(append([]string(nil), scoreSourceColumns...), SATPctColumn, ACTPctColumn)
	out := NewDataset(columns)
	for i := 0; i < ds.NumRows(); i++ {
		row := ds.Row(i)
		complete := true
		for _, j := range src {
			if row[j].Null {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		derived := make([]Value, 0, len(columns))
		for _, j := range src {
			derived = append(derived, row[j])
		}
		derived = append(derived,
			FloatValue((row[vr].Num+row[mt].Num+row[wr].Num)/satFullScore),
			FloatValue(row[cm].Num/actFullScore))
		if err := out.Append(derived); err != nil {
			return nil, err
		}
	}
	return out, nil
}
