package panel_test

import (
	"math"
	"testing"

	"github.com/edstats/scorecard"
	"github.com/edstats/scorecard/panel"
)

func earningsByYear(t *testing.T) *panel.Dataset {
	t.Helper()
	ds := panel.NewDataset([]string{"Academic Year", "MD_EARN_WNE_P10"})
	rows := []struct {
		year string
		earn panel.Value
	}{
		{"2013-2014", panel.FloatValue(30000)},
		{"2013-2014", panel.FloatValue(20000)},
		{"2014-2015", panel.FloatValue(40000)},
		{"2014-2015", panel.NullValue(scorecard.Float64)},
	}
	for _, r := range rows {
		if err := ds.Append([]panel.Value{panel.TextValue(r.year), r.earn}); err != nil {
			t.Fatalf("appending row: %v", err)
		}
	}
	return ds
}

func TestAppendRejectsShapeMismatch(t *testing.T) {
	ds := panel.NewDataset([]string{"a", "b"})
	if err := ds.Append([]panel.Value{panel.TextValue("only one")}); err == nil {
		t.Fatal("expected shape mismatch error")
	}
}

func TestAppendFromRejectsColumnMismatch(t *testing.T) {
	a := panel.NewDataset([]string{"a", "b"})
	b := panel.NewDataset([]string{"a", "c"})
	if err := a.AppendFrom(b); err == nil {
		t.Fatal("expected column mismatch error")
	}
}

func TestFilter(t *testing.T) {
	ds := earningsByYear(t)
	yi, _ := ds.ColumnIndex("Academic Year")
	got := ds.Filter(func(row []panel.Value) bool {
		return row[yi].String() == "2013-2014"
	})
	if got.NumRows() != 2 {
		t.Fatalf("filter kept %d rows, expected 2", got.NumRows())
	}
	if ds.NumRows() != 4 {
		t.Fatalf("filter mutated the source dataset: %d rows", ds.NumRows())
	}
}

func TestGroupBy(t *testing.T) {
	ds := earningsByYear(t)
	groups, err := ds.GroupBy("Academic Year")
	if err != nil {
		t.Fatalf("grouping: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("got %d groups, expected 2", len(groups))
	}
	if groups["2013-2014"].NumRows() != 2 || groups["2014-2015"].NumRows() != 2 {
		t.Fatalf("unexpected group sizes: %d, %d",
			groups["2013-2014"].NumRows(), groups["2014-2015"].NumRows())
	}
	if _, err := ds.GroupBy("NO_SUCH"); err == nil {
		t.Fatal("expected error for unknown column")
	}
}

func TestGroupByCompositeKey(t *testing.T) {
	ds := panel.NewDataset([]string{"CONTROL", "Academic Year", "MD_EARN_WNE_P10"})
	rows := [][]panel.Value{
		{panel.FloatValue(1), panel.TextValue("2013-2014"), panel.FloatValue(30000)},
		{panel.FloatValue(1), panel.TextValue("2014-2015"), panel.FloatValue(31000)},
		{panel.FloatValue(2), panel.TextValue("2013-2014"), panel.FloatValue(45000)},
	}
	for _, row := range rows {
		if err := ds.Append(row); err != nil {
			t.Fatalf("appending row: %v", err)
		}
	}

	groups, err := ds.GroupBy("CONTROL", "Academic Year")
	if err != nil {
		t.Fatalf("grouping: %v", err)
	}
	if len(groups) != 3 {
		t.Fatalf("got %d groups, expected 3", len(groups))
	}
	if groups["1, 2013-2014"].NumRows() != 1 {
		t.Fatalf("missing composite group: %v", groups)
	}

	means, err := ds.MeanBy("MD_EARN_WNE_P10", "CONTROL", "Academic Year")
	if err != nil {
		t.Fatalf("averaging: %v", err)
	}
	if math.Abs(means["2, 2013-2014"]-45000) > 1e-9 {
		t.Fatalf("composite mean = %v, expected 45000", means["2, 2013-2014"])
	}

	if _, err := ds.GroupBy(); err == nil {
		t.Fatal("expected error for grouping with no columns")
	}
}

func TestMeanBySkipsNulls(t *testing.T) {
	ds := earningsByYear(t)
	means, err := ds.MeanBy("MD_EARN_WNE_P10", "Academic Year")
	if err != nil {
		t.Fatalf("averaging: %v", err)
	}
	if math.Abs(means["2013-2014"]-25000) > 1e-9 {
		t.Fatalf("2013-2014 mean = %v, expected 25000", means["2013-2014"])
	}
	// The null cell does not drag the mean down.
	if math.Abs(means["2014-2015"]-40000) > 1e-9 {
		t.Fatalf("2014-2015 mean = %v, expected 40000", means["2014-2015"])
	}
}

func TestValueStrings(t *testing.T) {
	cases := []struct {
		v   panel.Value
		exp string
	}{
		{panel.FloatValue(0.625), "0.625"},
		{panel.FloatValue(30000), "30000"},
		{panel.BoolValue(true), "true"},
		{panel.TextValue("2013-2014"), "2013-2014"},
		{panel.NullValue(scorecard.Float64), ""},
		{panel.NullValue(scorecard.Text), ""},
	}
	for _, c := range cases {
		if got := c.v.String(); got != c.exp {
			t.Fatalf("%+v stringifies to %q, expected %q", c.v, got, c.exp)
		}
	}
}

func TestParseValueNATokens(t *testing.T) {
	for _, raw := range []string{"", "NULL", "PrivacySuppressed"} {
		v, err := panel.ParseValue(scorecard.Float64, raw)
		if err != nil {
			t.Fatalf("parsing %q: %v", raw, err)
		}
		if !v.Null {
			t.Fatalf("%q should parse to a missing value", raw)
		}
	}

	v, err := panel.ParseValue(scorecard.Float64, "42")
	if err != nil {
		t.Fatalf("parsing 42: %v", err)
	}
	if v.Null || v.Num != 42 {
		t.Fatalf("unexpected value: %+v", v)
	}

	if _, err := panel.ParseValue(scorecard.Float64, "forty-two"); err == nil {
		t.Fatal("expected coercion error")
	}
}
