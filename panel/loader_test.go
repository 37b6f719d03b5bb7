package panel_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/edstats/scorecard"
	"github.com/edstats/scorecard/panel"
	"github.com/edstats/scorecard/schema"
)

func testCatalog() *schema.Catalog {
	return schema.NewCatalog([]*schema.Column{
		{Name: "MD_EARN_WNE_P10", Description: "Median earnings", Type: scorecard.Float64},
		{Name: "CONTROL", Description: "Control of institution", Type: scorecard.Float64,
			Labels: map[string]string{"1": "Public", "2": "Private nonprofit", "3": "Private for-profit"}},
		{Name: "ST_FIPS", Description: "FIPS code", Type: scorecard.Float64},
		{Name: "SATVRMID", Description: "SAT reading midpoint", Type: scorecard.Float64},
		{Name: "SATMTMID", Description: "SAT math midpoint", Type: scorecard.Float64},
		{Name: "SATWRMID", Description: "SAT writing midpoint", Type: scorecard.Float64},
		{Name: "ACTCMMID", Description: "ACT cumulative midpoint", Type: scorecard.Float64},
	})
}

func writeRawZip(t *testing.T, members map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "raw.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating zip: %v", err)
	}
	zw := zip.NewWriter(f)
	for name, content := range members {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating member %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("writing member %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("closing zip file: %v", err)
	}
	return path
}

const rawHeader = "UNITID,MD_EARN_WNE_P10,CONTROL,ST_FIPS,SATVRMID,SATMTMID,SATWRMID,ACTCMMID\n"

func TestLoadBuildsMergedDataset(t *testing.T) {
	remote := writeRawZip(t, map[string]string{
		"raw/MERGED2013_14_PP.csv": rawHeader +
			"100654,30000,1,1,500,500,500,13\n" +
			"100663,NULL,2,1,480,520,490,21\n",
		"raw/MERGED2014_15_PP.csv": rawHeader +
			"100654,31000,1,1,505,505,505,14\n" +
			"100663,PrivacySuppressed,2,1,485,525,495,22\n" +
			"100690,24000,3,2,,,,\n",
		"raw/readme.txt":    "not tabular",
		"raw/notes_nod.csv": rawHeader + "1,2,3,4,5,6,7,8\n",
	})

	path := filepath.Join(t.TempDir(), "data.csv")
	ds, err := panel.NewLoader(testCatalog(), panel.OptRemote(remote)).Load(path)
	if err != nil {
		t.Fatalf("loading dataset: %v", err)
	}

	// The no-year member and the readme are skipped; rows are the sum of the
	// two fragments' rows.
	if ds.NumRows() != 5 {
		t.Fatalf("got %d rows, expected 5", ds.NumRows())
	}

	// Column set is exactly the allow-list, never the raw superset.
	cols := ds.Columns()
	if len(cols) != len(schema.IncludedColumns) {
		t.Fatalf("got columns %v, expected allow-list", cols)
	}
	for i, name := range schema.IncludedColumns {
		if cols[i] != name {
			t.Fatalf("column %d = %s, expected %s", i, cols[i], name)
		}
	}
	if _, ok := ds.ColumnIndex("UNITID"); ok {
		t.Fatal("raw-only column leaked into the dataset")
	}

	// Every row carries its fragment's academic year.
	years := map[string]int{}
	yi, _ := ds.ColumnIndex(schema.AcademicYearColumn)
	for i := 0; i < ds.NumRows(); i++ {
		years[ds.Row(i)[yi].String()]++
	}
	if years["2013-2014"] != 2 || years["2014-2015"] != 3 {
		t.Fatalf("unexpected year tags: %v", years)
	}

	// NULL and PrivacySuppressed become missing values.
	ei, _ := ds.ColumnIndex("MD_EARN_WNE_P10")
	nulls := 0
	for i := 0; i < ds.NumRows(); i++ {
		if ds.Row(i)[ei].Null {
			nulls++
		}
	}
	if nulls != 2 {
		t.Fatalf("got %d missing earnings, expected 2", nulls)
	}

	if !scorecard.Exists(path) {
		t.Fatalf("artifact not persisted at %s", path)
	}
}

func TestCachedLoadMatchesBuild(t *testing.T) {
	remote := writeRawZip(t, map[string]string{
		"MERGED2013_14_PP.csv": rawHeader +
			"100654,30000,1,1,500,500,500,13\n" +
			"100663,NULL,2,1,,,,\n",
	})
	path := filepath.Join(t.TempDir(), "data.csv")

	built, err := panel.NewLoader(testCatalog(), panel.OptRemote(remote)).Load(path)
	if err != nil {
		t.Fatalf("building dataset: %v", err)
	}

	// A cache hit must not touch the remote.
	deadRemote := filepath.Join(t.TempDir(), "gone.zip")
	cached, err := panel.NewLoader(testCatalog(), panel.OptRemote(deadRemote)).Load(path)
	if err != nil {
		t.Fatalf("loading cached dataset: %v", err)
	}

	if cached.NumRows() != built.NumRows() {
		t.Fatalf("cached has %d rows, built has %d", cached.NumRows(), built.NumRows())
	}
	bc, cc := built.Columns(), cached.Columns()
	if len(bc) != len(cc) {
		t.Fatalf("cached has %d columns, built has %d", len(cc), len(bc))
	}
	for i := range bc {
		if bc[i] != cc[i] {
			t.Fatalf("column %d: cached %s, built %s", i, cc[i], bc[i])
		}
	}
	for i := 0; i < built.NumRows(); i++ {
		br, cr := built.Row(i), cached.Row(i)
		for j := range br {
			if br[j].String() != cr[j].String() || br[j].Null != cr[j].Null {
				t.Fatalf("row %d col %s: cached %q, built %q", i, bc[j], cr[j], br[j])
			}
		}
	}
}

func TestCoercionErrorIsFatal(t *testing.T) {
	remote := writeRawZip(t, map[string]string{
		"MERGED2013_14_PP.csv": rawHeader +
			"100654,not-a-number,1,1,500,500,500,13\n",
	})
	path := filepath.Join(t.TempDir(), "data.csv")

	if _, err := panel.NewLoader(testCatalog(), panel.OptRemote(remote)).Load(path); err == nil {
		t.Fatal("expected coercion error")
	}
	// No partial artifact survives a failed build.
	if scorecard.Exists(path) {
		t.Fatalf("failed build left an artifact at %s", path)
	}
}

func TestFailedArtifactWriteLeavesNoPartial(t *testing.T) {
	remote := writeRawZip(t, map[string]string{
		"MERGED2013_14_PP.csv": rawHeader +
			"100654,30000,1,1,500,500,500,13\n",
	})
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	// Occupy the artifact path with a directory so persisting fails after the
	// dataset is fully built.
	if err := os.Mkdir(path, 0755); err != nil {
		t.Fatalf("creating blocking directory: %v", err)
	}

	loader := panel.NewLoader(testCatalog(), panel.OptRemote(remote), panel.OptUseCache(false))
	if _, err := loader.Load(path); err == nil {
		t.Fatal("expected artifact write error")
	}

	// The failed write must not leave a temp file behind for a later run to
	// mistake for the artifact.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading artifact dir: %v", err)
	}
	for _, entry := range entries {
		if entry.Name() != "data.csv" {
			t.Fatalf("failed write left %s behind", entry.Name())
		}
	}
}

func TestCorruptArchiveIsFatal(t *testing.T) {
	remote := filepath.Join(t.TempDir(), "raw.zip")
	if err := os.WriteFile(remote, []byte("not a zip"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	path := filepath.Join(t.TempDir(), "data.csv")
	if _, err := panel.NewLoader(testCatalog(), panel.OptRemote(remote)).Load(path); err == nil {
		t.Fatal("expected archive error")
	}
}
