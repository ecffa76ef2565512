package util

import (
	"strings"
	"testing"
)

type CSVAttributeTest struct {
	Name    string  `csv:"name"`
	Lon     float64 `csv:"lon"`
	Lat     float64 `csv:"lat"`
	Alt     float32 `csv:"alt"`
	Enabled bool    `csv:"enabled"`
}

func TestCSVSimple(t *testing.T) {
	file := "./testdata/attributes.csv"

	i := 0
	for row := range ReadCSVFromFile[CSVAttributeTest](file, ';') {
		if i == 0 {
			if row.Name != "town.sqlite" || row.Lon != 116.3912 || row.Lat != 39.9061 || row.Alt != 43.5 || row.Enabled != true {
				t.Errorf("row = %v; want town.sqlite", row)
			}
		} else if i == 1 {
			if row.Name != "ring.pbf" || row.Lon != 8.6821 || row.Lat != 50.1109 || row.Alt != 0 || row.Enabled != false {
				t.Errorf("row = %v; want ring.pbf", row)
			}
		} else {
			t.Errorf("too many rows")
		}
		i++
	}
	if i != 2 {
		t.Errorf("read %v rows; want 2", i)
	}
}

func TestCSVError(t *testing.T) {
	file := "./testdata/broken.csv"

	rows := NewList[CSVAttributeTest](3)
	for row := range ReadCSVFromFile[CSVAttributeTest](file, ';') {
		rows.Add(row)
	}
	if rows.Length() != 3 {
		t.Fatalf("read %v rows; want 3", rows.Length())
	}
	if rows[0].Name != "ok.sqlite" || rows[0].Lon != 1.5 || rows[0].Lat != 2.5 || rows[0].Alt != 3 {
		t.Errorf("rows[0] = %v; want ok.sqlite", rows[0])
	}
	if rows[1].Name != "short.sqlite" || rows[1].Lon != 7 || rows[1].Lat != 0 {
		t.Errorf("rows[1] = %v; want short.sqlite with missing columns", rows[1])
	}
	if rows[2].Name != "bad.sqlite" || rows[2].Lon != 0 || rows[2].Lat != 4.25 {
		t.Errorf("rows[2] = %v; want bad.sqlite with unparsable lon", rows[2])
	}
}

func TestCSVStopEarly(t *testing.T) {
	input := "name;lon\na;1\nb;2\nc;3\n"
	count := 0
	for range ReadCSV[CSVAttributeTest](strings.NewReader(input), ';') {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Errorf("count = %v; want 2", count)
	}
}

func TestOptional(t *testing.T) {
	none := None[int]()
	if none.HasValue() {
		t.Errorf("None has value")
	}
	if none.Or(7) != 7 {
		t.Errorf("None.Or(7) = %v; want 7", none.Or(7))
	}
	some := Some(3)
	if !some.HasValue() || some.Value != 3 || some.Or(7) != 3 {
		t.Errorf("Some(3) = %v; want 3", some)
	}
}

func TestSortedKeys(t *testing.T) {
	dict := NewDict[int64, string](3)
	dict.Set(30, "c")
	dict.Set(10, "a")
	dict.Set(20, "b")
	keys := SortedKeys(dict)
	if keys.Length() != 3 || keys[0] != 10 || keys[1] != 20 || keys[2] != 30 {
		t.Errorf("keys = %v; want [10 20 30]", keys)
	}
}
