package layout

import (
	"reflect"
	"testing"

	"github.com/kiefholz/ligaplan/model"
)

// frag creates a test fragment
func frag(text string, y float64) model.Fragment {
	return model.Fragment{Text: text, Y: y}
}

func rowTexts(rows []model.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Text
	}
	return out
}

func TestCluster_Empty(t *testing.T) {
	if rows := Cluster(nil, 0); len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}

func TestCluster_WithinToleranceSameRow(t *testing.T) {
	rows := Cluster([][]model.Fragment{{
		frag("Sa.", 700.2),
		frag("11:00", 701.9),
		frag("KH1", 699.4),
	}}, 1)

	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d: %v", len(rows), rowTexts(rows))
	}
	if rows[0].Text != "Sa.,11:00,KH1," {
		t.Errorf("text = %q", rows[0].Text)
	}
	if rows[0].Key.Y != 700 {
		t.Errorf("key Y = %d, want 700 (first adopted coordinate)", rows[0].Key.Y)
	}
	if len(rows[0].Fragments) != 3 {
		t.Errorf("expected 3 fragments, got %d", len(rows[0].Fragments))
	}
}

func TestCluster_AtToleranceSeparateRows(t *testing.T) {
	rows := Cluster([][]model.Fragment{{
		frag("upper", 702),
		frag("lower", 700),
	}}, 1)

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d: %v", len(rows), rowTexts(rows))
	}
}

func TestCluster_TopToBottom(t *testing.T) {
	// Stream order differs from visual order
	rows := Cluster([][]model.Fragment{{
		frag("third", 500),
		frag("first", 700),
		frag("second", 600),
		frag("first-b", 700.5),
	}}, 1)

	want := []string{"first,first-b,", "second,", "third,"}
	if got := rowTexts(rows); !reflect.DeepEqual(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}
}

func TestCluster_MultiPageOrder(t *testing.T) {
	pages := [][]model.Fragment{
		{frag("p1-low", 100), frag("p1-high", 700)},
		{frag("p2-high", 700), frag("p2-low", 100)},
		{frag("p3", 400)},
	}

	rows := Cluster(pages, 3)

	want := []string{"p1-high,", "p1-low,", "p2-high,", "p2-low,", "p3,"}
	if got := rowTexts(rows); !reflect.DeepEqual(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}

	// Equal Y on pages 1 and 2: page 1's key value is the larger one
	if rows[0].Key.Value() <= rows[2].Key.Value() {
		t.Errorf("page 1 key %d should exceed page 2 key %d",
			rows[0].Key.Value(), rows[2].Key.Value())
	}
	if rows[0].Key.Rank != 3 || rows[4].Key.Rank != 1 {
		t.Errorf("ranks = %d, %d, want 3, 1", rows[0].Key.Rank, rows[4].Key.Rank)
	}
}

func TestCluster_SameYDifferentPagesNotMerged(t *testing.T) {
	rows := Cluster([][]model.Fragment{
		{frag("a", 700)},
		{frag("b", 700.5)},
	}, 2)

	if len(rows) != 2 {
		t.Fatalf("rows on different pages must not merge, got %v", rowTexts(rows))
	}
}

func TestCluster_Chaining(t *testing.T) {
	// 701 is within tolerance of 700 and joins it. 702 is not within
	// tolerance of 700, so it starts its own row even though it is within
	// tolerance of 701.
	rows := Cluster([][]model.Fragment{{
		frag("a", 700),
		frag("b", 701),
		frag("c", 702),
	}}, 1)

	want := []string{"c,", "a,b,"}
	if got := rowTexts(rows); !reflect.DeepEqual(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}
}

func TestCluster_FirstMatchingKeyWins(t *testing.T) {
	// 701 is within tolerance of both 700 and 702; the first key wins
	rows := Cluster([][]model.Fragment{{
		frag("a", 700),
		frag("b", 702),
		frag("c", 701),
	}}, 1)

	want := []string{"b,", "a,c,"}
	if got := rowTexts(rows); !reflect.DeepEqual(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}
}

func TestCluster_Idempotent(t *testing.T) {
	pages := [][]model.Fragment{
		{frag("Datum,", 720), frag("Sa.", 700), frag("Kiefholz", 700.7), frag("x", 650)},
		{frag("y", 700), frag("z", 699)},
	}

	first := Cluster(pages, 2)
	second := Cluster(pages, 2)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("clustering is not idempotent:\n%v\n%v", first, second)
	}
}

func TestCluster_Options(t *testing.T) {
	pages := [][]model.Fragment{{frag("a", 700), frag("b", 704)}}

	rows := Cluster(pages, 1, WithTolerance(5), WithSeparator("|"))
	if len(rows) != 1 || rows[0].Text != "a|b|" {
		t.Errorf("rows = %v", rowTexts(rows))
	}

	rows = Cluster(pages, 1, WithTolerance(0))
	if len(rows) != 2 {
		t.Errorf("tolerance below 1 should clamp to 1, got %v", rowTexts(rows))
	}
}

func TestClusterer_Incremental(t *testing.T) {
	c := NewClusterer(2)

	c.BeginPage(1)
	c.Add(frag("a", 500))
	c.BeginPage(2)
	c.Add(frag("b", 500))
	c.Add(frag("c", 501))

	rows := c.Rows()
	want := []string{"a,", "b,c,"}
	if got := rowTexts(rows); !reflect.DeepEqual(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}
	if rows[1].Key.Page != 2 {
		t.Errorf("page = %d, want 2", rows[1].Key.Page)
	}
}

func TestClusterer_AddWithoutBeginPage(t *testing.T) {
	c := NewClusterer(3)
	c.Add(model.Fragment{Text: "x", Page: 2, Y: 10})

	rows := c.Rows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Key.Page != 2 || rows[0].Key.Rank != 2 {
		t.Errorf("key = %+v, want page 2 rank 2", rows[0].Key)
	}
}

func TestClusterer_RowsAreCopies(t *testing.T) {
	c := NewClusterer(1)
	c.Add(frag("a", 10))

	rows := c.Rows()
	rows[0].Text = "changed"
	rows[0].Fragments[0].Text = "changed"

	again := c.Rows()
	if again[0].Text != "a," || again[0].Fragments[0].Text != "a" {
		t.Errorf("Rows() exposed internal state: %+v", again[0])
	}
}
