package schedule

import (
	"reflect"
	"testing"

	"github.com/kiefholz/ligaplan/model"
)

func TestParse_DatedRow(t *testing.T) {
	e := New(WithHostMarker("Team"))

	rec, date, ok := e.Parse("Sa,01.09,04.09.2022,18,19:00,Musterhalle,TeamA,TeamB", "")
	if !ok {
		t.Fatal("expected a match row")
	}

	want := model.MatchRecord{
		Date:  "01.09,04.09.2022",
		Time:  "19:00",
		Venue: "Musterhalle",
		Home:  "TeamA",
		Guest: "TeamB",
	}
	if rec != want {
		t.Errorf("Parse() = %+v, want %+v", rec, want)
	}
	if date != want.Date {
		t.Errorf("next date = %q, want %q", date, want.Date)
	}
}

func TestParse_TrailingSeparator(t *testing.T) {
	// Rows from the clusterer end with the separator
	e := New(WithHostMarker("Team"))

	rec, _, _ := e.Parse("Sa,01.09,04.09.2022,18,19:00,Musterhalle,TeamA,TeamB,", "")
	if rec.Home != "TeamA" || rec.Guest != "TeamB" {
		t.Errorf("Parse() = %+v", rec)
	}
}

func TestParse_UndatedRowUsesCarriedDate(t *testing.T) {
	e := New()

	rec, date, ok := e.Parse("11:00,KH1,SG Kiefholz 1,Team B,", "01.10,01.10.2022")
	if !ok {
		t.Fatal("expected a match row")
	}

	want := model.MatchRecord{
		Date:  "01.10,01.10.2022",
		Time:  "11:00",
		Venue: "KH1",
		Home:  "SG Kiefholz 1",
		Guest: "Team B",
	}
	if rec != want {
		t.Errorf("Parse() = %+v, want %+v", rec, want)
	}
	if date != "01.10,01.10.2022" {
		t.Errorf("date should carry through, got %q", date)
	}
}

func TestParse_DatedTimeFallback(t *testing.T) {
	// The time is not one field after the date block, so the first time
	// token anywhere is used
	e := New()

	rec, _, _ := e.Parse("Sa,01.09,04.09.2022,19:00,KH1,Kiefholz,Gast,", "")
	want := model.MatchRecord{
		Date:  "01.09,04.09.2022",
		Time:  "19:00",
		Venue: "KH1",
		Home:  "Kiefholz",
		Guest: "Gast",
	}
	if rec != want {
		t.Errorf("Parse() = %+v, want %+v", rec, want)
	}
}

func TestParse_NonMatchRowOnlyUpdatesDate(t *testing.T) {
	e := New()

	_, date, ok := e.Parse("Sa,01.10,01.10.2022,Vorrunde,", "old")
	if ok {
		t.Error("row without host marker should not produce a record")
	}
	if date != "01.10,01.10.2022" {
		t.Errorf("date = %q, want 01.10,01.10.2022", date)
	}

	_, date, _ = e.Parse("Datum,Zeit,Halle,Heim,Gast,", "kept")
	if date != "kept" {
		t.Errorf("undated row changed the date to %q", date)
	}
}

func TestParse_PartialRecord(t *testing.T) {
	e := New()

	rec, _, ok := e.Parse("Kiefholz,", "")
	if !ok {
		t.Fatal("expected a match row")
	}
	if rec.Venue != "Kiefholz" {
		t.Errorf("venue = %q, want Kiefholz", rec.Venue)
	}
	want := []string{"date", "time", "home", "guest"}
	if got := rec.Missing(); !reflect.DeepEqual(got, want) {
		t.Errorf("Missing() = %v, want %v", got, want)
	}
}

func TestParse_Umlauts(t *testing.T) {
	e := New()

	rec, _, _ := e.Parse("12:30,Müggelhalle,SG Kiefholz 2,Köpenicker SC,", "")
	if rec.Venue != "Müggelhalle" {
		t.Errorf("venue = %q", rec.Venue)
	}
	if rec.Guest != "Köpenicker SC" {
		t.Errorf("guest = %q", rec.Guest)
	}
}

func TestParse_SlashAndPeriodInTeam(t *testing.T) {
	e := New()

	rec, _, _ := e.Parse("10:00,KH3,SG Kiefholz/Treptow 1,1. VfB Berlin,", "")
	if rec.Home != "SG Kiefholz/Treptow 1" {
		t.Errorf("home = %q", rec.Home)
	}
	if rec.Guest != "1. VfB Berlin" {
		t.Errorf("guest = %q", rec.Guest)
	}
}

func TestWithSeasons(t *testing.T) {
	e := New(WithSeasons("2024", " ", "2025"))

	if got := e.Seasons(); !reflect.DeepEqual(got, []string{"2024", "2025"}) {
		t.Errorf("Seasons() = %v", got)
	}

	_, date, _ := e.Parse("Sa,01.09,04.09.2022,x,", "")
	if date != "" {
		t.Errorf("2022 is not a configured season, got date %q", date)
	}
	_, date, _ = e.Parse("Sa,07.09,07.09.2024,x,", "")
	if date != "07.09,07.09.2024" {
		t.Errorf("date = %q", date)
	}

	if got := New(WithSeasons()).Seasons(); !reflect.DeepEqual(got, DefaultSeasons) {
		t.Errorf("empty season list should keep defaults, got %v", got)
	}
}

func TestWithHostMarker(t *testing.T) {
	if New().HostMarker() != DefaultHostMarker {
		t.Error("unexpected default host marker")
	}
	if New(WithHostMarker("")).HostMarker() != DefaultHostMarker {
		t.Error("empty marker should keep the default")
	}
	if New(WithHostMarker("Treptow")).HostMarker() != "Treptow" {
		t.Error("marker not applied")
	}
}

func TestExtract_CarryForwardAcrossRows(t *testing.T) {
	rows := []model.Row{
		{Text: "Datum,Zeit,Halle,Heim,Gast,"},
		{Text: "Sa,01.10,01.10.2022,Vorrunde,"},
		{Text: "11:00,KH1,SG Kiefholz 1,Team B,"},
		{Text: "Team C,Team D,"},
		{Text: "13:00,KH1,Team E,SG Kiefholz 1,"},
		{Text: "So,08.10,08.10.2022,5,10:00,KH2,SG Kiefholz 1,Team F,"},
		{Text: "12:00,KH2,Team G,SG Kiefholz 1,"},
	}

	recs := New().Extract(rows)
	if len(recs) != 4 {
		t.Fatalf("expected 4 records, got %d: %+v", len(recs), recs)
	}

	wantDates := []string{"01.10,01.10.2022", "01.10,01.10.2022", "08.10,08.10.2022", "08.10,08.10.2022"}
	wantTimes := []string{"11:00", "13:00", "10:00", "12:00"}
	for i, r := range recs {
		if r.Date != wantDates[i] {
			t.Errorf("record %d date = %q, want %q", i, r.Date, wantDates[i])
		}
		if r.Time != wantTimes[i] {
			t.Errorf("record %d time = %q, want %q", i, r.Time, wantTimes[i])
		}
	}
	if recs[2].Venue != "KH2" || recs[2].Guest != "Team F" {
		t.Errorf("record 2 = %+v", recs[2])
	}
}

func TestExtract_NoDateBeforeFirstMatch(t *testing.T) {
	recs := New().Extract([]model.Row{{Text: "11:00,KH1,SG Kiefholz 1,Team B,"}})
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].Date != "" {
		t.Errorf("date = %q, want empty", recs[0].Date)
	}
}

func TestStep_Accumulator(t *testing.T) {
	e := New()

	var acc Accumulator
	acc = e.Step(acc, "Sa,01.10,01.10.2022,x,")
	acc = e.Step(acc, "11:00,KH1,SG Kiefholz 1,Team B,")

	if acc.Rows != 2 {
		t.Errorf("Rows = %d, want 2", acc.Rows)
	}
	if acc.Date != "01.10,01.10.2022" {
		t.Errorf("Date = %q", acc.Date)
	}
	if len(acc.Records) != 1 {
		t.Errorf("expected 1 record, got %d", len(acc.Records))
	}

	// A fresh accumulator starts without a date
	fresh := e.Step(Accumulator{}, "11:00,KH1,SG Kiefholz 1,Team B,")
	if fresh.Records[0].Date != "" {
		t.Errorf("state leaked between accumulators: %q", fresh.Records[0].Date)
	}
}
