package schedule

import "testing"

func TestRules(t *testing.T) {
	tests := []struct {
		name      string
		rule      Rule
		row       string
		wantField string
		wantRest  string
		wantOK    bool
	}{
		{
			name:      "date at start",
			rule:      DateRule([]string{"2022"}),
			row:       "Sa,01.09,04.09.2022,18,19:00",
			wantField: "01.09,04.09.2022",
			wantRest:  ",18,19:00",
			wantOK:    true,
		},
		{
			name:      "date after other field",
			rule:      DateRule([]string{"2023"}),
			row:       "x,Sa,01.09,01.09.2023,18",
			wantField: "01.09,01.09.2023",
			wantRest:  "x,18",
			wantOK:    true,
		},
		{
			name:     "date wrong season",
			rule:     DateRule([]string{"2023"}),
			row:      "Sa,01.09,04.09.2022,18",
			wantRest: "Sa,01.09,04.09.2022,18",
		},
		{
			name:     "date needs three fields",
			rule:     DateRule([]string{"2022"}),
			row:      "04.09.2022,18",
			wantRest: "04.09.2022,18",
		},
		{
			name:      "dated time strips leading field",
			rule:      DatedTimeRule(),
			row:       ",18,19:00,Halle",
			wantField: "19:00",
			wantRest:  ",Halle",
			wantOK:    true,
		},
		{
			name:     "dated time not one field later",
			rule:     DatedTimeRule(),
			row:      ",19:00,Halle",
			wantRest: ",19:00,Halle",
		},
		{
			name:      "time strips token only",
			rule:      TimeRule(),
			row:       "a,11:00,KH1",
			wantField: "11:00",
			wantRest:  "a,,KH1",
			wantOK:    true,
		},
		{
			name:      "venue first word",
			rule:      VenueRule(),
			row:       ",KH1,Home,",
			wantField: "KH1",
			wantRest:  ",Home,",
			wantOK:    true,
		},
		{
			name:     "venue missing",
			rule:     VenueRule(),
			row:      ",,",
			wantRest: ",,",
		},
		{
			name:      "team trims and drops comma",
			rule:      TeamRule("home"),
			row:       ", SG Kiefholz 1,Gast,",
			wantField: "SG Kiefholz 1",
			wantRest:  ",Gast,",
			wantOK:    true,
		},
		{
			name:      "team at end of row",
			rule:      TeamRule("guest"),
			row:       ",Gast",
			wantField: "Gast",
			wantRest:  ",",
			wantOK:    true,
		},
		{
			name:     "team missing",
			rule:     TeamRule("guest"),
			row:      ",,",
			wantRest: ",,",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field, rest, ok := tt.rule.Apply(tt.row)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if field != tt.wantField {
				t.Errorf("field = %q, want %q", field, tt.wantField)
			}
			if rest != tt.wantRest {
				t.Errorf("rest = %q, want %q", rest, tt.wantRest)
			}

			// Rules are pure
			field2, rest2, ok2 := tt.rule.Apply(tt.row)
			if field2 != field || rest2 != rest || ok2 != ok {
				t.Error("second application gave a different result")
			}
		})
	}
}

func TestCascade_FirstMatchWins(t *testing.T) {
	c := Cascade{DatedTimeRule(), TimeRule()}

	field, rest, ok := c.Apply(",18,19:00,Halle")
	if !ok || field != "19:00" || rest != ",Halle" {
		t.Errorf("dated: %q %q %v", field, rest, ok)
	}

	field, rest, ok = c.Apply("Halle,20:15,")
	if !ok || field != "20:15" || rest != "Halle,," {
		t.Errorf("fallback: %q %q %v", field, rest, ok)
	}

	field, rest, ok = c.Apply("Halle,")
	if ok || field != "" || rest != "Halle," {
		t.Errorf("miss: %q %q %v", field, rest, ok)
	}
}
