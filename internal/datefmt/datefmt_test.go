package datefmt

import "testing"

func TestFormat(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"15-03-2025", "15th Mar 2025"},
		{"2025-03-01", "1st Mar 2025"},
		{"11-07-2025", "11th Jul 2025"},
		{"12-07-2025", "12th Jul 2025"},
		{"13-07-2025", "13th Jul 2025"},
		{"21-07-2025", "21st Jul 2025"},
		{"02-01-2026", "2nd Jan 2026"},
		{"23-06-2025", "23rd Jun 2025"},
		{"03/04/2025", "4th Mar 2025"},
		{"2025-03-01 14:22:05", "1st Mar 2025"},
		{"not-a-date", "not-a-date"},
		{"", "N/A"},
		{"N/A", "N/A"},
	}
	for _, tc := range cases {
		if got := Format(tc.raw); got != tc.want {
			t.Errorf("Format(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestFormatPrefersDayMonthYear(t *testing.T) {
	// 03-04-2025 parses under both DD-MM and MM/DD conventions; the sheet's
	// native day-month-year layout must win.
	if got := Format("03-04-2025"); got != "3rd Apr 2025" {
		t.Fatalf("Format(03-04-2025) = %q, want 3rd Apr 2025", got)
	}
}

func TestOrdinalSuffix(t *testing.T) {
	cases := map[int]string{
		1: "st", 2: "nd", 3: "rd", 4: "th",
		11: "th", 12: "th", 13: "th",
		21: "st", 22: "nd", 23: "rd", 24: "th", 31: "st",
	}
	for day, want := range cases {
		if got := ordinalSuffix(day); got != want {
			t.Errorf("ordinalSuffix(%d) = %q, want %q", day, got, want)
		}
	}
}
