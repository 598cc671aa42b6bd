package date

import (
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// time.Time are usually not comparable (there is a pointer for the timezone),
		// this checks that the property remain true.
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2024-03-15", want: New(2024, time.March, 15)},
		{in: "2025-7-1", want: New(2025, time.July, 1)},
		{in: "15/03/2024", wantErr: true},
		{in: "", wantErr: true},
		{in: "2024-02-30", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if !tc.wantErr && got != tc.want {
				t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestAddYears(t *testing.T) {
	d := MustParse("2024-02-29")
	if got, want := d.AddYears(-1), MustParse("2023-03-01"); got != want {
		t.Errorf("AddYears(-1) = %v, want %v", got, want)
	}
	if got, want := MustParse("2024-01-01").DaysUntil(MustParse("2025-01-01")), 366; got != want {
		t.Errorf("DaysUntil() = %v, want %v", got, want)
	}
}
