package films

import (
	"reflect"
	"testing"
)

func TestSplitCountries(t *testing.T) {
	stored := []string{
		"США, Велика Британія",
		"США",
		"Франція,  Німеччина",
	}
	want := []string{"США", "Велика Британія", "Франція", "Німеччина"}
	if got := SplitCountries(stored); !reflect.DeepEqual(got, want) {
		t.Errorf("SplitCountries = %v, want %v", got, want)
	}
}

func TestSplitCountriesEmpty(t *testing.T) {
	if got := SplitCountries(nil); got != nil {
		t.Errorf("SplitCountries(nil) = %v, want nil", got)
	}
	if got := SplitCountries([]string{"", " , "}); got != nil {
		t.Errorf("SplitCountries(blank) = %v, want nil", got)
	}
}

func TestDurationLimits(t *testing.T) {
	tests := []struct {
		min, max int
		want     DurationLimit
	}{
		{85, 195, DurationLimit{Min: 85, Max: 195}},
		{0, 0, defaultDuration},
		{-5, 100, defaultDuration},
		{200, 100, defaultDuration},
	}
	for _, tt := range tests {
		if got := DurationLimits(tt.min, tt.max); got != tt.want {
			t.Errorf("DurationLimits(%d, %d) = %+v, want %+v", tt.min, tt.max, got, tt.want)
		}
	}
}
