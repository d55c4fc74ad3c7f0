package auth

import "testing"

func TestValidPassword(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"Passw0rd!", true},
		{"short1!A", true},
		{"alllowercase1!", false},
		{"NoDigits!!", false},
		{"NoSpecial123", false},
		{"Ab1!", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidPassword(tt.password); got != tt.want {
			t.Errorf("ValidPassword(%q) = %v, want %v", tt.password, got, tt.want)
		}
	}
}

func TestValidDOB(t *testing.T) {
	tests := []struct {
		dob  string
		want bool
	}{
		{"1990-05-17", true},
		{"1920-01-01", true},
		{"1919-12-31", false},
		{"3000-01-01", false},
		{"17-05-1990", false},
		{"not a date", false},
		{"", true},
	}
	for _, tt := range tests {
		if got := ValidDOB(tt.dob); got != tt.want {
			t.Errorf("ValidDOB(%q) = %v, want %v", tt.dob, got, tt.want)
		}
	}
}

func TestValidGender(t *testing.T) {
	for _, ok := range []string{"", "m", "f", "a"} {
		if !ValidGender(ok) {
			t.Errorf("ValidGender(%q) = false, want true", ok)
		}
	}
	for _, bad := range []string{"x", "male", "F"} {
		if ValidGender(bad) {
			t.Errorf("ValidGender(%q) = true, want false", bad)
		}
	}
}
