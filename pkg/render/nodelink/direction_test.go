package nodelink

import "testing"

func TestNextDirection(t *testing.T) {
	d := Down
	var got []Direction
	for range 4 {
		d = NextDirection(d)
		got = append(got, d)
	}
	want := []Direction{Left, Up, Right, Down}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rotation = %v, want %v", got, want)
		}
	}

	if NextDirection("SIDEWAYS") != Down {
		t.Error("NextDirection(unknown) should restart at DOWN")
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"", Down, false},
		{"down", Down, false},
		{"Right", Right, false},
		{"UP", Up, false},
		{"left", Left, false},
		{"north", "", true},
	}

	for _, tt := range tests {
		got, err := ParseDirection(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDirection(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseDirection(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
