package match

import "testing"

func TestVersionMatches(t *testing.T) {
	t.Parallel()

	cases := []struct {
		version string
		target  string
		want    bool
	}{
		{version: "14.20.615.1234", target: "14.20", want: true},
		{version: "14.19.612.1", target: "14.20", want: false},
		{version: "14.2.1", target: "14.20", want: false},
		{version: "14.20", target: "14.20", want: true},
		{version: "", target: "14.20", want: false},
	}
	for _, tc := range cases {
		if got := VersionMatches(tc.version, tc.target); got != tc.want {
			t.Fatalf("VersionMatches(%q, %q) = %v, want %v", tc.version, tc.target, got, tc.want)
		}
	}
}

func TestPerksRuneIDs(t *testing.T) {
	t.Parallel()

	p := Perks{Keystone: 8005, PrimaryRow1: 9111, PrimaryRow2: 9104, PrimaryRow3: 8014, SecondaryRow1: 8304, SecondaryRow2: 8345, ShardFlex: 5008}
	got := p.RuneIDs()
	want := [6]int{8005, 9111, 9104, 8014, 8304, 8345}
	if got != want {
		t.Fatalf("unexpected rune ids: %v", got)
	}
}

func TestSlotKey(t *testing.T) {
	t.Parallel()

	if got := SlotKey(BlueTeamID, PositionTop); got != "100_TOP" {
		t.Fatalf("unexpected slot key: %s", got)
	}
}
