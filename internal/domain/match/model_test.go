package match

import "testing"

func TestInferStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		rowText   string
		hasScores bool
		want      string
	}{
		{"scores win over markers", "AT Gilet - CD Rival 3 - 1 aplazado", true, StatusPlayed},
		{"plain future match", "AT Gilet - CD Rival 14/12/2025 18:00", false, StatusScheduled},
		{"postponed marker", "AT Gilet - CD Rival APLAZADO", false, StatusPostponed},
		{"suspended marker", "AT Gilet - CD Rival suspendido", false, StatusPostponed},
		{"cancelled marker", "AT Gilet - CD Rival Anulado", false, StatusCancelled},
		{"english cancel marker", "AT Gilet - CD Rival cancelled", false, StatusCancelled},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := InferStatus(tc.rowText, tc.hasScores); got != tc.want {
				t.Fatalf("InferStatus(%q, %t) = %q, want %q", tc.rowText, tc.hasScores, got, tc.want)
			}
		})
	}
}

func TestNormalizeStatus(t *testing.T) {
	t.Parallel()

	if got := NormalizeStatus(" played "); got != StatusPlayed {
		t.Fatalf("NormalizeStatus lowercase = %q, want %q", got, StatusPlayed)
	}
	if got := NormalizeStatus(""); got != StatusUnknown {
		t.Fatalf("NormalizeStatus empty = %q, want %q", got, StatusUnknown)
	}
	if got := NormalizeStatus("HALFTIME"); got != StatusUnknown {
		t.Fatalf("NormalizeStatus foreign value = %q, want %q", got, StatusUnknown)
	}
}
