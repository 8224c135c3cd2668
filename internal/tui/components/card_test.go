package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/Harrypotter-hub/SmartBunk/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRowSumsExactly(t *testing.T) {
	for _, tc := range []struct{ total, n int }{
		{100, 4},
		{101, 4},
		{103, 4},
		{80, 3},
		{7, 2},
	} {
		widths := LayoutRow(tc.total, tc.n)
		if len(widths) != tc.n {
			t.Fatalf("LayoutRow(%d, %d) returned %d widths", tc.total, tc.n, len(widths))
		}
		sum := 0
		for _, w := range widths {
			sum += w
		}
		if sum != tc.total {
			t.Errorf("LayoutRow(%d, %d) sums to %d", tc.total, tc.n, sum)
		}
	}

	if LayoutRow(50, 0) != nil {
		t.Error("LayoutRow with n=0 should return nil")
	}
}

func TestCardRowHeightMatchesTallest(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := len(strings.Split(shortCard, "\n"))
	tallLines := len(strings.Split(tallCard, "\n"))
	if shortLines >= tallLines {
		t.Fatal("test setup error: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Errorf("joined height should match tallest card: got %d, want %d", len(lines), tallLines)
	}
}

func TestMetricCardShowsContent(t *testing.T) {
	theme.SetActive("flexoki-dark")

	card := MetricCard(Metric{Label: "Average", Value: "82.0%", Note: "target 75%"}, 24)
	for _, want := range []string{"Average", "82.0%", "target 75%"} {
		if !strings.Contains(card, want) {
			t.Errorf("metric card missing %q", want)
		}
	}
}
