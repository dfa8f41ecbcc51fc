package formatter

import (
	"strings"
	"testing"
	"time"

	"vinylvault/internal/catalog"
	"vinylvault/internal/models"
)

func TestCurrency(t *testing.T) {
	cases := map[int]string{
		0:     "$0.00",
		5:     "$0.05",
		2500:  "$25.00",
		12345: "$123.45",
		-150:  "-$1.50",
	}

	for cents, want := range cases {
		if got := Currency(cents); got != want {
			t.Errorf("Currency(%d) = %q, want %q", cents, got, want)
		}
	}
}

func TestMonth(t *testing.T) {
	if got := Month("2026-08"); got != "Aug 2026" {
		t.Errorf("expected Aug 2026, got %q", got)
	}

	if got := Month("garbage"); got != "garbage" {
		t.Errorf("unparseable keys should pass through, got %q", got)
	}
}

func TestRenderSummary(t *testing.T) {
	year := 1959
	rec := models.NewRecord(1, "Miles Davis", "Kind of Blue")
	rec.SetYear(&year)
	rec.SetQuantity(2)
	rec.SetFormat("LP")

	t.Run("WithoutSpend", func(t *testing.T) {
		summary := catalog.Summarize([]*models.Record{rec}, time.Now(), models.Session{})

		var buf strings.Builder
		RenderSummary(&buf, summary)
		output := buf.String()

		if !strings.Contains(output, "2 units across 1 artists") {
			t.Errorf("missing unit line, got: %s", output)
		}
		if !strings.Contains(output, "Miles Davis") {
			t.Errorf("missing top artist, got: %s", output)
		}
		if strings.Contains(output, "Spend") {
			t.Errorf("spend should be absent without admin session, got: %s", output)
		}
	})

	t.Run("WithSpend", func(t *testing.T) {
		cost := 2500
		rec.SetCostCents(&cost)
		summary := catalog.Summarize([]*models.Record{rec}, time.Now(), models.AdminSession("admin@example.com"))

		var buf strings.Builder
		RenderSummary(&buf, summary)

		if !strings.Contains(buf.String(), "$50.00 total") {
			t.Errorf("expected cost total in output, got: %s", buf.String())
		}
	})
}

func TestExportToCSV(t *testing.T) {
	year := 1969
	rec := models.NewRecord(1, "The Beatles", "Abbey Road")
	rec.SetYear(&year)
	rec.SetFormat("LP")
	rec.SetNotes("gatefold, 2019 remaster")

	data, err := ExportToCSV([]*models.Record{rec})
	if err != nil {
		t.Fatalf("ExportToCSV failed: %v", err)
	}

	output := string(data)
	if !strings.Contains(output, "Artist,Album,Year,Quantity,Format,Genre,Notes") {
		t.Errorf("CSV missing headers, got: %s", output)
	}
	if !strings.Contains(output, "The Beatles") || !strings.Contains(output, "1969") {
		t.Errorf("CSV missing record fields, got: %s", output)
	}
	if !strings.Contains(output, `"gatefold, 2019 remaster"`) {
		t.Errorf("CSV should quote fields containing commas, got: %s", output)
	}
}
