package report

import (
	"strings"
	"testing"
	"time"

	"attendance-bot/internal/models"
)

var testDay = time.Date(2025, time.March, 7, 12, 0, 0, 0, time.UTC)

func TestBuildEmpty(t *testing.T) {
	if got := Build(testDay, "", nil); got != "" {
		t.Fatalf("expected empty report, got %q", got)
	}
}

func TestBuildOrderingCaseInsensitive(t *testing.T) {
	rows := []models.AbsenceReportRow{
		{FullName: "beta", Category: models.CategoryExcused, Reason: "приказ", UserID: 2},
		{FullName: "Alpha", Category: models.CategoryExcused, Reason: "приказ", UserID: 1},
		{FullName: "gamma", Category: models.CategoryExcused, Reason: "приказ", UserID: 3},
	}

	got := Build(testDay, "", rows)

	iAlpha := strings.Index(got, "1. Alpha")
	iBeta := strings.Index(got, "2. beta")
	iGamma := strings.Index(got, "3. gamma")
	if iAlpha == -1 || iBeta == -1 || iGamma == -1 || !(iAlpha < iBeta && iBeta < iGamma) {
		t.Fatalf("wrong ordering:\n%s", got)
	}
}

func TestBuildHeaderAndFallbackName(t *testing.T) {
	rows := []models.AbsenceReportRow{
		{FullName: "", Category: models.CategoryUnexcused, Reason: "проспал", UserID: 777},
	}

	got := Build(testDay, "Группа 101", rows)

	if !strings.Contains(got, "📋 **Группа 101**") {
		t.Errorf("missing group header:\n%s", got)
	}
	if !strings.Contains(got, "На 07.03 отсутствуют:") {
		t.Errorf("missing day header:\n%s", got)
	}
	if !strings.Contains(got, "1. ID: 777") {
		t.Errorf("missing fallback name:\n%s", got)
	}
	if !strings.Contains(got, "(проспал/ неуважительная)") {
		t.Errorf("unknown reason must pass through verbatim:\n%s", got)
	}
}

func TestBuildStandingRow(t *testing.T) {
	rows := []models.AbsenceReportRow{
		{FullName: "Иванов", Category: "", Reason: string(models.ReasonSick), UserID: 1, Standing: true},
		{FullName: "Петров", Category: "", Reason: string(models.ReasonVacation), UserID: 2, Standing: true},
	}

	got := Build(testDay, "", rows)

	if !strings.Contains(got, "(болеет/ уважительная)") {
		t.Errorf("sick standing row not normalized:\n%s", got)
	}
	if !strings.Contains(got, "(отпуск/ уважительная)") {
		t.Errorf("vacation standing row not normalized:\n%s", got)
	}
}

func TestBuildDecoratedLabelNormalized(t *testing.T) {
	rows := []models.AbsenceReportRow{
		{FullName: "Сидоров", Category: models.CategoryExcused, Reason: models.ReasonCollegeDuty.Label(), UserID: 3},
	}

	got := Build(testDay, "", rows)

	if !strings.Contains(got, "(дежурство по колледжу/ уважительная)") {
		t.Errorf("decorated label not normalized:\n%s", got)
	}
}

func TestFormatReasonPassThrough(t *testing.T) {
	if got := FormatReason("свадьба"); got != "свадьба" {
		t.Errorf("expected verbatim pass-through, got %q", got)
	}
	if got := FormatReason("🤒 Болею"); got != "болеет" {
		t.Errorf("expected normalized form, got %q", got)
	}
}
