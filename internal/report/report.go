// Package report builds the human-readable daily absentee listing.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"attendance-bot/internal/models"
)

// Short display forms for the decorated reason labels stored on finalized
// absences. Anything not listed is shown verbatim.
var reasonDisplay = map[string]string{
	"🤒 Болею":             "болеет",
	"📋 Приказ на весь день": "приказ",
	"🏠 Деж. по общаге":     "дежурство по общаге",
	"🏫 Деж. по колледжу":   "дежурство по колледжу",
	"🎖️ Военкомат":          "военкомат",
	"😎 Отпуск":             "отпуск",
}

// Display forms for standing-absence labels, which arrive as reason codes.
var standingDisplay = map[models.ReasonCode]string{
	models.ReasonSick:     "болеет",
	models.ReasonVacation: "отпуск",
}

// FormatReason normalizes a stored reason for the report.
func FormatReason(reason string) string {
	if short, ok := reasonDisplay[reason]; ok {
		return short
	}
	return reason
}

// FormatCategory turns the stored category into its report form.
func FormatCategory(c models.Category) string {
	switch c {
	case models.CategoryExcused:
		return "уважительная"
	case models.CategoryUnexcused:
		return "неуважительная"
	}
	return string(c)
}

// DisplayName falls back to a synthetic name when the user never registered.
func DisplayName(fullName string, userID int64) string {
	if fullName != "" {
		return fullName
	}
	return fmt.Sprintf("ID: %d", userID)
}

// Build renders the day's report. Returns "" when there is nothing to
// report, which callers treat as "no absentees", not as an error. Rows are
// ordered case-insensitively by display name and numbered from 1.
func Build(day time.Time, groupName string, rows []models.AbsenceReportRow) string {
	if len(rows) == 0 {
		return ""
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a := strings.ToLower(DisplayName(rows[i].FullName, rows[i].UserID))
		b := strings.ToLower(DisplayName(rows[j].FullName, rows[j].UserID))
		return a < b
	})

	var b strings.Builder
	if groupName != "" {
		fmt.Fprintf(&b, "📋 **%s**\n", groupName)
	}
	fmt.Fprintf(&b, "На %s отсутствуют:\n\n", day.Format("02.01"))

	for i, row := range rows {
		reason := row.Reason
		category := row.Category
		if row.Standing {
			category = models.CategoryExcused
			if short, ok := standingDisplay[models.ReasonCode(row.Reason)]; ok {
				reason = short
			}
		} else {
			reason = FormatReason(reason)
		}

		fmt.Fprintf(&b, "%d. %s\n(%s/ %s)\n\n",
			i+1, DisplayName(row.FullName, row.UserID), reason, FormatCategory(category))
	}

	return strings.TrimSpace(b.String())
}
