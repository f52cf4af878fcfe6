// Package report renders the plain-text client delivery report offered
// for download from the portal.
package report

import (
	"fmt"
	"strings"
	"time"
)

type Item struct {
	Title    string
	Approved bool
	Comment  string
}

type Section struct {
	Heading string
	Items   []Item
}

// Build renders the report. Sections appear in the given order; empty
// sections still print their heading so the document mirrors the portal
// layout.
func Build(sections []Section, finalNotes string, now time.Time) string {
	var approved, total int
	for _, s := range sections {
		for _, item := range s.Items {
			total++
			if item.Approved {
				approved++
			}
		}
	}

	var b strings.Builder
	b.WriteString("=== CLIENT DELIVERY PORTAL REPORT ===\n\n")
	fmt.Fprintf(&b, "Date: %s\n", now.Format("1/2/2006"))
	fmt.Fprintf(&b, "Time: %s\n", now.Format("3:04:05 PM"))
	fmt.Fprintf(&b, "Progress: %d/%d items approved\n\n", approved, total)

	for _, s := range sections {
		fmt.Fprintf(&b, "\n--- %s ---\n\n", s.Heading)

		for _, item := range s.Items {
			b.WriteString(item.Title + "\n")
			if item.Approved {
				b.WriteString("Status: APPROVED ✓\n")
			} else {
				b.WriteString("Status: PENDING\n")
			}
			if strings.TrimSpace(item.Comment) != "" {
				fmt.Fprintf(&b, "Comment: %s\n", item.Comment)
			}
			b.WriteString("\n")
		}
	}

	if strings.TrimSpace(finalNotes) != "" {
		fmt.Fprintf(&b, "\n--- FINAL NOTES ---\n%s\n", finalNotes)
	}

	return b.String()
}

// Filename returns the suggested download name for a report generated now.
func Filename(now time.Time) string {
	return fmt.Sprintf("client-feedback-%s.txt", now.Format("2006-01-02"))
}
