package templates

import (
	"fmt"
	"html"
	"strings"
)

// StaleCaseRow is one line of the unverified case digest
type StaleCaseRow struct {
	CaseNumber string
	Title      string
	VictimName string
	DaysOpen   int
	Link       string
}

// RenderStaleCaseDigest lists cases that are still waiting for verification
func RenderStaleCaseDigest(rows []StaleCaseRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>%d case(s) are still unverified and need an assignee.</p>\n      <table>", len(rows))
	for _, r := range rows {
		fmt.Fprintf(&b, `
        <tr><td><a href="%s" style="color: #38bdf8;">%s</a></td><td>%s</td><td>%s</td><td>%d days</td></tr>`,
			html.EscapeString(r.Link),
			html.EscapeString(r.CaseNumber),
			html.EscapeString(r.Title),
			html.EscapeString(r.VictimName),
			r.DaysOpen)
	}
	b.WriteString("\n      </table>")
	return render("Unverified cases awaiting review", b.String())
}

// StaleCaseDigestText is the plain text alternative of RenderStaleCaseDigest
func StaleCaseDigestText(rows []StaleCaseRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d case(s) are still unverified and need an assignee.\n\n", len(rows))
	for _, r := range rows {
		fmt.Fprintf(&b, "%s  %s  (%s, %d days)\n%s\n", r.CaseNumber, r.Title, r.VictimName, r.DaysOpen, r.Link)
	}
	return b.String()
}
