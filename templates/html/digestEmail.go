package templates

import (
	"fmt"
	"html"
	"strings"
)

// DigestRow is one case line of the deadline digest
type DigestRow struct {
	CaseNo        string
	Year          int
	PoliceStation string
	DeadlineDate  string
	Remaining     string
	Overdue       bool
}

// RenderDeadlineDigestEmail generates the HTML body of the daily chargesheet
// deadline digest. Every value is HTML-escaped.
func RenderDeadlineDigestEmail(subject string, rows []DigestRow, dashboardURL string) string {
	var b strings.Builder
	for _, r := range rows {
		color := "#b45309"
		if r.Overdue {
			color = "#b91c1c"
		}
		fmt.Fprintf(&b, `
        <tr>
          <td>%s/%d</td>
          <td>%s</td>
          <td>%s</td>
          <td style="color: %s; font-weight: 600;">%s</td>
        </tr>`,
			html.EscapeString(r.CaseNo), r.Year,
			html.EscapeString(r.PoliceStation),
			html.EscapeString(r.DeadlineDate),
			color, html.EscapeString(r.Remaining))
	}

	link := ""
	if dashboardURL != "" {
		link = fmt.Sprintf(`<p><a href="%s">Open the dashboard</a></p>`, html.EscapeString(dashboardURL))
	}
	safeSubject := html.EscapeString(subject)

	return fmt.Sprintf(`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1, minimum-scale=1, maximum-scale=1">
  <title>%s</title>
  <style type="text/css">
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 0; background-color: #f3f4f6; }
    .container { max-width: 640px; margin: 0 auto; background-color: #ffffff; }
    .header { background: #1e3a8a; padding: 30px; text-align: center; }
    .header h1 { color: #fff; margin: 0; font-size: 22px; font-weight: 700; }
    .content { padding: 30px; color: #111827; line-height: 1.6; font-size: 14px; }
    table { width: 100%%; border-collapse: collapse; }
    th, td { text-align: left; padding: 8px; border-bottom: 1px solid #e5e7eb; }
    .footer { padding: 20px 30px; color: #6b7280; font-size: 12px; border-top: 1px solid #e5e7eb; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>%s</h1>
    </div>
    <div class="content">
      <p>%d case(s) are overdue or within the chargesheet deadline window.</p>
      <table>
        <tr><th>Case</th><th>Police Station</th><th>Deadline</th><th>Status</th></tr>%s
      </table>
      %s
    </div>
    <div class="footer">
      <p>This digest is sent automatically every day.</p>
    </div>
  </div>
</body>
</html>`, safeSubject, safeSubject, len(rows), b.String(), link)
}

// RenderDeadlineDigestText is the plain text alternative of the digest
func RenderDeadlineDigestText(rows []DigestRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d case(s) are overdue or within the chargesheet deadline window.\n\n", len(rows))
	for _, r := range rows {
		fmt.Fprintf(&b, "Case %s/%d, %s: deadline %s, %s\n", r.CaseNo, r.Year, r.PoliceStation, r.DeadlineDate, r.Remaining)
	}
	return b.String()
}
