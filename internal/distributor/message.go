package distributor

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/opsreport/alb-status-report/pkg/models"
)

// BuildMessage renders the plain-text notification body: bucket totals, the
// download link, and its validity window.
func BuildMessage(report *models.Report, runDate time.Time, url string, expiry time.Duration) string {
	printer := message.NewPrinter(language.English)
	totals := report.Totals()
	hours := int(expiry.Hours())

	var b strings.Builder
	b.WriteString("Daily ALB API Status Report\n\n")
	printer.Fprintf(&b, "Date: %s\n\n", runDate.Format("2006-01-02"))
	b.WriteString("=== SUMMARY ===\n")
	printer.Fprintf(&b, "Total 2xx (Success): %d\n", totals.Success)
	printer.Fprintf(&b, "Total 4xx (Client Errors): %d\n", totals.ClientError)
	printer.Fprintf(&b, "Total 5xx (Server Errors): %d\n\n", totals.ServerError)
	b.WriteString("The consolidated API status report has been generated successfully.\n\n")
	printer.Fprintf(&b, "Download PDF Report (valid for %d hours):\n%s\n\n", hours, url)
	printer.Fprintf(&b, "NOTE: This link expires in %d hours. Download the report for your records.\n\n", hours)
	b.WriteString("Regards,\nDevOps Automation Team")

	return b.String()
}
