package fees

import (
	"fmt"
	"html"
	"strings"
)

// Section order is fixed: header, receipt info, student info, fee table,
// notes, footer. The print view depends on it.
const receiptStyle = `* { margin: 0; padding: 0; box-sizing: border-box; }
body { font-family: Arial, sans-serif; padding: 40px; }
.receipt { max-width: 800px; margin: 0 auto; }
.header { text-align: center; border-bottom: 2px solid #000; padding-bottom: 20px; margin-bottom: 20px; }
.header img { max-width: 80px; max-height: 80px; object-fit: contain; }
.header h1 { font-size: 28px; margin-bottom: 8px; }
.header p { color: #666; }
.header .title { font-size: 18px; font-weight: bold; margin-top: 10px; }
.info-grid { display: grid; grid-template-columns: 1fr 1fr; gap: 20px; margin-bottom: 20px; font-size: 14px; }
.info-grid .right { text-align: right; }
.student-details { background: #f5f5f5; padding: 15px; border-radius: 4px; margin-bottom: 20px; }
.student-details h3 { margin-bottom: 10px; }
.fee-details h3 { margin-bottom: 10px; }
table { width: 100%; border-collapse: collapse; margin-bottom: 20px; }
th, td { border: 1px solid #ddd; padding: 10px; text-align: left; }
th { background: #f5f5f5; font-weight: bold; }
td.right, th.right { text-align: right; }
tfoot td { background: #f5f5f5; font-weight: bold; }
.notes { font-size: 14px; margin-bottom: 20px; }
.footer { border-top: 1px solid #ddd; padding-top: 15px; text-align: center; color: #666; font-size: 13px; }
@media print { body { padding: 20px; } @page { margin: 20mm; } }`

// HTML renders the receipt as a standalone printable document.
func (r Receipt) HTML() string {
	esc := html.EscapeString
	var b strings.Builder

	fmt.Fprintf(&b, "<!DOCTYPE html>\n<html>\n<head>\n<title>Payment Receipt - %s</title>\n<style>%s</style>\n</head>\n<body>\n<div class=\"receipt\">\n", esc(r.ReceiptNo), receiptStyle)

	// Header
	b.WriteString("<div class=\"header\">\n")
	if r.School.LogoURL != "" {
		fmt.Fprintf(&b, "<img src=%q alt=\"School Logo\" />\n", r.School.LogoURL)
	}
	fmt.Fprintf(&b, "<h1>%s</h1>\n", esc(r.School.Name))
	fmt.Fprintf(&b, "<p>%s</p>\n", esc(r.School.Address))
	if r.School.Phone != "" {
		fmt.Fprintf(&b, "<p>Phone: %s</p>\n", esc(r.School.Phone))
	}
	if r.School.Email != "" {
		fmt.Fprintf(&b, "<p>Email: %s</p>\n", esc(r.School.Email))
	}
	b.WriteString("<p class=\"title\">FEE PAYMENT RECEIPT</p>\n</div>\n")

	// Receipt info
	b.WriteString("<div class=\"info-grid\">\n<div>\n")
	fmt.Fprintf(&b, "<p><strong>Receipt No:</strong> %s</p>\n", esc(r.ReceiptNo))
	fmt.Fprintf(&b, "<p><strong>Date:</strong> %s</p>\n", r.PaymentDate.Format("02/01/2006"))
	b.WriteString("</div>\n<div class=\"right\">\n")
	fmt.Fprintf(&b, "<p><strong>Payment Method:</strong> %s</p>\n", esc(strings.ToUpper(r.PaymentMethod)))
	if r.ReferenceNumber != "" {
		fmt.Fprintf(&b, "<p><strong>Reference No:</strong> %s</p>\n", esc(r.ReferenceNumber))
	}
	b.WriteString("</div>\n</div>\n")

	// Student info
	b.WriteString("<div class=\"student-details\">\n<h3>Student Details</h3>\n")
	fmt.Fprintf(&b, "<p><strong>Name:</strong> %s</p>\n", esc(r.Student.FullName))
	fmt.Fprintf(&b, "<p><strong>Admission No:</strong> %s</p>\n", esc(r.Student.AdmissionNo))
	fmt.Fprintf(&b, "<p><strong>Class:</strong> %s - %s</p>\n", esc(r.Student.Grade), esc(r.Student.Section))
	if r.Student.GuardianName != "" {
		fmt.Fprintf(&b, "<p><strong>Parent/Guardian:</strong> %s</p>\n", esc(r.Student.GuardianName))
	}
	if r.Student.GuardianPhone != "" {
		fmt.Fprintf(&b, "<p><strong>Contact:</strong> %s</p>\n", esc(r.Student.GuardianPhone))
	}
	b.WriteString("</div>\n")

	// Fee table
	b.WriteString("<div class=\"fee-details\">\n<h3>Fee Details</h3>\n<table>\n<thead>\n<tr><th>Fee Type</th><th class=\"right\">Balance</th><th class=\"right\">Amount Paid</th></tr>\n</thead>\n<tbody>\n")
	for _, line := range r.Lines {
		fmt.Fprintf(&b, "<tr><td>%s</td><td class=\"right\">&#8377;%.2f</td><td class=\"right\"><strong>&#8377;%.2f</strong></td></tr>\n",
			esc(line.FeeType), line.Balance, line.Amount)
	}
	b.WriteString("</tbody>\n<tfoot>\n")
	fmt.Fprintf(&b, "<tr><td colspan=\"2\" class=\"right\">Total Paid:</td><td class=\"right\">&#8377;%.2f</td></tr>\n", r.Total)
	b.WriteString("</tfoot>\n</table>\n</div>\n")

	// Notes
	if r.Notes != "" {
		fmt.Fprintf(&b, "<div class=\"notes\">\n<p><strong>Notes:</strong> %s</p>\n</div>\n", esc(r.Notes))
	}

	// Footer
	b.WriteString("<div class=\"footer\">\n<p>This is a computer-generated receipt and does not require a signature.</p>\n<p>Thank you for your payment!</p>\n</div>\n")

	b.WriteString("</div>\n</body>\n</html>\n")
	return b.String()
}
