// Package report renders completed assessments for humans: a plain-text
// compliance report and an XLSX export of assessment lists. Presentation
// only; no decision logic lives here.
package report

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rbhatti-ai/exportguard-ai/internal/model"
)

const divider = "----------------------------------------------------------------------"

var references = []string{
	"CBSA Memorandum D20-1-1: Exporter Reporting (https://www.cbsa-asfc.gc.ca/publications/dm-md/d20/d20-1-1-eng.html)",
	"CBSA Exporters' Guide to Reporting (https://www.cbsa-asfc.gc.ca/services/export/guide-eng.html)",
	"Canadian Export Reporting System (CERS) User Guide (https://www.cbsa-asfc.gc.ca/services/export/cers-guide-scde-eng.html)",
	"CBSA Goods That Do Not Need an Export Declaration (https://www.cbsa-asfc.gc.ca/services/export/ndr-adr-eng.html)",
	"Global Affairs Canada - Export Control List (https://www.international.gc.ca/controls-controles/)",
}

const disclaimer = `This report is an automated assessment generated by ExportGuard AI. It is
provided for informational purposes only and does not constitute legal or
compliance advice. It is NOT an official CBSA ruling and does not replace
guidance from the Canada Border Services Agency or a licensed customs broker.

Exporters are solely responsible for ensuring compliance with all applicable
Canadian export regulations, including CERS filing requirements, export
permits, and partner-country customs requirements.

This analysis is based on information you provided. ExportGuard AI does not
verify the accuracy of OCR extractions or manually entered data; errors in
the underlying data will produce incorrect assessments.`

// RenderText produces the plain-text compliance report for one assessment.
func RenderText(a *model.Assessment) string {
	r := a.Result
	p := message.NewPrinter(language.English)

	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}
	section := func(title string) {
		b.WriteString("\n" + title + "\n" + divider + "\n")
	}

	// Header.
	line("GOVERNMENT OF CANADA / GOUVERNEMENT DU CANADA")
	line("Canada Border Services Agency / Agence des services frontaliers du Canada")
	line(divider)
	line("EXPORT COMPLIANCE ASSESSMENT REPORT")
	line("Prepared by ExportGuard AI")

	section("REPORT DETAILS")
	generated := a.CreatedAt
	if generated.IsZero() {
		generated = time.Now().UTC()
	}
	line("Report Generated: %s", generated.Format("2006-01-02"))
	line("Assessment ID: %s", a.ID)
	line("Assessment Type: Canadian Export Reporting System (CERS) Compliance")
	line("Regulatory Framework: CBSA Memorandum D20-1-1 (Exporter Reporting), CERS User Guide")
	line("Compliance Score: %d%%", r.ComplianceScore)

	section("SECTION 1: SHIPMENT DETAILS")
	line("HS Code: %s", orDefault(r.HSCode, "Pending"))
	line("Declared Value (CAD): %s", p.Sprintf("$%.2f", r.ValueCAD))
	line("Destination Country: %s", orDefault(r.Destination, "Not provided"))
	line("Country of Origin: %s", orDefault(r.Origin, "Not provided"))
	line("Mode of Transport: %s", orDefault(string(r.Mode), "Not specified"))
	line("Invoice Currency (Source): %s", orDefault(r.ValueSource.SourceCurrency, "N/A"))
	line("Value Provenance: %s", r.ValueSource.Provenance)
	line("FX Conversion Note: %s", orDefault(r.ValueSource.FXNote, "No currency conversion required"))

	section("SECTION 2: CBSA EXPORT REPORTING REQUIREMENTS")
	cersStatus := "NOT REQUIRED"
	if r.CERSRequired {
		cersStatus = "REQUIRED"
	}
	line("Canadian Export Reporting System (CERS) Declaration: %s", cersStatus)
	line("")
	line("Non-restricted commercial goods valued at CAD 2,000 or more destined for")
	line("countries other than the United States generally require an export")
	line("declaration in CERS; export by Air or Rail may also trigger mandatory")
	line("CERS reporting. [CBSA Memorandum D20-1-1]")
	line("")
	porStatus := "NOT REQUIRED"
	if r.PORRequired {
		porStatus = "REQUIRED"
	}
	line("Proof-of-Report (POR#) Status: %s", porStatus)
	line("When CERS is filed, CBSA issues a Proof-of-Report number (POR#) that must")
	line("be recorded on all shipping and commercial documentation.")

	section("SECTION 3: COMPLIANCE FINDINGS")
	if len(r.Issues) == 0 {
		line("No compliance issues identified.")
	}
	for i, issue := range r.Issues {
		line("Finding %d: %s", i+1, issue.Title)
		line("  Citation: %s", orDefault(issue.Citation, "N/A"))
		line("  Score Impact: %d", issue.ScoreDelta)
	}

	section("SECTION 4: RECOMMENDED ACTIONS")
	n := 0
	action := func(text string) {
		n++
		line("%d. %s", n, text)
	}
	if r.CERSRequired {
		action("File an export declaration in the CBSA Canadian Export Reporting System (CERS) portal before shipping.")
		action("Record the Proof-of-Report (POR#) number issued by CBSA on all commercial invoices, bills of lading, and carrier documentation.")
	}
	if r.Origin == "" {
		action("Add the country of origin for each product line to the commercial invoice and export declaration.")
	}
	action("Retain all export documentation and CERS filings for a minimum of 6 years for CBSA audit purposes.")
	action("For restricted items or export permits, consult CBSA's Export Control List (ECL) and contact Global Affairs Canada.")

	section("SECTION 5: REGULATORY REFERENCES")
	for i, ref := range references {
		line("[%d] %s", i+1, ref)
	}

	section("IMPORTANT DISCLAIMER")
	line("%s", disclaimer)

	return b.String()
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
