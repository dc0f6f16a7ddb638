// Package pdf renders a one-page summary of a submitted customer profile:
// the verification status followed by a table of every submitted field.
package pdf

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/csg33k/fpr-form/internal/domain"
)

// GenerateSummary writes the summary of out to w. Field labels come from cfg.
func GenerateSummary(cfg *domain.FormConfig, out *domain.VerificationOutcome, w io.Writer) error {
	if out == nil {
		return fmt.Errorf("no verification outcome to summarise")
	}
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.SetTitle("Application summary", true)
	pdf.AddPage()
	drawSummary(pdf, cfg, out)
	return pdf.Output(w)
}

func drawSummary(pdf *fpdf.Fpdf, cfg *domain.FormConfig, out *domain.VerificationOutcome) {
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageW, pageH := pdf.GetPageSize()
	marginL, marginT, marginR, marginB := pdf.GetMargins()
	contentW := pageW - marginL - marginR

	// ── Header bar ───────────────────────────────────────────────────────────
	pdf.SetFillColor(30, 30, 30)
	pdf.Rect(marginL, marginT, contentW, 10, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(marginL+2, marginT+1.5)
	pdf.CellFormat(contentW-4, 7, "APPLICATION SUMMARY", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(marginL+2, marginT+1.5)
	pdf.CellFormat(contentW-4, 7, out.CreatedAt.Format("02 Jan 2006 15:04 MST"), "", 1, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	y := marginT + 13

	// ── Status ───────────────────────────────────────────────────────────────
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetXY(marginL, y)
	pdf.CellFormat(contentW, 5.5, "VERIFICATION", "LRT", 1, "L", true, 0, "")
	y += 5.5

	colHalf := contentW / 2
	status := "Verified"
	if !out.Success {
		status = "Not verified (" + out.ErrorType + ")"
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(marginL, y)
	pdf.CellFormat(colHalf, 6.5, status, "L", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(colHalf, 6.5, fmt.Sprintf("Status code: %d", out.StatusCode), "R", 1, "R", false, 0, "")
	y += 6.5

	ref := ""
	if out.Response != nil {
		ref = out.Response.Data.ReferenceID
	}
	pdf.SetXY(marginL, y)
	if ref != "" {
		pdf.CellFormat(contentW, 5.5, tr("Reference: "+ref), "LRB", 1, "L", false, 0, "")
		y += 5.5
	} else {
		pdf.CellFormat(contentW, 0, "", "LRB", 1, "L", false, 0, "")
	}

	y += 5

	// ── Submitted details ────────────────────────────────────────────────────
	labelW := contentW * 0.4
	valueW := contentW - labelW

	pdf.SetFillColor(30, 30, 30)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 8.5)
	pdf.SetXY(marginL, y)
	pdf.CellFormat(labelW, 7, "Field", "1", 0, "L", true, 0, "")
	pdf.CellFormat(valueW, 7, "Submitted value", "1", 1, "L", true, 0, "")
	y += 7
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 8.5)

	rowH := 6.5
	i := 0
	for _, k := range domain.AllFields() {
		v := displayValue(cfg, k, requestValue(out.Request, k))
		if v == "" {
			continue
		}
		if i%2 == 0 {
			pdf.SetFillColor(250, 250, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetXY(marginL, y)
		pdf.CellFormat(labelW, rowH, tr(fieldLabel(cfg, k)), "1", 0, "L", true, 0, "")
		pdf.CellFormat(valueW, rowH, tr(v), "1", 1, "L", true, 0, "")
		y += rowH
		i++
	}

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.SetXY(marginL, pageH-marginB-6)
	pdf.SetFont("Helvetica", "I", 7.5)
	pdf.SetTextColor(130, 130, 130)
	pdf.CellFormat(contentW/2, 5, tr(cfg.Title), "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 5, "Session "+shortID(out.SessionID), "", 0, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func requestValue(req domain.VerifyRequest, k domain.FieldKind) string {
	switch k {
	case domain.FieldCustomerFullName:
		return req.CustomerFullName
	case domain.FieldPAN:
		return req.PAN
	case domain.FieldDOB:
		return req.DOB
	case domain.FieldPinCode:
		return req.PinCode
	case domain.FieldCity:
		return req.City
	case domain.FieldGender:
		return req.Gender
	case domain.FieldEmploymentType:
		return req.EmploymentType
	case domain.FieldNetMonthlySalary:
		return req.NetMonthlySalary
	case domain.FieldGSTIN:
		return req.GSTIN
	case domain.FieldLookingFor:
		return req.LookingFor
	}
	return ""
}

func fieldLabel(cfg *domain.FormConfig, k domain.FieldKind) string {
	if d, ok := cfg.InputField(k); ok && d.Label != "" {
		return d.Label
	}
	if t, ok := cfg.TabField(k); ok && t.Label != "" {
		return t.Label
	}
	if d, ok := cfg.DropdownField(k); ok && d.Label != "" {
		return d.Label
	}
	return k.String()
}

// displayValue shows tab options by label, masks the PAN and groups the salary.
func displayValue(cfg *domain.FormConfig, k domain.FieldKind, v string) string {
	if v == "" {
		return ""
	}
	switch k {
	case domain.FieldPAN:
		return maskPAN(v)
	case domain.FieldNetMonthlySalary:
		return "Rs. " + groupThousands(v)
	}
	if t, ok := cfg.TabField(k); ok {
		for _, opt := range t.Options {
			if opt.Value == v {
				return opt.Label
			}
		}
	}
	return v
}

func maskPAN(pan string) string {
	if len(pan) != 10 {
		return pan
	}
	return pan[:2] + strings.Repeat("X", 7) + pan[9:]
}

// groupThousands inserts Indian digit grouping: 1234567 -> 12,34,567.
func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
