package fees

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"

	"schoolfees-backend/models"
	"schoolfees-backend/utils"
)

// SchoolInfo is the receipt header block.
type SchoolInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	LogoURL string `json:"logo_url"`
}

// StudentInfo is the student/guardian block.
type StudentInfo struct {
	FullName      string `json:"full_name"`
	AdmissionNo   string `json:"admission_no"`
	Grade         string `json:"grade"`
	Section       string `json:"section"`
	GuardianName  string `json:"parent_name"`
	GuardianPhone string `json:"parent_phone"`
	GuardianEmail string `json:"parent_email"`
}

// ReceiptLine is one fee row on the printed document: the balance shown is
// the balance before this payment.
type ReceiptLine struct {
	FeeType  string  `json:"fee_type"`
	Balance  float64 `json:"balance_before"`
	Amount   float64 `json:"amount"`
	DemandID string  `json:"demand_id"`
}

// Receipt is the printable/persistable projection of one payment action.
type Receipt struct {
	School          SchoolInfo    `json:"school"`
	Student         StudentInfo   `json:"student"`
	ReceiptNo       string        `json:"receipt_no"`
	PaymentDate     time.Time     `json:"payment_date"`
	PaymentMethod   string        `json:"payment_method"`
	ReferenceNumber string        `json:"reference_number"`
	Notes           string        `json:"notes"`
	Lines           []ReceiptLine `json:"lines"`
	Total           float64       `json:"total"`
}

// FormatAddress flattens a structured school address to one printable line.
// Accepts either a plain JSON string or an object with street/city/state/
// country/postal_code keys.
func FormatAddress(raw datatypes.JSON) string {
	if len(raw) == 0 {
		return ""
	}
	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain
	}
	var addr struct {
		Street     string `json:"street"`
		City       string `json:"city"`
		State      string `json:"state"`
		Country    string `json:"country"`
		PostalCode string `json:"postal_code"`
	}
	if err := json.Unmarshal(raw, &addr); err != nil {
		return ""
	}
	parts := []string{addr.Street, addr.City, addr.State, addr.Country, addr.PostalCode}
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

// ComposeReceipt assembles the document from cached school/student context
// and a confirmed payment result. Pure: no I/O.
func ComposeReceipt(school models.School, student models.Student, details PaymentDetails, res Result) Receipt {
	info := StudentInfo{
		FullName:    student.FullName,
		AdmissionNo: student.AdmissionNo,
		Grade:       student.Grade,
		Section:     student.Section,
	}
	// First linked guardian, if any.
	if len(student.Guardians) > 0 {
		g := student.Guardians[0]
		info.GuardianName = g.FullName()
		info.GuardianPhone = g.Phone
		info.GuardianEmail = g.Email
	}

	lines := make([]ReceiptLine, 0, len(res.Payments))
	for _, p := range res.Payments {
		lines = append(lines, ReceiptLine{
			FeeType:  p.FeeType,
			Balance:  p.BalanceBefore,
			Amount:   p.Amount,
			DemandID: p.DemandID,
		})
	}

	return Receipt{
		School: SchoolInfo{
			Name:    school.Name,
			Address: FormatAddress(school.Address),
			Phone:   school.PhoneNumber,
			Email:   school.Email,
			LogoURL: school.LogoURL,
		},
		Student:         info,
		ReceiptNo:       res.ReceiptNo,
		PaymentDate:     details.Date,
		PaymentMethod:   details.Method,
		ReferenceNumber: details.ReferenceNumber,
		Notes:           details.Notes,
		Lines:           lines,
		Total:           res.Total(),
	}
}

// Record converts the receipt into its audit row.
func (r Receipt) Record(studentID string) (models.FeeReceipt, error) {
	items, err := json.Marshal(r.Lines)
	if err != nil {
		return models.FeeReceipt{}, err
	}
	return models.FeeReceipt{
		ReceiptNo:          r.ReceiptNo,
		StudentID:          studentID,
		StudentName:        r.Student.FullName,
		StudentAdmissionNo: r.Student.AdmissionNo,
		StudentGrade:       r.Student.Grade,
		StudentSection:     r.Student.Section,
		GuardianName:       r.Student.GuardianName,
		GuardianPhone:      r.Student.GuardianPhone,
		GuardianEmail:      r.Student.GuardianEmail,
		PaymentMethod:      r.PaymentMethod,
		PaymentDate:        r.PaymentDate,
		ReferenceNumber:    r.ReferenceNumber,
		Notes:              r.Notes,
		Items:              datatypes.JSON(items),
		TotalAmount:        utils.Round2(r.Total),
		SchoolName:         r.School.Name,
		SchoolAddress:      r.School.Address,
		SchoolPhone:        r.School.Phone,
		SchoolEmail:        r.School.Email,
		SchoolLogoURL:      r.School.LogoURL,
	}, nil
}

// ReceiptFromRecord rebuilds a printable receipt from its audit row.
func ReceiptFromRecord(rec models.FeeReceipt) (Receipt, error) {
	var lines []ReceiptLine
	if len(rec.Items) > 0 {
		if err := json.Unmarshal(rec.Items, &lines); err != nil {
			return Receipt{}, err
		}
	}
	return Receipt{
		School: SchoolInfo{
			Name:    rec.SchoolName,
			Address: rec.SchoolAddress,
			Phone:   rec.SchoolPhone,
			Email:   rec.SchoolEmail,
			LogoURL: rec.SchoolLogoURL,
		},
		Student: StudentInfo{
			FullName:      rec.StudentName,
			AdmissionNo:   rec.StudentAdmissionNo,
			Grade:         rec.StudentGrade,
			Section:       rec.StudentSection,
			GuardianName:  rec.GuardianName,
			GuardianPhone: rec.GuardianPhone,
			GuardianEmail: rec.GuardianEmail,
		},
		ReceiptNo:       rec.ReceiptNo,
		PaymentDate:     rec.PaymentDate,
		PaymentMethod:   rec.PaymentMethod,
		ReferenceNumber: rec.ReferenceNumber,
		Notes:           rec.Notes,
		Lines:           lines,
		Total:           rec.TotalAmount,
	}, nil
}
