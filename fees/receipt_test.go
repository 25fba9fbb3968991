package fees

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"schoolfees-backend/models"
)

func testSchool() models.School {
	return models.School{
		Name:        "Sunrise Public School",
		Address:     datatypes.JSON(`{"street":"12 MG Road","city":"Bengaluru","state":"Karnataka","postal_code":"560001"}`),
		PhoneNumber: "+91 80 1234 5678",
		Email:       "office@sunrise.example",
	}
}

func testResult() Result {
	return Result{
		ReceiptNo: "RCP-1700000000000",
		Payments: []AppliedPayment{
			{DemandID: "d1", FeeType: "Tuition", BalanceBefore: 5000, Amount: 2000, PaidAmount: 2000, BalanceAmount: 3000, PaymentStatus: models.StatusPartial},
			{DemandID: "d2", FeeType: "Transport", BalanceBefore: 1200, Amount: 1200, PaidAmount: 1200, BalanceAmount: 0, PaymentStatus: models.StatusPaid},
		},
	}
}

func TestFormatAddress(t *testing.T) {
	tests := []struct {
		name string
		raw  datatypes.JSON
		want string
	}{
		{name: "nil", raw: nil, want: ""},
		{name: "plain string", raw: datatypes.JSON(`"12 MG Road, Bengaluru"`), want: "12 MG Road, Bengaluru"},
		{
			name: "structured",
			raw:  datatypes.JSON(`{"street":"12 MG Road","city":"Bengaluru","state":"Karnataka","country":"India","postal_code":"560001"}`),
			want: "12 MG Road, Bengaluru, Karnataka, India, 560001",
		},
		{
			name: "partial fields skipped",
			raw:  datatypes.JSON(`{"city":"Bengaluru","postal_code":"560001"}`),
			want: "Bengaluru, 560001",
		},
		{name: "garbage", raw: datatypes.JSON(`[1,2]`), want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAddress(tt.raw))
		})
	}
}

func TestComposeReceipt(t *testing.T) {
	student := models.Student{
		Id:          "student-1",
		FullName:    "Asha Rao",
		AdmissionNo: "ADM-042",
		Grade:       "5",
		Section:     "B",
		Guardians: []models.Guardian{
			{FirstName: "Meera", LastName: "Rao", Phone: "9000000001", Email: "meera@example.com"},
			{FirstName: "Vikram", LastName: "Rao", Phone: "9000000002"},
		},
	}
	details := PaymentDetails{
		Method:          models.MethodOnline,
		Date:            time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
		ReferenceNumber: "UTR-778899",
		Notes:           "April installment",
		AcademicYear:    "2026",
	}

	r := ComposeReceipt(testSchool(), student, details, testResult())

	assert.Equal(t, "Sunrise Public School", r.School.Name)
	assert.Equal(t, "12 MG Road, Bengaluru, Karnataka, 560001", r.School.Address)

	// First guardian is printed.
	assert.Equal(t, "Meera Rao", r.Student.GuardianName)
	assert.Equal(t, "9000000001", r.Student.GuardianPhone)

	assert.Equal(t, "RCP-1700000000000", r.ReceiptNo)
	require.Len(t, r.Lines, 2)
	assert.Equal(t, "Tuition", r.Lines[0].FeeType)
	assert.Equal(t, 5000.0, r.Lines[0].Balance)
	assert.Equal(t, 2000.0, r.Lines[0].Amount)
	assert.Equal(t, 3200.0, r.Total)
}

func TestComposeReceiptWithoutGuardian(t *testing.T) {
	student := models.Student{Id: "student-1", FullName: "Asha Rao"}
	r := ComposeReceipt(testSchool(), student, testDetails(), testResult())
	assert.Empty(t, r.Student.GuardianName)
	assert.Empty(t, r.Student.GuardianPhone)
	assert.Empty(t, r.Student.GuardianEmail)
}

func TestReceiptRecordRoundTrip(t *testing.T) {
	student := models.Student{
		Id: "student-1", FullName: "Asha Rao", AdmissionNo: "ADM-042", Grade: "5",
		Guardians: []models.Guardian{{FirstName: "Meera", LastName: "Rao", Phone: "9000000001"}},
	}
	original := ComposeReceipt(testSchool(), student, testDetails(), testResult())

	record, err := original.Record(student.Id)
	require.NoError(t, err)
	assert.Equal(t, "student-1", record.StudentID)
	assert.Equal(t, original.ReceiptNo, record.ReceiptNo)
	assert.Equal(t, 3200.0, record.TotalAmount)

	restored, err := ReceiptFromRecord(record)
	require.NoError(t, err)
	assert.Equal(t, original.School, restored.School)
	assert.Equal(t, original.Student, restored.Student)
	assert.Equal(t, original.Lines, restored.Lines)
	assert.Equal(t, original.Total, restored.Total)
}

func TestReceiptFromRecordBadItems(t *testing.T) {
	_, err := ReceiptFromRecord(models.FeeReceipt{
		ReceiptNo: "RCP-1",
		Items:     datatypes.JSON(`{"not":"a list"}`),
	})
	assert.Error(t, err)
}

func TestReceiptHTML(t *testing.T) {
	student := models.Student{
		Id: "student-1", FullName: "Asha <Rao>", AdmissionNo: "ADM-042", Grade: "5", Section: "B",
		Guardians: []models.Guardian{{FirstName: "Meera", LastName: "Rao", Phone: "9000000001"}},
	}
	details := PaymentDetails{
		Method: models.MethodCash,
		Date:   time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
	}
	r := ComposeReceipt(testSchool(), student, details, testResult())

	doc := r.HTML()

	// Student input is escaped, never embedded raw.
	assert.NotContains(t, doc, "Asha <Rao>")
	assert.Contains(t, doc, "Asha &lt;Rao&gt;")

	assert.Contains(t, doc, "Sunrise Public School")
	assert.Contains(t, doc, "RCP-1700000000000")
	assert.Contains(t, doc, "10/04/2026")
	assert.Contains(t, doc, "&#8377;3200.00")

	// Fixed section order: header, receipt info, student info, fee table,
	// footer disclaimer.
	idxSchool := strings.Index(doc, "Sunrise Public School")
	idxReceiptNo := strings.Index(doc, "Receipt No:</strong>")
	idxStudent := strings.Index(doc, "Asha &lt;Rao&gt;")
	idxTable := strings.Index(doc, "Tuition")
	idxFooter := strings.Index(doc, "computer-generated receipt")
	assert.True(t, idxSchool < idxReceiptNo)
	assert.True(t, idxReceiptNo < idxStudent)
	assert.True(t, idxStudent < idxTable)
	assert.True(t, idxTable < idxFooter)
}
