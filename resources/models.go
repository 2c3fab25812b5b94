package resources

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Ref points at another record. The API sends either a bare id or {"id", "full_name"};
// it is always written back as the bare id.
type Ref struct {
	ID       int64
	FullName string
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = Ref{}
		return nil
	}
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			ID       int64  `json:"id"`
			FullName string `json:"full_name"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*r = Ref{ID: obj.ID, FullName: obj.FullName}
		return nil
	}
	var id json.Number
	if err := json.Unmarshal(data, &id); err != nil {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("ref: unsupported value %s", data)
		}
		id = json.Number(s)
	}
	n, err := id.Int64()
	if err != nil {
		return fmt.Errorf("ref: %w", err)
	}
	*r = Ref{ID: n}
	return nil
}

func (r Ref) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(r.ID, 10)), nil
}

// Decimal is a money amount. The API renders decimals as strings; numbers are accepted too.
type Decimal string

func (d *Decimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = Decimal(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decimal: unsupported value %s", data)
	}
	*d = Decimal(n.String())
	return nil
}

func (d Decimal) Float64() float64 {
	f, _ := strconv.ParseFloat(string(d), 64)
	return f
}

type Appointment struct {
	ID                int64   `json:"id,omitempty"`
	AppointmentID     string  `json:"appointment_id,omitempty"`
	Patient           *Ref    `json:"patient,omitempty"`
	Nurse             *Ref    `json:"nurse,omitempty"`
	PatientName       string  `json:"patient_name,omitempty"`
	NurseName         *string `json:"nurse_name"`
	DateOfAppointment string  `json:"date_of_appointment"`
	StartTime         string  `json:"start_time"`
	EndTime           *string `json:"end_time"`
	Purpose           string  `json:"purpose"`
	Status            string  `json:"status"`
	PriorityLevel     string  `json:"priority_level"`
}

type Nurse struct {
	ID            int64  `json:"id,omitempty"`
	UserID        string `json:"user_id"`
	FullName      string `json:"full_name"`
	LicenseNumber string `json:"license_number"`
	Email         string `json:"email"`
	Telephone     string `json:"telephone"`
	IsActive      bool   `json:"is_active"`
}

type Patient struct {
	ID                 int64   `json:"id,omitempty"`
	PatientID          string  `json:"patient_id,omitempty"`
	UserID             string  `json:"user_id,omitempty"`
	FullName           string  `json:"full_name"`
	Age                *int    `json:"age,omitempty"`
	Gender             *string `json:"gender,omitempty"`
	Contact            *string `json:"contact,omitempty"`
	Caregiver          *string `json:"caregiver,omitempty"`
	CaregiverContact   *string `json:"caregiver_contact,omitempty"`
	IllnessType        *string `json:"illness_type,omitempty"`
	Duration           *string `json:"duration,omitempty"`
	SeverityLevel      *string `json:"severity_level,omitempty"`
	CareNeeded         *string `json:"care_needed,omitempty"`
	SpecialityRequired *string `json:"speciality_required,omitempty"`
	Location           *string `json:"location,omitempty"`
	TimeOfCare         *string `json:"time_of_care,omitempty"`
	Rotations          *string `json:"rotations,omitempty"`
	AssignedNurse      *Ref    `json:"assigned_nurse,omitempty"`
}

// Payment statuses used by billing records
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentOverdue = "overdue"
)

type Billing struct {
	ID            int64   `json:"id,omitempty"`
	BillingID     string  `json:"billing_id,omitempty"`
	InvoiceNumber string  `json:"invoice_number,omitempty"`
	Patient       *Ref    `json:"patient,omitempty"`
	Nurse         *Ref    `json:"nurse,omitempty"`
	PatientName   string  `json:"patient_name,omitempty"`
	NurseName     string  `json:"nurse_name,omitempty"`
	BillingPeriod string  `json:"billing_period,omitempty"`
	AmountDue     Decimal `json:"amount_due,omitempty"`
	AmountPaid    Decimal `json:"amount_paid,omitempty"`
	PaymentMethod string  `json:"payment_method,omitempty"`
	PaymentStatus string  `json:"payment_status,omitempty"`
	DueDate       string  `json:"due_date,omitempty"`
}

// Paid reports whether the invoice is settled, ignoring case
func (b Billing) Paid() bool {
	return strings.EqualFold(b.PaymentStatus, PaymentPaid)
}

type Report struct {
	ID              int64  `json:"id,omitempty"`
	ReportID        string `json:"report_id,omitempty"`
	Patient         *Ref   `json:"patient,omitempty"`
	Nurse           *Ref   `json:"nurse,omitempty"`
	VerifiedBy      *Ref   `json:"verified_by,omitempty"`
	PatientName     string `json:"patient_name,omitempty"`
	NurseName       string `json:"nurse_name,omitempty"`
	ReportType      string `json:"report_type"`
	Shift           string `json:"shift"`
	Observations    string `json:"observations"`
	CareProvided    string `json:"care_provided"`
	MedicationGiven string `json:"medication_given"`
	VitalsRecorded  string `json:"vitals_recorded"`
	Recommendations string `json:"recommendations"`
	IsFinalized     bool   `json:"is_finalized"`
	CreatedAt       string `json:"created_at,omitempty"`
}
