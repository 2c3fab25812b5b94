package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/jrsteele09/homecare-session/internal/utils"
	"github.com/jrsteele09/homecare-session/resources"
	"github.com/jrsteele09/homecare-session/server/recordrepo"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// newInMemoryRecords builds the tables. Records that reference a patient or nurse get the
// display names filled in on every write, as the production serializers do.
func (s *Server) newInMemoryRecords() Records {
	nurses := recordrepo.NewInMemoryRepo(func(n *resources.Nurse, id int64) { n.ID = id }, nil)
	patients := recordrepo.NewInMemoryRepo(func(p *resources.Patient, id int64) { p.ID = id }, func(p *resources.Patient) {
		if p.PatientID == "" {
			p.PatientID = fmt.Sprintf("PAT-%05d", p.ID)
		}
	})

	patientName := func(ref *resources.Ref) string {
		if ref == nil {
			return ""
		}
		if p, err := patients.Get(ref.ID); err == nil {
			return p.FullName
		}
		return ref.FullName
	}
	nurseName := func(ref *resources.Ref) string {
		if ref == nil {
			return ""
		}
		if n, err := nurses.Get(ref.ID); err == nil {
			return n.FullName
		}
		return ref.FullName
	}

	appointments := recordrepo.NewInMemoryRepo(func(a *resources.Appointment, id int64) { a.ID = id }, func(a *resources.Appointment) {
		if a.AppointmentID == "" {
			a.AppointmentID = fmt.Sprintf("APT-%05d", a.ID)
		}
		if a.Status == "" {
			a.Status = "scheduled"
		}
		if name := patientName(a.Patient); name != "" {
			a.PatientName = name
		}
		if name := nurseName(a.Nurse); name != "" {
			a.NurseName = utils.Ptr(name)
		}
	})

	billings := recordrepo.NewInMemoryRepo(func(b *resources.Billing, id int64) { b.ID = id }, func(b *resources.Billing) {
		if b.InvoiceNumber == "" {
			b.InvoiceNumber = fmt.Sprintf("INV-%05d", b.ID)
		}
		if b.BillingID == "" {
			b.BillingID = b.InvoiceNumber
		}
		if b.PaymentStatus == "" {
			b.PaymentStatus = resources.PaymentPending
		}
		b.PaymentStatus = strings.ToLower(b.PaymentStatus)
		if b.Paid() && b.AmountPaid.Float64() == 0 {
			b.AmountPaid = b.AmountDue
		}
		b.PatientName = patientName(b.Patient)
		b.NurseName = nurseName(b.Nurse)
	})

	reports := recordrepo.NewInMemoryRepo(func(r *resources.Report, id int64) { r.ID = id }, func(r *resources.Report) {
		if r.ReportID == "" {
			r.ReportID = fmt.Sprintf("RPT-%05d", r.ID)
		}
		if r.CreatedAt == "" {
			r.CreatedAt = NowTimeFunc().UTC().Format(time.RFC3339)
		}
		r.PatientName = patientName(r.Patient)
		r.NurseName = nurseName(r.Nurse)
	})

	return Records{
		Appointments: appointments,
		Nurses:       nurses,
		Patients:     patients,
		Billings:     billings,
		Reports:      reports,
	}
}
