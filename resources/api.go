package resources

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	autherrors "github.com/jrsteele09/homecare-session/internal/errors"
)

// Collection paths relative to the API base URL
const (
	PathAppointments = "/appointments/"
	PathNurses       = "/nurses/"
	PathPatients     = "/patients/"
	PathBillings     = "/billing/billings/"
	PathReports      = "/reports/"

	PathPatientReports = "/patients/reports/"
	PathCreateReport   = "/reports/create/"
)

// API groups the page level loaders of the console
type API struct {
	Appointments *Collection[Appointment]
	Nurses       *Collection[Nurse]
	Patients     *Collection[Patient]
	Billings     *Collection[Billing]
	Reports      *Collection[Report]

	doer Doer
}

func New(doer Doer) *API {
	return &API{
		Appointments: NewCollection[Appointment](doer, PathAppointments),
		Nurses:       NewCollection[Nurse](doer, PathNurses),
		Patients:     NewCollection[Patient](doer, PathPatients),
		Billings:     NewCollection[Billing](doer, PathBillings),
		Reports:      NewCollection[Report](doer, PathReports),
		doer:         doer,
	}
}

// NursePatientsPath is the path of the patients assigned to a nurse
func NursePatientsPath(nurseID int64) string {
	return PathNurses + strconv.FormatInt(nurseID, 10) + "/patients/"
}

// NurseReportsPath is the path of the reports written by a nurse
func NurseReportsPath(nurseID int64) string {
	return PathNurses + strconv.FormatInt(nurseID, 10) + "/reports/"
}

// NursePatients lists the patients assigned to nurseID
func (a *API) NursePatients(ctx context.Context, nurseID int64) ([]Patient, error) {
	return listAt[Patient](ctx, a.doer, NursePatientsPath(nurseID))
}

// NurseReports lists the reports written by nurseID
func (a *API) NurseReports(ctx context.Context, nurseID int64) ([]Report, error) {
	return listAt[Report](ctx, a.doer, NurseReportsPath(nurseID))
}

// PatientReports lists the reports about the logged in patient
func (a *API) PatientReports(ctx context.Context) ([]Report, error) {
	return listAt[Report](ctx, a.doer, PathPatientReports)
}

// CreateReport files a nurse report. VerifiedBy defaults to the reporting nurse.
func (a *API) CreateReport(ctx context.Context, in ReportInput) (*Report, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.VerifiedBy == 0 {
		in.VerifiedBy = in.Nurse
	}
	var created Report
	if err := a.doer.DoJSON(ctx, http.MethodPost, PathCreateReport, in, &created); err != nil {
		return nil, autherrors.Wrapf(err, "[CreateReport] patient %d", in.Patient)
	}
	return &created, nil
}

// MarkBillingPaid sets the invoice's payment status to paid and returns the updated record
func (a *API) MarkBillingPaid(ctx context.Context, id int64) (*Billing, error) {
	updated, err := a.Billings.Patch(ctx, id, map[string]any{"payment_status": PaymentPaid})
	if err != nil {
		return nil, fmt.Errorf("[MarkBillingPaid] billing %d: %w", id, err)
	}
	return updated, nil
}

func listAt[T any](ctx context.Context, doer Doer, path string) ([]T, error) {
	return NewCollection[T](doer, path).List(ctx)
}
