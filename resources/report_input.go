package resources

import (
	"fmt"
	"slices"

	autherrors "github.com/jrsteele09/homecare-session/internal/errors"
)

var (
	ReportTypes = []string{"daily", "incident", "progress", "followup", "discharge"}
	Shifts      = []string{"morning", "afternoon", "evening", "night"}
)

// ReportInput is the body of POST /reports/create/
type ReportInput struct {
	Patient         int64  `json:"patient"`
	Nurse           int64  `json:"nurse"`
	VerifiedBy      int64  `json:"verified_by,omitempty"`
	ReportType      string `json:"report_type"`
	Shift           string `json:"shift"`
	Observations    string `json:"observations,omitempty"`
	CareProvided    string `json:"care_provided,omitempty"`
	MedicationGiven string `json:"medication_given,omitempty"`
	VitalsRecorded  string `json:"vitals_recorded,omitempty"`
	Recommendations string `json:"recommendations,omitempty"`
	IsFinalized     bool   `json:"is_finalized,omitempty"`
}

// ErrInvalidReport is returned for a report that would be rejected by the API
var ErrInvalidReport = autherrors.New("invalid report")

func (r ReportInput) Validate() error {
	switch {
	case r.Patient <= 0:
		return fmt.Errorf("%w: patient is required", ErrInvalidReport)
	case r.Nurse <= 0:
		return fmt.Errorf("%w: nurse is required", ErrInvalidReport)
	case !slices.Contains(ReportTypes, r.ReportType):
		return fmt.Errorf("%w: report_type %q is not one of %v", ErrInvalidReport, r.ReportType, ReportTypes)
	case !slices.Contains(Shifts, r.Shift):
		return fmt.Errorf("%w: shift %q is not one of %v", ErrInvalidReport, r.Shift, Shifts)
	}
	return nil
}
