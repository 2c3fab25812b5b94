package server

import (
	"net/http"
	"slices"
	"strconv"

	"github.com/jrsteele09/homecare-session/resources"
	"github.com/jrsteele09/homecare-session/users"
)

// NursePatientsHandler lists the patients assigned to the nurse in the path.
// Nurses may only look at their own list.
func (s *Server) NursePatientsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nurse, ok := s.pathNurse(w, r)
		if !ok {
			return
		}
		patients, err := s.records.Patients.List(func(p resources.Patient) bool {
			return p.AssignedNurse != nil && p.AssignedNurse.ID == nurse.ID
		})
		if err != nil {
			writeRepoError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, patients)
	}
}

// NurseReportsHandler lists the reports written by the nurse in the path
func (s *Server) NurseReportsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nurse, ok := s.pathNurse(w, r)
		if !ok {
			return
		}
		reports, err := s.records.Reports.List(func(rep resources.Report) bool {
			return rep.Nurse != nil && rep.Nurse.ID == nurse.ID
		})
		if err != nil {
			writeRepoError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, reports)
	}
}

// PatientReportsHandler lists the reports about the calling patient
func (s *Server) PatientReportsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		mine, err := s.records.Patients.List(func(p resources.Patient) bool {
			return p.UserID == claims.UserID
		})
		if err != nil {
			writeRepoError(w, err)
			return
		}
		ids := make([]int64, 0, len(mine))
		for _, p := range mine {
			ids = append(ids, p.ID)
		}

		reports, err := s.records.Reports.List(func(rep resources.Report) bool {
			return rep.Patient != nil && slices.Contains(ids, rep.Patient.ID)
		})
		if err != nil {
			writeRepoError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, reports)
	}
}

// CreateReportHandler files a report. VerifiedBy defaults to the reporting nurse.
func (s *Server) CreateReportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in resources.ReportInput
		if !decodeJSON(w, r, &in) {
			return
		}

		fieldErrors := map[string][]string{}
		if _, err := s.records.Patients.Get(in.Patient); err != nil {
			fieldErrors["patient"] = []string{invalidPK(in.Patient)}
		}
		if _, err := s.records.Nurses.Get(in.Nurse); err != nil {
			fieldErrors["nurse"] = []string{invalidPK(in.Nurse)}
		}
		if !slices.Contains(resources.ReportTypes, in.ReportType) {
			fieldErrors["report_type"] = []string{strconv.Quote(in.ReportType) + " is not a valid choice."}
		}
		if !slices.Contains(resources.Shifts, in.Shift) {
			fieldErrors["shift"] = []string{strconv.Quote(in.Shift) + " is not a valid choice."}
		}
		if len(fieldErrors) > 0 {
			writeFieldErrors(w, fieldErrors)
			return
		}
		if in.VerifiedBy == 0 {
			in.VerifiedBy = in.Nurse
		}

		created, err := s.records.Reports.Insert(resources.Report{
			Patient:         &resources.Ref{ID: in.Patient},
			Nurse:           &resources.Ref{ID: in.Nurse},
			VerifiedBy:      &resources.Ref{ID: in.VerifiedBy},
			ReportType:      in.ReportType,
			Shift:           in.Shift,
			Observations:    in.Observations,
			CareProvided:    in.CareProvided,
			MedicationGiven: in.MedicationGiven,
			VitalsRecorded:  in.VitalsRecorded,
			Recommendations: in.Recommendations,
			IsFinalized:     in.IsFinalized,
		})
		if err != nil {
			writeRepoError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

// pathNurse resolves the nurse in the path and checks a nurse caller is asking about themselves
func (s *Server) pathNurse(w http.ResponseWriter, r *http.Request) (resources.Nurse, bool) {
	id, ok := pathID(w, r)
	if !ok {
		return resources.Nurse{}, false
	}
	nurse, err := s.records.Nurses.Get(id)
	if err != nil {
		writeRepoError(w, err)
		return resources.Nurse{}, false
	}
	claims := ClaimsFromContext(r.Context())
	if claims != nil && claims.Role == users.RoleNurse && nurse.UserID != claims.UserID {
		writeJSONError(w, http.StatusForbidden, "You do not have permission to perform this action.", "permission_denied")
		return resources.Nurse{}, false
	}
	return nurse, true
}

func invalidPK(id int64) string {
	return `Invalid pk "` + strconv.FormatInt(id, 10) + `" - object does not exist.`
}
