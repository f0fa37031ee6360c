package entity

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// StatusEditable is the only appointment status whose meaning the portal knows:
// the prescription for such an appointment may still be written.
const StatusEditable = 1

var (
	ErrMissingDateTime = errors.New("please select both date and time")
	ErrInvalidDate     = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidTime     = errors.New("invalid time format, use HH:MM")
)

// Appointment as returned by the clinic API. The backend sends either flattened
// fields (patientId, doctorName, ...) or nested objects, so both are modelled.
type Appointment struct {
	ID                  int64    `json:"id"`
	Patient             *Patient `json:"patient,omitempty"`
	Doctor              *Doctor  `json:"doctor,omitempty"`
	PatientID           *int64   `json:"patientId,omitempty"`
	PatientName         string   `json:"patientName,omitempty"`
	PatientEmail        string   `json:"patientEmail,omitempty"`
	PatientPhone        string   `json:"patientPhone,omitempty"`
	DoctorID            *int64   `json:"doctorId,omitempty"`
	DoctorName          string   `json:"doctorName,omitempty"`
	AppointmentTime     string   `json:"appointmentTime,omitempty"`
	AppointmentDate     string   `json:"appointmentDate,omitempty"`
	AppointmentTimeOnly string   `json:"appointmentTimeOnly,omitempty"`
	EndTime             string   `json:"endTime,omitempty"`
	Status              int      `json:"status"`
}

// AppointmentUpdate is the body sent when an appointment is booked or changed.
type AppointmentUpdate struct {
	ID              int64         `json:"id,omitempty"`
	Doctor          ReferenceByID `json:"doctor"`
	Patient         ReferenceByID `json:"patient"`
	AppointmentTime string        `json:"appointmentTime"`
	Status          int           `json:"status"`
}

// ReferenceByID is the {"id": n} shape the backend expects for related entities.
type ReferenceByID struct {
	ID int64 `json:"id"`
}

// AppointmentFilter narrows the doctor's appointment list. Empty fields are absent.
type AppointmentFilter struct {
	PatientName string
	Date        string
}

// PatientAppointmentFilter narrows a patient's own appointments.
type PatientAppointmentFilter struct {
	Condition  string // "past", "future" or empty
	DoctorName string
}

func (a *Appointment) PatientIDValue() string {
	if a.PatientID != nil {
		return strconv.FormatInt(*a.PatientID, 10)
	}
	if a.Patient != nil && a.Patient.ID != 0 {
		return strconv.FormatInt(a.Patient.ID, 10)
	}
	return ""
}

func (a *Appointment) PatientNameValue() string {
	if a.PatientName != "" {
		return a.PatientName
	}
	if a.Patient != nil {
		return a.Patient.Name
	}
	return ""
}

func (a *Appointment) DoctorIDValue() string {
	if a.DoctorID != nil {
		return strconv.FormatInt(*a.DoctorID, 10)
	}
	if a.Doctor != nil && a.Doctor.ID != 0 {
		return strconv.FormatInt(a.Doctor.ID, 10)
	}
	return ""
}

func (a *Appointment) DoctorNameValue() string {
	if a.DoctorName != "" {
		return a.DoctorName
	}
	if a.Doctor != nil {
		return a.Doctor.Name
	}
	return ""
}

// DateValue prefers the explicit date, else the date half of appointmentTime.
func (a *Appointment) DateValue() string {
	if a.AppointmentDate != "" {
		return a.AppointmentDate
	}
	date, _, _ := strings.Cut(a.AppointmentTime, "T")
	return date
}

// TimeRange derives "HH:MM" or "HH:MM-HH:MM" for display and navigation.
func (a *Appointment) TimeRange() string {
	var start string
	if a.AppointmentTimeOnly != "" {
		start = hhmm(a.AppointmentTimeOnly)
	} else if _, t, ok := strings.Cut(a.AppointmentTime, "T"); ok {
		start = hhmm(t)
	}

	var end string
	if _, t, ok := strings.Cut(a.EndTime, "T"); ok {
		end = hhmm(t)
	}

	if start != "" && end != "" {
		return start + "-" + end
	}
	return start
}

func hhmm(s string) string {
	if len(s) > 5 {
		return s[:5]
	}
	return s
}

// PrescriptionMode decides whether the prescription page is writable.
type PrescriptionMode string

const (
	ModeEdit PrescriptionMode = "edit"
	ModeView PrescriptionMode = "view"
)

// ModeForStatus maps an appointment status onto the prescription page mode.
func ModeForStatus(status int) PrescriptionMode {
	if status == StatusEditable {
		return ModeEdit
	}
	return ModeView
}

// ParsePrescriptionMode accepts only "edit" and "view".
func ParsePrescriptionMode(s string) (PrescriptionMode, bool) {
	switch PrescriptionMode(s) {
	case ModeEdit, ModeView:
		return PrescriptionMode(s), true
	}
	return "", false
}

// CanonicalAppointmentTime joins a date and the start of a "HH:MM-HH:MM" slot
// into the backend's "YYYY-MM-DDTHH:MM:00" form.
func CanonicalAppointmentTime(date, timeRange string) (string, error) {
	date = strings.TrimSpace(date)
	timeRange = strings.TrimSpace(timeRange)
	if date == "" || timeRange == "" {
		return "", ErrMissingDateTime
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return "", ErrInvalidDate
	}

	start, _, _ := strings.Cut(timeRange, "-")
	start = hhmm(strings.TrimSpace(start))
	if _, err := time.Parse("15:04", start); err != nil {
		return "", ErrInvalidTime
	}

	return date + "T" + start + ":00", nil
}
