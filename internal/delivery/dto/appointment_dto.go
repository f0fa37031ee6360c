package dto

// Request DTOs

type DoctorDashboardQuery struct {
	PatientName string `validate:"omitempty,max=100"`
	Date        string `validate:"omitempty,datetime=2006-01-02"`
	Today       bool
}

type PatientRecordQuery struct {
	ID       string `validate:"required,id"`
	DoctorID string `validate:"omitempty,id"`
	Name     string `validate:"omitempty,max=100"`
}

// UpdateAppointmentQuery is the navigation contract between the record rows and
// the update page. Role is carried for compatibility only; the session decides.
type UpdateAppointmentQuery struct {
	AppointmentID     string `validate:"required,id"`
	PatientID         string `validate:"required,id"`
	PatientName       string
	DoctorID          string `validate:"required,id"`
	DoctorName        string
	AppointmentDate   string `validate:"omitempty,datetime=2006-01-02"`
	AppointmentTime   string
	AppointmentStatus string `validate:"omitempty,number,max=3"`
	Role              string
}

type UpdateAppointmentRequest struct {
	AppointmentID string `validate:"required,id"`
	PatientID     string `validate:"required,id"`
	DoctorID      string `validate:"required,id"`
	Date          string
	Time          string
	Status        string `validate:"omitempty,number,max=3"`

	// Values the page was opened with, submitted back as hidden fields.
	OriginalDate   string
	OriginalTime   string
	OriginalStatus string `validate:"omitempty,number,max=3"`
}

type CancelAppointmentRequest struct {
	AppointmentID string `validate:"required,id"`
	Confirmed     bool
}

// Response DTOs

// PatientRow is the doctor dashboard's one line per appointment.
type PatientRow struct {
	PatientID string
	Name      string
	Phone     string
	Email     string
	RecordURL string
}

type RecordRow struct {
	AppointmentID   string
	Date            string
	PatientID       string
	PatientName     string
	DoctorName      string
	TimeRange       string
	Status          string
	PrescriptionURL string
	UpdateURL       string
}

type DoctorDashboardView struct {
	Query     DoctorDashboardQuery
	FilterURL string
	Table     AppointmentTable
}

// AppointmentTable renders as a <tbody>: rows, the empty-state row, or a notice row.
type AppointmentTable struct {
	Rows   []PatientRow
	Empty  bool
	Notice *Notice
}

type PatientRecordView struct {
	PatientID string
	DoctorID  string
	Rows      []RecordRow
}

type StatusOption struct {
	Value    string
	Label    string
	Selected bool
}

type UpdateAppointmentView struct {
	AppointmentID   string
	PatientID       string
	PatientName     string
	DoctorID        string
	DoctorName      string
	AppointmentDate string
	AppointmentTime string
	Status          string
	Role            string
	TimeOptions     []string
	StatusOptions   []StatusOption
	DateEditable    bool
	TimeEditable    bool
	StatusEditable  bool
	CanDelete       bool
	BackURL         string
}

// StatusLabels names the status codes the backend is known to use.
var StatusLabels = []StatusOption{
	{Value: "0", Label: "Scheduled"},
	{Value: "1", Label: "Completed"},
}
