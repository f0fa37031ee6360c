package dto

type BookingQuery struct {
	DoctorID string `validate:"required,id"`
}

type BookingRequest struct {
	DoctorID  string `validate:"required,id"`
	PatientID string `validate:"required,id"`
	Date      string `validate:"required,datetime=2006-01-02"`
	Time      string `validate:"required"`
}

type BookingView struct {
	DoctorID     int64
	DoctorName   string
	Specialty    string
	PatientID    int64
	PatientName  string
	PatientEmail string
	TimeOptions  []string
	MinDate      string
}
