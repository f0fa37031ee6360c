package dto

type PrescriptionQuery struct {
	AppointmentID     string `validate:"required,id"`
	PatientID         string
	PatientName       string
	DoctorID          string
	DoctorName        string
	AppointmentStatus string `validate:"omitempty,number,max=3"`
	Mode              string `validate:"omitempty,oneof=edit view"`
}

type SavePrescriptionRequest struct {
	AppointmentID string `validate:"required,id"`
	PatientName   string `validate:"required,min=3,max=100"`
	Medication    string `validate:"required,min=3,max=100"`
	Dosage        string `validate:"required"`
	DoctorNotes   string `validate:"omitempty,max=200"`
}

type PrescriptionView struct {
	Heading       string
	Mode          string
	Editable      bool
	AppointmentID string
	PatientName   string
	Medication    string
	Dosage        string
	DoctorNotes   string
	BackURL       string
}
