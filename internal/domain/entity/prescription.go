package entity

// Prescription issued by a doctor for one appointment.
type Prescription struct {
	ID            string `json:"id,omitempty"`
	PatientName   string `json:"patientName"`
	Medication    string `json:"medication"`
	Dosage        string `json:"dosage"`
	DoctorNotes   string `json:"doctorNotes"`
	AppointmentID int64  `json:"appointmentId"`
}
