package dto

// Request DTOs

type DoctorFilterQuery struct {
	Name      string `validate:"omitempty,max=100"`
	Time      string `validate:"omitempty,max=20"`
	Specialty string `validate:"omitempty,max=100"`
}

type CreateDoctorRequest struct {
	Name           string   `validate:"required,min=2"`
	Specialty      string   `validate:"required"`
	Email          string   `validate:"required,email"`
	Phone          string   `validate:"required,min=10,max=15"`
	Password       string   `validate:"required,min=6"`
	AvailableTimes []string `validate:"required,min=1,dive,required"`
}

type DeleteDoctorRequest struct {
	ID        int64 `validate:"required,gt=0"`
	Confirmed bool
}

// Response DTOs

type CardActionKind string

const (
	CardActionDelete    CardActionKind = "delete"
	CardActionBookLogin CardActionKind = "book-login"
	CardActionBook      CardActionKind = "book"
)

type CardAction struct {
	Kind    CardActionKind
	Label   string
	Href    string
	Method  string
	Confirm string
}

type DoctorCard struct {
	ID             int64
	DOMID          string
	Name           string
	Specialty      string
	Email          string
	AvailableTimes string
	Actions        []CardAction
}

// DoctorListView backs both the admin and the patient dashboards.
type DoctorListView struct {
	Cards            []DoctorCard
	Filter           DoctorFilterQuery
	FilterURL        string
	TimeOptions      []string
	SpecialtyOptions []string
	SlotOptions      []string
	CanAdd           bool
	ShowLogin        bool
}

// TimeOptions are the coarse availability filters the backend understands.
var TimeOptions = []string{"AM", "PM"}

// SlotOptions are the bookable slots an admin can tick when adding a doctor.
var SlotOptions = []string{
	"09:00-10:00",
	"10:00-11:00",
	"11:00-12:00",
	"12:00-13:00",
	"14:00-15:00",
	"15:00-16:00",
	"16:00-17:00",
}

var SpecialtyOptions = []string{
	"Cardiologist",
	"Dermatologist",
	"Neurologist",
	"Pediatrician",
	"Orthopedic",
	"Gynecologist",
	"Psychiatrist",
	"Dentist",
	"Ophthalmologist",
	"ENT",
	"Urologist",
	"Oncologist",
	"Gastroenterologist",
	"General",
}
