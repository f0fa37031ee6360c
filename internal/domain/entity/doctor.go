package entity

import "strings"

// Doctor as returned by the clinic API.
type Doctor struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Specialty      string   `json:"specialty"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Password       string   `json:"password,omitempty"`
	AvailableTimes []string `json:"availableTimes"`
}

// DoctorFilter holds the optional doctor search criteria. Empty fields are absent.
type DoctorFilter struct {
	Name      string
	Time      string
	Specialty string
}

// NewDoctorFilter normalizes raw inputs so that blank, "null" and "undefined" mean absent.
func NewDoctorFilter(name, time, specialty string) DoctorFilter {
	return DoctorFilter{
		Name:      NormalizeFilterValue(name),
		Time:      NormalizeFilterValue(time),
		Specialty: NormalizeFilterValue(specialty),
	}
}

// IsEmpty reports whether no criterion is set.
func (f DoctorFilter) IsEmpty() bool {
	return f.Name == "" && f.Time == "" && f.Specialty == ""
}

// NormalizeFilterValue trims v and maps the absent spellings to "".
func NormalizeFilterValue(v string) string {
	v = strings.TrimSpace(v)
	switch strings.ToLower(v) {
	case "", "null", "undefined":
		return ""
	}
	return v
}
