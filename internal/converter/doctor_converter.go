package converter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"hospital-cms-portal/internal/delivery/dto"
	"hospital-cms-portal/internal/domain/entity"
)

// cardActions lists the actions a doctor card offers for each role. Roles missing
// from the table get no action area.
var cardActions = map[entity.Role][]dto.CardActionKind{
	entity.RoleAdmin:         {dto.CardActionDelete},
	entity.RolePatient:       {dto.CardActionBookLogin},
	entity.RoleLoggedPatient: {dto.CardActionBook},
	entity.RoleDoctor:        nil,
}

// CardActionsFor returns the action kinds shown to role.
func CardActionsFor(role entity.Role) []dto.CardActionKind {
	return cardActions[role]
}

// DoctorToCard converts a Doctor entity to the card shown on the dashboards
func DoctorToCard(doctor *entity.Doctor, role entity.Role) dto.DoctorCard {
	if doctor == nil {
		return dto.DoctorCard{}
	}

	card := dto.DoctorCard{
		ID:             doctor.ID,
		DOMID:          "doctor-" + strconv.FormatInt(doctor.ID, 10),
		Name:           orDash(doctor.Name),
		Specialty:      orDash(doctor.Specialty),
		Email:          orDash(doctor.Email),
		AvailableTimes: orDash(strings.Join(doctor.AvailableTimes, ", ")),
	}

	for _, kind := range cardActions[role] {
		card.Actions = append(card.Actions, cardAction(kind, doctor))
	}
	return card
}

// DoctorsToCards converts a slice of Doctor entities to cards
func DoctorsToCards(doctors []entity.Doctor, role entity.Role) []dto.DoctorCard {
	cards := make([]dto.DoctorCard, len(doctors))
	for i := range doctors {
		cards[i] = DoctorToCard(&doctors[i], role)
	}
	return cards
}

func cardAction(kind dto.CardActionKind, doctor *entity.Doctor) dto.CardAction {
	id := strconv.FormatInt(doctor.ID, 10)
	switch kind {
	case dto.CardActionDelete:
		return dto.CardAction{
			Kind:    kind,
			Label:   "Delete",
			Href:    "/adminDashboard/doctors/" + id + "/delete",
			Method:  "post",
			Confirm: fmt.Sprintf("Are you sure you want to delete Dr. %s?", doctor.Name),
		}
	case dto.CardActionBookLogin:
		return dto.CardAction{
			Kind:    kind,
			Label:   "Book Now",
			Href:    "/pages/patientDashboard#patient-login",
			Method:  "get",
			Confirm: "Please log in as a patient to book an appointment.",
		}
	case dto.CardActionBook:
		return dto.CardAction{
			Kind:   kind,
			Label:  "Book Now",
			Href:   "/pages/booking?" + url.Values{"doctorId": {id}}.Encode(),
			Method: "get",
		}
	}
	return dto.CardAction{Kind: kind}
}

// DoctorRequestToEntity builds the backend payload for a new doctor
func DoctorRequestToEntity(req *dto.CreateDoctorRequest) *entity.Doctor {
	return &entity.Doctor{
		Name:           strings.TrimSpace(req.Name),
		Specialty:      strings.TrimSpace(req.Specialty),
		Email:          strings.TrimSpace(req.Email),
		Phone:          strings.TrimSpace(req.Phone),
		Password:       req.Password,
		AvailableTimes: req.AvailableTimes,
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
