package repository

import (
	"context"
	"net/http"
	"strconv"

	"hospital-cms-portal/internal/domain/entity"
	domainRepo "hospital-cms-portal/internal/domain/repository"
	"hospital-cms-portal/internal/infrastructure/apiclient"
)

// allSegment stands in for an absent path filter.
const allSegment = "all"

type appointmentRepository struct {
	client *apiclient.Client
}

func NewAppointmentRepository(client *apiclient.Client) domainRepo.AppointmentRepository {
	return &appointmentRepository{client: client}
}

type appointmentsBody struct {
	Appointments []entity.Appointment `json:"appointments"`
}

func (r *appointmentRepository) List(ctx context.Context, filter entity.AppointmentFilter, token string) ([]entity.Appointment, error) {
	var body appointmentsBody
	err := r.client.Do(ctx, apiclient.Request{
		Method:   http.MethodGet,
		Segments: []string{"appointments", orAll(filter.PatientName), orAll(filter.Date), token},
	}, &body)
	if err != nil {
		return nil, err
	}
	return nonNilAppointments(body.Appointments), nil
}

func (r *appointmentRepository) Book(ctx context.Context, appointment *entity.AppointmentUpdate, token string) (string, error) {
	var body apiclient.MessageBody
	err := r.client.Do(ctx, apiclient.Request{
		Method:   http.MethodPost,
		Segments: []string{"appointments", token},
		Body:     appointment,
	}, &body)
	if err != nil {
		return "", err
	}
	return body.Text(), nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *entity.AppointmentUpdate, token string) (string, error) {
	var body apiclient.MessageBody
	err := r.client.Do(ctx, apiclient.Request{
		Method:   http.MethodPut,
		Segments: []string{"appointments", "update", token},
		Body:     appointment,
	}, &body)
	if err != nil {
		return "", err
	}
	return body.Text(), nil
}

// Cancel sends the token both as bearer credential and as path segment; the backend
// route requires the latter and proxies in front of it look at the former.
func (r *appointmentRepository) Cancel(ctx context.Context, id int64, token string) (string, error) {
	var body apiclient.MessageBody
	err := r.client.Do(ctx, apiclient.Request{
		Method:   http.MethodDelete,
		Segments: []string{"appointments", "cancel", strconv.FormatInt(id, 10), token},
		Bearer:   token,
	}, &body)
	if err != nil {
		return "", err
	}
	return body.Text(), nil
}

func orAll(v string) string {
	if v == "" {
		return allSegment
	}
	return v
}

func nonNilAppointments(appointments []entity.Appointment) []entity.Appointment {
	if appointments == nil {
		return []entity.Appointment{}
	}
	return appointments
}
