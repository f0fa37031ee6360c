package repository

import (
	"context"
	"net/http"
	"strconv"

	"hospital-cms-portal/internal/domain/entity"
	domainRepo "hospital-cms-portal/internal/domain/repository"
	"hospital-cms-portal/internal/infrastructure/apiclient"
)

type patientRepository struct {
	client *apiclient.Client
}

func NewPatientRepository(client *apiclient.Client) domainRepo.PatientRepository {
	return &patientRepository{client: client}
}

type patientBody struct {
	Patient *entity.Patient `json:"patient"`
}

func (r *patientRepository) FindByToken(ctx context.Context, token string) (*entity.Patient, error) {
	var body patientBody
	err := r.client.Do(ctx, apiclient.Request{
		Method:   http.MethodGet,
		Segments: []string{"patient", token},
	}, &body)
	if err != nil {
		return nil, err
	}
	if body.Patient == nil {
		return nil, &entity.APIError{Kind: entity.ErrorKindNotFound, Message: "Patient not found"}
	}
	return body.Patient, nil
}

func (r *patientRepository) Appointments(ctx context.Context, patientID int64, token string) ([]entity.Appointment, error) {
	var body appointmentsBody
	err := r.client.Do(ctx, apiclient.Request{
		Method:   http.MethodGet,
		Segments: []string{"patient", "appointments", strconv.FormatInt(patientID, 10), token},
	}, &body)
	if err != nil {
		return nil, err
	}
	return nonNilAppointments(body.Appointments), nil
}

func (r *patientRepository) FilterAppointments(ctx context.Context, filter entity.PatientAppointmentFilter, token string) ([]entity.Appointment, error) {
	var body appointmentsBody
	err := r.client.Do(ctx, apiclient.Request{
		Method:   http.MethodGet,
		Segments: []string{"patient", "filter", orAll(filter.Condition), orAll(filter.DoctorName), token},
	}, &body)
	if err != nil {
		return nil, err
	}
	return nonNilAppointments(body.Appointments), nil
}

func (r *patientRepository) Login(ctx context.Context, email, password string) (string, error) {
	var body apiclient.TokenBody
	err := r.client.Do(ctx, apiclient.Request{
		Method:   http.MethodPost,
		Segments: []string{"patient", "login"},
		Body:     map[string]string{"email": email, "password": password},
	}, &body)
	if err != nil {
		return "", err
	}
	return body.RequireToken()
}

func (r *patientRepository) Signup(ctx context.Context, patient *entity.Patient) (string, error) {
	var body apiclient.MessageBody
	err := r.client.Do(ctx, apiclient.Request{
		Method:   http.MethodPost,
		Segments: []string{"patient", "register"},
		Body:     patient,
	}, &body)
	if err != nil {
		return "", err
	}
	return body.Text(), nil
}
