package repository

import (
	"context"
	"net/http"
	"strconv"

	"hospital-cms-portal/internal/domain/entity"
	domainRepo "hospital-cms-portal/internal/domain/repository"
	"hospital-cms-portal/internal/infrastructure/apiclient"
)

type prescriptionRepository struct {
	client *apiclient.Client
}

func NewPrescriptionRepository(client *apiclient.Client) domainRepo.PrescriptionRepository {
	return &prescriptionRepository{client: client}
}

type prescriptionsBody struct {
	Prescriptions []entity.Prescription `json:"prescriptions"`
}

func (r *prescriptionRepository) FindByAppointment(ctx context.Context, appointmentID int64, token string) ([]entity.Prescription, error) {
	var body prescriptionsBody
	err := r.client.Do(ctx, apiclient.Request{
		Method:   http.MethodGet,
		Segments: []string{"prescription", strconv.FormatInt(appointmentID, 10), token},
	}, &body)
	if err != nil {
		// The backend answers 404 when no prescription has been written yet.
		if entity.ErrorKindOf(err) == entity.ErrorKindNotFound {
			return nil, nil
		}
		return nil, err
	}
	return body.Prescriptions, nil
}

func (r *prescriptionRepository) Save(ctx context.Context, prescription *entity.Prescription, token string) (string, error) {
	var body apiclient.MessageBody
	err := r.client.Do(ctx, apiclient.Request{
		Method:   http.MethodPost,
		Segments: []string{"prescription", token},
		Body:     prescription,
	}, &body)
	if err != nil {
		return "", err
	}
	return body.Text(), nil
}
