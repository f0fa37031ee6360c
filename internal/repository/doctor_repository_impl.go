package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"hospital-cms-portal/internal/domain/entity"
	domainRepo "hospital-cms-portal/internal/domain/repository"
	"hospital-cms-portal/internal/infrastructure/apiclient"
)

type doctorRepository struct {
	client *apiclient.Client
}

func NewDoctorRepository(client *apiclient.Client) domainRepo.DoctorRepository {
	return &doctorRepository{client: client}
}

type doctorsBody struct {
	Doctors doctorList `json:"doctors"`
}

// doctorList accepts the doctors array either bare or wrapped once more in
// {"doctors": [...]}, which is how the filter endpoint answers.
type doctorList []entity.Doctor

func (l *doctorList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}
	if trimmed[0] == '{' {
		var nested struct {
			Doctors []entity.Doctor `json:"doctors"`
		}
		if err := json.Unmarshal(trimmed, &nested); err != nil {
			return err
		}
		*l = nested.Doctors
		return nil
	}
	var doctors []entity.Doctor
	if err := json.Unmarshal(trimmed, &doctors); err != nil {
		return err
	}
	*l = doctors
	return nil
}

func (r *doctorRepository) List(ctx context.Context) ([]entity.Doctor, error) {
	var body doctorsBody
	err := r.client.Do(ctx, apiclient.Request{
		Method:   http.MethodGet,
		Segments: []string{"doctor"},
	}, &body)
	if err != nil {
		return nil, err
	}
	return nonNilDoctors(body.Doctors), nil
}

// Filter sends only the criteria that are present; with none it is equivalent to List.
func (r *doctorRepository) Filter(ctx context.Context, filter entity.DoctorFilter) ([]entity.Doctor, error) {
	query := url.Values{}
	if filter.Name != "" {
		query.Set("name", filter.Name)
	}
	if filter.Time != "" {
		query.Set("time", filter.Time)
	}
	if filter.Specialty != "" {
		query.Set("speciality", filter.Specialty)
	}

	var body doctorsBody
	err := r.client.Do(ctx, apiclient.Request{
		Method:   http.MethodGet,
		Segments: []string{"doctor", "filter"},
		Query:    query,
	}, &body)
	if err != nil {
		return nil, err
	}
	return nonNilDoctors(body.Doctors), nil
}

func (r *doctorRepository) Create(ctx context.Context, doctor *entity.Doctor, token string) (string, error) {
	var body apiclient.MessageBody
	err := r.client.Do(ctx, apiclient.Request{
		Method:   http.MethodPost,
		Segments: []string{"doctor", "register", token},
		Body:     doctor,
	}, &body)
	if err != nil {
		return "", err
	}
	return body.Text(), nil
}

func (r *doctorRepository) Delete(ctx context.Context, id int64, token string) (string, error) {
	var body apiclient.MessageBody
	err := r.client.Do(ctx, apiclient.Request{
		Method:   http.MethodDelete,
		Segments: []string{"doctor", "delete", strconv.FormatInt(id, 10), token},
	}, &body)
	if err != nil {
		return "", err
	}
	return body.Text(), nil
}

func (r *doctorRepository) Login(ctx context.Context, email, password string) (string, error) {
	var body apiclient.TokenBody
	err := r.client.Do(ctx, apiclient.Request{
		Method:   http.MethodPost,
		Segments: []string{"doctor", "login"},
		Body:     map[string]string{"email": email, "password": password},
	}, &body)
	if err != nil {
		return "", err
	}
	return body.RequireToken()
}

func nonNilDoctors(doctors doctorList) []entity.Doctor {
	if doctors == nil {
		return []entity.Doctor{}
	}
	return []entity.Doctor(doctors)
}
