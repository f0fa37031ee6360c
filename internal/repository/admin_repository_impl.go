package repository

import (
	"context"
	"net/http"

	domainRepo "hospital-cms-portal/internal/domain/repository"
	"hospital-cms-portal/internal/infrastructure/apiclient"
)

type adminRepository struct {
	client *apiclient.Client
}

func NewAdminRepository(client *apiclient.Client) domainRepo.AdminRepository {
	return &adminRepository{client: client}
}

func (r *adminRepository) Login(ctx context.Context, username, password string) (string, error) {
	var body apiclient.TokenBody
	err := r.client.Do(ctx, apiclient.Request{
		Method:   http.MethodPost,
		Segments: []string{"admin"},
		Body:     map[string]string{"username": username, "password": password},
	}, &body)
	if err != nil {
		return "", err
	}
	return body.RequireToken()
}
