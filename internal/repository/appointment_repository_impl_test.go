package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"hospital-cms-portal/internal/domain/entity"
)

func TestAppointmentRepository_ListUsesAllForAbsentFilters(t *testing.T) {
	var paths []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]interface{}{"appointments": []entity.Appointment{{ID: 1}}})
	})
	repo := NewAppointmentRepository(client)

	if _, err := repo.List(context.Background(), entity.AppointmentFilter{}, "doctortoken"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.List(context.Background(), entity.AppointmentFilter{PatientName: "Jane", Date: "2025-03-10"}, "doctortoken"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"/appointments/all/all/doctortoken",
		"/appointments/Jane/2025-03-10/doctortoken",
	}
	if len(paths) != len(want) {
		t.Fatalf("expected %d requests, got %d", len(want), len(paths))
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("request %d: expected %q, got %q", i, want[i], paths[i])
		}
	}
}

func TestAppointmentRepository_UpdateSendsCanonicalBody(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		received  entity.AppointmentUpdate
	)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&received)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Appointment updated"})
	})

	update := &entity.AppointmentUpdate{
		ID:              42,
		Doctor:          entity.ReferenceByID{ID: 3},
		Patient:         entity.ReferenceByID{ID: 7},
		AppointmentTime: "2025-03-10T09:00:00",
		Status:          1,
	}
	message, err := NewAppointmentRepository(client).Update(context.Background(), update, "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/appointments/update/tok" {
		t.Errorf("unexpected request %s %s", gotMethod, gotPath)
	}
	if received != *update {
		t.Errorf("expected body %+v, got %+v", *update, received)
	}
	if message != "Appointment updated" {
		t.Errorf("expected backend message, got %q", message)
	}
}

func TestAppointmentRepository_CancelSendsBearer(t *testing.T) {
	var gotAuth, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	if _, err := NewAppointmentRepository(client).Cancel(context.Background(), 42, "tok"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("expected bearer token, got %q", gotAuth)
	}
	if gotPath != "/appointments/cancel/42/tok" {
		t.Errorf("unexpected path %q", gotPath)
	}
}

func TestPatientRepository_FindByTokenWithoutPatient(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	_, err := NewPatientRepository(client).FindByToken(context.Background(), "tok")
	if got := entity.ErrorKindOf(err); got != entity.ErrorKindNotFound {
		t.Errorf("expected not found error kind, got %q", got)
	}
}

func TestPatientRepository_FilterAppointmentsPath(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		writeJSON(w, http.StatusOK, map[string]interface{}{"appointments": nil})
	})

	appointments, err := NewPatientRepository(client).FilterAppointments(context.Background(),
		entity.PatientAppointmentFilter{Condition: "future"}, "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/patient/filter/future/all/tok" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if appointments == nil || len(appointments) != 0 {
		t.Errorf("expected an empty non-nil list, got %#v", appointments)
	}
}
