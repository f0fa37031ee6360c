package http

import (
	"net/http"

	"hospital-cms-portal/internal/delivery/http/handler"
	"hospital-cms-portal/internal/delivery/http/middleware"
	"hospital-cms-portal/internal/domain/entity"
	"hospital-cms-portal/pkg/response"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	authHandler         *handler.AuthHandler
	doctorHandler       *handler.DoctorHandler
	appointmentHandler  *handler.AppointmentHandler
	prescriptionHandler *handler.PrescriptionHandler
	sessionMiddleware   *middleware.SessionMiddleware
	roleMiddleware      *middleware.RoleMiddleware
	securityMiddleware  *middleware.SecurityMiddleware
	loggingMiddleware   *middleware.LoggingMiddleware
	rateLimitMiddleware *middleware.RateLimitMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	doctorHandler *handler.DoctorHandler,
	appointmentHandler *handler.AppointmentHandler,
	prescriptionHandler *handler.PrescriptionHandler,
	sessionMiddleware *middleware.SessionMiddleware,
	roleMiddleware *middleware.RoleMiddleware,
	securityMiddleware *middleware.SecurityMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		authHandler:         authHandler,
		doctorHandler:       doctorHandler,
		appointmentHandler:  appointmentHandler,
		prescriptionHandler: prescriptionHandler,
		sessionMiddleware:   sessionMiddleware,
		roleMiddleware:      roleMiddleware,
		securityMiddleware:  securityMiddleware,
		loggingMiddleware:   loggingMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// Health check, outside of sessions
	r.router.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	app := r.router.PathPrefix("/").Subrouter()
	app.Use(r.securityMiddleware.Handle)
	app.Use(r.sessionMiddleware.Load)
	app.Use(r.loggingMiddleware.Handle)
	app.Use(r.sessionMiddleware.Guard)

	// Entry and auth routes
	app.HandleFunc("/", r.authHandler.Root).Methods(http.MethodGet)
	app.HandleFunc("/logo", r.authHandler.Logo).Methods(http.MethodGet)
	app.HandleFunc("/select-role", r.authHandler.SelectRole).Methods(http.MethodPost)
	app.HandleFunc("/signup/patient", r.authHandler.SignupPatient).Methods(http.MethodPost)
	app.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	app.HandleFunc("/logout/patient", r.authHandler.LogoutPatient).Methods(http.MethodPost)

	login := app.PathPrefix("/login").Subrouter()
	login.Use(r.rateLimitMiddleware.LimitLogin)
	login.HandleFunc("/admin", r.authHandler.LoginAdmin).Methods(http.MethodPost)
	login.HandleFunc("/doctor", r.authHandler.LoginDoctor).Methods(http.MethodPost)
	login.HandleFunc("/patient", r.authHandler.LoginPatient).Methods(http.MethodPost)

	// Admin routes
	admin := app.PathPrefix("/adminDashboard").Subrouter()
	admin.Use(r.roleMiddleware.RequireAdmin)
	admin.HandleFunc("", r.doctorHandler.AdminDashboard).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/filter", r.doctorHandler.FilterDoctors).Methods(http.MethodGet)
	admin.HandleFunc("/doctors", r.doctorHandler.CreateDoctor).Methods(http.MethodPost)
	admin.HandleFunc("/doctors/{id:[0-9]+}/delete", r.doctorHandler.DeleteDoctor).Methods(http.MethodPost)

	// Doctor routes
	doctor := app.PathPrefix("/doctorDashboard").Subrouter()
	doctor.Use(r.roleMiddleware.RequireDoctor)
	doctor.HandleFunc("", r.appointmentHandler.DoctorDashboard).Methods(http.MethodGet)
	doctor.HandleFunc("/appointments", r.appointmentHandler.FilterAppointments).Methods(http.MethodGet)

	pages := app.PathPrefix("/pages").Subrouter()

	// Anonymous patient
	patient := pages.PathPrefix("/patientDashboard").Subrouter()
	patient.Use(r.roleMiddleware.RequireRole(entity.RolePatient))
	patient.HandleFunc("", r.doctorHandler.PatientDashboard).Methods(http.MethodGet)
	patient.HandleFunc("/doctors", r.doctorHandler.FilterDoctors).Methods(http.MethodGet)

	// Logged-in patient
	loggedPatient := pages.NewRoute().Subrouter()
	loggedPatient.Use(r.roleMiddleware.RequireLoggedPatient)
	loggedPatient.HandleFunc("/loggedPatientDashboard", r.doctorHandler.PatientDashboard).Methods(http.MethodGet)
	loggedPatient.HandleFunc("/loggedPatientDashboard/doctors", r.doctorHandler.FilterDoctors).Methods(http.MethodGet)
	loggedPatient.HandleFunc("/booking", r.appointmentHandler.BookingForm).Methods(http.MethodGet)
	loggedPatient.HandleFunc("/booking", r.appointmentHandler.BookAppointment).Methods(http.MethodPost)
	loggedPatient.HandleFunc("/patientAppointments", r.appointmentHandler.PatientAppointments).Methods(http.MethodGet)

	// Shared appointment pages
	record := pages.NewRoute().Subrouter()
	record.Use(r.roleMiddleware.RequireRole(entity.RoleDoctor, entity.RolePatient))
	record.HandleFunc("/patientRecord", r.appointmentHandler.PatientRecord).Methods(http.MethodGet)

	appointment := pages.NewRoute().Subrouter()
	appointment.Use(r.roleMiddleware.RequireRole(entity.RoleDoctor, entity.RoleLoggedPatient))
	appointment.HandleFunc("/updateAppointment", r.appointmentHandler.UpdateAppointmentForm).Methods(http.MethodGet)
	appointment.HandleFunc("/updateAppointment", r.appointmentHandler.UpdateAppointment).Methods(http.MethodPost)
	appointment.HandleFunc("/updateAppointment/delete", r.appointmentHandler.CancelAppointment).Methods(http.MethodPost)
	appointment.HandleFunc("/addPrescription", r.prescriptionHandler.Form).Methods(http.MethodGet)
	appointment.HandleFunc("/addPrescription", r.prescriptionHandler.Save).Methods(http.MethodPost)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
