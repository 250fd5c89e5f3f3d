package http

import (
	"net/http"

	"healthcare-appointment-api/internal/delivery/http/handler"
	"healthcare-appointment-api/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	authHandler        *handler.AuthHandler
	doctorHandler      *handler.DoctorHandler
	appointmentHandler *handler.AppointmentHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	doctorHandler *handler.DoctorHandler,
	appointmentHandler *handler.AppointmentHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		authHandler:        authHandler,
		doctorHandler:      doctorHandler,
		appointmentHandler: appointmentHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Every request passes the authentication gate; role policy is declared
	// per route below.
	api.Use(r.authMiddleware.Authenticate)

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)

	// Doctor directory
	api.Handle("/doctors", middleware.RequireDoctor(http.HandlerFunc(r.doctorHandler.CreateProfile))).Methods(http.MethodPost)
	api.Handle("/doctors", middleware.RequirePatientOrDoctor(http.HandlerFunc(r.doctorHandler.List))).Methods(http.MethodGet)
	api.Handle("/doctors/{id}", middleware.RequirePatientOrDoctor(http.HandlerFunc(r.doctorHandler.Get))).Methods(http.MethodGet)
	api.Handle("/doctors/{id}", middleware.RequireDoctor(http.HandlerFunc(r.doctorHandler.Update))).Methods(http.MethodPut)

	// Appointments
	api.Handle("/appointments", middleware.RequirePatient(http.HandlerFunc(r.appointmentHandler.Book))).Methods(http.MethodPost)
	api.Handle("/appointments", middleware.RequirePatientOrDoctor(http.HandlerFunc(r.appointmentHandler.List))).Methods(http.MethodGet)
	api.Handle("/appointments/{id}", middleware.RequirePatient(http.HandlerFunc(r.appointmentHandler.Cancel))).Methods(http.MethodDelete)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
