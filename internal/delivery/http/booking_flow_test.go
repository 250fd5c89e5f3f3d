package http

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"healthcare-appointment-api/config"
	"healthcare-appointment-api/internal/delivery/dto"
	"healthcare-appointment-api/internal/delivery/http/handler"
	"healthcare-appointment-api/internal/delivery/http/middleware"
	"healthcare-appointment-api/internal/domain/entity"
	"healthcare-appointment-api/internal/mocks"
	"healthcare-appointment-api/internal/service"
	"healthcare-appointment-api/internal/usecase"
	"healthcare-appointment-api/pkg/jwt"
	"healthcare-appointment-api/pkg/validator"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testAPI wires the full HTTP stack against in-memory storage, so requests
// cross the real router, middleware, handlers and usecases.
type testAPI struct {
	router *mux.Router
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	tokenService, err := jwt.NewTokenService(config.JWTConfig{
		Secret: base64.StdEncoding.EncodeToString([]byte("booking-flow-test-signing-key")),
		Expiry: time.Hour,
	})
	require.NoError(t, err)

	customValidator := validator.NewValidator()

	userRepo := mocks.NewMemoryUserRepository()
	doctorRepo := mocks.NewMemoryDoctorRepository()
	appointmentRepo := mocks.NewMemoryAppointmentRepository()
	auditRepo := mocks.NewMemoryAuditLogRepository()

	auditService := service.NewAuditService(log, auditRepo)
	slots := mocks.NewMemorySlotReserver()

	authUsecase := usecase.NewAuthUsecase(log, userRepo, tokenService, auditService)
	doctorUsecase := usecase.NewDoctorUsecase(log, doctorRepo, auditService)
	appointmentUsecase := usecase.NewAppointmentUsecase(log, doctorRepo, appointmentRepo, slots, auditService)

	router := NewRouter(
		handler.NewAuthHandler(authUsecase, customValidator),
		handler.NewDoctorHandler(doctorUsecase, customValidator),
		handler.NewAppointmentHandler(appointmentUsecase, customValidator),
		middleware.NewAuthMiddleware(tokenService, authUsecase, log),
		middleware.NewCORSMiddleware(),
	)

	return &testAPI{router: router.Setup()}
}

func (api *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, target interface{}) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, "expected a success envelope, got: %s", rec.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, target))
}

func (api *testAPI) register(t *testing.T, username string, roles ...string) *dto.AuthResponse {
	t.Helper()

	rec := api.do(t, http.MethodPost, "/api/v1/auth/register", "", dto.RegisterRequest{
		Username: username,
		Password: "password123",
		Roles:    roles,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var auth dto.AuthResponse
	decodeData(t, rec, &auth)
	return &auth
}

func TestBookingFlow(t *testing.T) {
	api := newTestAPI(t)

	alice := api.register(t, "alice")
	assert.Equal(t, []string{"ROLE_PATIENT"}, alice.Roles)

	bob := api.register(t, "bob", "doctor")
	assert.Equal(t, []string{"ROLE_DOCTOR"}, bob.Roles)

	// Bob publishes a doctor profile
	rec := api.do(t, http.MethodPost, "/api/v1/doctors", bob.Token, dto.CreateDoctorRequest{
		Name:      "Dr. Bob",
		Specialty: "Cardiology",
		Contact:   "bob@clinic.example",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var doctor dto.DoctorResponse
	decodeData(t, rec, &doctor)

	// Alice finds him in the directory
	rec = api.do(t, http.MethodGet, "/api/v1/doctors?specialty=Cardiology", alice.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var doctors dto.DoctorListResponse
	decodeData(t, rec, &doctors)
	require.Equal(t, 1, doctors.Total)
	assert.Equal(t, doctor.ID, doctors.Doctors[0].ID)

	// Alice books a slot
	slot := "2026-09-01T10:00:00Z"
	rec = api.do(t, http.MethodPost, "/api/v1/appointments", alice.Token, dto.BookAppointmentRequest{
		DoctorID:        doctor.ID.String(),
		AppointmentTime: slot,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var booked dto.AppointmentResponse
	decodeData(t, rec, &booked)
	assert.Equal(t, "PENDING", booked.Status)
	require.NotNil(t, booked.Doctor)
	assert.Equal(t, "Dr. Bob", booked.Doctor.Name)

	// The same slot is gone for everyone else
	carol := api.register(t, "carol")
	rec = api.do(t, http.MethodPost, "/api/v1/appointments", carol.Token, dto.BookAppointmentRequest{
		DoctorID:        doctor.ID.String(),
		AppointmentTime: slot,
	})
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	// Alice sees her booking, bob sees it from the doctor side
	for _, token := range []string{alice.Token, bob.Token} {
		rec = api.do(t, http.MethodGet, "/api/v1/appointments", token, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var list dto.AppointmentListResponse
		decodeData(t, rec, &list)
		require.Equal(t, 1, list.Total)
		assert.Equal(t, booked.ID, list.Appointments[0].ID)
	}

	// Carol has nothing booked
	rec = api.do(t, http.MethodGet, "/api/v1/appointments", carol.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var carolList dto.AppointmentListResponse
	decodeData(t, rec, &carolList)
	assert.Zero(t, carolList.Total)

	// Alice cancels; the slot becomes bookable again
	rec = api.do(t, http.MethodDelete, "/api/v1/appointments/"+booked.ID.String(), alice.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(t, http.MethodPost, "/api/v1/appointments", carol.Token, dto.BookAppointmentRequest{
		DoctorID:        doctor.ID.String(),
		AppointmentTime: slot,
	})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestBookingFlowAuthorization(t *testing.T) {
	api := newTestAPI(t)

	alice := api.register(t, "alice")
	bob := api.register(t, "bob", "doctor")

	rec := api.do(t, http.MethodPost, "/api/v1/doctors", bob.Token, dto.CreateDoctorRequest{
		Name:      "Dr. Bob",
		Specialty: "Cardiology",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var doctor dto.DoctorResponse
	decodeData(t, rec, &doctor)

	t.Run("anonymous requests are rejected by the role gate", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/api/v1/appointments", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("patients cannot create doctor profiles", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/api/v1/doctors", alice.Token, dto.CreateDoctorRequest{
			Name:      "Dr. Alice",
			Specialty: "Dermatology",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("doctors cannot book appointments", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/api/v1/appointments", bob.Token, dto.BookAppointmentRequest{
			DoctorID:        doctor.ID.String(),
			AppointmentTime: "2026-09-01T10:00:00Z",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("only the profile owner may update it", func(t *testing.T) {
		mallory := api.register(t, "mallory", "doctor")
		rec := api.do(t, http.MethodPut, "/api/v1/doctors/"+doctor.ID.String(), mallory.Token, dto.UpdateDoctorRequest{
			Name: "Dr. Mallory",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("token for a deleted user is unauthorized", func(t *testing.T) {
		// A structurally valid token whose subject is unknown
		orphanService, err := jwt.NewTokenService(config.JWTConfig{
			Secret: base64.StdEncoding.EncodeToString([]byte("booking-flow-test-signing-key")),
			Expiry: time.Hour,
		})
		require.NoError(t, err)
		token, err := orphanService.Issue("ghost", entity.RolePatient)
		require.NoError(t, err)

		rec := api.do(t, http.MethodGet, "/api/v1/appointments", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("login returns a usable token", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{
			Username: "alice",
			Password: "password123",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		var auth dto.AuthResponse
		decodeData(t, rec, &auth)

		rec = api.do(t, http.MethodGet, "/api/v1/doctors", auth.Token, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("bad credentials are unauthorized", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{
			Username: "alice",
			Password: "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
