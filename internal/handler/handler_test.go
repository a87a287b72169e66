package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"hospital-workflow-api/internal/auth"
	"hospital-workflow-api/internal/booking"
	"hospital-workflow-api/internal/handler"
	"hospital-workflow-api/internal/middleware"
	"hospital-workflow-api/internal/model"
	"hospital-workflow-api/internal/store"
)

type api struct {
	router http.Handler
	store  *store.Store
	secret string
}

type envelope struct {
	OK      bool            `json:"ok"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details"`
}

func setup(t *testing.T) *api {
	t.Helper()
	_ = godotenv.Load("../../.env")
	dbURL := os.Getenv("DATABASE_URL")
	secret := os.Getenv("JWT_SECRET")
	if dbURL == "" || secret == "" {
		t.Skip("DATABASE_URL or JWT_SECRET not set")
	}
	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(pool.Close)

	st := store.New(pool)
	engine := booking.NewService(st, st)
	h := handler.New(st, engine, secret, zerolog.Nop())
	rl := middleware.NewRateLimiter(1000, 1000)
	return &api{router: h.Routes(rl), store: st, secret: secret}
}

func (e *api) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func (e *api) registerUser(t *testing.T) (userID, token string) {
	t.Helper()
	email := fmt.Sprintf("test-%s@test.com", uuid.New().String()[:8])
	rec, env := e.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email": email, "password": "testpass123", "name": "Test User",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		UserID string `json:"userId"`
		Token  string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	return resp.UserID, resp.Token
}

func (e *api) staffToken(t *testing.T) string {
	t.Helper()
	u := &model.User{
		ID:    uuid.New().String(),
		Email: fmt.Sprintf("staff-%s@test.com", uuid.New().String()[:8]),
		Name:  "Staff User",
		Staff: true,
	}
	hash, err := auth.HashPassword("staffpass123")
	if err != nil {
		t.Fatal(err)
	}
	u.PasswordHash = hash
	if err := e.store.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create staff user: %v", err)
	}
	tok, err := auth.MakeToken(u.ID, true, e.secret)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func (e *api) seedDoctor(t *testing.T) string {
	t.Helper()
	d := &model.Doctor{
		ID:        uuid.New().String(),
		Name:      "Dr. Test",
		Specialty: "General",
		Email:     fmt.Sprintf("dr-%s@test.com", uuid.New().String()[:8]),
		WorkingHours: []model.WorkingBlock{
			{Day: "monday", StartTime: "09:00", EndTime: "17:00"},
			{Day: "tuesday", StartTime: "09:00", EndTime: "17:00"},
		},
		SlotsPerHour: 4,
	}
	if err := e.store.CreateDoctor(context.Background(), d); err != nil {
		t.Fatalf("create doctor: %v", err)
	}
	return d.ID
}

func uniqueDate(t *testing.T) string {
	// spread tests across far-future days to avoid cross-test conflicts
	t.Helper()
	return fmt.Sprintf("2999-%02d-%02d", 1+len(t.Name())%12, 1+int(uuid.New()[0])%28)
}

// ----- auth -----

func TestRegisterAndLogin(t *testing.T) {
	e := setup(t)

	email := fmt.Sprintf("test-%s@test.com", uuid.New().String()[:8])
	rec, env := e.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email": email, "password": "testpass123", "name": "Test User",
	})
	if rec.Code != http.StatusCreated || !env.OK {
		t.Fatalf("register: %d %s", rec.Code, rec.Body.String())
	}

	rec, env = e.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": email, "password": "testpass123",
	})
	if rec.Code != http.StatusOK || !env.OK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
	}

	rec, env = e.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": email, "password": "wrongpass",
	})
	if rec.Code != http.StatusUnauthorized || env.Error != "UNAUTHORIZED" {
		t.Fatalf("bad login: %d %s", rec.Code, rec.Body.String())
	}
}

func TestRegisterValidation(t *testing.T) {
	e := setup(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"empty email", map[string]string{"email": "", "password": "testpass123", "name": "X"}},
		{"short password", map[string]string{"email": "a@b.com", "password": "short", "name": "X"}},
		{"empty name", map[string]string{"email": "a@b.com", "password": "testpass123", "name": ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := e.do(t, http.MethodPost, "/v1/auth/register", "", tt.body)
			if rec.Code != http.StatusBadRequest || env.Error != "VALIDATION_ERROR" {
				t.Errorf("got %d %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	e := setup(t)

	email := fmt.Sprintf("test-%s@test.com", uuid.New().String()[:8])
	body := map[string]string{"email": email, "password": "testpass123", "name": "First"}
	if rec, _ := e.do(t, http.MethodPost, "/v1/auth/register", "", body); rec.Code != http.StatusCreated {
		t.Fatalf("first register: %d", rec.Code)
	}
	rec, env := e.do(t, http.MethodPost, "/v1/auth/register", "", body)
	if rec.Code != http.StatusConflict || env.Error != "DUPLICATE_KEY" {
		t.Fatalf("duplicate register: %d %s", rec.Code, rec.Body.String())
	}
}

func TestRefreshRotation(t *testing.T) {
	e := setup(t)

	email := fmt.Sprintf("test-%s@test.com", uuid.New().String()[:8])
	rec, env := e.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email": email, "password": "testpass123", "name": "Test User",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: %d", rec.Code)
	}
	var resp struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatal(err)
	}

	rec, env = e.do(t, http.MethodPost, "/v1/auth/refresh", "", map[string]string{
		"refreshToken": resp.RefreshToken,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh: %d %s", rec.Code, rec.Body.String())
	}
	var rotated struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.Unmarshal(env.Data, &rotated); err != nil {
		t.Fatal(err)
	}

	// old token is revoked after rotation
	rec, _ = e.do(t, http.MethodPost, "/v1/auth/refresh", "", map[string]string{
		"refreshToken": resp.RefreshToken,
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("replayed refresh token: %d", rec.Code)
	}

	// the replay also kills the rotated token
	rec, _ = e.do(t, http.MethodPost, "/v1/auth/refresh", "", map[string]string{
		"refreshToken": rotated.RefreshToken,
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("rotated token survived replay detection: %d", rec.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	e := setup(t)

	rec, env := e.do(t, http.MethodGet, "/v1/appointments", "", nil)
	if rec.Code != http.StatusUnauthorized || env.Error != "UNAUTHORIZED" {
		t.Fatalf("got %d %s", rec.Code, rec.Body.String())
	}

	rec, _ = e.do(t, http.MethodGet, "/v1/appointments", "not-a-jwt", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: %d", rec.Code)
	}
}

// ----- appointments -----

func apptBody(doctorID, date, start, end string) map[string]string {
	return map[string]string{
		"patientId": uuid.New().String(),
		"doctorId":  doctorID,
		"date":      date,
		"startTime": start,
		"endTime":   end,
		"reason":    "Routine check",
	}
}

func TestAppointmentLifecycle(t *testing.T) {
	e := setup(t)
	_, token := e.registerUser(t)
	doctorID := e.seedDoctor(t)
	date := uniqueDate(t)

	// book
	rec, env := e.do(t, http.MethodPost, "/v1/appointments", token, apptBody(doctorID, date, "10:00", "11:00"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	var appt model.Appointment
	if err := json.Unmarshal(env.Data, &appt); err != nil {
		t.Fatal(err)
	}
	if appt.Status != model.StatusBooked {
		t.Errorf("status = %s", appt.Status)
	}

	// overlapping second booking
	rec, env = e.do(t, http.MethodPost, "/v1/appointments", token, apptBody(doctorID, date, "10:30", "11:30"))
	if rec.Code != http.StatusConflict || env.Error != "CONFLICT_SLOT" {
		t.Fatalf("conflict: %d %s", rec.Code, rec.Body.String())
	}

	// list
	rec, env = e.do(t, http.MethodGet, "/v1/appointments?doctorId="+doctorID+"&page=1&limit=10", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: %d %s", rec.Code, rec.Body.String())
	}
	var page booking.Page
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 1 || page.Total != 1 {
		t.Fatalf("list: %d items total %d", len(page.Items), page.Total)
	}

	// reschedule onto a free slot
	rec, env = e.do(t, http.MethodPatch, "/v1/appointments/"+appt.ID, token, map[string]string{
		"startTime": "14:00", "endTime": "15:00",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("reschedule: %d %s", rec.Code, rec.Body.String())
	}
	var updated model.Appointment
	if err := json.Unmarshal(env.Data, &updated); err != nil {
		t.Fatal(err)
	}
	if updated.Status != model.StatusRescheduled {
		t.Errorf("status after reschedule = %s", updated.Status)
	}

	// cancel (soft delete)
	rec, env = e.do(t, http.MethodDelete, "/v1/appointments/"+appt.ID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel: %d %s", rec.Code, rec.Body.String())
	}
	var cancelled model.Appointment
	if err := json.Unmarshal(env.Data, &cancelled); err != nil {
		t.Fatal(err)
	}
	if cancelled.Status != model.StatusCancelled || cancelled.CancelledAt == nil {
		t.Fatalf("not cancelled: %+v", cancelled)
	}

	// still retrievable
	rec, _ = e.do(t, http.MethodGet, "/v1/appointments/"+appt.ID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get after cancel: %d", rec.Code)
	}
}

func TestAppointmentPastDate(t *testing.T) {
	e := setup(t)
	_, token := e.registerUser(t)
	doctorID := e.seedDoctor(t)

	rec, env := e.do(t, http.MethodPost, "/v1/appointments", token, apptBody(doctorID, "2001-01-01", "10:00", "11:00"))
	if rec.Code != http.StatusBadRequest || env.Error != "PAST_DATE" {
		t.Fatalf("got %d %s", rec.Code, rec.Body.String())
	}
}

func TestAppointmentOwnership(t *testing.T) {
	e := setup(t)
	_, owner := e.registerUser(t)
	_, stranger := e.registerUser(t)
	staff := e.staffToken(t)
	doctorID := e.seedDoctor(t)

	rec, env := e.do(t, http.MethodPost, "/v1/appointments", owner, apptBody(doctorID, uniqueDate(t), "09:00", "09:30"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	var appt model.Appointment
	if err := json.Unmarshal(env.Data, &appt); err != nil {
		t.Fatal(err)
	}

	rec, env = e.do(t, http.MethodGet, "/v1/appointments/"+appt.ID, stranger, nil)
	if rec.Code != http.StatusNotFound || env.Error != "NOT_FOUND" {
		t.Fatalf("stranger get: %d %s", rec.Code, rec.Body.String())
	}
	if rec, _ := e.do(t, http.MethodGet, "/v1/appointments/"+appt.ID, staff, nil); rec.Code != http.StatusOK {
		t.Fatalf("staff get: %d", rec.Code)
	}
}

func TestAppointmentInvalidID(t *testing.T) {
	e := setup(t)
	_, token := e.registerUser(t)

	rec, env := e.do(t, http.MethodGet, "/v1/appointments/garbage", token, nil)
	if rec.Code != http.StatusBadRequest || env.Error != "INVALID_ID" {
		t.Fatalf("got %d %s", rec.Code, rec.Body.String())
	}
}

// ----- doctors / availability -----

func TestListDoctors(t *testing.T) {
	e := setup(t)
	_, token := e.registerUser(t)
	doctorID := e.seedDoctor(t)

	rec, env := e.do(t, http.MethodGet, "/v1/doctors", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list doctors: %d %s", rec.Code, rec.Body.String())
	}
	var docs []struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Specialty string `json:"specialty"`
	}
	if err := json.Unmarshal(env.Data, &docs); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, d := range docs {
		if d.ID == doctorID {
			found = true
			if d.Name != "Dr. Test" || d.Specialty != "General" {
				t.Fatalf("unexpected doctor: %+v", d)
			}
		}
	}
	if !found {
		t.Fatalf("seeded doctor missing from list of %d", len(docs))
	}
}

func TestAvailabilityEndpoint(t *testing.T) {
	e := setup(t)
	_, token := e.registerUser(t)
	doctorID := e.seedDoctor(t)

	// 2999-08-05 is a Monday
	rec, env := e.do(t, http.MethodGet, "/v1/doctors/"+doctorID+"/availability?date=2999-08-05", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("availability: %d %s", rec.Code, rec.Body.String())
	}
	var data struct {
		Slots []string `json:"slots"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if len(data.Slots) == 0 || data.Slots[0] != "09:00" {
		t.Fatalf("unexpected slots: %v", data.Slots)
	}

	rec, env = e.do(t, http.MethodGet, "/v1/doctors/"+doctorID+"/availability?date=bad", token, nil)
	if rec.Code != http.StatusBadRequest || env.Error != "INVALID_DATE" {
		t.Fatalf("bad date: %d %s", rec.Code, rec.Body.String())
	}

	rec, env = e.do(t, http.MethodGet, "/v1/doctors/nope/availability?date=2999-08-05", token, nil)
	if rec.Code != http.StatusBadRequest || env.Error != "INVALID_DOCTOR" {
		t.Fatalf("bad doctor: %d %s", rec.Code, rec.Body.String())
	}

	rec, env = e.do(t, http.MethodGet, "/v1/doctors/"+uuid.New().String()+"/availability?date=2999-08-05", token, nil)
	if rec.Code != http.StatusNotFound || env.Error != "NOT_FOUND" {
		t.Fatalf("unknown doctor: %d %s", rec.Code, rec.Body.String())
	}
}

// ----- patients / records -----

func TestPatientProfileAndRecords(t *testing.T) {
	e := setup(t)
	_, token := e.registerUser(t)
	staff := e.staffToken(t)
	doctorID := e.seedDoctor(t)

	rec, env := e.do(t, http.MethodPost, "/v1/patients", token, map[string]string{
		"name": "Patient Zero", "email": "p0@test.com", "phone": "1234567890",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("patient register: %d %s", rec.Code, rec.Body.String())
	}
	var p model.Patient
	if err := json.Unmarshal(env.Data, &p); err != nil {
		t.Fatal(err)
	}

	if rec, _ := e.do(t, http.MethodGet, "/v1/patients/me", token, nil); rec.Code != http.StatusOK {
		t.Fatalf("profile: %d", rec.Code)
	}

	// non-staff cannot write records
	recBody := map[string]string{
		"patientId": p.ID, "doctorId": doctorID, "diagnosis": "Flu", "notes": "rest",
	}
	if rec, _ := e.do(t, http.MethodPost, "/v1/medical-records", token, recBody); rec.Code != http.StatusNotFound {
		t.Fatalf("non-staff record create: %d", rec.Code)
	}
	if rec, _ := e.do(t, http.MethodPost, "/v1/medical-records", staff, recBody); rec.Code != http.StatusCreated {
		t.Fatalf("staff record create: %d", rec.Code)
	}

	// owner reads own records without naming a patient id
	rec, env = e.do(t, http.MethodGet, "/v1/medical-records", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list records: %d %s", rec.Code, rec.Body.String())
	}
	var recs []model.MedicalRecord
	if err := json.Unmarshal(env.Data, &recs); err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
}
