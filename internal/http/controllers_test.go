package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/petadoption/internal/apperrors"
	"github.com/mrlokans/petadoption/internal/auth"
	"github.com/mrlokans/petadoption/internal/database/audit"
	"github.com/mrlokans/petadoption/internal/entities"
	"github.com/mrlokans/petadoption/internal/shelter"
)

type mockShelter struct {
	pets       []entities.Pet
	adoptions  []entities.Adoption
	events     []entities.AuditEvent
	err        error
	lastInput  shelter.PetInput
	uploadBody string
	petID      uint
	notes      string
	filter     audit.EventFilter
	session    *auth.Session
}

func (m *mockShelter) ListAvailablePets(ctx context.Context) ([]entities.Pet, error) {
	return m.pets, m.err
}

func (m *mockShelter) SubmitAdoption(ctx context.Context, s *auth.Session, petID uint, notes string) (*entities.Adoption, error) {
	m.session, m.petID, m.notes = s, petID, notes
	if m.err != nil {
		return nil, m.err
	}
	return &entities.Adoption{ID: 1, UserID: s.UserID, PetID: petID, Status: entities.AdoptionStatusPending, Notes: notes}, nil
}

func (m *mockShelter) ListMyAdoptions(ctx context.Context, s *auth.Session) ([]entities.Adoption, error) {
	m.session = s
	return m.adoptions, m.err
}

func (m *mockShelter) ListAllPets(ctx context.Context, s *auth.Session) ([]entities.Pet, error) {
	m.session = s
	return m.pets, m.err
}

func (m *mockShelter) AddPet(ctx context.Context, s *auth.Session, in shelter.PetInput) (*entities.Pet, error) {
	m.session, m.lastInput = s, in
	if in.Upload != nil {
		data, _ := io.ReadAll(in.Upload.Body)
		m.uploadBody = string(data)
	}
	if m.err != nil {
		return nil, m.err
	}
	return &entities.Pet{ID: 10, Name: in.Name, Status: entities.PetStatusAvailable}, nil
}

func (m *mockShelter) DeletePet(ctx context.Context, s *auth.Session, id uint) error {
	m.session, m.petID = s, id
	return m.err
}

func (m *mockShelter) ListAllAdoptions(ctx context.Context, s *auth.Session) ([]entities.Adoption, error) {
	m.session = s
	return m.adoptions, m.err
}

func (m *mockShelter) DashboardStats(ctx context.Context, s *auth.Session) (*entities.DashboardStats, error) {
	m.session = s
	if m.err != nil {
		return nil, m.err
	}
	return &entities.DashboardStats{TotalPets: 6, AvailablePets: 5, AdoptedPets: 1, TotalAdoptions: 1}, nil
}

func (m *mockShelter) ListAuditEvents(ctx context.Context, s *auth.Session, f audit.EventFilter) ([]entities.AuditEvent, int64, error) {
	m.session, m.filter = s, f
	return m.events, int64(len(m.events)) + 10, m.err
}

var testUser = &auth.Session{UserID: 2, Username: "alice"}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPetsController_ListAvailable(t *testing.T) {
	svc := &mockShelter{pets: []entities.Pet{{ID: 1, Name: "Max"}, {ID: 2, Name: "Luna"}}}
	router := gin.New()
	router.GET("/api/pets", NewPetsController(svc, zerolog.Nop()).ListAvailable)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/api/pets", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var pets []entities.Pet
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pets))
	assert.Len(t, pets, 2)
	assert.Equal(t, "Max", pets[0].Name)
}

func TestPetsController_Adopt(t *testing.T) {
	svc := &mockShelter{}
	router := gin.New()
	router.Use(func(c *gin.Context) { c.Set(auth.ContextKeySession, testUser) })
	router.POST("/api/pets/:id/adopt", NewPetsController(svc, zerolog.Nop()).Adopt)

	req := httptest.NewRequest(http.MethodPost, "/api/pets/3/adopt", strings.NewReader(`{"notes":"big yard"}`))
	req.Header.Set("Content-Type", "application/json")
	w := serve(router, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, uint(3), svc.petID)
	assert.Equal(t, "big yard", svc.notes)
	assert.Equal(t, testUser, svc.session)
	assert.Contains(t, w.Body.String(), `"status":"PENDING"`)
}

func TestPetsController_Adopt_WithoutBody(t *testing.T) {
	svc := &mockShelter{}
	router := gin.New()
	router.Use(func(c *gin.Context) { c.Set(auth.ContextKeySession, testUser) })
	router.POST("/api/pets/:id/adopt", NewPetsController(svc, zerolog.Nop()).Adopt)

	w := serve(router, httptest.NewRequest(http.MethodPost, "/api/pets/3/adopt", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, svc.notes)
}

func TestPetsController_Adopt_Errors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		err        error
		wantStatus int
	}{
		{"invalid id", "/api/pets/abc/adopt", nil, http.StatusBadRequest},
		{"already adopted", "/api/pets/1/adopt", apperrors.ErrPetNotAvailable, http.StatusConflict},
		{"unknown pet", "/api/pets/99/adopt", apperrors.NotFound("pet", 99), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockShelter{err: tt.err}
			router := gin.New()
			router.POST("/api/pets/:id/adopt", NewPetsController(svc, zerolog.Nop()).Adopt)

			w := serve(router, httptest.NewRequest(http.MethodPost, tt.path, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAdminController_AddPet_JSON(t *testing.T) {
	svc := &mockShelter{}
	router := gin.New()
	router.POST("/api/admin/pets", NewAdminController(svc, zerolog.Nop()).AddPet)

	body := `{"name":"Rex","species":"Dog","age":"2","gender":"Male","size":"Medium",` +
		`"description":"A good boy","image_source":"https://example.com/rex.jpg"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/pets", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := serve(router, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Rex", svc.lastInput.Name)
	assert.Equal(t, "2", svc.lastInput.Age)
	assert.Equal(t, "https://example.com/rex.jpg", svc.lastInput.ImageSource)
	assert.Nil(t, svc.lastInput.Upload)
}

func TestAdminController_AddPet_Multipart(t *testing.T) {
	svc := &mockShelter{}
	router := gin.New()
	router.POST("/api/admin/pets", NewAdminController(svc, zerolog.Nop()).AddPet)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"name": "Whiskers", "species": "Cat", "age": "4", "gender": "Female",
		"size": "Small", "description": "Sleeps a lot",
	} {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("image", "whiskers.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/pets", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := serve(router, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Whiskers", svc.lastInput.Name)
	assert.Equal(t, "Cat", svc.lastInput.Species)
	require.NotNil(t, svc.lastInput.Upload)
	assert.Equal(t, "whiskers.png", svc.lastInput.Upload.Filename)
	assert.Equal(t, "png bytes", svc.uploadBody)
}

func TestAdminController_AddPet_RejectsLocalImageSource(t *testing.T) {
	for _, source := range []string{"/var/lib/petadoption/pet-adoption.db", "./pet-adoption.db", "file:///etc/passwd"} {
		t.Run(source, func(t *testing.T) {
			svc := &mockShelter{}
			router := gin.New()
			router.POST("/api/admin/pets", NewAdminController(svc, zerolog.Nop()).AddPet)

			body := `{"name":"Rex","species":"Dog","age":"2","gender":"Male","size":"Medium",` +
				`"description":"A good boy","image_source":"` + source + `"}`
			req := httptest.NewRequest(http.MethodPost, "/api/admin/pets", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := serve(router, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"field":"image"`)
			assert.Empty(t, svc.lastInput.Name, "service is not called")
		})
	}
}

func TestAdminController_AddPet_ValidationError(t *testing.T) {
	svc := &mockShelter{err: apperrors.Invalid("age", "must be a whole number")}
	router := gin.New()
	router.POST("/api/admin/pets", NewAdminController(svc, zerolog.Nop()).AddPet)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/pets", strings.NewReader(`{"name":"Rex","age":"two"}`))
	req.Header.Set("Content-Type", "application/json")
	w := serve(router, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"age"`)
}

func TestAdminController_AddPet_MalformedJSON(t *testing.T) {
	svc := &mockShelter{}
	router := gin.New()
	router.POST("/api/admin/pets", NewAdminController(svc, zerolog.Nop()).AddPet)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/pets", strings.NewReader(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	w := serve(router, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.lastInput.Name)
}

func TestAdminController_DeletePet(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"deleted", nil, http.StatusOK},
		{"not found", apperrors.NotFound("pet", 5), http.StatusNotFound},
		{"has adoptions", apperrors.ErrPetHasAdoptions, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockShelter{err: tt.err}
			router := gin.New()
			router.DELETE("/api/admin/pets/:id", NewAdminController(svc, zerolog.Nop()).DeletePet)

			w := serve(router, httptest.NewRequest(http.MethodDelete, "/api/admin/pets/5", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, uint(5), svc.petID)
		})
	}
}

func TestAdminController_Stats(t *testing.T) {
	router := gin.New()
	router.GET("/api/admin/stats", NewAdminController(&mockShelter{}, zerolog.Nop()).Stats)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var stats entities.DashboardStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(6), stats.TotalPets)
	assert.Equal(t, int64(1), stats.TotalAdoptions)
}

func TestAuditController_GetAuditEvents(t *testing.T) {
	svc := &mockShelter{events: []entities.AuditEvent{{ID: 1, Action: "login"}}}
	router := gin.New()
	router.GET("/api/admin/audit", NewAuditController(svc, zerolog.Nop()).GetAuditEvents)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/api/admin/audit?limit=5&offset=2&type=auth&user_id=7", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, audit.EventFilter{UserID: 7, EventType: entities.AuditEventAuth, Limit: 5, Offset: 2}, svc.filter)

	var resp struct {
		Total   int64 `json:"total"`
		HasMore bool  `json:"has_more"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(11), resp.Total)
	assert.True(t, resp.HasMore)
}

func TestAuditController_LimitBounds(t *testing.T) {
	svc := &mockShelter{}
	router := gin.New()
	router.GET("/api/admin/audit", NewAuditController(svc, zerolog.Nop()).GetAuditEvents)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/api/admin/audit?limit=1000", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, defaultAuditLimit, svc.filter.Limit)

	w = serve(router, httptest.NewRequest(http.MethodGet, "/api/admin/audit?offset=-1", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_SecurityHeaders(t *testing.T) {
	router := NewRouter(RouterConfig{Shelter: &mockShelter{}, Logger: zerolog.Nop()})

	w := serve(router, httptest.NewRequest(http.MethodGet, "/api/pets", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
