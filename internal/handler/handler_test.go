package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quotation/internal/artifact"
	"quotation/internal/model"
	"quotation/internal/quotation"
	"quotation/internal/regressor"
	"quotation/internal/service"

	"github.com/gin-gonic/gin"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T, cost float64, allowUnknown bool) *gin.Engine {
	t.Helper()
	columns := []string{
		"floor_area_m2", "rooms", "lighting_points", "socket_points",
		"state_Lagos", "state_Kwara", "building_type_Residential", "labour_type_Standard",
	}
	schema, err := quotation.NewFeatureSchema(columns)
	if err != nil {
		t.Fatalf("NewFeatureSchema() error = %v", err)
	}
	stub, err := regressor.NewStub(regressor.StubSpec{Cost: cost}, len(columns), quietLogger)
	if err != nil {
		t.Fatalf("NewStub() error = %v", err)
	}
	predictor, err := quotation.NewPredictor(schema, stub)
	if err != nil {
		t.Fatalf("NewPredictor() error = %v", err)
	}
	engine := quotation.NewEngine(quotation.FullVariant(), predictor, allowUnknown)
	svc := service.NewQuotationService(engine, quotation.NewFormatter("₦", "en"), "stub", quietLogger)
	h := NewQuotationHandler(svc)

	router := gin.New()
	api := router.Group("/api/v1")
	api.POST("/quotations", h.Create)
	api.POST("/quotations/stream", h.CreateStream)
	api.GET("/variants", h.Variants)
	api.GET("/schema", h.Schema)
	return router
}

func postJSON(router http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const lagosBody = `{
	"state": "Lagos",
	"building_type": "Residential",
	"labour_type": "Standard",
	"floor_area_m2": 100,
	"rooms": 3,
	"lighting_points": 10,
	"socket_points": 8,
	"client_name": "Ada"
}`

func TestCreateQuotation(t *testing.T) {
	router := newRouter(t, 1_000_000, false)

	w := postJSON(router, "/api/v1/quotations", lagosBody)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp model.QuoteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Formatted.Total != "₦1,150,000.00" || resp.Formatted.Materials != "₦747,500.00" || resp.Formatted.Labour != "₦402,500.00" {
		t.Errorf("Formatted = %+v", resp.Formatted)
	}
	if resp.ClientName != "Ada" || resp.QuoteID == "" {
		t.Errorf("response = %+v", resp)
	}
}

func TestCreateQuotationErrors(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		allowUnknown bool
		wantStatus   int
	}{
		{name: "Malformed JSON", body: `{`, wantStatus: http.StatusBadRequest},
		{name: "Missing state", body: `{"building_type":"Residential","labour_type":"Standard","floor_area_m2":100,"rooms":1,"lighting_points":1,"socket_points":1}`, wantStatus: http.StatusBadRequest},
		{name: "Zero floor area", body: strings.Replace(lagosBody, `"floor_area_m2": 100`, `"floor_area_m2": 0`, 1), wantStatus: http.StatusBadRequest},
		{name: "Zero rooms", body: strings.Replace(lagosBody, `"rooms": 3`, `"rooms": 0`, 1), wantStatus: http.StatusBadRequest},
		{name: "Unknown region", body: strings.Replace(lagosBody, "Lagos", "Kano", 1), wantStatus: http.StatusBadRequest},
		{name: "Unknown region allowed", body: strings.Replace(lagosBody, "Lagos", "Kano", 1), allowUnknown: true, wantStatus: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(t, 1_000_000, tt.allowUnknown)
			w := postJSON(router, "/api/v1/quotations", tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d, body = %s", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "Unknown region", err: &quotation.UnknownRegionError{Region: "Kano"}, want: http.StatusBadRequest},
		{name: "Invalid cost", err: &quotation.InvalidCostError{Stage: "breakdown"}, want: http.StatusUnprocessableEntity},
		{name: "Prediction", err: &quotation.PredictionError{Reason: "boom"}, want: http.StatusInternalServerError},
		{name: "Schema", err: &quotation.SchemaMismatchError{Reason: "empty"}, want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCreateStream(t *testing.T) {
	router := newRouter(t, 1_000_000, false)

	w := postJSON(router, "/api/v1/quotations/stream", lagosBody)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, event := range []string{"start", "normalized", "estimate", "drivers", "quote", "done"} {
		if !strings.Contains(body, "event: "+event+"\n") {
			t.Errorf("stream missing %q event:\n%s", event, body)
		}
	}
}

func TestVariantsAndSchemaEndpoints(t *testing.T) {
	router := newRouter(t, 1, false)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/variants", nil))
	var variants struct {
		Variants []model.VariantResponse `json:"variants"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &variants); err != nil || len(variants.Variants) != 2 {
		t.Fatalf("variants = %s (%v)", w.Body.String(), err)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/schema", nil))
	var schema model.SchemaResponse
	if err := json.Unmarshal(w.Body.Bytes(), &schema); err != nil {
		t.Fatalf("invalid schema response: %v", err)
	}
	if len(schema.Columns) != 8 || schema.Model != "stub" {
		t.Errorf("schema = %+v", schema)
	}
}

type memoryStore struct {
	saved []model.ModelArtifact
	err   error
}

func (s *memoryStore) SaveArtifact(_ context.Context, rec *model.ModelArtifact, _ []float64) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.saved = append(s.saved, *rec)
	return int64(len(s.saved)), nil
}

func (s *memoryStore) ListArtifacts(_ context.Context) ([]model.ModelArtifact, error) {
	return s.saved, s.err
}

func TestArtifactPublish(t *testing.T) {
	doc := artifact.Document{
		Name:           "served",
		Kind:           artifact.KindStub,
		FeatureColumns: []string{"floor_area_m2", "rooms"},
		Stub:           &regressor.StubSpec{Cost: 5},
	}
	valid, _ := json.Marshal(doc)
	doc.FeatureColumns = nil
	invalid, _ := json.Marshal(doc)

	tests := []struct {
		name       string
		body       []byte
		storeErr   error
		wantStatus int
	}{
		{name: "Valid", body: valid, wantStatus: http.StatusCreated},
		{name: "Invalid document", body: invalid, wantStatus: http.StatusBadRequest},
		{name: "Store failure", body: valid, storeErr: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memoryStore{err: tt.storeErr}
			h := NewArtifactHandler(store, artifact.Options{DefaultVariant: "full", Logger: quietLogger})
			router := gin.New()
			router.POST("/api/v1/artifacts", h.Publish)
			router.GET("/api/v1/artifacts", h.List)

			w := postJSON(router, "/api/v1/artifacts", string(tt.body))
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body = %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus != http.StatusCreated {
				return
			}

			w = httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/artifacts", bytes.NewReader(nil)))
			if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"served"`) {
				t.Errorf("list = %d %s", w.Code, w.Body.String())
			}
		})
	}
}
