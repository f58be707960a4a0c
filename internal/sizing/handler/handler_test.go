package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"sevsizer/internal/chart/models"
	measurement "sevsizer/internal/measurement/models"
	"sevsizer/internal/sizing"
	"sevsizer/internal/sizing/mocks"
	"sevsizer/internal/sizing/store/recommendation"
	"sevsizer/pkg/domain"
	"sevsizer/pkg/platform/sentinel"
)

type routerFixture struct {
	router       http.Handler
	charts       *mocks.MockChartProvider
	measurements *mocks.MockMeasurementGetter
}

// newRouter wires the real service and a real in-memory recommendation
// store behind the handler; only the chart and measurement reads are
// mocked.
func newRouter(t *testing.T) routerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	charts := mocks.NewMockChartProvider(ctrl)
	measurements := mocks.NewMockMeasurementGetter(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := sizing.New(charts, measurements, recommendation.NewMemory(), sizing.WithLogger(logger))
	h := New(svc, logger)

	r := chi.NewRouter()
	h.Register(r)
	return routerFixture{router: r, charts: charts, measurements: measurements}
}

func chartFixture() *models.ChartSnapshot {
	snap := &models.ChartSnapshot{ChartID: "default"}
	for n := 0; n < 10; n++ {
		lo := 7.0 + float64(n)
		snap.Rules = append(snap.Rules, models.SizeRule{
			ID:         domain.RuleID(n + 1),
			ChartID:    "default",
			Finger:     models.ScopeAll,
			MinWidthMm: lo,
			MaxWidthMm: lo + 0.96,
			MappedSize: n,
			Active:     true,
		})
	}
	snap.Catalog = []models.CatalogSize{
		{ChartID: "default", SizeNumber: 3, Label: "Size 3 (M)"},
		{ChartID: "default", SizeNumber: 4, Label: "Size 4 (M)"},
	}
	snap.Sets = []models.SizeSet{
		{ID: 1, ChartID: "default", Name: "Almond Nude", Sizes: models.FingerSizes{Thumb: 3, Index: 5, Middle: 4, Ring: 6, Pinky: 9}},
		{ID: 2, ChartID: "default", Name: "Coffin Noir", Sizes: models.FingerSizes{Thumb: 3, Index: 5, Middle: 4, Ring: 6, Pinky: 8}},
	}
	return snap
}

func measurementFixture(id domain.MeasurementID) *measurement.Measurement {
	widths := map[domain.FingerName]float64{
		domain.FingerThumb:  10.5,
		domain.FingerIndex:  12.5,
		domain.FingerMiddle: 11.5,
		domain.FingerRing:   13.5,
		domain.FingerPinky:  15.5,
	}
	fingers := make(map[domain.FingerName]measurement.FingerMeasurement, len(widths))
	for finger, w := range widths {
		fingers[finger] = measurement.FingerMeasurement{
			WidthMm:              w,
			LengthMm:             w * 1.4,
			CurveAdjustedWidthMm: w,
			Confidence:           0.9,
		}
	}
	m := &measurement.Measurement{
		ID:                id,
		Hand:              measurement.HandLeft,
		PhotoType:         measurement.PhotoTypeFull,
		PxPerMm:           12.4,
		Fingers:           fingers,
		OverallConfidence: 0.9,
	}
	return m
}

func postRecommend(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/recommendations", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRecommendWireContract(t *testing.T) {
	fx := newRouter(t)
	measurementID := domain.NewMeasurementID()

	fx.charts.EXPECT().Snapshot(gomock.Any(), domain.ChartID("default")).Return(chartFixture(), nil)
	fx.measurements.EXPECT().Get(gomock.Any(), measurementID).Return(measurementFixture(measurementID), nil)

	// chart_id omitted: the default chart applies.
	rec := postRecommend(t, fx.router, fmt.Sprintf(`{"measurement_id": %q}`, measurementID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	expected := fmt.Sprintf(`{
		"measurement_id": %q,
		"size_profile": "3-5-4-6-8",
		"per_finger": {
			"thumb":  {"size": 3, "size_label": "Size 3 (M)", "width_mm": 10.5, "fit": "standard"},
			"index":  {"size": 5, "size_label": "5",          "width_mm": 12.5, "fit": "standard"},
			"middle": {"size": 4, "size_label": "Size 4 (M)", "width_mm": 11.5, "fit": "standard"},
			"ring":   {"size": 6, "size_label": "6",          "width_mm": 13.5, "fit": "standard"},
			"pinky":  {"size": 8, "size_label": "8",          "width_mm": 15.5, "fit": "standard"}
		},
		"matching_sets": [
			{"set_name": "Coffin Noir", "set_id": "2", "exact_match": true,  "diff": 0},
			{"set_name": "Almond Nude", "set_id": "1", "exact_match": false, "diff": 1}
		]
	}`, measurementID)
	assert.JSONEq(t, expected, rec.Body.String())

	// Exactly the four contractual top-level keys, nothing extra.
	var top map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &top))
	assert.Len(t, top, 4)
}

func TestRecommendValidation(t *testing.T) {
	fx := newRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed body", `{`},
		{"missing measurement_id", `{}`},
		{"malformed measurement_id", `{"measurement_id": "nope"}`},
		{"malformed chart_id", fmt.Sprintf(`{"measurement_id": %q, "chart_id": "NOT A SLUG"}`, domain.NewMeasurementID())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postRecommend(t, fx.router, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "validation_error", body["error"])
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestRecommendUnknownMeasurement(t *testing.T) {
	fx := newRouter(t)
	measurementID := domain.NewMeasurementID()

	fx.charts.EXPECT().Snapshot(gomock.Any(), gomock.Any()).Return(chartFixture(), nil)
	fx.measurements.EXPECT().Get(gomock.Any(), measurementID).Return(nil, sentinel.ErrNotFound)

	rec := postRecommend(t, fx.router, fmt.Sprintf(`{"measurement_id": %q}`, measurementID))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not_found", body["error"])
	assert.Equal(t, "measurement not found", body["message"])
}

func TestRecommendNoRules(t *testing.T) {
	fx := newRouter(t)

	// Empty chart; the measurement mock has no expectations, so a fetch
	// would fail the test.
	fx.charts.EXPECT().Snapshot(gomock.Any(), gomock.Any()).
		Return(&models.ChartSnapshot{ChartID: "default"}, nil)

	rec := postRecommend(t, fx.router, fmt.Sprintf(`{"measurement_id": %q}`, domain.NewMeasurementID()))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "no_rules", body["error"])
}

func TestRecommendationHistoryRoundTrip(t *testing.T) {
	fx := newRouter(t)
	measurementID := domain.NewMeasurementID()

	fx.charts.EXPECT().Snapshot(gomock.Any(), gomock.Any()).Return(chartFixture(), nil).Times(2)
	fx.measurements.EXPECT().Get(gomock.Any(), measurementID).Return(measurementFixture(measurementID), nil).AnyTimes()

	// Re-recommending appends; both runs are kept.
	require.Equal(t, http.StatusOK, postRecommend(t, fx.router, fmt.Sprintf(`{"measurement_id": %q}`, measurementID)).Code)
	require.Equal(t, http.StatusOK, postRecommend(t, fx.router, fmt.Sprintf(`{"measurement_id": %q}`, measurementID)).Code)

	listRec := get(t, fx.router, "/measurements/"+measurementID.String()+"/recommendations")
	require.Equal(t, http.StatusOK, listRec.Code)

	var history []RecordResponse
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &history))
	require.Len(t, history, 2)
	assert.NotEqual(t, history[0].ID, history[1].ID)
	assert.Equal(t, "3-5-4-6-8", history[0].SizeProfile)

	getRec := get(t, fx.router, "/recommendations/"+history[0].ID)
	require.Equal(t, http.StatusOK, getRec.Code)

	var stored RecordResponse
	require.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &stored))
	assert.Equal(t, history[0].ID, stored.ID)
	assert.Equal(t, measurementID.String(), stored.MeasurementID)
	assert.Equal(t, "default", stored.ChartID)
	assert.False(t, stored.CreatedAt.IsZero())
	assert.Equal(t, "Size 3 (M)", stored.PerFinger["thumb"].SizeLabel)
	require.Len(t, stored.MatchingSets, 2)
	assert.Equal(t, "2", stored.MatchingSets[0].SetID)
}

func TestGetRecommendationErrors(t *testing.T) {
	fx := newRouter(t)

	t.Run("malformed id", func(t *testing.T) {
		rec := get(t, fx.router, "/recommendations/banana")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := get(t, fx.router, "/recommendations/"+domain.NewRecommendationID().String())
		require.Equal(t, http.StatusNotFound, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "not_found", body["error"])
	})
}

func TestListForMeasurementUnknown(t *testing.T) {
	fx := newRouter(t)
	measurementID := domain.NewMeasurementID()

	fx.measurements.EXPECT().Get(gomock.Any(), measurementID).Return(nil, sentinel.ErrNotFound)

	rec := get(t, fx.router, "/measurements/"+measurementID.String()+"/recommendations")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
