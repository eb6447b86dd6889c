package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-gradebook/internal/app"
	"github.com/noah-isme/sma-gradebook/internal/repository"
	"github.com/noah-isme/sma-gradebook/pkg/config"
	"github.com/noah-isme/sma-gradebook/pkg/storage"
)

type responseEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta map[string]interface{} `json:"meta"`
}

type gradebookFixture struct {
	gradebook *app.Gradebook
	router    *gin.Engine
}

func newGradebookFixture(t *testing.T, guard MutationGuard) *gradebookFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dataDir, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	exportsDir, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	cfg := &config.Config{
		JWT:       config.JWTConfig{Expiration: time.Hour},
		Gradebook: config.GradebookConfig{Semester: "Fall 2024", StudentIDStart: 10000, ContentSeed: 3},
		Grading: config.GradingConfig{
			HomeworkWeight:      0.3,
			TestsWeight:         0.4,
			ParticipationWeight: 0.2,
			ProjectsWeight:      0.1,
		},
		Statistics: config.StatisticsConfig{CacheTTL: time.Minute},
	}
	gradebook, err := app.New(app.Options{
		Config:  cfg,
		Store:   repository.NewFileSnapshotRepository(dataDir),
		Exports: exportsDir,
	})
	require.NoError(t, err)

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"), Handlers{
		Students:   NewStudentHandler(gradebook.Students, gradebook.Reports),
		Grades:     NewGradeHandler(gradebook.Grades),
		Social:     NewSocialHandler(gradebook.Social),
		Statistics: NewStatisticsHandler(gradebook.Statistics, gradebook.Reports),
		Data:       NewDataHandler(gradebook.Persistence, nil),
		Exports:    NewExportHandler(gradebook.Exports),
		Auth:       NewAuthHandler(gradebook.Auth),
		Metrics:    NewMetricsHandler(gradebook.Metrics),
	}, guard)

	return &gradebookFixture{gradebook: gradebook, router: router}
}

func (f *gradebookFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) responseEnvelope {
	t.Helper()
	var env responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func (f *gradebookFixture) seedSamples(t *testing.T) {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/v1/data/sample", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
}
