package scene_audio_analysis_api_controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/riddim-exe/riddim/api/view"
	"github.com/riddim-exe/riddim/domain"
	"github.com/riddim-exe/riddim/domain/domain_file_entity/scene_audio/scene_audio_analysis/scene_audio_analysis_models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testAnalysis = &scene_audio_analysis_models.AudioAnalysis{
	ID:   primitive.NewObjectID(),
	Name: "Metre_Fault_Line.mp3",
	Features: []scene_audio_analysis_models.FeatureValue{
		{Name: "Tempo (BPM)", Value: 117.453},
		{Name: "Avg RMS", Value: 0.1234},
	},
}

type fakeAnalysisUsecase struct {
	defaultMissing bool
	uploadedName   string
	uploaded       []byte
	err            error
}

func (f *fakeAnalysisUsecase) DefaultFile() (string, string, error) {
	if f.defaultMissing {
		return "Metre_Fault_Line.mp3", "music_files/Metre_Fault_Line.mp3", domain.ErrDefaultFileNotFound
	}
	return "Metre_Fault_Line.mp3", "music_files/Metre_Fault_Line.mp3", nil
}

func (f *fakeAnalysisUsecase) AnalyzeUpload(_ context.Context, name string, r io.Reader) (*scene_audio_analysis_models.AudioAnalysis, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.uploadedName = name
	f.uploaded, _ = io.ReadAll(r)
	a := *testAnalysis
	a.Name = name
	return &a, nil
}

func (f *fakeAnalysisUsecase) AnalyzeDefault(context.Context) (*scene_audio_analysis_models.AudioAnalysis, error) {
	if f.defaultMissing {
		return nil, domain.ErrDefaultFileNotFound
	}
	return testAnalysis, f.err
}

func (f *fakeAnalysisUsecase) AnalyzePath(context.Context, string, string, string) (*scene_audio_analysis_models.AudioAnalysis, error) {
	return testAnalysis, f.err
}

func (f *fakeAnalysisUsecase) GetByID(_ context.Context, id string) (*scene_audio_analysis_models.AudioAnalysis, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, domain.ErrInvalidID
	}
	if id != testAnalysis.ID.Hex() {
		return nil, domain.ErrNotFound
	}
	return testAnalysis, nil
}

func (f *fakeAnalysisUsecase) List(context.Context, scene_audio_analysis_models.AnalysisQuery) ([]*scene_audio_analysis_models.AudioAnalysis, int64, error) {
	return []*scene_audio_analysis_models.AudioAnalysis{testAnalysis}, 1, nil
}

func (f *fakeAnalysisUsecase) Delete(_ context.Context, id string) error {
	_, err := f.GetByID(context.Background(), id)
	return err
}

func (f *fakeAnalysisUsecase) RenderWaveform(_ context.Context, id string, w io.Writer) error {
	if _, err := f.GetByID(context.Background(), id); err != nil {
		return err
	}
	_, err := w.Write([]byte("\x89PNG fake"))
	return err
}

type fakeGenerationUsecase struct {
	err    error
	params scene_audio_analysis_models.GenerationParams
}

func (f *fakeGenerationUsecase) Generate(_ context.Context, id string, params scene_audio_analysis_models.GenerationParams) (*scene_audio_analysis_models.AudioGeneration, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	return &scene_audio_analysis_models.AudioGeneration{
		ID:     primitive.NewObjectID(),
		Status: scene_audio_analysis_models.GenerationSucceeded,
		Model:  "melody_rnn",
		Steps:  params.Steps,
	}, nil
}

func (f *fakeGenerationUsecase) GetByID(context.Context, string) (*scene_audio_analysis_models.AudioGeneration, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeGenerationUsecase) ListByAnalysis(context.Context, string) ([]*scene_audio_analysis_models.AudioGeneration, error) {
	return nil, nil
}

func (f *fakeGenerationUsecase) AudioPath(context.Context, string) (string, error) {
	return "", domain.ErrNotFound
}

func newTestEngine(a *fakeAnalysisUsecase, g *fakeGenerationUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.SetHTMLTemplate(view.Templates())

	page := NewPageController(a, g)
	r.GET("/", page.Index)
	r.POST("/analyze", page.Analyze)
	r.POST("/generate/:id", page.Generate)

	ac := NewAnalysisController(a)
	gc := NewGenerationController(g)
	api := r.Group("/api")
	api.POST("/analyses", ac.Create)
	api.GET("/analyses", ac.List)
	api.GET("/analyses/:id", ac.Get)
	api.GET("/analyses/:id/waveform.png", ac.Waveform)
	api.DELETE("/analyses/:id", ac.Delete)
	api.POST("/analyses/:id/generations", gc.Create)
	api.GET("/analyses/:id/generations", gc.ListByAnalysis)
	api.GET("/generations/:id", gc.Get)
	api.GET("/generations/:id/audio", gc.Audio)
	return r
}

func multipartBody(t *testing.T, name string, content []byte) (*bytes.Buffer, string) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIndexPage(t *testing.T) {
	r := newTestEngine(&fakeAnalysisUsecase{}, &fakeGenerationUsecase{})
	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<title>riddim.exe · ⋆.˚✮🎧✮˚.⋆ · </title>")
	assert.Contains(t, body, "Upload an audio file to analyze or use the default sample.")
	assert.Contains(t, body, "Using default file: Metre_Fault_Line.mp3")
}

func TestIndexPageDefaultMissing(t *testing.T) {
	r := newTestEngine(&fakeAnalysisUsecase{defaultMissing: true}, &fakeGenerationUsecase{})
	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, w.Body.String(), "Default file &#39;music_files/Metre_Fault_Line.mp3&#39; not found.")
}

func TestAnalyzePageDefault(t *testing.T) {
	r := newTestEngine(&fakeAnalysisUsecase{}, &fakeGenerationUsecase{})
	w := serve(r, httptest.NewRequest(http.MethodPost, "/analyze", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Analysis for: Metre_Fault_Line.mp3")
	assert.Contains(t, body, `<span title="Speed of the music in beats per minute.">Tempo (BPM)</span>`)
	assert.Contains(t, body, `<td class="value">117.45</td>`)
	assert.Contains(t, body, `<td class="value">0.12</td>`)
	assert.Contains(t, body, fmt.Sprintf("/api/analyses/%s/waveform.png", testAnalysis.ID.Hex()))
}

func TestAnalyzePageDefaultMissing(t *testing.T) {
	r := newTestEngine(&fakeAnalysisUsecase{defaultMissing: true}, &fakeGenerationUsecase{})
	w := serve(r, httptest.NewRequest(http.MethodPost, "/analyze", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not found.")
	assert.NotContains(t, w.Body.String(), "Analysis for:")
}

func TestAnalyzePageUpload(t *testing.T) {
	a := &fakeAnalysisUsecase{}
	r := newTestEngine(a, &fakeGenerationUsecase{})
	body, contentType := multipartBody(t, "riddim & dub.wav", []byte("RIFF"))
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)

	w := serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "riddim & dub.wav", a.uploadedName)
	assert.Equal(t, []byte("RIFF"), a.uploaded)
	assert.Contains(t, w.Body.String(), "Analysis for: riddim &amp; dub.wav")
}

func TestAnalyzePageUploadError(t *testing.T) {
	r := newTestEngine(&fakeAnalysisUsecase{err: domain.ErrUnsupportedFormat}, &fakeGenerationUsecase{})
	body, contentType := multipartBody(t, "notes.txt", []byte("hi"))
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)

	w := serve(r, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	assert.Contains(t, w.Body.String(), domain.ErrUnsupportedFormat.Error())
}

func TestGeneratePageShowsMessageOnFailure(t *testing.T) {
	r := newTestEngine(&fakeAnalysisUsecase{}, &fakeGenerationUsecase{err: domain.ErrGeneratorNotConfigured})
	w := serve(r, httptest.NewRequest(http.MethodPost, "/generate/"+testAnalysis.ID.Hex(), nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Generation failed: "+domain.ErrGeneratorNotConfigured.Error())
	assert.Contains(t, w.Body.String(), "Analysis for: Metre_Fault_Line.mp3")
}

func TestGeneratePageRejectsInvalidForm(t *testing.T) {
	gen := &fakeGenerationUsecase{}
	r := newTestEngine(&fakeAnalysisUsecase{}, gen)

	req := httptest.NewRequest(http.MethodPost, "/generate/"+testAnalysis.ID.Hex(), strings.NewReader("steps=abc"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := serve(r, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid generation parameters")
	assert.Contains(t, w.Body.String(), "Analysis for: Metre_Fault_Line.mp3")

	req = httptest.NewRequest(http.MethodPost, "/generate/"+testAnalysis.ID.Hex(), strings.NewReader("steps=-1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = serve(r, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, gen.params.Steps)

	req = httptest.NewRequest(http.MethodPost, "/generate/"+testAnalysis.ID.Hex(), strings.NewReader("steps=64&temperature=0.8"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 64, gen.params.Steps)
}

func TestAPIAnalysisCreateAndGet(t *testing.T) {
	r := newTestEngine(&fakeAnalysisUsecase{}, &fakeGenerationUsecase{})

	w := serve(r, httptest.NewRequest(http.MethodPost, "/api/analyses", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Response struct {
			Analysis struct {
				ID   string                                   `json:"id"`
				Name string                                   `json:"name"`
				Rows []scene_audio_analysis_models.FeatureRow `json:"rows"`
			} `json:"analysis"`
		} `json:"riddim-response"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, testAnalysis.ID.Hex(), resp.Response.Analysis.ID)
	require.Len(t, resp.Response.Analysis.Rows, 2)
	assert.Equal(t, "117.45", resp.Response.Analysis.Rows[0].Value)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/analyses/"+testAnalysis.ID.Hex(), nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/analyses/bad-id", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"INVALID_ID"`)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/analyses/"+primitive.NewObjectID().Hex(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPIAnalysisListAndWaveform(t *testing.T) {
	r := newTestEngine(&fakeAnalysisUsecase{}, &fakeGenerationUsecase{})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/analyses?page=1&page_size=5&sort=tempo&order=asc", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/analyses?page=abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/analyses/"+testAnalysis.ID.Hex()+"/waveform.png", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
}

func TestAPIGenerationErrors(t *testing.T) {
	g := &fakeGenerationUsecase{err: domain.ErrGeneratorNotConfigured}
	r := newTestEngine(&fakeAnalysisUsecase{}, g)

	w := serve(r, httptest.NewRequest(http.MethodPost, "/api/analyses/"+testAnalysis.ID.Hex()+"/generations", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"GENERATOR_NOT_CONFIGURED"`)

	g.err = &domain.ProcessError{Tool: "sh", ExitCode: 1, Stderr: "boom"}
	req := httptest.NewRequest(http.MethodPost, "/api/analyses/"+testAnalysis.ID.Hex()+"/generations",
		bytes.NewBufferString(`{"steps": 32, "temperature": 0.8}`))
	req.Header.Set("Content-Type", "application/json")
	w = serve(r, req)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, 32, g.params.Steps)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/generations/"+primitive.NewObjectID().Hex()+"/audio", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/analyses/"+testAnalysis.ID.Hex()+"/generations", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"generations":[]`)
}
