package route

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/riddim-exe/riddim/bootstrap"
	"github.com/riddim-exe/riddim/internal/tokenutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestServer(t *testing.T) (*gin.Engine, *bootstrap.Application) {
	return newTestServerWithSecret(t, "secret")
}

func newTestServerWithSecret(t *testing.T, secret string) (*gin.Engine, *bootstrap.Application) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	env := bootstrap.NewEnv(filepath.Join(dir, "missing.env"))
	env.AccessTokenSecret = secret
	env.DefaultAudioPath = filepath.Join(dir, "music_files", "Metre_Fault_Line.mp3")
	env.UploadDir = filepath.Join(dir, "uploads")

	app := bootstrap.NewApplication(env, bootstrap.NewMemoryStore())
	engine := gin.New()
	Setup(app, engine)
	return engine, app
}

func do(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestHealthAndMetrics(t *testing.T) {
	engine, _ := newTestServer(t)

	w := do(engine, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"driver":"memory"`)

	w = do(engine, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "riddim_http_requests_total")
}

func TestIndexShowsMissingDefault(t *testing.T) {
	engine, app := newTestServer(t)

	w := do(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Default file &#39;"+app.Env.DefaultAudioPath+"&#39; not found.")
}

func TestDeleteRequiresToken(t *testing.T) {
	engine, app := newTestServer(t)
	id := primitive.NewObjectID().Hex()

	w := do(engine, httptest.NewRequest(http.MethodDelete, "/api/analyses/"+id, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := tokenutil.CreateAccessToken("admin", app.Env.AccessTokenSecret, 1)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodDelete, "/api/analyses/"+id, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = do(engine, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteDisabledWithoutSecret(t *testing.T) {
	engine, _ := newTestServerWithSecret(t, "")
	id := primitive.NewObjectID().Hex()

	claims := &tokenutil.AccessClaims{
		Subject:          "attacker",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "attacker"},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(""))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/analyses/"+id, nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	w := do(engine, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGenerateWithoutModel(t *testing.T) {
	engine, _ := newTestServer(t)
	w := do(engine, httptest.NewRequest(http.MethodPost, "/api/analyses/"+primitive.NewObjectID().Hex()+"/generations", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
