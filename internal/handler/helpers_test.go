package handler_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/msomdec/run-tracker/internal/handler"
	"github.com/msomdec/run-tracker/internal/photostore"
	"github.com/msomdec/run-tracker/internal/repository/memory"
	"github.com/msomdec/run-tracker/internal/service"
)

const (
	testJWTSecret = "test-secret-for-handler-tests-0000000"
	testEmail     = "test@example.com"
	testPassword  = "password123"
	testOrigin    = "http://localhost:3000"
)

type testServices struct {
	auth    *service.AuthService
	runs    *service.RunService
	stats   *service.StatsService
	photos  *service.PhotoService
	limiter *service.TokenBucket
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	store, err := photostore.NewDisk(t.TempDir())
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}

	users := memory.NewUserRepository()
	runs := memory.NewRunRepository()
	// Use cost 4 for fast tests.
	auth := service.NewAuthService(users, testJWTSecret, service.AuthOptions{Issuer: "run-tracker", BcryptCost: 4})
	photos := service.NewPhotoService(store, 64<<10)

	if err := service.Seed(context.Background(), auth, users, runs, service.SeedOptions{
		Email:    testEmail,
		Password: testPassword,
	}); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	limiter := service.NewTokenBucket(0, 100)
	t.Cleanup(limiter.Close)

	return &testServices{
		auth:    auth,
		runs:    service.NewRunService(runs, photos),
		stats:   service.NewStatsService(runs),
		photos:  photos,
		limiter: limiter,
	}
}

func newTestServer(t *testing.T, svc *testServices) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, svc.auth, svc.runs, svc.stats, svc.photos, svc.limiter)

	srv := httptest.NewServer(handler.Wrap(mux, []string{testOrigin}))
	t.Cleanup(srv.Close)
	return srv
}

func loginToken(t *testing.T, svc *testServices) string {
	t.Helper()
	token, _, err := svc.auth.Login(context.Background(), testEmail, testPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	return token
}

func doRequest(t *testing.T, method, url, token, contentType string, body io.Reader) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

// runForm builds a multipart body; photo may be nil.
func runForm(t *testing.T, fields map[string]string, photo []byte) (string, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if photo != nil {
		fw, err := mw.CreateFormFile("photo", "run.png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(photo); err != nil {
			t.Fatalf("write photo: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return mw.FormDataContentType(), &buf
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 1, color.RGBA{B: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}

func newLimiter(t *testing.T, burst float64) *service.TokenBucket {
	t.Helper()
	tb := service.NewTokenBucket(0, burst)
	t.Cleanup(tb.Close)
	return tb
}
