package handler_test

import (
	"bytes"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"testing"
)

func TestIntegration_LoginCreateStatsDelete(t *testing.T) {
	svc := newTestServices(t)
	srv := newTestServer(t, svc)

	// 1. Login.
	resp := doRequest(t, http.MethodPost, srv.URL+"/auth/login", "", "application/json",
		jsonBody(`{"email":"test@example.com","password":"password123"}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	token, _ := body["token"].(string)
	if token == "" || body["success"] != true {
		t.Fatalf("login: unexpected body %v", body)
	}
	user := body["user"].(map[string]any)
	if user["email"] != testEmail {
		t.Fatalf("login: unexpected user %v", user)
	}

	// 2. Who am I.
	resp = doRequest(t, http.MethodGet, srv.URL+"/auth/me", token, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// 3. Create a run with a photo.
	contentType, form := runForm(t, map[string]string{
		"distance": "5.2",
		"time":     "28",
		"location": " Шымкент ",
	}, pngBytes(t))
	resp = doRequest(t, http.MethodPost, srv.URL+"/runs", token, contentType, form)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", resp.StatusCode)
	}
	run := decodeBody(t, resp)["run"].(map[string]any)
	if run["pace"] != "5.38" || run["location"] != "Шымкент" || run["distance"] != 5.2 || run["time"] != float64(28) {
		t.Fatalf("create: unexpected run %v", run)
	}
	photo, _ := run["photo"].(string)
	if !strings.HasPrefix(photo, "/uploads/photo-") {
		t.Fatalf("create: unexpected photo %v", run["photo"])
	}
	id := strconv.FormatFloat(run["id"].(float64), 'f', 0, 64)

	// 4. The photo is publicly served.
	resp = doRequest(t, http.MethodGet, srv.URL+photo, "", "", nil)
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("photo: expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Content-Type") != "image/png" || !bytes.Equal(data, pngBytes(t)) {
		t.Fatalf("photo: unexpected content type %s", resp.Header.Get("Content-Type"))
	}

	// 5. List and get.
	resp = doRequest(t, http.MethodGet, srv.URL+"/runs", token, "", nil)
	runs := decodeBody(t, resp)["runs"].([]any)
	if len(runs) != 1 {
		t.Fatalf("list: expected 1 run, got %d", len(runs))
	}

	resp = doRequest(t, http.MethodGet, srv.URL+"/runs/"+id, token, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// 6. Stats.
	resp = doRequest(t, http.MethodGet, srv.URL+"/stats", token, "", nil)
	stats := decodeBody(t, resp)["stats"].(map[string]any)
	if stats["totalRuns"] != float64(1) || stats["totalDistance"] != 5.2 || stats["averagePace"] != 5.38 {
		t.Fatalf("stats: unexpected %v", stats)
	}

	// 7. Delete, then the run and its photo are gone.
	resp = doRequest(t, http.MethodDelete, srv.URL+"/runs/"+id, token, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", resp.StatusCode)
	}
	if msg := decodeBody(t, resp)["message"]; msg != "run deleted" {
		t.Fatalf("delete: unexpected message %v", msg)
	}

	resp = doRequest(t, http.MethodGet, srv.URL+"/runs/"+id, token, "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doRequest(t, http.MethodGet, srv.URL+photo, "", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("photo after delete: expected 404, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doRequest(t, http.MethodGet, srv.URL+"/stats", token, "", nil)
	stats = decodeBody(t, resp)["stats"].(map[string]any)
	if stats["totalRuns"] != float64(0) || stats["averagePace"] != float64(0) {
		t.Fatalf("stats after delete: unexpected %v", stats)
	}
}

func TestLogin_Errors(t *testing.T) {
	srv := newTestServer(t, newTestServices(t))

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed", `{"email":`, http.StatusBadRequest},
		{"missing password", `{"email":"test@example.com"}`, http.StatusBadRequest},
		{"missing email", `{"password":"password123"}`, http.StatusBadRequest},
		{"wrong password", `{"email":"test@example.com","password":"nope"}`, http.StatusUnauthorized},
		{"unknown user", `{"email":"ghost@example.com","password":"password123"}`, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, http.MethodPost, srv.URL+"/auth/login", "", "application/json", jsonBody(tt.body))
			if resp.StatusCode != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, resp.StatusCode)
			}
			if body := decodeBody(t, resp); body["error"] == nil {
				t.Fatalf("expected error message, got %v", body)
			}
		})
	}
}

func TestLogin_RateLimited(t *testing.T) {
	svc := newTestServices(t)
	svc.limiter.Close()
	svc.limiter = newLimiter(t, 2)
	srv := newTestServer(t, svc)

	for i := 0; i < 2; i++ {
		resp := doRequest(t, http.MethodPost, srv.URL+"/auth/login", "", "application/json",
			jsonBody(`{"email":"test@example.com","password":"wrong"}`))
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i+1, resp.StatusCode)
		}
	}

	resp := doRequest(t, http.MethodPost, srv.URL+"/auth/login", "", "application/json",
		jsonBody(`{"email":"test@example.com","password":"password123"}`))
	resp.Body.Close()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.StatusCode)
	}
}

func TestCreateRun_ValidationErrors(t *testing.T) {
	svc := newTestServices(t)
	srv := newTestServer(t, svc)
	token := loginToken(t, svc)

	tests := []struct {
		name   string
		fields map[string]string
	}{
		{"missing distance", map[string]string{"time": "20", "location": "Park"}},
		{"missing location", map[string]string{"distance": "5", "time": "20"}},
		{"non-numeric time", map[string]string{"distance": "5", "time": "fast", "location": "Park"}},
		{"negative distance", map[string]string{"distance": "-1", "time": "20", "location": "Park"}},
		{"subnormal distance", map[string]string{"distance": "1e-320", "time": "20", "location": "Park"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contentType, form := runForm(t, tt.fields, nil)
			resp := doRequest(t, http.MethodPost, srv.URL+"/runs", token, contentType, form)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
			resp.Body.Close()
		})
	}

	resp := doRequest(t, http.MethodGet, srv.URL+"/runs", token, "", nil)
	if runs := decodeBody(t, resp)["runs"].([]any); len(runs) != 0 {
		t.Fatalf("expected no runs after failed creates, got %d", len(runs))
	}

	resp = doRequest(t, http.MethodGet, srv.URL+"/stats", token, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if stats := decodeBody(t, resp)["stats"].(map[string]any); stats["totalRuns"] != float64(0) {
		t.Fatalf("unexpected stats %v", stats)
	}
}

func TestCreateRun_URLEncoded(t *testing.T) {
	svc := newTestServices(t)
	srv := newTestServer(t, svc)
	token := loginToken(t, svc)

	resp := doRequest(t, http.MethodPost, srv.URL+"/runs", token, "application/x-www-form-urlencoded",
		strings.NewReader("distance=10&time=50&location=Park"))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	run := decodeBody(t, resp)["run"].(map[string]any)
	if run["photo"] != nil || run["pace"] != "5.00" {
		t.Fatalf("unexpected run %v", run)
	}
	if !createdAtPattern.MatchString(run["createdAt"].(string)) {
		t.Fatalf("createdAt %v is not a millisecond UTC timestamp", run["createdAt"])
	}
}

var createdAtPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`)

func TestCreateRun_PhotoRejected(t *testing.T) {
	svc := newTestServices(t)
	srv := newTestServer(t, svc)
	token := loginToken(t, svc)
	fields := map[string]string{"distance": "5", "time": "25", "location": "Park"}

	t.Run("not an image", func(t *testing.T) {
		contentType, form := runForm(t, fields, []byte("plain text pretending to be a photo"))
		resp := doRequest(t, http.MethodPost, srv.URL+"/runs", token, contentType, form)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.StatusCode)
		}
		resp.Body.Close()
	})

	t.Run("too large", func(t *testing.T) {
		big := append(pngBytes(t), make([]byte, int(svc.photos.MaxSize()))...)
		contentType, form := runForm(t, fields, big)
		resp := doRequest(t, http.MethodPost, srv.URL+"/runs", token, contentType, form)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.StatusCode)
		}
		resp.Body.Close()
	})
}

func TestRuns_OwnershipAndBadIDs(t *testing.T) {
	svc := newTestServices(t)
	srv := newTestServer(t, svc)
	token := loginToken(t, svc)

	for _, path := range []string{"/runs/abc", "/runs/0", "/runs/999"} {
		resp := doRequest(t, http.MethodGet, srv.URL+path, token, "", nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("GET %s: expected 404, got %d", path, resp.StatusCode)
		}
		resp.Body.Close()

		resp = doRequest(t, http.MethodDelete, srv.URL+path, token, "", nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("DELETE %s: expected 404, got %d", path, resp.StatusCode)
		}
		resp.Body.Close()
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t, newTestServices(t))

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/runs"},
		{http.MethodPost, "/runs"},
		{http.MethodGet, "/runs/1"},
		{http.MethodDelete, "/runs/1"},
		{http.MethodGet, "/stats"},
		{http.MethodGet, "/auth/me"},
	} {
		resp := doRequest(t, tc.method, srv.URL+tc.path, "", "", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", tc.method, tc.path, resp.StatusCode)
		}
		resp.Body.Close()

		resp = doRequest(t, tc.method, srv.URL+tc.path, "garbage", "", nil)
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("%s %s with bad token: expected 403, got %d", tc.method, tc.path, resp.StatusCode)
		}
		resp.Body.Close()
	}
}
