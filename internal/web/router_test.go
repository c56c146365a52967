package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dynamic-shelf-pricer/console/internal/model"
	"github.com/dynamic-shelf-pricer/console/internal/session"
	"github.com/dynamic-shelf-pricer/console/internal/shelfapi"
	"github.com/dynamic-shelf-pricer/console/internal/view"
	"github.com/gofiber/fiber/v2"
)

const testCookie = "dsp_session"

type fakePricer struct {
	mu       sync.Mutex
	requests []model.RecommendRequest
	fetches  int
}

func (f *fakePricer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/products", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.fetches++
		f.mu.Unlock()
		io.WriteString(w, `[{"id":"1","name":"Milk","base_price":5.5,"cost":3.2,"ttl_days":3},
			{"id":"2","name":"Bread","base_price":"4.20","cost":"2.10","ttl_days":"2"}]`)
	})
	mux.HandleFunc("/api/recommend", func(w http.ResponseWriter, r *http.Request) {
		var req model.RecommendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode recommend body: %v", err)
		}
		f.mu.Lock()
		f.requests = append(f.requests, req)
		f.mu.Unlock()
		if req.ProductID == "404" {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"detail":"Product not found"}`)
			return
		}
		io.WriteString(w, `{"product_id":"`+req.ProductID+`","recommended_price":5.2,"explanation":"near expiry"}`)
	})
	return mux
}

func (f *fakePricer) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

func (f *fakePricer) lastRequest() model.RecommendRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newTestApp(t *testing.T) (*fiber.App, *fakePricer) {
	t.Helper()
	pricer := &fakePricer{}
	srv := httptest.NewServer(pricer.handler(t))
	t.Cleanup(srv.Close)

	ctrl := view.NewController(shelfapi.NewClient(srv.URL), session.NewMemoryStore(time.Minute))
	app := NewApp(ctrl, Options{CookieName: testCookie, SessionTTL: time.Minute})
	return app, pricer
}

func do(t *testing.T, app *fiber.App, req *http.Request, cookie *http.Cookie) *http.Response {
	t.Helper()
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test(%s %s) error: %v", req.Method, req.URL.Path, err)
	}
	return resp
}

func formRequest(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func sessionCookieFrom(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == testCookie {
			return c
		}
	}
	t.Fatalf("response has no %s cookie", testCookie)
	return nil
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func TestHealthz(t *testing.T) {
	app, _ := newTestApp(t)

	resp := do(t, app, httptest.NewRequest(http.MethodGet, "/healthz", nil), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := body(t, resp); got != `{"status":"ok"}` {
		t.Errorf("body = %s", got)
	}
	for _, c := range resp.Cookies() {
		if c.Name == testCookie {
			t.Error("/healthz set a session cookie")
		}
	}
}

func TestIndex_RendersCatalog(t *testing.T) {
	app, pricer := newTestApp(t)

	resp := do(t, app, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
	cookie := sessionCookieFrom(t, resp)
	if !cookie.HttpOnly {
		t.Error("session cookie is not HttpOnly")
	}

	html := body(t, resp)
	for _, want := range []string{"<td>Milk</td>", "<td>5.50</td>", "<td>3.20</td>", "<td>Bread</td>", "<td>4.20</td>"} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Index(html, "Milk") > strings.Index(html, "Bread") {
		t.Error("page does not keep catalog order")
	}

	// Reloading with the same cookie does not fetch again.
	do(t, app, httptest.NewRequest(http.MethodGet, "/", nil), cookie)
	if got := pricer.fetchCount(); got != 1 {
		t.Errorf("catalog fetches = %d, want 1", got)
	}
}

func TestUpdateContext(t *testing.T) {
	app, _ := newTestApp(t)
	cookie := sessionCookieFrom(t, do(t, app, httptest.NewRequest(http.MethodGet, "/", nil), nil))

	resp := do(t, app, formRequest("/context", url.Values{
		"inventory":  {"80"},
		"promo_flag": {"false", "on"},
	}), cookie)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}

	resp = do(t, app, httptest.NewRequest(http.MethodGet, "/state", nil), cookie)
	var state view.State
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if state.Form.Inventory != "80" || !state.Form.PromoFlag || state.Form.DaysToExpiry != "2" {
		t.Errorf("state form = %+v", state.Form)
	}
	if len(state.Products) != 2 {
		t.Errorf("state products = %d, want 2", len(state.Products))
	}
}

func TestUpdateContext_UnknownField(t *testing.T) {
	app, _ := newTestApp(t)

	resp := do(t, app, formRequest("/context", url.Values{"price": {"1"}}), nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if got := body(t, resp); !strings.Contains(got, `"error"`) {
		t.Errorf("body = %s, want an error message", got)
	}
}

func TestRecommend_JSON(t *testing.T) {
	app, pricer := newTestApp(t)
	cookie := sessionCookieFrom(t, do(t, app, httptest.NewRequest(http.MethodGet, "/", nil), nil))

	req := httptest.NewRequest(http.MethodPost, "/recommend/1", nil)
	req.Header.Set("Accept", "application/json")
	resp := do(t, app, req, cookie)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", resp.StatusCode, body(t, resp))
	}

	var rec model.Recommendation
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		t.Fatalf("decode recommendation: %v", err)
	}
	if rec.RecommendedPrice != 5.2 || rec.Explanation != "near expiry" {
		t.Errorf("recommendation = %+v", rec)
	}

	sent := pricer.lastRequest()
	if sent.ProductID != "1" || sent.Context.DaysToExpiry != 2 || sent.Context.Inventory != 40 || sent.Context.CompetitorPrice != nil {
		t.Errorf("backend request = %+v", sent)
	}

	resp = do(t, app, httptest.NewRequest(http.MethodGet, "/", nil), cookie)
	if html := body(t, resp); !strings.Contains(html, "RM 5.2\nnear expiry") {
		t.Error("page does not show the stored recommendation")
	}
}

func TestRecommend_FormSubmitUsesCurrentContext(t *testing.T) {
	app, pricer := newTestApp(t)
	cookie := sessionCookieFrom(t, do(t, app, httptest.NewRequest(http.MethodGet, "/", nil), nil))

	resp := do(t, app, formRequest("/recommend/2", url.Values{
		"days_to_expiry":   {"1"},
		"inventory":        {"40"},
		"competitor_price": {"3.99"},
		"promo_flag":       {"false"},
		"weather_score":    {"0.7"},
	}), cookie)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}

	sent := pricer.lastRequest()
	if sent.ProductID != "2" || sent.Context.DaysToExpiry != 1 || sent.Context.WeatherScore != 0.7 {
		t.Errorf("backend request = %+v", sent)
	}
	if sent.Context.CompetitorPrice == nil || *sent.Context.CompetitorPrice != 3.99 {
		t.Errorf("competitor_price = %v, want 3.99", sent.Context.CompetitorPrice)
	}
}

func TestRecommend_BackendErrorPayload(t *testing.T) {
	app, _ := newTestApp(t)
	cookie := sessionCookieFrom(t, do(t, app, httptest.NewRequest(http.MethodGet, "/", nil), nil))

	req := httptest.NewRequest(http.MethodPost, "/recommend/404", nil)
	req.Header.Set("Accept", "application/json")
	resp := do(t, app, req, cookie)
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("JSON status = %d, want 502", resp.StatusCode)
	}

	resp = do(t, app, httptest.NewRequest(http.MethodPost, "/recommend/404", nil), cookie)
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("browser status = %d, want 303", resp.StatusCode)
	}

	resp = do(t, app, httptest.NewRequest(http.MethodGet, "/state", nil), cookie)
	var state view.State
	json.NewDecoder(resp.Body).Decode(&state)
	if len(state.Recommendations) != 0 {
		t.Errorf("recommendations = %v, want none after a failed call", state.Recommendations)
	}
}

func TestReset(t *testing.T) {
	app, pricer := newTestApp(t)
	cookie := sessionCookieFrom(t, do(t, app, httptest.NewRequest(http.MethodGet, "/", nil), nil))
	do(t, app, formRequest("/context", url.Values{"inventory": {"5"}}), cookie)

	resp := do(t, app, httptest.NewRequest(http.MethodPost, "/reset", nil), cookie)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}

	resp = do(t, app, httptest.NewRequest(http.MethodGet, "/state", nil), cookie)
	var state view.State
	json.NewDecoder(resp.Body).Decode(&state)
	if state.Form != model.DefaultContextForm() {
		t.Errorf("form after reset = %+v, want defaults", state.Form)
	}

	do(t, app, httptest.NewRequest(http.MethodGet, "/", nil), cookie)
	if got := pricer.fetchCount(); got != 2 {
		t.Errorf("catalog fetches = %d, want a new fetch after reset", got)
	}
}

func TestSessions_AreIsolated(t *testing.T) {
	app, _ := newTestApp(t)

	products := []string{"1", "2", "1"}
	cookies := make([]*http.Cookie, len(products))
	for i := range cookies {
		cookies[i] = sessionCookieFrom(t, do(t, app, httptest.NewRequest(http.MethodGet, "/", nil), nil))
	}
	for i, pid := range products {
		req := httptest.NewRequest(http.MethodPost, "/recommend/"+pid, nil)
		req.Header.Set("Accept", "application/json")
		if resp := do(t, app, req, cookies[i]); resp.StatusCode != http.StatusOK {
			t.Fatalf("session %d recommend status = %d", i, resp.StatusCode)
		}
	}
	// Unrelated traffic must not disturb stored sessions.
	for i := 0; i < 5; i++ {
		do(t, app, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	}

	for i, pid := range products {
		resp := do(t, app, httptest.NewRequest(http.MethodGet, "/state", nil), cookies[i])
		var state view.State
		if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
			t.Fatalf("decode state: %v", err)
		}
		if len(state.Products) != 2 {
			t.Errorf("session %d products = %d, want 2", i, len(state.Products))
		}
		if len(state.Recommendations) != 1 {
			t.Errorf("session %d recommendations = %v, want only %s", i, state.Recommendations, pid)
		}
		if _, ok := state.Recommendation(pid); !ok {
			t.Errorf("session %d lost the recommendation for %s", i, pid)
		}
	}
}

func TestWantsJSON(t *testing.T) {
	tests := []struct {
		accept string
		want   bool
	}{
		{"application/json", true},
		{"application/json, text/plain", true},
		{"text/html,application/xhtml+xml,application/json;q=0.9", false},
		{"", false},
	}
	var got bool
	app := fiber.New()
	app.Get("/accept", func(c *fiber.Ctx) error {
		got = wantsJSON(c)
		return nil
	})
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/accept", nil)
		req.Header.Set("Accept", tt.accept)
		if _, err := app.Test(req, -1); err != nil {
			t.Fatalf("app.Test() error: %v", err)
		}
		if got != tt.want {
			t.Errorf("wantsJSON(%q) = %v, want %v", tt.accept, got, tt.want)
		}
	}
}
