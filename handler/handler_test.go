package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/phbpx/prits"
	"github.com/phbpx/prits/auth"
	"github.com/phbpx/prits/catalog"
	"github.com/phbpx/prits/handler"
	"github.com/phbpx/prits/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const (
	adminEmail    = "admin@prits.test"
	adminPassword = "correct horse battery"
	sessionSecret = "0123456789abcdef0123456789abcdef"
)

type noticeRecorder struct {
	mu      sync.Mutex
	notices []notify.Notice
}

func (n *noticeRecorder) Dispatch(notice notify.Notice) <-chan struct{} {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
	done := make(chan struct{})
	close(done)
	return done
}

type app struct {
	handler          http.Handler
	enquiries        *enquiryStore
	serviceEnquiries *serviceEnquiryStore
	testimonials     *testimonialStore
	stats            *statsStore
	notices          *noticeRecorder
	healthErr        error
	token            string
}

func newApp(t *testing.T) *app {
	t.Helper()

	hash, err := auth.HashPassword(adminPassword)
	require.NoError(t, err)
	sessions, err := auth.NewSessions(sessionSecret, time.Hour)
	require.NoError(t, err)
	authenticator := auth.NewAuthenticator(auth.Admin{Email: adminEmail, PasswordHash: hash}, sessions)

	token, _, err := sessions.Issue(adminEmail)
	require.NoError(t, err)

	plans, err := catalog.Embedded()
	require.NoError(t, err)

	a := &app{
		enquiries:        newEnquiryStore(),
		serviceEnquiries: newServiceEnquiryStore(),
		testimonials:     newTestimonialStore(),
		stats:            &statsStore{},
		notices:          &noticeRecorder{},
		token:            token,
	}

	a.handler = handler.Routes(handler.Config{
		ServiceName:      "prits-test",
		Log:              otelzap.New(zap.NewNop()).Sugar(),
		Health:           func(context.Context) error { return a.healthErr },
		Enquiries:        a.enquiries,
		ServiceEnquiries: a.serviceEnquiries,
		Testimonials:     a.testimonials,
		Stats:            a.stats,
		Catalog:          plans,
		Auth:             authenticator,
		Guard:            sessions.Guard(),
		Notices:          a.notices,
	})
	return a
}

func (a *app) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), into), rr.Body.String())
}

type errorBody struct {
	Code   string            `json:"code"`
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func TestCreateServiceEnquiry(t *testing.T) {
	a := newApp(t)

	rr := a.do(t, http.MethodPost, "/service-enquiries", map[string]interface{}{
		"name":    "Jane",
		"email":   "jane@x.com",
		"phone":   "555-1111",
		"message": "Need SEO",
		"plan":    map[string]string{"name": "Gold", "price": "$1699", "type": "SEO Services"},
	}, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var got prits.ServiceEnquiry
	decodeBody(t, rr, &got)
	assert.NotEmpty(t, got.ID)
	assert.False(t, got.SubmittedAt.IsZero())
	assert.Equal(t, prits.StatusNew, got.Status)
	assert.Equal(t, prits.Plan{Name: "Gold", Price: "$1699", Type: "SEO Services"}, got.Plan)

	require.Len(t, a.notices.notices, 1)
	assert.Equal(t, got.ID, a.notices.notices[0].ID)
}

func TestCreateServiceEnquiryPartialPlan(t *testing.T) {
	a := newApp(t)

	rr := a.do(t, http.MethodPost, "/service-enquiries", map[string]interface{}{
		"name":    "Jane",
		"email":   "jane@x.com",
		"phone":   "555-1111",
		"message": "Need SEO",
		"plan":    map[string]string{"name": "Gold", "type": "SEO Services"},
	}, "")
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var body errorBody
	decodeBody(t, rr, &body)
	assert.Equal(t, "required", body.Fields["plan.price"])
	assert.Empty(t, a.serviceEnquiries.items)
	assert.Empty(t, a.notices.notices)
}

func TestCreateEnquiry(t *testing.T) {
	tests := []struct {
		name   string
		body   interface{}
		status int
		field  string
	}{
		{
			name:   "valid",
			body:   map[string]string{"name": "Sam", "email": "sam@x.com", "phone": "555-2222", "message": "Hello"},
			status: http.StatusCreated,
		},
		{
			name:   "missing phone",
			body:   map[string]string{"name": "Sam", "email": "sam@x.com", "message": "Hello"},
			status: http.StatusBadRequest,
			field:  "phone",
		},
		{
			name:   "blank message",
			body:   map[string]string{"name": "Sam", "email": "sam@x.com", "phone": "555-2222", "message": "   "},
			status: http.StatusBadRequest,
			field:  "message",
		},
		{
			name:   "not json",
			body:   "name=Sam",
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newApp(t)

			rr := a.do(t, http.MethodPost, "/enquiries", tt.body, "")
			require.Equal(t, tt.status, rr.Code, rr.Body.String())

			if tt.status != http.StatusCreated {
				assert.Equal(t, 0, a.enquiries.len())
				if tt.field != "" {
					var body errorBody
					decodeBody(t, rr, &body)
					assert.Equal(t, "required", body.Fields[tt.field])
				}
				return
			}

			var got prits.Enquiry
			decodeBody(t, rr, &got)
			assert.Equal(t, prits.StatusNew, got.Status)
			assert.Equal(t, 1, a.enquiries.len())
		})
	}
}

func TestListRequiresSession(t *testing.T) {
	a := newApp(t)
	a.enquiries.items["e1"] = prits.Enquiry{ID: "e1", Name: "Secret Person", Status: prits.StatusNew}
	a.serviceEnquiries.items["s1"] = prits.ServiceEnquiry{ID: "s1", Name: "Secret Company", Status: prits.StatusNew}

	for _, path := range []string{"/enquiries", "/service-enquiries", "/admin/testimonials", "/admin/stats"} {
		for _, token := range []string{"", "not-a-token"} {
			rr := a.do(t, http.MethodGet, path, nil, token)
			require.Equal(t, http.StatusUnauthorized, rr.Code, path)
			assert.NotContains(t, rr.Body.String(), "Secret")

			var body errorBody
			decodeBody(t, rr, &body)
			assert.Equal(t, "Unauthorized", body.Code)
		}
	}
}

func TestUnauthenticatedMutationsHaveNoEffect(t *testing.T) {
	a := newApp(t)
	a.enquiries.items["e1"] = prits.Enquiry{ID: "e1", Status: prits.StatusNew}
	a.serviceEnquiries.items["s1"] = prits.ServiceEnquiry{ID: "s1", Status: prits.StatusNew}
	a.testimonials.items["t1"] = prits.Testimonial{ID: "t1", Name: "Ann", Role: "CEO", Company: "Acme", Content: "Great", IsActive: true}

	testimonial := map[string]interface{}{
		"id": "t1", "name": "Bob", "role": "CTO", "company": "Initech", "content": "Fine", "isActive": false,
	}

	tests := []struct {
		method string
		path   string
		body   interface{}
	}{
		{method: http.MethodPost, path: "/testimonials", body: testimonial},
		{method: http.MethodPut, path: "/testimonials", body: testimonial},
		{method: http.MethodDelete, path: "/testimonials", body: map[string]string{"id": "t1"}},
		{method: http.MethodPost, path: "/testimonials/t1/toggle"},
		{method: http.MethodPatch, path: "/enquiries/e1/status", body: map[string]string{"status": "closed"}},
		{method: http.MethodDelete, path: "/enquiries/e1"},
		{method: http.MethodPatch, path: "/service-enquiries/s1/status", body: map[string]string{"status": "closed"}},
		{method: http.MethodDelete, path: "/service-enquiries/s1"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := a.do(t, tt.method, tt.path, tt.body, "")
			require.Equal(t, http.StatusUnauthorized, rr.Code)

			assert.Equal(t, prits.StatusNew, a.enquiries.items["e1"].Status)
			assert.Equal(t, prits.StatusNew, a.serviceEnquiries.items["s1"].Status)
			got, ok := a.testimonials.get("t1")
			require.True(t, ok)
			assert.Equal(t, "Ann", got.Name)
			assert.True(t, got.IsActive)
			assert.Equal(t, 1, a.testimonials.len())
		})
	}
}

func TestListEnquiriesNewestFirst(t *testing.T) {
	a := newApp(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		a.enquiries.items[id] = prits.Enquiry{ID: id, SubmittedAt: base.Add(time.Duration(i) * time.Hour), Status: prits.StatusNew}
	}

	rr := a.do(t, http.MethodGet, "/enquiries", nil, a.token)
	require.Equal(t, http.StatusOK, rr.Code)

	var got []prits.Enquiry
	decodeBody(t, rr, &got)
	require.Len(t, got, 3)
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].SubmittedAt.After(got[i-1].SubmittedAt))
	}
	assert.Equal(t, "c", got[0].ID)
}

func TestUpdateEnquiryStatus(t *testing.T) {
	a := newApp(t)
	a.enquiries.items["e1"] = prits.Enquiry{ID: "e1", Status: prits.StatusClosed}

	rr := a.do(t, http.MethodPatch, "/enquiries/e1/status", map[string]string{"status": "new"}, a.token)
	require.Equal(t, http.StatusOK, rr.Code)
	var got prits.Enquiry
	decodeBody(t, rr, &got)
	assert.Equal(t, prits.StatusNew, got.Status)

	rr = a.do(t, http.MethodPatch, "/enquiries/e1/status", map[string]string{"status": "escalated"}, a.token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = a.do(t, http.MethodPatch, "/enquiries/e1/status", map[string]string{}, a.token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, prits.StatusNew, a.enquiries.items["e1"].Status)

	rr = a.do(t, http.MethodPatch, "/enquiries/nonexistent/status", map[string]string{"status": "closed"}, a.token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteServiceEnquiryTwice(t *testing.T) {
	a := newApp(t)
	a.serviceEnquiries.items["s1"] = prits.ServiceEnquiry{ID: "s1", Status: prits.StatusNew}

	rr := a.do(t, http.MethodDelete, "/service-enquiries/s1", nil, a.token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true}`, rr.Body.String())

	rr = a.do(t, http.MethodDelete, "/service-enquiries/s1", nil, a.token)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = a.do(t, http.MethodPatch, "/service-enquiries/s1/status", map[string]string{"status": "closed"}, a.token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestTestimonialLifecycle(t *testing.T) {
	a := newApp(t)

	rr := a.do(t, http.MethodPost, "/testimonials", map[string]interface{}{
		"name": "Ann", "role": "CEO", "company": "Acme", "content": "Great work", "rating": 5,
	}, a.token)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created prits.Testimonial
	decodeBody(t, rr, &created)
	require.NotEmpty(t, created.ID)
	assert.True(t, created.IsActive)
	require.NotNil(t, created.Rating)
	assert.Equal(t, 5, *created.Rating)

	var public []prits.Testimonial
	decodeBody(t, a.do(t, http.MethodGet, "/testimonials", nil, ""), &public)
	assert.Len(t, public, 1)

	// One toggle flips exactly once.
	rr = a.do(t, http.MethodPost, "/testimonials/"+created.ID+"/toggle", nil, a.token)
	require.Equal(t, http.StatusOK, rr.Code)
	var toggled prits.Testimonial
	decodeBody(t, rr, &toggled)
	assert.False(t, toggled.IsActive)
	stored, _ := a.testimonials.get(created.ID)
	assert.False(t, stored.IsActive)

	decodeBody(t, a.do(t, http.MethodGet, "/testimonials", nil, ""), &public)
	assert.Empty(t, public)

	var all []prits.Testimonial
	decodeBody(t, a.do(t, http.MethodGet, "/admin/testimonials", nil, a.token), &all)
	assert.Len(t, all, 1)

	update := map[string]interface{}{
		"id": created.ID, "name": "Ann Lee", "role": "CEO", "company": "Acme", "content": "Still great", "isActive": true,
	}
	rr = a.do(t, http.MethodPut, "/testimonials", update, a.token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var updated prits.Testimonial
	decodeBody(t, rr, &updated)
	assert.Equal(t, "Ann Lee", updated.Name)
	assert.Nil(t, updated.Rating)
	assert.True(t, updated.IsActive)

	rr = a.do(t, http.MethodDelete, "/testimonials", map[string]string{"id": created.ID}, a.token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true}`, rr.Body.String())

	rr = a.do(t, http.MethodPut, "/testimonials", update, a.token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = a.do(t, http.MethodDelete, "/testimonials", map[string]string{"id": created.ID}, a.token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, 0, a.testimonials.len())
}

func TestDeleteNonexistentTestimonial(t *testing.T) {
	a := newApp(t)
	a.testimonials.items["t1"] = prits.Testimonial{ID: "t1", Name: "Ann", IsActive: true}

	rr := a.do(t, http.MethodDelete, "/testimonials", map[string]string{"id": "nonexistent"}, a.token)
	require.Equal(t, http.StatusNotFound, rr.Code)

	var body errorBody
	decodeBody(t, rr, &body)
	assert.Equal(t, prits.ErrTestimonialNotFound.Error(), body.Error)
	assert.Equal(t, 1, a.testimonials.len())

	rr = a.do(t, http.MethodDelete, "/testimonials", map[string]string{}, a.token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateTestimonialValidation(t *testing.T) {
	tests := []struct {
		name  string
		body  map[string]interface{}
		field string
	}{
		{
			name:  "bad avatar",
			body:  map[string]interface{}{"name": "Ann", "role": "CEO", "company": "Acme", "content": "Great", "avatar": "not a url"},
			field: "avatar",
		},
		{
			name:  "rating out of range",
			body:  map[string]interface{}{"name": "Ann", "role": "CEO", "company": "Acme", "content": "Great", "rating": 6},
			field: "rating",
		},
		{
			name:  "missing company",
			body:  map[string]interface{}{"name": "Ann", "role": "CEO", "content": "Great"},
			field: "company",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newApp(t)

			rr := a.do(t, http.MethodPost, "/testimonials", tt.body, a.token)
			require.Equal(t, http.StatusBadRequest, rr.Code)

			var body errorBody
			decodeBody(t, rr, &body)
			assert.Contains(t, body.Fields, tt.field)
			assert.Equal(t, 0, a.testimonials.len())
		})
	}
}

func TestLoginLogout(t *testing.T) {
	a := newApp(t)

	rr := a.do(t, http.MethodPost, "/auth/login", map[string]string{"email": adminEmail, "password": "wrong"}, "")
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Empty(t, rr.Result().Cookies())

	rr = a.do(t, http.MethodPost, "/auth/login", map[string]string{"email": adminEmail, "password": adminPassword}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var s struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
	decodeBody(t, rr, &s)
	assert.NotEmpty(t, s.Token)
	assert.True(t, s.ExpiresAt.After(time.Now()))

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/enquiries", nil)
	req.AddCookie(cookies[0])
	list := httptest.NewRecorder()
	a.handler.ServeHTTP(list, req)
	assert.Equal(t, http.StatusOK, list.Code)

	rr = a.do(t, http.MethodPost, "/auth/logout", nil, "")
	require.Equal(t, http.StatusNoContent, rr.Code)
	cookies = rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestPlans(t *testing.T) {
	a := newApp(t)

	rr := a.do(t, http.MethodGet, "/plans", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var c catalog.Catalog
	decodeBody(t, rr, &c)
	assert.Len(t, c.Services, 5)

	rr = a.do(t, http.MethodGet, "/plans?type=SEO%20Services", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var s catalog.Service
	decodeBody(t, rr, &s)
	assert.Equal(t, "SEO Services", s.Type)

	rr = a.do(t, http.MethodGet, "/plans?type=Astrology", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDashboard(t *testing.T) {
	a := newApp(t)
	a.stats.stats = prits.Stats{
		Enquiries:    prits.SubmissionStats{Total: 4, New: 2, Recent: 1},
		Testimonials: prits.TestimonialStats{Total: 3, Active: 2},
	}

	rr := a.do(t, http.MethodGet, "/admin/stats", nil, a.token)
	require.Equal(t, http.StatusOK, rr.Code)

	var got prits.Stats
	decodeBody(t, rr, &got)
	assert.Equal(t, a.stats.stats, got)
	assert.WithinDuration(t, time.Now().Add(-prits.RecentWindow), a.stats.since, time.Minute)
}

func TestHealth(t *testing.T) {
	a := newApp(t)

	rr := a.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	a.healthErr = errors.New("connection refused")
	rr = a.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	a := newApp(t)
	a.do(t, http.MethodGet, "/testimonials", nil, "")

	rr := a.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `route="/testimonials"`)
}
