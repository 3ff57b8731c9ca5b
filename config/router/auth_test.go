package router

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireBearer(t *testing.T) {
	rs := newTestRouterService(t)

	validate := func(_ context.Context, token string) (any, error) {
		if token != "good" {
			return nil, errors.New("bad token")
		}
		return "session-1", nil
	}

	rs.MountController(NewRESTController("Secured", "/secure", func(rs *RouterService, c *RESTController) {
		rs.AddGetHandler(c, nil, "", func(ctx *RequestContext) *ServiceResult {
			session, _ := AuthSession(ctx)
			return OKResult(session, "ok")
		}, RequireBearer(validate))
	}))

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"rejected token", "Bearer nope", http.StatusUnauthorized},
		{"accepted token", "bearer good", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/secure", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			rs.GetEngine().ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code, w.Body.String())
			if tc.status == http.StatusOK {
				assert.Contains(t, w.Body.String(), "session-1")
			}
		})
	}
}

func TestHandlerRateLimitOverride_Returns429(t *testing.T) {
	rs := newTestRouterService(t)

	rs.MountController(NewRESTController("Limited", "/limited", func(rs *RouterService, c *RESTController) {
		rs.AddPostHandler(c, rs.NewRateLimiter(1, time.Minute), "", func(ctx *RequestContext) *ServiceResult {
			return CreatedResult(nil, "Thing")
		})
	}))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/limited", nil)
		req.RemoteAddr = "10.0.0.9:1234"
		w := httptest.NewRecorder()
		rs.GetEngine().ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusCreated, send().Code)

	w := send()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestAddPageHandler_RendersTemplate(t *testing.T) {
	rs := newTestRouterService(t)
	rs.SetHTMLTemplate(template.Must(template.New("hello.html").Parse(`<h1>{{.}}</h1>`)))

	rs.MountController(NewRESTController("Pages", "/", func(rs *RouterService, c *RESTController) {
		rs.AddPageHandler(c, nil, "hello", func(ctx *RequestContext) *PageResult {
			return &PageResult{Template: "hello.html", Data: "RSVP <now>"}
		})
	}))

	req := httptest.NewRequest(http.MethodGet, "/hello", nil)
	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<h1>RSVP &lt;now&gt;</h1>", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
}

func TestUnknownRoute_Returns404Envelope(t *testing.T) {
	rs := newTestRouterService(t)

	req := httptest.NewRequest(http.MethodGet, "/nowhere", nil)
	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"message"`)
}
