package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRemoteIP(t *testing.T) {
	cases := []struct {
		name string
		hdr  map[string]string
		addr string
		want string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.2:5555", "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.4"}, "10.0.0.2:5555", "198.51.100.4"},
		{"remote addr", nil, "192.0.2.9:41000", "192.0.2.9"},
		{"remote addr without port", nil, "192.0.2.9", "192.0.2.9"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/reviews", nil)
			r.RemoteAddr = tc.addr
			for k, v := range tc.hdr {
				r.Header.Set(k, v)
			}
			if got := remoteIP(r); got != tc.want {
				t.Fatalf("remoteIP = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestStatusRecorder(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := &srw{ResponseWriter: rec}
	if sw.Status() != http.StatusOK {
		t.Fatalf("default status = %d", sw.Status())
	}
	_, _ = sw.Write([]byte("x"))
	sw.WriteHeader(http.StatusTeapot)
	if sw.Status() != http.StatusOK {
		t.Fatalf("status after implicit 200 = %d", sw.Status())
	}

	sw = &srw{ResponseWriter: httptest.NewRecorder()}
	sw.WriteHeader(http.StatusBadRequest)
	if sw.Status() != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", sw.Status())
	}
}

func TestTimeout_WritesJSONError(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	rec := httptest.NewRecorder()
	Timeout(20*time.Millisecond)(slow).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reviews", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if rec.Body.String() != `{"error":"request timed out"}` {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestRouteOf_UsesPattern(t *testing.T) {
	s := New(time.Second)
	var seen string
	s.mux.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		seen = routeOf(r)
	})
	s.Mux().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/42", nil))
	if seen != "/items/{id}" {
		t.Fatalf("route = %q", seen)
	}
}
