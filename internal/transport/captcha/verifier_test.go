package captcha

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestVerify_TestModeAlwaysPasses(t *testing.T) {
	v := New(Config{TestMode: true, VerifyURL: "http://127.0.0.1:1/unreachable"})
	ok, err := v.Verify(context.Background(), "1.2.3.4", "c", "r")
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
}

func TestVerify_PostsForm(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"accepted", "true\nsuccess", true},
		{"rejected", "false\nincorrect-captcha-sol", false},
		{"true only on second line", "false\ntrue", false},
		{"empty", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if err := r.ParseForm(); err != nil {
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				if r.PostForm.Get("privatekey") != "secret" || r.PostForm.Get("remoteip") != "1.2.3.4" ||
					r.PostForm.Get("challenge") != "c" || r.PostForm.Get("response") != "r" {
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			v := New(Config{VerifyURL: srv.URL, PrivateKey: "secret"})
			ok, err := v.Verify(context.Background(), "1.2.3.4", "c", "r")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tc.want {
				t.Errorf("ok = %v, want %v", ok, tc.want)
			}
		})
	}
}

func TestVerify_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	v := New(Config{VerifyURL: srv.URL})
	if _, err := v.Verify(context.Background(), "", "", ""); err == nil {
		t.Fatal("expected error")
	}
}
