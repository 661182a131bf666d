package validator

import (
	"strings"
	"testing"
)

func TestValidateUpload(t *testing.T) {
	t.Run("valid upload", func(t *testing.T) {
		v := New()
		ValidateUpload(v, 10*1024, "image/png")
		if !v.Ok() {
			t.Errorf("unexpected validation errors: %v", v)
		}
	})

	t.Run("content type comparison is case-insensitive", func(t *testing.T) {
		v := New()
		ValidateUpload(v, 10*1024, "IMAGE/JPEG")
		if !v.Ok() {
			t.Errorf("unexpected validation errors: %v", v)
		}
	})

	t.Run("empty payload", func(t *testing.T) {
		v := New()
		ValidateUpload(v, 0, "image/png")
		if v.Ok() {
			t.Fatal("expected validation error for empty payload")
		}
		if _, ok := v["image"]; !ok {
			t.Errorf("expected error on the image key, got: %v", v)
		}
	})

	t.Run("payload over the ceiling", func(t *testing.T) {
		v := New()
		ValidateUpload(v, MaxUploadBytes+1, "image/png")
		if v.Ok() {
			t.Fatal("expected validation error for oversized payload")
		}
		if !strings.Contains(v["image"], "5 MB") {
			t.Errorf("error message must state the ceiling, got: %q", v["image"])
		}
	})

	t.Run("payload exactly at the ceiling", func(t *testing.T) {
		v := New()
		ValidateUpload(v, MaxUploadBytes, "image/png")
		if !v.Ok() {
			t.Errorf("unexpected validation errors: %v", v)
		}
	})

	t.Run("unsupported content type", func(t *testing.T) {
		v := New()
		ValidateUpload(v, 10*1024, "application/pdf")
		if v.Ok() {
			t.Fatal("expected validation error for unsupported type")
		}
		for _, allowed := range AllowedImageTypes {
			if !strings.Contains(v["content_type"], allowed) {
				t.Errorf("error message must enumerate the allow-list, missing %q: %q", allowed, v["content_type"])
			}
		}
	})
}

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		password string
		ok       bool
	}{
		{"valid", "alice", "a@x.com", "secret-1", true},
		{"missing username", "", "a@x.com", "secret-1", false},
		{"bad email", "alice", "not-an-email", "secret-1", false},
		{"short password", "alice", "a@x.com", "short", false},
		{"missing password", "alice", "a@x.com", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			ValidateRegistration(v, tt.username, tt.email, tt.password)
			if v.Ok() != tt.ok {
				t.Errorf("Ok() = %v, want %v (errors: %v)", v.Ok(), tt.ok, v)
			}
		})
	}
}
