package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCloudinaryService_Upload(t *testing.T) {
	sig := &UploadSignature{
		Signature:   "sig123",
		Timestamp:   1700000000,
		AccountName: "demo-cloud",
		APIKey:      "key",
		Folder:      "curriculum/videos",
		PublicID:    "vid_1",
	}

	t.Run("posts signed fields to the account endpoint", func(t *testing.T) {
		var gotPath string
		var gotFields map[string]string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Fatalf("failed to parse multipart: %v", err)
			}

			gotFields = map[string]string{}
			for k, v := range r.MultipartForm.Value {
				gotFields[k] = v[0]
			}

			if _, _, err := r.FormFile("file"); err != nil {
				t.Fatalf("missing file part: %v", err)
			}

			json.NewEncoder(w).Encode(CloudUploadResult{
				SecureURL: "https://res.example.com/vid_1.mp4",
				PublicID:  "curriculum/videos/vid_1",
				Bytes:     7,
			})
		}))
		defer server.Close()

		svc := NewCloudinaryService(server.URL, nil)
		result, err := svc.Upload(context.Background(), sig, "video", UploadFile{
			Reader: strings.NewReader("mp4-hdr"),
			Name:   "intro.mp4",
			Size:   7,
		}, nil)

		if err != nil {
			t.Fatalf("upload failed: %v", err)
		}
		if gotPath != "/demo-cloud/video/upload" {
			t.Errorf("endpoint path = %q", gotPath)
		}

		want := map[string]string{
			"api_key":         "key",
			"timestamp":       "1700000000",
			"signature":       "sig123",
			"folder":          "curriculum/videos",
			"public_id":       "vid_1",
			"use_filename":    "true",
			"unique_filename": "true",
		}
		for k, v := range want {
			if gotFields[k] != v {
				t.Errorf("field %s = %q, want %q", k, gotFields[k], v)
			}
		}
		if result.SecureURL != "https://res.example.com/vid_1.mp4" {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("defaults empty resource type to video", func(t *testing.T) {
		var gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			json.NewEncoder(w).Encode(CloudUploadResult{})
		}))
		defer server.Close()

		svc := NewCloudinaryService(server.URL, nil)
		_, err := svc.Upload(context.Background(), sig, "", UploadFile{
			Reader: strings.NewReader("x"), Name: "a.mp4", Size: 1,
		}, nil)

		if err != nil {
			t.Fatalf("upload failed: %v", err)
		}
		if gotPath != "/demo-cloud/video/upload" {
			t.Errorf("endpoint path = %q", gotPath)
		}
	})

	t.Run("reports transfer progress in bytes", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Fatalf("failed to parse multipart: %v", err)
			}
			json.NewEncoder(w).Encode(CloudUploadResult{})
		}))
		defer server.Close()

		var lastSent, total int64
		svc := NewCloudinaryService(server.URL, nil)
		_, err := svc.Upload(context.Background(), sig, "video", UploadFile{
			Reader: strings.NewReader("0123456789"), Name: "a.mp4", Size: 10,
		}, func(sent, t int64) { lastSent, total = sent, t })

		if err != nil {
			t.Fatalf("upload failed: %v", err)
		}
		if lastSent != 10 || total != 10 {
			t.Errorf("progress observed %d/%d, want 10/10", lastSent, total)
		}
	})

	t.Run("surfaces provider error message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]string{"message": "Invalid Signature"},
			})
		}))
		defer server.Close()

		svc := NewCloudinaryService(server.URL, nil)
		_, err := svc.Upload(context.Background(), sig, "video", UploadFile{
			Reader: strings.NewReader("x"), Name: "a.mp4", Size: 1,
		}, nil)

		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "Invalid Signature") {
			t.Errorf("expected provider message, got %v", err)
		}
	})

	t.Run("rejects nil signature", func(t *testing.T) {
		svc := NewCloudinaryService("", nil)
		_, err := svc.Upload(context.Background(), nil, "video", UploadFile{}, nil)
		if err == nil {
			t.Fatal("expected error for nil signature")
		}
	})
}

func TestResourceTypeFor(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{"video/mp4", "video"},
		{"audio/mpeg", "video"},
		{"", "video"},
		{"image/png", "image"},
		{"application/pdf", "raw"},
	}

	for _, tc := range tests {
		t.Run(tc.mime, func(t *testing.T) {
			if got := ResourceTypeFor(tc.mime); got != tc.want {
				t.Errorf("ResourceTypeFor(%q) = %q, want %q", tc.mime, got, tc.want)
			}
		})
	}
}
