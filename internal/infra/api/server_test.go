package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tender-analysis-service/internal/domain"
	"tender-analysis-service/internal/domain/model"
	"tender-analysis-service/internal/usecase"
)

func doRequest(t *testing.T, f *serverFixture, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.server.Routes().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestServer_LoginIssuesUsableToken(t *testing.T) {
	t.Parallel()

	f := newServerFixture()
	f.user.authenticate = func(ctx context.Context, email, password string) (*model.User, error) {
		if email != "a@b.c" || password != "password1" {
			return nil, domain.ErrInvalidCredentials
		}
		return &model.User{ID: 7, Email: email, Username: "a", IsActive: true}, nil
	}
	f.user.get = func(ctx context.Context, id int64) (*model.User, error) {
		return &model.User{ID: id, Email: "a@b.c", Username: "a", IsActive: true}, nil
	}

	rec := doRequest(t, f, http.MethodPost, "/api/auth/login", "", loginRequest{Email: "a@b.c", Password: "password1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status %d: %s", rec.Code, rec.Body.String())
	}
	tok := decode[tokenResponse](t, rec)
	if tok.TokenType != "bearer" || tok.AccessToken == "" {
		t.Fatalf("token response %+v", tok)
	}
	if tok.User.ID != 7 {
		t.Fatalf("user id %d, want 7", tok.User.ID)
	}

	// The issued token authenticates follow-up requests.
	rec = doRequest(t, f, http.MethodGet, "/api/auth/me", tok.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me status %d: %s", rec.Code, rec.Body.String())
	}
	me := decode[userResponse](t, rec)
	if me.ID != 7 {
		t.Fatalf("me id %d, want 7", me.ID)
	}
}

func TestServer_LoginFailureMapsTo401(t *testing.T) {
	t.Parallel()

	f := newServerFixture()
	f.user.authenticate = func(ctx context.Context, email, password string) (*model.User, error) {
		return nil, domain.ErrInvalidCredentials
	}

	rec := doRequest(t, f, http.MethodPost, "/api/auth/login", "", loginRequest{Email: "a@b.c", Password: "nope"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "incorrect email or password") {
		t.Fatalf("body %q", rec.Body.String())
	}
}

func TestServer_LoginRateLimitMapsTo429(t *testing.T) {
	t.Parallel()

	f := newServerFixture()
	f.user.authenticate = func(ctx context.Context, email, password string) (*model.User, error) {
		return nil, domain.ErrRateLimited
	}

	rec := doRequest(t, f, http.MethodPost, "/api/auth/login", "", loginRequest{Email: "a@b.c", Password: "x"})
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status %d, want 429", rec.Code)
	}
}

func TestServer_ProtectedRoutesRejectBadTokens(t *testing.T) {
	t.Parallel()

	f := newServerFixture()
	expired := NewTokenIssuer("test-secret", -time.Hour)
	expiredToken, err := expired.Issue(7)
	if err != nil {
		t.Fatal(err)
	}
	otherSecret := NewTokenIssuer("other-secret", time.Hour)
	foreignToken, err := otherSecret.Issue(7)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"garbage", "not-a-jwt"},
		{"expired", expiredToken},
		{"wrong secret", foreignToken},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec := doRequest(t, f, http.MethodGet, "/api/documents/", tc.token, nil)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status %d, want 401", rec.Code)
			}
		})
	}
}

func TestServer_AnalysisCreatePassesOwnerFromToken(t *testing.T) {
	t.Parallel()

	f := newServerFixture()
	token, err := f.tokens.Issue(7)
	if err != nil {
		t.Fatal(err)
	}

	var gotOwner int64
	f.analysis.create = func(ctx context.Context, ownerID int64, name, aiModel string, checklistID int64, documentIDs []int64) (*model.Analysis, error) {
		gotOwner = ownerID
		return &model.Analysis{
			ID: 5, Name: name, Status: model.AnalysisStatusPending,
			AIModel: aiModel, OwnerID: ownerID, ChecklistID: checklistID,
		}, nil
	}

	rec := doRequest(t, f, http.MethodPost, "/api/analysis/", token, analysisCreateRequest{
		Name:        "Q3 tender",
		ChecklistID: 3,
		DocumentIDs: []int64{1, 2},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if gotOwner != 7 {
		t.Fatalf("owner %d, want the token subject 7", gotOwner)
	}
	resp := decode[analysisResponse](t, rec)
	if resp.ID != 5 || resp.Status != "pending" {
		t.Fatalf("response %+v", resp)
	}
}

func TestServer_AnalysisGetMapsDomainErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"invalid", domain.ErrInvalidArgument, http.StatusBadRequest},
		{"internal", fmt.Errorf("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := newServerFixture()
			token, err := f.tokens.Issue(7)
			if err != nil {
				t.Fatal(err)
			}
			f.analysis.get = func(ctx context.Context, ownerID, id int64) (*usecase.AnalysisDetail, error) {
				return nil, tc.err
			}
			rec := doRequest(t, f, http.MethodGet, "/api/analysis/5", token, nil)
			if rec.Code != tc.want {
				t.Fatalf("status %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestServer_QueueStatus(t *testing.T) {
	t.Parallel()

	f := newServerFixture()
	f.analysis.pending = 3
	f.analysis.processing = 2
	token, err := f.tokens.Issue(7)
	if err != nil {
		t.Fatal(err)
	}

	rec := doRequest(t, f, http.MethodGet, "/api/analysis/queue", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	depth := decode[map[string]int](t, rec)
	if depth["pending"] != 3 || depth["processing"] != 2 {
		t.Fatalf("depth %v", depth)
	}
}

func TestServer_DocumentUploadMultipart(t *testing.T) {
	t.Parallel()

	f := newServerFixture()
	token, err := f.tokens.Issue(7)
	if err != nil {
		t.Fatal(err)
	}
	f.document.upload = func(ctx context.Context, ownerID int64, originalFilename, mimeType string, data []byte) (*model.Document, error) {
		return &model.Document{
			ID: 1, Filename: "01J5.pdf", OriginalFilename: originalFilename,
			FileSize: int64(len(data)), Language: "de",
			Status: model.DocumentStatusProcessed, OwnerID: ownerID,
		}, nil
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "tender.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte("%PDF-1.4 fake")); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/documents/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	f.server.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	resp := decode[documentResponse](t, rec)
	if resp.OriginalFilename != "tender.pdf" || resp.Status != "processed" {
		t.Fatalf("response %+v", resp)
	}
}

func TestServer_DocumentUploadTooLarge(t *testing.T) {
	t.Parallel()

	f := newServerFixture()
	f.server.maxUploadBytes = 64
	token, err := f.tokens.Issue(7)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "big.pdf")
	fw.Write(bytes.Repeat([]byte("x"), 4096))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/documents/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	f.server.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status %d, want 413", rec.Code)
	}
}

func TestServer_HealthReportsQueueDepth(t *testing.T) {
	t.Parallel()

	f := newServerFixture()
	f.analysis.pending = 1
	f.analysis.processing = 2

	rec := doRequest(t, f, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	body := decode[map[string]any](t, rec)
	if body["status"] != "ok" {
		t.Fatalf("body %v", body)
	}
	if body["queue_pending"] != float64(1) || body["queue_processing"] != float64(2) {
		t.Fatalf("queue depth %v", body)
	}
}
