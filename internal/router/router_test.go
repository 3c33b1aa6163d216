package router_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"pet-registry/internal/adapters/storage/memory"
	"pet-registry/internal/domain/sheetimport"
	"pet-registry/internal/ports/filestore"
	"pet-registry/internal/ports/imagehost"
	"pet-registry/internal/router"
)

// Test doubles mínimos para una corrida end-to-end por HTTP.

type gridSource [][]any

func (g gridSource) Read(context.Context) ([][]any, error) { return g, nil }

type emptyDrive struct{}

func (emptyDrive) ListChildren(context.Context, string) ([]filestore.File, error) { return nil, nil }
func (emptyDrive) GetFile(_ context.Context, id string) (filestore.File, error) {
	return filestore.File{ID: id}, nil
}
func (emptyDrive) Download(context.Context, string) (io.ReadCloser, error) { return nil, io.EOF }

type cdnOnly struct{}

func (cdnOnly) UploadStream(context.Context, io.Reader, imagehost.UploadParams) (imagehost.Result, error) {
	return imagehost.Result{}, io.ErrUnexpectedEOF
}
func (cdnOnly) UploadURL(context.Context, string, imagehost.UploadParams) (imagehost.Result, error) {
	return imagehost.Result{}, io.ErrUnexpectedEOF
}
func (cdnOnly) Hosts(u string) bool { return len(u) > 0 }

func newServer(t *testing.T, token string) (*httptest.Server, *memory.PetRepo) {
	t.Helper()

	repo := memory.NewPetRepo()
	svc := sheetimport.NewService(sheetimport.Deps{
		Source: gridSource{
			{"Code", "Name", "Birth Date", "Gender", "Image"},
			{"A01", "Rex", "15/03/2021", "Đực", "https://res.cloudinary.com/demo/a01.jpg"},
			{"", "NoCode", "15/03/2021", "Male", ""},
			{"B02", "Luna", "31/02/2021", "Female", ""},
		},
		Files:        emptyDrive{},
		Host:         cdnOnly{},
		Repo:         repo,
		SheetID:      "sheet-1",
		RootFolderID: "root",
	})

	ts := httptest.NewServer(router.NewRouter(router.Options{Sync: svc, AdminToken: token}))
	t.Cleanup(ts.Close)
	return ts, repo
}

func post(t *testing.T, url, token string) (int, map[string]any) {
	t.Helper()

	req, _ := http.NewRequest(http.MethodPost, url, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer res.Body.Close()

	var body map[string]any
	_ = json.NewDecoder(res.Body).Decode(&body)
	return res.StatusCode, body
}

func TestHTTP_SyncEndToEnd(t *testing.T) {
	ts, repo := newServer(t, "s3cret")

	// 1) sin token => 401
	if st, _ := post(t, ts.URL+"/pets/sync", ""); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", st)
	}

	// 2) primera corrida
	st, body := post(t, ts.URL+"/pets/sync", "s3cret")
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%v", st, body)
	}
	if body["message"] != "Import succeeded" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
	if body["inserted"] != float64(1) || body["skippedNoCode"] != float64(1) || body["skippedBadDate"] != float64(1) {
		t.Fatalf("unexpected counters: %v", body)
	}
	if body["uploadedImages"] != float64(1) {
		t.Fatalf("CDN passthrough should count as uploaded: %v", body)
	}

	all, _ := repo.List(context.Background())
	if len(all) != 1 || all[0].Code != "A01" || all[0].Gender != "Male" {
		t.Fatalf("unexpected stored pets: %+v", all)
	}

	// 3) segunda corrida: idempotente
	st, body = post(t, ts.URL+"/pets/sync", "s3cret")
	if st != http.StatusOK || body["inserted"] != float64(0) || body["skippedExists"] != float64(1) {
		t.Fatalf("second run should skip existing: status=%d body=%v", st, body)
	}
}

func TestHTTP_StatusAndHealth(t *testing.T) {
	ts, _ := newServer(t, "")

	res, err := http.Get(ts.URL + "/health")
	if err != nil || res.StatusCode != http.StatusOK {
		t.Fatalf("health failed: %v", err)
	}
	res.Body.Close()

	res, err = http.Get(ts.URL + "/pets/sync/status")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	defer res.Body.Close()

	var body map[string]bool
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["running"] {
		t.Fatalf("no run should be in progress")
	}
}

func TestHTTP_SwaggerDoc(t *testing.T) {
	ts, _ := newServer(t, "")

	res, err := http.Get(ts.URL + "/swagger/doc.json")
	if err != nil {
		t.Fatalf("swagger failed: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for swagger doc, got %d", res.StatusCode)
	}
}
