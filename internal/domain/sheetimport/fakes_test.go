package sheetimport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"pet-registry/internal/domain/pets"
	"pet-registry/internal/platform/logger"
	"pet-registry/internal/ports/filestore"
	"pet-registry/internal/ports/imagehost"
)

// -------------------------
// File store (in-memory)
// -------------------------

type fakeProvider struct {
	mu       sync.Mutex
	children map[string][]filestore.File
	byID     map[string]filestore.File
	content  map[string]string

	listErr     error
	downloadErr error
	listCalls   int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		children: map[string][]filestore.File{},
		byID:     map[string]filestore.File{},
		content:  map[string]string{},
	}
}

func (p *fakeProvider) add(parent string, f filestore.File) {
	p.children[parent] = append(p.children[parent], f)
	p.byID[f.ID] = f
	if !f.IsFolder() && !f.IsShortcut() {
		p.content[f.ID] = "bytes-of-" + f.ID
	}
}

func (p *fakeProvider) ListChildren(ctx context.Context, folderID string) ([]filestore.File, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listCalls++
	if p.listErr != nil {
		return nil, p.listErr
	}
	return append([]filestore.File(nil), p.children[folderID]...), nil
}

func (p *fakeProvider) GetFile(ctx context.Context, id string) (filestore.File, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if f, ok := p.byID[id]; ok {
		return f, nil
	}
	// carpeta raíz sin metadata explícita
	return filestore.File{ID: id, MimeType: filestore.MimeFolder}, nil
}

func (p *fakeProvider) Download(ctx context.Context, id string) (io.ReadCloser, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.downloadErr != nil {
		return nil, p.downloadErr
	}
	c, ok := p.content[id]
	if !ok {
		return nil, fmt.Errorf("file %s not found", id)
	}
	return io.NopCloser(strings.NewReader(c)), nil
}

// -------------------------
// Image host
// -------------------------

type upload struct {
	Source string // "stream:<contenido>" o "url:<url>"
	Params imagehost.UploadParams
}

type fakeHost struct {
	mu      sync.Mutex
	uploads []upload
	err     error
}

const fakeCDN = "https://cdn.test/"

func (h *fakeHost) UploadStream(ctx context.Context, r io.Reader, p imagehost.UploadParams) (imagehost.Result, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return imagehost.Result{}, err
	}
	return h.record("stream:"+buf.String(), p)
}

func (h *fakeHost) UploadURL(ctx context.Context, url string, p imagehost.UploadParams) (imagehost.Result, error) {
	return h.record("url:"+url, p)
}

func (h *fakeHost) record(src string, p imagehost.UploadParams) (imagehost.Result, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return imagehost.Result{}, h.err
	}
	h.uploads = append(h.uploads, upload{Source: src, Params: p})
	return imagehost.Result{
		SecureURL: fakeCDN + p.Folder + "/" + p.PublicID + "." + p.Format,
		PublicID:  p.Folder + "/" + p.PublicID,
	}, nil
}

func (h *fakeHost) Hosts(url string) bool { return strings.HasPrefix(url, fakeCDN) }

// -------------------------
// Pets repo (in-memory)
// -------------------------

var errRepoDuplicate = errors.New("repo: duplicate code")

type testRepo struct {
	mu        sync.Mutex
	byCode    map[string]pets.Pet
	existsErr error
	batches   int
}

func newTestRepo(existing ...string) *testRepo {
	r := &testRepo{byCode: map[string]pets.Pet{}}
	for _, c := range existing {
		r.byCode[c] = pets.Pet{Code: c}
	}
	return r
}

func (r *testRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.existsErr != nil {
		return false, r.existsErr
	}
	_, ok := r.byCode[code]
	return ok, nil
}

func (r *testRepo) InsertMany(ctx context.Context, docs []pets.Pet) (pets.BulkReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches++
	var rep pets.BulkReport
	for i, d := range docs {
		if _, ok := r.byCode[d.Code]; ok {
			rep.Fail(i, d.Code, errRepoDuplicate)
			continue
		}
		r.byCode[d.Code] = d
		rep.Inserted++
	}
	return rep, nil
}

// -------------------------
// Notifier / journal
// -------------------------

type fakeNotifier struct {
	mu   sync.Mutex
	msgs []string
	err  error
}

func (n *fakeNotifier) Send(ctx context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, text)
	return n.err
}

type recJournal struct {
	mu    sync.Mutex
	lines []string
}

func (j *recJournal) add(m, msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.lines = append(j.lines, m+" "+msg)
}

func (j *recJournal) Info(msg string)    { j.add("INFO", msg) }
func (j *recJournal) Success(msg string) { j.add("OK", msg) }
func (j *recJournal) Warn(msg string)    { j.add("WARN", msg) }
func (j *recJournal) Error(msg string)   { j.add("ERR", msg) }

func (j *recJournal) contains(marker, substr string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, l := range j.lines {
		if strings.HasPrefix(l, marker+" ") && strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

func testRunLog(j Journal) runLog {
	return newRunLog(logger.Nop(), j)
}
