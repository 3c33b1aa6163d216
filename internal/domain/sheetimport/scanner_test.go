package sheetimport

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-registry/internal/ports/filestore"
)

// root
// ├── A01.jpg
// ├── notes.txt (text/plain)
// ├── B02.HEIC (mime vacío: entra por extensión)
// ├── link-C03 (shortcut)
// └── sub/
//     ├── D04.png
//     └── deeper/
//         └── E05.webp
func treeProvider() *fakeProvider {
	p := newFakeProvider()
	p.add("root", filestore.File{ID: "a", Name: "A01.jpg", MimeType: "image/jpeg"})
	p.add("root", filestore.File{ID: "n", Name: "notes.txt", MimeType: "text/plain"})
	p.add("root", filestore.File{ID: "b", Name: "B02.HEIC", MimeType: ""})
	p.add("root", filestore.File{ID: "s", Name: "link-C03", MimeType: filestore.MimeShortcut, ShortcutTargetID: "c"})
	p.add("root", filestore.File{ID: "sub", Name: "sub", MimeType: filestore.MimeFolder})
	p.add("sub", filestore.File{ID: "d", Name: "D04.png", MimeType: "image/png"})
	p.add("sub", filestore.File{ID: "deeper", Name: "deeper", MimeType: filestore.MimeFolder})
	p.add("deeper", filestore.File{ID: "e", Name: "E05.webp", MimeType: "application/octet-stream"})
	return p
}

func names(fs []filestore.File) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Name
	}
	return out
}

func TestIsLikelyImage(t *testing.T) {
	assert.True(t, IsLikelyImage(filestore.File{MimeType: "image/x-anything"}))
	assert.True(t, IsLikelyImage(filestore.File{MimeType: "IMAGE/HEIC"}))
	assert.True(t, IsLikelyImage(filestore.File{Name: "x.JpEg", MimeType: "application/octet-stream"}))
	assert.False(t, IsLikelyImage(filestore.File{Name: "x.pdf", MimeType: "application/pdf"}))
	assert.False(t, IsLikelyImage(filestore.File{}))
}

func TestScanner_RecursiveBFS(t *testing.T) {
	j := &recJournal{}
	s := NewScanner(treeProvider(), true, testRunLog(j))

	got, err := s.ListImagesRecursive(context.Background(), "root")
	require.NoError(t, err)
	assert.Equal(t, []string{"A01.jpg", "B02.HEIC", "link-C03", "D04.png", "E05.webp"}, names(got))
	assert.True(t, j.contains("INFO", "scanned 2 folders, collected 5 files"))
}

func TestScanner_OneLevel(t *testing.T) {
	s := NewScanner(treeProvider(), false, testRunLog(nil))

	got, err := s.ListImages(context.Background(), "root")
	require.NoError(t, err)
	assert.Equal(t, []string{"A01.jpg", "B02.HEIC", "link-C03"}, names(got))
}

func TestScanner_RootShortcutResolved(t *testing.T) {
	p := treeProvider()
	p.byID["root-link"] = filestore.File{ID: "root-link", MimeType: filestore.MimeShortcut, ShortcutTargetID: "sub"}
	s := NewScanner(p, true, testRunLog(nil))

	got, err := s.ListImages(context.Background(), "root-link")
	require.NoError(t, err)
	assert.Equal(t, []string{"D04.png", "E05.webp"}, names(got))
}

func TestScanner_ResolveShortcut(t *testing.T) {
	s := NewScanner(treeProvider(), true, testRunLog(nil))

	id, err := s.ResolveShortcut(context.Background(), "s")
	require.NoError(t, err)
	assert.Equal(t, "c", id)

	id, err = s.ResolveShortcut(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "a", id)
}

func TestScanner_ListingErrorIsFatal(t *testing.T) {
	p := treeProvider()
	p.listErr = errors.New("403 forbidden")
	s := NewScanner(p, true, testRunLog(nil))

	_, err := s.ListImages(context.Background(), "root")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrListing)
}

func TestCatalog_ListsOncePerRun(t *testing.T) {
	p := treeProvider()
	c := newCatalog(NewScanner(p, false, testRunLog(nil)), "root")

	for i := 0; i < 3; i++ {
		got, err := c.Files(context.Background())
		require.NoError(t, err)
		assert.Len(t, got, 3)
	}
	assert.Equal(t, 1, p.listCalls)

	_, err := newCatalog(NewScanner(p, false, testRunLog(nil)), "").Files(context.Background())
	assert.ErrorIs(t, err, ErrConfig)
}
