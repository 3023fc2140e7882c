package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeTree creates dirs (names ending in "/") and files under root.
func makeTree(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		p := filepath.Join(root, filepath.FromSlash(name))
		if name[len(name)-1] == '/' {
			require.NoError(t, os.MkdirAll(p, 0755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(name), 0644))
	}
}

func newTestService(t *testing.T) (*Service, *Resolver, string) {
	t.Helper()
	r, root := newTestResolver(t)
	return NewService(r), r, root
}

func names(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func TestList_FoldersFirstCaseInsensitive(t *testing.T) {
	t.Parallel()
	svc, r, root := newTestService(t)
	makeTree(t, root, "b.txt", "A/", "a.txt", "B/")

	dir, err := r.Resolve("")
	require.NoError(t, err)

	listing, err := svc.List(dir)
	require.NoError(t, err)

	assert.Equal(t, "", listing.SubPath)
	assert.Equal(t, []string{"A", "B", "a.txt", "b.txt"}, names(listing.Entries))
	assert.True(t, listing.Entries[0].IsDir)
	assert.True(t, listing.Entries[1].IsDir)
	assert.False(t, listing.Entries[2].IsDir)
	assert.Equal(t, "a.txt", listing.Entries[2].Path)
	assert.Equal(t, int64(len("a.txt")), listing.Entries[2].Size)
}

func TestList_MixedCaseOrdering(t *testing.T) {
	t.Parallel()
	svc, r, root := newTestService(t)
	makeTree(t, root, "zeta.md", "Alpha.md", "beta.md", "Docs/", "archive/")

	dir, err := r.Resolve("")
	require.NoError(t, err)

	listing, err := svc.List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"archive", "Docs", "Alpha.md", "beta.md", "zeta.md"}, names(listing.Entries))
}

func TestList_ParentEntry(t *testing.T) {
	t.Parallel()
	svc, r, root := newTestService(t)
	makeTree(t, root, "docs/", "docs/guides/", "docs/guides/intro.md", "docs/readme.md")

	t.Run("top level directory points at root", func(t *testing.T) {
		t.Parallel()
		dir, err := r.Resolve("docs")
		require.NoError(t, err)

		listing, err := svc.List(dir)
		require.NoError(t, err)
		require.Len(t, listing.Entries, 3)

		parent := listing.Entries[0]
		assert.Equal(t, ParentName, parent.Name)
		assert.Equal(t, "", parent.Path)
		assert.True(t, parent.IsDir)
		assert.True(t, parent.IsParent)
		assert.Equal(t, []string{"..", "guides", "readme.md"}, names(listing.Entries))
		assert.Equal(t, "docs/guides", listing.Entries[1].Path)
	})

	t.Run("nested directory points at its parent", func(t *testing.T) {
		t.Parallel()
		dir, err := r.Resolve("docs/guides")
		require.NoError(t, err)

		listing, err := svc.List(dir)
		require.NoError(t, err)
		require.NotEmpty(t, listing.Entries)
		assert.Equal(t, "docs", listing.Entries[0].Path)
		assert.Equal(t, "docs/guides/intro.md", listing.Entries[1].Path)
	})

	t.Run("root has no parent entry", func(t *testing.T) {
		t.Parallel()
		dir, err := r.Resolve("")
		require.NoError(t, err)

		listing, err := svc.List(dir)
		require.NoError(t, err)
		for _, e := range listing.Entries {
			assert.False(t, e.IsParent)
			assert.NotEqual(t, ".", e.Name)
		}
	})
}

func TestList_EmptyDirectory(t *testing.T) {
	t.Parallel()
	svc, r, root := newTestService(t)
	makeTree(t, root, "empty/")

	dir, err := r.Resolve("empty")
	require.NoError(t, err)

	listing, err := svc.List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{".."}, names(listing.Entries))
}

func TestList_Deterministic(t *testing.T) {
	t.Parallel()
	svc, r, root := newTestService(t)
	makeTree(t, root, "c.txt", "B.txt", "a/", "D/", "e.TXT")

	dir, err := r.Resolve("")
	require.NoError(t, err)

	first, err := svc.List(dir)
	require.NoError(t, err)
	second, err := svc.List(dir)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestList_RejectsNonDirectories(t *testing.T) {
	t.Parallel()
	svc, r, root := newTestService(t)
	makeTree(t, root, "file.txt")

	for _, subPath := range []string{"file.txt", "missing"} {
		dir, err := r.Resolve(subPath)
		require.NoError(t, err)

		_, err = svc.List(dir)
		assert.True(t, errors.Is(err, ErrNotDirectory), subPath)
	}
}

func TestList_SymlinkToDirectoryIsFolder(t *testing.T) {
	t.Parallel()
	svc, r, root := newTestService(t)
	makeTree(t, root, "real/", "z.txt")
	if err := os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	if err := os.Symlink(filepath.Join(root, "gone"), filepath.Join(root, "dangling")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	dir, err := r.Resolve("")
	require.NoError(t, err)

	listing, err := svc.List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"link", "real", "dangling", "z.txt"}, names(listing.Entries))
}

func TestBrowse_EmptyDirectory(t *testing.T) {
	t.Parallel()
	svc, _, root := newTestService(t)
	makeTree(t, root, "empty/")

	resp, err := svc.Browse(BrowseOptions{Path: "empty", Limit: 50})
	require.NoError(t, err)

	assert.Equal(t, "empty", resp.CurrentPath)
	require.NotNil(t, resp.ParentPath)
	assert.Equal(t, "", *resp.ParentPath)
	assert.Equal(t, 0, resp.Total)
	assert.False(t, resp.HasMore)

	// nil would serialise as null rather than [].
	assert.NotNil(t, resp.Entries)
	assert.Empty(t, resp.Entries)
}

func TestBrowse_RootHasNoParent(t *testing.T) {
	t.Parallel()
	svc, _, root := newTestService(t)
	makeTree(t, root, "a.txt")

	resp, err := svc.Browse(BrowseOptions{Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, "", resp.CurrentPath)
	assert.Nil(t, resp.ParentPath)
	assert.Equal(t, []string{"a.txt"}, names(resp.Entries))
}

func TestBrowse_HiddenEntries(t *testing.T) {
	t.Parallel()
	svc, _, root := newTestService(t)
	makeTree(t, root, ".git/", ".env", "visible.txt")

	resp, err := svc.Browse(BrowseOptions{Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, []string{"visible.txt"}, names(resp.Entries))

	resp, err = svc.Browse(BrowseOptions{Limit: 50, ShowHidden: true})
	require.NoError(t, err)
	assert.Equal(t, []string{".git", ".env", "visible.txt"}, names(resp.Entries))
}

func TestBrowse_Search(t *testing.T) {
	t.Parallel()
	svc, _, root := newTestService(t)
	makeTree(t, root, "Report.pdf", "report-notes/", "photo.jpg")

	resp, err := svc.Browse(BrowseOptions{Limit: 50, Search: "REPORT"})
	require.NoError(t, err)
	assert.Equal(t, []string{"report-notes", "Report.pdf"}, names(resp.Entries))
	assert.Equal(t, 2, resp.Total)
}

func TestBrowse_Pagination(t *testing.T) {
	t.Parallel()
	svc, _, root := newTestService(t)
	makeTree(t, root, "a.txt", "b.txt", "c.txt", "d.txt", "e.txt")

	resp, err := svc.Browse(BrowseOptions{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, names(resp.Entries))
	assert.Equal(t, 5, resp.Total)
	assert.True(t, resp.HasMore)

	resp, err = svc.Browse(BrowseOptions{Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Equal(t, []string{"e.txt"}, names(resp.Entries))
	assert.False(t, resp.HasMore)

	resp, err = svc.Browse(BrowseOptions{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, resp.Entries)
	assert.False(t, resp.HasMore)
}

func TestBrowse_Errors(t *testing.T) {
	t.Parallel()
	svc, _, root := newTestService(t)
	makeTree(t, root, "file.txt")

	_, err := svc.Browse(BrowseOptions{Path: "../outside", Limit: 50})
	assert.True(t, errors.Is(err, ErrOutsideRoot))

	_, err = svc.Browse(BrowseOptions{Path: "file.txt", Limit: 50})
	assert.True(t, errors.Is(err, ErrNotDirectory))

	_, err = svc.Browse(BrowseOptions{Path: "missing", Limit: 50})
	assert.True(t, errors.Is(err, ErrNotDirectory))
}
