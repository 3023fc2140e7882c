package filesystem

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ErrNotDirectory is returned by List when the target is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// ParentName is the display name of the parent directory pseudo-entry.
const ParentName = ".."

type Service struct {
	resolver *Resolver
}

func NewService(resolver *Resolver) *Service {
	return &Service{resolver: resolver}
}

// Listing is the ordered content of one directory.
type Listing struct {
	SubPath string
	Entries []Entry
}

// List enumerates the immediate children of dir. Folders come before files,
// each group ordered by case-insensitive name with ties kept in enumeration
// order. Below the root, a ".." entry pointing at the parent sub-path is
// placed first.
func (s *Service) List(dir *Resolved) (*Listing, error) {
	if dir == nil || dir.Kind != KindDirectory {
		return nil, errors.WithStack(ErrNotDirectory)
	}

	dirEntries, err := os.ReadDir(dir.Path)
	if err != nil {
		if os.IsNotExist(err) || isNotDirErr(err) {
			return nil, errors.WithStack(ErrNotDirectory)
		}
		return nil, errors.WithStack(err)
	}

	folders := make([]Entry, 0, len(dirEntries)+1)
	files := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		name := de.Name()
		entry := Entry{
			Name: name,
			Path: path.Join(dir.SubPath, name),
		}

		// Stat follows symlinks, so a link to a directory lists as a folder.
		// A dangling link falls back to the dirent's own type.
		info, err := os.Stat(filepath.Join(dir.Path, name))
		if err == nil {
			entry.IsDir = info.IsDir()
			if !entry.IsDir {
				entry.Size = info.Size()
			}
		} else {
			entry.IsDir = de.IsDir()
		}

		if entry.IsDir {
			folders = append(folders, entry)
		} else {
			files = append(files, entry)
		}
	}

	sortByName(folders)
	sortByName(files)

	entries := make([]Entry, 0, len(folders)+len(files)+1)
	if dir.SubPath != "" {
		entries = append(entries, Entry{
			Name:     ParentName,
			Path:     parentOf(dir.SubPath),
			IsDir:    true,
			IsParent: true,
		})
	}
	entries = append(entries, folders...)
	entries = append(entries, files...)

	return &Listing{
		SubPath: dir.SubPath,
		Entries: entries,
	}, nil
}

// BrowseOptions has the same structure as BrowseQuery to allow direct type conversion.
type BrowseOptions BrowseQuery

// Browse resolves opts.Path and returns a filtered, paginated page of its
// listing. The parent pseudo-entry is reported as ParentPath rather than as
// an entry.
func (s *Service) Browse(opts BrowseOptions) (*BrowseResponse, error) {
	resolved, err := s.resolver.Resolve(opts.Path)
	if err != nil {
		return nil, err
	}

	listing, err := s.List(resolved)
	if err != nil {
		return nil, err
	}

	var parentPath *string
	// Filter and collect entries.
	entries := []Entry{}
	for _, entry := range listing.Entries {
		if entry.IsParent {
			p := entry.Path
			parentPath = &p
			continue
		}

		// Skip hidden files/directories unless requested.
		if !opts.ShowHidden && strings.HasPrefix(entry.Name, ".") {
			continue
		}

		// Apply search filter (case-insensitive).
		if opts.Search != "" && !strings.Contains(strings.ToLower(entry.Name), strings.ToLower(opts.Search)) {
			continue
		}

		entries = append(entries, entry)
	}

	total := len(entries)

	// Apply pagination.
	start := opts.Offset
	if start > total {
		start = total
	}
	end := total
	if opts.Limit > 0 && start+opts.Limit < total {
		end = start + opts.Limit
	}

	return &BrowseResponse{
		CurrentPath: listing.SubPath,
		ParentPath:  parentPath,
		Entries:     entries[start:end],
		Total:       total,
		HasMore:     end < total,
	}, nil
}

func sortByName(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
}

// parentOf returns the slash-separated parent of a non-empty sub-path, ""
// for a top-level entry.
func parentOf(subPath string) string {
	parent := path.Dir(subPath)
	if parent == "." {
		return ""
	}
	return parent
}
