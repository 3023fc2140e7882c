package filesystem

import (
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/pkg/errors"
)

// ErrOutsideRoot is returned when a sub-path resolves to a location that is
// not the root or below it.
var ErrOutsideRoot = errors.New("path is outside the root directory")

// Kind is the filesystem kind of a resolved path at the time it was resolved.
type Kind int

const (
	KindAbsent Kind = iota
	KindFile
	KindDirectory
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	default:
		return "absent"
	}
}

// Resolved is a request sub-path mapped onto the root.
//
// Kind is looked up once, during Resolve, and is not refreshed. The entry can
// change before the caller uses Path; for a single-user local tool that race
// is accepted rather than guarded with locks.
type Resolved struct {
	// Path is the absolute, cleaned filesystem path.
	Path string
	// SubPath is Path relative to the root, slash separated, "" for the root.
	SubPath string
	Kind    Kind
}

// Resolver maps untrusted request sub-paths onto a fixed root directory.
type Resolver struct {
	root string
}

// NewResolver returns a Resolver for root, which must be an absolute path.
func NewResolver(root string) (*Resolver, error) {
	if !filepath.IsAbs(root) {
		return nil, errors.Errorf("root must be absolute: %s", root)
	}
	return &Resolver{root: filepath.Clean(root)}, nil
}

// Root returns the cleaned absolute root directory.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve joins subPath onto the root, cleans the result, and rejects it with
// ErrOutsideRoot unless it is the root or lies below it. Containment is purely
// lexical; symlinks inside the root are followed like any other entry.
func (r *Resolver) Resolve(subPath string) (*Resolved, error) {
	candidate := filepath.Join(r.root, filepath.FromSlash(subPath))
	if !isPathWithin(candidate, r.root) {
		return nil, errors.WithStack(ErrOutsideRoot)
	}

	rel, err := filepath.Rel(r.root, candidate)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		rel = ""
	}

	resolved := &Resolved{
		Path:    candidate,
		SubPath: rel,
		Kind:    KindAbsent,
	}

	info, err := os.Stat(candidate)
	switch {
	case err == nil && info.IsDir():
		resolved.Kind = KindDirectory
	case err == nil:
		resolved.Kind = KindFile
	case os.IsNotExist(err) || isNotDirErr(err):
		// KindAbsent
	default:
		return nil, errors.Wrapf(err, "failed to stat %s", rel)
	}

	return resolved, nil
}

// isPathWithin reports whether child is parent or lies below it. The check is
// made at a path segment boundary, so "/srv/files-other" is not within
// "/srv/files".
func isPathWithin(child, parent string) bool {
	// Clean both paths
	child = filepath.Clean(child)
	parent = filepath.Clean(parent)

	if child == parent {
		return true
	}

	// Ensure parent ends with separator for prefix matching.
	// Special-case root "/" which is already terminated.
	parentPrefix := parent
	if !strings.HasSuffix(parentPrefix, string(filepath.Separator)) {
		parentPrefix += string(filepath.Separator)
	}
	return strings.HasPrefix(child, parentPrefix)
}

// isNotDirErr reports whether err came from treating a file as a directory,
// e.g. stat("a.txt/b"). Such paths do not exist.
func isNotDirErr(err error) bool {
	var pathErr *os.PathError
	if !errors.As(err, &pathErr) {
		return false
	}
	return errors.Is(pathErr.Err, syscall.ENOTDIR)
}
