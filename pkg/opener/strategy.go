package opener

import (
	"path/filepath"
)

// Command is an external program invocation.
type Command struct {
	Name string
	Args []string
}

// Strategy builds the platform's commands for revealing a path in the file
// manager and for opening a URL in the default browser.
type Strategy interface {
	// Name identifies the strategy in logs.
	Name() string
	// Reveal returns the command that shows target, an absolute path, in the
	// file manager. isDir reports whether target is a directory.
	Reveal(target string, isDir bool) Command
	// OpenURL returns the command that opens url in the default browser.
	OpenURL(url string) Command
}

// StrategyFor returns the strategy for goos, normally runtime.GOOS. Anything
// other than darwin and windows gets the xdg-open strategy.
func StrategyFor(goos string) Strategy {
	switch goos {
	case "darwin":
		return macStrategy{}
	case "windows":
		return windowsStrategy{}
	default:
		return xdgStrategy{}
	}
}

type macStrategy struct{}

func (macStrategy) Name() string { return "darwin" }

// Reveal opens directories directly and opens a file's folder with the file
// selected.
func (macStrategy) Reveal(target string, isDir bool) Command {
	if isDir {
		return Command{Name: "open", Args: []string{target}}
	}
	return Command{Name: "open", Args: []string{"-R", target}}
}

func (macStrategy) OpenURL(url string) Command {
	return Command{Name: "open", Args: []string{url}}
}

type windowsStrategy struct{}

func (windowsStrategy) Name() string { return "windows" }

// Reveal opens a file's folder with the file selected, and opens directories
// directly.
func (windowsStrategy) Reveal(target string, isDir bool) Command {
	if isDir {
		return Command{Name: "explorer", Args: []string{target}}
	}
	return Command{Name: "explorer", Args: []string{"/select,", target}}
}

func (windowsStrategy) OpenURL(url string) Command {
	return Command{Name: "rundll32", Args: []string{"url.dll,FileProtocolHandler", url}}
}

type xdgStrategy struct{}

func (xdgStrategy) Name() string { return "xdg" }

// Reveal has no way to select a file, so files open their containing
// directory.
func (xdgStrategy) Reveal(target string, isDir bool) Command {
	if !isDir {
		target = filepath.Dir(target)
	}
	return Command{Name: "xdg-open", Args: []string{target}}
}

func (xdgStrategy) OpenURL(url string) Command {
	return Command{Name: "xdg-open", Args: []string{url}}
}
