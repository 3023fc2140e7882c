package opener

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrategyFor(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "darwin", StrategyFor("darwin").Name())
	assert.Equal(t, "windows", StrategyFor("windows").Name())
	assert.Equal(t, "xdg", StrategyFor("linux").Name())
	assert.Equal(t, "xdg", StrategyFor("openbsd").Name())
}

func TestStrategy_RevealDirectory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		goos string
		want Command
	}{
		{"darwin", Command{Name: "open", Args: []string{"/srv/files/docs"}}},
		{"windows", Command{Name: "explorer", Args: []string{"/srv/files/docs"}}},
		{"linux", Command{Name: "xdg-open", Args: []string{"/srv/files/docs"}}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StrategyFor(tt.goos).Reveal("/srv/files/docs", true), tt.goos)
	}
}

func TestStrategy_RevealFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		goos string
		want Command
	}{
		{"darwin", Command{Name: "open", Args: []string{"-R", "/srv/files/a.txt"}}},
		{"windows", Command{Name: "explorer", Args: []string{"/select,", "/srv/files/a.txt"}}},
		{"linux", Command{Name: "xdg-open", Args: []string{"/srv/files"}}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StrategyFor(tt.goos).Reveal("/srv/files/a.txt", false), tt.goos)
	}
}
