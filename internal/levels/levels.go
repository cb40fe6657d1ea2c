// Package levels embeds the built-in Beeball levels and registers them
// with the level registry.
package levels

import (
	"bufio"
	"bytes"
	"embed"
	"io/fs"
	"path"
	"strings"

	"github.com/vovakirdan/beeball/internal/registry"
)

//go:embed data/*.dat
var files embed.FS

func init() {
	entries, err := fs.ReadDir(files, "data")
	if err != nil {
		panic("levels: " + err.Error())
	}
	for _, e := range entries {
		data, err := files.ReadFile(path.Join("data", e.Name()))
		if err != nil {
			panic("levels: " + err.Error())
		}
		id := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		registry.Register(id, Title(data), data)
	}
}

// Title returns the text of the first TITLE record in a level, or an
// empty string when the level has none.
func Title(data []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if rest, ok := strings.CutPrefix(line, "TITLE"); ok && (rest == "" || rest[0] == ' ' || rest[0] == '\t') {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}
