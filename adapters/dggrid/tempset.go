package dggrid

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/banshee-data/dggrs/internal/fsutil"
	"github.com/banshee-data/dggrs/internal/security"
)

const tokenLen = 16

// tempSet is the six files one DGGRID call reads or writes. All share a
// random token, so concurrent calls never collide.
type tempSet struct {
	token string
	meta  string // metafile
	gen   string // AIGEN polygons
	chd   string // children
	nbr   string // neighbors
	bbox  string // clip region
	input string // point or id input
}

// randomToken returns 16 alphanumeric characters from a random UUID.
func randomToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:tokenLen]
}

func newTempSet(dir, token string) (*tempSet, error) {
	if err := security.ValidateToken(token); err != nil {
		return nil, err
	}
	base := filepath.Join(dir, token)
	ts := &tempSet{
		token: token,
		meta:  base + ".meta",
		gen:   base + ".gen",
		chd:   base + ".chd",
		nbr:   base + ".nbr",
		bbox:  base + ".bbox",
		input: base + ".txt",
	}
	for _, p := range ts.paths() {
		if err := security.ValidatePathWithinDirectory(p, dir); err != nil {
			return nil, fmt.Errorf("temp file %s: %w", p, err)
		}
	}
	return ts, nil
}

func (ts *tempSet) paths() []string {
	return []string{ts.meta, ts.gen, ts.chd, ts.nbr, ts.bbox, ts.input}
}

// cleanup removes every file of the set. Failures are ignored: most paths
// are never created by a given operation.
func (ts *tempSet) cleanup(fs fsutil.FileSystem) {
	for _, p := range ts.paths() {
		_ = fs.Remove(p)
	}
}

// stem strips the extension; DGGRID appends its own to output file names.
func stem(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}
