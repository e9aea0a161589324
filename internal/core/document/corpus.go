package document

import (
	"io/fs"
	"path/filepath"
	"sort"

	perr "tmload/internal/platform/errors"
)

// NamePattern is the fixed naming pattern of team-movement export files
const NamePattern = "tms_team_movements_team_movement_*.json"

// MatchName reports whether base is a team-movement export file name
func MatchName(base string) bool {
	ok, _ := filepath.Match(NamePattern, base)
	return ok
}

// CorpusFiles walks root recursively and returns every matching file path in
// a stable order
func CorpusFiles(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if MatchName(filepath.Base(path)) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeIO, "scan corpus %s", root)
	}
	sort.Strings(out)
	return out, nil
}
