package batch

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/invoice-parser/constants"
)

// Stats summarizes a batch run.
type Stats struct {
	Scanned    uint32
	Matched    uint32
	OK         uint32
	NotInvoice uint32
	Failed     uint32
}

func extSet(includeExts []string) map[string]struct{} {
	if len(includeExts) == 0 {
		return constants.AllowedExtensions
	}
	exts := map[string]struct{}{}
	for _, e := range includeExts {
		if e = constants.NormalizeExt(strings.TrimSpace(e)); e != "" {
			exts[e] = struct{}{}
		}
	}
	return exts
}

// collect walks root in lexical order and returns the files with a matching
// extension. Walk errors on individual entries become failed results.
func collect(root string, exts map[string]struct{}, skipHidden bool, stats *Stats) ([]string, []FileResult, error) {
	if strings.TrimSpace(root) == "" {
		return nil, nil, errors.New("root path is required")
	}

	var paths []string
	var failed []FileResult
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			failed = append(failed, FileResult{Path: path, Status: constants.StatusError, Err: walkErr})
			stats.Failed++
			return nil
		}
		if skipHidden && path != root && isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := exts[constants.NormalizeExt(filepath.Ext(path))]; !ok {
			return nil
		}
		stats.Matched++
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walk: %w", err)
	}
	return paths, failed, nil
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
