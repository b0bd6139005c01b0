package main

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// base returns path's final path segment, matching the original tool's
// `file.split('/').last()` article identifier.
func base(path string) string {
	return filepath.Base(path)
}

// listHTMLFiles walks dir recursively and returns every *.html file path,
// matching the original batch tool's directory scan (original_source's
// split_files_for_threads input).
func listHTMLFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".html") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// forEachFile fans work out across threads workers, matching the original
// CLI's --cpu-threads flag. fn handles its own per-file errors (the batch
// subcommands skip a file they cannot read or parse, without logging); a
// failure listing the directory aborts the run before forEachFile is called.
func forEachFile(files []string, threads int, fn func(path string)) {
	if threads < 1 {
		threads = 1
	}
	var g errgroup.Group
	g.SetLimit(threads)
	for _, f := range files {
		f := f
		g.Go(func() error {
			fn(f)
			return nil
		})
	}
	_ = g.Wait()
}
