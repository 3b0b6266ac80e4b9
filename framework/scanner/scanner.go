// Package scanner walks a class path file system and lists the TypeIds found
// under a namespace.
package scanner

import (
	"fmt"
	"path"
	"strings"

	"github.com/spf13/afero"

	"github.com/km-arc/go-mvc/framework/beans"
	"github.com/km-arc/go-mvc/framework/diag"
)

// DefaultSuffix marks a compiled unit on the class path.
const DefaultSuffix = ".bean"

// Scan recursively lists every unit under namespace whose file name ends in
// suffix and returns its TypeId ("app.controller" + "DemoAction").
//
// Entries are visited in the order the file system lists them; a directory is
// descended into where it appears. A root namespace that is not a directory
// returns a diag.ScanNotFound issue. A nested directory that cannot be read is
// recorded on report (which may be nil) and skipped.
func Scan(fs afero.Fs, namespace, suffix string, report *diag.Report) ([]string, error) {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	ns := beans.Namespace(namespace)
	dir := nsPath(ns)

	info, err := fs.Stat(dir)
	if err != nil || !info.IsDir() {
		issue := diag.New(diag.ScanNotFound, namespace, fmt.Sprintf("no directory %q on the class path", dir), err)
		if report != nil {
			report.Add(issue)
		}
		return nil, issue
	}

	s := &scan{fs: fs, suffix: suffix, report: report}
	s.walk(ns)
	return s.ids, nil
}

type scan struct {
	fs     afero.Fs
	suffix string
	report *diag.Report
	ids    []string
}

func (s *scan) walk(ns string) {
	entries, err := afero.ReadDir(s.fs, nsPath(ns))
	if err != nil {
		if s.report != nil {
			s.report.Add(diag.New(diag.ScanNotFound, ns, "unreadable namespace", err))
		}
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			s.walk(join(ns, e.Name()))
			continue
		}
		if !strings.HasSuffix(e.Name(), s.suffix) {
			continue
		}
		s.ids = append(s.ids, join(ns, strings.TrimSuffix(e.Name(), s.suffix)))
	}
}

func nsPath(ns string) string {
	if ns == "" {
		return "/"
	}
	return path.Join(strings.Split(ns, ".")...)
}

func join(ns, name string) string {
	if ns == "" {
		return name
	}
	return ns + "." + name
}
