package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ncruces/go-strftime"
)

var writeString = func(f *os.File, s string) (int, error) { return f.WriteString(s) }

// FileName returns report_<stamp>.html where stamp is now formatted with the strftime pattern.
func FileName(pattern string, now time.Time) string {
	return "report_" + strftime.Format(pattern, now) + ".html"
}

// WriteReport writes html into dir, replacing any report with the same name.
func WriteReport(dir, pattern string, now time.Time, html string) (path string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path = filepath.Join(dir, FileName(pattern, now))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("open report: %w", err)
	}
	// A report that was not fully written is removed.
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close report: %w", cerr)
		}
		if err != nil {
			os.Remove(path)
			path = ""
		}
	}()

	if _, err := writeString(f, html); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
