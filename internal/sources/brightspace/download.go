package brightspace

import (
	"archive/zip"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/rostersync/internal/transport"
	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/errors"
)

// Download streams the archive at link into w.
func (c *Client) Download(ctx context.Context, session *Session, link string, w io.Writer) (int64, error) {
	tc := transport.NewWithHTTPClient(c.download, &transport.BearerAuth{Token: session.AccessToken})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return 0, errors.WrapResource("create", "request", "GET "+link, err)
	}
	req.Header.Set("Accept", "application/zip, application/octet-stream")

	resp, err := tc.Do(ctx, req)
	if err != nil {
		return 0, &errors.APIError{Service: Service, Endpoint: link, Message: "download failed", Err: err}
	}
	if err := transport.CheckResponse(resp, Service); err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, errors.WrapIO("download", link, err)
	}
	return n, nil
}

// DownloadFile downloads link to path through a temporary file, so a failed
// download never leaves a truncated archive behind.
func (c *Client) DownloadFile(ctx context.Context, session *Session, link, path string) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".download-*")
	if err != nil {
		return 0, errors.WrapIO("create", "temp file", err)
	}
	tmpPath := tmp.Name()

	n, err := c.Download(ctx, session, link, tmp)
	if closeErr := tmp.Close(); err == nil && closeErr != nil {
		err = errors.WrapIO("close", tmpPath, closeErr)
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return n, err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return n, errors.WrapIO("move", path, err)
	}
	return n, nil
}

// Extract unpacks the regular files of zipPath into destDir, flattening any
// directories. rename maps an entry's base name to the name written; nil
// keeps names. Entries whose name would land outside destDir are rejected.
// It returns the written file names.
func Extract(zipPath, destDir string, rename func(string) string) ([]string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, errors.WrapIO("open", zipPath, err)
	}
	defer func() { _ = r.Close() }()

	if err := os.MkdirAll(destDir, constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", destDir, err)
	}

	var written []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if !safeEntryName(f.Name) {
			return written, errors.NewValidationError("zip entry", f.Name, "path escapes the destination directory")
		}

		name := filepath.Base(filepath.FromSlash(f.Name))
		if rename != nil {
			name = rename(name)
		}
		target := filepath.Join(destDir, name)
		if filepath.Dir(target) != filepath.Clean(destDir) {
			return written, errors.NewValidationError("zip entry", name, "path escapes the destination directory")
		}

		if err := extractFile(f, target); err != nil {
			return written, err
		}
		written = append(written, name)
	}
	return written, nil
}

func safeEntryName(name string) bool {
	if name == "" || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) || filepath.IsAbs(name) {
		return false
	}
	for _, part := range strings.FieldsFunc(name, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return false
		}
	}
	return true
}

func extractFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return errors.WrapIO("open", f.Name, err)
	}
	defer func() { _ = rc.Close() }()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("create", target, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return errors.WrapIO("extract", target, err)
	}
	if err := out.Close(); err != nil {
		return errors.WrapIO("close", target, err)
	}
	return nil
}
