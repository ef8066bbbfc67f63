// Package fetch makes sure a server artifact is present on local disk.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"seleniumd/internal/common/fsutil"
)

const defaultProgressEvery = 5 << 20

// Fetcher downloads artifacts over HTTP(S). No retries, no auth.
type Fetcher struct {
	Client *http.Client
	Log    zerolog.Logger
	// ProgressEvery is the number of bytes between progress log lines.
	ProgressEvery int64
}

// New returns a Fetcher using a client without a global timeout; callers bound
// the download through the context passed to Ensure.
func New(log zerolog.Logger) *Fetcher {
	return &Fetcher{Client: &http.Client{Timeout: 0}, Log: log, ProgressEvery: defaultProgressEvery}
}

// Destination returns where Ensure stores sourceURL inside dir.
func Destination(sourceURL, dir string) (string, error) {
	u, err := url.Parse(sourceURL)
	if err != nil {
		return "", fmt.Errorf("parse download url: %w", err)
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("download url %q has no file name", sourceURL)
	}
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(base, name), nil
}

// Ensure makes sure a non-empty file for sourceURL exists in dir and returns
// its path. An existing non-empty file is reused unless force is set, in which
// case it is removed and fetched again. A zero-length file counts as absent.
func (f *Fetcher) Ensure(ctx context.Context, sourceURL, dir string, force bool) (string, error) {
	dest, err := Destination(sourceURL, dir)
	if err != nil {
		return "", &FetchError{URL: sourceURL, Dest: dir, Err: err}
	}
	log := f.Log.With().Str("url", sourceURL).Str("dest", dest).Logger()

	size, exists, err := fsutil.RegularFileSize(dest)
	if err != nil {
		return "", &FetchError{URL: sourceURL, Dest: dest, Err: err}
	}
	switch {
	case exists && size > 0 && !force:
		log.Info().Str("size", humanize.Bytes(uint64(size))).Msg("artifact already in place")
		return dest, nil
	case exists && size > 0:
		log.Info().Str("size", humanize.Bytes(uint64(size))).Msg("artifact in place but force download requested, removing")
		if err := os.Remove(dest); err != nil {
			return "", &FetchError{URL: sourceURL, Dest: dest, Err: fmt.Errorf("remove existing: %w", err)}
		}
	case exists:
		log.Info().Msg("artifact in place but empty, downloading again")
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", &FetchError{URL: sourceURL, Dest: dest, Err: err}
	}
	if err := f.download(ctx, log, sourceURL, dest); err != nil {
		return "", &FetchError{URL: sourceURL, Dest: dest, Err: err}
	}
	return dest, nil
}

// download streams the body into dest+".part" and renames it on success, so a
// broken transfer never leaves a non-empty file at dest.
func (f *Fetcher) download(ctx context.Context, log zerolog.Logger, sourceURL, dest string) error {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return err
	}
	log.Info().Msg("starting download")
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected http status: %s", resp.Status)
	}

	part := dest + ".part"
	out, err := os.Create(part)
	if err != nil {
		return err
	}
	pw := &progressWriter{log: log, total: resp.ContentLength, every: f.ProgressEvery}
	_, copyErr := io.Copy(io.MultiWriter(out, pw), resp.Body)
	closeErr := out.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(part)
		return fmt.Errorf("write: %w", err)
	}
	if pw.written == 0 {
		_ = os.Remove(part)
		return errors.New("empty response body")
	}
	if err := os.Rename(part, dest); err != nil {
		_ = os.Remove(part)
		return err
	}
	log.Info().
		Str("size", humanize.Bytes(uint64(pw.written))).
		Dur("dur", time.Since(start)).
		Msg("saving is complete")
	return nil
}
