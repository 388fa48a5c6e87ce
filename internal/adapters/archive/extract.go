package archive

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
	"go.trai.ch/dem/internal/core/domain"
	"go.trai.ch/zerr"
)

// openTar opens src and returns a tar reader over its decompressed content.
func openTar(src string) (*tar.Reader, func() error, error) {
	f, err := os.Open(src) //nolint:gosec // src is a probed archive path
	if err != nil {
		return nil, nil, zerr.With(zerr.Wrap(err, "failed to open archive"), "path", src)
	}

	var r io.Reader
	closeFn := f.Close

	switch {
	case strings.HasSuffix(src, ".tar.gz"), strings.HasSuffix(src, ".tgz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, nil, zerr.With(zerr.Wrap(err, "failed to create gzip reader"), "path", src)
		}
		r = gz
		closeFn = func() error {
			return errors.Join(gz.Close(), f.Close())
		}
	case strings.HasSuffix(src, ".tar.xz"), strings.HasSuffix(src, ".txz"):
		xzr, err := xz.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, nil, zerr.With(zerr.Wrap(err, "failed to create xz reader"), "path", src)
		}
		r = xzr
	case strings.HasSuffix(src, ".tar"):
		r = f
	default:
		_ = f.Close()
		return nil, nil, zerr.With(zerr.Wrap(domain.ErrUnsupportedArchive, "failed to open archive"), "path", src)
	}

	return tar.NewReader(r), closeFn, nil
}

// extract unpacks the archive at src into dest, which must exist.
// Entries that would land outside dest are rejected.
func extract(src, dest string, warn func(string)) error {
	tr, closeFn, err := openTar(src)
	if err != nil {
		return err
	}
	defer closeFn() //nolint:errcheck // read-only

	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to read archive entry"), "path", src)
		}

		name := strings.TrimPrefix(header.Name, "./")
		if name == "" || name == "." {
			continue
		}
		if !filepath.IsLocal(name) {
			return unsafeEntry(header.Name)
		}
		if err := checkParents(dest, name); err != nil {
			return err
		}
		target := filepath.Join(dest, name)

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, domain.DirPerm); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", target)
			}

		case tar.TypeSymlink:
			if filepath.IsAbs(header.Linkname) || !filepath.IsLocal(filepath.Join(filepath.Dir(name), header.Linkname)) {
				return unsafeEntry(header.Name + " -> " + header.Linkname)
			}
			if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", filepath.Dir(target))
			}
			_ = os.Remove(target)
			if err := os.Symlink(header.Linkname, target); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to create symlink"), "path", target)
			}

		case tar.TypeReg:
			if err := writeFile(tr, target, header); err != nil {
				return err
			}

		default:
			warn("skipping unsupported archive entry " + header.Name)
		}
	}
}

// checkParents rejects name when a directory it would be written through is a
// symlink already extracted into dest.
func checkParents(dest, name string) error {
	dir := dest
	for _, part := range strings.Split(filepath.Dir(name), string(filepath.Separator)) {
		if part == "." {
			continue
		}
		dir = filepath.Join(dir, part)
		info, err := os.Lstat(dir)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to inspect directory"), "path", dir)
		}
		if info.Mode()&fs.ModeSymlink != 0 {
			return unsafeEntry(name)
		}
	}
	return nil
}

func writeFile(r io.Reader, target string, header *tar.Header) error {
	if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", filepath.Dir(target))
	}
	// A later entry replaces an earlier symlink rather than writing through it.
	if info, err := os.Lstat(target); err == nil && info.Mode()&fs.ModeSymlink != 0 {
		if err := os.Remove(target); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to replace symlink"), "path", target)
		}
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode).Perm()) //nolint:gosec // target is checked to be inside dest
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create file"), "path", target)
	}

	written, err := io.Copy(out, r)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write file"), "path", target)
	}
	if written != header.Size {
		return zerr.With(zerr.New("file size mismatch"), "path", target)
	}
	return nil
}

func unsafeEntry(name string) error {
	return zerr.With(zerr.Wrap(domain.ErrUnsafeArchiveEntry, "refusing to extract"), "entry", name)
}
