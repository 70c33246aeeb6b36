package processor

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
)

// save writes data to path through a temporary sibling and a rename,
// so readers never observe a partially written file.
func save(path string, data []byte) error {
	if path == StdioPath {
		_, err := os.Stdout.Write(data)
		return eris.Wrap(err, "write stdout")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return eris.Wrapf(err, "create dir %q", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return eris.Wrapf(err, "create temp file for %q", path)
	}
	tmpName := tmp.Name()

	committed := false
	defer func() {
		if committed {
			return
		}
		if err := os.Remove(tmpName); err != nil && !os.IsNotExist(err) {
			log.Error().Err(err).Str("path", tmpName).Msg("Failed to remove temp file")
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return eris.Wrapf(err, "write %q", tmpName)
	}

	if err := tmp.Chmod(0644); err != nil {
		_ = tmp.Close()
		return eris.Wrapf(err, "chmod %q", tmpName)
	}

	// We care about write errors on close
	if err := tmp.Close(); err != nil {
		return eris.Wrapf(err, "close %q", tmpName)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return eris.Wrapf(err, "rename %q to %q", tmpName, path)
	}
	committed = true

	return nil
}
