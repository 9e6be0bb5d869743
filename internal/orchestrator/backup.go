package orchestrator

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// BackupDir is the directory, next to the target, that holds backups.
const BackupDir = "backups"

// BackupName returns the backup file name for target taken at t.
func BackupName(target string, t time.Time) string {
	return fmt.Sprintf("%s.backup_%d", filepath.Base(target), t.UnixMilli())
}

// WriteBackup copies content to <dir>/backups/<name>.backup_<millis> and
// reads it back to confirm the bytes match. An existing backup with the
// same timestamp is never overwritten; the timestamp is bumped instead.
func WriteBackup(target string, content []byte, perm fs.FileMode, at time.Time) (string, error) {
	dir := filepath.Join(filepath.Dir(target), BackupDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	var path string
	for {
		path = filepath.Join(dir, BackupName(target, at))
		fh, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
		if errors.Is(err, fs.ErrExist) {
			at = at.Add(time.Millisecond)
			continue
		}
		if err != nil {
			return "", err
		}
		_, werr := fh.Write(content)
		cerr := fh.Close()
		if werr != nil {
			return "", werr
		}
		if cerr != nil {
			return "", cerr
		}
		break
	}

	check, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !bytes.Equal(check, content) {
		return "", fmt.Errorf("backup %s does not match original content", path)
	}
	return path, nil
}
