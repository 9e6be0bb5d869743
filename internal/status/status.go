// Package status reports and restores the backups a merge leaves behind.
package status

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dusk-indust/fxforge/internal/orchestrator"
)

// Backup describes one backup copy of a merge target.
type Backup struct {
	Path  string
	Taken time.Time
	Size  int64
}

// ListBackups returns the backups of target, newest first. A target with no
// backups directory has no backups.
func ListBackups(target string) ([]Backup, error) {
	dir := filepath.Join(filepath.Dir(target), orchestrator.BackupDir)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	prefix := filepath.Base(target) + ".backup_"
	var backups []Backup
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		millis, err := strconv.ParseInt(strings.TrimPrefix(entry.Name(), prefix), 10, 64)
		if err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Backup{
			Path:  filepath.Join(dir, entry.Name()),
			Taken: time.UnixMilli(millis),
			Size:  info.Size(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Taken.After(backups[j].Taken)
	})
	return backups, nil
}

// Restore copies backup over target. The current content of target is
// itself backed up first, so a restore can be undone. It returns the path
// of that new backup.
func Restore(target, backup string, now time.Time) (string, error) {
	want := filepath.Base(target) + ".backup_"
	if !strings.HasPrefix(filepath.Base(backup), want) {
		return "", fmt.Errorf("restore: %s is not a backup of %s", backup, filepath.Base(target))
	}
	data, err := os.ReadFile(backup)
	if err != nil {
		return "", fmt.Errorf("restore: %w", err)
	}
	info, err := os.Stat(target)
	if err != nil {
		return "", fmt.Errorf("restore: %w", err)
	}
	current, err := os.ReadFile(target)
	if err != nil {
		return "", fmt.Errorf("restore: %w", err)
	}
	saved, err := orchestrator.WriteBackup(target, current, info.Mode().Perm(), now)
	if err != nil {
		return "", fmt.Errorf("restore: backup current content: %w", err)
	}
	if err := os.WriteFile(target, data, info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("restore: %w", err)
	}
	return saved, nil
}
