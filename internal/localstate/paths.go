// Package localstate locates the on-disk state of a local memo board.
package localstate

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvDataDir overrides the data directory, mostly for tests and containers.
const EnvDataDir = "MEMO_BOARD_DATA_DIR"

const (
	defaultDirName = ".memo-board"
	dbFilename     = "memos.db"
)

// DataDir returns the board's data directory, creating it with 0700 when
// missing. $MEMO_BOARD_DATA_DIR wins over ~/.memo-board.
func DataDir() (string, error) {
	dir := os.Getenv(EnvDataDir)
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locate data dir: %w", err)
		}
		dir = filepath.Join(home, defaultDirName)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return dir, nil
}

// DBPath is the default SQLite file inside DataDir.
func DBPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, dbFilename), nil
}
