package util

import (
	"golang.org/x/sys/unix"
)

// FileInfo contains the stat fields used to detect appended, truncated and
// replaced log files.
type FileInfo struct {
	ModTime int64  // unix seconds
	Size    int64  // bytes
	Inode   uint64 // changes when the file is replaced
}

// GetFileInfo stats path without following it through os.FileInfo so the
// inode is available on Linux and macOS alike.
func GetFileInfo(path string) (*FileInfo, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return nil, err
	}

	sec, _ := st.Mtim.Unix()
	return &FileInfo{
		ModTime: sec,
		Size:    st.Size,
		Inode:   uint64(st.Ino),
	}, nil
}
