package util

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

// HeadFingerprintSize is the number of leading bytes hashed by FileHeadFingerprint
const HeadFingerprintSize = 1024

// FileHeadFingerprint returns the CRC32 of the first n bytes of a file (fewer
// if the file is shorter). A file rewritten in place keeps its inode but
// changes this value.
func FileHeadFingerprint(path string, n int64) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, n))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%08x", crc32.ChecksumIEEE(data)), nil
}
