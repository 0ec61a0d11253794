package ioutils

import (
	"github.com/shirou/gopsutil/v3/disk"
)

// FreeSpace returns the bytes available on the file system holding dir.
func FreeSpace(dir string) (uint64, error) {
	usage, err := disk.Usage(dir)
	if err != nil {
		return 0, err
	}
	return usage.Free, nil
}
