// Package hostinfo gathers read-only facts about the target machine.
// The profile is collected once at run start and never mutated by the
// installer.
package hostinfo

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
	"gopkg.in/ini.v1"

	"github.com/meferspb/erpnext-debian13-install/internal/ports"
)

// Target OS identity the installer is built for.
const (
	TargetOSID      = "debian"
	TargetOSVersion = "13"
)

// Profile describes the host at run start.
type Profile struct {
	OSID       string
	OSVersion  string
	PrettyName string
	MemTotalMB uint64
	DiskFreeGB uint64
}

// MatchesTarget reports whether the host is the Debian release this
// installer targets. A mismatch is a warning, not a blocker.
func (p Profile) MatchesTarget() bool {
	return p.OSID == TargetOSID && strings.HasPrefix(p.OSVersion, TargetOSVersion)
}

// StatfsFunc reports free bytes for the filesystem containing path.
// Tests substitute a fake.
type StatfsFunc func(path string) (freeBytes uint64, err error)

// UnixStatfs is the production StatfsFunc.
func UnixStatfs(path string) (uint64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, err
	}
	return st.Bavail * uint64(st.Bsize), nil
}

// Gather collects the host profile. diskPath is the filesystem the
// installation lands on, normally /.
func Gather(fs ports.FileSystem, statfs StatfsFunc, diskPath string) (Profile, error) {
	p := Profile{}

	osID, osVersion, pretty, err := readOSRelease(fs)
	if err != nil {
		return p, err
	}
	p.OSID, p.OSVersion, p.PrettyName = osID, osVersion, pretty

	memMB, err := readMemTotalMB(fs)
	if err != nil {
		return p, err
	}
	p.MemTotalMB = memMB

	free, err := statfs(diskPath)
	if err != nil {
		return p, fmt.Errorf("statfs %s: %w", diskPath, err)
	}
	p.DiskFreeGB = free / (1024 * 1024 * 1024)

	return p, nil
}

// readOSRelease parses /etc/os-release, which is a flat key=value file
// the ini loader handles directly.
func readOSRelease(fs ports.FileSystem) (id, version, pretty string, err error) {
	data, err := fs.ReadFile("/etc/os-release")
	if err != nil {
		return "", "", "", fmt.Errorf("read os-release: %w", err)
	}

	cfg, err := ini.Load(data)
	if err != nil {
		return "", "", "", fmt.Errorf("parse os-release: %w", err)
	}

	sec := cfg.Section("")
	id = strings.Trim(sec.Key("ID").String(), `"`)
	version = strings.Trim(sec.Key("VERSION_ID").String(), `"`)
	pretty = strings.Trim(sec.Key("PRETTY_NAME").String(), `"`)
	return id, version, pretty, nil
}

// readMemTotalMB extracts MemTotal from /proc/meminfo.
func readMemTotalMB(fs ports.FileSystem) (uint64, error) {
	data, err := fs.ReadFile("/proc/meminfo")
	if err != nil {
		return 0, fmt.Errorf("read meminfo: %w", err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, "MemTotal:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			break
		}
		kb, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse MemTotal: %w", err)
		}
		return kb / 1024, nil
	}
	return 0, fmt.Errorf("MemTotal not found in meminfo")
}
