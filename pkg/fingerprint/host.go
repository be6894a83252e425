package fingerprint

import (
	"context"
	"errors"
	"runtime"

	"github.com/elastic/go-sysinfo"
)

// Host fingerprints the machine the program runs on. It is the default
// provider for non-browser programs.
type Host struct{}

func (Host) Fingerprint(context.Context) (string, error) {
	h, err := sysinfo.Host()
	if err != nil {
		return "", errors.Join(ErrHostInfo, err)
	}
	info := h.Info()

	var osName, osVersion string
	if info.OS != nil {
		osName, osVersion = info.OS.Platform, info.OS.Version
	}
	if info.UniqueID == "" && info.Hostname == "" {
		return "", ErrNoComponents
	}
	return hash(
		info.UniqueID,
		info.Hostname,
		osName,
		osVersion,
		info.Architecture,
		runtime.GOOS,
		info.Timezone,
	), nil
}
