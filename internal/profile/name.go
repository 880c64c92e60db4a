package profile

import (
	"strconv"
	"strings"

	"github.com/makima-go/makima/internal/ids"
)

// ParseProfileName splits a profile file's base name (without the
// .toml suffix) into its device name and association (§3, §4.1): up to
// three `::`-separated fields, the first always the device name, the
// remaining up to two free-order fields each classified as a layout
// index (parses as an unsigned integer) or a window class (anything
// else). Ambiguous or extra fields warn and fall back to Default.
func ParseProfileName(base string, warn func(string)) (deviceName string, assoc Association) {
	fields := strings.Split(base, "::")
	deviceName = fields[0]
	rest := fields[1:]

	assoc = Association{Client: ids.DefaultClient, Layout: 0}
	if len(rest) == 0 {
		return deviceName, assoc
	}
	if len(rest) > 2 {
		warn("profile name " + base + ": too many :: fields, falling back to Default association")
		return deviceName, assoc
	}

	var haveLayout, haveClient bool
	for _, f := range rest {
		if n, err := strconv.ParseUint(f, 10, 16); err == nil {
			if haveLayout {
				warn("profile name " + base + ": ambiguous duplicate layout field, falling back to Default association")
				return deviceName, Association{Client: ids.DefaultClient, Layout: 0}
			}
			assoc.Layout = uint16(n)
			haveLayout = true
			continue
		}
		if haveClient {
			warn("profile name " + base + ": ambiguous duplicate class field, falling back to Default association")
			return deviceName, Association{Client: ids.DefaultClient, Layout: 0}
		}
		assoc.Client = ids.Client(f)
		haveClient = true
	}
	return deviceName, assoc
}
