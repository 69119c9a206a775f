package hostinfo

import (
	"os"
	"strings"
)

// Info identifies the host in log banners and notification subjects.
type Info struct {
	Hostname string
	OSName   string
}

// Describe collects the host identity. It never fails; unknown fields fall
// back to placeholders so a broken /etc/os-release cannot abort a run.
func Describe() Info {
	info := Info{
		Hostname: "unknown-host",
		OSName:   "unknown OS",
	}
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		info.Hostname = hostname
	}
	if name := osPrettyName("/etc/os-release"); name != "" {
		info.OSName = name
	}
	return info
}

func osPrettyName(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	var id, versionID string
	for _, line := range strings.Split(string(data), "\n") {
		switch {
		case strings.HasPrefix(line, "PRETTY_NAME="):
			if v := unquote(strings.TrimPrefix(line, "PRETTY_NAME=")); v != "" {
				return v
			}
		case strings.HasPrefix(line, "ID="):
			id = unquote(strings.TrimPrefix(line, "ID="))
		case strings.HasPrefix(line, "VERSION_ID="):
			versionID = unquote(strings.TrimPrefix(line, "VERSION_ID="))
		}
	}

	if id != "" && versionID != "" {
		return id + " " + versionID
	}
	return id
}

func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), "\"")
}
