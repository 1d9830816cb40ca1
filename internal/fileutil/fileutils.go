package fileutil

import (
	"os"
	"path/filepath"
	"strings"
)

func FileExists(name string) bool {
	if stat, err := os.Stat(name); err == nil {
		return !stat.IsDir()
	}
	return false
}

// ProbeSettingsFilename returns cmdLineArg when given, otherwise the first existing
// of <exe>.jsonc and <exe>.json, falling back to <exe>.jsonc.
func ProbeSettingsFilename(cmdLineArg string) string {
	if cmdLineArg != "" {
		return cmdLineArg
	}
	return probe(os.Args[0], FileExists)
}

func probe(exe string, exists func(name string) bool) string {
	var basename = filepath.Base(exe)
	var exeName = strings.TrimSuffix(basename, filepath.Ext(basename))
	for _, name := range []string{exeName + ".jsonc", exeName + ".json"} {
		if exists(name) {
			return name
		}
	}
	return exeName + ".jsonc"
}
