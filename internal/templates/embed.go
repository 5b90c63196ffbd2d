// Package templates embeds the example editing scripts shipped with the
// binary.
package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// exampleScripts embeds every scripts/<name>.yaml file.
//
//go:embed scripts/*.yaml
var exampleScripts embed.FS

// ScriptsFS returns the embedded filesystem rooted at the scripts directory.
func ScriptsFS() fs.FS {
	sub, err := fs.Sub(exampleScripts, "scripts")
	if err != nil {
		panic(err) // the directory is embedded at build time
	}
	return sub
}

// ScriptNames lists the example script names, sorted.
func ScriptNames() []string {
	entries, _ := fs.ReadDir(ScriptsFS(), ".")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	sort.Strings(names)
	return names
}

// Script returns the YAML source of the named example.
func Script(name string) ([]byte, error) {
	data, err := fs.ReadFile(ScriptsFS(), name+".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown example %q (available: %s)", name, strings.Join(ScriptNames(), ", "))
	}
	return data, nil
}
