package cmd

import (
	"cayc/common"
	"cayc/report"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// BuildProfile is the configuration of a single build.  It is assembled from
// the built-in defaults, the build profile, and the command-line flags in that
// order: later sources override earlier ones.
type BuildProfile struct {
	// OutputPath is the path the LLVM IR is written to.
	OutputPath string

	// LogLevel should be one of the enumerated log levels of package report.
	LogLevel int

	TargetTriple string

	// EmitRuntime indicates whether the runtime support functions are defined
	// in the output module.
	EmitRuntime bool

	// ParallelCheck indicates whether classes are type checked concurrently.
	ParallelCheck bool
}

// DefaultProfile returns the profile used to build srcPath when nothing else
// is configured.
func DefaultProfile(srcPath string) *BuildProfile {
	return &BuildProfile{
		OutputPath:    defaultOutputPath(srcPath),
		LogLevel:      report.LogLevelVerbose,
		TargetTriple:  common.DefaultTargetTriple,
		EmitRuntime:   true,
		ParallelCheck: true,
	}
}

// defaultOutputPath replaces the source extension of srcPath with the output
// extension or appends the output extension if there is no source extension.
func defaultOutputPath(srcPath string) string {
	if strings.HasSuffix(srcPath, common.SourceFileExt) {
		return strings.TrimSuffix(srcPath, common.SourceFileExt) + common.OutputFileExt
	}

	return srcPath + common.OutputFileExt
}

// profileKeys lists the keys accepted in the `[build]` table of a profile.
var profileKeys = map[string]struct{}{
	"output":         {},
	"loglevel":       {},
	"target-triple":  {},
	"emit-runtime":   {},
	"parallel-check": {},
}

// LoadProfile applies the build profile at profPath on top of prof.  A
// relative output path in the profile is taken relative to the profile's
// directory.
func LoadProfile(prof *BuildProfile, profPath string) error {
	buff, err := os.ReadFile(profPath)
	if err != nil {
		return errors.Wrapf(err, "error reading build profile `%s`", profPath)
	}

	tree, err := toml.LoadBytes(buff)
	if err != nil {
		return errors.Wrapf(err, "error parsing build profile `%s`", profPath)
	}

	for _, key := range tree.Keys() {
		if key != "build" {
			return errors.Errorf("build profile `%s`: unknown table `%s`", profPath, key)
		}
	}

	if !tree.Has("build") {
		return nil
	}

	build, ok := tree.Get("build").(*toml.Tree)
	if !ok {
		return errors.Errorf("build profile `%s`: `build` must be a table", profPath)
	}

	for _, key := range build.Keys() {
		if _, ok := profileKeys[key]; !ok {
			return errors.Errorf("build profile `%s`: unknown key `%s`", profPath, key)
		}
	}

	if build.Has("output") {
		output, ok := build.Get("output").(string)
		if !ok || output == "" {
			return errors.Errorf("build profile `%s`: `output` must be a non-empty string", profPath)
		}

		if !filepath.IsAbs(output) {
			output = filepath.Join(filepath.Dir(profPath), output)
		}

		prof.OutputPath = output
	}

	if build.Has("loglevel") {
		name, _ := build.Get("loglevel").(string)
		level, ok := report.LogLevelNames[name]
		if !ok {
			return errors.Errorf("build profile `%s`: invalid log level `%v`", profPath, build.Get("loglevel"))
		}

		prof.LogLevel = level
	}

	if build.Has("target-triple") {
		triple, ok := build.Get("target-triple").(string)
		if !ok {
			return errors.Errorf("build profile `%s`: `target-triple` must be a string", profPath)
		}

		prof.TargetTriple = triple
	}

	for key, field := range map[string]*bool{
		"emit-runtime":   &prof.EmitRuntime,
		"parallel-check": &prof.ParallelCheck,
	} {
		if !build.Has(key) {
			continue
		}

		v, ok := build.Get(key).(bool)
		if !ok {
			return errors.Errorf("build profile `%s`: `%s` must be a boolean", profPath, key)
		}

		*field = v
	}

	return nil
}

// findProfile returns the path of the profile next to srcPath if there is one.
func findProfile(srcPath string) (string, bool) {
	profPath := filepath.Join(filepath.Dir(srcPath), common.ProfileFileName)

	finfo, err := os.Stat(profPath)
	if err != nil || finfo.IsDir() {
		return "", false
	}

	return profPath, true
}
