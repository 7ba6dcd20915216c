package enhance

import (
	"bytes"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// Features records which quality attributes a project already has
type Features struct {
	HasTests             bool
	HasLinting           bool
	HasFormatting        bool
	HasTypeBinding       bool
	HasDocumentation     bool
	HasErrorHandling     bool
	HasEnvironmentConfig bool
	HasLogging           bool
	HasValidation        bool
	HasAPIDocumentation  bool
}

// FeatureValue is one named entry of a Features vector
type FeatureValue struct {
	Name    string
	Present bool
}

// List returns the vector in report order
func (f Features) List() []FeatureValue {
	out := make([]FeatureValue, 0, len(featureRules))
	for _, r := range featureRules {
		out = append(out, FeatureValue{Name: r.name, Present: *r.field(&f)})
	}
	return out
}

type featureRule struct {
	name   string
	field  func(*Features) *bool
	detect func(*Snapshot) bool
}

var (
	testTools       = []string{"jest", "mocha", "vitest", "jasmine", "ava", "@testing-library/react", "@playwright/test", "cypress", "pytest"}
	lintTools       = []string{"eslint", "tslint", "standard", "pylint", "flake8", "ruff"}
	lintFiles       = []string{".eslintrc", "eslint.config", ".pylintrc", ".flake8", "ruff.toml"}
	formatTools     = []string{"prettier", "black", "autopep8", "yapf"}
	formatFiles     = []string{".prettierrc", "prettier.config", ".editorconfig"}
	typeExtensions  = []string{".ts", ".tsx", ".pyi"}
	typeTools       = []string{"typescript", "@types/node", "@types/react", "flow-bin", "mypy", "pyright"}
	loggingLibs     = []string{"winston", "pino", "bunyan", "morgan", "log4js", "loglevel", "structlog", "loguru"}
	validationLibs  = []string{"joi", "yup", "zod", "ajv", "express-validator", "class-validator", "pydantic", "marshmallow", "cerberus"}
	sourceExtension = []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".py"}
)

// featureRules is evaluated in full for every snapshot; no rule depends on
// another.
var featureRules = []featureRule{
	{
		name:  "hasTests",
		field: func(f *Features) *bool { return &f.HasTests },
		detect: func(s *Snapshot) bool {
			return anyPathContains(s.Files, "test", "spec") || s.Manifest.HasAnyDevDependency(testTools...)
		},
	},
	{
		name:  "hasLinting",
		field: func(f *Features) *bool { return &f.HasLinting },
		detect: func(s *Snapshot) bool {
			return s.Manifest.HasAnyDevDependency(lintTools...) || anyPathContains(s.Files, lintFiles...)
		},
	},
	{
		name:  "hasFormatting",
		field: func(f *Features) *bool { return &f.HasFormatting },
		detect: func(s *Snapshot) bool {
			return s.Manifest.HasAnyDevDependency(formatTools...) || anyPathContains(s.Files, formatFiles...)
		},
	},
	{
		name:  "hasTypeBinding",
		field: func(f *Features) *bool { return &f.HasTypeBinding },
		detect: func(s *Snapshot) bool {
			return anyExtension(s.Files, typeExtensions...) || s.Manifest.HasAnyDependency(typeTools...)
		},
	},
	{
		name:  "hasDocumentation",
		field: func(f *Features) *bool { return &f.HasDocumentation },
		detect: func(s *Snapshot) bool {
			return anyPathContains(s.Files, "readme")
		},
	},
	{
		name:   "hasErrorHandling",
		field:  func(f *Features) *bool { return &f.HasErrorHandling },
		detect: scanErrorHandling,
	},
	{
		name:  "hasEnvironmentConfig",
		field: func(f *Features) *bool { return &f.HasEnvironmentConfig },
		detect: func(s *Snapshot) bool {
			return anyPathContains(s.Files, ".env", "config")
		},
	},
	{
		name:  "hasLogging",
		field: func(f *Features) *bool { return &f.HasLogging },
		detect: func(s *Snapshot) bool {
			return s.Manifest.HasAnyDependency(loggingLibs...)
		},
	},
	{
		name:  "hasValidation",
		field: func(f *Features) *bool { return &f.HasValidation },
		detect: func(s *Snapshot) bool {
			return s.Manifest.HasAnyDependency(validationLibs...)
		},
	},
	{
		name:  "hasApiDocumentation",
		field: func(f *Features) *bool { return &f.HasAPIDocumentation },
		detect: func(s *Snapshot) bool {
			return anyPathContains(s.Files, "swagger", "openapi")
		},
	},
}

// Classify computes the feature vector of a snapshot. It is a pure function
// of the snapshot and the files it lists.
func Classify(snap *Snapshot) Features {
	var f Features
	for _, r := range featureRules {
		*r.field(&f) = r.detect(snap)
	}
	return f
}

func anyPathContains(files []string, needles ...string) bool {
	for _, file := range files {
		lower := strings.ToLower(file)
		for _, needle := range needles {
			if strings.Contains(lower, needle) {
				return true
			}
		}
	}
	return false
}

func anyExtension(files []string, exts ...string) bool {
	for _, file := range files {
		ext := strings.ToLower(path.Ext(file))
		for _, want := range exts {
			if ext == want {
				return true
			}
		}
	}
	return false
}

var errorHandlingPattern = regexp.MustCompile(`\b(try|catch|throw|except|raise)\b`)

// binaryProbeSize is how much of a file is checked for NUL bytes
const binaryProbeSize = 8 * 1024

func scanErrorHandling(s *Snapshot) bool {
	for _, file := range s.Files {
		if !anyExtension([]string{file}, sourceExtension...) {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.Root, filepath.FromSlash(file)))
		if err != nil {
			continue
		}
		if isBinary(data) {
			continue
		}
		if errorHandlingPattern.Match(data) {
			return true
		}
	}
	return false
}

func isBinary(data []byte) bool {
	probe := data
	if len(probe) > binaryProbeSize {
		probe = probe[:binaryProbeSize]
	}
	return bytes.IndexByte(probe, 0) >= 0
}
