package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// IsProject reports whether rootPath looks like a project hatch can enhance
func IsProject(rootPath string) bool {
	for _, marker := range []string{"package.json", "requirements.txt", "pyproject.toml"} {
		if fileExists(filepath.Join(rootPath, marker)) {
			return true
		}
	}
	return false
}

// Detect infers the template family of an existing project
func Detect(rootPath string) (Family, error) {
	info, err := os.Stat(rootPath)
	if err != nil {
		return "", fmt.Errorf("reading project directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", rootPath)
	}

	if fileExists(filepath.Join(rootPath, "requirements.txt")) || fileExists(filepath.Join(rootPath, "pyproject.toml")) {
		return FamilyPython, nil
	}

	if dirExists(filepath.Join(rootPath, "client")) && dirExists(filepath.Join(rootPath, "server")) {
		return FamilyFullStack, nil
	}

	data, err := os.ReadFile(filepath.Join(rootPath, "package.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return FamilyNode, nil
		}
		return "", fmt.Errorf("failed to read package.json: %w", err)
	}

	var pkg struct {
		Dependencies    map[string]any `json:"dependencies"`
		DevDependencies map[string]any `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return "", fmt.Errorf("failed to parse package.json: %w", err)
	}

	if _, ok := pkg.Dependencies["react"]; ok {
		return FamilyReact, nil
	}
	return FamilyNode, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
