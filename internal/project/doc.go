// Package project knows the supported template families, where each family
// keeps its code, and how to tell which family an existing project belongs
// to. The create subpackage builds new projects on top of it.
//
// # Families
//
//	node        Express API, code under src/
//	react       Vite + React app, code under src/
//	python      Flask API, code under app/
//	full-stack  React client in client/, Express server in server/,
//	            one root package.json
//
// # Detection
//
// Detect inspects a directory without reading source files:
//
//	family, err := project.Detect("/path/to/app")
//	// requirements.txt or pyproject.toml  → python
//	// client/ and server/ directories     → full-stack
//	// "react" dependency in package.json  → react
//	// anything else                       → node
package project
