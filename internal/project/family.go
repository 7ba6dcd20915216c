package project

import (
	"fmt"
	"path"
	"strings"
)

// Family is one of the supported project archetypes
type Family string

const (
	FamilyNode      Family = "node"
	FamilyReact     Family = "react"
	FamilyPython    Family = "python"
	FamilyFullStack Family = "full-stack"
)

// Families lists every supported family in display order
var Families = []Family{FamilyNode, FamilyReact, FamilyPython, FamilyFullStack}

// ParseFamily converts user input into a Family
func ParseFamily(s string) (Family, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	switch normalized {
	case "fullstack", "full_stack":
		normalized = string(FamilyFullStack)
	case "express":
		normalized = string(FamilyNode)
	case "flask":
		normalized = string(FamilyPython)
	}
	for _, f := range Families {
		if string(f) == normalized {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown template %q (available: node, react, python, full-stack)", s)
}

// String returns the family identifier
func (f Family) String() string {
	return string(f)
}

// NodeLike reports whether the family exposes an HTTP API written in JavaScript
func (f Family) NodeLike() bool {
	return f == FamilyNode || f == FamilyFullStack
}

// JavaScript reports whether the family is managed through package.json
func (f Family) JavaScript() bool {
	return f != FamilyPython
}

// HasClient reports whether the family ships a browser client
func (f Family) HasClient() bool {
	return f == FamilyReact || f == FamilyFullStack
}

// HasServer reports whether the family ships a server
func (f Family) HasServer() bool {
	return f != FamilyReact
}

// Layout describes where a family keeps its code, relative to the project root.
// Empty strings mean the family has no such side.
type Layout struct {
	ServerDir string
	ClientDir string
}

// Layout returns the directory layout for the family
func (f Family) Layout() Layout {
	switch f {
	case FamilyReact:
		return Layout{ClientDir: "src"}
	case FamilyPython:
		return Layout{ServerDir: "app"}
	case FamilyFullStack:
		return Layout{ServerDir: "server", ClientDir: "client/src"}
	default:
		return Layout{ServerDir: "src"}
	}
}

// Server joins elem under the server directory
func (l Layout) Server(elem ...string) string {
	return path.Join(append([]string{l.ServerDir}, elem...)...)
}

// Client joins elem under the client directory
func (l Layout) Client(elem ...string) string {
	return path.Join(append([]string{l.ClientDir}, elem...)...)
}

// Primary returns the server directory, or the client directory for
// client-only families
func (l Layout) Primary() string {
	if l.ServerDir != "" {
		return l.ServerDir
	}
	return l.ClientDir
}
