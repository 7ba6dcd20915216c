// Package deploy generates hosting configuration for a deployment target.
package deploy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/simonhull/firebird-suite/hatch/internal/generator"
	"github.com/simonhull/firebird-suite/hatch/internal/project"
)

// Target is a hosting provider
type Target string

const (
	TargetNone    Target = "none"
	TargetVercel  Target = "vercel"
	TargetNetlify Target = "netlify"
	TargetAWS     Target = "aws"
	TargetGCP     Target = "gcp"
)

// Targets lists every supported target
var Targets = []Target{TargetNone, TargetVercel, TargetNetlify, TargetAWS, TargetGCP}

// ParseTarget converts user input into a Target
func ParseTarget(s string) (Target, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "" {
		return TargetNone, nil
	}
	for _, t := range Targets {
		if string(t) == normalized {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown deploy target %q (available: none, vercel, netlify, aws, gcp)", s)
}

// Generator generates deployment files
type Generator struct {
	family      project.Family
	target      Target
	projectName string
}

// New creates a deployment generator
func New(family project.Family, target Target, projectName string) *Generator {
	return &Generator{family: family, target: target, projectName: projectName}
}

// Generate returns the write operation for the target's config file, or
// nothing for TargetNone
func (g *Generator) Generate(root string) ([]generator.Operation, error) {
	var (
		name    string
		content []byte
		err     error
	)

	switch g.target {
	case TargetNone:
		return nil, nil
	case TargetVercel:
		name = "vercel.json"
		content, err = g.vercel()
	case TargetNetlify:
		name = "netlify.toml"
		content, err = g.netlify()
	case TargetAWS:
		name = "serverless.yml"
		content, err = marshalYAML(g.serverless())
	case TargetGCP:
		name = "app.yaml"
		content, err = marshalYAML(g.appEngine())
	default:
		return nil, fmt.Errorf("unknown deploy target %q", g.target)
	}
	if err != nil {
		return nil, fmt.Errorf("generating %s: %w", name, err)
	}

	return []generator.Operation{
		&generator.WriteFileOp{
			Path:    filepath.Join(root, name),
			Content: content,
			Mode:    0644,
		},
	}, nil
}

// buildOutput is where the static client build lands
func (g *Generator) buildOutput() string {
	if g.family == project.FamilyFullStack {
		return "client/dist"
	}
	return "dist"
}

// serverEntry is the file that starts the server
func (g *Generator) serverEntry() string {
	switch g.family {
	case project.FamilyPython:
		return "wsgi.py"
	case project.FamilyFullStack:
		return "server/index.js"
	default:
		return "src/index.js"
	}
}

type vercelConfig struct {
	Version         int             `json:"version,omitempty"`
	BuildCommand    string          `json:"buildCommand,omitempty"`
	OutputDirectory string          `json:"outputDirectory,omitempty"`
	Builds          []vercelBuild   `json:"builds,omitempty"`
	Routes          []vercelRoute   `json:"routes,omitempty"`
	Rewrites        []vercelRewrite `json:"rewrites,omitempty"`
}

type vercelBuild struct {
	Src string `json:"src"`
	Use string `json:"use"`
}

type vercelRoute struct {
	Src  string `json:"src"`
	Dest string `json:"dest"`
}

type vercelRewrite struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

func (g *Generator) vercel() ([]byte, error) {
	var cfg vercelConfig

	switch g.family {
	case project.FamilyReact:
		cfg = vercelConfig{
			BuildCommand:    "npm run build",
			OutputDirectory: "dist",
			Rewrites:        []vercelRewrite{{Source: "/(.*)", Destination: "/index.html"}},
		}
	case project.FamilyFullStack:
		cfg = vercelConfig{
			BuildCommand:    "npm run build",
			OutputDirectory: g.buildOutput(),
			Rewrites: []vercelRewrite{
				{Source: "/api/(.*)", Destination: "/" + g.serverEntry()},
				{Source: "/(.*)", Destination: "/index.html"},
			},
		}
	case project.FamilyPython:
		cfg = vercelConfig{
			Version: 2,
			Builds:  []vercelBuild{{Src: g.serverEntry(), Use: "@vercel/python"}},
			Routes:  []vercelRoute{{Src: "/(.*)", Dest: g.serverEntry()}},
		}
	default:
		cfg = vercelConfig{
			Version: 2,
			Builds:  []vercelBuild{{Src: g.serverEntry(), Use: "@vercel/node"}},
			Routes:  []vercelRoute{{Src: "/(.*)", Dest: g.serverEntry()}},
		}
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

type netlifyConfig struct {
	Build     netlifyBuild      `toml:"build"`
	Redirects []netlifyRedirect `toml:"redirects,omitempty"`
}

type netlifyBuild struct {
	Command   string `toml:"command,omitempty"`
	Publish   string `toml:"publish"`
	Functions string `toml:"functions,omitempty"`
}

type netlifyRedirect struct {
	From   string `toml:"from"`
	To     string `toml:"to"`
	Status int    `toml:"status"`
}

func (g *Generator) netlify() ([]byte, error) {
	cfg := netlifyConfig{
		Build: netlifyBuild{Command: "npm run build", Publish: g.buildOutput()},
	}

	switch g.family {
	case project.FamilyReact:
		cfg.Redirects = []netlifyRedirect{{From: "/*", To: "/index.html", Status: 200}}
	case project.FamilyFullStack:
		cfg.Build.Functions = "netlify/functions"
		cfg.Redirects = []netlifyRedirect{
			{From: "/api/*", To: "/.netlify/functions/api/:splat", Status: 200},
			{From: "/*", To: "/index.html", Status: 200},
		}
	case project.FamilyPython:
		cfg.Build = netlifyBuild{Command: "pip install -r requirements.txt", Publish: "static", Functions: "netlify/functions"}
	default:
		cfg.Build = netlifyBuild{Publish: "public", Functions: "netlify/functions"}
		cfg.Redirects = []netlifyRedirect{{From: "/*", To: "/.netlify/functions/api/:splat", Status: 200}}
	}

	return toml.Marshal(cfg)
}

type serverlessConfig struct {
	Service   string                        `yaml:"service"`
	Provider  serverlessProvider            `yaml:"provider"`
	Plugins   []string                      `yaml:"plugins,omitempty"`
	Custom    map[string]any                `yaml:"custom,omitempty"`
	Functions map[string]serverlessFunction `yaml:"functions,omitempty"`
}

type serverlessProvider struct {
	Name    string `yaml:"name"`
	Runtime string `yaml:"runtime,omitempty"`
	Region  string `yaml:"region"`
	Stage   string `yaml:"stage"`
}

type serverlessFunction struct {
	Handler string              `yaml:"handler"`
	Events  []map[string]string `yaml:"events"`
}

func (g *Generator) serverless() serverlessConfig {
	cfg := serverlessConfig{
		Service: generator.KebabCase(g.projectName),
		Provider: serverlessProvider{
			Name:   "aws",
			Region: "us-east-1",
			Stage:  "${opt:stage, 'dev'}",
		},
	}

	if g.family == project.FamilyReact {
		cfg.Plugins = []string{"serverless-finch"}
		cfg.Custom = map[string]any{
			"client": map[string]string{
				"bucketName":         cfg.Service + "-${sls:stage}",
				"distributionFolder": g.buildOutput(),
			},
		}
		return cfg
	}

	handler := "src/lambda.handler"
	cfg.Provider.Runtime = "nodejs20.x"
	switch g.family {
	case project.FamilyPython:
		handler = "wsgi_handler.handler"
		cfg.Provider.Runtime = "python3.12"
		cfg.Plugins = []string{"serverless-wsgi", "serverless-python-requirements"}
		cfg.Custom = map[string]any{"wsgi": map[string]string{"app": "wsgi.app"}}
	case project.FamilyFullStack:
		handler = "server/lambda.handler"
	}

	cfg.Functions = map[string]serverlessFunction{
		"api": {Handler: handler, Events: []map[string]string{{"httpApi": "*"}}},
	}
	return cfg
}

type appEngineConfig struct {
	Runtime    string             `yaml:"runtime"`
	Entrypoint string             `yaml:"entrypoint,omitempty"`
	Env        map[string]string  `yaml:"env_variables,omitempty"`
	Handlers   []appEngineHandler `yaml:"handlers,omitempty"`
}

type appEngineHandler struct {
	URL         string `yaml:"url"`
	StaticDir   string `yaml:"static_dir,omitempty"`
	StaticFiles string `yaml:"static_files,omitempty"`
	Upload      string `yaml:"upload,omitempty"`
	Script      string `yaml:"script,omitempty"`
	Secure      string `yaml:"secure"`
}

func (g *Generator) appEngine() appEngineConfig {
	switch g.family {
	case project.FamilyPython:
		return appEngineConfig{
			Runtime:    "python312",
			Entrypoint: "gunicorn -b :$PORT wsgi:app",
			Handlers:   []appEngineHandler{{URL: "/.*", Script: "auto", Secure: "always"}},
		}
	case project.FamilyReact:
		return appEngineConfig{
			Runtime: "nodejs20",
			Handlers: []appEngineHandler{
				{URL: "/assets", StaticDir: "dist/assets", Secure: "always"},
				{URL: "/.*", StaticFiles: "dist/index.html", Upload: "dist/index.html", Secure: "always"},
			},
		}
	default:
		return appEngineConfig{
			Runtime:    "nodejs20",
			Entrypoint: "node " + g.serverEntry(),
			Env:        map[string]string{"NODE_ENV": "production"},
			Handlers:   []appEngineHandler{{URL: "/.*", Script: "auto", Secure: "always"}},
		}
	}
}

func marshalYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
