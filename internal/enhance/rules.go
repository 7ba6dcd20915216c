package enhance

import (
	"github.com/simonhull/firebird-suite/hatch/internal/manifest"
	"github.com/simonhull/firebird-suite/hatch/internal/project"
)

// ruleContext is what a rule may look at when deciding its steps
type ruleContext struct {
	family   project.Family
	layout   project.Layout
	manifest *manifest.Manifest
}

type rule struct {
	description string
	category    Category
	priority    Priority
	when        func(Features, ruleContext) bool // nil means always
	steps       func(ruleContext) []Step
}

// Synthesize turns a feature vector into the ordered list of enhancements
// for a family: the generic rules first, then the family rules. The list is
// returned as is, without de-duplication.
func Synthesize(root string, features Features, m *manifest.Manifest, family project.Family) []Enhancement {
	if m == nil {
		m = manifest.Empty()
	}
	rc := ruleContext{family: family, layout: family.Layout(), manifest: m}

	var out []Enhancement
	for _, r := range rulesFor(family) {
		if r.when != nil && !r.when(features, rc) {
			continue
		}
		out = append(out, Enhancement{
			Category:    r.category,
			Description: r.description,
			Priority:    r.priority,
			Action: Action{
				Root:   root,
				Family: family,
				Steps:  r.steps(rc),
			},
		})
	}
	return out
}

func rulesFor(family project.Family) []rule {
	rules := append([]rule{}, genericRules...)
	switch family {
	case project.FamilyReact:
		rules = append(rules, reactRules...)
	case project.FamilyNode:
		rules = append(rules, nodeRules...)
	case project.FamilyPython:
		rules = append(rules, pythonRules...)
	case project.FamilyFullStack:
		rules = append(rules, reactRules...)
		rules = append(rules, nodeRules...)
		rules = append(rules, frontendClientRule)
	}
	return rules
}

var genericRules = []rule{
	{
		description: "Add structured logging",
		category:    CategoryDependency,
		priority:    PriorityHigh,
		when:        func(f Features, _ ruleContext) bool { return !f.HasLogging },
		steps:       loggingSteps,
	},
	{
		description: "Add comprehensive error handling",
		category:    CategoryCode,
		priority:    PriorityHigh,
		when:        func(f Features, _ ruleContext) bool { return !f.HasErrorHandling },
		steps:       errorHandlingSteps,
	},
	{
		description: "Add environment configuration",
		category:    CategoryConfig,
		priority:    PriorityMedium,
		when:        func(f Features, _ ruleContext) bool { return !f.HasEnvironmentConfig },
		steps:       environmentSteps,
	},
	{
		description: "Add input validation",
		category:    CategoryDependency,
		priority:    PriorityMedium,
		when: func(f Features, rc ruleContext) bool {
			return rc.family.NodeLike() && !f.HasValidation
		},
		steps: func(rc ruleContext) []Step {
			return []Step{
				AddDependencies(map[string]string{"joi": "^17.13.1"}),
				WriteFile(rc.layout.Server("middleware", "validate.js"), "node/validate.js.tmpl"),
			}
		},
	},
	{
		description: "Add API documentation",
		category:    CategoryDependency,
		priority:    PriorityMedium,
		when: func(f Features, rc ruleContext) bool {
			return rc.family.NodeLike() && !f.HasAPIDocumentation
		},
		steps: func(rc ruleContext) []Step {
			return []Step{
				AddDependencies(map[string]string{
					"swagger-jsdoc":      "^6.2.8",
					"swagger-ui-express": "^5.0.1",
				}),
				WriteFile(rc.layout.Server("config", "swagger.js"), "node/swagger.js.tmpl"),
			}
		},
	},
	{
		description: "Enhance testing configuration",
		category:    CategoryConfig,
		priority:    PriorityMedium,
		steps:       testingSteps,
	},
}

// lintingRule is shared by the react and node tables, so a full-stack
// project lists it twice with identical steps.
var lintingRule = rule{
	description: "Add linting and formatting",
	category:    CategoryConfig,
	priority:    PriorityLow,
	when:        func(f Features, _ ruleContext) bool { return !f.HasLinting || !f.HasFormatting },
	steps: func(rc ruleContext) []Step {
		dev := map[string]string{
			"eslint":                 "^8.57.0",
			"eslint-config-prettier": "^9.1.0",
			"prettier":               "^3.3.2",
		}
		if rc.family.HasClient() {
			dev["eslint-plugin-react"] = "^7.34.2"
			dev["eslint-plugin-react-hooks"] = "^4.6.2"
		}
		return []Step{
			AddDevDependencies(dev),
			WriteFile(".eslintrc.json", "shared/eslintrc.json.tmpl"),
			WriteFile(".prettierrc", "shared/prettierrc.tmpl"),
			AddScripts(map[string]string{
				"lint":   "eslint .",
				"format": "prettier --write .",
			}),
		}
	},
}

var reactRules = []rule{
	{
		description: "Add performance optimization utilities",
		category:    CategoryCode,
		priority:    PriorityMedium,
		steps: func(rc ruleContext) []Step {
			return []Step{WriteFile(rc.layout.Client("utils", "performance.js"), "react/performance.js.tmpl")}
		},
	},
	{
		description: "Add client-side routing",
		category:    CategoryDependency,
		priority:    PriorityMedium,
		steps: func(rc ruleContext) []Step {
			return []Step{
				AddDependencies(map[string]string{"react-router-dom": "^6.23.1"}),
				WriteFile(rc.layout.Client("routes", "AppRouter.jsx"), "react/AppRouter.jsx.tmpl"),
			}
		},
	},
	{
		description: "Add data fetching hook",
		category:    CategoryCode,
		priority:    PriorityLow,
		steps: func(rc ruleContext) []Step {
			return []Step{WriteFile(rc.layout.Client("hooks", "useFetch.js"), "react/useFetch.js.tmpl")}
		},
	},
	lintingRule,
}

var nodeRules = []rule{
	{
		description: "Add database connection utility",
		category:    CategoryCode,
		priority:    PriorityMedium,
		steps: func(rc ruleContext) []Step {
			return []Step{WriteFile(rc.layout.Server("utils", "database.js"), "node/database.js.tmpl")}
		},
	},
	{
		description: "Add security middleware",
		category:    CategoryDependency,
		priority:    PriorityHigh,
		steps: func(rc ruleContext) []Step {
			return []Step{
				AddDependencies(map[string]string{
					"cors":   "^2.8.5",
					"helmet": "^7.1.0",
				}),
				WriteFile(rc.layout.Server("middleware", "security.js"), "node/security.js.tmpl"),
			}
		},
	},
	{
		description: "Add caching and rate limiting",
		category:    CategoryCode,
		priority:    PriorityMedium,
		steps: func(rc ruleContext) []Step {
			return []Step{
				WriteFile(rc.layout.Server("utils", "cache.js"), "node/cache.js.tmpl"),
				WriteFile(rc.layout.Server("middleware", "rateLimit.js"), "node/rateLimit.js.tmpl"),
			}
		},
	},
	lintingRule,
}

var pythonRules = []rule{
	{
		description: "Add logging configuration",
		category:    CategoryConfig,
		priority:    PriorityHigh,
		steps: func(rc ruleContext) []Step {
			return []Step{WriteFile(rc.layout.Server("logging_config.py"), "python/logging_config.py.tmpl")}
		},
	},
	{
		description: "Add request validation decorators",
		category:    CategoryCode,
		priority:    PriorityMedium,
		steps: func(rc ruleContext) []Step {
			return []Step{WriteFile(rc.layout.Server("utils", "validation.py"), "python/validation.py.tmpl")}
		},
	},
	{
		description: "Add type checking configuration",
		category:    CategoryConfig,
		priority:    PriorityLow,
		steps: func(rc ruleContext) []Step {
			return []Step{
				AddDevDependencies(map[string]string{"mypy": ">=1.10.0"}),
				MergeTOML("pyproject.toml", "tool.mypy", map[string]any{
					"python_version":         "3.11",
					"warn_return_any":        true,
					"warn_unused_configs":    true,
					"ignore_missing_imports": true,
				}),
				WriteFile(rc.layout.Server("py.typed"), "python/py.typed.tmpl"),
			}
		},
	},
}

var frontendClientRule = rule{
	description: "Add frontend API client",
	category:    CategoryCode,
	priority:    PriorityHigh,
	steps: func(rc ruleContext) []Step {
		return []Step{
			WriteFile(rc.layout.Client("config", "env.js"), "react/env.js.tmpl"),
			WriteFile(rc.layout.Client("utils", "errors.js"), "react/errors.js.tmpl"),
			WriteFile(rc.layout.Client("api", "client.js"), "react/apiClient.js.tmpl"),
		}
	},
}

func loggingSteps(rc ruleContext) []Step {
	switch {
	case rc.family == project.FamilyPython:
		return []Step{
			AddDependencies(map[string]string{"structlog": ">=24.1.0"}),
			WriteFile(rc.layout.Server("utils", "logger.py"), "python/logger.py.tmpl"),
		}
	case rc.family.HasServer():
		return []Step{
			AddDependencies(map[string]string{"winston": "^3.13.0"}),
			WriteFile(rc.layout.Server("utils", "logger.js"), "node/logger.js.tmpl"),
		}
	default:
		return []Step{
			AddDependencies(map[string]string{"loglevel": "^1.9.1"}),
			WriteFile(rc.layout.Client("utils", "logger.js"), "react/logger.js.tmpl"),
		}
	}
}

func errorHandlingSteps(rc ruleContext) []Step {
	if rc.family == project.FamilyPython {
		return []Step{WriteFile(rc.layout.Server("utils", "errors.py"), "python/errors.py.tmpl")}
	}

	var steps []Step
	if rc.family.HasServer() {
		steps = append(steps,
			WriteFile(rc.layout.Server("utils", "AppError.js"), "node/AppError.js.tmpl"),
			WriteFile(rc.layout.Server("middleware", "errorHandler.js"), "node/errorHandler.js.tmpl"),
		)
	}
	if rc.family.HasClient() {
		steps = append(steps,
			WriteFile(rc.layout.Client("utils", "errors.js"), "react/errors.js.tmpl"),
			WriteFile(rc.layout.Client("components", "ErrorBoundary.jsx"), "react/ErrorBoundary.jsx.tmpl"),
		)
	}
	return steps
}

func environmentSteps(rc ruleContext) []Step {
	steps := []Step{WriteFile(".env.example", "shared/env.example.tmpl")}

	switch {
	case rc.family == project.FamilyPython:
		steps = append(steps,
			AddDependencies(map[string]string{"python-dotenv": ">=1.0.1"}),
			WriteFile(rc.layout.Server("config", "settings.py"), "python/settings.py.tmpl"),
		)
	default:
		if rc.family.HasServer() {
			steps = append(steps,
				AddDependencies(map[string]string{"dotenv": "^16.4.5"}),
				WriteFile(rc.layout.Server("config", "env.js"), "node/env.js.tmpl"),
			)
		}
		if rc.family.HasClient() {
			steps = append(steps, WriteFile(rc.layout.Client("config", "env.js"), "react/env.js.tmpl"))
		}
	}

	return append(steps, AppendIgnore(".env", ".env.local"))
}

func testingSteps(rc ruleContext) []Step {
	switch {
	case rc.family == project.FamilyPython:
		return []Step{
			AddDevDependencies(map[string]string{
				"pytest":     ">=8.2.0",
				"pytest-cov": ">=5.0.0",
			}),
			MergeTOML("pyproject.toml", "tool.pytest.ini_options", map[string]any{
				"testpaths": []string{"tests"},
				"addopts":   "-ra --cov=" + rc.layout.ServerDir,
			}),
			WriteFile("tests/conftest.py", "python/conftest.py.tmpl"),
		}
	case rc.family == project.FamilyReact || rc.manifest.HasDevDependency("vitest"):
		dev := map[string]string{"vitest": "^1.6.0"}
		if rc.family.HasClient() {
			dev["@testing-library/react"] = "^16.0.0"
			dev["jsdom"] = "^24.1.0"
		}
		return []Step{
			AddDevDependencies(dev),
			WriteFile("vitest.config.js", "react/vitest.config.js.tmpl"),
			AddScripts(map[string]string{
				"test":          "vitest run",
				"test:watch":    "vitest",
				"test:coverage": "vitest run --coverage",
			}),
		}
	default:
		return []Step{
			AddDevDependencies(map[string]string{
				"jest":      "^29.7.0",
				"supertest": "^7.0.0",
			}),
			WriteFile("jest.config.js", "node/jest.config.js.tmpl"),
			AddScripts(map[string]string{
				"test":          "jest",
				"test:watch":    "jest --watch",
				"test:coverage": "jest --coverage",
			}),
		}
	}
}
