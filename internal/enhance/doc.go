// Package enhance inspects an existing project and layers on improvements it
// is missing: structured logging, error handling, environment configuration,
// validation, API documentation, testing setup and family-specific extras.
//
// A run is a straight pipeline:
//
//	snap, _ := enhance.Capture(root, family)        // file list + manifest
//	features := enhance.Classify(snap)              // what the project has
//	list := enhance.Synthesize(root, features, snap.Manifest, family)
//	summary := enhance.ApplyAll(ctx, list)          // high, medium, low
//
// Engine.Run wires the steps together and writes ENHANCEMENTS.md at the
// project root.
//
// Every Action is idempotent: files that already exist are kept, manifest
// entries are never downgraded, ignore patterns and TOML keys are only added
// when absent. Applying the same list twice leaves the tree byte-identical.
package enhance
