// Package generator turns rendered templates into validated file system
// operations.
//
// Generators (template materialization, CI, deployment) return a slice of
// Operation values instead of touching the disk directly. Execute validates
// every operation first and only then writes, so a conflict discovered late
// never leaves a half-written project behind:
//
//	ops, err := ci.New(root, project.FamilyNode).Generate()
//	if err != nil {
//		return err
//	}
//	return generator.Execute(ctx, ops, generator.ExecuteOptions{Root: root})
//
// Renderer wraps text/template with the sprig function library plus a few
// case helpers used for package and module names. Transaction stages a group
// of writes and restores the previous state if any write fails.
package generator
