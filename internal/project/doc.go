// Package project locates dbt projects on disk and reads their manifests.
//
// A dbt project is a directory holding a dbt_project.yml file. The Locator
// first looks for the closest enclosing project by walking up from a start
// directory. When none encloses it, each ancestor's subtree is searched for
// the nested dbt/<name>/dbt_project.yml layout; the first level with matches
// wins, and a Chooser picks among several candidates.
//
//	loc := project.NewLocator(project.WithChooser(project.NewPromptChooser(os.Stdin, os.Stderr)))
//	dir, err := loc.Find(cwd)
//	if errors.Is(err, project.ErrNotFound) {
//		// report and stop
//	}
package project
