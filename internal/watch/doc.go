// Package watch re-evaluates filters whenever the dataset or the filter
// state file changes on disk. It monitors the files' parent directories so
// atomic replacements are seen, debounces rapid events, and invokes a run
// function for each settled change.
package watch
