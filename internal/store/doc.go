// Package store holds facetfilter's shared filter state. A [Store] is the
// single owner of the current [filter.ActiveSet]; all changes go through
// [Store.Dispatch] and are announced to subscribed observers.
//
// State outlives a process through a [Backend]: [FileBackend] writes a
// YAML state file and [SQLiteBackend] a SQLite database. [OpenBackend]
// chooses between them by file extension.
package store
