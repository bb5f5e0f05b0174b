// Package output serialises facetfilter views and writes them to their
// destination.
//
//   - Formats (format.go): text, YAML via sigs.k8s.io/yaml, or indented JSON.
//
//   - Writers (writer.go): a [Writer] is either a [StreamWriter] or a
//     [FileWriter]; [Destination] picks one from an optional path.
//     FileWriter replaces files atomically, so a watcher never reads a
//     half-written state file.
package output
