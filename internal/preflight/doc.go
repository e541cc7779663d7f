// Package preflight provides readiness checks for the paths and services a
// rename run depends on.
//
// These checks run in two contexts:
//   - The run command calls RunAll before walking the input. For modes that
//     write to the output tree, any failed check aborts the run before a single
//     file is touched.
//   - The "config validate --online" command uses CheckLookupFromConfig to
//     confirm the configured TVDB credentials are accepted.
package preflight
