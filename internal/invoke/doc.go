// Package invoke runs helper executables and reports their exit status.
//
// Every facade call ends in Runner.RunHelper: the platform gate is checked
// first, then the helper is resolved (and materialized if needed) and run
// with its output captured. A non-zero exit code is returned as data; only
// failures to start the process are errors.
package invoke
