// Package gitrepo answers read-only questions about git working copies.
//
// RepositoryInspector reports the revision HEAD points at and the fetch URL of
// a named remote. ShellRepositoryInspector asks the git binary through
// execshell; EmbeddedRepositoryInspector reads the repository in-process with
// go-git for hosts that have no git installed.
package gitrepo
