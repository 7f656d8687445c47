// Package sources derives a pinned source manifest from a build directory.
//
// A build directory keeps vendored dependencies under src/<domain>/<owner>,
// where an owner is either itself a git checkout or a directory of checkouts.
// RepositoryLocator finds those checkouts, GitDescriptorExtractor records the
// remote URL and HEAD commit of each one, and ManifestEmitter writes the
// descriptors as a JSON array that packaging tools consume as a list of git
// sources. The run is sequential and all-or-nothing: the manifest is written
// only after every checkout was described.
package sources
