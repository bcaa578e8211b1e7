// Package fsutil holds the file helpers used by sessions and agents: directory
// management, JSON array files, content hashing, downloads, inline media and a
// directory watcher.
//
// The JSON helpers read, modify and rewrite whole files. They are not
// transactional: concurrent writers to one file, across goroutines or
// processes, can lose updates. Callers that share a file serialize access
// themselves (the session stores hold a mutex per store).
package fsutil
