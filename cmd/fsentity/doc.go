// Command fsentity copies, moves and inspects files and directories through
// the entity package, and can serve a directory tree over HTTP.
//
// Configuration comes from an optional YAML file (--config) overlaid by
// FSENTITY_* environment variables; flags override both.
//
// Usage:
//
//	fsentity copy ./photos /mnt/backup/photos
//	fsentity move --into report.pdf ./archive
//	fsentity move --on-conflict=fail a.txt b.txt
//	fsentity stat --json ./photos
//	fsentity ls --glob '**/*.jpg' ./photos
//	fsentity serve --root ./public --port 9000
package main
