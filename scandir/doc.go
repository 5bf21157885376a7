// Package scandir reads directories of scanned book pages as produced by
// book scanning stations: zero-padded page images plus the optional
// scandata.json, metadata.xml, and identifier.txt sidecar files.
package scandir
