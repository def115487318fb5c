// Package fileutil holds file permission modes shared by commands and tests.
package fileutil

import "os"

// OwnerReadWrite is the mode for files that may hold connection strings,
// such as dotenv files and exported schemas.
const OwnerReadWrite os.FileMode = 0o600
