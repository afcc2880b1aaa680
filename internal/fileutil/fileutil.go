package fileutil

import "os"

// OwnerReadWrite is the file permission mode for filtered spec output files
// containing potentially sensitive API data (owner read/write only).
const OwnerReadWrite os.FileMode = 0o600
