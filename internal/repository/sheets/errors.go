package sheets

import "errors"

// ErrFileAccess reports that the backing sheet could not be opened, read or saved.
var ErrFileAccess = errors.New("sales sheet is not accessible")
