package memory

import "errors"

var ErrNotFound = errors.New("blob not found")
