package db

import "errors"

// ErrDecode блоб прочитан, но не является ожидаемым JSON документом.
var ErrDecode = errors.New("decode blob")
