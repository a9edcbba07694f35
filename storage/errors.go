package storage

import "errors"

var ErrItemWithIDAlreadyExists = errors.New("item with this ledger id already exists")
