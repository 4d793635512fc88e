package sync

import "errors"

var (
	ErrBackupTooLarge = errors.New("backup exceeds size limit")
	ErrEmptyUserID    = errors.New("user id is required")
)
