package shipping

import "errors"

var ErrSaveRejected = errors.New("shipping address rejected")
