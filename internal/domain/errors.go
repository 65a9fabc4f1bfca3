package domain

import "errors"

// ErrConfiguration is returned for malformed working hours or occupied interval times.
// It indicates broken input from a collaborator, not a transient condition.
var ErrConfiguration = errors.New("domain: invalid configuration")
