package simflow

import "errors"

var (
	// Configuration conflicts. Both indicate an incompatible set of
	// chosen components: a defect to fix before rerunning, not a
	// transient condition.
	ErrClassifyConflict = errors.New("simflow: incompatible classification decisions")
	ErrDuplicateRecord  = errors.New("simflow: duplicate run-record production")

	// Configuration errors.
	ErrNoComponents = errors.New("simflow: no components registered")
	ErrBadConfig    = errors.New("simflow: invalid configuration")
)
