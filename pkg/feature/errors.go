package feature

import "errors"

var (
	ErrFeatureNotFound = errors.New("feature not found")
	ErrModuleNotFound  = errors.New("module not found")

	// ErrInvalidFeature indicates a feature record failed validation.
	ErrInvalidFeature = errors.New("invalid feature")
	// ErrInvalidModule indicates a module record failed validation.
	ErrInvalidModule = errors.New("invalid module")
	ErrInvalidTier   = errors.New("invalid tier")

	ErrDuplicateFeature = errors.New("feature already exists")
	ErrInvalidCatalog   = errors.New("invalid feature catalog")

	// ErrIncompatibleSelection is matched by *CompatibilityError.
	ErrIncompatibleSelection = errors.New("incompatible feature selection")

	// ErrInactiveFeature indicates a deactivated feature was selected.
	ErrInactiveFeature = errors.New("feature is not active")

	// ErrOperationFailed indicates a catalog store failure.
	ErrOperationFailed = errors.New("feature operation failed")
)
