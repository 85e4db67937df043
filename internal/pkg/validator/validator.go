package validator

// Validator validates a struct based on its validate tags.
type Validator interface {
	// Validate returns nil when data passes all rules.
	Validate(data any) error
}
