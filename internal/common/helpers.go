package common

// ToPointer returns a pointer to the given value. Used for optional
// response fields, where &literal does not compile.
func ToPointer[T any](p T) *T {
	return &p
}
