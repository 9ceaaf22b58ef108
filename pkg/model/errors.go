package model

import "fmt"

func errRange(field string, value float64) error {
	return fmt.Errorf("%s %.3f out of range [0,1]", field, value)
}

func errEmpty(field string) error {
	return fmt.Errorf("%s must be non-empty", field)
}

func errInvalid(field, value string) error {
	return fmt.Errorf("invalid %s %q", field, value)
}
