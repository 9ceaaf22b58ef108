package coreerrors

import "fmt"

// Marker is one of the emoji status prefixes attached to every user-visible
// message.
type Marker string

const (
	MarkerFailure Marker = "❌"
	MarkerInProgress Marker = "⏳"
	MarkerSuccess Marker = "✅"
	MarkerInformation Marker = "ℹ️"
)

// Present formats a user-visible message with its marker. Structural errors
// additionally carry {code, recoverable} for programmatic consumers; those
// fields live on CoreError itself and are not repeated in the text.
func Present(marker Marker, message string) string {
	return fmt.Sprintf("%s %s", marker, message)
}

// PresentError formats err as a failure message suitable for direct display.
func PresentError(err error) string {
	return Present(MarkerFailure, err.Error())
}
