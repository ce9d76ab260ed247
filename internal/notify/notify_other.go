//go:build !darwin

package notify

// Send is a no-op on non-darwin platforms
func Send(title, message string) error {
	return nil
}

// SendPending is a no-op on non-darwin platforms
func SendPending(pending int) error {
	return nil
}

// SendCloseRejected is a no-op on non-darwin platforms
func SendCloseRejected(title, message string) error {
	return nil
}
