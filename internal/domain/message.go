package domain

import "fmt"

// PushMessage wraps a trigger message in the text pushed to every client.
func PushMessage(message string) string {
	return fmt.Sprintf("! Push notification: %s !", message)
}

// EchoMessage is the direct reply to a text frame received from a client.
func EchoMessage(data string) string {
	return fmt.Sprintf("Message text was: %s", data)
}

// BroadcastReport summarises one broadcast pass.
type BroadcastReport struct {
	Recipients int `json:"recipients"`
	Delivered  int `json:"delivered"`
	Dropped    int `json:"dropped"`
}
