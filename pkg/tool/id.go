package tool

import "github.com/google/uuid"

func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// IsUUID reports whether s parses as a UUID; used to reject malformed path ids early.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
