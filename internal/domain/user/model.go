package user

// User is a registered league member.
type User struct {
	ID          int64
	DisplayName string
}
