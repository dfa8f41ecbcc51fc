package models

// Session is the explicit privilege context for an operation.
//
// Cost data and write operations require an admin session. A zero Session is
// an anonymous, unprivileged caller.
type Session struct {
	Email string
	Admin bool
}

// AdminSession returns a privileged session for the given contact.
func AdminSession(email string) Session {
	return Session{Email: email, Admin: true}
}
