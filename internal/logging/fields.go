package logging

import "log/slog"

// Common field names for consistent logging across the server.
const (
	FieldService   = "service"
	FieldAccountID = "account_id"
	FieldEmail     = "email"
	FieldIP        = "ip"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldError     = "error"
	FieldTitleID   = "title_id"
	FieldSubject   = "subject"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// AccountID returns a slog attribute for the account ID.
func AccountID(id string) slog.Attr {
	return slog.String(FieldAccountID, id)
}

// Email returns a slog attribute for the account email.
func Email(email string) slog.Attr {
	return slog.String(FieldEmail, email)
}

// IP returns a slog attribute for the IP address.
func IP(ip string) slog.Attr {
	return slog.String(FieldIP, ip)
}

// Method returns a slog attribute for the HTTP method.
func Method(method string) slog.Attr {
	return slog.String(FieldMethod, method)
}

// Path returns a slog attribute for the HTTP path.
func Path(path string) slog.Attr {
	return slog.String(FieldPath, path)
}

// Status returns a slog attribute for the HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int(FieldStatus, code)
}

// Duration returns a slog attribute for duration in milliseconds.
func Duration(ms int64) slog.Attr {
	return slog.Int64(FieldDuration, ms)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}

// TitleID returns a slog attribute for a catalog title ID.
func TitleID(id string) slog.Attr {
	return slog.String(FieldTitleID, id)
}

// Subject returns a slog attribute for a message subject.
func Subject(subject string) slog.Attr {
	return slog.String(FieldSubject, subject)
}
