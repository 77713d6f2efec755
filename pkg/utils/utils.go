package utils

import "database/sql"

// ToNullString maps an empty string to SQL NULL
func ToNullString(str string) sql.NullString {
	if str == "" {
		return sql.NullString{
			String: str,
			Valid:  false,
		}
	}
	return sql.NullString{
		String: str,
		Valid:  true,
	}
}

// FromNullString maps SQL NULL back to an empty string
func FromNullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// StringPtr returns a pointer to a copy of s
func StringPtr(s string) *string {
	return &s
}
