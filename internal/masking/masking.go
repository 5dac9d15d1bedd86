// Package masking redacts contact details for unauthenticated responses.
package masking

import "strings"

const stars = "****"

// Phone keeps the first 4 and last 2 characters: 01712345678 -> 0171****78.
// Values too short to keep both ends are fully masked.
func Phone(phone string) string {
	r := []rune(phone)
	if len(r) < 6 {
		return stars
	}
	return string(r[:4]) + stars + string(r[len(r)-2:])
}

// Email keeps up to 3 characters of the local part and the domain:
// john.doe@x.com -> joh***@x.com.
func Email(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	r := []rune(local)
	if len(r) > 3 {
		r = r[:3]
	}
	if !ok {
		return string(r) + "***"
	}
	return string(r) + "***@" + domain
}

// TransactionID keeps the first 4 characters.
func TransactionID(trx string) string {
	r := []rune(trx)
	if len(r) > 4 {
		r = r[:4]
	}
	return string(r) + stars
}

// Optional applies fn to a nullable value.
func Optional(v *string, fn func(string) string) *string {
	if v == nil {
		return nil
	}
	m := fn(*v)
	return &m
}
