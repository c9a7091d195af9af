package logutil

import "strings"

// minRevealLen is the shortest key that keeps its prefix and last four
// characters when masked.
const minRevealLen = 16

// MaskSecret reduces an API key to a fingerprint that is safe to log or
// return from read APIs. A short vendor prefix such as "sk_" is kept along
// with the last four characters. Keys shorter than minRevealLen are masked
// entirely.
// Example: "sk_test_51Habcd1234" -> "sk_****1234"
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) < minRevealLen {
		return "****"
	}
	prefix := ""
	if i := strings.Index(secret, "_"); i > 0 && i <= 4 {
		prefix = secret[:i+1]
	}
	return prefix + "****" + secret[len(secret)-4:]
}

// IsMaskedSecret reports whether value looks like output of MaskSecret, so
// update APIs can ignore a masked value echoed back unchanged.
func IsMaskedSecret(value string) bool {
	return strings.Contains(value, "****")
}

// MaskEmail keeps the first character of the local part and the domain.
// Example: "ada@example.com" -> "a***@example.com"
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		if email == "" {
			return ""
		}
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
