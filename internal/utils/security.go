package utils

import "strings"

// MaskPhoneNumber masks a phone number for secure logging
// Keeps first 3 and last 4 characters visible, masks the rest
func MaskPhoneNumber(phone string) string {
	if len(phone) <= 6 {
		return "****"
	}
	return phone[:3] + "****" + phone[len(phone)-4:]
}

// TruncateText shortens message text to max runes for preview rendering,
// collapsing newlines so the result stays on one line.
func TruncateText(text string, max int) string {
	text = strings.ReplaceAll(text, "\n", " ")
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
