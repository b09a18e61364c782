// utils/valid.go
package utils

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/campspot_console/models"
)

var (
	scriptRegex = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex  = regexp.MustCompile(`[^\d+]`)
)

// ValidObjectID reports whether id is a backend document id.
func ValidObjectID(id string) bool {
	return primitive.IsValidObjectID(id)
}

// SanitizeInput trims user input and strips control characters and script tags.
func SanitizeInput(input string) string {
	// Trim spaces
	input = strings.TrimSpace(input)

	// Remove control characters
	input = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)

	// Remove any potential script tags
	return scriptRegex.ReplaceAllString(input, "")
}

// SanitizeEmail sanitizes and validates an email address
func SanitizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(email) {
		return "", errors.New("invalid email format")
	}
	return email, nil
}

// SanitizePhone sanitizes and validates a phone number
func SanitizePhone(phone string) (string, error) {
	// If phone is empty, return empty string (phone is optional)
	if strings.TrimSpace(phone) == "" {
		return "", nil
	}

	// Remove all non-numeric characters except +
	phone = phoneRegex.ReplaceAllString(phone, "")

	// Ensure phone number starts with +
	if !strings.HasPrefix(phone, "+") {
		phone = "+" + phone
	}

	if len(phone) < 8 || len(phone) > 15 {
		return "", errors.New("invalid phone number length")
	}
	return phone, nil
}

// SanitizeStringArray sanitizes an array of strings, dropping empties.
func SanitizeStringArray(inputs []string) []string {
	if inputs == nil {
		return nil
	}
	sanitized := make([]string, 0, len(inputs))
	for _, input := range inputs {
		if s := SanitizeInput(input); s != "" {
			sanitized = append(sanitized, s)
		}
	}
	return sanitized
}

// SanitizeSpotDetails cleans the free-text fields of a spot form in place.
func SanitizeSpotDetails(d *models.SpotDetails) {
	d.Name = SanitizeInput(d.Name)
	d.Location = SanitizeInput(d.Location)
	d.Description = SanitizeInput(d.Description)
	d.Category = SanitizeInput(d.Category)
	d.Amenities = SanitizeInput(d.Amenities)
	d.EmergencyContact = SanitizeInput(d.EmergencyContact)
	d.CancellationPolicy = SanitizeInput(d.CancellationPolicy)
	d.RefundPolicy = SanitizeInput(d.RefundPolicy)
	d.PetPolicy = SanitizeInput(d.PetPolicy)
	d.Facilities = SanitizeStringArray(d.Facilities)
	d.Tags = SanitizeStringArray(d.Tags)
	d.Rules = SanitizeStringArray(d.Rules)
}
