package notify

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeAliases(t *testing.T) {
	cases := []struct {
		key   string
		value string
		get   func(Canonical) string
	}{
		{"name", "Jane Doe", func(c Canonical) string { return c.Name }},
		{"fullName", "Jane Doe", func(c Canonical) string { return c.Name }},
		{"email", "jane@example.com", func(c Canonical) string { return c.Email }},
		{"emailAddress", "jane@example.com", func(c Canonical) string { return c.Email }},
		{"phone", "+91 98", func(c Canonical) string { return c.Phone }},
		{"contact", "+91 98", func(c Canonical) string { return c.Phone }},
		{"phoneNumber", "+91 98", func(c Canonical) string { return c.Phone }},
		{"mobile", "+91 98", func(c Canonical) string { return c.Phone }},
		{"message", "hello", func(c Canonical) string { return c.Message }},
		{"coverLetter", "hello", func(c Canonical) string { return c.Message }},
		{"comments", "hello", func(c Canonical) string { return c.Message }},
		{"company", "Acme", func(c Canonical) string { return c.Company }},
		{"companyName", "Acme", func(c Canonical) string { return c.Company }},
		{"organization", "Acme", func(c Canonical) string { return c.Company }},
		{"position", "Engineer", func(c Canonical) string { return c.Position }},
		{"jobTitle", "Engineer", func(c Canonical) string { return c.Position }},
		{"role", "Engineer", func(c Canonical) string { return c.Position }},
		{"location", "Pune", func(c Canonical) string { return c.Location }},
		{"city", "Pune", func(c Canonical) string { return c.Location }},
		{"address", "Pune", func(c Canonical) string { return c.Location }},
		{"experience", "3 years", func(c Canonical) string { return c.Experience }},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			c := Normalize(map[string]string{tc.key: "  " + tc.value + " "})
			require.Equal(t, tc.value, tc.get(c))
		})
	}
}

func TestNormalizeFirstAndLastName(t *testing.T) {
	require.Equal(t, "Jane Doe", Normalize(map[string]string{"firstName": "Jane", "lastName": "Doe"}).Name)
	require.Equal(t, "Jane", Normalize(map[string]string{"firstName": "Jane"}).Name)
	require.Equal(t, "Doe", Normalize(map[string]string{"lastName": " Doe"}).Name)
}

func TestNormalizePriority(t *testing.T) {
	c := Normalize(map[string]string{
		"name":      "Full Name",
		"firstName": "First",
		"phone":     "",
		"contact":   "123",
		"mobile":    "456",
	})
	require.Equal(t, "Full Name", c.Name)
	require.Equal(t, "123", c.Phone)
}

func TestNormalizeEmpty(t *testing.T) {
	require.Equal(t, Canonical{}, Normalize(nil))
}
