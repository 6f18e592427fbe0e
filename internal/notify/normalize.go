package notify

import "strings"

// Canonical is the normalized view of a submission used to render emails.
type Canonical struct {
	Name       string
	Email      string
	Phone      string
	Message    string
	Company    string
	Position   string
	Location   string
	Experience string
}

// Alias keys per canonical field, in priority order. "firstName+lastName" is
// handled in Normalize since it combines two keys.
var (
	nameKeys       = []string{"name", "fullName"}
	emailKeys      = []string{"email", "emailAddress"}
	phoneKeys      = []string{"phone", "contact", "phoneNumber", "mobile"}
	messageKeys    = []string{"message", "coverLetter", "comments"}
	companyKeys    = []string{"company", "companyName", "organization"}
	positionKeys   = []string{"position", "jobTitle", "role"}
	locationKeys   = []string{"location", "city", "address"}
	experienceKeys = []string{"experience"}
)

// Normalize maps a raw form field bag onto Canonical. The first non-blank
// alias wins; values are trimmed.
func Normalize(fields map[string]string) Canonical {
	c := Canonical{
		Name:       first(fields, nameKeys),
		Email:      first(fields, emailKeys),
		Phone:      first(fields, phoneKeys),
		Message:    first(fields, messageKeys),
		Company:    first(fields, companyKeys),
		Position:   first(fields, positionKeys),
		Location:   first(fields, locationKeys),
		Experience: first(fields, experienceKeys),
	}
	if c.Name == "" {
		c.Name = strings.TrimSpace(strings.Join(strings.Fields(fields["firstName"]+" "+fields["lastName"]), " "))
	}
	return c
}

func first(fields map[string]string, keys []string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(fields[k]); v != "" {
			return v
		}
	}
	return ""
}
