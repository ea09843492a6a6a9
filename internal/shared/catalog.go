package shared

// Programs offered by the bootcamp. Cohorts and students share the list.
var Programs = []string{"Web Dev", "UX/UI", "Data Analytics", "Cybersecurity"}

// Formats are the cohort schedule formats.
var Formats = []string{"Full Time", "Part Time"}

// Campuses lists the supported campus locations.
var Campuses = []string{"Madrid", "Barcelona", "Miami", "Paris", "Berlin", "Amsterdam", "Lisbon", "Remote"}

// Languages lists the spoken languages a student can declare.
var Languages = []string{"English", "Spanish", "French", "German", "Portuguese", "Dutch", "Other"}

// Contains reports whether value is one of allowed.
func Contains(allowed []string, value string) bool {
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}
