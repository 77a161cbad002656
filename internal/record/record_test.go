package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintDeterministic(t *testing.T) {
	r := JobRecord{
		Title:    "Software Engineer",
		Employer: "Google",
		Location: "Sunnyvale, CA, USA",
		URL:      "https://example.com/jobs/123456",
	}

	assert.Equal(t, Fingerprint(r), Fingerprint(r))
}

func TestFingerprintNormalization(t *testing.T) {
	base := JobRecord{
		Title:    "Software Engineer",
		Employer: "Google",
		Location: "Sunnyvale, CA, USA",
		URL:      "https://example.com/jobs/123456",
	}

	// Case and surrounding whitespace changes must not change identity
	variant := JobRecord{
		Title:    "  software engineer ",
		Employer: "GOOGLE",
		Location: "Sunnyvale, CA, USA",
		URL:      "https://example.com/jobs/123456",
	}
	assert.Equal(t, Fingerprint(base), Fingerprint(variant))

	// A genuinely different key field must change identity
	other := base
	other.URL = "https://example.com/jobs/999999"
	assert.NotEqual(t, Fingerprint(base), Fingerprint(other))

	other = base
	other.Title = "Staff Software Engineer"
	assert.NotEqual(t, Fingerprint(base), Fingerprint(other))
}

func TestFingerprintTotalOverEmptyRecord(t *testing.T) {
	empty := JobRecord{}

	// All key fields empty still yields a stable fingerprint
	assert.NotEmpty(t, Fingerprint(empty))
	assert.Equal(t, Fingerprint(empty), Fingerprint(JobRecord{}))
}

func TestFingerprintIgnoresMutableFields(t *testing.T) {
	a := JobRecord{Title: "SRE", Employer: "Google", URL: "u1", Description: "one"}
	b := JobRecord{Title: "SRE", Employer: "Google", URL: "u1", Description: "two", Salary: "$100k"}

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
}
