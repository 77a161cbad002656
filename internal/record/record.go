package record

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// Status marks whether a posting is still observed on its source site.
type Status string

const (
	// StatusActive is set on every record at creation. StatusInactive is
	// reserved for removal sweeps that mark postings no longer observed.
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// JobRecord is the unit of persistence: one job posting observed on one
// source site, deduplicated across runs by Fingerprint.
type JobRecord struct {
	Fingerprint    string `json:"fingerprint,omitempty"`
	JobID          string `json:"job_id,omitempty"`
	Title          string `json:"title"`
	Employer       string `json:"employer"`
	Location       string `json:"location"`
	Level          string `json:"level,omitempty"`
	Description    string `json:"description,omitempty"`
	URL            string `json:"url"`
	Source         string `json:"source"`
	PostedDate     string `json:"posted_date,omitempty"`
	Salary         string `json:"salary,omitempty"`
	EmploymentType string `json:"employment_type,omitempty"`
	Status         Status `json:"status,omitempty"`
	FirstSeen      string `json:"first_seen,omitempty"`
	LastSeen       string `json:"last_seen,omitempty"`
}

// Fingerprint derives the stable identity hash for a record from its
// normalized key fields. It is a total function: missing fields are treated
// as empty strings, so even a fully empty record hashes deterministically.
// Case and surrounding whitespace never change the result.
func Fingerprint(r JobRecord) string {
	keyFields := []string{r.Title, r.Employer, r.Location, r.URL}

	normalized := make([]string, len(keyFields))
	for i, f := range keyFields {
		normalized[i] = strings.ToLower(strings.TrimSpace(f))
	}

	sum := md5.Sum([]byte(strings.Join(normalized, "|")))
	return hex.EncodeToString(sum[:])
}
