package record

import (
	"time"

	"careertrack/jobworker/helpers"
)

// Merger folds freshly scraped batches into an existing corpus by
// fingerprint. The clock is injectable so tests get stable timestamps.
type Merger struct {
	now func() time.Time
}

// NewMerger creates a merger using the wall clock.
func NewMerger() *Merger {
	return &Merger{now: time.Now}
}

// NewMergerWithClock creates a merger with a fixed clock function.
func NewMergerWithClock(now func() time.Time) *Merger {
	return &Merger{now: now}
}

// Merge returns the corpus with the incoming batch folded in, plus the
// records that were new this run. The input slices are not mutated.
//
// Rules:
//   - corpus records lacking a fingerprint get one (legacy data migration)
//   - unknown incoming records are appended in incoming order, stamped
//     first_seen/last_seen and active status
//   - known incoming records update only the mutable field allow-list
//     (description, posted_date, salary, employment_type) and only from
//     non-empty values; identity fields keep their first-seen values
//   - last_seen is refreshed on every re-observation
//
// Merge never fails: records with all key fields empty still hash (to the
// shared all-empty fingerprint) and flow through like any other.
func (m *Merger) Merge(existing []JobRecord, incoming []JobRecord) ([]JobRecord, []JobRecord) {
	now := helpers.Timestamp(m.now())

	merged := make([]JobRecord, len(existing))
	copy(merged, existing)

	known := make(map[string]int, len(merged))
	for i := range merged {
		if merged[i].Fingerprint == "" {
			merged[i].Fingerprint = Fingerprint(merged[i])
		}
		if _, ok := known[merged[i].Fingerprint]; !ok {
			known[merged[i].Fingerprint] = i
		}
	}

	var added []JobRecord
	for _, in := range incoming {
		in.Fingerprint = Fingerprint(in)

		idx, seen := known[in.Fingerprint]
		if !seen {
			in.FirstSeen = now
			in.LastSeen = now
			in.Status = StatusActive
			merged = append(merged, in)
			known[in.Fingerprint] = len(merged) - 1
			added = append(added, in)
			continue
		}

		updateExisting(&merged[idx], in, now)
	}

	return merged, added
}

// updateExisting applies a re-observation to a known record. Identity
// fields (title, employer, location, url) are authoritative from the first
// observation and are never overwritten, so a partially loaded detail view
// cannot corrupt a previously good record.
func updateExisting(dst *JobRecord, in JobRecord, now string) {
	dst.LastSeen = now

	if in.Description != "" {
		dst.Description = in.Description
	}
	if in.PostedDate != "" {
		dst.PostedDate = in.PostedDate
	}
	if in.Salary != "" {
		dst.Salary = in.Salary
	}
	if in.EmploymentType != "" {
		dst.EmploymentType = in.EmploymentType
	}
}

// FilterStale returns the records seen within maxAge of now, dropping the
// rest. Records with no parseable timestamp are kept. A maxAge of zero
// disables filtering.
func FilterStale(jobs []JobRecord, maxAge time.Duration, now time.Time) []JobRecord {
	if maxAge <= 0 {
		return jobs
	}

	threshold := now.Add(-maxAge)
	kept := make([]JobRecord, 0, len(jobs))
	for _, j := range jobs {
		stamp := j.LastSeen
		if stamp == "" {
			stamp = j.FirstSeen
		}
		if stamp == "" {
			kept = append(kept, j)
			continue
		}

		seen, err := time.Parse(time.RFC3339, stamp)
		if err != nil || !seen.Before(threshold) {
			kept = append(kept, j)
		}
	}
	return kept
}

// SourceCounts tallies records per source site for end-of-run reporting.
func SourceCounts(jobs []JobRecord) map[string]int {
	counts := make(map[string]int)
	for _, j := range jobs {
		source := j.Source
		if source == "" {
			source = "unknown"
		}
		counts[source]++
	}
	return counts
}
