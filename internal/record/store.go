package record

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"careertrack/jobworker/pkg/errors"
)

// Metadata describes the corpus as a whole.
type Metadata struct {
	TotalJobs      int    `json:"total_jobs"`
	NewJobsThisRun int    `json:"new_jobs_this_run"`
	LastUpdated    string `json:"last_updated"`
}

// Corpus is the full persisted set of deduplicated records across runs.
type Corpus struct {
	Jobs     []JobRecord `json:"jobs"`
	Metadata Metadata    `json:"metadata"`
}

// RunStatus is a lightweight audit record written after every run.
type RunStatus struct {
	LastRunTime     string   `json:"last_run_time"`
	NewJobsFound    int      `json:"new_jobs_found"`
	EnabledWebsites []string `json:"enabled_websites"`
}

// Store reads and writes the corpus and run-status files.
type Store struct {
	corpusPath string
	statusPath string
}

// NewStore creates a store for the given file paths.
func NewStore(corpusPath, statusPath string) *Store {
	return &Store{
		corpusPath: corpusPath,
		statusPath: statusPath,
	}
}

// Load reads the corpus file. An absent file yields an empty corpus, not an
// error; a malformed file is an error so a run never clobbers data it could
// not read.
func (s *Store) Load() (*Corpus, error) {
	data, err := os.ReadFile(s.corpusPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &Corpus{Jobs: []JobRecord{}}, nil
		}
		return nil, errors.NewPersistence(fmt.Sprintf("failed to read corpus file %s", s.corpusPath), err)
	}

	var corpus Corpus
	if err := json.Unmarshal(data, &corpus); err != nil {
		return nil, errors.NewPersistence(fmt.Sprintf("failed to parse corpus file %s", s.corpusPath), err)
	}
	if corpus.Jobs == nil {
		corpus.Jobs = []JobRecord{}
	}

	return &corpus, nil
}

// Save atomically replaces the corpus file: the merged result is written to
// a temp file in the same directory and renamed over the target, so no
// partial write is ever visible.
func (s *Store) Save(corpus *Corpus) error {
	return s.writeAtomic(s.corpusPath, corpus)
}

// WriteStatus writes the run-status audit file.
func (s *Store) WriteStatus(status RunStatus) error {
	if s.statusPath == "" {
		return nil
	}
	return s.writeAtomic(s.statusPath, status)
}

func (s *Store) writeAtomic(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.NewPersistence(fmt.Sprintf("failed to encode %s", path), err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewPersistence(fmt.Sprintf("failed to create directory %s", dir), err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return errors.NewPersistence("failed to create temp file", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.NewPersistence("failed to write temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.NewPersistence("failed to close temp file", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return errors.NewPersistence(fmt.Sprintf("failed to replace %s", path), err)
	}

	return nil
}
