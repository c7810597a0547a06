package engine

import (
	"encoding/json"
	"os"
	"sort"
	"sync"
)

// Report collects findings across files. Adds may come from concurrent
// per-file scans; presentation order is restored by Sorted.
type Report struct {
	mu       sync.RWMutex
	findings []Finding
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{findings: make([]Finding, 0)}
}

// AddFindings ingests findings from one file scan, deduplicating exact
// repeats (same file, line, and region).
func (r *Report) AddFindings(newFindings []Finding) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range newFindings {
		exists := false
		for _, existing := range r.findings {
			if existing.File == f.File && existing.Line == f.Line && existing.Region == f.Region {
				exists = true
				break
			}
		}
		if !exists {
			r.findings = append(r.findings, f)
		}
	}
}

// Sorted returns the findings ordered by file path, then line number.
// Runs over an unchanged tree therefore yield identical sequences.
func (r *Report) Sorted() []Finding {
	r.mu.RLock()
	out := make([]Finding, len(r.findings))
	copy(out, r.findings)
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return out[i].Line < out[j].Line
	})
	return out
}

// Len returns the number of collected findings.
func (r *Report) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.findings)
}

// Clean reports whether the scan found nothing. Detection only: whether a
// not-clean run fails the process is the caller's policy.
func (r *Report) Clean() bool {
	return r.Len() == 0
}

// CountsByRegion returns per-region finding totals for the summary.
func (r *Report) CountsByRegion() map[RegionCategory]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[RegionCategory]int)
	for _, f := range r.findings {
		counts[f.Region]++
	}
	return counts
}

// SaveSnapshot persists the sorted findings as JSON for later comparison.
func (r *Report) SaveSnapshot(path string) error {
	data, err := json.MarshalIndent(r.Sorted(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadSnapshot replaces the report's findings with a stored snapshot.
func (r *Report) LoadSnapshot(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var findings []Finding
	if err := json.Unmarshal(data, &findings); err != nil {
		return err
	}
	r.mu.Lock()
	r.findings = findings
	r.mu.Unlock()
	return nil
}

// SnapshotDiff partitions the current findings against a baseline.
type SnapshotDiff struct {
	New       []Finding
	Fixed     []Finding
	Unchanged []Finding
}

// CompareSnapshot diffs this report against a baseline. Findings are keyed
// on file, region, and line text — not line number, so content that merely
// moved within a file stays unchanged.
func (r *Report) CompareSnapshot(baseline *Report) SnapshotDiff {
	key := func(f Finding) string {
		return f.File + "\x00" + string(f.Region) + "\x00" + f.Text
	}

	baseKeys := make(map[string]struct{})
	for _, f := range baseline.Sorted() {
		baseKeys[key(f)] = struct{}{}
	}
	curKeys := make(map[string]struct{})

	var diff SnapshotDiff
	for _, f := range r.Sorted() {
		curKeys[key(f)] = struct{}{}
		if _, ok := baseKeys[key(f)]; ok {
			diff.Unchanged = append(diff.Unchanged, f)
		} else {
			diff.New = append(diff.New, f)
		}
	}
	for _, f := range baseline.Sorted() {
		if _, ok := curKeys[key(f)]; !ok {
			diff.Fixed = append(diff.Fixed, f)
		}
	}
	return diff
}
