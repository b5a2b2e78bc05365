package domain

// Row accumulates the statistics of one (developer, category) bucket.
// All fields only ever grow while a report is being built.
type Row struct {
	Category      string `json:"category"`
	Modifications int    `json:"modifications"`
	Added         int    `json:"added"`
	Removed       int    `json:"removed"`
	Renamed       int    `json:"renamed"`
	LineAdds      int    `json:"line_adds"`
	LineDels      int    `json:"line_dels"`
	LineChanges   int    `json:"line_changes"`
}

// Fold adds a single file change into the row.
func (r *Row) Fold(fc FileChange) {
	switch fc.Action {
	case ActionAdded:
		r.Added++
	case ActionRemoved:
		r.Removed++
	case ActionRenamed:
		r.Renamed++
	default:
		r.Modifications++
	}
	r.LineAdds += fc.Additions
	r.LineDels += fc.Deletions
	r.LineChanges += fc.Additions + fc.Deletions
}

// Merge adds every counter of other into the row, leaving Category untouched.
func (r *Row) Merge(other Row) {
	r.Modifications += other.Modifications
	r.Added += other.Added
	r.Removed += other.Removed
	r.Renamed += other.Renamed
	r.LineAdds += other.LineAdds
	r.LineDels += other.LineDels
	r.LineChanges += other.LineChanges
}

// SumRows computes the SUM row: the elementwise total across rows.
func SumRows(rows []Row) Row {
	sum := Row{Category: "SUM"}
	for _, r := range rows {
		sum.Merge(r)
	}
	return sum
}

// CommitSummary describes the size distribution of a developer's commits
// inside the window, measured in lines changed per commit.
type CommitSummary struct {
	Commits           int     `json:"commits"`
	MedianLineChanges float64 `json:"median_line_changes"`
	P90LineChanges    float64 `json:"p90_line_changes"`
}

// RepoBreakdown is the per-repository slice of a developer's report.
type RepoBreakdown struct {
	Repository string `json:"repository"`
	Rows       []Row  `json:"rows"`
	Sum        Row    `json:"sum"`
}

// DeveloperReport holds one developer's totals. Rows are ordered
// lexicographically by category so output is stable across runs.
type DeveloperReport struct {
	Developer string          `json:"developer"`
	Rows      []Row           `json:"rows"`
	Sum       Row             `json:"sum"`
	Repos     []RepoBreakdown `json:"repos,omitempty"`
	Summary   *CommitSummary  `json:"summary,omitempty"`
}

// IncompletePair records a (developer, repository) unit that could not be
// fully collected, so callers can tell "no contributions" apart from
// "data unavailable".
type IncompletePair struct {
	Developer  string `json:"developer"`
	Repository string `json:"repository"`
	Stage      string `json:"stage"`
	Err        string `json:"error"`
}

// Report is the final snapshot of one run. It is built fresh per run and
// handed to the rendering layer read-only.
type Report struct {
	Window     Window            `json:"window"`
	Developers []DeveloperReport `json:"developers"`
	Incomplete []IncompletePair  `json:"incomplete,omitempty"`
}
