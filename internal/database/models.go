package database

// Snapshot records which securities qualified in one completed cycle.
// Snapshots form an append-only, chronologically ordered log; it is the
// only state that survives across cycles.
type Snapshot struct {
	ID      int64
	CycleTS string // "2006-01-02 15:04:05", market-local
	Codes   []string
	FileRef *string
}

// Contains reports whether code qualified in this snapshot.
func (s *Snapshot) Contains(code string) bool {
	for _, c := range s.Codes {
		if c == code {
			return true
		}
	}
	return false
}

// ReportRow is one persisted record of a cycle's trend report.
type ReportRow struct {
	ID              int64
	CycleTS         string
	Market          string
	Code            string
	Name            string
	Price           int
	ForeignRate     *string
	PrevForeignRate *string
	PrevClose       int
	ChangeRate      *string
	PostCount       int
	PostsSummary    *string
	Sentiment       *string
	TopKeywords     *string
	IsConsecutive   bool
	Rank            int
}

// Digest is the rendered markdown summary of one cycle.
type Digest struct {
	ID           int64
	CycleTS      string
	BodyMarkdown string
	RecordCount  int
	GeneratedAt  *string
}

// Stats contains aggregate database statistics.
type Stats struct {
	Snapshots   int
	Cycles      int
	Records     int
	Consecutive int
	LastCycle   string
}
