package branches

// MergeEvidence identifies the merged pull request that justifies deleting a branch.
type MergeEvidence struct {
	Title  string `yaml:"title"`
	URL    string `yaml:"url"`
	Number int    `yaml:"number,omitempty"`
}

// Candidate is a branch that is absent from the remote and backed by merge evidence.
type Candidate struct {
	Branch   string
	Evidence MergeEvidence
}

// RetentionReason explains why a branch was not selected for deletion.
type RetentionReason string

// Retention reasons.
const (
	RetentionReasonPresentOnRemote           RetentionReason = RetentionReason("present on remote")
	RetentionReasonUnmergedOrDifferentAuthor RetentionReason = RetentionReason("unmerged or different author")
	RetentionReasonResolutionError           RetentionReason = RetentionReason("resolution error")
)

// RetainedBranch is a branch kept by classification.
type RetainedBranch struct {
	Branch string
	Reason RetentionReason
}

// Classification is the result of classifying one repository's branches.
// Candidates and Retained preserve enumeration order.
type Classification struct {
	Candidates []Candidate
	Retained   []RetainedBranch
	Errors     []BranchResolutionError
}

// Response is an operator's answer to a deletion prompt.
type Response int

// Prompt responses.
const (
	ResponseDecline Response = iota
	ResponseConfirm
	ResponseSkipAll
)

// RunOutcome reports what the disposition engine did for one repository.
type RunOutcome struct {
	RepositoryPath  string
	Identity        string
	Mode            Mode
	Deleted         int
	Skipped         int
	Failed          int
	DeletedBranches []string
	FailedDeletions []FailedDeletion
	Unacted         []Candidate
}

// RepositoryReport pairs a repository's classification with its outcome.
type RepositoryReport struct {
	Classification Classification
	Outcome        RunOutcome
}

// Summary aggregates a multi-repository run.
type Summary struct {
	Repositories         []RepositoryReport
	PreconditionFailures []PreconditionError
}

// Totals sums outcome counters across repositories.
func (summary Summary) Totals() (deleted int, skipped int, failed int) {
	for _, report := range summary.Repositories {
		deleted += report.Outcome.Deleted
		skipped += report.Outcome.Skipped
		failed += report.Outcome.Failed
	}
	return deleted, skipped, failed
}

// AllRepositoriesFailedPreconditions reports whether no repository reached classification.
func (summary Summary) AllRepositoriesFailedPreconditions() bool {
	return len(summary.Repositories) == 0 && len(summary.PreconditionFailures) > 0
}
