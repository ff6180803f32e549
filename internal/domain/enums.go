package domain

import "time"

// Status is the lifecycle state of one method's remote indexing job.
type Status string

const (
	StatusUploadPending     Status = "upload_pending"
	StatusIndexingPending   Status = "indexing_pending"
	StatusIndexingCompleted Status = "indexing_completed"
	StatusIndexingFailed    Status = "indexing_failed"
	StatusUploadFailed      Status = "upload_failed"
	StatusTimeout           Status = "timeout"
)

// AllStatuses lists every valid status in state-machine order.
var AllStatuses = []Status{
	StatusUploadPending,
	StatusIndexingPending,
	StatusIndexingCompleted,
	StatusIndexingFailed,
	StatusUploadFailed,
	StatusTimeout,
}

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further automatic transition happens from s.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusIndexingCompleted, StatusIndexingFailed, StatusUploadFailed, StatusTimeout:
		return true
	default:
		return false
	}
}

// IsPending reports whether s is an in-flight status. Unknown statuses are
// not pending, so a poll loop never spins on a value it cannot classify.
func (s Status) IsPending() bool {
	return s == StatusUploadPending || s == StatusIndexingPending
}

// IsFailure reports whether s is a terminal status other than completion.
func (s Status) IsFailure() bool {
	return s.IsTerminal() && s != StatusIndexingCompleted
}

// Rank orders statuses along the state machine. Transitions never lower it.
func (s Status) Rank() int {
	switch s {
	case StatusUploadPending:
		return 0
	case StatusIndexingPending:
		return 1
	default:
		if s.IsTerminal() {
			return 2
		}
		return -1
	}
}

// Method names in the fixed catalog.
const (
	MethodBasic   = "basic"
	MethodVision  = "vision"
	MethodAgentic = "agentic"
)

// KnownMethods is the closed set of method names a catalog may use.
var KnownMethods = []string{MethodBasic, MethodVision, MethodAgentic}

// Polling constants shared by the method runner and the progressive poller.
const (
	PollInterval    = 2 * time.Second
	PollTimeout     = 5 * time.Minute
	MaxPollAttempts = int(PollTimeout / PollInterval)
)

// Passage and excerpt limits.
const (
	PassagePageSize    = 100
	SampleTextMaxChars = 2000
	SamplePassages     = 3
	SampleSeparator    = "\n\n---\n\n"
	ExcerptPassages    = 50
	ExcerptMaxChars    = 4000
	DefaultHistoryCap  = 25
	DefaultSearchLimit = 10
	UnknownErrorReason = "Unknown error"
)

// AllowedContentTypes lists the document types the files API accepts.
var AllowedContentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"text/plain":      true,
	"text/markdown":   true,
	"text/html":       true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}
