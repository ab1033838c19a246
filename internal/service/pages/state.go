package pages

// Phase is the coarse state of a page.
type Phase int

const (
	Loading Phase = iota
	Ready
	Submitting
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Submitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// Notice kinds.
const (
	NoticeError   = "error"
	NoticeSuccess = "success"
	NoticeInfo    = "info"
)

// Notice is a transient message shown above the page content.
type Notice struct {
	Kind    string
	Message string
}

// View holds a fetched collection and its filtered projection.
type View[T any] struct {
	Phase    Phase
	Items    []T
	Filtered []T
	Notice   *Notice
}

// Empty reports whether the source collection has no items.
func (v View[T]) Empty() bool {
	return len(v.Items) == 0
}
