package enhance

// Category groups enhancements by the kind of change they make
type Category string

const (
	CategoryFile       Category = "file"
	CategoryDependency Category = "dependency"
	CategoryConfig     Category = "config"
	CategoryCode       Category = "code"
)

// Priority orders application; high runs first
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists every priority in application order
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Enhancement is one recommended improvement and the action that performs it
type Enhancement struct {
	Category    Category
	Description string
	Priority    Priority
	Action      Action
}
