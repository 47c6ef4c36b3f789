package domain

// TopicKind distinguishes algorithm walkthroughs from applied scenarios.
// Generation prompts and the tutor persona differ between the two.
type TopicKind string

// Topic kinds.
const (
	TopicAlgorithm TopicKind = "algorithm"
	TopicScenario  TopicKind = "scenario"
)

// Category is a named group of suggested topics.
type Category struct {
	Name   string    `json:"name" yaml:"name"`
	Kind   TopicKind `json:"kind" yaml:"kind"`
	Topics []string  `json:"topics" yaml:"topics"`
}

// Topic is a single suggested topic together with its category.
type Topic struct {
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Kind     TopicKind `json:"kind"`
}
