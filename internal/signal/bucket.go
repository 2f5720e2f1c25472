package signal

// Category classifies a forensic indicator.
type Category string

const (
	CategoryHuman        Category = "human"
	CategoryAI           Category = "ai"
	CategoryManipulation Category = "manipulation"
	CategoryInconclusive Category = "inconclusive"
)

// Signal pairs a category with its human-readable evidence description.
type Signal struct {
	Category Category
	Message  string
}

// Bucket collects categorized indicators produced by one extractor or by a
// merge of several extractors for the same media item.
type Bucket struct {
	Human        []string
	AI           []string
	Manipulation []string
	Inconclusive []string
}

// Inconclusive returns a bucket holding a single inconclusive entry. It is
// the degraded-analysis shape every extractor falls back to.
func Inconclusive(message string) Bucket {
	return Bucket{Inconclusive: []string{message}}
}

// AddHuman appends a human-origin indicator.
func (b *Bucket) AddHuman(message string) {
	b.Human = append(b.Human, message)
}

// AddAI appends an AI-origin indicator.
func (b *Bucket) AddAI(message string) {
	b.AI = append(b.AI, message)
}

// AddManipulation appends an editing/re-encoding indicator.
func (b *Bucket) AddManipulation(message string) {
	b.Manipulation = append(b.Manipulation, message)
}

// AddInconclusive appends an indeterminate-analysis note.
func (b *Bucket) AddInconclusive(message string) {
	b.Inconclusive = append(b.Inconclusive, message)
}

// Add routes a message into the slice matching category. Unknown categories
// are recorded as inconclusive so evidence is never silently dropped.
func (b *Bucket) Add(category Category, message string) {
	switch category {
	case CategoryHuman:
		b.AddHuman(message)
	case CategoryAI:
		b.AddAI(message)
	case CategoryManipulation:
		b.AddManipulation(message)
	default:
		b.AddInconclusive(message)
	}
}

// Merge appends all indicators from other, preserving their order.
func (b *Bucket) Merge(other Bucket) {
	b.Human = append(b.Human, other.Human...)
	b.AI = append(b.AI, other.AI...)
	b.Manipulation = append(b.Manipulation, other.Manipulation...)
	b.Inconclusive = append(b.Inconclusive, other.Inconclusive...)
}

// Counts returns the per-category indicator counts.
func (b Bucket) Counts() (human, ai, manipulation, inconclusive int) {
	return len(b.Human), len(b.AI), len(b.Manipulation), len(b.Inconclusive)
}

// Conclusive reports whether the bucket carries at least one human or AI
// indicator.
func (b Bucket) Conclusive() bool {
	return len(b.Human) > 0 || len(b.AI) > 0
}

// EnsureConclusive enforces the bucket invariant: when no human and no AI
// indicator exists, the fallback message is recorded as inconclusive
// evidence. Buckets already carrying an inconclusive entry are left alone.
func (b *Bucket) EnsureConclusive(fallback string) {
	if b.Conclusive() || len(b.Inconclusive) > 0 {
		return
	}
	b.AddInconclusive(fallback)
}

// Signals flattens the bucket into ordered tagged values: human, AI,
// manipulation, then inconclusive.
func (b Bucket) Signals() []Signal {
	out := make([]Signal, 0, len(b.Human)+len(b.AI)+len(b.Manipulation)+len(b.Inconclusive))
	for _, m := range b.Human {
		out = append(out, Signal{Category: CategoryHuman, Message: m})
	}
	for _, m := range b.AI {
		out = append(out, Signal{Category: CategoryAI, Message: m})
	}
	for _, m := range b.Manipulation {
		out = append(out, Signal{Category: CategoryManipulation, Message: m})
	}
	for _, m := range b.Inconclusive {
		out = append(out, Signal{Category: CategoryInconclusive, Message: m})
	}
	return out
}
