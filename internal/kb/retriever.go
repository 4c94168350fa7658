package kb

import "strings"

// Retriever maps a raw user query to the best-matching guide, or a fallback
// notice when nothing matches. Implementations must be pure and side-effect
// free so a semantic matcher can later replace the keyword one without
// touching callers.
type Retriever interface {
	Lookup(query string) string
}

// KeywordRetriever matches queries by literal substring containment.
// Entries are scanned in declaration order and the first trigger found in the
// case-folded query wins, even if later triggers would also match.
type KeywordRetriever struct {
	entries []Entry
}

func NewKeywordRetriever(entries []Entry) *KeywordRetriever {
	return &KeywordRetriever{entries: entries}
}

func (r *KeywordRetriever) Lookup(query string) string {
	q := strings.ToLower(query)
	for _, e := range r.entries {
		if strings.Contains(q, strings.ToLower(e.Trigger)) {
			return e.Document
		}
	}
	return FallbackNotice
}
