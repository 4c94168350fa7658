package kb

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	r := NewKeywordRetriever(DefaultEntries())

	tests := []struct {
		name       string
		query      string
		wantSubstr string
	}{
		{
			name:       "exact trigger",
			query:      "I have no internet at home",
			wantSubstr: "Troubleshooting 'No Internet Connection'",
		},
		{
			name:       "case folded",
			query:      "Why is my SLOW NETWORK acting up?",
			wantSubstr: "Troubleshooting 'Slow Network Speed'",
		},
		{
			name:       "hyphenated trigger",
			query:      "my wi-fi not working since yesterday",
			wantSubstr: "Troubleshooting 'Wi-Fi Connection Issues'",
		},
		{
			name:       "ip address trigger",
			query:      "how do I renew my IP address?",
			wantSubstr: "Finding and Renewing Your IP Address",
		},
		{
			name:       "no match returns fallback",
			query:      "why is my toaster broken",
			wantSubstr: FallbackNotice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Lookup(tt.query)
			assert.Contains(t, got, tt.wantSubstr)
		})
	}
}

func TestLookupIsDeterministic(t *testing.T) {
	r := NewKeywordRetriever(DefaultEntries())

	first := r.Lookup("no internet on my slow network")
	for i := 0; i < 10; i++ {
		require.Equal(t, first, r.Lookup("no internet on my slow network"))
	}
}

func TestLookupFirstMatchWins(t *testing.T) {
	r := NewKeywordRetriever(DefaultEntries())

	// Both "no internet" and "slow network" appear; the first-declared entry
	// must win and the documents must not be merged.
	got := r.Lookup("I have no internet and a slow network")
	assert.Contains(t, got, "Troubleshooting 'No Internet Connection'")
	assert.NotContains(t, got, "Troubleshooting 'Slow Network Speed'")

	// Reversed phrase order in the query does not change the outcome: the
	// tie-break is entry enumeration order, not query position.
	reversed := r.Lookup("my slow network now has no internet")
	assert.Equal(t, got, reversed)
}

func TestLookupCustomEntryOrder(t *testing.T) {
	entries := []Entry{
		{Trigger: "slow network", Document: "guide B"},
		{Trigger: "no internet", Document: "guide A"},
	}
	r := NewKeywordRetriever(entries)

	assert.Equal(t, "guide B", r.Lookup("no internet and slow network"))
}

func TestDefaultEntriesTriggersUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, e := range DefaultEntries() {
		key := strings.ToLower(e.Trigger)
		require.False(t, seen[key], "duplicate trigger %q", e.Trigger)
		seen[key] = true
	}
}
