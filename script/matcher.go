package script

import (
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/dlclark/regexp2"
)

// Matcher decides whether a reply satisfies an EXPECT pattern.
type Matcher interface {
	// Match reports whether pattern matches anywhere within text.
	// A pattern that cannot be compiled returns an error.
	Match(pattern, text string) (bool, error)
}

// MatcherFunc adapts a function to the Matcher interface.
type MatcherFunc func(pattern, text string) (bool, error)

// Match implements Matcher.
func (f MatcherFunc) Match(pattern, text string) (bool, error) {
	return f(pattern, text)
}

// RegexpMatcher matches with Go's RE2 engine. Compiled patterns are cached.
// It is the default Matcher and is safe for concurrent use.
type RegexpMatcher struct {
	mu    sync.Mutex
	cache map[string]*regexp.Regexp
}

// NewRegexpMatcher creates an RE2 matcher.
func NewRegexpMatcher() *RegexpMatcher {
	return &RegexpMatcher{cache: make(map[string]*regexp.Regexp)}
}

// Match implements Matcher.
func (m *RegexpMatcher) Match(pattern, text string) (bool, error) {
	m.mu.Lock()
	re, ok := m.cache[pattern]
	if !ok {
		var err error
		re, err = regexp.Compile(pattern)
		if err != nil {
			m.mu.Unlock()
			return false, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		m.cache[pattern] = re
	}
	m.mu.Unlock()

	return re.MatchString(text), nil
}

// BacktrackMatcher matches with a backtracking engine that accepts
// Perl/Python syntax such as look-arounds and backreferences.
// It is safe for concurrent use.
type BacktrackMatcher struct {
	// Timeout bounds a single match; zero means no limit
	Timeout time.Duration

	mu    sync.Mutex
	cache map[string]*regexp2.Regexp
}

// NewBacktrackMatcher creates a backtracking matcher with the given match timeout.
func NewBacktrackMatcher(timeout time.Duration) *BacktrackMatcher {
	return &BacktrackMatcher{
		Timeout: timeout,
		cache:   make(map[string]*regexp2.Regexp),
	}
}

// Match implements Matcher.
func (m *BacktrackMatcher) Match(pattern, text string) (bool, error) {
	m.mu.Lock()
	re, ok := m.cache[pattern]
	if !ok {
		var err error
		re, err = regexp2.Compile(pattern, regexp2.None)
		if err != nil {
			m.mu.Unlock()
			return false, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if m.Timeout > 0 {
			re.MatchTimeout = m.Timeout
		}
		m.cache[pattern] = re
	}
	m.mu.Unlock()

	matched, err := re.MatchString(text)
	if err != nil {
		return false, fmt.Errorf("match %q: %w", pattern, err)
	}
	return matched, nil
}

// NewMatcher returns the matcher for an engine name: "re2" (default) or "pcre".
func NewMatcher(engine string) (Matcher, error) {
	switch engine {
	case "", "re2":
		return NewRegexpMatcher(), nil
	case "pcre":
		return NewBacktrackMatcher(time.Second), nil
	default:
		return nil, fmt.Errorf("unknown regex engine %q (want re2 or pcre)", engine)
	}
}
