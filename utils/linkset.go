package utils

// LinkSet remembers listing links seen during one search. It is not safe for
// concurrent use; a search walks its pages in order on one goroutine.
type LinkSet map[string]struct{}

// Add records link and reports whether it was new.
func (s LinkSet) Add(link string) bool {
	if _, ok := s[link]; ok {
		return false
	}
	s[link] = struct{}{}
	return true
}
