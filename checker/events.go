package checker

import "github.com/lukemcguire/zombiecheck/result"

// Event reports progress for a single classified record.
type Event struct {
	Index    int
	Name     string
	URL      string
	Category result.Category
	Message  string
	Checked  int // Records finished so far, including this one
	Total    int // Records in the window
}
