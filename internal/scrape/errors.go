package scrape

import "fmt"

// ItemError marks a failure scoped to a single catalog item. The extractor
// recovers from these locally by skipping the item with a log line; they never
// fail the job.
type ItemError struct {
	Title string
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %q: %v", e.Title, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }

func itemErr(title string, err error) *ItemError {
	return &ItemError{Title: title, Err: err}
}
