package cli

import "fmt"

type notFoundError struct {
	kind string
	ref  string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.ref)
}

func errNotFound(kind, ref string) error {
	return notFoundError{kind: kind, ref: ref}
}

type scriptError struct {
	step int
	msg  string
}

func (e scriptError) Error() string {
	if e.step < 0 {
		return "script: " + e.msg
	}
	return fmt.Sprintf("script step %d: %s", e.step+1, e.msg)
}
