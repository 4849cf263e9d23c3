package course

// Result is the outcome of a generative call: either a course or the
// reason there is none.
type Result struct {
	course Course
	reason string
	err    error
	ok     bool
}

// Ok wraps a generated course.
func Ok(c Course) Result {
	return Result{course: c, ok: true}
}

// Failure records why generation produced nothing usable. reason is a
// short machine-readable label such as "timeout" or "invalid_course".
func Failure(reason string, err error) Result {
	return Result{reason: reason, err: err}
}

// IsOk reports whether the result carries a course.
func (r Result) IsOk() bool { return r.ok }

// Reason returns the failure label, or "" for Ok.
func (r Result) Reason() string { return r.reason }

// Err returns the underlying failure, or nil for Ok.
func (r Result) Err() error { return r.err }

// Course returns the course and whether there is one.
func (r Result) Course() (Course, bool) {
	return r.course, r.ok
}

// UnwrapOr returns the course, or fallback when generation failed.
func (r Result) UnwrapOr(fallback Course) Course {
	if r.ok {
		return r.course
	}
	return fallback
}
