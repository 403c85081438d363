package errors

import "fmt"

// RouteNotFound indicates that no template is registered for the requested
// path. It must be produced before any generator runs.
func RouteNotFound(path string) *EngineError {
	return New(CategoryRouteNotFound, SeverityError, fmt.Sprintf("no template found for path %q", path)).
		WithContext("path", path)
}

// LocaleResolutionFailed indicates that no translator could be resolved for
// the requested locale. Fatal for the request.
func LocaleResolutionFailed(locale string, cause error) *EngineError {
	e := Wrap(cause, CategoryLocale, SeverityError, fmt.Sprintf("no translator available for locale %q", locale))
	return e.WithContext("locale", locale)
}

// GenerationFailed wraps an error returned by a user-supplied generator,
// recording which function failed on which template and who is to blame.
func GenerationFailed(fnName, templateName string, cause error) *EngineError {
	e := Wrap(cause, CategoryGeneration, SeverityError,
		fmt.Sprintf("generator %q failed for template %q", fnName, templateName))
	e.Blame = BlameOf(cause)
	return e.WithContext("fn", fnName).WithContext("template", templateName)
}

// ScheduleDecodeFailed indicates a corrupted persisted revalidation schedule.
// It must never be treated as "never revalidate".
func ScheduleDecodeFailed(name string, cause error) *EngineError {
	e := Wrap(cause, CategorySchedule, SeverityFatal, fmt.Sprintf("corrupted revalidation schedule %q", name))
	return e.WithContext("name", name)
}

// StoreReadFailed wraps a non-NotFound read failure from the artifact store.
func StoreReadFailed(name string, cause error) *EngineError {
	e := Wrap(cause, CategoryStoreRead, SeverityError, fmt.Sprintf("failed to read artifact %q", name))
	return e.WithContext("name", name)
}

// StoreWriteFailed wraps a write failure from the artifact store.
func StoreWriteFailed(name string, cause error) *EngineError {
	e := Wrap(cause, CategoryStoreWrite, SeverityError, fmt.Sprintf("failed to write artifact %q", name))
	return e.WithContext("name", name)
}
