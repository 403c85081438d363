package errors

import "net/http"

// HTTPStatus maps an error to the HTTP status code a serving layer should
// respond with. The engine itself has no transport surface; this keeps the
// category-to-status policy in one place for callers that do.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch GetCategory(err) {
	case CategoryRouteNotFound, CategoryLocale:
		return http.StatusNotFound
	case CategoryGeneration:
		if BlameOf(err) == CauseClient {
			return http.StatusBadRequest
		}
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
