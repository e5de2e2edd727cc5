package models

// OutcomeKind discriminates how the portal answered a submission.
type OutcomeKind string

const (
	// OutcomeRedirect means the transport followed a redirect; the body was not read.
	OutcomeRedirect OutcomeKind = "redirect"
	// OutcomeSuccessRedirect is {"success": true, "redirect": "..."}.
	OutcomeSuccessRedirect OutcomeKind = "success_redirect"
	// OutcomeSuccess is {"success": true} with no redirect target.
	OutcomeSuccess OutcomeKind = "success"
	// OutcomeFailure is {"success": false, "message": "..."}.
	OutcomeFailure OutcomeKind = "failure"
	// OutcomeUnstructured is a non-JSON body, accepted as success for older portal builds.
	OutcomeUnstructured OutcomeKind = "unstructured"
)

// Outcome is the interpreted portal response for one attempt.
type Outcome struct {
	Kind       OutcomeKind `json:"kind"`
	Location   string      `json:"location,omitempty"`
	Message    string      `json:"message,omitempty"`
	StatusCode int         `json:"status_code"`
}

// Succeeded reports whether the outcome ends the workflow with navigation.
func (o Outcome) Succeeded() bool {
	return o.Kind != OutcomeFailure
}

// PortalResult is the JSON envelope the portal uses for AJAX endpoints.
type PortalResult struct {
	Success  bool                `json:"success"`
	Redirect string              `json:"redirect,omitempty"`
	Message  string              `json:"message,omitempty"`
	Errors   map[string][]string `json:"errors,omitempty"`
}
