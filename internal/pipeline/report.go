package pipeline

import "encoding/json"

// FileReport records the outcome of processing one spec document.
type FileReport struct {
	Path      string   `json:"path"`
	Component string   `json:"component"`
	Kind      string   `json:"kind"`
	Warnings  []string `json:"warnings,omitempty"`
	Artifacts []string `json:"artifacts,omitempty"`
	Err       error    `json:"-"`
}

// Failed reports whether the document could not be processed at all.
// Validation warnings do not count as failure.
func (r FileReport) Failed() bool {
	return r.Err != nil
}

// Report summarizes one batch run.
type Report struct {
	Files        []FileReport `json:"files"`
	ManifestPath string       `json:"manifestPath,omitempty"`
	Processed    int          `json:"processed"`
	Skipped      int          `json:"skipped"`
	Warnings     int          `json:"warnings"`
}

func marshalIndent(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
