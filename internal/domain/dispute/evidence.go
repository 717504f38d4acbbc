package dispute

// EvidenceRef is the backend's record of a file attached at submission.
type EvidenceRef struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type,omitempty"`
	Size        int    `json:"size,omitempty"`
	URL         string `json:"url,omitempty"`
}

// EvidenceFile is a file staged on a Draft and uploaded with the submission.
type EvidenceFile struct {
	Name    string
	Content []byte
}
