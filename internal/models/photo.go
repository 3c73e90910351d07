package models

import "time"

type PhotoType string

const (
	PhotoBefore PhotoType = "before"
	PhotoAfter  PhotoType = "after"
)

func (t PhotoType) Valid() bool {
	return t == PhotoBefore || t == PhotoAfter
}

type PhotoStatus string

const (
	PhotoPending   PhotoStatus = "pending"
	PhotoUploading PhotoStatus = "uploading"
	PhotoFailed    PhotoStatus = "failed"
	PhotoCompleted PhotoStatus = "completed"
	// PhotoAbandoned is terminal: the retry budget is spent.
	PhotoAbandoned PhotoStatus = "abandoned"
)

var photoTransitions = map[PhotoStatus][]PhotoStatus{
	PhotoPending:   {PhotoUploading},
	PhotoUploading: {PhotoCompleted, PhotoFailed},
	PhotoFailed:    {PhotoUploading, PhotoAbandoned},
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s PhotoStatus) CanTransitionTo(next PhotoStatus) bool {
	for _, allowed := range photoTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Retryable reports whether the photo belongs to the upload candidate set.
func (s PhotoStatus) Retryable() bool {
	return s == PhotoPending || s == PhotoFailed
}

type GeoLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy,omitempty"`
}

// PhotoMetadata is passed through to the backend untouched.
type PhotoMetadata struct {
	CapturedAt time.Time              `json:"captured_at"`
	Location   *GeoLocation           `json:"location,omitempty"`
	Device     string                 `json:"device,omitempty"`
	Extra      map[string]interface{} `json:"extra,omitempty"`
}

// CapturedFile is a binary image payload with its declared name and type.
type CapturedFile struct {
	Name string
	Type string
	Data []byte
}

// StoredPhoto is a captured image waiting in the capture store.
type StoredPhoto struct {
	ID          string        `json:"id"`
	JobID       string        `json:"job_id"`
	Type        PhotoType     `json:"type"`
	FileData    string        `json:"file_data"`
	FileName    string        `json:"file_name"`
	FileType    string        `json:"file_type"`
	Checksum    uint64        `json:"checksum"`
	Metadata    PhotoMetadata `json:"metadata"`
	Status      PhotoStatus   `json:"status"`
	RetryCount  int           `json:"retry_count"`
	LastAttempt *time.Time    `json:"last_attempt,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// PhotoUpload is the metadata row inserted remotely after a blob is stored.
type PhotoUpload struct {
	CaptureID  string
	JobID      string
	URL        string
	Type       PhotoType
	UploadedAt time.Time
	Metadata   PhotoMetadata
}

// PhotoRecord mirrors an uploaded photo in the local durable store.
type PhotoRecord struct {
	ID         string    `json:"id"`
	JobID      string    `json:"job_id"`
	Type       PhotoType `json:"type"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
}
