package models

// FileUpload carries the raw bytes of one uploaded file into the service.
type FileUpload struct {
	Filename string
	Data     []byte
}

// UploadResult is the outcome of a successful single-image upload.
type UploadResult struct {
	Message  string `json:"message"`
	ImageID  string `json:"image_id"`
	Filename string `json:"filename"`
}

// FailedUpload records one file that could not be uploaded during a batch.
type FailedUpload struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// BatchUploadResult is the outcome of a batch upload. Partial failure is the
// normal case: TotalUploaded + TotalFailed always equals the number of files
// submitted, and failures never abort the remaining files.
type BatchUploadResult struct {
	Message       string          `json:"message"`
	UploadedIDs   []string        `json:"uploaded_ids"`
	Failed        []*FailedUpload `json:"failed"`
	TotalUploaded int             `json:"total_uploaded"`
	TotalFailed   int             `json:"total_failed"`
}

// DeleteResult is the outcome of a delete-by-id.
type DeleteResult struct {
	Message string `json:"message"`
	ImageID string `json:"image_id"`
}
