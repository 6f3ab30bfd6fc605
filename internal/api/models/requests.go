package models

// CreateFolderRequest represents the request to create a new folder
type CreateFolderRequest struct {
	ParentPath string `json:"parent_path"`
	Name       string `json:"name"`
}

// UploadFileRequest represents the request to upload a file
type UploadFileRequest struct {
	ParentPath string `json:"parent_path"`
	Name       string `json:"name"`
	Data       []byte `json:"data"`
}

// MoveRequest represents the request to move or rename a node
type MoveRequest struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}
