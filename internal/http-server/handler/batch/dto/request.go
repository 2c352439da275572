package dto

type SubmitRequest struct {
	Preset string `form:"preset" validate:"omitempty,max=100"`
	Config string `form:"config" validate:"omitempty,json"`
}

type BatchRequest struct {
	ID string `uri:"id" validate:"required,uuid"`
}

type FileRequest struct {
	ID     string `uri:"id" validate:"required,uuid"`
	FileID string `uri:"fileID" validate:"required,uuid"`
}
