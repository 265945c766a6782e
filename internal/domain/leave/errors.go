package leave

import "errors"

var (
	ErrLeaveNotFound      = errors.New("leave record not found")
	ErrInvalidDateRange   = errors.New("end_date must be on or after start_date")
	ErrAttachmentTooLarge = errors.New("attachment exceeds the maximum size")
)
