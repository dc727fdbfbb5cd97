package security

import (
	"errors"
	"strings"
)

const maxUploadBytes = 10 << 20

var (
	ErrFileTooLarge        = errors.New("file size exceeds maximum allowed (10MB)")
	ErrFileTypeNotAllowed  = errors.New("file type not allowed; allowed types: PDF, JPEG, PNG, DOC, DOCX")
	ErrExtensionNotAllowed = errors.New("file extension not allowed; allowed extensions: .pdf, .jpeg, .jpg, .png, .doc, .docx")
	ErrMultipleExtensions  = errors.New("multiple file extensions not allowed")
)

var allowedUploadTypes = toSet([]string{
	"application/pdf",
	"image/jpeg",
	"image/png",
	"image/jpg",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
})

var allowedUploadExtensions = toSet([]string{"pdf", "jpeg", "jpg", "png", "doc", "docx"})

// ValidateUpload checks a claim evidence upload before it is accepted.
// Returns one of the Err* sentinels on rejection.
func ValidateUpload(fileName string, size int64, contentType string) error {
	if size > maxUploadBytes {
		return ErrFileTooLarge
	}
	if !allowedUploadTypes[contentType] {
		return ErrFileTypeNotAllowed
	}
	parts := strings.Split(fileName, ".")
	ext := strings.ToLower(parts[len(parts)-1])
	if len(parts) < 2 || !allowedUploadExtensions[ext] {
		return ErrExtensionNotAllowed
	}
	if len(parts) > 2 {
		return ErrMultipleExtensions
	}
	return nil
}
