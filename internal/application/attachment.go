package application

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"careers-api/internal/mail"
)

var ErrInvalidAttachment = errors.New("invalid attachment encoding")

const defaultAttachmentName = "attachment"

// DecodeAttachment turns the uploaded file into a mail attachment. Content
// may use the standard or URL-safe alphabet, with or without padding, may
// be wrapped across lines and may carry a data URL prefix.
func DecodeAttachment(file *File) (mail.Attachment, error) {
	content, err := decodeBase64(file.Content)
	if err != nil {
		return mail.Attachment{}, fmt.Errorf("%w: %v", ErrInvalidAttachment, err)
	}

	filename := file.Filename
	if filename == "" {
		filename = defaultAttachmentName
	}

	contentType := file.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(filename))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return mail.Attachment{
		Filename:    filename,
		ContentType: contentType,
		Content:     content,
	}, nil
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ";base64,"); i >= 0 {
			s = s[i+len(";base64,"):]
		}
	}

	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, s)
	s = strings.TrimRight(s, "=")

	enc := base64.RawStdEncoding
	if strings.ContainsAny(s, "-_") {
		enc = base64.RawURLEncoding
	}
	return enc.DecodeString(s)
}
