package photostore

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/gabriel-vasile/mimetype"

	"fieldsync/internal/apperrors"
	"fieldsync/internal/models"
)

const (
	dataURLPrefix    = "data:"
	dataURLSeparator = ";base64,"
)

var errMalformedPayload = errors.New("malformed data URL")

// encodePayload renders data as a data URL. When declaredType is empty the
// MIME type is sniffed from the content.
func encodePayload(declaredType string, data []byte) (string, uint64) {
	mime := declaredType
	if mime == "" {
		mime = mimetype.Detect(data).String()
	}
	return dataURLPrefix + mime + dataURLSeparator + base64.StdEncoding.EncodeToString(data), xxhash.Sum64(data)
}

func decodePayload(encoded string) (string, []byte, error) {
	if !strings.HasPrefix(encoded, dataURLPrefix) {
		return "", nil, errMalformedPayload
	}

	idx := strings.LastIndex(encoded, dataURLSeparator)
	if idx < 0 {
		return "", nil, errMalformedPayload
	}

	mime := encoded[len(dataURLPrefix):idx]
	data, err := base64.StdEncoding.DecodeString(encoded[idx+len(dataURLSeparator):])
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode payload: %w", err)
	}
	return mime, data, nil
}

// GetFileFromStored restores the original bytes, name and declared type of
// a stored photo. The payload checksum is verified.
func GetFileFromStored(photo *models.StoredPhoto) (models.CapturedFile, error) {
	_, data, err := decodePayload(photo.FileData)
	if err != nil {
		return models.CapturedFile{}, &apperrors.EncodingError{PhotoID: photo.ID, Err: err}
	}

	if sum := xxhash.Sum64(data); sum != photo.Checksum {
		return models.CapturedFile{}, &apperrors.EncodingError{
			PhotoID: photo.ID,
			Err:     fmt.Errorf("checksum mismatch: stored %x, computed %x", photo.Checksum, sum),
		}
	}

	return models.CapturedFile{
		Name: photo.FileName,
		Type: photo.FileType,
		Data: data,
	}, nil
}

// ContentType is the MIME type to upload the photo with: the declared type,
// or the sniffed one when none was declared.
func ContentType(photo *models.StoredPhoto) string {
	if photo.FileType != "" {
		return photo.FileType
	}
	mime, _, err := decodePayload(photo.FileData)
	if err != nil || mime == "" {
		return "application/octet-stream"
	}
	return mime
}
