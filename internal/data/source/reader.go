// Package source reads files from disk and decodes them to UTF-8 text.
package source

import (
	"fmt"
	"os"
	"strings"

	"codeshape/internal/core/errors"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Reader loads source files. A zero MaxBytes means no size limit.
type Reader struct {
	MaxBytes int64
}

func NewReader(maxBytes int64) *Reader {
	return &Reader{MaxBytes: maxBytes}
}

// Read returns the content of path decoded from the named encoding. Labels
// follow the WHATWG encoding registry ("utf-8", "latin1", "shift_jis", ...);
// an empty label means UTF-8. A byte order mark always wins over the label.
func (r *Reader) Read(path, encodingLabel string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", pathError(err, errors.CodeNotFound, "source file not found", path)
		}
		return "", errors.AddContext(err, errors.CtxPath, path)
	}
	if info.IsDir() {
		return "", pathError(nil, errors.CodeValidationError, "path is a directory", path)
	}
	if r.MaxBytes > 0 && info.Size() > r.MaxBytes {
		msg := fmt.Sprintf("file is %d bytes, limit is %d", info.Size(), r.MaxBytes)
		return "", pathError(nil, errors.CodeValidationError, msg, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.AddContext(err, errors.CtxPath, path)
	}
	text, err := Decode(data, encodingLabel)
	if err != nil {
		return "", errors.AddContext(err, errors.CtxPath, path)
	}
	return text, nil
}

// Decode converts data to UTF-8. Invalid sequences become U+FFFD.
func Decode(data []byte, encodingLabel string) (string, error) {
	enc, err := Lookup(encodingLabel)
	if err != nil {
		return "", err
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(enc.NewDecoder()), data)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeValidationError, "decode failed")
	}
	return string(out), nil
}

// Lookup resolves an encoding label.
func Lookup(label string) (encoding.Encoding, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, fmt.Sprintf("unknown encoding %q", label))
	}
	return enc, nil
}

func pathError(err error, code errors.ErrorCode, msg, path string) error {
	de := &errors.DomainError{Code: code, Message: msg, Err: err}
	return de.WithContext(errors.CtxPath, path)
}
