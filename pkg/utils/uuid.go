package utils

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ParseID parses a positive numeric row id from a path parameter
func ParseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// StoredFileName returns a collision-free file name that keeps the lower-cased
// extension of the original upload.
func StoredFileName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return uuid.New().String() + ext
}
