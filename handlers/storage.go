package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"parkwise/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxPhotoBytes = 5 << 20

var allowedPhotoExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// saveUpload stores the multipart "file" field in a temp file. The caller removes it.
// It writes the error response itself and returns ok=false on failure.
func saveUpload(c *gin.Context) (string, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.JSONErrorCode(c, http.StatusBadRequest, "invalidInput", "file not provided", err.Error())
		return "", false
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedPhotoExt[ext] {
		utils.JSONErrorCode(c, http.StatusBadRequest, "invalidInput", "unsupported file type", fmt.Sprintf("allowed: jpg, jpeg, png, webp; got %q", ext))
		return "", false
	}
	if fileHeader.Size > maxPhotoBytes {
		utils.JSONErrorCode(c, http.StatusRequestEntityTooLarge, "invalidInput", "file too large", "")
		return "", false
	}

	tempFilePath := filepath.Join(os.TempDir(), uuid.New().String()+ext)
	if err := c.SaveUploadedFile(fileHeader, tempFilePath); err != nil {
		getLogger(c).Error("failed to save upload")
		utils.JSONErrorCode(c, http.StatusInternalServerError, "internal", "failed to save file", "")
		return "", false
	}
	return tempFilePath, true
}
