package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kwasu-works/lostfound-bot/blob"
)

// FileController serves found-item photos through signed proxy URLs so the
// bot token never appears in links handed to users.
type FileController struct {
	Relay *blob.ProxyRelay
	Files blob.FileSource
}

func NewFileController(relay *blob.ProxyRelay, files blob.FileSource) *FileController {
	return &FileController{Relay: relay, Files: files}
}

func (fc *FileController) ServeFile(c *gin.Context) {
	token := c.Param("token")

	fileID, err := fc.Relay.VerifyToken(token)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	file, err := fc.Files.GetFile(c.Request.Context(), fileID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	data, contentType, err := fc.Files.DownloadFile(c.Request.Context(), file.FilePath)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch file"})
		return
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}

	c.Data(http.StatusOK, contentType, data)
}
