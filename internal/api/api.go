package api

import (
	"errors"
	"image"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/user2862486/comfy-cloudflare-uploader/internal/app"
	"github.com/user2862486/comfy-cloudflare-uploader/internal/imaging"
	"github.com/user2862486/comfy-cloudflare-uploader/internal/node"
	"github.com/user2862486/comfy-cloudflare-uploader/internal/node/imagenode"
	"github.com/user2862486/comfy-cloudflare-uploader/internal/node/uploadnode"
)

var errNoFiles = errors.New("no files provided")

// ListNodes reports the registered node types and their metadata.
func ListNodes(c *gin.Context) {
	infos := make([]node.Info, 0)
	for _, name := range node.Types() {
		if n, ok := node.Get(name); ok {
			infos = append(infos, n.Info())
		}
	}

	c.JSON(http.StatusOK, gin.H{"nodes": infos})
}

// UploadImages accepts a multipart batch of images and runs the Cloudflare
// upload node over it.
func UploadImages(c *gin.Context) {
	app := getApp(c)
	requestID := uuid.NewString()

	batch, err := batchFromRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	uploader, ok := node.Get(uploadnode.NodeType)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "upload node not registered"})
		return
	}

	inputs := map[string]any{
		"images":          batch,
		"account_id":      c.PostForm("account_id"),
		"api_token":       c.PostForm("api_token"),
		"filename_prefix": c.PostForm("filename_prefix"),
	}

	app.Logger().Info("executing upload node",
		zap.String("request_id", requestID),
		zap.Int("batch_size", len(batch)))

	outputs, err := uploader.Execute(c.Request.Context(), app, inputs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"request_id":    requestID,
		"cloudflare_id": outputs["cloudflare_id"],
		"ui":            outputs[uploadnode.UIOutputKey],
	})
}

// SaveImages accepts a multipart batch and stores it through the configured
// file storage backend.
func SaveImages(c *gin.Context) {
	app := getApp(c)

	batch, err := batchFromRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	saver, ok := node.Get(imagenode.SaveImageType)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "save node not registered"})
		return
	}

	inputs := map[string]any{
		"images":  batch,
		"format":  c.DefaultPostForm("format", "png"),
		"is_temp": c.PostForm("is_temp") == "true",
	}

	outputs, err := saver.Execute(c.Request.Context(), app, inputs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"urls": outputs["urls"]})
}

// GetFile serves a locally stored asset.
func GetFile(c *gin.Context) {
	app := getApp(c)

	file, err := app.Storage().GetFile(c.Request.Context(), c.Param("filename"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "file not found"})
		return
	}

	c.Data(http.StatusOK, mimetype.Detect(file.Content).String(), file.Content)
}

func getApp(c *gin.Context) *app.App {
	return c.MustGet("app").(*app.App)
}

func batchFromRequest(c *gin.Context) (imaging.Batch, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}

	files := form.File["files"]
	if len(files) == 0 {
		return nil, errNoFiles
	}

	images := make([]image.Image, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			return nil, err
		}

		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, err
		}

		format := strings.TrimPrefix(filepath.Ext(header.Filename), ".")
		img, err := imaging.Decode(data, format)
		if err != nil {
			return nil, err
		}

		images = append(images, img)
	}

	return imaging.BatchFromImages(images, imaging.RequireUniform, image.Point{})
}
