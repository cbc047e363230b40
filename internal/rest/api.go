package rest

import "github.com/gin-gonic/gin"

// NewApi registers the upload pipeline routes on the router.
func NewApi(router *gin.Engine, upload *UploadHandler) {
	uploadAPI := router.Group("api/upload")
	{
		uploadAPI.POST("/image", upload.UploadImage)
		uploadAPI.POST("/save", upload.SaveImages)
		uploadAPI.GET("/temp/:variant/:filename", upload.GetStaged)
		uploadAPI.GET("/db/:id", upload.GetImage)
		uploadAPI.GET("/db/:id/thumbnail", upload.GetThumbnail)
	}
}
