package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/and161185/portfolio-api/internal/model"
)

func (s *Server) handleListPosts(c *gin.Context) {
	skip, limit, err := pageParams(c)
	if err != nil {
		WriteError(c, s.log, err)
		return
	}
	posts, err := s.deps.Posts.List(c.Request.Context(), model.PostFilter{
		Category: c.Query("category"),
		Skip:     skip,
		Limit:    limit,
	})
	if err != nil {
		WriteError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(posts, toPostResponse))
}

func (s *Server) handleGetPost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	p, err := s.deps.Posts.Get(c.Request.Context(), id)
	if err != nil {
		WriteError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, toPostResponse(p))
}

func (s *Server) handleCreatePost(c *gin.Context) {
	image, closeImage, err := formUpload(c, "image")
	if err != nil {
		WriteError(c, s.log, err)
		return
	}
	defer closeImage()

	p, err := s.deps.Posts.Create(c.Request.Context(), model.Post{
		Title:    c.PostForm("title"),
		Content:  c.PostForm("content"),
		Tags:     c.PostForm("tags"),
		Category: c.PostForm("category"),
	}, image)
	if err != nil {
		WriteError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, toPostResponse(p))
}

// handleReplacePost accepts multipart with optional fields and an optional new image.
func (s *Server) handleReplacePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	image, closeImage, err := formUpload(c, "image")
	if err != nil {
		WriteError(c, s.log, err)
		return
	}
	defer closeImage()

	patch := model.PostPatch{
		Title:    formString(c, "title"),
		Content:  formString(c, "content"),
		Tags:     formString(c, "tags"),
		Category: formString(c, "category"),
	}
	p, err := s.deps.Posts.Update(c.Request.Context(), id, patch, image)
	if err != nil {
		WriteError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, toPostResponse(p))
}

func (s *Server) handlePatchPost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req postPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	p, err := s.deps.Posts.Update(c.Request.Context(), id, req.patch(), nil)
	if err != nil {
		WriteError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, toPostResponse(p))
}

func (s *Server) handleDeletePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := s.deps.Posts.Delete(c.Request.Context(), id); err != nil {
		WriteError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Post deleted successfully"})
}
