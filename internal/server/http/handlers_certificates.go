package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/and161185/portfolio-api/internal/model"
)

func (s *Server) handleListCertificates(c *gin.Context) {
	skip, limit, err := pageParams(c)
	if err != nil {
		WriteError(c, s.log, err)
		return
	}
	certs, err := s.deps.Certificates.List(c.Request.Context(), model.Page{Skip: skip, Limit: limit})
	if err != nil {
		WriteError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(certs, toCertificateResponse))
}

func (s *Server) handleGetCertificate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	cert, err := s.deps.Certificates.Get(c.Request.Context(), id)
	if err != nil {
		WriteError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, toCertificateResponse(cert))
}

func (s *Server) handleCreateCertificate(c *gin.Context) {
	image, closeImage, err := formUpload(c, "image")
	if err != nil {
		WriteError(c, s.log, err)
		return
	}
	defer closeImage()

	cert, err := s.deps.Certificates.Create(c.Request.Context(), model.Certificate{
		Title:  c.PostForm("title"),
		Issuer: c.PostForm("issuer"),
		Date:   c.PostForm("date"),
	}, image)
	if err != nil {
		WriteError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, toCertificateResponse(cert))
}

func (s *Server) handleReplaceCertificate(c *gin.Context) {
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

	patch := model.CertificatePatch{
		Title:  formString(c, "title"),
		Issuer: formString(c, "issuer"),
		Date:   formString(c, "date"),
	}
	cert, err := s.deps.Certificates.Update(c.Request.Context(), id, patch, image)
	if err != nil {
		WriteError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, toCertificateResponse(cert))
}

func (s *Server) handlePatchCertificate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req certificatePatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	patch := model.CertificatePatch{Title: req.Title, Issuer: req.Issuer, Date: req.Date}
	cert, err := s.deps.Certificates.Update(c.Request.Context(), id, patch, nil)
	if err != nil {
		WriteError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, toCertificateResponse(cert))
}

func (s *Server) handleDeleteCertificate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := s.deps.Certificates.Delete(c.Request.Context(), id); err != nil {
		WriteError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Certificate deleted successfully"})
}
