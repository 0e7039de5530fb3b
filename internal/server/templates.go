package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/common"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/template"
)

func (s *Server) listTemplates(c *gin.Context) {
	catalog, err := s.catalog.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": catalog})
}

func (s *Server) getTemplate(c *gin.Context) {
	tpl, err := s.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tpl)
}

// saveTemplate creates or replaces one template. The catalog is small and
// read as a whole snapshot at extraction time, so a save is immediately
// visible to the next submission.
func (s *Server) saveTemplate(c *gin.Context) {
	var tpl template.Template
	if err := c.ShouldBindJSON(&tpl); err != nil {
		fail(c, common.NewAppError("TEMPLATE", "invalid template body", common.ErrInvalidInput))
		return
	}
	if id := c.Param("id"); id != "" {
		tpl.ID = id
	}
	if err := s.catalog.Save(c.Request.Context(), tpl); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tpl)
}

// deleteTemplate removes a template from the catalog. Documents already
// pointing at the id keep the reference; their data remains editable as raw
// key/value pairs.
func (s *Server) deleteTemplate(c *gin.Context) {
	if err := s.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}
