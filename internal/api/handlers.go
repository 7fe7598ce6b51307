package api

import (
	"bytes"
	"fmt"
	"image"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/emontenegrop/carnet-estudiantil/internal/config"
	imagepkg "github.com/emontenegrop/carnet-estudiantil/internal/image"
	"github.com/emontenegrop/carnet-estudiantil/internal/logger"
	"github.com/emontenegrop/carnet-estudiantil/internal/pipeline"
	"github.com/emontenegrop/carnet-estudiantil/internal/students"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler serves badge generation over HTTP with one shared renderer.
type Handler struct {
	cfg      config.Config
	renderer *imagepkg.Renderer
	template image.Image
	log      *logger.Logger
}

// NewHandler loads fonts and the configured template once. A missing
// template only means uploads without their own template get a blank badge.
func NewHandler(cfg config.Config, log *logger.Logger) *Handler {
	log = log.With("component", "api")
	return &Handler{
		cfg:      cfg,
		renderer: imagepkg.NewRenderer(pipeline.RendererOptions(cfg), log),
		template: imagepkg.LoadTemplate(cfg.Template, log),
		log:      log,
	}
}

// health
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// badgesHandler takes a multipart "roster" (text or .xlsx) and an optional
// "template" image, and answers with the PDF.
func (h *Handler) badgesHandler(c *gin.Context) {
	log := h.log.With("request", uuid.NewString())

	fh, err := c.FormFile("roster")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roster file is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	var list []students.Student
	if strings.EqualFold(filepath.Ext(fh.Filename), ".xlsx") {
		list, _, err = students.ReadXLSX(f)
	} else {
		list, _, err = students.Parse(f)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	list = students.Filter(list, students.FilterOptions{
		Classes:   config.SplitList(c.PostForm("class")),
		Levels:    config.SplitList(c.PostForm("level")),
		FreeWords: c.PostForm("q"),
	})
	if len(list) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": pipeline.ErrNoStudents.Error()})
		return
	}

	tpl := h.template
	if th, err := c.FormFile("template"); err == nil {
		tf, err := th.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		tpl = imagepkg.DecodeTemplate(tf, log)
		tf.Close()
	}

	g := &pipeline.Generator{
		Renderer: h.renderer,
		Template: tpl,
		BaseDir:  pipeline.PhotoBase(h.cfg),
		Workers:  h.cfg.Workers,
		Title:    h.cfg.Title,
		Log:      log,
	}
	var buf bytes.Buffer
	sum, err := g.Write(c.Request.Context(), list, &buf)
	if err != nil {
		log.Error("badge generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "badge generation failed"})
		return
	}
	log.Info("pdf generated", "badges", sum.Badges, "pages", sum.Pages)

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", filepath.Base(h.cfg.Output)))
	c.Header("X-Badge-Count", strconv.Itoa(sum.Badges))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// previewHandler renders one badge from a JSON student.
func (h *Handler) previewHandler(c *gin.Context) {
	var s students.Student
	if err := c.BindJSON(&s); err != nil {
		return
	}
	if !s.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "full_name, class_name, id_number, level and photo_path are required"})
		return
	}
	img := h.renderer.RenderBadge(s, h.template, pipeline.PhotoBase(h.cfg))
	buf := new(bytes.Buffer)
	if err := imagepkg.EncodePNG(buf, img); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// qr endpoint returns a PNG of a QR for "text" query param
func qrHandler(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	size := 400
	if sizeStr := c.Query("size"); sizeStr != "" {
		if v, err := strconv.Atoi(sizeStr); err == nil && v > 0 && v <= 2048 {
			size = v
		}
	}
	b, err := imagepkg.GenerateQRPNG(text, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}
