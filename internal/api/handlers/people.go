package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/your-org/sentinela/internal/auth"
	"github.com/your-org/sentinela/internal/face"
	"github.com/your-org/sentinela/internal/models"
	"github.com/your-org/sentinela/internal/storage"
	"github.com/your-org/sentinela/pkg/dto"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

type PeopleHandler struct {
	db       *storage.PostgresStore
	searcher *face.Searcher
}

func NewPeopleHandler(db *storage.PostgresStore, searcher *face.Searcher) *PeopleHandler {
	return &PeopleHandler{db: db, searcher: searcher}
}

func (h *PeopleHandler) Create(c *gin.Context) {
	var req dto.CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.CPF != nil && *req.CPF != "" {
		existing, err := h.db.GetPersonByCPF(c.Request.Context(), *req.CPF)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if existing != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "cpf already registered"})
			return
		}
	}

	person := &models.Person{
		FullName:         req.FullName,
		Nickname:         req.Nickname,
		CPF:              req.CPF,
		RG:               req.RG,
		VoterID:          req.VoterID,
		AddressPrimary:   req.AddressPrimary,
		AddressSecondary: req.AddressSecondary,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		MotherName:       req.MotherName,
		FatherName:       req.FatherName,
		WarrantStatus:    req.WarrantStatus,
		WarrantFileURL:   req.WarrantFileURL,
		Notes:            req.Notes,
		IsConfidential:   req.IsConfidential,
		CreatedBy:        auth.CurrentPrincipal(c).Name,
	}

	if err := h.db.CreatePerson(c.Request.Context(), person); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, personResponse(person))
}

func (h *PeopleHandler) List(c *gin.Context) {
	var q dto.PersonQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 20
	}

	filter := storage.NewFilter()
	if !auth.CurrentPrincipal(c).Role.CanViewConfidential() {
		filter.Eq("is_confidential", false)
	}
	if q.FullName != "" {
		filter.ILike("full_name", q.FullName)
	}
	if q.CPF != "" {
		filter.Eq("cpf", q.CPF)
	}
	if q.MotherName != "" {
		filter.ILike("mother_name", q.MotherName)
	}
	if q.IsConfidential != nil {
		filter.Eq("is_confidential", *q.IsConfidential)
	}

	persons, total, err := h.db.ListPersons(c.Request.Context(), filter, q.Limit, (q.Page-1)*q.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.PersonResponse, 0, len(persons))
	for i := range persons {
		resp = append(resp, personResponse(&persons[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"people": resp,
		"total":  total,
		"page":   q.Page,
		"limit":  q.Limit,
	})
}

func (h *PeopleHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid person id"})
		return
	}

	person, err := h.db.GetPerson(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if person == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "person not found"})
		return
	}

	// Single-record confidential access is an outright 403, unlike search
	// where confidential records are silently filtered out.
	if person.IsConfidential && !auth.CurrentPrincipal(c).Role.CanViewConfidential() {
		c.JSON(http.StatusForbidden, gin.H{"error": "access to confidential record denied"})
		return
	}

	c.JSON(http.StatusOK, personResponse(person))
}

func (h *PeopleHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid person id"})
		return
	}

	if err := h.db.DeletePerson(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// SearchByFace performs a face similarity search over an uploaded image.
func (h *PeopleHandler) SearchByFace(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": `image file required (field "image")`})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image format, accepted: JPEG, JPG, PNG"})
		return
	}

	image, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "read image failed"})
		return
	}

	params, err := searchParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	matches, err := h.searcher.SearchByFace(c.Request.Context(), image, contentType,
		params, auth.CurrentPrincipal(c).Role)
	if err != nil {
		switch {
		case errors.Is(err, face.ErrEmptyImage):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, face.ErrNoEmbedding):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	results := make([]dto.FaceSearchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, dto.FaceSearchResult{
			Person:     personResponse(&m.Person),
			Similarity: m.Similarity,
			Distance:   m.Distance,
			PhotoURL:   m.PhotoURL,
		})
	}

	c.JSON(http.StatusOK, gin.H{"results": results, "total": len(results)})
}

// searchParams reads optional limit/threshold form fields, falling back to
// the defaults when absent.
func searchParams(c *gin.Context) (face.SearchParams, error) {
	params := face.DefaultSearchParams()

	if v := c.PostForm("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return params, errors.New("limit must be a number")
		}
		params.Limit = n
	}
	if v := c.PostForm("threshold"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return params, errors.New("threshold must be a number")
		}
		params.Threshold = f
	}
	return params, nil
}

func personResponse(p *models.Person) dto.PersonResponse {
	return dto.PersonResponse{
		ID:               p.ID,
		FullName:         p.FullName,
		Nickname:         p.Nickname,
		CPF:              p.CPF,
		RG:               p.RG,
		VoterID:          p.VoterID,
		AddressPrimary:   p.AddressPrimary,
		AddressSecondary: p.AddressSecondary,
		Latitude:         p.Latitude,
		Longitude:        p.Longitude,
		MotherName:       p.MotherName,
		FatherName:       p.FatherName,
		WarrantStatus:    p.WarrantStatus,
		WarrantFileURL:   p.WarrantFileURL,
		Notes:            p.Notes,
		IsConfidential:   p.IsConfidential,
		CreatedAt:        p.CreatedAt.Format(time.RFC3339),
	}
}
