package fakebackend

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"SettleKaro/internal/domain/dispute"
	"SettleKaro/pkg/logger"

	"github.com/gin-gonic/gin"
)

const maxEvidenceText = 4000

type DisputeHandler struct {
	repo     *Memory
	mediator Mediator
	log      *slog.Logger
}

func NewDisputeHandler(repo *Memory, mediator Mediator, log *slog.Logger) *DisputeHandler {
	return &DisputeHandler{repo: repo, mediator: mediator, log: log}
}

func (h *DisputeHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.repo.List())
}

func (h *DisputeHandler) Get(c *gin.Context) {
	d, err := h.repo.Get(c.Param("dispute_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// Create accepts the multipart submission: text fields, JSON encoded parties
// and evidence_<i> files.
func (h *DisputeHandler) Create(c *gin.Context) {
	title := c.PostForm("title")
	description := c.PostForm("description")
	rawCategory := c.PostForm("category")
	if strings.TrimSpace(title) == "" || strings.TrimSpace(description) == "" || rawCategory == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}
	category, err := dispute.NewCategory(rawCategory)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var amount *float64
	if raw := c.PostForm("amount"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
			return
		}
		amount = &v
	}

	var parties dispute.Parties
	if raw := c.DefaultPostForm("parties", "{}"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &parties); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid parties"})
			return
		}
	}

	refs, texts, err := readEvidence(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created := h.repo.Create(dispute.Dispute{
		DisputeInfo: dispute.DisputeInfo{
			Title:       title,
			Description: description,
			Category:    category,
			Amount:      amount,
			Parties:     parties,
		},
		Evidence:      refs,
		EvidenceTexts: texts,
	})
	h.log.InfoContext(logger.WithDisputeID(c.Request.Context(), created.ID), "dispute created", slog.Int("evidence", len(refs)))
	c.JSON(http.StatusCreated, created)
}

type statusReq struct {
	Status string `json:"status"`
}

func (h *DisputeHandler) UpdateStatus(c *gin.Context) {
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	status, err := dispute.NewStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	if _, err := h.repo.Update(c.Param("dispute_id"), dispute.StatusPatch(status)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated successfully"})
}

func (h *DisputeHandler) Mediate(c *gin.Context) {
	id := c.Param("dispute_id")
	d, err := h.repo.Get(id)
	if err != nil {
		h.fail(c, err)
		return
	}

	analysis, suggestions := h.mediator.Analyze(d)
	if _, err := h.repo.Update(id, dispute.MediationPatch(analysis, suggestions)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": analysis, "settlement_suggestions": suggestions})
}

type chatReq struct {
	Message string `json:"message"`
}

func (h *DisputeHandler) Chat(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	id := c.Param("dispute_id")
	d, err := h.repo.Get(id)
	if err != nil {
		h.fail(c, err)
		return
	}

	reply := h.mediator.Reply(d, req.Message)
	if err := h.repo.AppendChat(id, req.Message, reply); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": reply})
}

type chatRecord struct {
	UserMessage string `json:"user_message"`
	AIResponse  string `json:"ai_response"`
	Timestamp   string `json:"timestamp"`
}

// ChatHistory lists the turns of one dispute oldest first. Timestamps use
// the HTTP date format the production backend emits.
func (h *DisputeHandler) ChatHistory(c *gin.Context) {
	turns := h.repo.ChatHistory(c.Param("dispute_id"))
	out := make([]chatRecord, 0, len(turns))
	for _, t := range turns {
		out = append(out, chatRecord{
			UserMessage: t.userMessage,
			AIResponse:  t.aiResponse,
			Timestamp:   t.at.UTC().Format(http.TimeFormat),
		})
	}
	c.JSON(http.StatusOK, out)
}

func (h *DisputeHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dispute not found"})
		return
	}
	h.log.ErrorContext(c.Request.Context(), "request failed", slog.Any("error", err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// readEvidence collects evidence_<i> files in index order. Plain text files
// contribute an extracted text block.
func readEvidence(c *gin.Context) ([]dispute.EvidenceRef, []string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	type indexed struct {
		index int
		file  *multipart.FileHeader
	}
	var files []indexed
	for key, headers := range form.File {
		raw, ok := strings.CutPrefix(key, "evidence_")
		if !ok || len(headers) == 0 {
			continue
		}
		i, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		files = append(files, indexed{index: i, file: headers[0]})
	}
	slices.SortFunc(files, func(a, b indexed) int { return a.index - b.index })

	refs := make([]dispute.EvidenceRef, 0, len(files))
	texts := make([]string, 0, len(files))
	for _, f := range files {
		refs = append(refs, dispute.EvidenceRef{
			Name:        f.file.Filename,
			ContentType: f.file.Header.Get("Content-Type"),
			Size:        int(f.file.Size),
		})
		texts = append(texts, extractText(f.file))
	}
	return refs, texts, nil
}

func extractText(fh *multipart.FileHeader) string {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext != ".txt" && ext != ".md" {
		return "--- Could not extract text from " + fh.Filename + " ---"
	}
	f, err := fh.Open()
	if err != nil {
		return "--- Could not extract text from " + fh.Filename + " ---"
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, maxEvidenceText))
	if err != nil {
		return "--- Could not extract text from " + fh.Filename + " ---"
	}
	return "--- Evidence from " + fh.Filename + " ---\n" + string(raw)
}
