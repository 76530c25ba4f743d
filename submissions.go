package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"silayan/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	nikRE   = regexp.MustCompile(`^\d{16}$`)
	last4RE = regexp.MustCompile(`^\d{4}$`)
)

// newTrackingCode builds the public reference a citizen uses to query status.
func newTrackingCode() string {
	id := uuid.New()
	return "LYN-" + strings.ToUpper(hexTrim(id.String()))
}

// hexTrim keeps the first 8 hex chars of a uuid string.
func hexTrim(s string) string {
	s = strings.ReplaceAll(s, "-", "")
	if len(s) > 8 {
		s = s[:8]
	}
	return s
}

// createSubmissionHandler registers a new citizen service request. Multipart
// form so an optional lampiran file can ride along with the fields.
func (s *Server) createSubmissionHandler(c *gin.Context) {
	nama := strings.TrimSpace(c.PostForm("nama"))
	nik := strings.TrimSpace(c.PostForm("nik"))
	email := strings.TrimSpace(c.PostForm("email"))
	noWA := strings.TrimSpace(c.PostForm("no_wa"))
	jenis := strings.TrimSpace(c.PostForm("jenis_layanan"))

	if nama == "" || noWA == "" || jenis == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "nama, no_wa dan jenis_layanan wajib diisi"})
		return
	}
	if !nikRE.MatchString(nik) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "nik harus 16 digit"})
		return
	}

	sub := models.Submission{
		TrackingCode: newTrackingCode(),
		Nama:         nama,
		NIK:          nik,
		Email:        email,
		NoWA:         noWA,
		JenisLayanan: jenis,
		Status:       models.StatusPengajuanBaru,
	}
	if err := s.db.Create(&sub).Error; err != nil {
		if isUniqueConstraintError(err) {
			// tracking code collision, one retry with a fresh code
			sub.TrackingCode = newTrackingCode()
			err = s.db.Create(&sub).Error
		}
		if err != nil {
			log.Printf("create submission: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "gagal menyimpan pengajuan"})
			return
		}
	}

	// optional supporting document
	if file, err := c.FormFile("lampiran"); err == nil {
		if file.Size > 5*1024*1024 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "lampiran terlalu besar (maks 5MB)"})
			return
		}
		ct := file.Header.Get("Content-Type")
		baseDir := uploadBaseDir()
		relPath := filepath.Join("lampiran", sub.TrackingCode, filepath.Base(file.Filename))
		fullPath := filepath.Join(baseDir, relPath)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "gagal menyimpan lampiran"})
			return
		}
		if err := c.SaveUploadedFile(file, fullPath); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "gagal menyimpan lampiran"})
			return
		}
		lamp := models.Lampiran{SubmissionID: sub.ID, FileName: file.Filename, StorePath: relPath, ContentType: ct}
		if err := s.db.Create(&lamp).Error; err != nil {
			log.Printf("create lampiran for submission %d: %v", sub.ID, err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "pengajuan berhasil dibuat",
		"submission_id": sub.ID,
		"tracking_code": sub.TrackingCode,
		"status":        sub.Status,
	})
}

// trackSubmissionHandler is the public lookup: tracking code plus the last 4
// NIK digits as a weak shared secret. The response is redacted (NIK masked,
// email never exposed).
func (s *Server) trackSubmissionHandler(c *gin.Context) {
	code := c.Param("tracking_code")
	last4 := c.Query("last4_nik")
	if !last4RE.MatchString(last4) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "last4_nik harus 4 digit"})
		return
	}
	var sub models.Submission
	if err := s.db.Where("tracking_code = ?", code).First(&sub).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "pengajuan tidak ditemukan"})
		return
	}
	if len(sub.NIK) < 4 || sub.NIK[len(sub.NIK)-4:] != last4 {
		c.JSON(http.StatusForbidden, gin.H{"message": "verifikasi nik gagal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tracking_code": sub.TrackingCode,
		"nama":          sub.Nama,
		"nik":           maskNIK(sub.NIK),
		"jenis_layanan": sub.JenisLayanan,
		"status":        sub.Status,
		"created_at":    sub.CreatedAt,
		"updated_at":    sub.UpdatedAt,
	})
}

// maskNIK exposes only the last 4 digits.
func maskNIK(nik string) string {
	if len(nik) <= 4 {
		return nik
	}
	return strings.Repeat("*", len(nik)-4) + nik[len(nik)-4:]
}

// listSubmissionsHandler returns recent submissions for the admin console,
// optionally filtered by status.
func (s *Server) listSubmissionsHandler(c *gin.Context) {
	q := s.db.Model(&models.Submission{})
	if st := c.Query("status"); st != "" {
		if !models.ValidStatus(st) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "status tidak valid"})
			return
		}
		q = q.Where("status = ?", st)
	}
	var items []models.Submission
	if err := q.Order("id desc").Limit(200).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "query failed"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// listNotificationLogsHandler returns the audit trail for one submission.
func (s *Server) listNotificationLogsHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "pengajuan tidak ditemukan"})
		return
	}
	if _, err := s.store.FindSubmission(uint(id)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "pengajuan tidak ditemukan"})
		return
	}
	var logs []models.NotificationLog
	if err := s.db.Where("submission_id = ?", id).Order("id desc").Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "query failed"})
		return
	}
	c.JSON(http.StatusOK, logs)
}
